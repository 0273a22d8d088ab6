/*
 * doping.go, part of gofuller.
 *
 *
 * Copyright 2025 Xiaoqing Chen
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package fuller

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// Strategy selects how substitution sites are chosen when doping.
type Strategy string

const (
	Random    Strategy = "random"    //uniformly random carbon sites
	Uniform   Strategy = "uniform"   //evenly spaced along the atom order
	Clustered Strategy = "clustered" //a bonded cluster grown from a random seed site
)

// bondCutoff is the C-C distance (Angstrom) below which two atoms are
// considered bonded when growing doping clusters.
const bondCutoff = 2.0

// DopantCount returns the number of dopant atoms placed for the given
// number of carbon sites and a concentration in percent: at least one,
// and never more than the available sites.
func DopantCount(nCarbons int, concentration float64) int {
	n := int(float64(nCarbons) * concentration / 100.0)
	if n < 1 {
		n = 1
	}
	if n > nCarbons {
		n = nCarbons
	}
	return n
}

// Dope returns a copy of mol with carbon atoms substituted by the
// dopant element at the given concentration (percent), choosing sites
// according to the strategy. The rand source makes runs reproducible;
// pass rand.NewSource(seed) with a fixed seed for deterministic
// structures.
func Dope(mol *Molecule, dopant string, concentration float64, strategy Strategy, src rand.Source) (*Molecule, error) {
	if _, ok := SymbolMass[dopant]; !ok {
		return nil, fmt.Errorf("Dope: unknown dopant element %q", dopant)
	}
	carbons := mol.SymbolIndexes("C")
	if len(carbons) == 0 {
		return nil, fmt.Errorf("Dope: structure has no carbon sites")
	}
	n := DopantCount(len(carbons), concentration)
	rng := rand.New(src)
	var sites []int
	var err error
	switch strategy {
	case Random:
		sites = randomSites(carbons, n, rng)
	case Uniform:
		sites = uniformSites(carbons, n)
	case Clustered:
		sites, err = clusteredSites(mol, carbons, n, rng)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("Dope: unsupported strategy %q", strategy)
	}
	doped := mol.Copy()
	substitute(doped, sites, dopant)
	return doped, nil
}

// DopeMixed substitutes several dopant elements at once, e.g.
// {"B": 2.5, "N": 2.5} for B-N co-doping. Sites are chosen randomly and
// never reused across elements; if the carbon sites run out, the
// remaining elements get fewer dopants than requested.
func DopeMixed(mol *Molecule, config map[string]float64, src rand.Source) (*Molecule, error) {
	carbons := mol.SymbolIndexes("C")
	if len(carbons) == 0 {
		return nil, fmt.Errorf("DopeMixed: structure has no carbon sites")
	}
	rng := rand.New(src)
	doped := mol.Copy()
	available := append([]int{}, carbons...)
	//map iteration order is random; fix it so a seed gives one structure
	for _, dopant := range Dopants {
		conc, ok := config[dopant]
		if !ok {
			continue
		}
		if _, known := SymbolMass[dopant]; !known {
			return nil, fmt.Errorf("DopeMixed: unknown dopant element %q", dopant)
		}
		n := DopantCount(len(carbons), conc)
		if n > len(available) {
			n = len(available)
		}
		sites := randomSites(available, n, rng)
		substitute(doped, sites, dopant)
		available = remove(available, sites)
	}
	for dopant := range config {
		if !isInString(Dopants, dopant) {
			return nil, fmt.Errorf("DopeMixed: unknown dopant element %q", dopant)
		}
	}
	return doped, nil
}

func substitute(mol *Molecule, sites []int, dopant string) {
	for _, i := range sites {
		at := mol.Atom(i)
		at.Symbol = dopant
		at.Mass = SymbolMass[dopant]
	}
}

func randomSites(carbons []int, n int, rng *rand.Rand) []int {
	perm := rng.Perm(len(carbons))
	sites := make([]int, n)
	for i := 0; i < n; i++ {
		sites[i] = carbons[perm[i]]
	}
	return sites
}

func uniformSites(carbons []int, n int) []int {
	step := len(carbons) / n
	sites := make([]int, n)
	for i := 0; i < n; i++ {
		sites[i] = carbons[i*step]
	}
	return sites
}

// clusteredSites grows a bonded cluster of n carbon sites from a random
// start atom, falling back to arbitrary remaining carbons when the
// cluster cannot grow further.
func clusteredSites(mol *Molecule, carbons []int, n int, rng *rand.Rand) ([]int, error) {
	start := carbons[rng.Intn(len(carbons))]
	cluster := []int{start}
	inCluster := map[int]bool{start: true}
	frontier := []int{start}
	for len(cluster) < n {
		next := make([]int, 0)
		for _, site := range frontier {
			for _, j := range neighbors(mol, site, bondCutoff) {
				if mol.Atom(j).Symbol == "C" && !inCluster[j] {
					inCluster[j] = true
					next = append(next, j)
				}
			}
		}
		if len(next) == 0 {
			//disconnected leftovers: take any remaining carbons
			for _, j := range carbons {
				if !inCluster[j] {
					inCluster[j] = true
					next = append(next, j)
				}
				if len(cluster)+len(next) >= n {
					break
				}
			}
			if len(next) == 0 {
				return nil, fmt.Errorf("clustered doping: only %d carbon sites reachable, need %d", len(cluster), n)
			}
		}
		for _, j := range next {
			if len(cluster) < n {
				cluster = append(cluster, j)
			}
		}
		frontier = next
	}
	return cluster[:n], nil
}

// neighbors returns the indexes of atoms within cutoff Angstrom of atom
// i, excluding i itself.
func neighbors(mol *Molecule, i int, cutoff float64) []int {
	xi, yi, zi := mol.Coord(i)
	ret := make([]int, 0, 4)
	for j := 0; j < mol.Len(); j++ {
		if j == i {
			continue
		}
		xj, yj, zj := mol.Coord(j)
		dx, dy, dz := xj-xi, yj-yi, zj-zi
		if dx*dx+dy*dy+dz*dz <= cutoff*cutoff {
			ret = append(ret, j)
		}
	}
	return ret
}

func remove(from []int, sites []int) []int {
	drop := make(map[int]bool, len(sites))
	for _, s := range sites {
		drop[s] = true
	}
	kept := from[:0]
	for _, v := range from {
		if !drop[v] {
			kept = append(kept, v)
		}
	}
	return kept
}

// isInString returns true if test is in container.
func isInString(container []string, test string) bool {
	for _, i := range container {
		if test == i {
			return true
		}
	}
	return false
}
