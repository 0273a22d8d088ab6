/*
 * atomicdata.go, part of gofuller.
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

// Unit conversions.
const (
	H2eV   = 27.211386 //Hartree to eV
	Bohr2A = 0.529177  //Bohr to Angstrom
)

// qHP C60 network lattice parameters (Angstrom), from the reference
// structure: a along [100], b along [010], c is the vacuum direction.
const (
	QHPLatticeA = 36.67
	QHPLatticeB = 30.84
	QHPLatticeC = 20.0
)

// SymbolMass maps chemical symbols to atomic masses. Only the elements
// that appear in fullerene doping studies are present.
var SymbolMass = map[string]float64{
	"H":  1.008,
	"B":  10.81,
	"C":  12.011,
	"N":  14.007,
	"O":  15.999,
	"P":  30.974,
	"Li": 6.94,
	"Na": 22.990,
	"K":  39.098,
}

// BasisSet maps chemical symbols to the CP2K MOLOPT basis set used for
// them. Alkali metals need the short-range variant.
var BasisSet = map[string]string{
	"C":  "DZVP-MOLOPT-GTH",
	"B":  "DZVP-MOLOPT-GTH",
	"N":  "DZVP-MOLOPT-GTH",
	"P":  "DZVP-MOLOPT-GTH",
	"H":  "DZVP-MOLOPT-GTH",
	"O":  "DZVP-MOLOPT-GTH",
	"Li": "DZVP-MOLOPT-SR-GTH",
	"Na": "DZVP-MOLOPT-SR-GTH",
	"K":  "DZVP-MOLOPT-SR-GTH",
}

// Dopants lists the substitutional dopant elements covered by the
// doping generators.
var Dopants = []string{"B", "N", "P"}

// NewAtom returns an Atom with the symbol s and its tabulated mass, or
// zero mass for unknown symbols.
func NewAtom(s string) *Atom {
	return &Atom{Symbol: s, Mass: SymbolMass[s]}
}
