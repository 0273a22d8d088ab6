/*
 * jobs.go, part of gofuller.
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

package run

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/rand"

	fuller "github.com/xqchen/gofuller"
)

// Job is one calculation to perform: a structure and the name under
// which its input, output and results are filed. The name encodes the
// parameters that produced the structure, so it can be parsed back by
// ParseJobName when only output files survive.
type Job struct {
	Name string
	Mol  *fuller.Molecule
}

// Meta is the parameter combination recovered from a job name. Zero
// values mean "not part of this job" (a pristine job has no dopant).
// A combined job carries both the strain and the doping fields; a
// co-doped job carries Mixed instead of Dopant/Concentration.
type Meta struct {
	Structure     string
	StrainKind    string
	Strain        float64
	Dopant        string
	Concentration float64
	Mixed         string //canonical co-doping label, e.g. "b2p5_n2p5"
	Strategy      string
	Replica       int
}

func buildStructure(name string) (*fuller.Molecule, error) {
	switch name {
	case "c60":
		return fuller.C60(), nil
	case "c60_cell":
		return fuller.C60Cell(), nil
	case "c60_dimer":
		return fuller.C60Dimer(10.0), nil
	case "network2", "network3", "network4":
		n := int(name[len(name)-1] - '0')
		return fuller.C60Network(n)
	default:
		return nil, fmt.Errorf("unknown structure %q", name)
	}
}

// concLabel encodes a concentration for job names: 2.5 -> "2p5".
func concLabel(percent float64) string {
	return strings.ReplaceAll(fmt.Sprintf("%.1f", percent), ".", "p")
}

func parseConcLabel(label string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(label, "p", "."), 64)
}

// mixedLabel encodes a co-doping config for job names, elements in
// B/N/P order so a config maps to exactly one label:
// {"B": 2.5, "N": 2.5} -> "b2p5_n2p5".
func mixedLabel(config map[string]float64) string {
	parts := make([]string, 0, len(config))
	for _, el := range fuller.Dopants {
		if conc, ok := config[el]; ok {
			parts = append(parts, strings.ToLower(el)+concLabel(conc))
		}
	}
	return strings.Join(parts, "_")
}

// MixedConfig inverts mixedLabel into the element->concentration map
// DopeMixed takes.
func MixedConfig(label string) (map[string]float64, error) {
	config := make(map[string]float64)
	for _, part := range strings.Split(label, "_") {
		if len(part) < 2 {
			return nil, fmt.Errorf("mixed label %q: bad part %q", label, part)
		}
		el := strings.ToUpper(part[:1])
		if !isDopantToken(part[:1]) {
			return nil, fmt.Errorf("mixed label %q: unknown element %q", label, el)
		}
		conc, err := parseConcLabel(part[1:])
		if err != nil {
			return nil, fmt.Errorf("mixed label %q: %w", label, err)
		}
		config[el] = conc
	}
	return config, nil
}

// Jobs expands the parameter space into the full ordered job list: for
// every structure a pristine reference, the strain series, the doping
// series, the co-doping series, and, with Combined set, the strained
// and doped cross series (strain first, then doping, as in the synergy
// experiments). Doping seeds derive from the config seed and the job's
// position in the series, so the list is reproducible.
func (c *Config) Jobs() ([]Job, error) {
	jobs := make([]Job, 0, 32)
	dopeIdx := uint64(0)
	seed := func() rand.Source {
		dopeIdx++
		return rand.NewSource(c.Space.Seed + dopeIdx)
	}
	for _, sname := range c.Space.Structures {
		base, err := buildStructure(sname)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, Job{sname + "_pristine", base})
		for _, kind := range c.Space.StrainKinds {
			for _, s := range c.Space.Strains {
				if s == 0 {
					continue //the pristine job is the zero-strain reference
				}
				strained, err := fuller.ApplyStrain(base, fuller.StrainKind(kind), s)
				if err != nil {
					return nil, err
				}
				name := fmt.Sprintf("%s_%s_%s", sname, kind, fuller.StrainLabel(s))
				jobs = append(jobs, Job{name, strained})
				if !c.Space.Combined {
					continue
				}
				doped, err := c.dopingSeries(strained, name, seed)
				if err != nil {
					return nil, err
				}
				jobs = append(jobs, doped...)
			}
		}
		doped, err := c.dopingSeries(base, sname, seed)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, doped...)
		for _, config := range c.Space.Mixed {
			for rep := 1; rep <= c.Space.ConfigsPerCombo; rep++ {
				mol, err := fuller.DopeMixed(base, config, seed())
				if err != nil {
					return nil, err
				}
				name := fmt.Sprintf("%s_mix_%s_%d", sname, mixedLabel(config), rep)
				jobs = append(jobs, Job{name, mol})
			}
		}
	}
	return jobs, nil
}

// dopingSeries runs the single-element doping sweep over mol, naming
// each job under the given prefix.
func (c *Config) dopingSeries(mol *fuller.Molecule, prefix string, seed func() rand.Source) ([]Job, error) {
	jobs := make([]Job, 0, 8)
	for _, dopant := range c.Space.Dopants {
		for _, conc := range c.Space.Concentrations {
			for _, strat := range c.Space.Strategies {
				for rep := 1; rep <= c.Space.ConfigsPerCombo; rep++ {
					doped, err := fuller.Dope(mol, dopant, conc, fuller.Strategy(strat), seed())
					if err != nil {
						return nil, err
					}
					name := fmt.Sprintf("%s_%s_%s_%s_%d", prefix,
						strings.ToLower(dopant), concLabel(conc), strat, rep)
					jobs = append(jobs, Job{name, doped})
				}
			}
		}
	}
	return jobs, nil
}

// ParseJobName recovers the parameter combination from a job name
// produced by Jobs. Unknown names yield an error rather than a guess.
// The grammar, parts after the structure all optional but ordered:
//
//	<structure>_pristine
//	<structure>[_<kind>_<label>][_<el>_<conc>_<strategy>_<replica>]
//	<structure>_mix_<el><conc>[_<el><conc>...]_<replica>
func ParseJobName(name string) (Meta, error) {
	var m Meta
	toks := strings.Split(name, "_")
	i := 0
	//structure tokens run until a keyword
	for ; i < len(toks); i++ {
		if isKeyword(toks[i]) {
			break
		}
		if m.Structure != "" {
			m.Structure += "_"
		}
		m.Structure += toks[i]
	}
	if m.Structure == "" || i == len(toks) {
		return m, fmt.Errorf("job name %q: no parameter tokens", name)
	}
	switch toks[i] {
	case "pristine":
		if i != len(toks)-1 {
			return m, fmt.Errorf("job name %q: trailing tokens after pristine", name)
		}
		return m, nil
	case "biaxial", "shear", "uniaxial":
		kind := toks[i]
		i++
		if kind == "uniaxial" {
			if i == len(toks) {
				return m, fmt.Errorf("job name %q: uniaxial without axis", name)
			}
			kind = kind + "_" + toks[i]
			i++
		}
		if i == len(toks) {
			return m, fmt.Errorf("job name %q: strain kind without a label", name)
		}
		s, err := fuller.ParseStrainLabel(toks[i])
		if err != nil {
			return m, fmt.Errorf("job name %q: %w", name, err)
		}
		m.StrainKind = kind
		m.Strain = s
		i++
		if i == len(toks) {
			return m, nil
		}
		//a combined job continues with a doping part
		if !isDopantToken(toks[i]) {
			return m, fmt.Errorf("job name %q: unexpected token %q after strain", name, toks[i])
		}
		return parseDopingPart(m, toks[i:], name)
	case "b", "n", "p":
		return parseDopingPart(m, toks[i:], name)
	case "mix":
		if i+2 > len(toks)-1 {
			return m, fmt.Errorf("job name %q: malformed co-doping part", name)
		}
		label := strings.Join(toks[i+1:len(toks)-1], "_")
		if _, err := MixedConfig(label); err != nil {
			return m, fmt.Errorf("job name %q: %w", name, err)
		}
		m.Mixed = label
		rep, err := strconv.Atoi(toks[len(toks)-1])
		if err != nil {
			return m, fmt.Errorf("job name %q: %w", name, err)
		}
		m.Replica = rep
		return m, nil
	}
	return m, fmt.Errorf("job name %q: unknown keyword %q", name, toks[i])
}

// parseDopingPart consumes the trailing <el>_<conc>_<strategy>_<replica>
// tokens of a single-element doping job.
func parseDopingPart(m Meta, toks []string, name string) (Meta, error) {
	if len(toks) != 4 {
		return m, fmt.Errorf("job name %q: malformed doping part", name)
	}
	m.Dopant = strings.ToUpper(toks[0])
	conc, err := parseConcLabel(toks[1])
	if err != nil {
		return m, fmt.Errorf("job name %q: %w", name, err)
	}
	m.Concentration = conc
	m.Strategy = toks[2]
	rep, err := strconv.Atoi(toks[3])
	if err != nil {
		return m, fmt.Errorf("job name %q: %w", name, err)
	}
	m.Replica = rep
	return m, nil
}

func isKeyword(tok string) bool {
	switch tok {
	case "pristine", "biaxial", "uniaxial", "shear", "mix":
		return true
	}
	return isDopantToken(tok)
}

func isDopantToken(tok string) bool {
	return tok == "b" || tok == "n" || tok == "p"
}
