/*
 * template.go, part of gofuller.
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

package cp2k

import (
	"fmt"
	"regexp"
	"strings"

	fuller "github.com/xqchen/gofuller"
)

var (
	projectRe   = regexp.MustCompile(`(?m)^(\s*PROJECT)\s+\S+`)
	coordFileRe = regexp.MustCompile(`(?m)^(\s*COORD_FILE_NAME)\s+\S+`)
	abcRe       = regexp.MustCompile(`(?m)^(\s*ABC)\s+.*$`)
	dftRe       = regexp.MustCompile(`(?m)^(\s*)&DFT\b.*$`)
	kindRe      = regexp.MustCompile(`&KIND\s+(\w+)`)
	basisRe     = regexp.MustCompile(`(?m)^(\s*)BASIS_SET\s+\S*MOLOPT-DZVP\S*$`)
)

// RenderTemplate rewrites a CP2K template for one calculation: the
// PROJECT name, the COORD_FILE_NAME, and the ABC cell line when the
// structure is periodic. Templates without those lines are passed
// through untouched for the missing parts.
func RenderTemplate(template, project, coordFile string, cell []float64) string {
	content := projectRe.ReplaceAllString(template, "${1} "+project)
	content = coordFileRe.ReplaceAllString(content, "${1} "+coordFile)
	if cell != nil {
		abc := fmt.Sprintf("${1} %.2f %.2f %.2f", cell[0], cell[1], cell[2])
		content = abcRe.ReplaceAllString(content, abc)
	}
	return content
}

// FixInput repairs the recurring defects of hand-written CP2K inputs:
// a missing BASIS_SET_FILE_NAME/POTENTIAL_FILE_NAME pair after &DFT
// (needed when CP2K is not run from its data directory), and the
// obsolete MOLOPT-DZVP basis-set spelling in &KIND blocks, which is
// rewritten to the per-element names from fuller.BasisSet.
func FixInput(content, datadir string) string {
	if datadir != "" && !strings.Contains(content, "BASIS_SET_FILE_NAME") {
		files := "${1}  BASIS_SET_FILE_NAME " + datadir + "/BASIS_MOLOPT\n" +
			"${1}  POTENTIAL_FILE_NAME " + datadir + "/GTH_POTENTIALS"
		content = dftRe.ReplaceAllString(content, "${0}\n"+files)
	}
	lines := strings.Split(content, "\n")
	element := ""
	for i, line := range lines {
		if m := kindRe.FindStringSubmatch(line); m != nil {
			element = m[1]
			continue
		}
		if m := basisRe.FindStringSubmatch(line); m != nil && element != "" {
			basis, ok := fuller.BasisSet[element]
			if !ok {
				basis = "DZVP-MOLOPT-GTH"
			}
			lines[i] = m[1] + "BASIS_SET " + basis
		}
	}
	return strings.Join(lines, "\n")
}

// renderBuiltin generates a self-contained single-point input with
// inline coordinates, one &KIND block per element present in the
// structure, and the cell (PERIODIC NONE with a 30 A vacuum box for
// molecular structures).
func renderBuiltin(mol *fuller.Molecule, Q *Calc, project string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "&GLOBAL\n  PROJECT %s\n  RUN_TYPE %s\n  PRINT_LEVEL MEDIUM\n&END GLOBAL\n\n", project, Q.RunType)
	b.WriteString("&FORCE_EVAL\n  METHOD Quickstep\n  &DFT\n")
	b.WriteString("    BASIS_SET_FILE_NAME BASIS_MOLOPT\n    POTENTIAL_FILE_NAME GTH_POTENTIALS\n")
	fmt.Fprintf(&b, "    &MGRID\n      CUTOFF %d\n      REL_CUTOFF %d\n    &END MGRID\n", Q.Cutoff, Q.RelCutoff)
	b.WriteString("    &QS\n      METHOD GPW\n      EPS_DEFAULT 1.0E-10\n    &END QS\n")
	fmt.Fprintf(&b, "    &SCF\n      SCF_GUESS ATOMIC\n      MAX_SCF %d\n      EPS_SCF %.1E\n", Q.MaxSCF, Q.EPSSCF)
	b.WriteString("      IGNORE_CONVERGENCE_FAILURE\n      &OT\n        MINIMIZER CG\n        PRECONDITIONER FULL_SINGLE_INVERSE\n        ENERGY_GAP 0.1\n      &END OT\n    &END SCF\n")
	b.WriteString("    &XC\n      &XC_FUNCTIONAL\n        &PBE\n        &END PBE\n      &END XC_FUNCTIONAL\n    &END XC\n")
	b.WriteString("    &PRINT\n      &MO\n        EIGENVALUES\n        OCCUPATION_NUMBERS\n        &EACH\n          QS_SCF 0\n        &END EACH\n      &END MO\n    &END PRINT\n")
	b.WriteString("  &END DFT\n\n  &SUBSYS\n")
	if mol.Cell != nil {
		fmt.Fprintf(&b, "    &CELL\n      ABC %.2f %.2f %.2f\n    &END CELL\n", mol.Cell[0], mol.Cell[1], mol.Cell[2])
	} else {
		b.WriteString("    &CELL\n      ABC 30.00 30.00 30.00\n      PERIODIC NONE\n    &END CELL\n")
	}
	b.WriteString("    &COORD\n")
	for i := 0; i < mol.Len(); i++ {
		x, y, z := mol.Coord(i)
		fmt.Fprintf(&b, "      %-2s  %12.6f%12.6f%12.6f\n", mol.Atom(i).Symbol, x, y, z)
	}
	b.WriteString("    &END COORD\n")
	for _, el := range elementsOf(mol) {
		basis, ok := fuller.BasisSet[el]
		if !ok {
			basis = "DZVP-MOLOPT-GTH"
		}
		fmt.Fprintf(&b, "    &KIND %s\n      BASIS_SET %s\n      POTENTIAL GTH-PBE\n    &END KIND\n", el, basis)
	}
	b.WriteString("  &END SUBSYS\n&END FORCE_EVAL\n")
	return b.String()
}

// elementsOf returns the distinct element symbols in mol, in order of
// first appearance.
func elementsOf(mol *fuller.Molecule) []string {
	seen := make(map[string]bool)
	ret := make([]string, 0, 4)
	for i := 0; i < mol.Len(); i++ {
		s := mol.Atom(i).Symbol
		if !seen[s] {
			seen[s] = true
			ret = append(ret, s)
		}
	}
	return ret
}
