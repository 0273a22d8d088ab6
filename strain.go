/*
 * strain.go, part of gofuller.
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
	"strings"

	"gonum.org/v1/gonum/mat"
)

// StrainKind selects the deformation mode applied by ApplyStrain.
type StrainKind string

const (
	Biaxial   StrainKind = "biaxial"
	UniaxialX StrainKind = "uniaxial_x"
	UniaxialY StrainKind = "uniaxial_y"
	Shear     StrainKind = "shear"
)

// strainTensor returns the 3x3 deformation matrix for the given kind
// and strain percentage. Diagonal modes scale by 1+s/100; shear sets
// the xy element to s/100.
func strainTensor(kind StrainKind, percent float64) (*mat.Dense, error) {
	t := mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})
	factor := 1.0 + percent/100.0
	switch kind {
	case Biaxial:
		t.Set(0, 0, factor)
		t.Set(1, 1, factor)
	case UniaxialX:
		t.Set(0, 0, factor)
	case UniaxialY:
		t.Set(1, 1, factor)
	case Shear:
		t.Set(0, 1, percent/100.0)
	default:
		return nil, fmt.Errorf("unsupported strain kind %q", kind)
	}
	return t, nil
}

// ApplyStrain returns a copy of mol deformed by the given strain mode
// and percentage. Both the atomic coordinates and the cell (when
// present) are transformed; shear leaves the orthorhombic cell lengths
// untouched.
func ApplyStrain(mol *Molecule, kind StrainKind, percent float64) (*Molecule, error) {
	t, err := strainTensor(kind, percent)
	if err != nil {
		return nil, err
	}
	strained := mol.Copy()
	strained.Coords.Mul(mol.Coords, t)
	if strained.Cell != nil {
		for i := range strained.Cell {
			strained.Cell[i] = mol.Cell[i] * t.At(i, i)
		}
	}
	return strained, nil
}

// StrainLabel encodes a strain percentage for use in file and project
// names: +2.5 becomes "p2p5", -5.0 becomes "m5p0".
func StrainLabel(percent float64) string {
	s := fmt.Sprintf("%+.1f", percent)
	s = strings.ReplaceAll(s, ".", "p")
	s = strings.ReplaceAll(s, "-", "m")
	s = strings.ReplaceAll(s, "+", "p")
	return s
}

// ParseStrainLabel inverts StrainLabel. It expects the sign rune
// followed by the integer and decimal digits separated by 'p'.
func ParseStrainLabel(label string) (float64, error) {
	if len(label) < 4 {
		return 0, fmt.Errorf("strain label %q too short", label)
	}
	sign := 1.0
	switch label[0] {
	case 'm':
		sign = -1.0
	case 'p':
	default:
		return 0, fmt.Errorf("strain label %q lacks a sign rune", label)
	}
	var whole, frac int
	if _, err := fmt.Sscanf(label[1:], "%dp%d", &whole, &frac); err != nil {
		return 0, fmt.Errorf("strain label %q: %w", label, err)
	}
	return sign * (float64(whole) + float64(frac)/10.0), nil
}
