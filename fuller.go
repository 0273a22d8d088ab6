/*
 * fuller.go, part of gofuller.
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

	"gonum.org/v1/gonum/mat"
)

// Atom contains the per-atom data of a structure, except for the
// coordinates, which live in a separate matrix.
type Atom struct {
	Symbol string
	Mass   float64
	Charge float64
	Tag    int //spare field for transient bookkeeping
}

// Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("attempted to copy a nil atom")
	}
	N := new(Atom)
	*N = *A
	return N
}

// Atomer is the basic interface for a topology.
type Atomer interface {

	//Atom returns the Atom corresponding to the index i.
	//Should panic if out of range.
	Atom(i int) *Atom

	Len() int
}

// AtomMultiCharger is an Atomer that also carries a total charge and a
// spin multiplicity.
type AtomMultiCharger interface {
	Atomer

	//Charge gets the total charge of the topology
	Charge() int

	//Multi returns the multiplicity of the topology
	Multi() int
}

// Topology contains information about a structure which is not expected
// to change in time, i.e. everything except for the coordinates.
type Topology struct {
	Atoms  []*Atom
	charge int
	multi  int
}

// NewTopology makes a topology from ats atoms with total charge charge
// and multiplicity multi. It returns an error if ats is nil. It doesn't
// check that charge or multi are physically sensible.
func NewTopology(ats []*Atom, charge, multi int) (*Topology, error) {
	if ats == nil {
		return nil, fmt.Errorf("NewTopology: nil atom slice")
	}
	return &Topology{Atoms: ats, charge: charge, multi: multi}, nil
}

// Charge gets the total charge of the topology.
func (T *Topology) Charge() int {
	return T.charge
}

// Multi returns the multiplicity of the topology.
func (T *Topology) Multi() int {
	return T.multi
}

// SetCharge sets the total charge of the topology to i.
func (T *Topology) SetCharge(i int) {
	T.charge = i
}

// SetMulti sets the multiplicity of the topology to i.
func (T *Topology) SetMulti(i int) {
	T.multi = i
}

// Atom returns the Atom corresponding to the index i. Panics if out of
// range.
func (T *Topology) Atom(i int) *Atom {
	if i >= T.Len() {
		panic("Topology: requested Atom out of bounds")
	}
	return T.Atoms[i]
}

// Len returns the number of atoms in the topology.
func (T *Topology) Len() int {
	return len(T.Atoms)
}

// CopyAtoms returns a deep copy of the topology.
func (T *Topology) CopyAtoms() *Topology {
	N := &Topology{charge: T.charge, multi: T.multi}
	N.Atoms = make([]*Atom, T.Len())
	for i, v := range T.Atoms {
		N.Atoms[i] = v.Copy()
	}
	return N
}

// CountSymbol returns how many atoms of the topology have the chemical
// symbol s.
func (T *Topology) CountSymbol(s string) int {
	var n int
	for _, at := range T.Atoms {
		if at.Symbol == s {
			n++
		}
	}
	return n
}

// SymbolIndexes returns the indexes of all atoms with symbol s, in
// order.
func (T *Topology) SymbolIndexes(s string) []int {
	ret := make([]int, 0, T.Len())
	for i, at := range T.Atoms {
		if at.Symbol == s {
			ret = append(ret, i)
		}
	}
	return ret
}

// Molecule is a topology together with coordinates and, optionally, the
// a, b, c dimensions of an orthorhombic cell (Angstrom). A nil Cell
// means a non-periodic structure.
type Molecule struct {
	*Topology
	Coords *mat.Dense
	Cell   []float64
}

// NewMolecule builds a Molecule from a topology, an Nx3 coordinate
// matrix and an optional 3-element cell. It returns an error if the
// coordinate dimensions don't match the topology.
func NewMolecule(top *Topology, coords *mat.Dense, cell []float64) (*Molecule, error) {
	if top == nil || coords == nil {
		return nil, fmt.Errorf("NewMolecule: nil topology or coordinates")
	}
	M := &Molecule{Topology: top, Coords: coords, Cell: cell}
	if err := M.Corrupted(); err != nil {
		return nil, err
	}
	return M, nil
}

// Corrupted checks that the coordinates match the topology and that the
// cell, if present, has 3 elements.
func (M *Molecule) Corrupted() error {
	if M.Topology == nil || M.Coords == nil {
		return fmt.Errorf("molecule missing topology or coordinates")
	}
	r, c := M.Coords.Dims()
	if c != 3 {
		return fmt.Errorf("coordinate matrix has %d columns, want 3", c)
	}
	if r != M.Len() {
		return fmt.Errorf("molecule has %d atoms but %d coordinate rows", M.Len(), r)
	}
	if M.Cell != nil && len(M.Cell) != 3 {
		return fmt.Errorf("cell must have 3 dimensions, got %d", len(M.Cell))
	}
	return nil
}

// Copy returns a deep copy of the molecule.
func (M *Molecule) Copy() *Molecule {
	N := new(Molecule)
	N.Topology = M.CopyAtoms()
	N.Coords = mat.DenseCopyOf(M.Coords)
	if M.Cell != nil {
		N.Cell = append([]float64{}, M.Cell...)
	}
	return N
}

// Coord returns the x, y, z coordinates of atom i. Panics if out of
// range.
func (M *Molecule) Coord(i int) (x, y, z float64) {
	return M.Coords.At(i, 0), M.Coords.At(i, 1), M.Coords.At(i, 2)
}
