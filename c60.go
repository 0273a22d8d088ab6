/*
 * c60.go, part of gofuller.
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

// c60Lattice holds the 60 atoms of the qHP reference cell, embedded in
// the periodic lattice (Angstrom).
var c60Lattice = [60][3]float64{
	{0.74152, 0.00000, 3.55074},
	{1.49730, 1.21210, 3.13720},
	{2.63810, 0.74152, 2.35290},
	{13.51848, 0.00000, 3.55074},
	{13.51848, 0.00000, 10.70926},
	{0.74152, 0.00000, 10.70926},
	{3.55074, 0.74152, 0.00000},
	{3.55074, 13.51848, 0.00000},
	{10.70926, 13.51848, 0.00000},
	{10.70926, 0.74152, 0.00000},
	{0.00000, 3.55074, 0.74152},
	{0.00000, 3.55074, 13.51848},
	{0.00000, 10.70926, 13.51848},
	{0.00000, 10.70926, 0.74152},
	{0.74152, 7.13000, 10.68074},
	{13.51848, 7.13000, 10.68074},
	{13.51848, 7.13000, 3.57926},
	{0.74152, 7.13000, 3.57926},
	{3.55074, 7.87152, 7.13000},
	{3.55074, 6.38848, 7.13000},
	{10.70926, 6.38848, 7.13000},
	{10.70926, 7.87152, 7.13000},
	{0.00000, 10.68074, 7.87152},
	{0.00000, 10.68074, 6.38848},
	{0.00000, 3.57926, 6.38848},
	{0.00000, 3.57926, 7.87152},
	{7.87152, 0.00000, 10.68074},
	{6.38848, 0.00000, 10.68074},
	{6.38848, 0.00000, 3.57926},
	{7.87152, 0.00000, 3.57926},
	{10.68074, 0.74152, 7.13000},
	{10.68074, 13.51848, 7.13000},
	{3.57926, 13.51848, 7.13000},
	{3.57926, 0.74152, 7.13000},
	{7.13000, 3.55074, 7.87152},
	{7.13000, 3.55074, 6.38848},
	{7.13000, 10.70926, 6.38848},
	{7.13000, 10.70926, 7.87152},
	{7.87152, 7.13000, 3.55074},
	{6.38848, 7.13000, 3.55074},
	{6.38848, 7.13000, 10.70926},
	{7.87152, 7.13000, 10.70926},
	{10.68074, 7.87152, 0.00000},
	{10.68074, 6.38848, 0.00000},
	{3.57926, 6.38848, 0.00000},
	{3.57926, 7.87152, 0.00000},
	{7.13000, 10.68074, 0.74152},
	{7.13000, 10.68074, 13.51848},
	{7.13000, 3.57926, 13.51848},
	{7.13000, 3.57926, 0.74152},
	{12.76270, 13.04790, 3.13720},
	{12.76270, 1.21210, 11.12280},
	{1.49730, 13.04790, 11.12280},
	{3.13720, 1.49730, 1.21210},
	{3.13720, 12.76270, 13.04790},
	{11.12280, 12.76270, 1.21210},
	{11.12280, 1.49730, 13.04790},
	{1.21210, 3.13720, 1.49730},
	{13.04790, 3.13720, 12.76270},
	{1.21210, 11.12280, 12.76270},
}

// c60Molecular holds DFT-optimized coordinates for a single C60
// molecule centered at the origin (Angstrom). Molecular diameter is
// about 7 A.
var c60Molecular = [60][3]float64{
	{2.21019530, 0.58666310, 2.66695040},
	{3.10763930, 0.15770080, 1.63002860},
	{1.32844300, -0.31589390, 3.23632320},
	{3.09087090, -1.15850050, 1.20142400},
	{3.18792450, -1.45745990, -0.19970050},
	{3.22146230, 1.22309660, 0.67394400},
	{3.31612100, 0.93515860, -0.67651510},
	{3.29849810, -0.43011420, -1.12041380},
	{-0.44808420, 1.35914840, 3.20810200},
	{0.46720560, 2.29498300, 2.61752640},
	{-0.02565750, 0.07642190, 3.50862590},
	{1.77279170, 1.91765840, 2.35296910},
	{2.39546230, 2.30956890, 1.11895390},
	{-0.26101950, 3.08209350, 1.66231170},
	{0.34077260, 3.45923880, 0.47459680},
	{1.69511710, 3.06924460, 0.19766230},
	{-2.12583940, -0.84588530, 2.67009630},
	{-2.56209900, 0.48552020, 2.35317150},
	{-0.87815210, -1.04619850, 3.23673020},
	{-1.74150960, 1.56799630, 2.61973330},
	{-1.62624680, 2.63570300, 1.66418110},
	{-3.29848100, 0.43018710, 1.12042080},
	{-3.18794690, 1.45738950, 0.19960300},
	{-2.33602610, 2.58136270, 0.47609120},
	{-0.50052100, -2.97977710, 1.79403080},
	{-1.79443380, -2.77290870, 1.20478910},
	{-0.05142450, -2.13288410, 2.79388300},
	{-2.58914710, -1.72258280, 1.63297150},
	{-3.31607050, -0.93506360, 0.67652680},
	{-1.69519190, -3.06925810, -0.19765640},
	{-2.39549010, -2.30968530, -1.11898620},
	{-3.22141820, -1.22318350, -0.67395810},
	{2.17582340, -2.09462630, 1.79225290},
	{1.71186190, -2.97496810, 0.75571980},
	{1.31306560, -1.68294160, 2.79438920},
	{0.39590240, -3.40513950, 0.75576380},
	{-0.34082190, -3.45918830, -0.47456100},
	{2.33600570, -2.58144990, -0.47610500},
	{1.62637570, -2.63573490, -1.66423090},
	{0.26113520, -3.08212710, -1.66226180},
	{-2.21008440, -0.58686360, -2.66703000},
	{-1.77269700, -1.91789690, -2.35304660},
	{-0.46707230, -2.29505090, -2.61751050},
	{-1.32835000, 0.31576830, -3.23623750},
	{-2.17598820, 2.09453830, -1.79232940},
	{-3.09096630, 1.15834720, -1.20157490},
	{-3.10760900, -0.15784530, -1.63016270},
	{-1.31313650, 1.68282920, -2.79436390},
	{0.50032240, 2.97996370, -1.79402030},
	{-0.39611480, 3.40528170, -0.75572720},
	{-1.71206290, 2.97491220, -0.75579880},
	{0.05128240, 2.13294780, -2.79374500},
	{2.12586300, 0.84608090, -2.67005340},
	{2.58918530, 1.72277420, -1.63295620},
	{1.79430100, 2.77306840, -1.20482620},
	{0.87813230, 1.04635140, -3.23653130},
	{0.44824520, -1.35910610, -3.20805100},
	{1.74169480, -1.56795570, -2.61977140},
	{2.56217240, -0.48535290, -2.35320260},
	{0.02579040, -0.07635670, -3.50844460},
}

func carbonTopology(n int) *Topology {
	ats := make([]*Atom, n)
	for i := range ats {
		ats[i] = NewAtom("C")
	}
	top, _ := NewTopology(ats, 0, 1) //a nil slice is impossible here
	return top
}

func coordsFromTable(table [60][3]float64) *mat.Dense {
	c := mat.NewDense(60, 3, nil)
	for i, row := range table {
		c.SetRow(i, row[:])
	}
	return c
}

// C60 returns a single, origin-centered C60 molecule (60 atoms,
// non-periodic).
func C60() *Molecule {
	M, _ := NewMolecule(carbonTopology(60), coordsFromTable(c60Molecular), nil)
	return M
}

// C60Cell returns the 60-atom qHP reference cell with its periodic
// lattice dimensions.
func C60Cell() *Molecule {
	cell := []float64{QHPLatticeA, QHPLatticeB, QHPLatticeC}
	M, _ := NewMolecule(carbonTopology(60), coordsFromTable(c60Lattice), cell)
	return M
}

// C60Dimer returns two origin-centered C60 molecules displaced along x
// by separation Angstrom, shifted into the positive quadrant, with a
// vacuum cell. Used for electronic-coupling calculations. The default
// in-plane separation of the qHP network is about 10 A.
func C60Dimer(separation float64) *Molecule {
	c := mat.NewDense(120, 3, nil)
	for i, row := range c60Molecular {
		c.Set(i, 0, row[0]+7.0)
		c.Set(i, 1, row[1]+7.5)
		c.Set(i, 2, row[2]+12.5)
		c.Set(i+60, 0, row[0]+separation+7.0)
		c.Set(i+60, 1, row[1]+7.5)
		c.Set(i+60, 2, row[2]+12.5)
	}
	cell := []float64{separation + 14.0, 15.0, 25.0}
	M, _ := NewMolecule(carbonTopology(120), c, cell)
	return M
}

// C60Network returns a supercell with n C60 units taken from the qHP
// reference cell: n=2 is a 2x1x1 cell, n=3 a 3x1x1 cell and n=4 a
// 2x2x1 cell. The result always has exactly n*60 atoms. n outside
// {2, 3, 4} is an error.
func C60Network(n int) (*Molecule, error) {
	var shifts [][2]float64 //x and y displacements per C60 unit
	switch n {
	case 2:
		shifts = [][2]float64{{0, 0}, {QHPLatticeA, 0}}
	case 3:
		shifts = [][2]float64{{0, 0}, {QHPLatticeA, 0}, {2 * QHPLatticeA, 0}}
	case 4:
		shifts = [][2]float64{{0, 0}, {QHPLatticeA, 0}, {0, QHPLatticeB}, {QHPLatticeA, QHPLatticeB}}
	default:
		return nil, fmt.Errorf("C60Network: supported sizes are 2, 3 or 4 molecules, got %d", n)
	}
	c := mat.NewDense(n*60, 3, nil)
	for m, s := range shifts {
		for i, row := range c60Lattice {
			c.Set(m*60+i, 0, row[0]+s[0])
			c.Set(m*60+i, 1, row[1]+s[1])
			c.Set(m*60+i, 2, row[2])
		}
	}
	return NewMolecule(carbonTopology(n*60), c, NetworkCell(n))
}

// NetworkCell returns the orthorhombic cell dimensions for an
// n-molecule qHP supercell, or nil for unsupported n.
func NetworkCell(n int) []float64 {
	switch n {
	case 2:
		return []float64{2 * QHPLatticeA, QHPLatticeB, QHPLatticeC}
	case 3:
		return []float64{3 * QHPLatticeA, QHPLatticeB, QHPLatticeC}
	case 4:
		return []float64{2 * QHPLatticeA, 2 * QHPLatticeB, QHPLatticeC}
	}
	return nil
}
