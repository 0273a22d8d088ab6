/*
 * fuller_test.go, part of gofuller.
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
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestC60(Te *testing.T) {
	mol := C60()
	if mol.Len() != 60 {
		Te.Fatalf("C60 has %d atoms", mol.Len())
	}
	if mol.CountSymbol("C") != 60 {
		Te.Error("C60 should be all carbon")
	}
	if mol.Cell != nil {
		Te.Error("the molecular C60 must not be periodic")
	}
	//origin-centered: the centroid is at most a tenth of an Angstrom off
	var cx, cy, cz float64
	for i := 0; i < mol.Len(); i++ {
		x, y, z := mol.Coord(i)
		cx += x
		cy += y
		cz += z
	}
	n := float64(mol.Len())
	if math.Abs(cx/n) > 0.1 || math.Abs(cy/n) > 0.1 || math.Abs(cz/n) > 0.1 {
		Te.Errorf("centroid off origin: (%.3f, %.3f, %.3f)", cx/n, cy/n, cz/n)
	}
	if err := mol.Corrupted(); err != nil {
		Te.Error(err)
	}
}

func TestC60Cell(Te *testing.T) {
	mol := C60Cell()
	if mol.Len() != 60 {
		Te.Fatalf("cell has %d atoms", mol.Len())
	}
	want := []float64{QHPLatticeA, QHPLatticeB, QHPLatticeC}
	for i, v := range want {
		if mol.Cell[i] != v {
			Te.Errorf("cell[%d] = %v, want %v", i, mol.Cell[i], v)
		}
	}
}

func TestC60Dimer(Te *testing.T) {
	mol := C60Dimer(10.0)
	if mol.Len() != 120 {
		Te.Fatalf("dimer has %d atoms", mol.Len())
	}
	if mol.Cell[0] != 24.0 || mol.Cell[1] != 15.0 || mol.Cell[2] != 25.0 {
		Te.Errorf("bad dimer cell: %v", mol.Cell)
	}
	//the two units differ only by the x displacement
	for i := 0; i < 60; i++ {
		xa, ya, za := mol.Coord(i)
		xb, yb, zb := mol.Coord(i + 60)
		if math.Abs(xb-xa-10.0) > 1e-9 || ya != yb || za != zb {
			Te.Fatalf("atom %d not displaced along x only", i)
		}
	}
}

func TestC60Network(Te *testing.T) {
	for _, n := range []int{2, 3, 4} {
		mol, err := C60Network(n)
		if err != nil {
			Te.Fatal(err)
		}
		if mol.Len() != n*60 {
			Te.Errorf("network of %d molecules has %d atoms, want %d", n, mol.Len(), n*60)
		}
		cell := NetworkCell(n)
		for i := range cell {
			if mol.Cell[i] != cell[i] {
				Te.Errorf("n=%d: cell[%d] = %v, want %v", n, i, mol.Cell[i], cell[i])
			}
		}
	}
	for _, n := range []int{0, 1, 5} {
		if _, err := C60Network(n); err == nil {
			Te.Errorf("network size %d should be rejected", n)
		}
	}
	if NetworkCell(7) != nil {
		Te.Error("unsupported sizes have no cell")
	}
}

func TestTopology(Te *testing.T) {
	mol := C60()
	if mol.Charge() != 0 || mol.Multi() != 1 {
		Te.Error("pristine C60 should be a neutral singlet")
	}
	idx := mol.SymbolIndexes("C")
	if len(idx) != 60 {
		Te.Errorf("got %d carbon indexes", len(idx))
	}
	if len(mol.SymbolIndexes("N")) != 0 {
		Te.Error("no nitrogens expected")
	}
	cp := mol.Copy()
	cp.Atom(0).Symbol = "N"
	cp.Coords.Set(0, 0, 99.0)
	if mol.Atom(0).Symbol != "C" {
		Te.Error("Copy shares atoms with the original")
	}
	if x, _, _ := mol.Coord(0); x == 99.0 {
		Te.Error("Copy shares coordinates with the original")
	}
}

func TestXYZRoundTrip(Te *testing.T) {
	path := filepath.Join(Te.TempDir(), "c60.xyz")
	orig := C60Cell()
	if err := XYZWrite(path, orig); err != nil {
		Te.Fatal(err)
	}
	mol, err := XYZRead(path)
	if err != nil {
		Te.Fatal(err)
	}
	if mol.Len() != orig.Len() {
		Te.Fatalf("round trip changed the atom count: %d", mol.Len())
	}
	for i := 0; i < mol.Len(); i++ {
		if mol.Atom(i).Symbol != orig.Atom(i).Symbol {
			Te.Fatalf("atom %d symbol changed", i)
		}
		xa, ya, za := orig.Coord(i)
		xb, yb, zb := mol.Coord(i)
		if math.Abs(xa-xb) > 1e-6 || math.Abs(ya-yb) > 1e-6 || math.Abs(za-zb) > 1e-6 {
			Te.Fatalf("atom %d moved in the round trip", i)
		}
	}
}

func TestXYZReadRejectsGarbage(Te *testing.T) {
	dir := Te.TempDir()
	cases := map[string]string{
		"empty.xyz":    "",
		"badcount.xyz": "sixty\ncomment\n",
		"short.xyz":    "3\ncomment\nC 0 0 0\n",
		"badline.xyz":  "1\ncomment\nC zero 0 0\n",
	}
	for name, content := range cases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			Te.Fatal(err)
		}
		if _, err := XYZRead(path); err == nil {
			Te.Errorf("%s should not parse", name)
		}
	}
}
