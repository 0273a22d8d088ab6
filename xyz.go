/*
 * xyz.go, part of gofuller.
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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// XYZRead reads an XYZ file and returns the molecule it contains.
// Only the first frame of a multi-frame file is read.
func XYZRead(name string) (*Molecule, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("XYZRead: %w", err)
	}
	defer f.Close()
	mol, err := xyzReadFrame(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("XYZRead %s: %w", name, err)
	}
	return mol, nil
}

func xyzReadFrame(r *bufio.Reader) (*Molecule, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("missing atom-count line: %w", err)
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || natoms <= 0 {
		return nil, fmt.Errorf("ill-formed atom-count line %q", strings.TrimSpace(line))
	}
	if _, err := r.ReadString('\n'); err != nil {
		return nil, fmt.Errorf("missing comment line: %w", err)
	}
	ats := make([]*Atom, natoms)
	coords := mat.NewDense(natoms, 3, nil)
	for i := 0; i < natoms; i++ {
		line, err := r.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, fmt.Errorf("line %d ill-formed: %q", i+3, strings.TrimSpace(line))
		}
		ats[i] = NewAtom(fields[0])
		for j := 0; j < 3; j++ {
			v, err := strconv.ParseFloat(fields[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+3, err)
			}
			coords.Set(i, j, v)
		}
	}
	top, err := NewTopology(ats, 0, 1)
	if err != nil {
		return nil, err
	}
	return NewMolecule(top, coords, nil)
}

// XYZWrite writes mol to an XYZ file with the given name, overwriting
// any previous file. The comment line carries the cell dimensions when
// the molecule is periodic.
func XYZWrite(name string, mol *Molecule) error {
	if err := mol.Corrupted(); err != nil {
		return fmt.Errorf("XYZWrite: %w", err)
	}
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("XYZWrite: %w", err)
	}
	defer f.Close()
	return XYZWriteTo(f, mol)
}

// XYZWriteTo writes mol in XYZ format to w.
func XYZWriteTo(w io.Writer, mol *Molecule) error {
	if _, err := fmt.Fprintf(w, "%d\n", mol.Len()); err != nil {
		return err
	}
	comment := ""
	if mol.Cell != nil {
		comment = fmt.Sprintf("cell %.4f %.4f %.4f", mol.Cell[0], mol.Cell[1], mol.Cell[2])
	}
	if _, err := fmt.Fprintf(w, "%s\n", comment); err != nil {
		return err
	}
	for i := 0; i < mol.Len(); i++ {
		x, y, z := mol.Coord(i)
		if _, err := fmt.Fprintf(w, "%-2s  %12.6f%12.6f%12.6f\n", mol.Atom(i).Symbol, x, y, z); err != nil {
			return err
		}
	}
	return nil
}
