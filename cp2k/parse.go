/*
 * parse.go, part of gofuller.
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
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Textual markers scanned for in CP2K output. These strings are owned
// by CP2K; they are correct for the 2025.x releases.
const (
	MarkerEnergy       = "ENERGY| Total FORCE_EVAL"
	MarkerGap          = "HOMO-LUMO gap"
	MarkerNotConverged = "SCF run NOT converged"
	MarkerEnded        = "PROGRAM ENDED"
)

// searchBackwards scans a file from the end for a string and returns
// the line that contains it, or an empty string. CP2K outputs run to
// tens of thousands of lines and the markers of interest sit at the
// bottom, so scanning backwards is much cheaper than a forward pass.
func searchBackwards(str, filename string) string {
	f, err := os.Open(filename)
	if err != nil {
		return ""
	}
	defer f.Close()
	if _, err := f.Seek(0, 2); err != nil {
		return ""
	}
	for {
		line, err := getTailLine(f)
		if err != nil {
			return ""
		}
		if strings.Contains(line, str) {
			return line
		}
	}
}

// getTailLine returns the line ending at the current offset of f and
// leaves the offset at the start of that line, so repeated calls walk
// the file backwards. It errors at the beginning of the file.
func getTailLine(f *os.File) (string, error) {
	end, err := f.Seek(0, 1)
	if err != nil {
		return "", err
	}
	if end == 0 {
		return "", fmt.Errorf("start of file")
	}
	//skip the newline that terminates the previous line, if any
	buf := make([]byte, 1)
	if _, err := f.ReadAt(buf, end-1); err != nil {
		return "", err
	}
	if buf[0] == '\n' {
		end--
	}
	var start int64
	for start = end; start > 0; start-- {
		if _, err := f.ReadAt(buf, start-1); err != nil {
			return "", err
		}
		if buf[0] == '\n' {
			break
		}
	}
	line := make([]byte, end-start)
	if _, err := f.ReadAt(line, start); err != nil {
		return "", err
	}
	if _, err := f.Seek(start, 0); err != nil {
		return "", err
	}
	return string(line), nil
}

// lastFloatAfterMarker finds the last line of the file containing the
// marker and parses its last whitespace-separated field as a float.
func lastFloatAfterMarker(filename, marker string) (float64, error) {
	line := searchBackwards(marker, filename)
	if line == "" {
		return 0, fmt.Errorf("marker %q not found in %s", marker, filename)
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0, fmt.Errorf("marker line %q has no fields", line)
	}
	v, err := strconv.ParseFloat(fields[len(fields)-1], 64)
	if err != nil {
		return 0, fmt.Errorf("marker line %q: %w", line, err)
	}
	return v, nil
}

func containsMarker(content []byte, marker string) bool {
	return bytes.Contains(content, []byte(marker))
}

// ParseOutput extracts all scalar results from a CP2K output file in
// one pass over its content: total energy (Hartree), HOMO-LUMO gap
// (eV), SCF convergence and normal termination. Missing values are
// reported through the ok flags of the returned Scalars.
func ParseOutput(filename string) (Scalars, error) {
	var s Scalars
	content, err := os.ReadFile(filename)
	if err != nil {
		return s, fmt.Errorf("ParseOutput: %w", err)
	}
	if len(content) == 0 {
		return s, Error{ErrNoOutput, filename, "", []string{"ParseOutput"}, true}
	}
	for _, line := range strings.Split(string(content), "\n") {
		if strings.Contains(line, MarkerEnergy) {
			if v, err := lastField(line); err == nil {
				s.Energy, s.HasEnergy = v, true
			}
		}
		if strings.Contains(line, MarkerGap) {
			if v, err := lastField(line); err == nil {
				s.Gap, s.HasGap = v, true
			}
		}
	}
	s.Converged = !containsMarker(content, MarkerNotConverged)
	s.NormalTermination = containsMarker(content, MarkerEnded)
	return s, nil
}

func lastField(line string) (float64, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty line")
	}
	return strconv.ParseFloat(fields[len(fields)-1], 64)
}

// Scalars holds the quantities scraped from one CP2K output log.
type Scalars struct {
	Energy            float64 //Hartree
	HasEnergy         bool
	Gap               float64 //eV
	HasGap            bool
	Converged         bool
	NormalTermination bool
}
