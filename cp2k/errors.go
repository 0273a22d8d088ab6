/*
 * errors.go, part of gofuller.
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

import "strings"

// Messages for the Error type.
const (
	ErrCantInput       = "Couldn't build input for the calculation"
	ErrNotRunning      = "CP2K could not be run"
	ErrTimeout         = "Calculation exceeded its wall-clock timeout"
	ErrNoEnergy        = "Output does not contain an energy"
	ErrNoGap           = "Output does not contain a HOMO-LUMO gap"
	ErrNoOutput        = "Output file missing or empty"
	ErrProbableProblem = "Probable problem in calculation"
)

// Error is the error type for CP2K runs. The Decorate method allows
// adding information as the error is passed up, without changing its
// type.
type Error struct {
	message     string
	inputname   string
	information string
	decorations []string
	critical    bool
}

func (err Error) Error() string {
	s := err.message + " (" + err.inputname + ")"
	if err.information != "" {
		s = s + ": " + err.information
	}
	return s
}

// Decorate adds dec to the decoration trace and returns the current
// trace. An empty string only queries the trace.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.decorations = append(err.decorations, dec)
	}
	return err.decorations
}

// Critical reports whether the calculation result cannot be trusted at
// all (as opposed to, say, an energy from a non-converged run).
func (err Error) Critical() bool { return err.critical }

// InputName returns the calculation name the error refers to.
func (err Error) InputName() string { return err.inputname }

// IsProbableProblem reports whether err means "a value was read but the
// calculation did not end cleanly".
func IsProbableProblem(err error) bool {
	return err != nil && strings.Contains(err.Error(), ErrProbableProblem)
}
