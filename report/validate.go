/*
 * validate.go, part of gofuller.
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

package report

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// Reference is a literature value a computed quantity is checked
// against, as an accepted [Min, Max] window.
type Reference struct {
	Quantity string
	Unit     string
	Min, Max float64
}

// References are the literature windows for the headline quantities of
// the C60 systems studied here.
var References = []Reference{
	{"bandgap", "eV", 1.9, 2.1},            //vdW C60 crystal, PBE
	{"dielectric", "", 3.75, 3.85},         //epsilon_inf
	{"alpha_k", "%", 20.9, 21.4},           //K intercalation capacity
	{"thermal_renorm", "eV", 0.10, 0.16},   //gap renormalization at 300 K
}

// Check is the outcome of comparing one computed value against its
// reference window.
type Check struct {
	Quantity string
	Unit     string
	Value    float64
	Min, Max float64
	Pass     bool
}

// Validate compares computed values, keyed by quantity name, against
// the reference windows. Quantities without a computed value are
// skipped; unknown keys in values are an error.
func Validate(values map[string]float64) ([]Check, error) {
	known := make(map[string]Reference, len(References))
	for _, ref := range References {
		known[ref.Quantity] = ref
	}
	for q := range values {
		if _, ok := known[q]; !ok {
			return nil, fmt.Errorf("report.Validate: unknown quantity %q", q)
		}
	}
	checks := make([]Check, 0, len(References))
	for _, ref := range References {
		v, ok := values[ref.Quantity]
		if !ok {
			continue
		}
		checks = append(checks, Check{
			Quantity: ref.Quantity,
			Unit:     ref.Unit,
			Value:    v,
			Min:      ref.Min,
			Max:      ref.Max,
			Pass:     v >= ref.Min && v <= ref.Max,
		})
	}
	return checks, nil
}

// AllPass reports whether every check passed.
func AllPass(checks []Check) bool {
	for _, c := range checks {
		if !c.Pass {
			return false
		}
	}
	return true
}

// WriteTable writes the pass/fail table for a set of checks.
func WriteTable(w io.Writer, checks []Check) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "quantity\tvalue\twindow\tstatus")
	for _, c := range checks {
		status := "PASS"
		if !c.Pass {
			status = "FAIL"
		}
		unit := c.Unit
		if unit != "" {
			unit = " " + unit
		}
		fmt.Fprintf(tw, "%s\t%.3f%s\t[%.3f, %.3f]\t%s\n",
			c.Quantity, c.Value, unit, c.Min, c.Max, status)
	}
	return tw.Flush()
}
