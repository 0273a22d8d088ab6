/*
 * report_test.go, part of gofuller.
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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xqchen/gofuller/run"
)

func sampleResults() []run.Result {
	return []run.Result{
		{Name: "c60_pristine", Status: run.StatusCompleted, Energy: -338.00, Gap: 1.67, Converged: true},
		{Name: "c60_biaxial_m2p5", Status: run.StatusCompleted, Energy: -337.95, Gap: 1.61, Converged: true},
		{Name: "c60_biaxial_p2p5", Status: run.StatusCompleted, Energy: -337.93, Gap: 1.58, Converged: true},
		{Name: "c60_shear_p5p0", Status: run.StatusCompleted, Energy: -337.80, Gap: 1.50, Converged: true},
		{Name: "c60_b_2p5_random_1", Status: run.StatusCompleted, Energy: -337.10, Gap: 1.21, Converged: true},
		{Name: "c60_b_5p0_random_1", Status: run.StatusCompleted, Energy: -336.20, Gap: 0.98, Converged: true},
		{Name: "c60_n_2p5_random_1", Status: run.StatusCompleted, Energy: -349.12, Gap: 1.12, Converged: true},
		{Name: "c60_n_5p0_random_1", Status: run.StatusFailed, Reason: "timeout"},
		{Name: "not_a_job_name"},
	}
}

func TestEnergyVsStrain(Te *testing.T) {
	out := filepath.Join(Te.TempDir(), "energy_strain.png")
	if err := EnergyVsStrain(sampleResults(), out); err != nil {
		Te.Fatal(err)
	}
	info, err := os.Stat(out)
	if err != nil {
		Te.Fatal(err)
	}
	if info.Size() == 0 {
		Te.Error("empty plot file")
	}
	//only failed or unparseable results: nothing to plot
	if err := EnergyVsStrain(sampleResults()[7:], out); err == nil {
		Te.Error("expected an error with no plottable strain jobs")
	}
}

func TestGapVsConcentration(Te *testing.T) {
	out := filepath.Join(Te.TempDir(), "gap_conc.png")
	if err := GapVsConcentration(sampleResults(), out); err != nil {
		Te.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		Te.Fatal(err)
	}
	if err := GapVsConcentration(sampleResults()[:4], out); err == nil {
		Te.Error("expected an error with no doped jobs")
	}
}

func TestValidate(Te *testing.T) {
	checks, err := Validate(map[string]float64{
		"bandgap":        2.02,
		"dielectric":     3.80,
		"alpha_k":        21.0,
		"thermal_renorm": 0.25,
	})
	if err != nil {
		Te.Fatal(err)
	}
	if len(checks) != 4 {
		Te.Fatalf("got %d checks, want 4", len(checks))
	}
	pass := map[string]bool{}
	for _, c := range checks {
		pass[c.Quantity] = c.Pass
	}
	if !pass["bandgap"] || !pass["dielectric"] || !pass["alpha_k"] {
		Te.Errorf("in-window values should pass: %+v", pass)
	}
	if pass["thermal_renorm"] {
		Te.Error("0.25 eV renormalization is outside [0.10, 0.16] and should fail")
	}
	if AllPass(checks) {
		Te.Error("AllPass should be false with one failing check")
	}
	if _, err := Validate(map[string]float64{"lattice": 14.2}); err == nil {
		Te.Error("unknown quantities should be rejected")
	}
}

func TestWriteTable(Te *testing.T) {
	checks, err := Validate(map[string]float64{"bandgap": 1.2, "alpha_k": 21.2})
	if err != nil {
		Te.Fatal(err)
	}
	var b strings.Builder
	if err := WriteTable(&b, checks); err != nil {
		Te.Fatal(err)
	}
	table := b.String()
	if !strings.Contains(table, "FAIL") || !strings.Contains(table, "PASS") {
		Te.Errorf("table should carry one PASS and one FAIL:\n%s", table)
	}
	if !strings.Contains(table, "bandgap") || !strings.Contains(table, "alpha_k") {
		Te.Errorf("table should name the quantities:\n%s", table)
	}
}
