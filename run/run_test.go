/*
 * run_test.go, part of gofuller.
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

package run

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleConfig = `
cp2k:
  command: cp2k.popt
  data_dir: /opt/cp2k/data
  timeout_s: 3600
work_dir: calcs
space:
  structures: [c60]
  strain_kinds: [biaxial, uniaxial_x]
  strains: [-5.0, -2.5, 0.0, 2.5, 5.0]
  dopants: [B, N]
  concentrations: [2.5, 5.0]
  strategies: [random]
  configs_per_combo: 2
  seed: 7
`

func loadSample(Te *testing.T) *Config {
	Te.Helper()
	path := filepath.Join(Te.TempDir(), "exp.yaml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0644); err != nil {
		Te.Fatal(err)
	}
	conf, err := Load(path)
	if err != nil {
		Te.Fatal(err)
	}
	return conf
}

func TestLoadConfig(Te *testing.T) {
	conf := loadSample(Te)
	if conf.CP2K.Command != "cp2k.popt" {
		Te.Errorf("bad command: %q", conf.CP2K.Command)
	}
	if conf.Timeout().Seconds() != 3600 {
		Te.Errorf("bad timeout: %v", conf.Timeout())
	}
	if conf.Space.Seed != 7 {
		Te.Errorf("bad seed: %d", conf.Space.Seed)
	}
}

func TestLoadConfigRejectsBadSpace(Te *testing.T) {
	for _, bad := range []string{
		"space:\n  structures: [c61]\n",
		"space:\n  strain_kinds: [triaxial]\n",
		"space:\n  dopants: [Si]\n",
		"space:\n  strategies: [alphabetical]\n",
	} {
		path := filepath.Join(Te.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte(bad), 0644); err != nil {
			Te.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			Te.Errorf("config %q should not load", bad)
		}
	}
}

func TestJobs(Te *testing.T) {
	conf := loadSample(Te)
	jobs, err := conf.Jobs()
	if err != nil {
		Te.Fatal(err)
	}
	//1 pristine + 2 kinds * 4 nonzero strains + 2 dopants * 2 concs * 1 strategy * 2 replicas
	want := 1 + 2*4 + 2*2*1*2
	if len(jobs) != want {
		Te.Fatalf("got %d jobs, want %d", len(jobs), want)
	}
	seen := make(map[string]bool)
	for _, j := range jobs {
		if seen[j.Name] {
			Te.Errorf("duplicate job name %q", j.Name)
		}
		seen[j.Name] = true
		if j.Mol == nil || j.Mol.Len() != 60 {
			Te.Errorf("job %q: bad structure", j.Name)
		}
		if _, err := ParseJobName(j.Name); err != nil {
			Te.Errorf("job name does not parse back: %v", err)
		}
	}
	if !seen["c60_pristine"] {
		Te.Error("missing pristine reference job")
	}
	if !seen["c60_biaxial_m5p0"] {
		Te.Error("missing compressive biaxial job")
	}
	if !seen["c60_b_2p5_random_2"] {
		Te.Error("missing second boron replica")
	}
}

func TestJobsReproducible(Te *testing.T) {
	conf := loadSample(Te)
	a, err := conf.Jobs()
	if err != nil {
		Te.Fatal(err)
	}
	b, err := conf.Jobs()
	if err != nil {
		Te.Fatal(err)
	}
	for i := range a {
		if a[i].Name != b[i].Name {
			Te.Fatalf("job order differs at %d", i)
		}
		for k := 0; k < a[i].Mol.Len(); k++ {
			if a[i].Mol.Atom(k).Symbol != b[i].Mol.Atom(k).Symbol {
				Te.Fatalf("job %s: doping sites differ between expansions", a[i].Name)
			}
		}
	}
}

const synergyConfig = `
work_dir: calcs
space:
  structures: [c60]
  strain_kinds: [biaxial]
  strains: [-2.5, 2.5]
  dopants: [B]
  concentrations: [2.5]
  strategies: [random]
  configs_per_combo: 1
  seed: 7
  combined: true
  mixed:
    - {B: 2.5, N: 2.5}
`

func TestJobsCombinedAndMixed(Te *testing.T) {
	path := filepath.Join(Te.TempDir(), "synergy.yaml")
	if err := os.WriteFile(path, []byte(synergyConfig), 0644); err != nil {
		Te.Fatal(err)
	}
	conf, err := Load(path)
	if err != nil {
		Te.Fatal(err)
	}
	jobs, err := conf.Jobs()
	if err != nil {
		Te.Fatal(err)
	}
	//1 pristine + 2 strains + 2 combined + 1 doped + 1 co-doped
	if len(jobs) != 7 {
		Te.Fatalf("got %d jobs, want 7", len(jobs))
	}
	byName := make(map[string]Job)
	for _, j := range jobs {
		byName[j.Name] = j
		if _, err := ParseJobName(j.Name); err != nil {
			Te.Errorf("job name does not parse back: %v", err)
		}
	}
	combined, ok := byName["c60_biaxial_p2p5_b_2p5_random_1"]
	if !ok {
		Te.Fatal("missing combined strained+doped job")
	}
	if got := combined.Mol.CountSymbol("B"); got != 1 {
		Te.Errorf("combined job has %d borons, want 1", got)
	}
	//doping must not move atoms: the combined structure sits on the
	//strained coordinates, not the pristine ones
	strained := byName["c60_biaxial_p2p5"]
	for i := 0; i < combined.Mol.Len(); i++ {
		xa, ya, za := strained.Mol.Coord(i)
		xb, yb, zb := combined.Mol.Coord(i)
		if xa != xb || ya != yb || za != zb {
			Te.Fatalf("combined job atom %d not on the strained coordinates", i)
		}
	}
	mixed, ok := byName["c60_mix_b2p5_n2p5_1"]
	if !ok {
		Te.Fatal("missing co-doped job")
	}
	if mixed.Mol.CountSymbol("B") != 1 || mixed.Mol.CountSymbol("N") != 1 {
		Te.Errorf("co-doped job has %d B and %d N, want 1 and 1",
			mixed.Mol.CountSymbol("B"), mixed.Mol.CountSymbol("N"))
	}
	if mixed.Mol.CountSymbol("C") != 58 {
		Te.Error("co-doping reused a site")
	}
}

func TestMixedConfigRoundTrip(Te *testing.T) {
	config := map[string]float64{"B": 2.5, "N": 7.5}
	label := mixedLabel(config)
	if label != "b2p5_n7p5" {
		Te.Fatalf("got label %q", label)
	}
	back, err := MixedConfig(label)
	if err != nil {
		Te.Fatal(err)
	}
	if len(back) != 2 || back["B"] != 2.5 || back["N"] != 7.5 {
		Te.Errorf("round trip changed the config: %v", back)
	}
	for _, bad := range []string{"", "x2p5", "b", "b2p5_q5p0"} {
		if _, err := MixedConfig(bad); err == nil {
			Te.Errorf("label %q should not parse", bad)
		}
	}
}

func TestParseJobName(Te *testing.T) {
	cases := []struct {
		name string
		want Meta
	}{
		{"c60_pristine", Meta{Structure: "c60"}},
		{"c60_cell_pristine", Meta{Structure: "c60_cell"}},
		{"c60_biaxial_m5p0", Meta{Structure: "c60", StrainKind: "biaxial", Strain: -5.0}},
		{"network3_uniaxial_x_p2p5", Meta{Structure: "network3", StrainKind: "uniaxial_x", Strain: 2.5}},
		{"c60_b_2p5_random_1", Meta{Structure: "c60", Dopant: "B", Concentration: 2.5, Strategy: "random", Replica: 1}},
		{"c60_dimer_p_7p5_clustered_3", Meta{Structure: "c60_dimer", Dopant: "P", Concentration: 7.5, Strategy: "clustered", Replica: 3}},
		{"c60_biaxial_p2p5_b_5p0_random_2", Meta{Structure: "c60", StrainKind: "biaxial", Strain: 2.5,
			Dopant: "B", Concentration: 5.0, Strategy: "random", Replica: 2}},
		{"network2_uniaxial_y_m5p0_n_7p5_clustered_1", Meta{Structure: "network2", StrainKind: "uniaxial_y",
			Strain: -5.0, Dopant: "N", Concentration: 7.5, Strategy: "clustered", Replica: 1}},
		{"c60_mix_b2p5_n2p5_3", Meta{Structure: "c60", Mixed: "b2p5_n2p5", Replica: 3}},
		{"c60_cell_mix_b5p0_p5p0_1", Meta{Structure: "c60_cell", Mixed: "b5p0_p5p0", Replica: 1}},
	}
	for _, c := range cases {
		got, err := ParseJobName(c.name)
		if err != nil {
			Te.Errorf("%s: %v", c.name, err)
			continue
		}
		if got != c.want {
			Te.Errorf("%s: got %+v, want %+v", c.name, got, c.want)
		}
	}
	for _, bad := range []string{"", "pristine", "c60", "c60_biaxial", "c60_b_2p5",
		"c60_biaxial_p2p5_b_5p0", "c60_biaxial_p2p5_random_1", "c60_mix_3", "c60_mix_x2p5_1"} {
		if _, err := ParseJobName(bad); err == nil {
			Te.Errorf("name %q should not parse", bad)
		}
	}
}

func TestCheckpointRoundTrip(Te *testing.T) {
	path := filepath.Join(Te.TempDir(), "results.json")
	in := []Result{
		{Name: "c60_pristine", Status: StatusCompleted, Energy: -338.002, Gap: 1.67, Converged: true, Elapsed: 812.3},
		{Name: "c60_b_2p5_random_1", Status: StatusFailed, Reason: "Calculation exceeded its wall-clock timeout"},
	}
	if err := WriteCheckpoint(path, in); err != nil {
		Te.Fatal(err)
	}
	out, err := ReadCheckpoint(path)
	if err != nil {
		Te.Fatal(err)
	}
	if len(out) != len(in) {
		Te.Fatalf("got %d results, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			Te.Errorf("result %d: got %+v, want %+v", i, out[i], in[i])
		}
	}
}

func TestWriteCSV(Te *testing.T) {
	path := filepath.Join(Te.TempDir(), "results.csv")
	results := []Result{
		{Name: "c60_biaxial_p2p5", Status: StatusCompleted, Energy: -337.91, Gap: 1.59, Converged: true, Elapsed: 901.2},
		{Name: "c60_n_5p0_uniform_1", Status: StatusCompleted, Energy: -349.11, Gap: 1.12, Converged: false, Elapsed: 1100.0, Reason: "SCF not converged"},
		{Name: "c60_biaxial_m2p5_b_2p5_random_1", Status: StatusCompleted, Energy: -337.20, Gap: 1.31, Converged: true, Elapsed: 950.0},
		{Name: "c60_mix_b2p5_n2p5_2", Status: StatusCompleted, Energy: -341.02, Gap: 1.05, Converged: true, Elapsed: 990.1},
	}
	if err := WriteCSV(path, results); err != nil {
		Te.Fatal(err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		Te.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 5 {
		Te.Fatalf("got %d CSV lines, want 5", len(lines))
	}
	if !strings.HasPrefix(lines[0], "name,structure,strain_kind") {
		Te.Errorf("bad header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "biaxial,2.5") {
		Te.Errorf("strain columns not recovered: %s", lines[1])
	}
	if !strings.Contains(lines[2], "N,5.0,uniform,1") {
		Te.Errorf("doping columns not recovered: %s", lines[2])
	}
	if !strings.Contains(lines[3], "biaxial,-2.5") || !strings.Contains(lines[3], "B,2.5,random,1") {
		Te.Errorf("combined job columns not recovered: %s", lines[3])
	}
	if !strings.Contains(lines[4], "2,b2p5_n2p5") {
		Te.Errorf("co-doping columns not recovered: %s", lines[4])
	}
}

// The runner with a command that produces no output must record failed
// jobs and still write its checkpoint and CSV.
func TestRunnerRecordsFailures(Te *testing.T) {
	conf := new(Config)
	conf.setDefaults()
	conf.WorkDir = filepath.Join(Te.TempDir(), "calcs")
	conf.CP2K.Command = "true" //exits cleanly, writes nothing
	conf.Space.Structures = []string{"c60"}
	r, err := NewRunner(conf)
	if err != nil {
		Te.Fatal(err)
	}
	results, err := r.Run(context.Background())
	if err != nil {
		Te.Fatal(err)
	}
	if len(results) != 1 {
		Te.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Status != StatusFailed {
		Te.Errorf("a run without output should fail, got %+v", results[0])
	}
	if _, err := os.Stat(filepath.Join(conf.WorkDir, "results.json")); err != nil {
		Te.Error("checkpoint not written")
	}
	if _, err := os.Stat(filepath.Join(conf.WorkDir, "results.csv")); err != nil {
		Te.Error("CSV not written")
	}
}

// A fake command snapshots results.json before each calculation, so
// the sixth job must observe the checkpoint written after the fifth.
func TestRunnerCheckpointCadence(Te *testing.T) {
	dir := Te.TempDir()
	fake := filepath.Join(dir, "fakecp2k.sh")
	script := "#!/bin/sh\nif [ -f results.json ]; then cp results.json checkpoint_seen.json; fi\nexit 0\n"
	if err := os.WriteFile(fake, []byte(script), 0755); err != nil {
		Te.Fatal(err)
	}
	conf := new(Config)
	conf.setDefaults()
	conf.WorkDir = filepath.Join(dir, "calcs")
	conf.CP2K.Command = fake
	conf.Space.Structures = []string{"c60"}
	conf.Space.StrainKinds = []string{"biaxial"}
	conf.Space.Strains = []float64{-5.0, -2.5, 2.5, 5.0, 7.5}
	r, err := NewRunner(conf)
	if err != nil {
		Te.Fatal(err)
	}
	results, err := r.Run(context.Background())
	if err != nil {
		Te.Fatal(err)
	}
	if len(results) != 6 {
		Te.Fatalf("got %d results, want 6 (pristine plus five strains)", len(results))
	}
	seen, err := ReadCheckpoint(filepath.Join(conf.WorkDir, "checkpoint_seen.json"))
	if err != nil {
		Te.Fatalf("no checkpoint visible during the sixth job: %v", err)
	}
	if len(seen) != 5 {
		Te.Fatalf("checkpoint after the fifth job holds %d records, want 5", len(seen))
	}
	for i, res := range seen {
		if res.Name != results[i].Name {
			Te.Errorf("checkpoint record %d is %q, want %q", i, res.Name, results[i].Name)
		}
	}
	final, err := ReadCheckpoint(filepath.Join(conf.WorkDir, "results.json"))
	if err != nil {
		Te.Fatal(err)
	}
	if len(final) != 6 {
		Te.Errorf("final checkpoint holds %d records, want all 6", len(final))
	}
}
