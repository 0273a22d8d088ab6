/*
 * hpc_test.go, part of gofuller.
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

package hpc

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	fuller "github.com/xqchen/gofuller"
	"github.com/xqchen/gofuller/run"
)

func sampleJobs(Te *testing.T, n int) []run.Job {
	Te.Helper()
	jobs := make([]run.Job, 0, n)
	base := fuller.C60()
	for i := 0; i < n; i++ {
		s, err := fuller.ApplyStrain(base, fuller.Biaxial, float64(i))
		if err != nil {
			Te.Fatal(err)
		}
		name := fmt.Sprintf("c60_biaxial_%s", fuller.StrainLabel(float64(i)))
		jobs = append(jobs, run.Job{Name: name, Mol: s})
	}
	return jobs
}

func TestPrepare(Te *testing.T) {
	dir := filepath.Join(Te.TempDir(), "pkg")
	jobs := sampleJobs(Te, 23)
	if err := Prepare(dir, jobs, &Options{Account: "chem042", Partition: "standard"}); err != nil {
		Te.Fatal(err)
	}
	//23 jobs at the default batch size of 10 means 3 scripts
	scripts, err := filepath.Glob(filepath.Join(dir, "scripts", "batch_*.sh"))
	if err != nil || len(scripts) != 3 {
		Te.Fatalf("got %d batch scripts (%v), want 3", len(scripts), err)
	}
	for _, job := range jobs {
		if _, err := os.Stat(filepath.Join(dir, "inputs", job.Name+".inp")); err != nil {
			Te.Errorf("missing input for %s", job.Name)
		}
		if _, err := os.Stat(filepath.Join(dir, "structures", job.Name+".xyz")); err != nil {
			Te.Errorf("missing structure for %s", job.Name)
		}
	}
	raw, err := os.ReadFile(scripts[0])
	if err != nil {
		Te.Fatal(err)
	}
	script := string(raw)
	for _, want := range []string{
		"#SBATCH --job-name=c60_batch_01",
		"#SBATCH --account=chem042",
		"#SBATCH --partition=standard",
		"#SBATCH --time=24:00:00",
		"module load CP2K/2025.1",
		"mpirun cp2k.popt -i inputs/c60_biaxial_p0p0.inp -o outputs/c60_biaxial_p0p0.out",
	} {
		if !strings.Contains(script, want) {
			Te.Errorf("batch script is missing %q", want)
		}
	}
	if got := strings.Count(script, "mpirun "); got != 10 {
		Te.Errorf("first batch runs %d jobs, want 10", got)
	}
	raw, err = os.ReadFile(filepath.Join(dir, "scripts", "batch_03.sh"))
	if err != nil {
		Te.Fatal(err)
	}
	if got := strings.Count(string(raw), "mpirun "); got != 3 {
		Te.Errorf("last batch runs %d jobs, want 3", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "submit_all.sh")); err != nil {
		Te.Error("missing master submit script")
	}
	if _, err := os.Stat(filepath.Join(dir, "README.md")); err != nil {
		Te.Error("missing README")
	}
}

func TestPrepareRejectsEmpty(Te *testing.T) {
	if err := Prepare(Te.TempDir(), nil, nil); err == nil {
		Te.Error("an empty job list should be rejected")
	}
}

func TestTarball(Te *testing.T) {
	base := Te.TempDir()
	dir := filepath.Join(base, "pkg")
	if err := Prepare(dir, sampleJobs(Te, 3), nil); err != nil {
		Te.Fatal(err)
	}
	out := filepath.Join(base, "pkg.tar.gz")
	if err := Tarball(dir, out); err != nil {
		Te.Fatal(err)
	}
	f, err := os.Open(out)
	if err != nil {
		Te.Fatal(err)
	}
	defer f.Close()
	zr, err := gzip.NewReader(f)
	if err != nil {
		Te.Fatal(err)
	}
	tr := tar.NewReader(zr)
	names := make(map[string]bool)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			Te.Fatal(err)
		}
		names[hdr.Name] = true
	}
	for _, want := range []string{
		"pkg/submit_all.sh",
		"pkg/README.md",
		"pkg/scripts/batch_01.sh",
		"pkg/inputs/c60_biaxial_p0p0.inp",
		"pkg/structures/c60_biaxial_p2p0.xyz",
	} {
		if !names[want] {
			Te.Errorf("archive is missing %s", want)
		}
	}
}

const collectOutput = ` ENERGY| Total FORCE_EVAL ( QS ) energy [a.u.]:          -338.002194523199008
 HOMO-LUMO gap [eV] :    1.672209
  **** **** ******  **  PROGRAM ENDED AT                2025-03-14 02:11:55.310
`

func TestCollect(Te *testing.T) {
	dir := Te.TempDir()
	outputs := filepath.Join(dir, "outputs")
	if err := os.MkdirAll(outputs, 0755); err != nil {
		Te.Fatal(err)
	}
	files := map[string]string{
		"c60_pristine.out":      collectOutput,
		"c60_biaxial_m2p5.out":  "no markers at all\n",
		"c60_n_5p0_random_1.out": collectOutput + " *** SCF run NOT converged ***\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(outputs, name), []byte(content), 0644); err != nil {
			Te.Fatal(err)
		}
	}
	results, err := Collect(dir)
	if err != nil {
		Te.Fatal(err)
	}
	if len(results) != 3 {
		Te.Fatalf("got %d results, want 3", len(results))
	}
	byName := make(map[string]run.Result)
	for _, r := range results {
		byName[r.Name] = r
	}
	good := byName["c60_pristine"]
	if good.Status != run.StatusCompleted || !good.Converged || good.Gap != 1.672209 {
		Te.Errorf("bad pristine record: %+v", good)
	}
	if byName["c60_biaxial_m2p5"].Status != run.StatusFailed {
		Te.Error("output without an energy should fail")
	}
	nc := byName["c60_n_5p0_random_1"]
	if nc.Status != run.StatusCompleted || nc.Converged || nc.Reason != "SCF not converged" {
		Te.Errorf("bad non-converged record: %+v", nc)
	}
	//and the CSV step on top
	csvPath := filepath.Join(dir, "final.csv")
	if err := CollectCSV(dir, csvPath); err != nil {
		Te.Fatal(err)
	}
	raw, err := os.ReadFile(csvPath)
	if err != nil {
		Te.Fatal(err)
	}
	if got := len(strings.Split(strings.TrimSpace(string(raw)), "\n")); got != 4 {
		Te.Errorf("CSV has %d lines, want header plus 3", got)
	}
}

func TestCollectEmpty(Te *testing.T) {
	if _, err := Collect(Te.TempDir()); err == nil {
		Te.Error("a directory without outputs should error")
	}
}
