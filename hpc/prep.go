/*
 * prep.go, part of gofuller.
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

//Package hpc prepares self-contained Slurm packages for running the
//CP2K series on a cluster, and collects the outputs brought back.
package hpc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	fuller "github.com/xqchen/gofuller"
	"github.com/xqchen/gofuller/cp2k"
	"github.com/xqchen/gofuller/run"
)

// Options describes the cluster side of a package. The zero value is
// usable; Account and Partition are left out of the headers when empty.
type Options struct {
	Account      string
	Partition    string
	Nodes        int    //0: 1
	TasksPerNode int    //0: 32
	WallTime     string //empty: 24:00:00
	CP2KModule   string //empty: CP2K/2025.1
	CP2KCommand  string //empty: cp2k.popt
	BatchSize    int    //jobs per Slurm script, 0: 10
	Template     string //CP2K template path, empty: built-in input
}

func (o *Options) setDefaults() {
	if o.Nodes == 0 {
		o.Nodes = 1
	}
	if o.TasksPerNode == 0 {
		o.TasksPerNode = 32
	}
	if o.WallTime == "" {
		o.WallTime = "24:00:00"
	}
	if o.CP2KModule == "" {
		o.CP2KModule = "CP2K/2025.1"
	}
	if o.CP2KCommand == "" {
		o.CP2KCommand = "cp2k.popt"
	}
	if o.BatchSize == 0 {
		o.BatchSize = 10
	}
}

// Prepare lays out a cluster package under dir: every job's input under
// inputs/ and its structure under structures/, Slurm batch scripts of
// BatchSize jobs each under scripts/, a master submit script, and a
// README. The scripts expect to be submitted from the package root and
// write CP2K logs to outputs/.
func Prepare(dir string, jobs []run.Job, opt *Options) error {
	if len(jobs) == 0 {
		return fmt.Errorf("hpc.Prepare: no jobs")
	}
	if opt == nil {
		opt = new(Options)
	}
	opt.setDefaults()
	for _, sub := range []string{"inputs", "structures", "scripts", "outputs", "logs"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			return fmt.Errorf("hpc.Prepare: %w", err)
		}
	}
	Q := &cp2k.Calc{Template: opt.Template}
	for _, job := range jobs {
		xyz := filepath.Join(dir, "structures", job.Name+".xyz")
		if err := fuller.XYZWrite(xyz, job.Mol); err != nil {
			return fmt.Errorf("hpc.Prepare %s: %w", job.Name, err)
		}
		//the coordinate path is relative to the package root, where
		//the batch scripts run CP2K from
		content, err := cp2k.InputText(job.Mol, Q, job.Name, "structures/"+job.Name+".xyz", "")
		if err != nil {
			return fmt.Errorf("hpc.Prepare %s: %w", job.Name, err)
		}
		inp := filepath.Join(dir, "inputs", job.Name+".inp")
		if err := os.WriteFile(inp, []byte(content), 0644); err != nil {
			return fmt.Errorf("hpc.Prepare %s: %w", job.Name, err)
		}
	}
	nbatches := (len(jobs) + opt.BatchSize - 1) / opt.BatchSize
	for b := 0; b < nbatches; b++ {
		lo := b * opt.BatchSize
		hi := lo + opt.BatchSize
		if hi > len(jobs) {
			hi = len(jobs)
		}
		script := batchScript(b+1, jobs[lo:hi], opt)
		name := filepath.Join(dir, "scripts", fmt.Sprintf("batch_%02d.sh", b+1))
		if err := os.WriteFile(name, []byte(script), 0755); err != nil {
			return fmt.Errorf("hpc.Prepare: %w", err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "submit_all.sh"), []byte(submitScript(nbatches)), 0755); err != nil {
		return fmt.Errorf("hpc.Prepare: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte(readme(len(jobs), nbatches, opt)), 0644); err != nil {
		return fmt.Errorf("hpc.Prepare: %w", err)
	}
	return nil
}

func batchScript(n int, jobs []run.Job, opt *Options) string {
	var b strings.Builder
	b.WriteString("#!/bin/bash\n")
	fmt.Fprintf(&b, "#SBATCH --job-name=c60_batch_%02d\n", n)
	if opt.Account != "" {
		fmt.Fprintf(&b, "#SBATCH --account=%s\n", opt.Account)
	}
	if opt.Partition != "" {
		fmt.Fprintf(&b, "#SBATCH --partition=%s\n", opt.Partition)
	}
	fmt.Fprintf(&b, "#SBATCH --nodes=%d\n", opt.Nodes)
	fmt.Fprintf(&b, "#SBATCH --ntasks-per-node=%d\n", opt.TasksPerNode)
	fmt.Fprintf(&b, "#SBATCH --time=%s\n", opt.WallTime)
	fmt.Fprintf(&b, "#SBATCH --output=logs/batch_%02d.%%j.log\n", n)
	b.WriteString("\n")
	fmt.Fprintf(&b, "module load %s\n", opt.CP2KModule)
	b.WriteString("cd \"$SLURM_SUBMIT_DIR\"\n\n")
	for _, job := range jobs {
		fmt.Fprintf(&b, "mpirun %s -i inputs/%s.inp -o outputs/%s.out\n",
			opt.CP2KCommand, job.Name, job.Name)
	}
	return b.String()
}

func submitScript(nbatches int) string {
	var b strings.Builder
	b.WriteString("#!/bin/bash\n# Submit every batch of the package.\n")
	fmt.Fprintf(&b, "for i in $(seq -w 1 %02d); do\n", nbatches)
	b.WriteString("    sbatch scripts/batch_${i}.sh\n")
	b.WriteString("done\n")
	return b.String()
}

func readme(njobs, nbatches int, opt *Options) string {
	var b strings.Builder
	b.WriteString("# CP2K calculation package\n\n")
	fmt.Fprintf(&b, "%d calculations in %d Slurm batches of up to %d.\n\n", njobs, nbatches, opt.BatchSize)
	b.WriteString("Layout:\n\n")
	b.WriteString("    inputs/       CP2K input files\n")
	b.WriteString("    structures/   XYZ coordinate files\n")
	b.WriteString("    scripts/      per-batch Slurm scripts\n")
	b.WriteString("    outputs/      CP2K output logs (filled by the batches)\n")
	b.WriteString("    logs/         Slurm stdout/stderr\n\n")
	b.WriteString("Submit everything from the package root:\n\n")
	b.WriteString("    ./submit_all.sh\n\n")
	fmt.Fprintf(&b, "The scripts load the %s module and run %s with %d tasks per node.\n",
		opt.CP2KModule, opt.CP2KCommand, opt.TasksPerNode)
	b.WriteString("When the batches are done, bring outputs/ back and run the collect step.\n")
	return b.String()
}
