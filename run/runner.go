/*
 * runner.go, part of gofuller.
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
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/xqchen/gofuller/cp2k"
)

// checkpointEvery is how many jobs pass between JSON checkpoints.
const checkpointEvery = 5

// Runner executes the jobs of a Config sequentially. One CP2K process
// runs at a time; a failed job is recorded and the run continues.
type Runner struct {
	conf   *Config
	handle *cp2k.Handle
	logger *log.Logger
}

// NewRunner prepares the work directory and the run log
// (workdir/run.log, also echoed to stderr).
func NewRunner(conf *Config) (*Runner, error) {
	if err := os.MkdirAll(conf.WorkDir, 0755); err != nil {
		return nil, fmt.Errorf("NewRunner: %w", err)
	}
	logfile, err := os.Create(filepath.Join(conf.WorkDir, "run.log"))
	if err != nil {
		return nil, fmt.Errorf("NewRunner: %w", err)
	}
	logger := log.New(io.MultiWriter(os.Stderr, logfile), "run: ", log.LstdFlags)
	h := cp2k.NewHandle()
	if conf.CP2K.Command != "" {
		h.SetCommand(conf.CP2K.Command)
	}
	if conf.CP2K.DataDir != "" {
		h.SetDataDir(conf.CP2K.DataDir)
	}
	h.SetWorkDir(conf.WorkDir)
	h.SetTimeout(conf.Timeout())
	return &Runner{conf: conf, handle: h, logger: logger}, nil
}

// Run expands the parameter space and executes every job, writing a
// JSON checkpoint every few jobs and the final merged CSV at the end.
// It returns the results even when some jobs failed; the returned
// error covers only the run machinery itself.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	jobs, err := r.conf.Jobs()
	if err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}
	r.logger.Printf("%d jobs to run in %s", len(jobs), r.conf.WorkDir)
	checkpoint := filepath.Join(r.conf.WorkDir, "results.json")
	results := make([]Result, 0, len(jobs))
	for i, job := range jobs {
		r.logger.Printf("job %d/%d: %s", i+1, len(jobs), job.Name)
		results = append(results, r.runOne(ctx, job))
		if (i+1)%checkpointEvery == 0 {
			if err := WriteCheckpoint(checkpoint, results); err != nil {
				return results, err
			}
		}
		if ctx.Err() != nil {
			r.logger.Printf("run cancelled after %d jobs", i+1)
			break
		}
	}
	if err := WriteCheckpoint(checkpoint, results); err != nil {
		return results, err
	}
	if err := WriteCSV(filepath.Join(r.conf.WorkDir, "results.csv"), results); err != nil {
		return results, err
	}
	completed := 0
	for _, res := range results {
		if res.Status == StatusCompleted {
			completed++
		}
	}
	r.logger.Printf("done: %d/%d completed", completed, len(results))
	return results, nil
}

func (r *Runner) runOne(ctx context.Context, job Job) Result {
	res := Result{Name: job.Name, Status: StatusFailed}
	start := time.Now()
	defer func() { res.Elapsed = time.Since(start).Seconds() }()
	r.handle.SetName(job.Name)
	Q := &cp2k.Calc{Template: r.conf.CP2K.Template}
	if err := r.handle.BuildInput(job.Mol, Q); err != nil {
		res.Reason = err.Error()
		return res
	}
	if err := r.handle.Run(ctx); err != nil {
		res.Reason = err.Error()
		return res
	}
	energy, err := r.handle.Energy()
	if err != nil && !cp2k.IsProbableProblem(err) {
		res.Reason = err.Error()
		return res
	}
	res.Energy = energy
	//a missing gap is tolerable: not every run type prints one
	if gap, err := r.handle.Gap(); err == nil || cp2k.IsProbableProblem(err) {
		res.Gap = gap
	}
	res.Converged = r.handle.Converged()
	res.Status = StatusCompleted
	if !res.Converged {
		res.Reason = "SCF not converged"
	}
	return res
}
