/*
 * collect.go, part of gofuller.
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
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xqchen/gofuller/cp2k"
	"github.com/xqchen/gofuller/run"
)

// Collect scans the outputs/ directory of a package brought back from
// the cluster and turns every CP2K log into a result record, named
// after the file. Outputs that cannot be read become failed records
// rather than aborting the collection.
func Collect(dir string) ([]run.Result, error) {
	outs, err := filepath.Glob(filepath.Join(dir, "outputs", "*.out"))
	if err != nil {
		return nil, fmt.Errorf("hpc.Collect: %w", err)
	}
	if len(outs) == 0 {
		return nil, fmt.Errorf("hpc.Collect: no output files under %s", dir)
	}
	sort.Strings(outs)
	results := make([]run.Result, 0, len(outs))
	for _, out := range outs {
		name := strings.TrimSuffix(filepath.Base(out), ".out")
		res := run.Result{Name: name, Status: run.StatusFailed}
		s, err := cp2k.ParseOutput(out)
		switch {
		case err != nil:
			res.Reason = err.Error()
		case !s.HasEnergy:
			res.Reason = "no energy in output"
		default:
			res.Status = run.StatusCompleted
			res.Energy = s.Energy
			res.Gap = s.Gap
			res.Converged = s.Converged
			if !s.NormalTermination {
				res.Reason = "abnormal termination"
			} else if !s.Converged {
				res.Reason = "SCF not converged"
			}
		}
		results = append(results, res)
	}
	return results, nil
}

// CollectCSV collects a package directory and writes the merged table.
func CollectCSV(dir, csvPath string) error {
	results, err := Collect(dir)
	if err != nil {
		return err
	}
	return run.WriteCSV(csvPath, results)
}
