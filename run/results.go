/*
 * results.go, part of gofuller.
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
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Status values for a Result.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Result records the outcome of one job.
type Result struct {
	Name      string  `json:"name"`
	Status    string  `json:"status"`
	Energy    float64 `json:"energy_hartree"`
	Gap       float64 `json:"gap_ev"`
	Converged bool    `json:"converged"`
	Elapsed   float64 `json:"elapsed_s"`
	Reason    string  `json:"reason,omitempty"`
}

// WriteCheckpoint saves results as indented JSON. Written after every
// few jobs so an interrupted run loses little work.
func WriteCheckpoint(path string, results []Result) error {
	raw, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("WriteCheckpoint: %w", err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("WriteCheckpoint: %w", err)
	}
	return nil
}

// ReadCheckpoint loads a JSON results file.
func ReadCheckpoint(path string) ([]Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ReadCheckpoint: %w", err)
	}
	var results []Result
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, fmt.Errorf("ReadCheckpoint %s: %w", path, err)
	}
	return results, nil
}

// csvHeader is the column set of the merged results table.
var csvHeader = []string{
	"name", "structure", "strain_kind", "strain_percent",
	"dopant", "concentration", "strategy", "replica", "mixed",
	"status", "energy_hartree", "gap_ev", "converged", "elapsed_s", "reason",
}

// WriteCSV writes the merged results table, with the parameter columns
// recovered from each job name. Names that do not parse keep their raw
// name and leave the parameter columns empty.
func WriteCSV(path string, results []Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("WriteCSV: %w", err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("WriteCSV: %w", err)
	}
	for _, r := range results {
		row := []string{r.Name, "", "", "", "", "", "", "", ""}
		if m, err := ParseJobName(r.Name); err == nil {
			row[1] = m.Structure
			row[2] = m.StrainKind
			if m.StrainKind != "" {
				row[3] = strconv.FormatFloat(m.Strain, 'f', 1, 64)
			}
			row[4] = m.Dopant
			if m.Dopant != "" {
				row[5] = strconv.FormatFloat(m.Concentration, 'f', 1, 64)
				row[6] = m.Strategy
			}
			if m.Replica != 0 {
				row[7] = strconv.Itoa(m.Replica)
			}
			row[8] = m.Mixed
		}
		row = append(row,
			r.Status,
			strconv.FormatFloat(r.Energy, 'f', -1, 64),
			strconv.FormatFloat(r.Gap, 'f', -1, 64),
			strconv.FormatBool(r.Converged),
			strconv.FormatFloat(r.Elapsed, 'f', 2, 64),
			r.Reason,
		)
		if err := w.Write(row); err != nil {
			return fmt.Errorf("WriteCSV: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
