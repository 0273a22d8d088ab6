/*
 * cp2k.go, part of gofuller.
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
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	fuller "github.com/xqchen/gofuller"
)

// Default wall-clock timeouts. Cell optimizations take much longer than
// single points.
const (
	DefaultTimeout = 1800 * time.Second
	CellOptTimeout = 3600 * time.Second
)

// Calc describes one CP2K calculation. The zero value is a PBE single
// point with the usual screening settings.
type Calc struct {
	RunType   string  //ENERGY (default), CELL_OPT, GEO_OPT
	Cutoff    int     //plane-wave cutoff in Ry, 0 means 400
	RelCutoff int     //0 means 50
	MaxSCF    int     //0 means 100
	EPSSCF    float64 //0 means 1.0E-6
	Template  string  //path to a template input; empty uses the built-in one
}

func (Q *Calc) setDefaults() {
	if Q.RunType == "" {
		Q.RunType = "ENERGY"
	}
	if Q.Cutoff == 0 {
		Q.Cutoff = 400
	}
	if Q.RelCutoff == 0 {
		Q.RelCutoff = 50
	}
	if Q.MaxSCF == 0 {
		Q.MaxSCF = 100
	}
	if Q.EPSSCF == 0 {
		Q.EPSSCF = 1.0e-6
	}
}

// Handle drives CP2K for one calculation at a time: BuildInput, then
// Run, then the parsing methods. A Handle can be reused by calling
// SetName between calculations.
type Handle struct {
	command   string
	inputname string
	workdir   string
	datadir   string
	timeout   time.Duration
}

// NewHandle returns a Handle with defaults set.
func NewHandle() *Handle {
	h := new(Handle)
	h.SetDefaults()
	return h
}

// SetDefaults sets the CP2K command from $CP2K_EXE (falling back to
// cp2k.ssmp in the path), the data directory from $CP2K_DATA_DIR, and
// the default timeout.
func (O *Handle) SetDefaults() {
	O.command = os.Getenv("CP2K_EXE")
	if O.command == "" {
		O.command = "cp2k.ssmp"
	}
	O.datadir = os.Getenv("CP2K_DATA_DIR")
	O.workdir = "."
	O.timeout = DefaultTimeout
}

// SetName sets the name for the calculation, used for the input and
// output files (name.inp, name.out).
func (O *Handle) SetName(name string) {
	O.inputname = name
}

// Name returns the current calculation name.
func (O *Handle) Name() string { return O.inputname }

// SetCommand sets the CP2K executable.
func (O *Handle) SetCommand(name string) {
	O.command = name
}

// Command returns the CP2K executable.
func (O *Handle) Command() string { return O.command }

// SetWorkDir sets the directory where input and output files live and
// where CP2K is run.
func (O *Handle) SetWorkDir(dir string) {
	O.workdir = dir
}

// SetDataDir sets the CP2K data directory holding BASIS_MOLOPT and
// GTH_POTENTIALS.
func (O *Handle) SetDataDir(dir string) {
	O.datadir = dir
}

// SetTimeout overrides the wall-clock timeout used by Run.
func (O *Handle) SetTimeout(d time.Duration) {
	O.timeout = d
}

func (O *Handle) inpPath() string {
	return filepath.Join(O.workdir, O.inputname+".inp")
}

func (O *Handle) outPath() string {
	return filepath.Join(O.workdir, O.inputname+".out")
}

// BuildInput writes the CP2K input file for mol. With Q.Template set,
// the template text is loaded, its PROJECT, COORD_FILE_NAME and ABC
// lines rewritten for this calculation, and the structure written next
// to it as an XYZ file; otherwise a self-contained single-point input
// with inline coordinates is generated.
func (O *Handle) BuildInput(mol *fuller.Molecule, Q *Calc) error {
	if mol == nil {
		return Error{ErrCantInput, O.inputname, "nil structure", []string{"BuildInput"}, true}
	}
	if O.inputname == "" {
		O.inputname = "gofuller"
	}
	if Q == nil {
		Q = new(Calc)
	}
	Q.setDefaults()
	if err := os.MkdirAll(O.workdir, 0755); err != nil {
		return Error{ErrCantInput, O.inputname, err.Error(), []string{"os.MkdirAll", "BuildInput"}, true}
	}
	if Q.Template != "" {
		xyzname := O.inputname + ".xyz"
		if err := fuller.XYZWrite(filepath.Join(O.workdir, xyzname), mol); err != nil {
			return Error{ErrCantInput, O.inputname, err.Error(), []string{"XYZWrite", "BuildInput"}, true}
		}
	}
	content, err := InputText(mol, Q, O.inputname, O.inputname+".xyz", O.datadir)
	if err != nil {
		return Error{ErrCantInput, O.inputname, err.Error(), []string{"InputText", "BuildInput"}, true}
	}
	if err := os.WriteFile(O.inpPath(), []byte(content), 0644); err != nil {
		return Error{ErrCantInput, O.inputname, err.Error(), []string{"os.WriteFile", "BuildInput"}, true}
	}
	return nil
}

// InputText returns the input file content for mol without writing
// anything: the rendered template when Q.Template is set (coordFile is
// the coordinate file path as CP2K will see it), the self-contained
// built-in input otherwise. Both go through FixInput.
func InputText(mol *fuller.Molecule, Q *Calc, project, coordFile, datadir string) (string, error) {
	if Q == nil {
		Q = new(Calc)
	}
	Q.setDefaults()
	var content string
	if Q.Template != "" {
		raw, err := os.ReadFile(Q.Template)
		if err != nil {
			return "", err
		}
		content = RenderTemplate(string(raw), project, coordFile, mol.Cell)
	} else {
		content = renderBuiltin(mol, Q, project)
	}
	return FixInput(content, datadir), nil
}

// Run runs CP2K on the input built before, blocking until it finishes
// or the handle's timeout expires. On timeout the process is killed and
// the run reported as failed; there is no retry.
func (O *Handle) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, O.timeout)
	defer cancel()
	log.Printf("cp2k: running %s -i %s.inp -o %s.out (timeout %v)", O.command, O.inputname, O.inputname, O.timeout)
	command := exec.CommandContext(ctx, O.command, "-i", O.inputname+".inp", "-o", O.inputname+".out")
	command.Dir = O.workdir
	err := command.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return Error{ErrTimeout, O.inputname, fmt.Sprintf("after %v", O.timeout), []string{"exec.Run", "Run"}, true}
	}
	if err != nil {
		return Error{ErrNotRunning, O.inputname, err.Error(), []string{"exec.Run", "Run"}, true}
	}
	return nil
}

// Energy returns the last total energy (Hartree) found in the output.
// If the run did not terminate normally, the energy is returned
// together with an Error carrying ErrProbableProblem.
func (O *Handle) Energy() (float64, error) {
	energy, err := lastFloatAfterMarker(O.outPath(), MarkerEnergy)
	if err != nil {
		return 0, Error{ErrNoEnergy, O.inputname, err.Error(), []string{"lastFloatAfterMarker", "Energy"}, true}
	}
	if !O.NormalTermination() {
		return energy, Error{ErrProbableProblem, O.inputname, "", []string{"Energy"}, false}
	}
	return energy, nil
}

// Gap returns the last HOMO-LUMO gap (eV) found in the output, with
// the same trust semantics as Energy.
func (O *Handle) Gap() (float64, error) {
	gap, err := lastFloatAfterMarker(O.outPath(), MarkerGap)
	if err != nil {
		return 0, Error{ErrNoGap, O.inputname, err.Error(), []string{"lastFloatAfterMarker", "Gap"}, true}
	}
	if !O.NormalTermination() {
		return gap, Error{ErrProbableProblem, O.inputname, "", []string{"Gap"}, false}
	}
	return gap, nil
}

// Converged reports whether the SCF converged. CP2K prints an explicit
// marker only on failure, so an unreadable output also counts as not
// converged.
func (O *Handle) Converged() bool {
	content, err := os.ReadFile(O.outPath())
	if err != nil {
		return false
	}
	return !containsMarker(content, MarkerNotConverged)
}

// NormalTermination reports whether CP2K ended cleanly.
func (O *Handle) NormalTermination() bool {
	return searchBackwards(MarkerEnded, O.outPath()) != ""
}
