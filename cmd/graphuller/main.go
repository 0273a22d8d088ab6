/*
 * main.go, part of gofuller.
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

// graphuller drives the C60 calculation workflow: structure
// generation, local CP2K runs, cluster package preparation, output
// collection and reporting.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	fuller "github.com/xqchen/gofuller"
	"github.com/xqchen/gofuller/hpc"
	"github.com/xqchen/gofuller/report"
	"github.com/xqchen/gofuller/run"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: graphuller <command> [flags]

commands:
  generate   write the structures of a parameter space as XYZ files
  run        execute the parameter space with a local CP2K
  prepare    build a Slurm package for a cluster
  collect    merge cluster outputs into a results CSV
  plot       draw figures from a results file
  validate   check headline values against literature windows

Run graphuller <command> -h for the flags of each command.
`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "generate":
		err = generate(os.Args[2:])
	case "run":
		err = runCmd(os.Args[2:])
	case "prepare":
		err = prepare(os.Args[2:])
	case "collect":
		err = collect(os.Args[2:])
	case "plot":
		err = plotCmd(os.Args[2:])
	case "validate":
		err = validate(os.Args[2:])
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "graphuller: unknown command %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "graphuller:", err)
		os.Exit(1)
	}
}

func generate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	config := fs.String("config", "experiment.yaml", "experiment config file")
	out := fs.String("out", "structures", "output directory for XYZ files")
	fs.Parse(args)
	conf, err := run.Load(*config)
	if err != nil {
		return err
	}
	jobs, err := conf.Jobs()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(*out, 0755); err != nil {
		return err
	}
	for _, job := range jobs {
		if err := fuller.XYZWrite(filepath.Join(*out, job.Name+".xyz"), job.Mol); err != nil {
			return err
		}
	}
	fmt.Printf("wrote %d structures to %s\n", len(jobs), *out)
	return nil
}

func runCmd(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	config := fs.String("config", "experiment.yaml", "experiment config file")
	fs.Parse(args)
	conf, err := run.Load(*config)
	if err != nil {
		return err
	}
	r, err := run.NewRunner(conf)
	if err != nil {
		return err
	}
	//a first interrupt stops the run after the current job
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	results, err := r.Run(ctx)
	if err != nil {
		return err
	}
	completed := 0
	for _, res := range results {
		if res.Status == run.StatusCompleted {
			completed++
		}
	}
	fmt.Printf("%d/%d jobs completed; results under %s\n", completed, len(results), conf.WorkDir)
	return nil
}

func prepare(args []string) error {
	fs := flag.NewFlagSet("prepare", flag.ExitOnError)
	config := fs.String("config", "experiment.yaml", "experiment config file")
	out := fs.String("out", "hpc_package", "package directory")
	account := fs.String("account", "", "Slurm account")
	partition := fs.String("partition", "", "Slurm partition")
	walltime := fs.String("walltime", "", "Slurm wall time, hh:mm:ss")
	batch := fs.Int("batch", 0, "jobs per Slurm script")
	tarball := fs.Bool("tar", true, "also write <out>.tar.gz")
	fs.Parse(args)
	conf, err := run.Load(*config)
	if err != nil {
		return err
	}
	jobs, err := conf.Jobs()
	if err != nil {
		return err
	}
	opt := &hpc.Options{
		Account:   *account,
		Partition: *partition,
		WallTime:  *walltime,
		BatchSize: *batch,
		Template:  conf.CP2K.Template,
	}
	if err := hpc.Prepare(*out, jobs, opt); err != nil {
		return err
	}
	fmt.Printf("prepared %d jobs under %s\n", len(jobs), *out)
	if *tarball {
		archive := *out + ".tar.gz"
		if err := hpc.Tarball(*out, archive); err != nil {
			return err
		}
		fmt.Println("packed", archive)
	}
	return nil
}

func collect(args []string) error {
	fs := flag.NewFlagSet("collect", flag.ExitOnError)
	dir := fs.String("dir", "hpc_package", "package directory with outputs/")
	out := fs.String("o", "results.csv", "merged CSV path")
	fs.Parse(args)
	if err := hpc.CollectCSV(*dir, *out); err != nil {
		return err
	}
	fmt.Println("wrote", *out)
	return nil
}

func plotCmd(args []string) error {
	fs := flag.NewFlagSet("plot", flag.ExitOnError)
	resultsPath := fs.String("results", "calculations/results.json", "results JSON file")
	outdir := fs.String("outdir", "figures", "directory for the PNG figures")
	fs.Parse(args)
	results, err := run.ReadCheckpoint(*resultsPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(*outdir, 0755); err != nil {
		return err
	}
	//each figure is skipped, not fatal, when its series is empty
	strainPNG := filepath.Join(*outdir, "energy_vs_strain.png")
	if err := report.EnergyVsStrain(results, strainPNG); err != nil {
		fmt.Fprintln(os.Stderr, "graphuller:", err)
	} else {
		fmt.Println("wrote", strainPNG)
	}
	gapPNG := filepath.Join(*outdir, "gap_vs_concentration.png")
	if err := report.GapVsConcentration(results, gapPNG); err != nil {
		fmt.Fprintln(os.Stderr, "graphuller:", err)
	} else {
		fmt.Println("wrote", gapPNG)
	}
	return nil
}

func validate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	bandgap := fs.Float64("bandgap", 0, "computed HOMO-LUMO gap, eV")
	dielectric := fs.Float64("dielectric", 0, "computed epsilon_inf")
	alphaK := fs.Float64("alpha-k", 0, "computed K intercalation capacity, percent")
	thermal := fs.Float64("thermal", 0, "computed gap renormalization at 300 K, eV")
	fs.Parse(args)
	values := make(map[string]float64)
	for key, v := range map[string]float64{
		"bandgap":        *bandgap,
		"dielectric":     *dielectric,
		"alpha_k":        *alphaK,
		"thermal_renorm": *thermal,
	} {
		if v != 0 {
			values[key] = v
		}
	}
	if len(values) == 0 {
		return fmt.Errorf("validate: no values given")
	}
	checks, err := report.Validate(values)
	if err != nil {
		return err
	}
	if err := report.WriteTable(os.Stdout, checks); err != nil {
		return err
	}
	if !report.AllPass(checks) {
		return fmt.Errorf("validation failed")
	}
	return nil
}
