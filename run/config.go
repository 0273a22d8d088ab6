/*
 * config.go, part of gofuller.
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

//Package run executes series of CP2K calculations over a parameter
//space of strained and doped C60 structures, one subprocess at a time,
//checkpointing results as it goes.
package run

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the YAML experiment description.
type Config struct {
	CP2K struct {
		Command  string `yaml:"command"`   //empty: $CP2K_EXE or cp2k.ssmp
		DataDir  string `yaml:"data_dir"`  //empty: $CP2K_DATA_DIR
		Template string `yaml:"template"`  //empty: built-in input
		Timeout  int    `yaml:"timeout_s"` //0: 1800
	} `yaml:"cp2k"`
	WorkDir string `yaml:"work_dir"`
	Space   Space  `yaml:"space"`
}

// Space is the parameter space swept by a run: which base structures,
// which strains, and which doping series.
type Space struct {
	Structures      []string  `yaml:"structures"`       //c60, c60_cell, c60_dimer, network2..4
	StrainKinds     []string  `yaml:"strain_kinds"`     //biaxial, uniaxial_x, uniaxial_y, shear
	Strains         []float64 `yaml:"strains"`          //percent, signed
	Dopants         []string  `yaml:"dopants"`          //B, N, P
	Concentrations  []float64 `yaml:"concentrations"`   //percent
	Strategies      []string  `yaml:"strategies"`       //random, uniform, clustered
	ConfigsPerCombo int       `yaml:"configs_per_combo"`
	Seed            uint64    `yaml:"seed"`
	//Combined also crosses every strained structure with the doping
	//series (strain first, then doping).
	Combined bool `yaml:"combined"`
	//Mixed lists co-doping configs, e.g. [{B: 2.5, N: 2.5}].
	Mixed []map[string]float64 `yaml:"mixed"`
}

// Load reads and validates a YAML config file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("run.Load: %w", err)
	}
	conf := new(Config)
	if err := yaml.Unmarshal(raw, conf); err != nil {
		return nil, fmt.Errorf("run.Load %s: %w", path, err)
	}
	conf.setDefaults()
	if err := conf.validate(); err != nil {
		return nil, fmt.Errorf("run.Load %s: %w", path, err)
	}
	return conf, nil
}

func (c *Config) setDefaults() {
	if c.WorkDir == "" {
		c.WorkDir = "calculations"
	}
	if len(c.Space.Structures) == 0 {
		c.Space.Structures = []string{"c60"}
	}
	if c.Space.ConfigsPerCombo == 0 {
		c.Space.ConfigsPerCombo = 1
	}
	if len(c.Space.Strategies) == 0 && len(c.Space.Dopants) > 0 {
		c.Space.Strategies = []string{"random"}
	}
	if c.Space.Seed == 0 {
		c.Space.Seed = 42
	}
}

// Timeout returns the per-job wall-clock limit.
func (c *Config) Timeout() time.Duration {
	if c.CP2K.Timeout == 0 {
		return 1800 * time.Second
	}
	return time.Duration(c.CP2K.Timeout) * time.Second
}

func (c *Config) validate() error {
	for _, s := range c.Space.Structures {
		if _, err := buildStructure(s); err != nil {
			return err
		}
	}
	for _, k := range c.Space.StrainKinds {
		switch k {
		case "biaxial", "uniaxial_x", "uniaxial_y", "shear":
		default:
			return fmt.Errorf("unknown strain kind %q", k)
		}
	}
	for _, d := range c.Space.Dopants {
		switch d {
		case "B", "N", "P":
		default:
			return fmt.Errorf("unknown dopant %q", d)
		}
	}
	for _, s := range c.Space.Strategies {
		switch s {
		case "random", "uniform", "clustered":
		default:
			return fmt.Errorf("unknown doping strategy %q", s)
		}
	}
	for _, config := range c.Space.Mixed {
		if len(config) == 0 {
			return fmt.Errorf("empty co-doping config")
		}
		for el := range config {
			switch el {
			case "B", "N", "P":
			default:
				return fmt.Errorf("unknown co-doping element %q", el)
			}
		}
	}
	if c.Space.Combined && (len(c.Space.StrainKinds) == 0 || len(c.Space.Dopants) == 0) {
		return fmt.Errorf("combined series needs both strain kinds and dopants")
	}
	return nil
}
