/*
 * plot.go, part of gofuller.
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

//Package report turns merged calculation results into figures and
//checks the headline numbers against literature reference values.
package report

import (
	"fmt"
	"image/color"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	fuller "github.com/xqchen/gofuller"
	"github.com/xqchen/gofuller/run"
)

// palette for the series of a grouped scatter plot.
var palette = []color.RGBA{
	{R: 215, G: 48, B: 39, A: 255},
	{G: 104, B: 180, A: 255},
	{R: 35, G: 139, B: 69, A: 255},
	{R: 255, G: 127, A: 255},
	{R: 106, G: 61, B: 154, A: 255},
}

// series is one labelled point set of a grouped plot.
type series struct {
	label  string
	points plotter.XYs
}

func scatterPlot(title, xlabel, ylabel, filename string, groups []series) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	for i, g := range groups {
		if len(g.points) == 0 {
			continue
		}
		s, err := plotter.NewScatter(g.points)
		if err != nil {
			return fmt.Errorf("report: %w", err)
		}
		s.GlyphStyle.Color = palette[i%len(palette)]
		s.GlyphStyle.Radius = vg.Points(3)
		p.Add(s)
		p.Legend.Add(g.label, s)
	}
	p.Legend.Top = true
	if err := p.Save(6*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}

// EnergyVsStrain plots the total energy of the strained jobs against
// strain percentage, one series per strain mode. Pristine jobs appear
// at zero strain in every series; unparseable or failed jobs are
// skipped. Returns an error when nothing is plottable.
func EnergyVsStrain(results []run.Result, filename string) error {
	bySeries := make(map[string]plotter.XYs)
	var pristine []run.Result
	for _, r := range results {
		if r.Status != run.StatusCompleted {
			continue
		}
		m, err := run.ParseJobName(r.Name)
		if err != nil || m.Dopant != "" || m.Mixed != "" {
			continue
		}
		if m.StrainKind == "" {
			pristine = append(pristine, r)
			continue
		}
		bySeries[m.StrainKind] = append(bySeries[m.StrainKind],
			plotter.XY{X: m.Strain, Y: r.Energy * fuller.H2eV})
	}
	if len(bySeries) == 0 {
		return fmt.Errorf("report.EnergyVsStrain: no completed strain jobs")
	}
	for kind := range bySeries {
		for _, r := range pristine {
			bySeries[kind] = append(bySeries[kind], plotter.XY{X: 0, Y: r.Energy * fuller.H2eV})
		}
	}
	return scatterPlot("Total energy vs strain", "strain / %", "energy / eV",
		filename, sortedSeries(bySeries))
}

// GapVsConcentration plots the HOMO-LUMO gap of the doped jobs against
// dopant concentration, one series per dopant element.
func GapVsConcentration(results []run.Result, filename string) error {
	bySeries := make(map[string]plotter.XYs)
	for _, r := range results {
		if r.Status != run.StatusCompleted {
			continue
		}
		m, err := run.ParseJobName(r.Name)
		if err != nil || m.Dopant == "" || m.StrainKind != "" {
			continue
		}
		bySeries[m.Dopant] = append(bySeries[m.Dopant],
			plotter.XY{X: m.Concentration, Y: r.Gap})
	}
	if len(bySeries) == 0 {
		return fmt.Errorf("report.GapVsConcentration: no completed doped jobs")
	}
	return scatterPlot("HOMO-LUMO gap vs dopant concentration",
		"concentration / %", "gap / eV", filename, sortedSeries(bySeries))
}

func sortedSeries(m map[string]plotter.XYs) []series {
	labels := make([]string, 0, len(m))
	for l := range m {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	out := make([]series, 0, len(labels))
	for _, l := range labels {
		out = append(out, series{l, m[l]})
	}
	return out
}
