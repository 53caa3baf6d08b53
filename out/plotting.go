// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"image/color"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PltEntity stores all data for a plot entity (X vs Y)
type PltEntity struct {
	Alias string    // legend entry
	X     []float64 // x-values
	Y     []float64 // y-values
}

// PlotPath draws one or more curves (e.g. λ versus a monitored displacement)
// and saves the figure. The format follows the extension of fn (png, svg, pdf, eps)
func PlotPath(fn, title, xlbl, ylbl string, data ...*PltEntity) (err error) {

	// check
	if len(data) == 0 {
		return chk.Err("there is nothing to plot")
	}

	// new plot
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlbl
	p.Y.Label.Text = ylbl
	p.Add(plotter.NewGrid())

	// curves
	colors := []color.RGBA{
		{R: 0, G: 0, B: 255, A: 255},
		{R: 255, G: 0, B: 0, A: 255},
		{R: 0, G: 128, B: 0, A: 255},
		{R: 0, G: 0, B: 0, A: 255},
	}
	for i, d := range data {
		if len(d.X) != len(d.Y) {
			return chk.Err("lengths of x- and y-series are different. len(x)=%d, len(y)=%d", len(d.X), len(d.Y))
		}
		pts := make(plotter.XYs, len(d.X))
		for j := range d.X {
			pts[j].X = d.X[j]
			pts[j].Y = d.Y[j]
		}
		line, pnts, e := plotter.NewLinePoints(pts)
		if e != nil {
			return chk.Err("cannot create curve %q:\n%v", d.Alias, e)
		}
		line.Color = colors[i%len(colors)]
		pnts.Color = colors[i%len(colors)]
		pnts.Radius = vg.Points(1.5)
		p.Add(line, pnts)
		if d.Alias != "" {
			p.Legend.Add(d.Alias, line, pnts)
		}
	}

	// save figure
	if dir := filepath.Dir(fn); dir != "" {
		if err = os.MkdirAll(dir, 0777); err != nil {
			return chk.Err("cannot create directory %q:\n%v", dir, err)
		}
	}
	if err = p.Save(6*vg.Inch, 4*vg.Inch, fn); err != nil {
		return chk.Err("cannot save figure %q:\n%v", fn, err)
	}
	return
}
