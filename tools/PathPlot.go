// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// +build ignore

package main

import (
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/io"
	"github.com/zhang9song/jax-fem/fem"
	"github.com/zhang9song/jax-fem/inp"
	"github.com/zhang9song/jax-fem/out"
)

// plots the load paths and iterations stored in the summaries of one or more simulations
//  usage: go run PathPlot.go a.sim [b.sim ...]
func main() {

	if len(os.Args) < 2 {
		io.PfRed("usage: go run PathPlot.go a.sim [b.sim ...]\n")
		return
	}

	var paths, iters []*out.PltEntity
	var dirout string
	for _, fn := range os.Args[1:] {

		// summary
		sim, err := inp.ReadSim(fn, false)
		if err != nil {
			io.PfRed("cannot read simulation file:\n%v\n", err)
			return
		}
		sum, err := fem.ReadSum(sim.DirOut, sim.Key, sim.EncType)
		if err != nil {
			io.PfRed("cannot read summary:\n%v\n", err)
			return
		}
		dirout = sim.DirOut

		// statistics
		var ntot int
		steps := make([]float64, sum.Nsteps())
		its := make([]float64, sum.Nsteps())
		for i, n := range sum.Iters {
			ntot += n
			steps[i] = float64(i)
			its[i] = float64(n)
		}
		io.Pf("%s: steps = %d  failed attempts = %d  iterations = %d\n", sim.Key, sum.Nsteps(), sum.Nfail, ntot)

		if len(sum.Umon) == len(sum.Lams) {
			paths = append(paths, &out.PltEntity{Alias: sim.Key, X: sum.Umon, Y: sum.Lams})
		}
		iters = append(iters, &out.PltEntity{Alias: sim.Key, X: steps, Y: its})
	}

	// figures
	if len(paths) > 0 {
		if err := out.PlotPath(filepath.Join(dirout, "paths.png"), "load paths", "monitored displacement", "λ", paths...); err != nil {
			io.PfRed("%v\n", err)
		}
	}
	if err := out.PlotPath(filepath.Join(dirout, "iters.png"), "iterations", "step", "number of iterations", iters...); err != nil {
		io.PfRed("%v\n", err)
	}
}
