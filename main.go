// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/zhang9song/jax-fem/fem"
	"github.com/zhang9song/jax-fem/out"
)

// command line flags
var (
	verbose   bool // show messages and residuals
	erasePrev bool // erase previous results
	doPlot    bool // plot load path after run
)

var rootCmd = &cobra.Command{
	Use:   "jax-fem [flags] file.sim|file.yaml",
	Short: "Trace equilibrium paths of nonlinear solids with arc-length continuation",
	Long: `Runs a finite element simulation defined in a JSON (.sim) or YAML (.yaml)
file. The load parameter λ is advanced with arc-length continuation (solver
type "arclen") or with fixed increments solved by Newton's method (solver type
"newton"). Results are written to the output directory of the simulation.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show messages and residuals")
	rootCmd.Flags().BoolVarP(&erasePrev, "erase", "e", true, "erase previous results")
	rootCmd.Flags().BoolVarP(&doPlot, "plot", "p", false, "plot λ versus the monitored displacement")
}

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			for i := 8; i > 3; i-- {
				chk.CallerInfo(i)
			}
			io.PfRed("ERROR: %v\n", err)
			os.Exit(1)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		io.PfRed("ERROR: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) (err error) {

	// logger
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
	}))
	slog.SetDefault(logger)

	// message
	if verbose {
		io.PfWhite("\njax-fem -- arc-length continuation for nonlinear finite elements\n\n")
		io.Pf("%-24s = %v\n", "filename path", args[0])
		io.Pf("%-24s = %v\n", "erase previous results", erasePrev)
		io.Pf("%-24s = %v\n\n", "plot load path", doPlot)
	}

	// analysis
	analysis, err := fem.NewFEM(args[0], erasePrev, verbose, logger)
	if err != nil {
		return
	}
	if err = analysis.Run(); err != nil {
		return
	}

	// plot
	if doPlot {
		sum := analysis.Summary
		if len(sum.Umon) == 0 {
			logger.Warn("cannot plot load path: no monitored vertex")
			return
		}
		sim := analysis.Sim
		fn := filepath.Join(sim.DirOut, sim.Key+"_path.png")
		err = out.PlotPath(fn, sim.Data.Desc, sim.Data.MonKey, "λ", &out.PltEntity{Alias: sim.Key, X: sum.Umon, Y: sum.Lams})
		if err != nil {
			return
		}
		logger.Info("load path plotted", "file", fn)
	}
	return
}
