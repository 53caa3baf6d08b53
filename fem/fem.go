// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fem contains elements and solvers for tracing equilibrium paths of
// nonlinear finite element problems with Newton and arc-length continuation
package fem

import (
	"log/slog"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/zhang9song/jax-fem/inp"
	"github.com/zhang9song/jax-fem/out"
)

// FEsolver implements the actual solver (stepping loop)
type FEsolver interface {
	Run() (err error)
}

// solverallocators holds all available solvers
var solverallocators = make(map[string]func(fem *FEM) FEsolver)

// FEM holds all data for a simulation using the finite element method
type FEM struct {
	Sim     *inp.Simulation // simulation data
	Dom     *Domain         // FE domain
	LinSol  LinSolver       // linear solver
	Summary *Summary        // summary structure
	Solver  FEsolver        // stepping solver; e.g. arc-length or Newton with load increments
	Log     *slog.Logger    // logger for stepping events
	Verbose bool            // show residuals tables

	// current equilibrium state
	U   []float64 // [ny] displacements
	Lam float64   // load parameter λ

	// auxiliary
	tidx int // output index
}

// NewFEM returns a new FEM structure
//  Input:
//   simfilepath -- simulation (.sim or .yaml) filename including full path
//   erasePrev   -- erase previous results files
//   verbose     -- show residuals tables
//   logger      -- logger for stepping events; nil => slog.Default()
func NewFEM(simfilepath string, erasePrev, verbose bool, logger *slog.Logger) (o *FEM, err error) {
	sim, err := inp.ReadSim(simfilepath, erasePrev)
	if err != nil {
		return nil, chk.Err("cannot read simulation input data:\n%v", err)
	}
	return NewFEMsim(sim, verbose, logger)
}

// NewFEMsim returns a new FEM structure from simulation data already in memory
func NewFEMsim(sim *inp.Simulation, verbose bool, logger *slog.Logger) (o *FEM, err error) {

	// new FEM object
	o = new(FEM)
	o.Sim = sim
	o.Verbose = verbose
	o.Log = logger
	if o.Log == nil {
		o.Log = slog.Default()
	}
	o.Summary = new(Summary)

	// linear solver
	o.LinSol, err = GetSolver(sim.LinSol.Name)
	if err != nil {
		return nil, err
	}
	if s, ok := o.LinSol.(*LinSolCG); ok {
		if sim.LinSol.Tol > 0 {
			s.Tol = sim.LinSol.Tol
		}
		if sim.LinSol.MaxItF > 0 {
			s.MaxItF = sim.LinSol.MaxItF
		}
	}

	// domain
	o.Dom, err = NewDomain(sim)
	if err != nil {
		return nil, chk.Err("cannot allocate domain:\n%v", err)
	}
	o.U = make([]float64, o.Dom.Ny)

	// solver
	alloc, ok := solverallocators[sim.Solver.Type]
	if !ok {
		return nil, chk.Err("cannot find solver type named %q", sim.Solver.Type)
	}
	o.Solver = alloc(o)
	return
}

// Run runs FE simulation and saves the summary
func (o *FEM) Run() (err error) {
	if err = os.MkdirAll(o.Sim.DirOut, 0777); err != nil {
		return chk.Err("cannot create directory for output results (%s): %v", o.Sim.DirOut, err)
	}
	o.Log.Info("simulation started", "key", o.Sim.Key, "solver", o.Sim.Solver.Type, "ndof", o.Dom.Ny)
	err = o.Solver.Run()
	if e := o.Summary.Save(o.Sim.DirOut, o.Sim.Key, o.Sim.EncType); e != nil && err == nil {
		err = e
	}
	if err != nil {
		o.Log.Error("simulation failed", "key", o.Sim.Key, "err", err)
		return
	}
	o.Log.Info("simulation finished", "key", o.Sim.Key, "steps", o.Summary.Nsteps(), "λ", o.Lam)
	return
}

// control returns the numeric configuration of the iterations
func (o *FEM) control() (ctl Control) {
	s := o.Sim.Solver
	ctl = Control{
		Tol:        s.Tol,
		NmaxIt:     s.NmaxIt,
		Dl:         s.Dl,
		Psi:        s.Psi,
		LoadScaled: s.LoadScaled,
		Root:       s.Root,
		FirstDir:   s.FirstDir,
		Predictor:  s.Predictor,
		ShowR:      s.ShowR && o.Verbose,
	}
	ctl.SetDefault()
	return
}

// accept commits internal variables and records the step (u, λ) which is now
// the current equilibrium state
func (o *FEM) accept(u []float64, λ, dl float64, iters int, rnorm float64) (err error) {
	o.U, o.Lam = u, λ
	o.Dom.Commit()
	o.Summary.Add(λ, dl, iters, rnorm)
	if o.Dom.MonEq >= 0 {
		o.Summary.Umon = append(o.Summary.Umon, u[o.Dom.MonEq])
	}
	P := o.Dom.AvgStress()
	nd := len(P)
	o.Summary.Smon = append(o.Summary.Smon, P[nd-1][nd-1])

	// output
	k := o.Summary.Nsteps() - 1
	if o.Sim.Data.OutEvery > 0 && k%o.Sim.Data.OutEvery == 0 {
		err = o.output(k)
	}
	return
}

// output writes the state and a VTU file
func (o *FEM) output(step int) (err error) {
	if err = o.SaveSol(o.tidx); err != nil {
		return
	}
	fn := out_vtu_path(o.Sim.DirOut, o.Sim.Key, o.tidx)
	err = out.WriteVtu(fn, o.Sim.Msh, map[string][][]float64{"u": o.Dom.Unflatten(o.U)})
	if err != nil {
		return
	}
	if len(o.Dom.ElemIntvars) > 0 {
		coords, fields := o.Dom.IpData()
		if err = out.WriteIpsVtu(out_ips_path(o.Sim.DirOut, o.Sim.Key, o.tidx), coords, fields); err != nil {
			return
		}
	}
	o.Summary.OutIdx = append(o.Summary.OutIdx, step)
	o.Log.Debug("output written", "file", fn, "step", step)
	o.tidx++
	return
}
