// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"fmt"

	"github.com/cpmech/gosl/chk"
)

// SolverNewton applies the load in Nsteps equal increments of λ up to
// LamTarget and solves each increment with Newton iterations. With DvgCtrl,
// a failed increment is retried with half its size (and half the time step).
type SolverNewton struct {
	fem *FEM
}

// set factory
func init() {
	solverallocators["newton"] = func(fem *FEM) FEsolver {
		return &SolverNewton{fem}
	}
}

// Run runs the load increments
func (o *SolverNewton) Run() (err error) {

	// auxiliary
	f := o.fem
	s := f.Sim.Solver
	ctl := f.control()
	nwt, err := NewNewton(f.Dom, f.LinSol)
	if err != nil {
		return
	}

	// increments
	Δλ := (s.LamTarget - f.Lam) / float64(s.Nsteps)
	if Δλ <= 0 {
		return chk.Err("load parameter λ = %g is already beyond the target %g", f.Lam, s.LamTarget)
	}
	tiny := 1e-12 * Δλ
	md := 1.0    // multiplier for the increment
	ndiverg := 0 // number of consecutive failures
	for step := 0; f.Lam < s.LamTarget-tiny; step++ {

		// increment
		dλ := md * Δλ
		if f.Lam+dλ > s.LamTarget {
			dλ = s.LamTarget - f.Lam
		}
		f.Dom.Dt = md * s.Dt

		// solve
		nwt.Nstep = step
		res, e := nwt.Solve(f.U, f.Lam+dλ, &ctl)
		if e != nil {
			if !s.DvgCtrl || !IsRecoverable(e) {
				return fmt.Errorf("Newton increment failed:\n%w", e)
			}
			ndiverg++
			if ndiverg > s.NdvgMax {
				return fmt.Errorf("continuous divergence after %d steps reached:\n%w", ndiverg, e)
			}
			f.Summary.Nfail++
			md *= 0.5
			f.Log.Warn("increment failed; halving", "step", step, "Δλ", md*Δλ, "err", e)
			continue
		}

		// accept
		if err = f.accept(res.U, f.Lam+dλ, dλ, res.Iters, res.Rnorm); err != nil {
			return
		}
		f.Log.Info("increment accepted", "step", step, "λ", f.Lam, "Δλ", dλ, "iters", res.Iters, "|R|", res.Rnorm)
		ndiverg = 0
		md = 1
	}
	return
}
