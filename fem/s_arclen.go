// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"errors"
	"fmt"
	"math"
)

// SolverArcLength traces the equilibrium path with arc-length continuation.
// Failed steps are retried with Δl halved down to DlMin; after each accepted
// step Δl grows back by a factor of 2 up to its initial value.
type SolverArcLength struct {
	fem *FEM
}

// set factory
func init() {
	solverallocators["arclen"] = func(fem *FEM) FEsolver {
		return &SolverArcLength{fem}
	}
}

// Run traces the path until λ reaches LamTarget or Nsteps steps are accepted
func (o *SolverArcLength) Run() (err error) {

	// auxiliary
	f := o.fem
	s := f.Sim.Solver
	ctl := f.control()
	drv, err := NewArcLength(f.Dom, f.LinSol)
	if err != nil {
		return
	}

	// stepping
	var dir Direction
	dl0 := ctl.Dl
	for step := 0; step < s.Nsteps; step++ {

		// one step
		drv.Nstep = step
		res, e := drv.Step(f.U, f.Lam, dir, &ctl)
		if e != nil {
			retry := IsRecoverable(e) || (s.RetrySingular && errors.Is(e, ErrSingular))
			if !retry {
				return fmt.Errorf("arc-length step failed:\n%w", e)
			}
			if ctl.Dl/2 < s.DlMin {
				return fmt.Errorf("arc-length Δl = %g cannot be halved below DlMin = %g:\n%w", ctl.Dl, s.DlMin, e)
			}
			f.Summary.Nfail++
			ctl.Dl /= 2
			f.Log.Warn("step failed; halving arc-length", "step", step, "Δl", ctl.Dl, "err", e)
			step--
			continue
		}

		// accept
		dir = res.Dir
		if err = f.accept(res.U, res.Lam, ctl.Dl, res.Iters, res.Rnorm); err != nil {
			return
		}
		f.Log.Info("step accepted", "step", step, "λ", res.Lam, "Δl", ctl.Dl, "iters", res.Iters, "|R|", res.Rnorm)
		ctl.Dl = math.Min(2*ctl.Dl, dl0)

		// target reached
		if f.Lam >= s.LamTarget {
			f.Log.Info("target load parameter reached", "λ", f.Lam, "target", s.LamTarget)
			return
		}
	}
	f.Log.Warn("maximum number of steps reached", "nsteps", s.Nsteps, "λ", f.Lam)
	return
}
