// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/floats"
)

// NewtonResult holds the outcome of Newton iterations
type NewtonResult struct {
	U     []float64 // converged state
	Iters int       // number of corrections performed
	Rnorm float64   // final residual norm
}

// Newton solves R(u, λ) = 0 for u with λ fixed
type Newton struct {
	Asm    Assembler // equations
	LinSol LinSolver // linear solver
	Nstep  int       // step number reported in errors
}

// NewNewton allocates a new Newton iterator
func NewNewton(asm Assembler, linsol LinSolver) (o *Newton, err error) {
	if asm == nil || linsol == nil {
		return nil, chk.Err("Newton requires an assembler and a linear solver")
	}
	return &Newton{Asm: asm, LinSol: linsol}, nil
}

// Solve runs the iterations u ← u - K⁻¹·R starting from u0. u0 is not modified.
func (o *Newton) Solve(u0 []float64, λ float64, ctl *Control) (res NewtonResult, err error) {

	// workspace
	n := o.Asm.Ndof()
	if len(u0) != n {
		return res, chk.Err("Newton: len(u0) = %d is incompatible with ndof = %d", len(u0), n)
	}
	u := append([]float64(nil), u0...)
	R := make([]float64, n)
	mR := make([]float64, n)
	δu := make([]float64, n)

	// message
	var it int
	var Rnorm float64
	if ctl.ShowR {
		io.Pf("\n%13s%4s%23s\n", "λ", "it", "|R|")
	}

	// iterations
	for it = 0; ; it++ {

		// residual
		if e := o.Asm.Residual(R, u, λ); e != nil {
			return res, &StepError{Kind: NonConvergence, Step: o.Nstep, Iter: it, Rnorm: Rnorm, Lam: λ, Err: e}
		}
		Rnorm = floats.Norm(R, 2)
		if ctl.ShowR {
			io.Pf("%13.6e%4d%23.15e\n", λ, it, Rnorm)
		}

		// converged
		if Rnorm <= ctl.Tol {
			break
		}
		if it == ctl.NmaxIt || math.IsNaN(Rnorm) {
			return res, &StepError{Kind: NonConvergence, Step: o.Nstep, Iter: it, Rnorm: Rnorm, Lam: λ}
		}

		// tangent and factorisation
		K, e := o.Asm.Tangent(u)
		if e != nil {
			return res, &StepError{Kind: NonConvergence, Step: o.Nstep, Iter: it, Rnorm: Rnorm, Lam: λ, Err: e}
		}
		F, e := o.LinSol.Fact(K)
		if e != nil {
			return res, &StepError{Kind: SingularTangent, Step: o.Nstep, Iter: it, Rnorm: Rnorm, Lam: λ, Err: e}
		}

		// correction
		for i := range R {
			mR[i] = -R[i]
		}
		if e = F.Solve(δu, mR); e != nil {
			return res, &StepError{Kind: SingularTangent, Step: o.Nstep, Iter: it, Rnorm: Rnorm, Lam: λ, Err: e}
		}
		floats.Add(u, δu)
	}

	// results
	res = NewtonResult{U: u, Iters: it, Rnorm: Rnorm}
	return
}
