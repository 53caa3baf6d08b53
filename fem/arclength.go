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

// StepResult holds an accepted continuation step
type StepResult struct {
	U     []float64 // u' = u + Δu
	Lam   float64   // λ' = λ + Δλ
	Dir   Direction // (Δu, Δλ) normalised to unit weighted length; next predictor
	Iters int       // number of corrections performed
	Rnorm float64   // final residual norm
	Cres  float64   // final arc-length constraint residual
}

// ArcLength advances (u, λ) along an equilibrium path with a spherical
// arc-length constraint
//
//  ‖(Δu, ψ·Δλ)‖ = Δl
//
// using predictor-corrector iterations. Each correction factorises the tangent
// once and solves for both δu_R = K⁻¹·(-R) and δu_λ = K⁻¹·q.
type ArcLength struct {
	Asm    Assembler // equations
	LinSol LinSolver // linear solver
	Nstep  int       // step number reported in errors
}

// NewArcLength allocates a new arc-length driver
func NewArcLength(asm Assembler, linsol LinSolver) (o *ArcLength, err error) {
	if asm == nil || linsol == nil {
		return nil, chk.Err("arc-length driver requires an assembler and a linear solver")
	}
	return &ArcLength{Asm: asm, LinSol: linsol}, nil
}

// Step performs one continuation step from the equilibrium state (u0, λ0) using
// dir as predictor direction; a zero dir selects the predictor given by
// ctl.FirstDir. The inputs are not modified.
func (o *ArcLength) Step(u0 []float64, λ0 float64, dir Direction, ctl *Control) (res StepResult, err error) {

	// check
	if err = ctl.Check(); err != nil {
		return
	}
	sel, err := GetRootSelector(ctl.Root)
	if err != nil {
		return
	}
	n := o.Asm.Ndof()
	if len(u0) != n {
		return res, chk.Err("arc-length: len(u0) = %d is incompatible with ndof = %d", len(u0), n)
	}
	if len(dir.Du) != 0 && len(dir.Du) != n {
		return res, chk.Err("arc-length: len(dir.Du) = %d is incompatible with ndof = %d", len(dir.Du), n)
	}

	// workspace
	u := make([]float64, n)
	R := make([]float64, n)
	mR := make([]float64, n)
	q := make([]float64, n)
	a := make([]float64, n)
	δuR := make([]float64, n)
	δuλ := make([]float64, n)
	Δu := make([]float64, n)
	var Δλ float64
	cands := []Candidate{{Du: make([]float64, n)}, {Du: make([]float64, n)}}

	// metric at the start point
	if err = o.Asm.LoadVector(q, u0); err != nil {
		return res, chk.Err("arc-length: cannot compute load vector:\n%v", err)
	}
	m := NewMetric(ctl, q)

	// predictor
	ref := dir
	if dir.IsZero() {
		switch ctl.FirstDir {
		case "tangent":
			ref, err = o.tangent(u0, q, λ0)
			if err != nil {
				return
			}
		default:
			ref = Direction{Dlam: 1}
		}
	}
	nrm := m.Norm(ref.Du, ref.Dlam)
	origin := nrm == 0
	if !origin && ctl.Predictor != "zero" {
		s := ctl.Dl / nrm
		if len(ref.Du) > 0 {
			floats.ScaleTo(Δu, s, ref.Du)
		}
		Δλ = s * ref.Dlam
	}

	// message
	var it int
	var λ, Rnorm, cres float64
	if ctl.ShowR {
		io.Pf("\n%4s%4s%23s%23s%23s\n", "step", "it", "λ", "|R|", "|c|")
	}

	// corrector
	for it = 0; ; it++ {

		// trial state
		floats.AddTo(u, u0, Δu)
		λ = λ0 + Δλ

		// residual and constraint
		if e := o.Asm.Residual(R, u, λ); e != nil {
			return res, &StepError{Kind: NonConvergence, Step: o.Nstep, Iter: it, Rnorm: Rnorm, Lam: λ, Err: e}
		}
		Rnorm = floats.Norm(R, 2)
		cres = math.Abs(m.Norm(Δu, Δλ) - ctl.Dl)
		if ctl.ShowR {
			io.Pf("%4d%4d%23.15e%23.15e%23.15e\n", o.Nstep, it, λ, Rnorm, cres)
		}

		// converged
		if Rnorm <= ctl.Tol && cres <= ctl.Tol {
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

		// both right-hand sides from the same factors
		if e = o.Asm.LoadVector(q, u); e != nil {
			return res, chk.Err("arc-length: cannot compute load vector:\n%v", e)
		}
		for i := range R {
			mR[i] = -R[i]
		}
		if e = F.Solve(δuR, mR); e != nil {
			return res, &StepError{Kind: SingularTangent, Step: o.Nstep, Iter: it, Rnorm: Rnorm, Lam: λ, Err: e}
		}
		if e = F.Solve(δuλ, q); e != nil {
			return res, &StepError{Kind: SingularTangent, Step: o.Nstep, Iter: it, Rnorm: Rnorm, Lam: λ, Err: e}
		}

		// predicting from the origin: the sign test uses the tangent direction
		if origin {
			ref = Direction{Du: append([]float64(nil), δuλ...), Dlam: 1}
			origin = false
		}

		// constraint equation
		floats.AddTo(a, Δu, δuR)
		eq := Quadratic{
			A1: floats.Dot(δuλ, δuλ) + m.W,
			A2: 2*floats.Dot(a, δuλ) + 2*m.W*Δλ,
			A3: floats.Dot(a, a) + m.W*Δλ*Δλ - ctl.Dl*ctl.Dl,
		}
		roots, e := eq.Roots()
		if e != nil {
			return res, &StepError{Kind: RootDegeneracy, Step: o.Nstep, Iter: it, Rnorm: Rnorm, Lam: λ, Err: e}
		}
		for i, r := range roots {
			cands[i].Root = r
			floats.AddScaledTo(cands[i].Du, a, r, δuλ)
			cands[i].Dlam = Δλ + r
		}

		// root selection
		idx := 0
		if len(roots) > 1 {
			idx, e = sel.Select(cands[:len(roots)], ref, eq, m)
			if e != nil {
				return res, &StepError{Kind: RootDegeneracy, Step: o.Nstep, Iter: it, Rnorm: Rnorm, Lam: λ, Err: e}
			}
		}

		// update increments
		copy(Δu, cands[idx].Du)
		Δλ = cands[idx].Dlam
	}

	// new direction
	res = StepResult{U: u, Lam: λ, Iters: it, Rnorm: Rnorm, Cres: cres}
	res.Dir = Direction{Du: make([]float64, n), Dlam: Δλ}
	if nd := m.Norm(Δu, Δλ); nd > 0 {
		floats.ScaleTo(res.Dir.Du, 1/nd, Δu)
		res.Dir.Dlam = Δλ / nd
	}
	return
}

// tangent computes the tangent direction (K⁻¹·q, 1) at u0
func (o *ArcLength) tangent(u0, q []float64, λ0 float64) (dir Direction, err error) {
	K, e := o.Asm.Tangent(u0)
	if e != nil {
		return dir, &StepError{Kind: NonConvergence, Step: o.Nstep, Lam: λ0, Err: e}
	}
	F, e := o.LinSol.Fact(K)
	if e != nil {
		return dir, &StepError{Kind: SingularTangent, Step: o.Nstep, Lam: λ0, Err: e}
	}
	dir = Direction{Du: make([]float64, len(u0)), Dlam: 1}
	if e = F.Solve(dir.Du, q); e != nil {
		return dir, &StepError{Kind: SingularTangent, Step: o.Nstep, Lam: λ0, Err: e}
	}
	return
}
