// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"errors"
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/require"
	"github.com/zhang9song/jax-fem/ana"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// checkStep asserts the equilibrium and arc-length invariants of an accepted step
func checkStep(tst *testing.T, asm Assembler, ctl *Control, u0 []float64, λ0 float64, res StepResult) {
	R := make([]float64, asm.Ndof())
	q := make([]float64, asm.Ndof())
	require.NoError(tst, asm.Residual(R, res.U, res.Lam))
	require.NoError(tst, asm.LoadVector(q, u0))
	if rn := floats.Norm(R, 2); rn > ctl.Tol {
		tst.Fatalf("|R| = %g > %g", rn, ctl.Tol)
	}
	Δu := make([]float64, len(u0))
	floats.SubTo(Δu, res.U, u0)
	m := NewMetric(ctl, q)
	chk.Float64(tst, "constraint", ctl.Tol, m.Norm(Δu, res.Lam-λ0), ctl.Dl)
	chk.Float64(tst, "|dir|", 1e-12, m.Norm(res.Dir.Du, res.Dir.Dlam), 1)
}

func Test_arclen01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("arclen01. linear spring: one step from the origin")

	spring := &ana.LinearSpring{K: 2, F: 1}
	for _, firstdir := range []string{"load", "tangent"} {
		ctl := &Control{Tol: 1e-10, NmaxIt: 10, Dl: 0.1, Psi: 1, FirstDir: firstdir, ShowR: chk.Verbose}
		ctl.SetDefault()
		drv, err := NewArcLength(spring, new(LinSolLU))
		require.NoError(tst, err)

		u0 := []float64{0}
		res, err := drv.Step(u0, 0, Direction{}, ctl)
		require.NoError(tst, err)
		io.Pforan("%s: λ = %v  u = %v  iters = %d\n", firstdir, res.Lam, res.U[0], res.Iters)

		r := spring.F / spring.K
		λ := ctl.Dl / math.Sqrt(1+ctl.Psi*ctl.Psi*r*r)
		chk.Float64(tst, "λ", 1e-12, res.Lam, λ)
		chk.Float64(tst, "u", 1e-12, res.U[0], r*λ)
		chk.Float64(tst, "u0 untouched", 1e-17, u0[0], 0)
		checkStep(tst, spring, ctl, u0, 0, res)
		if firstdir == "tangent" {
			chk.Int(tst, "iters with tangent predictor", res.Iters, 0)
		}
	}
}

func Test_arclen02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("arclen02. ψ = 0 and large Δl equals displacement control")

	spring := &ana.LinearSpring{K: 3, F: 1}
	ctl := &Control{Tol: 1e-10, NmaxIt: 10, Dl: 5, Psi: 0}
	ctl.SetDefault()
	drv, err := NewArcLength(spring, new(LinSolLU))
	require.NoError(tst, err)

	res, err := drv.Step([]float64{0}, 0, Direction{}, ctl)
	require.NoError(tst, err)
	chk.Float64(tst, "u = Δl", 1e-12, res.U[0], ctl.Dl)
	chk.Float64(tst, "λ = k·Δl", 1e-12, res.Lam, spring.K*ctl.Dl)

	// Newton with λ fixed at the result
	nwt, err := NewNewton(spring, new(LinSolLU))
	require.NoError(tst, err)
	sol, err := nwt.Solve([]float64{0}, res.Lam, ctl)
	require.NoError(tst, err)
	chk.Array(tst, "u(newton)", 1e-12, res.U, sol.U)

	// second step continues in the same direction
	res2, err := drv.Step(res.U, res.Lam, res.Dir, ctl)
	require.NoError(tst, err)
	chk.Float64(tst, "u₂", 1e-12, res2.U[0], 2*ctl.Dl)
	chk.Float64(tst, "λ₂", 1e-12, res2.Lam, 2*spring.K*ctl.Dl)
}

func Test_arclen03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("arclen03. one factorisation serves both right-hand sides")

	var prob ana.TrussSpring
	require.NoError(tst, prob.Init(nil))
	ctl := &Control{Tol: 1e-10, NmaxIt: 20, Dl: 0.05, Psi: 1}
	ctl.SetDefault()

	spy := &spySolver{inner: new(LinSolLU)}
	drvSpy, _ := NewArcLength(prob, spy)
	drvRef, _ := NewArcLength(prob, new(LinSolLU))

	u, λ := []float64{0, 0}, 0.0
	ur, λr := []float64{0, 0}, 0.0
	var dir, dirr Direction
	for step := 0; step < 5; step++ {
		nfact := spy.nfact
		nsolve := spy.nsolve
		res, err := drvSpy.Step(u, λ, dir, ctl)
		require.NoError(tst, err)
		ref, err := drvRef.Step(ur, λr, dirr, ctl)
		require.NoError(tst, err)
		chk.Array(tst, "u", 1e-15, res.U, ref.U)
		chk.Float64(tst, "λ", 1e-15, res.Lam, ref.Lam)
		chk.Int(tst, "factorisations", spy.nfact-nfact, res.Iters)
		chk.Int(tst, "solves", spy.nsolve-nsolve, 2*res.Iters)
		checkStep(tst, prob, ctl, u, λ, res)
		u, λ, dir = res.U, res.Lam, res.Dir
		ur, λr, dirr = ref.U, ref.Lam, ref.Dir
	}
}

// followPath runs arc-length steps until stop returns true
func followPath(tst *testing.T, asm Assembler, ctl *Control, nmax int, stop func(u []float64, λ float64) bool) (us [][]float64, λs []float64, dirs []Direction) {
	drv, err := NewArcLength(asm, new(LinSolLU))
	require.NoError(tst, err)
	u := make([]float64, asm.Ndof())
	λ := 0.0
	var dir Direction
	us, λs = append(us, u), append(λs, λ)
	for step := 0; step < nmax; step++ {
		drv.Nstep = step
		res, err := drv.Step(u, λ, dir, ctl)
		require.NoError(tst, err, "step %d", step)
		checkStep(tst, asm, ctl, u, λ, res)
		if step > 0 {
			m := Metric{W: ctl.Psi * ctl.Psi}
			if d := m.Dot(dir.Du, dir.Dlam, res.Dir.Du, res.Dir.Dlam); d <= 0 {
				tst.Fatalf("direction reversed at step %d: dot = %g", step, d)
			}
		}
		u, λ, dir = res.U, res.Lam, res.Dir
		us, λs, dirs = append(us, u), append(λs, λ), append(dirs, dir)
		if stop(u, λ) {
			return
		}
	}
	tst.Fatalf("path did not reach the end after %d steps", nmax)
	return
}

func Test_arclen04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("arclen04. shallow truss snap-through")

	var truss ana.ShallowTruss
	require.NoError(tst, truss.Init(nil))
	wmax, wmin := truss.LimitPoints()
	λmaxAna := truss.Force(wmax)
	λminAna := truss.Force(wmin)
	io.Pforan("limit points: w = %v (λ = %v) and w = %v (λ = %v)\n", wmax, λmaxAna, wmin, λminAna)

	for _, root := range RootSelectorNames() {
		ctl := &Control{Tol: 1e-10, NmaxIt: 20, Dl: 0.05, Psi: 1, Root: root}
		ctl.SetDefault()
		us, λs, dirs := followPath(tst, truss, ctl, 400, func(u []float64, λ float64) bool {
			return u[0] > 2*truss.H
		})

		// load must rise, fall after the fold, then rise again
		λmax, λmin := math.Inf(-1), math.Inf(1)
		var changes int
		for i := 1; i < len(dirs); i++ {
			if (dirs[i].Dlam < 0) != (dirs[i-1].Dlam < 0) {
				changes++
			}
		}
		for i, λ := range λs {
			if λ > λmax {
				λmax = λ
			}
			if λ < λmin {
				λmin = λ
			}
			if i > 0 && us[i][0] < us[i-1][0] {
				tst.Errorf("%s: deflection decreased at step %d", root, i)
			}
		}
		io.Pforan("%s: nsteps = %d  λmax = %v  λmin = %v  sign changes = %d\n", root, len(λs)-1, λmax, λmin, changes)
		chk.Int(tst, root+": sign changes of Δλ", changes, 2)
		if λmax > λmaxAna+1e-9 || λmax < λmaxAna-1e-3 {
			tst.Errorf("%s: λmax = %g is not close to %g", root, λmax, λmaxAna)
		}
		if λmin < λminAna-1e-9 || λmin > λminAna+1e-3 {
			tst.Errorf("%s: λmin = %g is not close to %g", root, λmin, λminAna)
		}
	}
}

func Test_arclen05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("arclen05. truss with soft spring: snap-back")

	var prob ana.TrussSpring
	require.NoError(tst, prob.Init(dbf.Params{&dbf.P{N: "ks", V: 0.3}}))
	require.True(tst, prob.SnapsBack())

	ctl := &Control{Tol: 1e-10, NmaxIt: 20, Dl: 0.05, Psi: 1}
	ctl.SetDefault()
	us, _, _ := followPath(tst, prob, ctl, 1000, func(u []float64, λ float64) bool {
		return u[0] > 2.2*prob.H
	})

	// load point must move backwards somewhere along the path
	var backwards bool
	for i := 1; i < len(us); i++ {
		if us[i][1] < us[i-1][1] {
			backwards = true
			break
		}
	}
	require.True(tst, backwards, "load point did not snap back")
}

func Test_arclen06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("arclen06. failures")

	// constraint sphere not reached by the correction line
	asm := &funcAssembler{
		n: 2,
		res: func(R, u []float64, λ float64) {
			R[0] = u[0] - 10
			R[1] = u[1] - λ
		},
		tg: func(u []float64) *mat.Dense { return mat.NewDense(2, 2, []float64{1, 0, 0, 1}) },
		q:  []float64{0, 1},
	}
	ctl := &Control{Tol: 1e-10, NmaxIt: 10, Dl: 1, Psi: 0}
	ctl.SetDefault()
	drv, _ := NewArcLength(asm, new(LinSolLU))
	drv.Nstep = 7
	_, err := drv.Step([]float64{0, 0}, 0, Direction{}, ctl)
	require.ErrorIs(tst, err, ErrRootDegeneracy)
	require.True(tst, IsRecoverable(err))
	var se *StepError
	require.True(tst, errors.As(err, &se))
	chk.Int(tst, "step", se.Step, 7)
	chk.Int(tst, "iter", se.Iter, 0)
	chk.Float64(tst, "rnorm", 1e-15, se.Rnorm, 10)

	// iteration cap
	var truss ana.ShallowTruss
	require.NoError(tst, truss.Init(nil))
	ctl = &Control{Tol: 1e-12, NmaxIt: 1, Dl: 0.5, Psi: 1}
	ctl.SetDefault()
	drv, _ = NewArcLength(truss, new(LinSolLU))
	_, err = drv.Step([]float64{0}, 0, Direction{}, ctl)
	require.ErrorIs(tst, err, ErrNonConvergence)
	require.NotErrorIs(tst, err, ErrSingular)
	require.True(tst, IsRecoverable(err))

	// zero stiffness
	ctl = &Control{Tol: 1e-10, NmaxIt: 10, Dl: 0.1, Psi: 1}
	ctl.SetDefault()
	drv, _ = NewArcLength(&ana.LinearSpring{K: 0, F: 1}, new(LinSolLU))
	_, err = drv.Step([]float64{0}, 0, Direction{}, ctl)
	require.ErrorIs(tst, err, ErrSingular)
	require.False(tst, IsRecoverable(err))

	// invalid configuration is not a step failure
	_, err = drv.Step([]float64{0}, 0, Direction{}, &Control{Tol: 1e-10, NmaxIt: 10, Dl: 0, Root: "dot", FirstDir: "load"})
	require.Error(tst, err)
	require.False(tst, errors.As(err, &se))
	for _, bad := range []*Control{
		{Tol: 0, NmaxIt: 10, Dl: 0.1, Root: "dot", FirstDir: "load"},
		{Tol: -1e-8, NmaxIt: 10, Dl: 0.1, Root: "dot", FirstDir: "load"},
		{Tol: math.NaN(), NmaxIt: 10, Dl: 0.1, Root: "dot", FirstDir: "load"},
		{Tol: 1e-8, NmaxIt: 0, Dl: 0.1, Root: "dot", FirstDir: "load"},
		{Tol: 1e-8, NmaxIt: -3, Dl: 0.1, Root: "dot", FirstDir: "load"},
	} {
		require.Error(tst, bad.Check(), "Tol = %g, NmaxIt = %d", bad.Tol, bad.NmaxIt)
		_, err = drv.Step([]float64{0}, 0, Direction{}, bad)
		require.Error(tst, err)
		require.False(tst, errors.As(err, &se))
	}
	good := &Control{Dl: 0.1}
	good.SetDefault()
	require.NoError(tst, good.Check())
}

func Test_arclen07(tst *testing.T) {

	//verbose()
	chk.PrintTitle("arclen07. load-scaled metric")

	spring := &ana.LinearSpring{K: 2, F: 4}
	ctl := &Control{Tol: 1e-10, NmaxIt: 10, Dl: 0.1, Psi: 0.5, LoadScaled: true}
	ctl.SetDefault()
	drv, _ := NewArcLength(spring, new(LinSolLU))
	res, err := drv.Step([]float64{0}, 0, Direction{}, ctl)
	require.NoError(tst, err)

	// Δu² + ψ²·f²·Δλ² = Δl² with Δu = (f/k)·Δλ
	r := spring.F / spring.K
	λ := ctl.Dl / math.Sqrt(r*r+ctl.Psi*ctl.Psi*spring.F*spring.F)
	chk.Float64(tst, "λ", 1e-12, res.Lam, λ)
	checkStep(tst, spring, ctl, []float64{0}, 0, res)
}

func Test_arclen08(tst *testing.T) {

	//verbose()
	chk.PrintTitle("arclen08. tangent evaluation failures are recoverable")

	// tangent unavailable away from the origin
	asm := &funcAssembler{
		n: 1,
		res: func(R, u []float64, λ float64) {
			R[0] = u[0]*u[0]*u[0] + u[0] - λ
		},
		tg: func(u []float64) *mat.Dense {
			if math.Abs(u[0]) > 0.5 {
				return nil
			}
			return mat.NewDense(1, 1, []float64{3*u[0]*u[0] + 1})
		},
		q: []float64{1},
	}
	ctl := &Control{Tol: 1e-10, NmaxIt: 10, Dl: 1, Psi: 1}
	ctl.SetDefault()
	drv, _ := NewArcLength(asm, new(LinSolLU))
	drv.Nstep = 3
	_, err := drv.Step([]float64{0.6}, 0.8, Direction{}, ctl)
	io.Pforan("err = %v\n", err)
	require.ErrorIs(tst, err, ErrNonConvergence)
	require.True(tst, IsRecoverable(err))
	var se *StepError
	require.True(tst, errors.As(err, &se))
	chk.Int(tst, "step", se.Step, 3)

	// tangent predictor
	ctl.FirstDir = "tangent"
	_, err = drv.Step([]float64{0.6}, 0.8, Direction{}, ctl)
	require.ErrorIs(tst, err, ErrNonConvergence)
	require.True(tst, IsRecoverable(err))

	// Newton
	nwt, _ := NewNewton(asm, new(LinSolLU))
	nwt.Nstep = 5
	_, err = nwt.Solve([]float64{0.6}, 1, ctl)
	require.ErrorIs(tst, err, ErrNonConvergence)
	require.True(tst, errors.As(err, &se))
	chk.Int(tst, "newton step", se.Step, 5)
}

func Test_arclen09(tst *testing.T) {

	//verbose()
	chk.PrintTitle("arclen09. zero-increment predictor")

	// same point on the sphere as the secant predictor
	spring := &ana.LinearSpring{K: 2, F: 1}
	ctl := &Control{Tol: 1e-10, NmaxIt: 10, Dl: 0.1, Psi: 1, Predictor: "zero"}
	ctl.SetDefault()
	drv, _ := NewArcLength(spring, new(LinSolLU))
	res, err := drv.Step([]float64{0}, 0, Direction{}, ctl)
	require.NoError(tst, err)
	r := spring.F / spring.K
	λ := ctl.Dl / math.Sqrt(1+ctl.Psi*ctl.Psi*r*r)
	chk.Float64(tst, "λ", 1e-12, res.Lam, λ)
	chk.Int(tst, "iters", res.Iters, 1)
	res2, err := drv.Step(res.U, res.Lam, res.Dir, ctl)
	require.NoError(tst, err)
	chk.Float64(tst, "λ₂", 1e-12, res2.Lam, 2*λ)

	// snap-through
	var truss ana.ShallowTruss
	require.NoError(tst, truss.Init(nil))
	wmax, _ := truss.LimitPoints()
	ctl = &Control{Tol: 1e-10, NmaxIt: 20, Dl: 0.05, Psi: 1, Predictor: "zero"}
	ctl.SetDefault()
	_, λs, _ := followPath(tst, truss, ctl, 400, func(u []float64, λ float64) bool {
		return u[0] > 2*truss.H
	})
	λmax := math.Inf(-1)
	for _, λ := range λs {
		λmax = math.Max(λmax, λ)
	}
	io.Pforan("nsteps = %d  λmax = %v\n", len(λs)-1, λmax)
	if λmax > truss.Force(wmax)+1e-9 || λmax < truss.Force(wmax)-1e-3 {
		tst.Errorf("λmax = %g is not close to %g", λmax, truss.Force(wmax))
	}

	// invalid predictor
	ctl.Predictor = "cubic"
	require.Error(tst, ctl.Check())
}
