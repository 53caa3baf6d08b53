// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"fmt"
	"math"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// LinSolver factorises tangent matrices
type LinSolver interface {

	// Fact factorises A. The returned factors own a copy of the data, thus
	// modifying A afterwards does not affect subsequent solves.
	// Returns an error matching ErrSingular if A cannot be factorised.
	Fact(A mat.Matrix) (Factors, error)
}

// Factors holds a factorisation computed by a LinSolver
type Factors interface {

	// Solve solves A.x = b for x using the stored factors
	Solve(x, b []float64) error
}

// linsolallocators holds all available linear solvers
var linsolallocators = make(map[string]func() LinSolver)

// GetSolver returns a linear solver by name; e.g. "lu", "chol" or "cg"
func GetSolver(name string) (LinSolver, error) {
	if alloc, ok := linsolallocators[name]; ok {
		return alloc(), nil
	}
	return nil, chk.Err("cannot find linear solver named %q. options are %v", name, LinSolverNames())
}

// LinSolverNames returns the names of all registered linear solvers
func LinSolverNames() (names []string) {
	for name := range linsolallocators {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// dense LU ///////////////////////////////////////////////////////////////////////////////////////

// LinSolLU solves linear systems with a dense LU factorisation with partial pivoting
type LinSolLU struct{}

func init() {
	linsolallocators["lu"] = func() LinSolver { return new(LinSolLU) }
}

// Fact factorises A
func (o *LinSolLU) Fact(A mat.Matrix) (Factors, error) {
	n, m := A.Dims()
	if n != m {
		return nil, chk.Err("LU: matrix must be square. %d != %d", n, m)
	}
	lu := new(mat.LU)
	lu.Factorize(A)
	if cond := lu.Cond(); math.IsInf(cond, 0) || math.IsNaN(cond) || cond > mat.ConditionTolerance {
		return nil, fmt.Errorf("LU: condition number = %g: %w", cond, ErrSingular)
	}
	return &luFactors{lu, n}, nil
}

type luFactors struct {
	lu *mat.LU
	n  int
}

func (o *luFactors) Solve(x, b []float64) error {
	dst := mat.NewVecDense(o.n, x)
	err := o.lu.SolveVecTo(dst, false, mat.NewVecDense(o.n, b))
	if err != nil {
		return fmt.Errorf("LU: %v: %w", err, ErrSingular)
	}
	return nil
}

// dense Cholesky /////////////////////////////////////////////////////////////////////////////////

// LinSolChol solves symmetric positive-definite systems with a dense Cholesky factorisation
type LinSolChol struct {
	SymTol float64 // tolerance to accept A as symmetric
}

func init() {
	linsolallocators["chol"] = func() LinSolver { return &LinSolChol{SymTol: 1e-10} }
}

// Fact factorises A
func (o *LinSolChol) Fact(A mat.Matrix) (Factors, error) {
	n, m := A.Dims()
	if n != m {
		return nil, chk.Err("Cholesky: matrix must be square. %d != %d", n, m)
	}
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			aij, aji := A.At(i, j), A.At(j, i)
			if math.Abs(aij-aji) > o.SymTol*(1+math.Abs(aij)) {
				return nil, fmt.Errorf("Cholesky: matrix is not symmetric: A[%d][%d]=%g != A[%d][%d]=%g: %w", i, j, aij, j, i, aji, ErrSingular)
			}
			sym.SetSym(i, j, aij)
		}
	}
	chol := new(mat.Cholesky)
	if !chol.Factorize(sym) {
		return nil, fmt.Errorf("Cholesky: matrix is not positive-definite: %w", ErrSingular)
	}
	return &cholFactors{chol, n}, nil
}

type cholFactors struct {
	chol *mat.Cholesky
	n    int
}

func (o *cholFactors) Solve(x, b []float64) error {
	dst := mat.NewVecDense(o.n, x)
	err := o.chol.SolveVecTo(dst, mat.NewVecDense(o.n, b))
	if err != nil {
		return fmt.Errorf("Cholesky: %v: %w", err, ErrSingular)
	}
	return nil
}

// sparse conjugate gradients /////////////////////////////////////////////////////////////////////

// LinSolCG solves symmetric positive-definite systems with Jacobi-preconditioned
// conjugate gradients. The "factorisation" is a CSR snapshot of A plus the
// inverse of its diagonal.
type LinSolCG struct {
	Tol    float64 // relative tolerance on the residual norm; default 1e-13
	MaxItF int     // maximum number of iterations as a multiple of the matrix size; default 10
}

func init() {
	linsolallocators["cg"] = func() LinSolver { return &LinSolCG{Tol: 1e-13, MaxItF: 10} }
}

// Fact takes a CSR snapshot of A
func (o *LinSolCG) Fact(A mat.Matrix) (Factors, error) {
	n, m := A.Dims()
	if n != m {
		return nil, chk.Err("CG: matrix must be square. %d != %d", n, m)
	}
	var csr *sparse.CSR
	switch a := A.(type) {
	case *sparse.DOK:
		csr = a.ToCSR()
	default:
		dok := sparse.NewDOK(n, n)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if v := A.At(i, j); v != 0 {
					dok.Set(i, j, v)
				}
			}
		}
		csr = dok.ToCSR()
	}
	invd := make([]float64, n)
	csr.DoNonZero(func(i, j int, v float64) {
		if i == j {
			invd[i] += v
		}
	})
	for i, d := range invd {
		if d <= 0 {
			return nil, fmt.Errorf("CG: non-positive diagonal A[%d][%d] = %g: %w", i, i, d, ErrSingular)
		}
		invd[i] = 1.0 / d
	}
	tol, maxitf := o.Tol, o.MaxItF
	if tol <= 0 {
		tol = 1e-13
	}
	if maxitf <= 0 {
		maxitf = 10
	}
	return &cgFactors{csr: csr, invd: invd, n: n, tol: tol, maxit: maxitf * n}, nil
}

type cgFactors struct {
	csr   *sparse.CSR
	invd  []float64
	n     int
	tol   float64
	maxit int
}

// mulvec computes y = A.x
func (o *cgFactors) mulvec(y, x []float64) {
	for i := range y {
		y[i] = 0
	}
	o.csr.DoNonZero(func(i, j int, v float64) {
		y[i] += v * x[j]
	})
}

func (o *cgFactors) Solve(x, b []float64) error {
	n := o.n
	for i := range x {
		x[i] = 0
	}
	bnorm := floats.Norm(b, 2)
	if bnorm == 0 {
		return nil
	}
	r := make([]float64, n)
	z := make([]float64, n)
	p := make([]float64, n)
	ap := make([]float64, n)
	copy(r, b)
	for i := 0; i < n; i++ {
		z[i] = o.invd[i] * r[i]
	}
	copy(p, z)
	rz := floats.Dot(r, z)
	for it := 0; it < o.maxit; it++ {
		o.mulvec(ap, p)
		pap := floats.Dot(p, ap)
		if pap <= 0 {
			return fmt.Errorf("CG: pᵀAp = %g ≤ 0 at iteration %d: %w", pap, it, ErrSingular)
		}
		α := rz / pap
		floats.AddScaled(x, α, p)
		floats.AddScaled(r, -α, ap)
		if floats.Norm(r, 2) <= o.tol*bnorm {
			return nil
		}
		for i := 0; i < n; i++ {
			z[i] = o.invd[i] * r[i]
		}
		rzNew := floats.Dot(r, z)
		β := rzNew / rz
		rz = rzNew
		for i := 0; i < n; i++ {
			p[i] = z[i] + β*p[i]
		}
	}
	return fmt.Errorf("CG: did not converge after %d iterations: %w", o.maxit, ErrSingular)
}
