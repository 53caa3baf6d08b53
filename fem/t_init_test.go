// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/mat"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// spySolver counts factorisations and scrambles the matrix right after
// factorising it
type spySolver struct {
	inner  LinSolver
	nfact  int
	nsolve int
}

func (o *spySolver) Fact(A mat.Matrix) (Factors, error) {
	F, err := o.inner.Fact(A)
	if err != nil {
		return nil, err
	}
	o.nfact++
	if d, ok := A.(*mat.Dense); ok {
		d.Scale(-7, d)
	}
	return &spyFactors{F, o}, nil
}

type spyFactors struct {
	inner Factors
	owner *spySolver
}

func (o *spyFactors) Solve(x, b []float64) error {
	o.owner.nsolve++
	return o.inner.Solve(x, b)
}

// funcAssembler wraps closures into an Assembler
type funcAssembler struct {
	n   int
	res func(R, u []float64, λ float64)
	tg  func(u []float64) *mat.Dense
	q   []float64
}

func (o *funcAssembler) Ndof() int { return o.n }

func (o *funcAssembler) Residual(R, u []float64, λ float64) error {
	o.res(R, u, λ)
	return nil
}

func (o *funcAssembler) Tangent(u []float64) (mat.Matrix, error) {
	K := o.tg(u)
	if K == nil {
		return nil, chk.Err("tangent is not available at u = %v", u)
	}
	return K, nil
}

func (o *funcAssembler) LoadVector(q, u []float64) error {
	copy(q, o.q)
	return nil
}
