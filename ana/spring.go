// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements analytical equilibrium problems with known solutions
package ana

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"gonum.org/v1/gonum/mat"
)

// LinearSpring implements the one-dimensional linear problem
//
//   R(u, λ) = k·u - λ·f
//
//        f·λ
//    /|-/\/\/\-o →
//         k
type LinearSpring struct {
	K float64 // stiffness
	F float64 // load pattern
}

// Init initialises this structure
func (o *LinearSpring) Init(prms dbf.Params) (err error) {
	o.K, o.F = 1, 1
	for _, p := range prms {
		switch p.N {
		case "k":
			o.K = p.V
		case "f":
			o.F = p.V
		default:
			return chk.Err("linear spring: parameter named %q is invalid", p.N)
		}
	}
	if o.K == 0 {
		return chk.Err("linear spring: stiffness must be non-zero")
	}
	return
}

// Ndof returns the number of equations
func (o LinearSpring) Ndof() int { return 1 }

// Residual computes R(u, λ)
func (o LinearSpring) Residual(R, u []float64, λ float64) (err error) {
	R[0] = o.K*u[0] - λ*o.F
	return
}

// Tangent returns dR/du
func (o LinearSpring) Tangent(u []float64) (K mat.Matrix, err error) {
	return mat.NewDense(1, 1, []float64{o.K}), nil
}

// LoadVector returns q = -dR/dλ
func (o LinearSpring) LoadVector(q, u []float64) (err error) {
	q[0] = o.F
	return
}

// Solution returns the equilibrium displacement for a given λ
func (o LinearSpring) Solution(λ float64) float64 {
	return λ * o.F / o.K
}
