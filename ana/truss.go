// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"gonum.org/v1/gonum/mat"
)

// ShallowTruss implements the snap-through of a shallow two-bar truss (von Mises
// truss) loaded at its apex with λ
//
//               λ ↓
//                 o  ---
//               /   \    h
//             /       \
//          △ --------- △ ---
//
//   R(w, λ) = c·(h²·w - 3/2·h·w² + 1/2·w³) - λ
//
//  where w is the downwards deflection of the apex. The load reaches a maximum
//  at w = h·(1 - 1/√3) and a minimum at w = h·(1 + 1/√3).
type ShallowTruss struct {
	C float64 // stiffness coefficient EA/L³
	H float64 // rise of the apex
}

// Init initialises this structure
func (o *ShallowTruss) Init(prms dbf.Params) (err error) {
	o.C, o.H = 1, 1
	for _, p := range prms {
		switch p.N {
		case "c":
			o.C = p.V
		case "h":
			o.H = p.V
		default:
			return chk.Err("shallow truss: parameter named %q is invalid", p.N)
		}
	}
	if o.C <= 0 || o.H <= 0 {
		return chk.Err("shallow truss: c and h must be positive. c=%g, h=%g", o.C, o.H)
	}
	return
}

// Force returns the internal force c·(h²·w - 3/2·h·w² + 1/2·w³)
func (o ShallowTruss) Force(w float64) float64 {
	h := o.H
	return o.C * (h*h*w - 1.5*h*w*w + 0.5*w*w*w)
}

// Stiffness returns dForce/dw
func (o ShallowTruss) Stiffness(w float64) float64 {
	h := o.H
	return o.C * (h*h - 3*h*w + 1.5*w*w)
}

// LimitPoints returns the deflections at the maximum and minimum loads
func (o ShallowTruss) LimitPoints() (wmax, wmin float64) {
	return o.H * (1 - 1/math.Sqrt(3)), o.H * (1 + 1/math.Sqrt(3))
}

// Ndof returns the number of equations
func (o ShallowTruss) Ndof() int { return 1 }

// Residual computes R(w, λ)
func (o ShallowTruss) Residual(R, u []float64, λ float64) (err error) {
	R[0] = o.Force(u[0]) - λ
	return
}

// Tangent returns dR/dw
func (o ShallowTruss) Tangent(u []float64) (K mat.Matrix, err error) {
	return mat.NewDense(1, 1, []float64{o.Stiffness(u[0])}), nil
}

// LoadVector returns q = -dR/dλ
func (o ShallowTruss) LoadVector(q, u []float64) (err error) {
	q[0] = 1
	return
}

// TrussSpring implements a shallow truss loaded through a linear spring. The
// load point v snaps back when the spring is softer than c·h²/2
//
//               λ ↓
//                 o v
//                 ξ ks
//                 o w
//               /   \
//             /       \
//          △ --------- △
//
//   R₀ = Force(w) - ks·(v - w)
//   R₁ = ks·(v - w) - λ
type TrussSpring struct {
	ShallowTruss
	Ks float64 // spring stiffness
}

// Init initialises this structure
func (o *TrussSpring) Init(prms dbf.Params) (err error) {
	var truss dbf.Params
	o.Ks = 1
	for _, p := range prms {
		if p.N == "ks" {
			o.Ks = p.V
			continue
		}
		truss = append(truss, p)
	}
	if o.Ks <= 0 {
		return chk.Err("truss-spring: spring stiffness must be positive. ks=%g", o.Ks)
	}
	return o.ShallowTruss.Init(truss)
}

// SnapsBack tells whether the load point displacement folds back
func (o TrussSpring) SnapsBack() bool {
	return o.Ks < 0.5*o.C*o.H*o.H
}

// Ndof returns the number of equations
func (o TrussSpring) Ndof() int { return 2 }

// Residual computes R(w, v, λ)
func (o TrussSpring) Residual(R, u []float64, λ float64) (err error) {
	w, v := u[0], u[1]
	R[0] = o.Force(w) - o.Ks*(v-w)
	R[1] = o.Ks*(v-w) - λ
	return
}

// Tangent returns dR/du
func (o TrussSpring) Tangent(u []float64) (K mat.Matrix, err error) {
	k := o.Stiffness(u[0])
	return mat.NewDense(2, 2, []float64{
		k + o.Ks, -o.Ks,
		-o.Ks, o.Ks,
	}), nil
}

// LoadVector returns q = -dR/dλ
func (o TrussSpring) LoadVector(q, u []float64) (err error) {
	q[0], q[1] = 0, 1
	return
}
