// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/utl"
)

// NeoHookean implements a compressible neo-Hookean model with strain energy
//
//  ψ = μ/2 · (J^a · I₁ - d) + κ/2 · (J - 1)²   with   a = -2/d
//
//  where d is the space dimension, J = det(F) and I₁ = tr(Fᵀ·F)
type NeoHookean struct {
	Ndim int     // space dimension
	E    float64 // Young's modulus
	Nu   float64 // Poisson's coefficient
	Mu   float64 // shear modulus μ
	Kap  float64 // bulk modulus κ
	a    float64 // a = -2/d

	// auxiliary
	H [][]float64 // H = F⁻ᵀ
}

// add model to factory
func init() {
	allocators["neo-hookean"] = func() Model { return new(NeoHookean) }
}

// Init initialises model
func (o *NeoHookean) Init(ndim int, prms dbf.Params) (err error) {
	if ndim != 2 && ndim != 3 {
		return chk.Err("neo-hookean: ndim must be 2 or 3. ndim = %d is invalid", ndim)
	}
	o.Ndim = ndim
	o.E, o.Nu = 1e3, 0.3
	for _, p := range prms {
		switch p.N {
		case "E":
			o.E = p.V
		case "nu":
			o.Nu = p.V
		default:
			return chk.Err("neo-hookean: parameter named %q is invalid", p.N)
		}
	}
	if o.E <= 0 || o.Nu <= -1 || o.Nu >= 0.5 {
		return chk.Err("neo-hookean: E = %g and nu = %g are invalid", o.E, o.Nu)
	}
	o.Mu = o.E / (2.0 * (1.0 + o.Nu))
	o.Kap = o.E / (3.0 * (1.0 - 2.0*o.Nu))
	o.a = -2.0 / float64(ndim)
	o.H = utl.Alloc(ndim, ndim)
	return
}

// GetPrms gets (an example) of parameters
func (o NeoHookean) GetPrms() dbf.Params {
	return dbf.Params{
		&dbf.P{N: "E", V: 1e3},
		&dbf.P{N: "nu", V: 0.3},
	}
}

// InitIntVars initialises internal (secondary) variables
func (o NeoHookean) InitIntVars() (s *State, err error) {
	return NewState(0), nil
}

// Energy returns the strain energy density ψ(F)
func (o *NeoHookean) Energy(F [][]float64) (ψ float64, err error) {
	J, err := Inv(o.H, F)
	if err != nil {
		return
	}
	if J <= 0 {
		return 0, chk.Err("neo-hookean: J = %g must be positive", J)
	}
	var I1 float64
	for i := 0; i < o.Ndim; i++ {
		for j := 0; j < o.Ndim; j++ {
			I1 += F[i][j] * F[i][j]
		}
	}
	d := float64(o.Ndim)
	return o.Mu/2.0*(math.Pow(J, o.a)*I1-d) + o.Kap/2.0*(J-1.0)*(J-1.0), nil
}

// StressTangent computes P and A = ∂P/∂F
//
//  P = μ·J^a·(F + a/2·I₁·H) + κ·J·(J-1)·H   with   H = F⁻ᵀ
func (o *NeoHookean) StressTangent(P [][]float64, A [][][][]float64, F [][]float64, sOld, sNew *State, dt float64) (err error) {

	// H = F⁻ᵀ
	Fi := utl.Alloc(o.Ndim, o.Ndim)
	J, err := Inv(Fi, F)
	if err != nil {
		return
	}
	if J <= 0 {
		return chk.Err("neo-hookean: J = %g must be positive", J)
	}
	nd := o.Ndim
	var I1 float64
	for i := 0; i < nd; i++ {
		for j := 0; j < nd; j++ {
			o.H[i][j] = Fi[j][i]
			I1 += F[i][j] * F[i][j]
		}
	}

	// stress
	a, μ, κ := o.a, o.Mu, o.Kap
	Ja := math.Pow(J, a)
	H := o.H
	for i := 0; i < nd; i++ {
		for j := 0; j < nd; j++ {
			P[i][j] = μ*Ja*(F[i][j]+a/2.0*I1*H[i][j]) + κ*J*(J-1.0)*H[i][j]
		}
	}
	if A == nil {
		return
	}

	// tangent
	var δ float64
	for i := 0; i < nd; i++ {
		for j := 0; j < nd; j++ {
			for k := 0; k < nd; k++ {
				for l := 0; l < nd; l++ {
					δ = 0
					if i == k && j == l {
						δ = 1
					}
					A[i][j][k][l] = μ*a*Ja*H[k][l]*(F[i][j]+a/2.0*I1*H[i][j]) +
						μ*Ja*(δ+a/2.0*(2.0*F[k][l]*H[i][j]-I1*H[i][l]*H[k][j])) +
						κ*(2.0*J-1.0)*J*H[k][l]*H[i][j] -
						κ*(J*J-J)*H[i][l]*H[k][j]
				}
			}
		}
	}
	return
}
