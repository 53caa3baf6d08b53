// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/utl"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// CrystalPlast implements a rate-dependent single-crystal plasticity model for
// FCC metals with 12 {111}<110> slip systems
//
//  F = Fe · Fp
//  S = ℂ : E      with  E = ½(Feᵀ·Fe - I)    (cubic St. Venant-Kirchhoff)
//  τα = S : (mα ⊗ nα)
//  Δγα = γ̇₀ · Δt · |τα / gα|^(1/m) · sign(τα)
//  Fp_new = (I + Σ Δγα · mα ⊗ nα) · Fp_old
//  gα_new = gα_old + Σβ qαβ · h₀ · |1 - gβ/gs|^a · sign(1 - gβ/gs) · |Δγβ|
//
//  The stress S is found implicitly with Newton's method (hardening is
//  explicit). The tangent A = ∂P/∂F is computed by central differences.
type CrystalPlast struct {

	// parameters
	C11, C12, C44 float64 // cubic elastic constants
	Gdot0         float64 // γ̇₀: reference slip rate
	M             float64 // m: rate sensitivity
	H0            float64 // h₀: hardening modulus
	Gs            float64 // gs: saturation slip resistance
	G0            float64 // g₀: initial slip resistance
	Ae            float64 // a: hardening exponent
	Q             float64 // q: latent hardening ratio

	// slip systems
	Nslip  int           // number of slip systems
	Schmid [][][]float64 // mα ⊗ nα [nslip][3][3]

	// constants
	Tol    float64 // tolerance for the stress update
	NmaxIt int     // maximum number of iterations in the stress update
	FdStep float64 // step for the numerical tangent

	// auxiliary
	work *State // internal variables for perturbed deformation gradients
}

// add model to factory
func init() {
	allocators["crystal-plast"] = func() Model { return new(CrystalPlast) }
}

// fccSystems returns the (unnormalised) slip directions and normals of FCC crystals
func fccSystems() (m, n [][]float64) {
	n = [][]float64{
		{1, 1, 1}, {1, 1, 1}, {1, 1, 1},
		{-1, 1, 1}, {-1, 1, 1}, {-1, 1, 1},
		{1, -1, 1}, {1, -1, 1}, {1, -1, 1},
		{1, 1, -1}, {1, 1, -1}, {1, 1, -1},
	}
	m = [][]float64{
		{0, 1, -1}, {1, 0, -1}, {1, -1, 0},
		{0, 1, -1}, {1, 0, 1}, {1, 1, 0},
		{0, 1, 1}, {1, 0, -1}, {1, 1, 0},
		{0, 1, 1}, {1, 0, 1}, {1, -1, 0},
	}
	return
}

// Init initialises model
func (o *CrystalPlast) Init(ndim int, prms dbf.Params) (err error) {

	// check
	if ndim != 3 {
		return chk.Err("crystal-plast: only 3D is available. ndim = %d is invalid", ndim)
	}

	// parameters
	for _, p := range o.GetPrms() {
		o.set(p.N, p.V)
	}
	for _, p := range prms {
		if !o.set(p.N, p.V) {
			return chk.Err("crystal-plast: parameter named %q is invalid", p.N)
		}
	}
	if o.M <= 0 || o.G0 <= 0 || o.Gs <= 0 || o.Gdot0 < 0 {
		return chk.Err("crystal-plast: m, g0 and gs must be positive and gdot0 non-negative. m=%g, g0=%g, gs=%g, gdot0=%g", o.M, o.G0, o.Gs, o.Gdot0)
	}

	// slip systems
	m, n := fccSystems()
	o.Nslip = len(m)
	o.Schmid = make([][][]float64, o.Nslip)
	for α := 0; α < o.Nslip; α++ {
		floats.Scale(1/floats.Norm(m[α], 2), m[α])
		floats.Scale(1/floats.Norm(n[α], 2), n[α])
		o.Schmid[α] = utl.Alloc(3, 3)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				o.Schmid[α][i][j] = m[α][i] * n[α][j]
			}
		}
	}

	// constants
	o.Tol = 1e-12 * math.Max(o.C11, 1)
	o.NmaxIt = 50
	o.FdStep = 1e-6
	o.work = NewState(o.Nslip)
	return
}

// set sets parameter
func (o *CrystalPlast) set(name string, val float64) bool {
	switch name {
	case "C11":
		o.C11 = val
	case "C12":
		o.C12 = val
	case "C44":
		o.C44 = val
	case "gdot0":
		o.Gdot0 = val
	case "m":
		o.M = val
	case "h0":
		o.H0 = val
	case "gs":
		o.Gs = val
	case "g0":
		o.G0 = val
	case "a":
		o.Ae = val
	case "q":
		o.Q = val
	default:
		return false
	}
	return true
}

// GetPrms gets (an example) of parameters; copper in MPa
func (o CrystalPlast) GetPrms() dbf.Params {
	return dbf.Params{
		&dbf.P{N: "C11", V: 1.684e5},
		&dbf.P{N: "C12", V: 1.214e5},
		&dbf.P{N: "C44", V: 0.754e5},
		&dbf.P{N: "gdot0", V: 0.001},
		&dbf.P{N: "m", V: 0.1},
		&dbf.P{N: "h0", V: 541.5},
		&dbf.P{N: "gs", V: 109.8},
		&dbf.P{N: "g0", V: 60.8},
		&dbf.P{N: "a", V: 2.5},
		&dbf.P{N: "q", V: 1.0},
	}
}

// InitIntVars initialises internal (secondary) variables
func (o CrystalPlast) InitIntVars() (s *State, err error) {
	s = NewState(o.Nslip)
	for α := range s.G {
		s.G[α] = o.G0
	}
	return
}

// StressTangent computes P and A = ∂P/∂F
func (o *CrystalPlast) StressTangent(P [][]float64, A [][][][]float64, F [][]float64, sOld, sNew *State, dt float64) (err error) {

	// stress update
	_, err = o.update(P, F, sOld, sNew, dt)
	if err != nil || A == nil {
		return
	}

	// numerical tangent
	x := make([]float64, 9)
	to9(x, F)
	Fx := utl.Alloc(3, 3)
	Py := utl.Alloc(3, 3)
	jac := mat.NewDense(9, 9, nil)
	fd.Jacobian(jac, func(y, x []float64) {
		from9(Fx, x)
		if _, e := o.update(Py, Fx, sOld, o.work, dt); e != nil {
			err = e
		}
		to9(y, Py)
	}, x, &fd.JacobianSettings{Formula: fd.Central, Step: o.FdStep})
	if err != nil {
		return chk.Err("crystal-plast: numerical tangent failed:\n%v", err)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				for l := 0; l < 3; l++ {
					A[i][j][k][l] = jac.At(3*i+j, 3*k+l)
				}
			}
		}
	}
	return
}

// update computes P and the new internal variables for F and returns the
// number of Newton iterations
func (o *CrystalPlast) update(P, F [][]float64, sOld, sNew *State, dt float64) (nit int, err error) {

	// auxiliary
	Fp := utl.Alloc(3, 3)
	Fe := utl.Alloc(3, 3)
	S := utl.Alloc(3, 3)
	Δγ := make([]float64, o.Nslip)

	// residual r(x) = x - voigt(ℂ : E(Fe(x))) with x = voigt(S)
	residual := func(r, x []float64) (err error) {
		fromVoigt(S, x)
		o.slips(Δγ, S, sOld.G, dt)
		if err = o.plastic(Fp, Fe, F, sOld.Fp, Δγ); err != nil {
			return
		}
		o.elastic(r, Fe)
		for i := range r {
			r[i] = x[i] - r[i]
		}
		return
	}

	// Newton iterations with backtracking
	x := make([]float64, 6)
	r := make([]float64, 6)
	xt := make([]float64, 6)
	δx := make([]float64, 6)
	toVoigt(x, sOld.S)
	if err = residual(r, x); err != nil {
		return
	}
	rnorm := floats.Norm(r, 2)
	jac := mat.NewDense(6, 6, nil)
	var lu mat.LU
	var it int
	for it = 0; it < o.NmaxIt; it++ {
		if rnorm <= o.Tol {
			break
		}
		fd.Jacobian(jac, func(y, x []float64) {
			residual(y, x)
		}, x, &fd.JacobianSettings{Formula: fd.Central})
		lu.Factorize(jac)
		if e := lu.SolveVecTo(mat.NewVecDense(6, δx), false, mat.NewVecDense(6, r)); e != nil {
			return it, chk.Err("crystal-plast: stress update: singular Jacobian:\n%v", e)
		}
		step, accepted := 1.0, false
		for ls := 0; ls < 10; ls++ {
			floats.AddScaledTo(xt, x, -step, δx)
			if e := residual(r, xt); e == nil {
				if nrm := floats.Norm(r, 2); nrm < rnorm || ls == 9 {
					rnorm, accepted = nrm, true
					break
				}
			}
			step *= 0.5
		}
		if !accepted {
			return it, chk.Err("crystal-plast: stress update: line search failed at iteration %d", it)
		}
		copy(x, xt)
	}
	nit = it
	if rnorm > o.Tol {
		return nit, chk.Err("crystal-plast: stress update did not converge after %d iterations. |r| = %g", it, rnorm)
	}

	// final state
	if err = residual(r, x); err != nil {
		return
	}
	for i := 0; i < 3; i++ {
		copy(sNew.Fp[i], Fp[i])
		copy(sNew.S[i], S[i])
	}

	// hardening
	for α := 0; α < o.Nslip; α++ {
		sNew.G[α] = sOld.G[α]
		sNew.Gam[α] = sOld.Gam[α] + math.Abs(Δγ[α])
		for β := 0; β < o.Nslip; β++ {
			q := o.Q
			if α == β {
				q = 1
			}
			ratio := 1 - sOld.G[β]/o.Gs
			sign := 1.0
			if ratio < 0 {
				sign = -1
			}
			sNew.G[α] += q * o.H0 * math.Pow(math.Abs(ratio), o.Ae) * sign * math.Abs(Δγ[β])
		}
	}

	// P = Fe · S · Fp⁻ᵀ
	Fpi := utl.Alloc(3, 3)
	if _, err = Inv(Fpi, Fp); err != nil {
		return
	}
	FeS := utl.Alloc(3, 3)
	MatMul(FeS, Fe, S)
	MatMulTr(P, FeS, Fpi)
	return
}

// slips computes Δγα for the stress S
func (o *CrystalPlast) slips(Δγ []float64, S [][]float64, g []float64, dt float64) {
	for α := 0; α < o.Nslip; α++ {
		var τ float64
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				τ += S[i][j] * o.Schmid[α][i][j]
			}
		}
		Δγ[α] = o.Gdot0 * dt * math.Pow(math.Abs(τ/g[α]), 1/o.M)
		if τ < 0 {
			Δγ[α] = -Δγ[α]
		}
	}
}

// plastic computes Fp = (I + Σ Δγα·mα⊗nα)·Fp_old and Fe = F·Fp⁻¹
func (o *CrystalPlast) plastic(Fp, Fe, F, FpOld [][]float64, Δγ []float64) (err error) {
	L := utl.Alloc(3, 3)
	for i := 0; i < 3; i++ {
		L[i][i] = 1
		for α := 0; α < o.Nslip; α++ {
			for j := 0; j < 3; j++ {
				L[i][j] += Δγ[α] * o.Schmid[α][i][j]
			}
		}
	}
	MatMul(Fp, L, FpOld)
	Fpi := utl.Alloc(3, 3)
	if _, err = Inv(Fpi, Fp); err != nil {
		return
	}
	MatMul(Fe, F, Fpi)
	return
}

// elastic computes voigt(ℂ : E) with E = ½(Feᵀ·Fe - I) and cubic symmetry
//  Voigt order: 11, 22, 33, 23, 13, 12
func (o *CrystalPlast) elastic(s []float64, Fe [][]float64) {
	C := utl.Alloc(3, 3)
	MatTrMul(C, Fe, Fe)
	e11, e22, e33 := (C[0][0]-1)/2, (C[1][1]-1)/2, (C[2][2]-1)/2
	s[0] = o.C11*e11 + o.C12*(e22+e33)
	s[1] = o.C11*e22 + o.C12*(e11+e33)
	s[2] = o.C11*e33 + o.C12*(e11+e22)
	s[3] = o.C44 * C[1][2] // 2·E23
	s[4] = o.C44 * C[0][2] // 2·E13
	s[5] = o.C44 * C[0][1] // 2·E12
}

// toVoigt converts a symmetric tensor to Voigt order 11, 22, 33, 23, 13, 12
func toVoigt(x []float64, a [][]float64) {
	x[0], x[1], x[2] = a[0][0], a[1][1], a[2][2]
	x[3], x[4], x[5] = a[1][2], a[0][2], a[0][1]
}

// fromVoigt converts Voigt components to a symmetric tensor
func fromVoigt(a [][]float64, x []float64) {
	a[0][0], a[1][1], a[2][2] = x[0], x[1], x[2]
	a[1][2], a[2][1] = x[3], x[3]
	a[0][2], a[2][0] = x[4], x[4]
	a[0][1], a[1][0] = x[5], x[5]
}

// to9 flattens a [3][3] tensor
func to9(x []float64, a [][]float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			x[3*i+j] = a[i][j]
		}
	}
}

// from9 unflattens a [3][3] tensor
func from9(a [][]float64, x []float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			a[i][j] = x[3*i+j]
		}
	}
}
