// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
	"github.com/stretchr/testify/require"
)

func newCrystal(tst *testing.T) *CrystalPlast {
	mdl, err := New("crystal-plast")
	require.NoError(tst, err)
	require.NoError(tst, mdl.Init(3, nil))
	return mdl.(*CrystalPlast)
}

func Test_crystal01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("crystal01. slip systems")

	mdl := newCrystal(tst)
	chk.Int(tst, "nslip", mdl.Nslip, 12)
	for α, M := range mdl.Schmid {
		var tr, nrm float64
		for i := 0; i < 3; i++ {
			tr += M[i][i]
			for j := 0; j < 3; j++ {
				nrm += M[i][j] * M[i][j]
			}
		}
		chk.Float64(tst, io.Sf("tr(M%d)", α), 1e-15, tr, 0)
		chk.Float64(tst, io.Sf("|M%d|", α), 1e-15, nrm, 1)
	}

	var bad CrystalPlast
	require.Error(tst, bad.Init(2, nil))
}

func Test_crystal02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("crystal02. elastic response and tangent symmetry")

	mdl := newCrystal(tst)
	sOld, _ := mdl.InitIntVars()
	sNew, _ := mdl.InitIntVars()
	ε := 1e-4
	F := [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1 + ε}}
	P := utl.Alloc(3, 3)
	A := Alloc4(3)
	require.NoError(tst, mdl.StressTangent(P, A, F, sOld, sNew, 0))

	E33 := ((1+ε)*(1+ε) - 1) / 2
	chk.Float64(tst, "P33", 1e-6, P[2][2], (1+ε)*mdl.C11*E33)
	chk.Float64(tst, "P11", 1e-6, P[0][0], mdl.C12*E33)
	chk.Float64(tst, "P12", 1e-6, P[0][1], 0)
	chk.Array(tst, "G", 1e-15, sNew.G, sOld.G)

	// hyperelastic when dt = 0: A_iJkL = A_kLiJ
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				for l := 0; l < 3; l++ {
					chk.Float64(tst, "major symmetry", 1.0, A[i][j][k][l], A[k][l][i][j])
				}
			}
		}
	}
	chk.Float64(tst, "A3333", 0.01*mdl.C11, A[2][2][2][2], mdl.C11)
}

func Test_crystal03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("crystal03. plastic slip under uniaxial strain")

	mdl := newCrystal(tst)
	sOld, _ := mdl.InitIntVars()
	sNew, _ := mdl.InitIntVars()
	ε := 0.005
	F := [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1 + ε}}
	P := utl.Alloc(3, 3)
	A := Alloc4(3)
	require.NoError(tst, mdl.StressTangent(P, A, F, sOld, sNew, 0.05))
	io.Pforan("P33 = %v  Fp33 = %v  g0 = %v\n", P[2][2], sNew.Fp[2][2], sNew.G[0])

	// relaxation with respect to the elastic trial
	E33 := ((1+ε)*(1+ε) - 1) / 2
	if P[2][2] >= (1+ε)*mdl.C11*E33 {
		tst.Errorf("P33 = %g did not relax", P[2][2])
	}
	if sNew.Fp[2][2] <= 1 {
		tst.Errorf("Fp33 = %g must be greater than 1", sNew.Fp[2][2])
	}
	for α := range sNew.G {
		if sNew.G[α] <= mdl.G0 {
			tst.Errorf("g[%d] = %g did not harden", α, sNew.G[α])
		}
	}

	// S is consistent with the elastic part of F
	Fpi := utl.Alloc(3, 3)
	_, err := Inv(Fpi, sNew.Fp)
	require.NoError(tst, err)
	Fe := utl.Alloc(3, 3)
	MatMul(Fe, F, Fpi)
	s := make([]float64, 6)
	mdl.elastic(s, Fe)
	x := make([]float64, 6)
	toVoigt(x, sNew.S)
	chk.Array(tst, "S", 1e-6, x, s)

	// plastic flow softens the axial tangent
	if A[2][2][2][2] >= mdl.C11 || A[2][2][2][2] <= 0 {
		tst.Errorf("A3333 = %g is not within (0, C11)", A[2][2][2][2])
	}

	// plastic incompressibility up to second order in Δγ
	chk.Float64(tst, "det(Fp)", 1e-3, math.Abs(det3(sNew.Fp)), 1)
}

func det3(a [][]float64) float64 {
	return a[0][0]*(a[1][1]*a[2][2]-a[1][2]*a[2][1]) -
		a[0][1]*(a[1][0]*a[2][2]-a[1][2]*a[2][0]) +
		a[0][2]*(a[1][0]*a[2][1]-a[1][1]*a[2][0])
}

func Test_crystal04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("crystal04. convergence on the last allowed iteration")

	mdl := newCrystal(tst)
	sOld, _ := mdl.InitIntVars()
	sNew, _ := mdl.InitIntVars()
	F := [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1.005}}
	P := utl.Alloc(3, 3)
	nit, err := mdl.update(P, F, sOld, sNew, 0.05)
	require.NoError(tst, err)
	io.Pforan("nit = %d\n", nit)
	require.Greater(tst, nit, 0)

	// exactly enough iterations
	mdl.NmaxIt = nit
	sLast, _ := mdl.InitIntVars()
	Plast := utl.Alloc(3, 3)
	n, err := mdl.update(Plast, F, sOld, sLast, 0.05)
	require.NoError(tst, err)
	chk.Int(tst, "nit", n, nit)
	for i := 0; i < 3; i++ {
		chk.Array(tst, "P", 1e-15, Plast[i], P[i])
	}
	chk.Array(tst, "G", 1e-15, sLast.G, sNew.G)

	// one iteration short
	mdl.NmaxIt = nit - 1
	_, err = mdl.update(Plast, F, sOld, sLast, 0.05)
	require.Error(tst, err)
}
