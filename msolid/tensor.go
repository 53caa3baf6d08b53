// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
	"gonum.org/v1/gonum/mat"
)

// MINDET is the minimum determinant allowed for deformation gradients
const MINDET = 1.0e-14

// Alloc4 allocates a fourth order tensor [n][n][n][n]
func Alloc4(n int) (a [][][][]float64) {
	a = make([][][][]float64, n)
	for i := range a {
		a[i] = make([][][]float64, n)
		for j := range a[i] {
			a[i][j] = utl.Alloc(n, n)
		}
	}
	return
}

// todense converts a [][]float64 into a gonum matrix
func todense(a [][]float64) *mat.Dense {
	n := len(a)
	A := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		A.SetRow(i, a[i])
	}
	return A
}

// Inv computes ai := inv(a) and returns the determinant of a
func Inv(ai, a [][]float64) (det float64, err error) {
	A := todense(a)
	det = mat.Det(A)
	if math.Abs(det) < MINDET {
		return det, chk.Err("cannot invert tensor with |det| = %g < %g", math.Abs(det), MINDET)
	}
	var Ai mat.Dense
	if err = Ai.Inverse(A); err != nil {
		return det, chk.Err("cannot invert tensor:\n%v", err)
	}
	for i := range ai {
		for j := range ai[i] {
			ai[i][j] = Ai.At(i, j)
		}
	}
	return
}

// MatMul computes c := a · b
func MatMul(c, a, b [][]float64) {
	n := len(a)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			c[i][j] = 0
			for k := 0; k < n; k++ {
				c[i][j] += a[i][k] * b[k][j]
			}
		}
	}
}

// MatTrMul computes c := aᵀ · b
func MatTrMul(c, a, b [][]float64) {
	n := len(a)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			c[i][j] = 0
			for k := 0; k < n; k++ {
				c[i][j] += a[k][i] * b[k][j]
			}
		}
	}
}

// MatMulTr computes c := a · bᵀ
func MatMulTr(c, a, b [][]float64) {
	n := len(a)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			c[i][j] = 0
			for k := 0; k < n; k++ {
				c[i][j] += a[i][k] * b[j][k]
			}
		}
	}
}
