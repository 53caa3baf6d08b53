// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/james-bowman/sparse"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func spdSystem() (A *mat.Dense, b, x []float64) {
	A = mat.NewDense(3, 3, []float64{
		4, -1, 0,
		-1, 4, -1,
		0, -1, 4,
	})
	x = []float64{1, 2, 3}
	b = []float64{2, 4, 10}
	return
}

func Test_linsol01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("linsol01. lu, chol and cg on a SPD system")

	for _, name := range LinSolverNames() {
		io.Pforan("solver = %v\n", name)
		A, b, xcorrect := spdSystem()
		sol, err := GetSolver(name)
		require.NoError(tst, err)
		F, err := sol.Fact(A)
		require.NoError(tst, err)

		// factors must not depend on A after Fact
		A.Set(0, 0, 1000)
		A.Set(2, 1, -50)

		x := make([]float64, 3)
		require.NoError(tst, F.Solve(x, b))
		chk.Array(tst, name+": x", 1e-12, x, xcorrect)

		// second right-hand side from the same factors
		y := make([]float64, 3)
		require.NoError(tst, F.Solve(y, []float64{4, -1, 0}))
		chk.Array(tst, name+": y", 1e-12, y, []float64{1, 0, 0})
	}
}

func Test_linsol02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("linsol02. cg with sparse DOK input")

	A := sparse.NewDOK(3, 3)
	A.Set(0, 0, 4)
	A.Set(0, 1, -1)
	A.Set(1, 0, -1)
	A.Set(1, 1, 4)
	A.Set(1, 2, -1)
	A.Set(2, 1, -1)
	A.Set(2, 2, 4)
	F, err := new(LinSolCG).Fact(A)
	require.NoError(tst, err)
	A.Set(1, 1, -3)

	x := make([]float64, 3)
	require.NoError(tst, F.Solve(x, []float64{2, 4, 10}))
	chk.Array(tst, "x", 1e-12, x, []float64{1, 2, 3})
}

func Test_linsol03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("linsol03. singular signals")

	singular := mat.NewDense(2, 2, []float64{1, 2, 2, 4})
	indefinite := mat.NewDense(2, 2, []float64{1, 2, 2, 1})
	nonsym := mat.NewDense(2, 2, []float64{2, 1, 0, 2})
	negdiag := mat.NewDense(2, 2, []float64{-1, 0, 0, 1})

	_, err := new(LinSolLU).Fact(singular)
	require.ErrorIs(tst, err, ErrSingular)

	chol := &LinSolChol{SymTol: 1e-10}
	_, err = chol.Fact(indefinite)
	require.ErrorIs(tst, err, ErrSingular)
	_, err = chol.Fact(nonsym)
	require.ErrorIs(tst, err, ErrSingular)

	_, err = new(LinSolCG).Fact(negdiag)
	require.ErrorIs(tst, err, ErrSingular)

	_, err = GetSolver("umfpack")
	require.Error(tst, err)
	require.NotErrorIs(tst, err, ErrSingular)
}
