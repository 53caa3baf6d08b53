// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import "gonum.org/v1/gonum/mat"

// Assembler computes the discrete equilibrium equations of a problem.
//
//  The load parameter λ scales the prescribed loading pattern (forces or
//  displacements). Boundary conditions must already be incorporated in the
//  returned quantities: constrained equations carry identity rows in K and
//  residuals of the form u_i - λ·ū_i, so that linear systems are well posed on
//  the full set of equations.
type Assembler interface {

	// Ndof returns the total number of equations
	Ndof() int

	// Residual computes R(u, λ) into R [ndof]
	Residual(R, u []float64, λ float64) (err error)

	// Tangent returns K(u) = dR/du [ndof][ndof]
	Tangent(u []float64) (K mat.Matrix, err error)

	// LoadVector computes the loading pattern q = -dR/dλ into q [ndof]
	LoadVector(q, u []float64) (err error)
}

// Committer is implemented by assemblers with history-dependent internal
// variables. Commit is called by the solvers once a state is accepted.
type Committer interface {
	Commit()
}
