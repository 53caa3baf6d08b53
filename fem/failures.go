// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"errors"

	"github.com/cpmech/gosl/io"
)

// failure sentinels; match with errors.Is
var (
	ErrNonConvergence = errors.New("iterations did not converge")
	ErrSingular       = errors.New("tangent matrix is singular or not positive-definite")
	ErrRootDegeneracy = errors.New("arc-length constraint has no admissible root")
)

// FailKind classifies solver failures
type FailKind int

// failure kinds
const (
	NonConvergence  FailKind = iota // iteration cap reached without meeting tolerances
	SingularTangent                 // linear solver could not factorise or solve
	RootDegeneracy                  // no root of the constraint equation passed the selection test
)

// String returns the name of the failure kind
func (o FailKind) String() string {
	switch o {
	case NonConvergence:
		return "non-convergence"
	case SingularTangent:
		return "singular-tangent"
	case RootDegeneracy:
		return "root-degeneracy"
	}
	return "unknown"
}

// sentinel returns the error matched by errors.Is for this kind
func (o FailKind) sentinel() error {
	switch o {
	case SingularTangent:
		return ErrSingular
	case RootDegeneracy:
		return ErrRootDegeneracy
	}
	return ErrNonConvergence
}

// StepError reports a failed step with its context
type StepError struct {
	Kind  FailKind // type of failure
	Step  int      // step number given by the caller; -1 if unknown
	Iter  int      // iteration where the failure was detected
	Rnorm float64  // last residual norm
	Lam   float64  // last load parameter
	Err   error    // underlying error, if any
}

// Error implements error
func (o *StepError) Error() string {
	msg := io.Sf("%v at step %d, iteration %d (|R| = %g, λ = %g)", o.Kind, o.Step, o.Iter, o.Rnorm, o.Lam)
	if o.Err != nil {
		msg += ": " + o.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (o *StepError) Unwrap() error {
	return o.Err
}

// Is matches the sentinel of the failure kind
func (o *StepError) Is(target error) bool {
	return target == o.Kind.sentinel()
}

// Recoverable tells whether the caller may retry the step with a smaller arc-length
func (o *StepError) Recoverable() bool {
	return o.Kind != SingularTangent
}

// IsRecoverable returns true if err is a StepError that can be retried with a smaller step
func IsRecoverable(err error) bool {
	var se *StepError
	if errors.As(err, &se) {
		return se.Recoverable()
	}
	return false
}
