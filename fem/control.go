// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/floats"
)

// Control holds the numeric configuration of the Newton and arc-length iterations
type Control struct {
	Tol        float64 // tolerance on the residual norm and on the arc-length constraint residual
	NmaxIt     int     // maximum number of (corrector) iterations
	Dl         float64 // Δl: arc-length radius
	Psi        float64 // ψ: weight of the load parameter in the arc-length norm
	LoadScaled bool    // weight ψ²Δλ² by q·q (Crisfield); otherwise by 1
	Root       string  // root selection strategy: "dot", "angle" or "linear"
	FirstDir   string  // predictor when no prior direction exists: "load" or "tangent"
	Predictor  string  // "secant": start along the previous direction; "zero": start from a zero increment
	ShowR      bool    // show residuals table
}

// SetDefault sets default values for missing fields
func (o *Control) SetDefault() {
	if o.Tol <= 0 {
		o.Tol = 1e-8
	}
	if o.NmaxIt <= 0 {
		o.NmaxIt = 20
	}
	if o.Root == "" {
		o.Root = "dot"
	}
	if o.FirstDir == "" {
		o.FirstDir = "load"
	}
	if o.Predictor == "" {
		o.Predictor = "secant"
	}
}

// Check validates the configuration
func (o *Control) Check() error {
	if !(o.Tol > 0) || math.IsInf(o.Tol, 0) {
		return chk.Err("tolerance must be positive and finite. Tol = %g is invalid", o.Tol)
	}
	if o.NmaxIt <= 0 {
		return chk.Err("maximum number of iterations must be positive. NmaxIt = %d is invalid", o.NmaxIt)
	}
	if o.Dl <= 0 {
		return chk.Err("arc-length radius must be positive. Dl = %g is invalid", o.Dl)
	}
	if o.Psi < 0 || math.IsNaN(o.Psi) || math.IsInf(o.Psi, 0) {
		return chk.Err("load weight must be finite and non-negative. Psi = %g is invalid", o.Psi)
	}
	if _, ok := rootallocators[o.Root]; !ok {
		return chk.Err("cannot find root selection strategy %q", o.Root)
	}
	if o.FirstDir != "load" && o.FirstDir != "tangent" {
		return chk.Err("first direction must be \"load\" or \"tangent\". %q is invalid", o.FirstDir)
	}
	if o.Predictor != "secant" && o.Predictor != "zero" {
		return chk.Err("predictor must be \"secant\" or \"zero\". %q is invalid", o.Predictor)
	}
	return nil
}

// Direction holds an incremental direction (Δu, Δλ) in the combined space.
// The zero value means "no prior direction".
type Direction struct {
	Du   []float64 // displacement part
	Dlam float64   // load parameter part
}

// IsZero tells whether the direction has no components
func (o Direction) IsZero() bool {
	if o.Dlam != 0 {
		return false
	}
	for _, v := range o.Du {
		if v != 0 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy
func (o Direction) Clone() Direction {
	return Direction{Du: append([]float64(nil), o.Du...), Dlam: o.Dlam}
}

// Metric defines the weighted inner product of the arc-length constraint:
//
//  ⟨a, b⟩ = a.Du·b.Du + W·a.Dlam·b.Dlam  with  W = ψ²·w
//
type Metric struct {
	W float64 // ψ²·w, with w = q·q if load-scaled or 1 otherwise
}

// NewMetric returns the metric for a given configuration and load pattern
func NewMetric(ctl *Control, q []float64) Metric {
	w := 1.0
	if ctl.LoadScaled {
		w = floats.Dot(q, q)
	}
	return Metric{W: ctl.Psi * ctl.Psi * w}
}

// Dot computes the weighted inner product
func (o Metric) Dot(du1 []float64, dl1 float64, du2 []float64, dl2 float64) float64 {
	var res float64
	if len(du1) > 0 && len(du2) > 0 {
		res = floats.Dot(du1, du2)
	}
	return res + o.W*dl1*dl2
}

// Norm computes the weighted norm
func (o Metric) Norm(du []float64, dl float64) float64 {
	return math.Sqrt(o.Dot(du, dl, du, dl))
}
