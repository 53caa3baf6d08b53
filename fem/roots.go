// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"fmt"
	"math"
	"sort"

	"github.com/cpmech/gosl/chk"
)

// Quadratic holds the coefficients of the arc-length constraint in δλ:
//
//  A1·δλ² + A2·δλ + A3 = 0
//
type Quadratic struct {
	A1, A2, A3 float64
}

// Linear returns the root of the linearised equation A2·δλ + A3 = 0
func (o Quadratic) Linear() float64 {
	return -o.A3 / o.A2
}

// Roots computes the real roots. A1 ≈ 0 yields the linear root only.
// Returns an error matching ErrRootDegeneracy if no real root exists.
func (o Quadratic) Roots() (roots []float64, err error) {
	scale := math.Max(1, math.Max(math.Abs(o.A2), math.Abs(o.A3)))
	if math.Abs(o.A1) <= 1e-14*scale {
		if o.A2 == 0 {
			return nil, fmt.Errorf("constraint is independent of δλ (A1 = %g, A2 = 0): %w", o.A1, ErrRootDegeneracy)
		}
		return []float64{o.Linear()}, nil
	}
	disc := o.A2*o.A2 - 4*o.A1*o.A3
	if disc < 0 || math.IsNaN(disc) {
		return nil, fmt.Errorf("negative discriminant %g: %w", disc, ErrRootDegeneracy)
	}
	// stable form avoiding cancellation
	sq := math.Sqrt(disc)
	var qq float64
	if o.A2 >= 0 {
		qq = -0.5 * (o.A2 + sq)
	} else {
		qq = -0.5 * (o.A2 - sq)
	}
	r1 := qq / o.A1
	r2 := r1
	if qq != 0 {
		r2 = o.A3 / qq
	}
	return []float64{r1, r2}, nil
}

// Candidate holds a trial increment resulting from one root of the constraint
type Candidate struct {
	Root float64   // δλ
	Du   []float64 // Δu + δu_R + δλ·δu_λ
	Dlam float64   // Δλ + δλ
}

// RootSelector picks one of the candidate increments
type RootSelector interface {

	// Select returns the index of the chosen candidate, given the reference
	// (predictor) direction. Returns an error matching ErrRootDegeneracy if no
	// candidate is admissible.
	Select(cands []Candidate, ref Direction, eq Quadratic, m Metric) (idx int, err error)
}

// rootallocators holds all available root selection strategies
var rootallocators = make(map[string]func() RootSelector)

// GetRootSelector returns a root selection strategy by name
func GetRootSelector(name string) (RootSelector, error) {
	if alloc, ok := rootallocators[name]; ok {
		return alloc(), nil
	}
	return nil, chk.Err("cannot find root selection strategy named %q. options are %v", name, RootSelectorNames())
}

// RootSelectorNames returns the names of all root selection strategies
func RootSelectorNames() (names []string) {
	for name := range rootallocators {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// RootDot keeps the candidates with positive weighted dot product with the
// reference direction and picks the one with the largest product
type RootDot struct{}

func init() {
	rootallocators["dot"] = func() RootSelector { return new(RootDot) }
}

// Select selects root
func (o *RootDot) Select(cands []Candidate, ref Direction, eq Quadratic, m Metric) (idx int, err error) {
	idx = -1
	best := 0.0
	for i, c := range cands {
		d := m.Dot(c.Du, c.Dlam, ref.Du, ref.Dlam)
		if d > best {
			idx, best = i, d
		}
	}
	if idx < 0 {
		return -1, fmt.Errorf("no root has positive dot product with the predictor direction: %w", ErrRootDegeneracy)
	}
	return
}

// RootAngle picks the candidate making the smallest angle with the reference
// direction, regardless of sign
type RootAngle struct{}

func init() {
	rootallocators["angle"] = func() RootSelector { return new(RootAngle) }
}

// Select selects root
func (o *RootAngle) Select(cands []Candidate, ref Direction, eq Quadratic, m Metric) (idx int, err error) {
	idx = -1
	best := math.Inf(-1)
	nr := m.Norm(ref.Du, ref.Dlam)
	for i, c := range cands {
		den := nr * m.Norm(c.Du, c.Dlam)
		if den == 0 {
			continue
		}
		cos := m.Dot(c.Du, c.Dlam, ref.Du, ref.Dlam) / den
		if math.IsNaN(cos) {
			continue
		}
		if cos > best {
			idx, best = i, cos
		}
	}
	if idx < 0 {
		return -1, fmt.Errorf("angle between increment and predictor is undefined: %w", ErrRootDegeneracy)
	}
	return
}

// RootLinear keeps the candidates with positive weighted dot product with the
// reference direction and picks the one whose root is closest to the root of
// the linearised constraint
type RootLinear struct{}

func init() {
	rootallocators["linear"] = func() RootSelector { return new(RootLinear) }
}

// Select selects root
func (o *RootLinear) Select(cands []Candidate, ref Direction, eq Quadratic, m Metric) (idx int, err error) {
	if eq.A2 == 0 {
		return new(RootDot).Select(cands, ref, eq, m)
	}
	lin := eq.Linear()
	idx = -1
	best := math.Inf(1)
	for i, c := range cands {
		if m.Dot(c.Du, c.Dlam, ref.Du, ref.Dlam) <= 0 {
			continue
		}
		if d := math.Abs(c.Root - lin); d < best {
			idx, best = i, d
		}
	}
	if idx < 0 {
		return -1, fmt.Errorf("no forward root near the linearised root %g: %w", lin, ErrRootDegeneracy)
	}
	return
}
