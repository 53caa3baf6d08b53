// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import "github.com/cpmech/gosl/utl"

// State holds the internal variables of a material point
type State struct {

	// for crystal plasticity (if len(G) > 0)
	Fp  [][]float64 // plastic deformation gradient [3][3]
	S   [][]float64 // second Piola-Kirchhoff stress in the intermediate configuration [3][3]
	G   []float64   // slip resistances [nslip]
	Gam []float64   // accumulated slips |γ| [nslip]
}

// NewState allocates state structure
//  nslip -- number of slip systems; zero for models without internal variables
func NewState(nslip int) *State {
	var state State
	if nslip > 0 {
		state.Fp = utl.Alloc(3, 3)
		state.S = utl.Alloc(3, 3)
		for i := 0; i < 3; i++ {
			state.Fp[i][i] = 1
		}
		state.G = make([]float64, nslip)
		state.Gam = make([]float64, nslip)
	}
	return &state
}

// Set copies states
//  Note: 1) this and other states must have been pre-allocated with the same sizes
//        2) this method does not check for errors
func (o *State) Set(other *State) {
	if len(o.G) > 0 {
		for i := 0; i < 3; i++ {
			copy(o.Fp[i], other.Fp[i])
			copy(o.S[i], other.S[i])
		}
		copy(o.G, other.G)
		copy(o.Gam, other.Gam)
	}
}

// GetCopy returns a copy of this state
func (o *State) GetCopy() *State {
	other := NewState(len(o.G))
	other.Set(o)
	return other
}
