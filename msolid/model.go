// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package msolid implements models for solids in large deformation analyses
//
//  All models compute the first Piola-Kirchhoff stress P and the tangent
//  modulus A = ∂P/∂F for a given deformation gradient F:
//
//    P_iJ = ∂ψ/∂F_iJ          (hyperelastic)
//    A_iJkL = ∂P_iJ/∂F_kL
//
package msolid

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Model defines the interface for solid models
type Model interface {
	Init(ndim int, prms dbf.Params) error // initialises model
	GetPrms() dbf.Params                  // gets (an example) of parameters
	InitIntVars() (*State, error)         // initialises AND allocates internal (secondary) variables

	// StressTangent computes P and (if A != nil) A = ∂P/∂F for the deformation
	// gradient F, starting from the converged state sOld. The updated internal
	// variables are stored in sNew. dt is the (pseudo) time increment.
	StressTangent(P [][]float64, A [][][][]float64, F [][]float64, sOld, sNew *State, dt float64) error
}

// New returns new solid model
func New(name string) (model Model, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in 'msolid' database. options are %v", name, Names())
	}
	return allocator(), nil
}

// Names returns the names of all available models
func Names() (names []string) {
	for name := range allocators {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// allocators holds all available solid models; modelname => allocator
var allocators = map[string]func() Model{}
