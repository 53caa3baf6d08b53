// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"
	"github.com/james-bowman/sparse"
	"github.com/zhang9song/jax-fem/inp"
)

// Elem defines what elements must calculate
type Elem interface {

	// information and initialisation
	Id() int                        // returns the cell Id
	SetEqs(eqs [][]int) (err error) // set equations [nverts][ndim]

	// conditions
	AddNatBc(fid int, tvec []float64, cte bool) // add traction on face fid

	// called for each iteration
	AddToRes(R, u []float64, λ, dt float64) (err error)                        // adds element residual R = fint - fext to global R
	AddToLoad(q []float64) (err error)                                         // adds -dR/dλ to global q
	AddToKb(Kb *sparse.DOK, u []float64, dt float64, fixed []bool) (err error) // adds element K to global K, skipping fixed rows
}

// ElemIntvars defines elements with internal variables
type ElemIntvars interface {
	Ipoints() (coords [][]float64)           // returns the real coordinates of integration points [nip][ndim]
	IpValues() (vals map[string][][]float64) // returns values at integration points; key => [nip][ncomp]
	Commit()                                 // accepts the trial internal variables
}

// NaturalBc holds a traction applied on a face of an element
type NaturalBc struct {
	Fid  int       // local face id
	Tvec []float64 // traction vector
	Cte  bool      // does not depend on λ
}

// NewElem returns a new element for cell
func NewElem(cell *inp.Cell, sim *inp.Simulation) (ele Elem, err error) {
	edat := sim.GetElemData(cell.Tag)
	if edat == nil {
		return nil, chk.Err("cannot get data for element {tag=%d, id=%d}", cell.Tag, cell.Id)
	}
	mat := sim.GetMat(edat.Mat)
	if mat == nil {
		return nil, chk.Err("cannot find material %q for element {tag=%d, id=%d}", edat.Mat, cell.Tag, cell.Id)
	}
	e, err := NewElemU(cell, sim.Msh.CellCoords(cell), mat, edat.Nip)
	if err != nil {
		return nil, chk.Err("cannot allocate element {tag=%d, id=%d}:\n%v", cell.Tag, cell.Id, err)
	}
	return e, nil
}
