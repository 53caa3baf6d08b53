// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
	"github.com/james-bowman/sparse"
	"github.com/zhang9song/jax-fem/inp"
	"github.com/zhang9song/jax-fem/msolid"
	"gonum.org/v1/gonum/mat"
)

// ukeys holds the displacement keys
var ukeys = []string{"ux", "uy", "uz"}

// EssentialBc holds a prescribed value at one equation:
//  R_eq = u_eq - λ·Val  or  R_eq = u_eq - Val if Cte
type EssentialBc struct {
	Eq  int     // equation number
	Val float64 // value at λ = 1
	Cte bool    // value does not depend on λ
}

// Domain holds all elements and boundary conditions of a mesh and implements
// Assembler. The state vector u holds the displacements at the vertices used
// by cells.
type Domain struct {

	// init: auxiliary variables
	Sim *inp.Simulation // [from FEM] input data
	Msh *inp.Mesh       // mesh data

	// elements
	Elems       []Elem        // all elements
	ElemIntvars []ElemIntvars // elements with internal variables
	Cid2elem    []Elem        // [ncells] CellId => element

	// equations
	Vid2eqs [][]int // [nverts][ndim] VertexId => equation numbers. Unused vertices are 'nil'
	Ny      int     // total number of equations

	// boundary conditions
	EssenBcs []*EssentialBc // prescribed values, sorted by equation number
	Fixed    []bool         // [ny] equation has a prescribed value

	// time increment for rate-dependent materials
	Dt float64

	// monitored equation; -1 if none
	MonEq int
}

// NewDomain allocates elements, numbers equations and sets boundary conditions
func NewDomain(sim *inp.Simulation) (o *Domain, err error) {

	// new domain
	o = new(Domain)
	o.Sim = sim
	o.Msh = sim.Msh
	o.Dt = sim.Solver.Dt
	o.MonEq = -1
	ndim := o.Msh.Ndim

	// equation numbers in the order of vertices used by cells
	o.Vid2eqs = make([][]int, len(o.Msh.Verts))
	used := make([]bool, len(o.Msh.Verts))
	for _, cell := range o.Msh.Cells {
		for _, v := range cell.Verts {
			used[v] = true
		}
	}
	for v, ok := range used {
		if !ok {
			continue
		}
		o.Vid2eqs[v] = make([]int, ndim)
		for i := 0; i < ndim; i++ {
			o.Vid2eqs[v][i] = o.Ny
			o.Ny++
		}
	}

	// elements
	o.Cid2elem = make([]Elem, len(o.Msh.Cells))
	for _, cell := range o.Msh.Cells {
		ele, e := NewElem(cell, sim)
		if e != nil {
			return nil, chk.Err("new element failed:\n%v", e)
		}
		eqs := make([][]int, len(cell.Verts))
		for j, v := range cell.Verts {
			eqs[j] = o.Vid2eqs[v]
		}
		if err = ele.SetEqs(eqs); err != nil {
			return nil, chk.Err("cannot set element equations:\n%v", err)
		}
		o.Cid2elem[cell.Id] = ele
		o.Elems = append(o.Elems, ele)
		if e, ok := ele.(ElemIntvars); ok {
			o.ElemIntvars = append(o.ElemIntvars, e)
		}
	}

	// essential boundary conditions; the last one given for an equation prevails
	eq2bc := make(map[int]*EssentialBc)
	for _, bc := range sim.Bcs.Essential {
		idx := keyIndex(bc.Key, ndim)
		if idx < 0 {
			return nil, chk.Err("essential boundary condition key %q is invalid in %dD", bc.Key, ndim)
		}
		verts := o.Msh.FindVerts(sim.Bcs.Locations[bc.Loc])
		if len(verts) == 0 {
			return nil, chk.Err("cannot find vertices at location %q", bc.Loc)
		}
		for _, v := range verts {
			if o.Vid2eqs[v.Id] == nil {
				continue
			}
			eq := o.Vid2eqs[v.Id][idx]
			eq2bc[eq] = &EssentialBc{Eq: eq, Val: bc.Val, Cte: bc.Cte}
		}
	}
	o.Fixed = make([]bool, o.Ny)
	for eq, bc := range eq2bc {
		o.Fixed[eq] = true
		o.EssenBcs = append(o.EssenBcs, bc)
	}
	sort.Slice(o.EssenBcs, func(i, j int) bool { return o.EssenBcs[i].Eq < o.EssenBcs[j].Eq })

	// natural boundary conditions
	for _, bc := range sim.Bcs.Natural {
		faces := o.Msh.FindFaces(sim.Bcs.Locations[bc.Loc])
		if len(faces) == 0 {
			return nil, chk.Err("cannot find faces at location %q", bc.Loc)
		}
		for _, f := range faces {
			o.Cid2elem[f.C.Id].AddNatBc(f.Fid, bc.Tvec, bc.Cte)
		}
	}

	// monitored equation
	if sim.Data.Monitor != nil {
		idx := keyIndex(sim.Data.MonKey, ndim)
		if idx < 0 {
			return nil, chk.Err("monitored key %q is invalid in %dD", sim.Data.MonKey, ndim)
		}
		verts := o.Msh.FindVerts(sim.Data.Monitor)
		if len(verts) == 0 || o.Vid2eqs[verts[0].Id] == nil {
			return nil, chk.Err("cannot find monitored vertex")
		}
		o.MonEq = o.Vid2eqs[verts[0].Id][idx]
	}
	return
}

// Ndof returns the total number of equations
func (o *Domain) Ndof() int { return o.Ny }

// Residual computes R(u, λ)
func (o *Domain) Residual(R, u []float64, λ float64) (err error) {
	for i := range R {
		R[i] = 0
	}
	for _, e := range o.Elems {
		if err = e.AddToRes(R, u, λ, o.Dt); err != nil {
			return
		}
	}
	for _, bc := range o.EssenBcs {
		if bc.Cte {
			R[bc.Eq] = u[bc.Eq] - bc.Val
		} else {
			R[bc.Eq] = u[bc.Eq] - λ*bc.Val
		}
	}
	return
}

// Tangent returns K(u) with identity rows at prescribed equations
func (o *Domain) Tangent(u []float64) (K mat.Matrix, err error) {
	Kb := sparse.NewDOK(o.Ny, o.Ny)
	for _, e := range o.Elems {
		if err = e.AddToKb(Kb, u, o.Dt, o.Fixed); err != nil {
			return
		}
	}
	for _, bc := range o.EssenBcs {
		Kb.Set(bc.Eq, bc.Eq, 1)
	}
	return Kb.ToCSR(), nil
}

// LoadVector computes q = -dR/dλ
func (o *Domain) LoadVector(q, u []float64) (err error) {
	for i := range q {
		q[i] = 0
	}
	for _, e := range o.Elems {
		if err = e.AddToLoad(q); err != nil {
			return
		}
	}
	for _, bc := range o.EssenBcs {
		q[bc.Eq] = 0
		if !bc.Cte {
			q[bc.Eq] = bc.Val
		}
	}
	return
}

// Commit accepts the trial internal variables of all elements
func (o *Domain) Commit() {
	for _, e := range o.ElemIntvars {
		e.Commit()
	}
}

// Unflatten returns the displacements per vertex [nverts][ndim]; unused vertices have zero displacements
func (o *Domain) Unflatten(u []float64) (sol [][]float64) {
	sol = make([][]float64, len(o.Msh.Verts))
	for v, eqs := range o.Vid2eqs {
		sol[v] = make([]float64, o.Msh.Ndim)
		for i, eq := range eqs {
			sol[v][i] = u[eq]
		}
	}
	return
}

// AvgStress returns the volume average of the first Piola-Kirchhoff stress
// computed at the last residual evaluation
func (o *Domain) AvgStress() (P [][]float64) {
	nd := o.Msh.Ndim
	P = utl.Alloc(nd, nd)
	var vol float64
	for _, ele := range o.Elems {
		e, ok := ele.(*ElemU)
		if !ok {
			continue
		}
		for idx, ip := range e.IpsElem {
			if err := e.Shp.CalcAtIp(e.X, ip, true); err != nil {
				continue
			}
			dv := e.Shp.J * ip.W()
			vol += dv
			for i := 0; i < nd; i++ {
				for j := 0; j < nd; j++ {
					P[i][j] += e.Ps[idx][i][j] * dv
				}
			}
		}
	}
	if vol > 0 {
		for i := 0; i < nd; i++ {
			for j := 0; j < nd; j++ {
				P[i][j] /= vol
			}
		}
	}
	return
}

// IpData collects the coordinates of and the values at all integration points
//  coords -- [nip_total][ndim]
//  fields -- key => [nip_total][ncomp]
func (o *Domain) IpData() (coords [][]float64, fields map[string][][]float64) {
	fields = make(map[string][][]float64)
	for _, e := range o.ElemIntvars {
		x := e.Ipoints()
		for key, vals := range e.IpValues() {
			if _, ok := fields[key]; !ok && len(coords) > 0 {
				continue // not available in previous elements
			}
			fields[key] = append(fields[key], vals...)
		}
		coords = append(coords, x...)
	}
	for key, vals := range fields {
		if len(vals) != len(coords) {
			delete(fields, key)
		}
	}
	return
}

// IntVars returns the converged internal variables of an integration point
//  Note: returns nil if not available
func (o *Domain) IntVars(cid, ip int) *msolid.State {
	if cid < 0 || cid >= len(o.Cid2elem) {
		return nil
	}
	e, ok := o.Cid2elem[cid].(*ElemU)
	if !ok || ip < 0 || ip >= len(e.States) {
		return nil
	}
	return e.States[ip]
}

// keyIndex returns the component index of a displacement key; -1 if invalid
func keyIndex(key string, ndim int) int {
	for i := 0; i < ndim; i++ {
		if ukeys[i] == key {
			return i
		}
	}
	return -1
}
