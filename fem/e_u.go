// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
	"github.com/james-bowman/sparse"
	"github.com/zhang9song/jax-fem/inp"
	"github.com/zhang9song/jax-fem/msolid"
	"github.com/zhang9song/jax-fem/shp"
)

// ElemU represents a solid element with displacements u as primary variables.
// The formulation is total Lagrangian:
//
//  F = I + Σ_m u_m ⊗ G_m          with  G_m = dN_m/dX
//  fint_mi = ∫ P_iJ · G_mJ dV
//  K_mi,nk = ∫ G_mJ · A_iJkL · G_nL dV
//
// Tractions are dead loads given per unit area of the reference configuration.
type ElemU struct {

	// basic data
	Cell *inp.Cell   // the cell structure
	X    [][]float64 // matrix of nodal coordinates [ndim][nnode]
	Shp  *shp.Shape  // shape structure
	Nu   int         // total number of unknowns
	Ndim int         // space dimension

	// integration points
	IpsElem []shp.Ipoint // integration points of element
	IpsFace []shp.Ipoint // integration points corresponding to faces

	// material model and internal variables
	Model     msolid.Model    // material model
	States    []*msolid.State // [nip] converged states
	StatesNew []*msolid.State // [nip] trial states
	Ps        [][][]float64   // [nip][ndim][ndim] stresses at the last residual evaluation

	// problem variables
	Umap []int // assembly map (location array/element equations)

	// natural boundary conditions
	NatBcs []*NaturalBc

	// scratchpad. computed @ each ip
	F [][]float64     // [ndim][ndim] deformation gradient
	A [][][][]float64 // [ndim][ndim][ndim][ndim] dP/dF
	K [][]float64     // [nu][nu] consistent tangent (stiffness) matrix
}

// NewElemU allocates a new solid element
//  nip -- number of integration points per direction; 0 => 2
func NewElemU(cell *inp.Cell, x [][]float64, mat *inp.Material, nip int) (o *ElemU, err error) {

	// basic data
	o = new(ElemU)
	o.Cell = cell
	o.X = x
	o.Shp = shp.Get(cell.Type)
	if o.Shp == nil {
		return nil, chk.Err("cannot find shape %q", cell.Type)
	}
	o.Ndim = len(x)
	o.Nu = o.Ndim * o.Shp.Nverts

	// integration points
	if nip == 0 {
		nip = 2
	}
	o.IpsElem, o.IpsFace, err = shp.GetIps(cell.Type, nip)
	if err != nil {
		return nil, err
	}
	nips := len(o.IpsElem)

	// model
	o.Model, err = msolid.New(mat.Model)
	if err != nil {
		return nil, err
	}
	if err = o.Model.Init(o.Ndim, mat.Prms); err != nil {
		return nil, chk.Err("cannot initialise model of material %q:\n%v", mat.Name, err)
	}

	// internal variables
	o.States = make([]*msolid.State, nips)
	o.StatesNew = make([]*msolid.State, nips)
	o.Ps = make([][][]float64, nips)
	for idx := 0; idx < nips; idx++ {
		if o.States[idx], err = o.Model.InitIntVars(); err != nil {
			return nil, err
		}
		o.StatesNew[idx] = o.States[idx].GetCopy()
		o.Ps[idx] = utl.Alloc(o.Ndim, o.Ndim)
	}

	// scratchpad
	o.F = utl.Alloc(o.Ndim, o.Ndim)
	o.A = msolid.Alloc4(o.Ndim)
	o.K = utl.Alloc(o.Nu, o.Nu)
	return
}

// implementation ///////////////////////////////////////////////////////////////////////////////////

// Id returns the cell Id
func (o ElemU) Id() int { return o.Cell.Id }

// SetEqs set equations
func (o *ElemU) SetEqs(eqs [][]int) (err error) {
	if len(eqs) != o.Shp.Nverts {
		return chk.Err("element %d requires equations for %d vertices", o.Id(), o.Shp.Nverts)
	}
	o.Umap = make([]int, o.Nu)
	for m := 0; m < o.Shp.Nverts; m++ {
		if len(eqs[m]) != o.Ndim {
			return chk.Err("element %d requires %d equations per vertex", o.Id(), o.Ndim)
		}
		for i := 0; i < o.Ndim; i++ {
			o.Umap[i+m*o.Ndim] = eqs[m][i]
		}
	}
	return
}

// AddNatBc adds a traction on face fid
func (o *ElemU) AddNatBc(fid int, tvec []float64, cte bool) {
	o.NatBcs = append(o.NatBcs, &NaturalBc{fid, tvec, cte})
}

// AddToRes adds element residual to global R. Trial internal variables are
// recomputed from the converged ones.
func (o *ElemU) AddToRes(R, u []float64, λ, dt float64) (err error) {

	// internal forces
	nverts := o.Shp.Nverts
	for idx, ip := range o.IpsElem {

		// deformation gradient and stress
		if err = o.ipvars(ip, u); err != nil {
			return
		}
		P := o.Ps[idx]
		err = o.Model.StressTangent(P, nil, o.F, o.States[idx], o.StatesNew[idx], dt)
		if err != nil {
			return chk.Err("element %d: stress update failed at ip %d:\n%v", o.Id(), idx, err)
		}

		// add to R
		coef := o.Shp.J * ip.W()
		G := o.Shp.G
		for m := 0; m < nverts; m++ {
			for i := 0; i < o.Ndim; i++ {
				r := o.Umap[i+m*o.Ndim]
				for j := 0; j < o.Ndim; j++ {
					R[r] += coef * P[i][j] * G[m][j]
				}
			}
		}
	}

	// external forces
	return o.add_surfloads(R, λ, false)
}

// AddToLoad adds -dR/dλ to global q
func (o *ElemU) AddToLoad(q []float64) (err error) {
	return o.add_surfloads(q, 1, true)
}

// AddToKb adds element K to global Jacobian matrix Kb
func (o *ElemU) AddToKb(Kb *sparse.DOK, u []float64, dt float64, fixed []bool) (err error) {

	// zero K matrix
	for i := range o.K {
		for j := range o.K[i] {
			o.K[i][j] = 0
		}
	}

	// for each integration point
	nverts := o.Shp.Nverts
	nd := o.Ndim
	for idx, ip := range o.IpsElem {

		// deformation gradient and consistent tangent
		if err = o.ipvars(ip, u); err != nil {
			return
		}
		err = o.Model.StressTangent(o.Ps[idx], o.A, o.F, o.States[idx], o.StatesNew[idx], dt)
		if err != nil {
			return chk.Err("element %d: tangent failed at ip %d:\n%v", o.Id(), idx, err)
		}

		// add to K
		coef := o.Shp.J * ip.W()
		G := o.Shp.G
		for m := 0; m < nverts; m++ {
			for i := 0; i < nd; i++ {
				r := i + m*nd
				for n := 0; n < nverts; n++ {
					for k := 0; k < nd; k++ {
						c := k + n*nd
						var sum float64
						for J := 0; J < nd; J++ {
							for L := 0; L < nd; L++ {
								sum += G[m][J] * o.A[i][J][k][L] * G[n][L]
							}
						}
						o.K[r][c] += coef * sum
					}
				}
			}
		}
	}

	// add K to sparse matrix Kb
	for i, I := range o.Umap {
		if fixed[I] {
			continue
		}
		for j, J := range o.Umap {
			if o.K[i][j] != 0 {
				Kb.Set(I, J, Kb.At(I, J)+o.K[i][j])
			}
		}
	}
	return
}

// Ipoints returns the real coordinates of integration points [nip][ndim]
func (o ElemU) Ipoints() (coords [][]float64) {
	coords = make([][]float64, len(o.IpsElem))
	for idx, ip := range o.IpsElem {
		coords[idx] = o.Shp.IpRealCoords(o.X, ip)
	}
	return
}

// IpValues returns the stresses (P, row-major) and the accumulated slips (gam)
// at integration points
func (o ElemU) IpValues() (vals map[string][][]float64) {
	nip := len(o.IpsElem)
	vals = map[string][][]float64{
		"P":   make([][]float64, nip),
		"gam": make([][]float64, nip),
	}
	for idx := 0; idx < nip; idx++ {
		p := make([]float64, 0, o.Ndim*o.Ndim)
		for i := 0; i < o.Ndim; i++ {
			p = append(p, o.Ps[idx][i]...)
		}
		var gam float64
		for _, g := range o.States[idx].Gam {
			gam += g
		}
		vals["P"][idx] = p
		vals["gam"][idx] = []float64{gam}
	}
	return
}

// Commit accepts the trial internal variables
func (o *ElemU) Commit() {
	for idx, s := range o.StatesNew {
		o.States[idx].Set(s)
	}
}

// auxiliary ////////////////////////////////////////////////////////////////////////////////////////

// ipvars computes shape functions and the deformation gradient at ip
func (o *ElemU) ipvars(ip shp.Ipoint, u []float64) (err error) {
	if err = o.Shp.CalcAtIp(o.X, ip, true); err != nil {
		return chk.Err("element %d: cannot compute shape functions:\n%v", o.Id(), err)
	}
	if o.Shp.J <= 0 {
		return chk.Err("element %d: Jacobian = %g must be positive", o.Id(), o.Shp.J)
	}
	G := o.Shp.G
	for i := 0; i < o.Ndim; i++ {
		for j := 0; j < o.Ndim; j++ {
			o.F[i][j] = 0
			if i == j {
				o.F[i][j] = 1
			}
			for m := 0; m < o.Shp.Nverts; m++ {
				o.F[i][j] += u[o.Umap[i+m*o.Ndim]] * G[m][j]
			}
		}
	}
	return
}

// add_surfloads subtracts fac·fext from R, or adds the λ-scaled tractions to
// q if load is true
func (o *ElemU) add_surfloads(R []float64, fac float64, load bool) (err error) {
	for _, nbc := range o.NatBcs {
		if load && nbc.Cte {
			continue
		}
		c := fac
		if nbc.Cte {
			c = 1
		}
		if load {
			c = -1
		}
		for _, ipf := range o.IpsFace {
			if err = o.Shp.CalcAtFaceIp(o.X, ipf, nbc.Fid); err != nil {
				return
			}
			dA := 0.0
			for _, v := range o.Shp.Fnvec {
				dA += v * v
			}
			coef := math.Sqrt(dA) * ipf.W()
			for j, m := range o.Shp.FaceLocalVerts[nbc.Fid] {
				for i := 0; i < o.Ndim; i++ {
					r := o.Umap[i+m*o.Ndim]
					R[r] -= c * coef * o.Shp.Sf[j] * nbc.Tvec[i]
				}
			}
		}
	}
	return
}
