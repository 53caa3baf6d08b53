// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/require"
	"github.com/zhang9song/jax-fem/inp"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// beamSim returns a clamped rectangle compressed by ux = λ·uright at x = lx,
// with a constant upwards traction q at the bottom face of the middle cell
func beamSim(tst *testing.T, nx, ny int, lx, ly, uright, q float64) *inp.Simulation {
	x0, xm, y0 := 0.0, lx, 0.0
	sim := new(inp.Simulation)
	sim.SetDefault()
	sim.Data.Encoder = "json"
	sim.Data.Monitor = &inp.Locator{X: &xm, Y: &y0}
	sim.Data.MonKey = "ux"
	sim.Mesh = inp.MeshData{Type: "qua4", N: []int{nx, ny}, L: []float64{lx, ly}}
	sim.Materials = []*inp.Material{{Name: "rubber", Model: "neo-hookean", Prms: dbf.Params{
		&dbf.P{N: "E", V: 1000},
		&dbf.P{N: "nu", V: 0.3},
	}}}
	sim.Elems = []*inp.ElemData{{Tag: -1, Mat: "rubber"}}
	h := lx / float64(nx)
	c := float64(nx/2) * h
	sim.Bcs.Locations = map[string]*inp.Locator{
		"left":   {X: &x0},
		"right":  {X: &xm},
		"middle": {Y: &y0, Xr: []float64{c - h - 1e-3, c + h + 1e-3}},
	}
	sim.Bcs.Essential = []*inp.EssentialBc{
		{Loc: "left", Key: "ux"},
		{Loc: "left", Key: "uy"},
		{Loc: "right", Key: "ux", Val: uright},
		{Loc: "right", Key: "uy"},
	}
	if q != 0 {
		sim.Bcs.Natural = []*inp.NaturalBc{{Loc: "middle", Tvec: []float64{0, q}, Cte: true}}
	}
	sim.Solver.Dl = 0.05
	sim.Key = "beam"
	sim.DirOut = tst.TempDir()
	require.NoError(tst, sim.PostProcess())
	return sim
}

func Test_domain01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("domain01. equations and boundary conditions")

	sim := beamSim(tst, 4, 1, 4, 1, -0.2, 1e-3)
	dom, err := NewDomain(sim)
	require.NoError(tst, err)

	chk.Int(tst, "ny", dom.Ny, 20)
	chk.Int(tst, "nelems", len(dom.Elems), 4)
	chk.Int(tst, "nessential", len(dom.EssenBcs), 8)
	chk.Ints(tst, "eqs of vertex 6", dom.Vid2eqs[6], []int{12, 13})
	chk.Int(tst, "monitored eq", dom.MonEq, 8)
	for i := 1; i < len(dom.EssenBcs); i++ {
		require.Less(tst, dom.EssenBcs[i-1].Eq, dom.EssenBcs[i].Eq)
	}

	// traction on the bottom of the middle cells
	nnat := 0
	for _, e := range dom.Elems {
		nnat += len(e.(*ElemU).NatBcs)
	}
	chk.Int(tst, "natural", nnat, 2)

	// residual at rest: only the constant traction acts
	u := make([]float64, dom.Ny)
	R := make([]float64, dom.Ny)
	require.NoError(tst, dom.Residual(R, u, 0))
	var fy float64
	for i := 1; i < dom.Ny; i += 2 {
		if !dom.Fixed[i] {
			fy -= R[i]
		}
	}
	chk.Float64(tst, "Σ fy", 1e-15, fy, 2e-3)

	// prescribed rows
	λ := 0.5
	require.NoError(tst, dom.Residual(R, u, λ))
	eq := dom.Vid2eqs[4][0]
	chk.Float64(tst, "R at right ux", 1e-15, R[eq], 0.1)
	q := make([]float64, dom.Ny)
	require.NoError(tst, dom.LoadVector(q, u))
	chk.Float64(tst, "q at right ux", 1e-15, q[eq], -0.2)
	for i := range q {
		if !dom.Fixed[i] {
			chk.Float64(tst, "q at free eq", 1e-15, q[i], 0)
		}
	}

	// unflatten
	u[eq] = -0.1
	sol := dom.Unflatten(u)
	chk.Array(tst, "u at vertex 4", 1e-15, sol[4], []float64{-0.1, 0})

	// unknown monitored key
	sim.Data.MonKey = "uz"
	_, err = NewDomain(sim)
	require.Error(tst, err)
}

func Test_domain02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("domain02. consistent tangent")

	sim := beamSim(tst, 3, 2, 3, 1, -0.3, 0.5)
	dom, err := NewDomain(sim)
	require.NoError(tst, err)

	// deformed state
	n := dom.Ny
	u := make([]float64, n)
	for i := range u {
		u[i] = 0.02 * math.Sin(float64(3*i+1))
	}
	λ := 0.7

	K, err := dom.Tangent(u)
	require.NoError(tst, err)
	r, c := K.Dims()
	chk.Int(tst, "nrow", r, n)
	chk.Int(tst, "ncol", c, n)

	jac := mat.NewDense(n, n, nil)
	fd.Jacobian(jac, func(y, x []float64) {
		if e := dom.Residual(y, x, λ); e != nil {
			tst.Fatalf("residual failed: %v", e)
		}
	}, u, &fd.JacobianSettings{Formula: fd.Central, Step: 1e-6})

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			chk.AnaNum(tst, io.Sf("K[%d][%d]", i, j), 1e-4, K.At(i, j), jac.At(i, j), chk.Verbose)
		}
	}

	// dR/dλ = -q
	q := make([]float64, n)
	require.NoError(tst, dom.LoadVector(q, u))
	R0 := make([]float64, n)
	R1 := make([]float64, n)
	require.NoError(tst, dom.Residual(R0, u, λ))
	require.NoError(tst, dom.Residual(R1, u, λ+1))
	for i := 0; i < n; i++ {
		chk.Float64(tst, "dR/dλ", 1e-10, R1[i]-R0[i], -q[i])
	}
}

func Test_domain03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("domain03. inverted element")

	sim := beamSim(tst, 2, 1, 2, 1, -0.1, 0)
	dom, err := NewDomain(sim)
	require.NoError(tst, err)

	u := make([]float64, dom.Ny)
	for _, v := range dom.Msh.Verts {
		u[dom.Vid2eqs[v.Id][0]] = -3 * v.C[0]
	}
	R := make([]float64, dom.Ny)
	require.Error(tst, dom.Residual(R, u, 0))
	_, err = dom.Tangent(u)
	require.Error(tst, err)
}

func Test_domain04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("domain04. integration point data")

	sim := beamSim(tst, 2, 1, 2, 1, -0.1, 0)
	dom, err := NewDomain(sim)
	require.NoError(tst, err)

	// uniform stretch along x
	u := make([]float64, dom.Ny)
	for _, v := range dom.Msh.Verts {
		u[dom.Vid2eqs[v.Id][0]] = 0.01 * v.C[0]
	}
	R := make([]float64, dom.Ny)
	require.NoError(tst, dom.Residual(R, u, 0))

	coords, fields := dom.IpData()
	chk.Int(tst, "nip", len(coords), 8)
	chk.Int(tst, "len(P)", len(fields["P"]), 8)
	chk.Int(tst, "len(gam)", len(fields["gam"]), 8)
	d := 0.5 / math.Sqrt(3)
	for i, x := range coords {
		io.Pforan("x = %v  P = %v\n", x, fields["P"][i])
		chk.Float64(tst, "x offset", 1e-14, math.Abs(x[0]-math.Floor(x[0])-0.5), d)
		chk.Float64(tst, "y offset", 1e-14, math.Abs(x[1]-0.5), d)
		chk.Int(tst, "ncomp(P)", len(fields["P"][i]), 4)
		chk.Array(tst, "P", 1e-10, fields["P"][i], fields["P"][0])
		chk.Array(tst, "gam", 1e-17, fields["gam"][i], []float64{0})
	}
	require.Greater(tst, fields["P"][0][0], 0.0)
}
