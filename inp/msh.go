// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
	"github.com/zhang9song/jax-fem/shp"
)

// constants
const Ztol = 1e-7

// Vert holds vertex data
type Vert struct {
	Id  int       `json:"id"`  // id
	Tag int       `json:"tag"` // tag
	C   []float64 `json:"c"`   // coordinates (size==2 or 3)
}

// Cell holds cell data
type Cell struct {

	// input data
	Id    int    `json:"id"`    // id
	Tag   int    `json:"tag"`   // tag
	Type  string `json:"type"`  // geometry type; e.g. "qua4"
	Verts []int  `json:"verts"` // vertices

	// derived
	Shp *shp.Shape `json:"-"` // shape structure
}

// CellFaceId structure
type CellFaceId struct {
	C   *Cell // cell
	Fid int   // face id
}

// Mesh holds a mesh for FE analyses
type Mesh struct {

	// from JSON
	Verts []*Vert `json:"verts"` // vertices
	Cells []*Cell `json:"cells"` // cells

	// derived
	FnamePath  string  // complete filename path; empty if generated
	Ndim       int     // space dimension
	Xmin, Xmax float64 // min and max x-coordinate
	Ymin, Ymax float64 // min and max y-coordinate
	Zmin, Zmax float64 // min and max z-coordinate

	// derived: maps
	VertTag2verts map[int][]*Vert // vertex tag => set of vertices
	CellTag2cells map[int][]*Cell // cell tag => set of cells
}

// ReadMsh reads a mesh for FE analyses from a JSON file
func ReadMsh(dir, fn string) (o *Mesh, err error) {
	o = new(Mesh)
	o.FnamePath = filepath.Join(dir, fn)
	b, err := os.ReadFile(o.FnamePath)
	if err != nil {
		return nil, chk.Err("cannot read mesh file %q:\n%v", o.FnamePath, err)
	}
	if err = json.Unmarshal(b, o); err != nil {
		return nil, chk.Err("cannot unmarshal mesh file %q:\n%v", o.FnamePath, err)
	}
	if err = o.init(); err != nil {
		return nil, chk.Err("mesh file %q is invalid:\n%v", o.FnamePath, err)
	}
	return
}

// RectangleMesh generates a structured mesh of qua4 cells over [0,lx]×[0,ly].
// Vertices are numbered row by row starting at the origin.
func RectangleMesh(nx, ny int, lx, ly float64) (o *Mesh, err error) {
	if nx < 1 || ny < 1 || lx <= 0 || ly <= 0 {
		return nil, chk.Err("rectangle mesh: nx=%d, ny=%d, lx=%g and ly=%g are invalid", nx, ny, lx, ly)
	}
	o = new(Mesh)
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			x := lx * float64(i) / float64(nx)
			y := ly * float64(j) / float64(ny)
			o.Verts = append(o.Verts, &Vert{Id: len(o.Verts), C: []float64{x, y}})
		}
	}
	id := func(i, j int) int { return j*(nx+1) + i }
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			o.Cells = append(o.Cells, &Cell{
				Id:    len(o.Cells),
				Tag:   -1,
				Type:  "qua4",
				Verts: []int{id(i, j), id(i+1, j), id(i+1, j+1), id(i, j+1)},
			})
		}
	}
	err = o.init()
	return
}

// BoxMesh generates a structured mesh of hex8 cells over [0,lx]×[0,ly]×[0,lz].
// Vertices are numbered layer by layer starting at the origin.
func BoxMesh(nx, ny, nz int, lx, ly, lz float64) (o *Mesh, err error) {
	if nx < 1 || ny < 1 || nz < 1 || lx <= 0 || ly <= 0 || lz <= 0 {
		return nil, chk.Err("box mesh: n=(%d,%d,%d) and l=(%g,%g,%g) are invalid", nx, ny, nz, lx, ly, lz)
	}
	o = new(Mesh)
	for k := 0; k <= nz; k++ {
		for j := 0; j <= ny; j++ {
			for i := 0; i <= nx; i++ {
				x := lx * float64(i) / float64(nx)
				y := ly * float64(j) / float64(ny)
				z := lz * float64(k) / float64(nz)
				o.Verts = append(o.Verts, &Vert{Id: len(o.Verts), C: []float64{x, y, z}})
			}
		}
	}
	id := func(i, j, k int) int { return k*(ny+1)*(nx+1) + j*(nx+1) + i }
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				o.Cells = append(o.Cells, &Cell{
					Id:   len(o.Cells),
					Tag:  -1,
					Type: "hex8",
					Verts: []int{
						id(i, j, k), id(i+1, j, k), id(i+1, j+1, k), id(i, j+1, k),
						id(i, j, k+1), id(i+1, j, k+1), id(i+1, j+1, k+1), id(i, j+1, k+1),
					},
				})
			}
		}
	}
	err = o.init()
	return
}

// init checks data and computes derived quantities
func (o *Mesh) init() (err error) {

	// check
	if len(o.Verts) < 2 {
		return chk.Err("at least 2 vertices are required")
	}
	if len(o.Cells) < 1 {
		return chk.Err("at least 1 cell is required")
	}

	// vertex related derived data
	o.Ndim = 2
	o.Xmin = o.Verts[0].C[0]
	o.Ymin = o.Verts[0].C[1]
	if len(o.Verts[0].C) > 2 {
		o.Zmin = o.Verts[0].C[2]
	}
	o.Xmax = o.Xmin
	o.Ymax = o.Ymin
	o.Zmax = o.Zmin
	o.VertTag2verts = make(map[int][]*Vert)
	for i, v := range o.Verts {

		// check vertex id
		if v.Id != i {
			return chk.Err("vertex ids must be sequential. %d != %d", v.Id, i)
		}

		// ndim
		nd := len(v.C)
		if nd < 2 || nd > 3 {
			return chk.Err("vertex %d has %d coordinates", v.Id, nd)
		}
		if nd == 3 {
			o.Ndim = 3
		}

		// tags
		if v.Tag < 0 {
			o.VertTag2verts[v.Tag] = append(o.VertTag2verts[v.Tag], v)
		}

		// limits
		o.Xmin = utl.Min(o.Xmin, v.C[0])
		o.Xmax = utl.Max(o.Xmax, v.C[0])
		o.Ymin = utl.Min(o.Ymin, v.C[1])
		o.Ymax = utl.Max(o.Ymax, v.C[1])
		if nd > 2 {
			o.Zmin = utl.Min(o.Zmin, v.C[2])
			o.Zmax = utl.Max(o.Zmax, v.C[2])
		}
	}

	// cells
	o.CellTag2cells = make(map[int][]*Cell)
	for i, c := range o.Cells {
		if c.Id != i {
			return chk.Err("cell ids must be sequential. %d != %d", c.Id, i)
		}
		if c.Tag >= 0 {
			return chk.Err("cell tags must be negative. cell %d has tag %d", c.Id, c.Tag)
		}
		c.Shp = shp.Get(c.Type)
		if c.Shp == nil {
			return chk.Err("cannot find shape type %q for cell %d", c.Type, c.Id)
		}
		if c.Shp.Gndim != o.Ndim {
			return chk.Err("cell %d of type %q is incompatible with ndim = %d", c.Id, c.Type, o.Ndim)
		}
		if len(c.Verts) != c.Shp.Nverts {
			return chk.Err("cell %d of type %q requires %d vertices", c.Id, c.Type, c.Shp.Nverts)
		}
		for _, v := range c.Verts {
			if v < 0 || v >= len(o.Verts) {
				return chk.Err("cell %d references vertex %d out of range", c.Id, v)
			}
		}
		o.CellTag2cells[c.Tag] = append(o.CellTag2cells[c.Tag], c)
	}
	return
}

// CellCoords returns the coordinates of the vertices of a cell [ndim][nverts]
func (o *Mesh) CellCoords(c *Cell) (x [][]float64) {
	x = utl.Alloc(o.Ndim, len(c.Verts))
	for j, v := range c.Verts {
		for i := 0; i < o.Ndim; i++ {
			x[i][j] = o.Verts[v].C[i]
		}
	}
	return
}

// FindVerts returns the vertices matching loc
func (o *Mesh) FindVerts(loc *Locator) (verts []*Vert) {
	for _, v := range o.Verts {
		if loc.Match(v.C) {
			verts = append(verts, v)
		}
	}
	return
}

// FindFaces returns the boundary faces whose vertices all match loc
func (o *Mesh) FindFaces(loc *Locator) (faces []CellFaceId) {

	// count faces to detect the boundary ones
	key := func(c *Cell, f int) string {
		lverts := c.Shp.FaceLocalVerts[f]
		ids := make([]int, len(lverts))
		for i, l := range lverts {
			ids[i] = c.Verts[l]
		}
		sort.Ints(ids)
		return io.Sf("%v", ids)
	}
	count := make(map[string]int)
	for _, c := range o.Cells {
		for f := range c.Shp.FaceLocalVerts {
			count[key(c, f)]++
		}
	}

	// select faces
	for _, c := range o.Cells {
		for f, lverts := range c.Shp.FaceLocalVerts {
			if count[key(c, f)] != 1 {
				continue
			}
			ok := true
			for _, l := range lverts {
				if !loc.Match(o.Verts[c.Verts[l]].C) {
					ok = false
					break
				}
			}
			if ok {
				faces = append(faces, CellFaceId{c, f})
			}
		}
	}
	return
}

// Locator selects points by their coordinates. All given conditions must hold:
//
//  X, Y, Z    : coordinate equals value (within Ztol)
//  Xr, Yr, Zr : coordinate lies strictly within the open interval (min, max)
//
type Locator struct {
	X  *float64  `json:"x,omitempty" yaml:"x,omitempty"`
	Y  *float64  `json:"y,omitempty" yaml:"y,omitempty"`
	Z  *float64  `json:"z,omitempty" yaml:"z,omitempty"`
	Xr []float64 `json:"xr,omitempty" yaml:"xr,omitempty"`
	Yr []float64 `json:"yr,omitempty" yaml:"yr,omitempty"`
	Zr []float64 `json:"zr,omitempty" yaml:"zr,omitempty"`
}

// Check validates the locator
func (o *Locator) Check() error {
	if o.X == nil && o.Y == nil && o.Z == nil && o.Xr == nil && o.Yr == nil && o.Zr == nil {
		return chk.Err("locator has no conditions")
	}
	for _, r := range [][]float64{o.Xr, o.Yr, o.Zr} {
		if r != nil && (len(r) != 2 || r[0] >= r[1]) {
			return chk.Err("locator range %v is invalid; [min, max] with min < max is required", r)
		}
	}
	return nil
}

// Match tells whether the point x satisfies all conditions
func (o *Locator) Match(x []float64) bool {
	eq := []*float64{o.X, o.Y, o.Z}
	rg := [][]float64{o.Xr, o.Yr, o.Zr}
	for i := 0; i < 3; i++ {
		if eq[i] == nil && rg[i] == nil {
			continue
		}
		if i >= len(x) {
			return false
		}
		if eq[i] != nil && math.Abs(x[i]-*eq[i]) > Ztol {
			return false
		}
		if rg[i] != nil && (x[i] <= rg[i][0] || x[i] >= rg[i][1]) {
			return false
		}
	}
	return true
}

// String returns a JSON representation of *Vert
func (o *Vert) String() string {
	l := io.Sf("{\"id\":%4d, \"tag\":%6d, \"c\":[", o.Id, o.Tag)
	for i, x := range o.C {
		if i > 0 {
			l += ", "
		}
		l += io.Sf("%23.15e", x)
	}
	l += "] }"
	return l
}

// String returns a JSON representation of *Cell
func (o *Cell) String() string {
	l := io.Sf("{\"id\":%d, \"tag\":%d, \"type\":%q, \"verts\":[", o.Id, o.Tag, o.Type)
	for i, x := range o.Verts {
		if i > 0 {
			l += ", "
		}
		l += io.Sf("%d", x)
	}
	l += "] }"
	return l
}

// String returns a JSON representation of *Mesh
func (o Mesh) String() string {
	l := "{\n  \"verts\" : [\n"
	for i, x := range o.Verts {
		if i > 0 {
			l += ",\n"
		}
		l += io.Sf("    %v", x)
	}
	l += "\n  ],\n  \"cells\" : [\n"
	for i, x := range o.Cells {
		if i > 0 {
			l += ",\n"
		}
		l += io.Sf("    %v", x)
	}
	l += "\n  ]\n}"
	return l
}
