// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements output of FE results to VTU files and plots
package out

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/zhang9song/jax-fem/inp"
)

// VTK_VERTEX is the VTK code of a single-point cell
const VTK_VERTEX = 1

// WriteVtu writes an ASCII VTU (ParaView) file with the mesh and nodal fields
//  fields -- maps names to nodal values [nverts][ncomp]. Fields with 2
//            components are padded to 3 so they can be used to warp the mesh
func WriteVtu(fn string, msh *inp.Mesh, fields map[string][][]float64) (err error) {

	// check
	nv := len(msh.Verts)
	for key, vals := range fields {
		if len(vals) != nv {
			return chk.Err("field %q has %d values but mesh has %d vertices", key, len(vals), nv)
		}
	}

	// buffers
	var buf bytes.Buffer
	io.Ff(&buf, "<?xml version=\"1.0\"?>\n<VTKFile type=\"UnstructuredGrid\" version=\"0.1\" byte_order=\"LittleEndian\">\n<UnstructuredGrid>\n")
	io.Ff(&buf, "<Piece NumberOfPoints=\"%d\" NumberOfCells=\"%d\">\n", nv, len(msh.Cells))
	if err = topology(&buf, msh); err != nil {
		return
	}
	pdata_write(&buf, msh, fields)
	cdata_write(&buf, msh)
	io.Ff(&buf, "</Piece>\n</UnstructuredGrid>\n</VTKFile>\n")
	return save(fn, &buf)
}

// WriteIpsVtu writes an ASCII VTU file with one vertex cell per integration point
//  coords -- real coordinates of integration points [nip][ndim]
//  fields -- maps names to values at integration points [nip][ncomp]
func WriteIpsVtu(fn string, coords [][]float64, fields map[string][][]float64) (err error) {

	// check
	np := len(coords)
	for key, vals := range fields {
		if len(vals) != np {
			return chk.Err("field %q has %d values but there are %d integration points", key, len(vals), np)
		}
	}

	// points
	var buf bytes.Buffer
	io.Ff(&buf, "<?xml version=\"1.0\"?>\n<VTKFile type=\"UnstructuredGrid\" version=\"0.1\" byte_order=\"LittleEndian\">\n<UnstructuredGrid>\n")
	io.Ff(&buf, "<Piece NumberOfPoints=\"%d\" NumberOfCells=\"%d\">\n", np, np)
	io.Ff(&buf, "<Points>\n<DataArray type=\"Float64\" NumberOfComponents=\"3\" format=\"ascii\">\n")
	for _, x := range coords {
		var y [3]float64
		copy(y[:], x)
		io.Ff(&buf, "%23.15e %23.15e %23.15e ", y[0], y[1], y[2])
	}
	io.Ff(&buf, "\n</DataArray>\n</Points>\n")

	// vertex cells
	io.Ff(&buf, "<Cells>\n<DataArray type=\"Int32\" Name=\"connectivity\" format=\"ascii\">\n")
	for i := 0; i < np; i++ {
		io.Ff(&buf, "%d ", i)
	}
	io.Ff(&buf, "\n</DataArray>\n<DataArray type=\"Int32\" Name=\"offsets\" format=\"ascii\">\n")
	for i := 0; i < np; i++ {
		io.Ff(&buf, "%d ", i+1)
	}
	io.Ff(&buf, "\n</DataArray>\n<DataArray type=\"UInt8\" Name=\"types\" format=\"ascii\">\n")
	for i := 0; i < np; i++ {
		io.Ff(&buf, "%d ", VTK_VERTEX)
	}
	io.Ff(&buf, "\n</DataArray>\n</Cells>\n")

	// data
	io.Ff(&buf, "<PointData Scalars=\"TheScalars\">\n")
	darrays_write(&buf, fields)
	io.Ff(&buf, "</PointData>\n</Piece>\n</UnstructuredGrid>\n</VTKFile>\n")
	return save(fn, &buf)
}

// topology ////////////////////////////////////////////////////////////////////////////////////////

func topology(buf *bytes.Buffer, msh *inp.Mesh) (err error) {

	// coordinates
	io.Ff(buf, "<Points>\n<DataArray type=\"Float64\" NumberOfComponents=\"3\" format=\"ascii\">\n")
	for _, v := range msh.Verts {
		var z float64
		if msh.Ndim == 3 {
			z = v.C[2]
		}
		io.Ff(buf, "%23.15e %23.15e %23.15e ", v.C[0], v.C[1], z)
	}
	io.Ff(buf, "\n</DataArray>\n</Points>\n")

	// connectivities
	io.Ff(buf, "<Cells>\n<DataArray type=\"Int32\" Name=\"connectivity\" format=\"ascii\">\n")
	for _, c := range msh.Cells {
		for _, v := range c.Verts {
			io.Ff(buf, "%d ", v)
		}
	}

	// offsets
	io.Ff(buf, "\n</DataArray>\n<DataArray type=\"Int32\" Name=\"offsets\" format=\"ascii\">\n")
	var offset int
	for _, c := range msh.Cells {
		offset += len(c.Verts)
		io.Ff(buf, "%d ", offset)
	}

	// types
	io.Ff(buf, "\n</DataArray>\n<DataArray type=\"UInt8\" Name=\"types\" format=\"ascii\">\n")
	for _, c := range msh.Cells {
		if c.Shp == nil || c.Shp.VtkCode < 0 {
			return chk.Err("cannot handle cell type %q", c.Type)
		}
		io.Ff(buf, "%d ", c.Shp.VtkCode)
	}
	io.Ff(buf, "\n</DataArray>\n</Cells>\n")
	return
}

// points data /////////////////////////////////////////////////////////////////////////////////////

func pdata_write(buf *bytes.Buffer, msh *inp.Mesh, fields map[string][][]float64) {

	// open
	io.Ff(buf, "<PointData Scalars=\"TheScalars\">\n")

	// ids
	io.Ff(buf, "<DataArray type=\"Int32\" Name=\"nid\" NumberOfComponents=\"1\" format=\"ascii\">\n")
	for _, v := range msh.Verts {
		io.Ff(buf, "%d ", v.Id)
	}
	io.Ff(buf, "\n</DataArray>\n")

	// fields
	darrays_write(buf, fields)

	// close
	io.Ff(buf, "</PointData>\n")
}

// darrays_write writes fields in alphabetical order
func darrays_write(buf *bytes.Buffer, fields map[string][][]float64) {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		vals := fields[key]
		ncomp := 1
		if len(vals) > 0 {
			ncomp = len(vals[0])
		}
		nout := ncomp
		if ncomp == 2 {
			nout = 3
		}
		io.Ff(buf, "<DataArray type=\"Float64\" Name=\"%s\" NumberOfComponents=\"%d\" format=\"ascii\">\n", key, nout)
		for _, v := range vals {
			for i := 0; i < nout; i++ {
				var x float64
				if i < len(v) {
					x = v[i]
				}
				io.Ff(buf, "%23.15e ", x)
			}
		}
		io.Ff(buf, "\n</DataArray>\n")
	}
}

func cdata_write(buf *bytes.Buffer, msh *inp.Mesh) {

	// open
	io.Ff(buf, "<CellData Scalars=\"TheScalars\">\n")

	// ids
	io.Ff(buf, "<DataArray type=\"Int32\" Name=\"eid\" NumberOfComponents=\"1\" format=\"ascii\">\n")
	for _, c := range msh.Cells {
		io.Ff(buf, "%d ", c.Id)
	}

	// cells positive tags
	io.Ff(buf, "\n</DataArray>\n<DataArray type=\"Int32\" Name=\"tag\" NumberOfComponents=\"1\" format=\"ascii\">\n")
	for _, c := range msh.Cells {
		io.Ff(buf, "%d ", iabs(c.Tag))
	}

	// close
	io.Ff(buf, "\n</DataArray>\n</CellData>\n")
}

// save writes buf to fn creating the directory if needed
func save(fn string, buf *bytes.Buffer) (err error) {
	if dir := filepath.Dir(fn); dir != "" {
		if err = os.MkdirAll(dir, 0777); err != nil {
			return chk.Err("cannot create directory %q:\n%v", dir, err)
		}
	}
	if err = os.WriteFile(fn, buf.Bytes(), 0644); err != nil {
		return chk.Err("cannot write file %q:\n%v", fn, err)
	}
	return
}

func iabs(val int) int {
	if val < 0 {
		return -val
	}
	return val
}
