// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/require"
	"github.com/zhang9song/jax-fem/inp"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_vtu01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("vtu01")

	msh, err := inp.RectangleMesh(2, 1, 2, 1)
	require.NoError(tst, err)

	u := make([][]float64, len(msh.Verts))
	for i, v := range msh.Verts {
		u[i] = []float64{0.1 * v.C[0], -0.2 * v.C[1]}
	}
	fn := filepath.Join(tst.TempDir(), "rect.vtu")
	require.NoError(tst, WriteVtu(fn, msh, map[string][][]float64{"u": u}))

	b, err := os.ReadFile(fn)
	require.NoError(tst, err)
	txt := string(b)
	io.Pforan("%s\n", txt)
	require.Contains(tst, txt, `NumberOfPoints="6" NumberOfCells="2"`)
	require.Contains(tst, txt, `Name="u" NumberOfComponents="3"`)
	require.True(tst, strings.HasSuffix(txt, "</VTKFile>\n"))

	// wrong number of values
	err = WriteVtu(fn, msh, map[string][][]float64{"u": u[:2]})
	require.Error(tst, err)
}

func Test_vtu02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("vtu02")

	msh, err := inp.BoxMesh(1, 1, 1, 1, 1, 1)
	require.NoError(tst, err)
	fn := filepath.Join(tst.TempDir(), "sub", "box.vtu")
	require.NoError(tst, WriteVtu(fn, msh, nil))

	b, err := os.ReadFile(fn)
	require.NoError(tst, err)
	txt := string(b)
	require.Contains(tst, txt, `NumberOfPoints="8" NumberOfCells="1"`)
	require.Contains(tst, txt, "\n12 \n") // VTK_HEXAHEDRON
}

func Test_vtu03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("vtu03. integration points")

	coords := [][]float64{{0.2, 0.2}, {0.8, 0.2}, {0.5, 0.8}}
	fields := map[string][][]float64{
		"gam": {{0}, {0.1}, {0.2}},
		"P":   {{1, 0, 0, 1}, {2, 0, 0, 2}, {3, 0, 0, 3}},
	}
	fn := filepath.Join(tst.TempDir(), "ips.vtu")
	require.NoError(tst, WriteIpsVtu(fn, coords, fields))

	b, err := os.ReadFile(fn)
	require.NoError(tst, err)
	txt := string(b)
	io.Pforan("%s\n", txt)
	require.Contains(tst, txt, `NumberOfPoints="3" NumberOfCells="3"`)
	require.Contains(tst, txt, "\n1 1 1 \n") // VTK_VERTEX
	require.Contains(tst, txt, "\n1 2 3 \n") // offsets
	require.Contains(tst, txt, `Name="P" NumberOfComponents="4"`)
	require.Contains(tst, txt, `Name="gam" NumberOfComponents="1"`)
	require.Less(tst, strings.Index(txt, `Name="P"`), strings.Index(txt, `Name="gam"`))

	// wrong number of values
	fields["gam"] = fields["gam"][:1]
	require.Error(tst, WriteIpsVtu(fn, coords, fields))
}

func Test_plot01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("plot01")

	x := []float64{0, 0.1, 0.3, 0.2}
	y := []float64{0, 0.5, 0.8, 1.0}
	fn := filepath.Join(tst.TempDir(), "path.png")
	require.NoError(tst, PlotPath(fn, "path", "u", "λ", &PltEntity{"beam", x, y}))
	_, err := os.Stat(fn)
	require.NoError(tst, err)

	require.Error(tst, PlotPath(fn, "", "", ""))
	require.Error(tst, PlotPath(fn, "", "", "", &PltEntity{"bad", x, y[:2]}))
}
