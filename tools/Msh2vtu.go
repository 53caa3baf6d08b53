// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// +build ignore

package main

import (
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/io"
	"github.com/zhang9song/jax-fem/inp"
	"github.com/zhang9song/jax-fem/out"
)

// converts a mesh file or the mesh of a simulation file to a VTU file
//  usage: go run Msh2vtu.go file.msh|file.sim|file.yaml [dirout]
func main() {

	// input data
	if len(os.Args) < 2 {
		io.PfRed("usage: go run Msh2vtu.go file.msh|file.sim|file.yaml [dirout]\n")
		return
	}
	fn := os.Args[1]
	dirout := "/tmp/jax-fem"
	if len(os.Args) > 2 {
		dirout = os.Args[2]
	}

	// read mesh
	var msh *inp.Mesh
	var err error
	switch filepath.Ext(fn) {
	case ".sim", ".yaml", ".yml":
		var sim *inp.Simulation
		sim, err = inp.ReadSim(fn, false)
		if err == nil {
			msh = sim.Msh
		}
	default:
		msh, err = inp.ReadMsh(filepath.Dir(fn), filepath.Base(fn))
	}
	if err != nil {
		io.PfRed("cannot read mesh:\n%v\n", err)
		return
	}

	// write vtu file
	vtu := filepath.Join(dirout, io.FnKey(filepath.Base(fn))+".vtu")
	if err = out.WriteVtu(vtu, msh, nil); err != nil {
		io.PfRed("cannot write vtu file:\n%v\n", err)
		return
	}
	io.Pf("nverts = %d  ncells = %d  file <%s> written\n", len(msh.Verts), len(msh.Cells), vtu)
}
