// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_state01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("state01")

	state0 := NewState(2)
	io.Pforan("state0 = %+v\n", state0)
	chk.Array(tst, "Fp0", 1e-17, state0.Fp[0], []float64{1, 0, 0})
	chk.Array(tst, "Fp2", 1e-17, state0.Fp[2], []float64{0, 0, 1})
	chk.Array(tst, "G", 1e-17, state0.G, []float64{0, 0})

	state0.Fp[0][1] = 0.1
	state0.S[2][2] = 100
	state0.G[1] = 60
	state0.Gam[0] = 0.01

	state1 := NewState(2)
	state1.Set(state0)
	chk.Array(tst, "Fp0", 1e-17, state1.Fp[0], []float64{1, 0.1, 0})
	chk.Array(tst, "S2", 1e-17, state1.S[2], []float64{0, 0, 100})
	chk.Array(tst, "G", 1e-17, state1.G, []float64{0, 60})

	state2 := state1.GetCopy()
	state1.G[1] = -1
	chk.Array(tst, "G", 1e-17, state2.G, []float64{0, 60})
	chk.Array(tst, "Gam", 1e-17, state2.Gam, []float64{0.01, 0})

	empty := NewState(0)
	empty.Set(NewState(0))
	chk.Int(tst, "len(G)", len(empty.GetCopy().G), 0)
}
