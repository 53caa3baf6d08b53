// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"bytes"
	"os"

	"github.com/cpmech/gosl/chk"
)

// Summary records the accepted steps of a simulation
type Summary struct {

	// accepted steps
	Lams   []float64 // [nsteps] load parameter λ
	Dls    []float64 // [nsteps] arc-length Δl (or load increment with the Newton solver)
	Iters  []int     // [nsteps] number of corrections
	Rnorms []float64 // [nsteps] final residual norms
	Umon   []float64 // [nsteps] monitored displacement; empty if no monitor is set
	Smon   []float64 // [nsteps] average stress component P[ndim-1][ndim-1]

	// rejected attempts
	Nfail int // number of failed attempts that were retried

	// output files
	OutIdx []int // [nout] step index of each output file

	// where results are stored
	Dirout string // directory where results are stored
	Fnkey  string // filename key of simulation
}

// Add records an accepted step
func (o *Summary) Add(λ, dl float64, iters int, rnorm float64) {
	o.Lams = append(o.Lams, λ)
	o.Dls = append(o.Dls, dl)
	o.Iters = append(o.Iters, iters)
	o.Rnorms = append(o.Rnorms, rnorm)
}

// Nsteps returns the number of accepted steps
func (o Summary) Nsteps() int { return len(o.Lams) }

// Save saves summary to disc
func (o Summary) Save(dirout, fnkey, enctype string) (err error) {

	// set flags before saving
	o.Dirout = dirout
	o.Fnkey = fnkey

	// buffer and encoder
	var buf bytes.Buffer
	enc := GetEncoder(&buf, enctype)

	// encode summary
	if err = enc.Encode(o); err != nil {
		return chk.Err("cannot encode summary:\n%v", err)
	}

	// save file
	return save_file(out_sum_path(dirout, fnkey, enctype), &buf)
}

// ReadSum reads summary back
func ReadSum(dir, fnkey, enctype string) (o *Summary, err error) {

	// open file
	fil, err := os.Open(out_sum_path(dir, fnkey, enctype))
	if err != nil {
		return nil, chk.Err("cannot open summary file:\n%v", err)
	}
	defer fil.Close()

	// decode summary
	o = new(Summary)
	if err = GetDecoder(fil, enctype).Decode(o); err != nil {
		return nil, chk.Err("cannot decode summary:\n%v", err)
	}
	return
}
