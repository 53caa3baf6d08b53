// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	goio "io"
	"os"
	"path"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Encoder defines encoders; e.g. gob or json
type Encoder interface {
	Encode(e interface{}) error
}

// Decoder defines decoders; e.g. gob or json
type Decoder interface {
	Decode(e interface{}) error
}

// GetEncoder returns a new encoder
func GetEncoder(w goio.Writer, enctype string) Encoder {
	if enctype == "json" {
		return json.NewEncoder(w)
	}
	return gob.NewEncoder(w)
}

// GetDecoder returns a new decoder
func GetDecoder(r goio.Reader, enctype string) Decoder {
	if enctype == "json" {
		return json.NewDecoder(r)
	}
	return gob.NewDecoder(r)
}

// SaveSol saves the state (u, λ) to a file which name is set with tidx (output index)
func (o *FEM) SaveSol(tidx int) (err error) {

	// buffer and encoder
	var buf bytes.Buffer
	enc := GetEncoder(&buf, o.Sim.EncType)

	// encode state
	if err = enc.Encode(o.Lam); err != nil {
		return chk.Err("cannot encode λ\n%v", err)
	}
	if err = enc.Encode(o.U); err != nil {
		return chk.Err("cannot encode u\n%v", err)
	}

	// save file
	fn := out_sol_path(o.Sim.DirOut, o.Sim.Key, o.Sim.EncType, tidx)
	return save_file(fn, &buf)
}

// ReadSol reads the state (u, λ) from a file which name is set with tidx (output index)
func ReadSol(dir, fnkey, enctype string, tidx int) (u []float64, λ float64, err error) {

	// open file
	fn := out_sol_path(dir, fnkey, enctype, tidx)
	fil, err := os.Open(fn)
	if err != nil {
		return
	}
	defer fil.Close()

	// decode state
	dec := GetDecoder(fil, enctype)
	if err = dec.Decode(&λ); err != nil {
		return nil, 0, chk.Err("cannot decode λ\n%v", err)
	}
	if err = dec.Decode(&u); err != nil {
		return nil, 0, chk.Err("cannot decode u\n%v", err)
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

func out_sol_path(dir, fnkey, enctype string, tidx int) string {
	return path.Join(dir, io.Sf("%s_sol_%010d.%s", fnkey, tidx, enctype))
}

func out_sum_path(dir, fnkey, enctype string) string {
	return path.Join(dir, io.Sf("%s_sum.%s", fnkey, enctype))
}

func out_vtu_path(dir, fnkey string, tidx int) string {
	return path.Join(dir, io.Sf("%s_%06d.vtu", fnkey, tidx))
}

func out_ips_path(dir, fnkey string, tidx int) string {
	return path.Join(dir, io.Sf("%s_ips_%06d.vtu", fnkey, tidx))
}

func save_file(filename string, buf *bytes.Buffer) (err error) {
	fil, err := os.Create(filename)
	if err != nil {
		return chk.Err("cannot create file %q:\n%v", filename, err)
	}
	defer fil.Close()
	if _, err = fil.Write(buf.Bytes()); err != nil {
		return chk.Err("cannot write file %q:\n%v", filename, err)
	}
	return
}
