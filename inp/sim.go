// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.sim) JSON or (.yaml) file
package inp

import (
	"encoding/json"
	goio "io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"gopkg.in/yaml.v3"
)

// Data holds global data for simulations
type Data struct {
	Desc     string   `json:"desc" yaml:"desc"`         // description of simulation
	DirOut   string   `json:"dirout" yaml:"dirout"`     // directory for output; e.g. /tmp/jax-fem
	Encoder  string   `json:"encoder" yaml:"encoder"`   // encoder name; e.g. "gob" "json"
	OutEvery int      `json:"outevery" yaml:"outevery"` // write vtu files every OutEvery accepted steps; 0 => never
	Monitor  *Locator `json:"monitor" yaml:"monitor"`   // vertex whose displacement is recorded in the summary
	MonKey   string   `json:"monkey" yaml:"monkey"`     // monitored displacement component; e.g. "uy"
}

// MeshData defines the mesh: either a structured grid or a JSON mesh file
type MeshData struct {
	Type string    `json:"type" yaml:"type"` // "qua4" or "hex8" for structured meshes
	N    []int     `json:"n" yaml:"n"`       // number of divisions along each direction
	L    []float64 `json:"l" yaml:"l"`       // lengths along each direction
	File string    `json:"file" yaml:"file"` // mesh file; overrides the structured mesh if given
}

// Material holds material data
type Material struct {
	Name  string     `json:"name" yaml:"name"`   // name of material
	Model string     `json:"model" yaml:"model"` // name of constitutive model; e.g. "neo-hookean"
	Prms  dbf.Params `json:"prms" yaml:"prms"`   // parameters
}

// ElemData holds element data
type ElemData struct {
	Tag int    `json:"tag" yaml:"tag"` // tag of cells
	Mat string `json:"mat" yaml:"mat"` // material name
	Nip int    `json:"nip" yaml:"nip"` // number of integration points; 0 => use default
}

// EssentialBc prescribes one displacement component at the vertices of a location
//  u_key = λ·Val  or  u_key = Val if Cte
type EssentialBc struct {
	Loc string  `json:"loc" yaml:"loc"` // location name
	Key string  `json:"key" yaml:"key"` // "ux", "uy" or "uz"
	Val float64 `json:"val" yaml:"val"` // value at λ = 1
	Cte bool    `json:"cte" yaml:"cte"` // value does not depend on λ
}

// NaturalBc applies a traction on the boundary faces of a location
//  t = λ·Tvec  or  t = Tvec if Cte
type NaturalBc struct {
	Loc  string    `json:"loc" yaml:"loc"`   // location name
	Tvec []float64 `json:"tvec" yaml:"tvec"` // traction vector per unit area in the reference configuration
	Cte  bool      `json:"cte" yaml:"cte"`   // traction does not depend on λ; e.g. an imperfection
}

// BcsData holds boundary conditions
type BcsData struct {
	Locations map[string]*Locator `json:"locations" yaml:"locations"` // named locations
	Essential []*EssentialBc      `json:"essential" yaml:"essential"` // prescribed displacements
	Natural   []*NaturalBc        `json:"natural" yaml:"natural"`     // tractions
}

// LinSolData holds data for linear solvers
type LinSolData struct {
	Name   string  `json:"name" yaml:"name"`     // "lu", "chol" or "cg"
	Tol    float64 `json:"tol" yaml:"tol"`       // tolerance for iterative solvers
	MaxItF int     `json:"maxitf" yaml:"maxitf"` // max number of iterations = MaxItF·ndof for iterative solvers
}

// SolverData holds FEM solver data
type SolverData struct {

	// nonlinear solver
	Type   string  `json:"type" yaml:"type"`     // nonlinear solver type: "arclen" or "newton"
	NmaxIt int     `json:"nmaxit" yaml:"nmaxit"` // number of max iterations
	Tol    float64 `json:"tol" yaml:"tol"`       // tolerance on residual and arc-length constraint
	ShowR  bool    `json:"showr" yaml:"showr"`   // show residual

	// stepping
	Nsteps    int     `json:"nsteps" yaml:"nsteps"`       // max number of steps (arclen) or number of increments (newton)
	LamTarget float64 `json:"lamtarget" yaml:"lamtarget"` // arclen: stop when λ ≥ LamTarget
	Dt        float64 `json:"dt" yaml:"dt"`               // time increment per step for rate-dependent materials

	// arc-length
	Dl            float64 `json:"dl" yaml:"dl"`                       // Δl: arc-length radius
	DlMin         float64 `json:"dlmin" yaml:"dlmin"`                 // minimum Δl after halving
	Psi           float64 `json:"psi" yaml:"psi"`                     // ψ: weight of λ in the arc-length norm
	LoadScaled    bool    `json:"loadscaled" yaml:"loadscaled"`       // weight ψ²Δλ² by q·q
	Root          string  `json:"root" yaml:"root"`                   // root selection strategy
	FirstDir      string  `json:"firstdir" yaml:"firstdir"`           // first predictor: "load" or "tangent"
	Predictor     string  `json:"predictor" yaml:"predictor"`         // "secant" or "zero" increment at the start of each step
	RetrySingular bool    `json:"retrysingular" yaml:"retrysingular"` // also halve Δl after singular tangents

	// divergence control (newton)
	DvgCtrl bool `json:"dvgctrl" yaml:"dvgctrl"` // halve the increment after non-convergence
	NdvgMax int  `json:"ndvgmax" yaml:"ndvgmax"` // max number of consecutive halvings
}

// Simulation holds all simulation data
type Simulation struct {

	// input
	Data      Data        `json:"data" yaml:"data"`           // stores global simulation data
	Mesh      MeshData    `json:"mesh" yaml:"mesh"`           // mesh definition
	Materials []*Material `json:"materials" yaml:"materials"` // materials
	Elems     []*ElemData `json:"elems" yaml:"elems"`         // cell tag => material
	Bcs       BcsData     `json:"bcs" yaml:"bcs"`             // boundary conditions
	LinSol    LinSolData  `json:"linsol" yaml:"linsol"`       // linear solver data
	Solver    SolverData  `json:"solver" yaml:"solver"`       // FEM solver data

	// derived
	DirOut  string `json:"-" yaml:"-"` // directory to save results
	Key     string `json:"-" yaml:"-"` // simulation key; e.g. mysim01.sim => mysim01
	EncType string `json:"-" yaml:"-"` // encoder type
	Msh     *Mesh  `json:"-" yaml:"-"` // the mesh
}

// ReadSim reads all simulation data from a .sim (JSON) or .yaml file
func ReadSim(simfilepath string, erasefiles bool) (o *Simulation, err error) {

	// read file
	b, err := os.ReadFile(simfilepath)
	if err != nil {
		return nil, chk.Err("ReadSim: cannot read simulation file %q", simfilepath)
	}

	// decode
	o = new(Simulation)
	o.SetDefault()
	switch strings.ToLower(filepath.Ext(simfilepath)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, o)
	default:
		err = json.Unmarshal(b, o)
	}
	if err != nil {
		return nil, chk.Err("ReadSim: cannot unmarshal simulation file %q:\n%v", simfilepath, err)
	}

	// input directory and filename key
	dir := os.ExpandEnv(filepath.Dir(simfilepath))
	o.Key = io.FnKey(filepath.Base(simfilepath))

	// output directory
	o.DirOut = o.Data.DirOut
	if o.DirOut == "" {
		o.DirOut = "/tmp/jax-fem/" + o.Key
	}

	// create directory and erase previous simulation results
	if erasefiles {
		if err = os.MkdirAll(o.DirOut, 0777); err != nil {
			return nil, chk.Err("cannot create directory for output results (%s): %v", o.DirOut, err)
		}
		io.RemoveAll(io.Sf("%s/%s*", o.DirOut, o.Key))
	}

	// mesh
	if o.Mesh.File != "" {
		o.Msh, err = ReadMsh(dir, o.Mesh.File)
		if err != nil {
			return nil, err
		}
	}

	// check and derived data
	if err = o.PostProcess(); err != nil {
		return nil, chk.Err("ReadSim: simulation file %q is invalid:\n%v", simfilepath, err)
	}
	return
}

// SetDefault sets default values
func (o *Simulation) SetDefault() {
	o.Data.Encoder = "gob"
	o.LinSol.SetDefault()
	o.Solver.SetDefault()
}

// PostProcess checks the input data and computes derived quantities
func (o *Simulation) PostProcess() (err error) {

	// encoder type
	o.EncType = o.Data.Encoder
	if o.EncType != "gob" && o.EncType != "json" {
		o.EncType = "gob"
	}

	// mesh
	if o.Msh == nil {
		m := o.Mesh
		switch m.Type {
		case "qua4":
			if len(m.N) != 2 || len(m.L) != 2 {
				return chk.Err("qua4 mesh requires n and l with 2 components")
			}
			o.Msh, err = RectangleMesh(m.N[0], m.N[1], m.L[0], m.L[1])
		case "hex8":
			if len(m.N) != 3 || len(m.L) != 3 {
				return chk.Err("hex8 mesh requires n and l with 3 components")
			}
			o.Msh, err = BoxMesh(m.N[0], m.N[1], m.N[2], m.L[0], m.L[1], m.L[2])
		default:
			return chk.Err("mesh type %q is invalid; \"qua4\" or \"hex8\" is required unless a mesh file is given", m.Type)
		}
		if err != nil {
			return
		}
	}

	// elements and materials
	if len(o.Elems) == 0 {
		return chk.Err("at least one element data is required")
	}
	for _, ed := range o.Elems {
		if o.GetMat(ed.Mat) == nil {
			return chk.Err("cannot find material %q for element tag %d", ed.Mat, ed.Tag)
		}
		if _, ok := o.Msh.CellTag2cells[ed.Tag]; !ok {
			return chk.Err("there are no cells with tag %d", ed.Tag)
		}
	}

	// boundary conditions
	for name, loc := range o.Bcs.Locations {
		if err = loc.Check(); err != nil {
			return chk.Err("location %q is invalid:\n%v", name, err)
		}
	}
	for _, bc := range o.Bcs.Essential {
		if _, ok := o.Bcs.Locations[bc.Loc]; !ok {
			return chk.Err("cannot find location %q for essential boundary condition", bc.Loc)
		}
	}
	for _, bc := range o.Bcs.Natural {
		if _, ok := o.Bcs.Locations[bc.Loc]; !ok {
			return chk.Err("cannot find location %q for natural boundary condition", bc.Loc)
		}
		if len(bc.Tvec) != o.Msh.Ndim {
			return chk.Err("traction at %q must have %d components", bc.Loc, o.Msh.Ndim)
		}
	}
	if o.Data.Monitor != nil {
		if err = o.Data.Monitor.Check(); err != nil {
			return chk.Err("monitor location is invalid:\n%v", err)
		}
		if len(o.Msh.FindVerts(o.Data.Monitor)) == 0 {
			return chk.Err("cannot find monitored vertex")
		}
	}

	// solver
	return o.Solver.PostProcess()
}

// GetMat returns material data by name
//  Note: returns nil if not found
func (o *Simulation) GetMat(name string) *Material {
	for _, mat := range o.Materials {
		if mat.Name == name {
			return mat
		}
	}
	return nil
}

// GetElemData returns the element data corresponding to a cell tag
//  Note: returns nil if not found
func (o *Simulation) GetElemData(tag int) *ElemData {
	for _, ed := range o.Elems {
		if ed.Tag == tag {
			return ed
		}
	}
	return nil
}

// GetInfo returns formatted information
func (o *Simulation) GetInfo(w goio.Writer) (err error) {
	b, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return
}

// extra settings //////////////////////////////////////////////////////////////////////////////////

// SetDefault sets defaults values
func (o *LinSolData) SetDefault() {
	o.Name = "lu"
}

// SetDefault set defaults values
func (o *SolverData) SetDefault() {
	o.Type = "arclen"
	o.NmaxIt = 20
	o.Tol = 1e-8
	o.Nsteps = 100
	o.LamTarget = 1
	o.Psi = 1
	o.Root = "dot"
	o.FirstDir = "load"
	o.Predictor = "secant"
	o.NdvgMax = 20
}

// PostProcess checks the solver data after reading the input file
func (o *SolverData) PostProcess() error {
	switch o.Type {
	case "arclen":
		if o.Dl <= 0 {
			return chk.Err("arc-length solver requires dl > 0")
		}
		if o.DlMin <= 0 {
			o.DlMin = o.Dl / 1024
		}
		if o.DlMin > o.Dl {
			return chk.Err("dlmin = %g must not exceed dl = %g", o.DlMin, o.Dl)
		}
		if o.Predictor != "secant" && o.Predictor != "zero" {
			return chk.Err("predictor %q is invalid; \"secant\" or \"zero\" is required", o.Predictor)
		}
	case "newton":
	default:
		return chk.Err("solver type %q is invalid; \"arclen\" or \"newton\" is required", o.Type)
	}
	if o.Nsteps < 1 {
		return chk.Err("nsteps = %d must be positive", o.Nsteps)
	}
	if o.Dt < 0 {
		return chk.Err("dt = %g must not be negative", o.Dt)
	}
	return nil
}
