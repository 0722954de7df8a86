// Copyright 2018 Hexu Zhen. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.sim) file,
// either JSON or YAML depending on the file extension.
package inp

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"gopkg.in/yaml.v3"
)

// Data holds global data for simulations
type Data struct {
	Desc    string    `json:"desc" yaml:"desc"`       // description of simulation
	Ndim    int       `json:"ndim" yaml:"ndim"`       // space dimension: 2 or 3
	Nphases int       `json:"nphases" yaml:"nphases"` // number of phases; default 1
	Dt      float64   `json:"dt" yaml:"dt"`           // time step
	Nsteps  int       `json:"nsteps" yaml:"nsteps"`   // number of steps
	Gravity []float64 `json:"gravity" yaml:"gravity"` // gravity vector [ndim]
	DirOut  string    `json:"dirout" yaml:"dirout"`   // directory for output
	Encoder string    `json:"encoder" yaml:"encoder"` // encoder name; "gob" or "json"
	Scheme  string    `json:"scheme" yaml:"scheme"`   // position update scheme; "accel" or "velocity"
	Nproc   int       `json:"nproc" yaml:"nproc"`     // number of workers for the particle stages
}

// Vert holds vertex data
type Vert struct {
	Id int       `json:"id" yaml:"id"` // vertex id
	X  []float64 `json:"x" yaml:"x"`   // coordinates [ndim]
}

// Cell holds cell (background grid element) data
type Cell struct {
	Id    int    `json:"id" yaml:"id"`       // cell id
	Geo   string `json:"geo" yaml:"geo"`     // geometry type; "qua4" or "hex8"
	Verts []int  `json:"verts" yaml:"verts"` // vertex ids
}

// Mesh holds the background grid definition
type Mesh struct {
	Verts []*Vert `json:"verts" yaml:"verts"` // vertices
	Cells []*Cell `json:"cells" yaml:"cells"` // cells
}

// Material holds material data
type Material struct {
	Name  string   `json:"name" yaml:"name"`   // name of material
	Model string   `json:"model" yaml:"model"` // name of model; e.g. "bingham"
	Prms  fun.Prms `json:"prms" yaml:"prms"`   // parameters
}

// MatDb implements a database of materials
type MatDb struct {
	Materials []*Material `json:"materials" yaml:"materials"` // all materials
}

// Get returns a material by name; returns nil if not found
func (o MatDb) Get(name string) *Material {
	for _, mat := range o.Materials {
		if mat.Name == name {
			return mat
		}
	}
	return nil
}

// Particle holds a material point seed
type Particle struct {
	X   []float64 `json:"x" yaml:"x"`     // initial coordinates [ndim]
	Mat string    `json:"mat" yaml:"mat"` // material name
	Vel []float64 `json:"vel" yaml:"vel"` // initial velocity [ndim]; optional
}

// Simulation holds all simulation data
type Simulation struct {
	Data      Data        `json:"data" yaml:"data"`           // global data
	Msh       Mesh        `json:"mesh" yaml:"mesh"`           // background grid
	Mdb       MatDb       `json:"matdb" yaml:"matdb"`         // materials database
	Particles []*Particle `json:"particles" yaml:"particles"` // material point seeds
}

// ReadSim reads a simulation input file (.sim as JSON, .yaml/.yml as YAML)
func ReadSim(path string) (sim *Simulation, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, chk.Err("cannot read simulation file:\n%v", err)
	}
	sim = new(Simulation)
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, sim)
	default:
		err = json.Unmarshal(b, sim)
	}
	if err != nil {
		return nil, chk.Err("cannot parse simulation file %q:\n%v", path, err)
	}
	err = sim.Validate()
	if err != nil {
		return nil, err
	}
	return
}

// Validate checks the input and sets defaults
func (o *Simulation) Validate() (err error) {
	d := &o.Data
	if d.Ndim != 2 && d.Ndim != 3 {
		return chk.Err("data.ndim=%d is invalid; must be 2 or 3", d.Ndim)
	}
	if d.Dt <= 0 {
		return chk.Err("data.dt=%g is invalid; must be positive", d.Dt)
	}
	if d.Nsteps < 1 {
		return chk.Err("data.nsteps=%d is invalid; must be at least 1", d.Nsteps)
	}
	if d.Nphases < 1 {
		d.Nphases = 1
	}
	if d.Nproc < 1 {
		d.Nproc = 1
	}
	if d.Encoder == "" {
		d.Encoder = "gob"
	}
	if d.Scheme == "" {
		d.Scheme = "accel"
	}
	if d.Scheme != "accel" && d.Scheme != "velocity" {
		return chk.Err("data.scheme=%q is invalid; must be \"accel\" or \"velocity\"", d.Scheme)
	}
	if len(d.Gravity) == 0 {
		d.Gravity = make([]float64, d.Ndim)
	}
	if len(d.Gravity) != d.Ndim {
		return chk.Err("data.gravity has %d components; need %d", len(d.Gravity), d.Ndim)
	}
	for _, v := range o.Msh.Verts {
		if len(v.X) != d.Ndim {
			return chk.Err("vertex %d has %d coordinates; need %d", v.Id, len(v.X), d.Ndim)
		}
	}
	for _, c := range o.Msh.Cells {
		if c.Geo != "qua4" && c.Geo != "hex8" {
			return chk.Err("cell %d: geometry %q is not available", c.Id, c.Geo)
		}
	}
	for i, p := range o.Particles {
		if len(p.X) != d.Ndim {
			return chk.Err("particle #%d has %d coordinates; need %d", i, len(p.X), d.Ndim)
		}
		if o.Mdb.Get(p.Mat) == nil {
			return chk.Err("particle #%d: material %q is not in the database", i, p.Mat)
		}
		if len(p.Vel) == 0 {
			p.Vel = make([]float64, d.Ndim)
		}
		if len(p.Vel) != d.Ndim {
			return chk.Err("particle #%d has %d velocity components; need %d", i, len(p.Vel), d.Ndim)
		}
	}
	return
}
