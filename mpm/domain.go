// Copyright 2018 Hexu Zhen. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpm

import (
	"sync"

	"github.com/cpmech/gosl/chk"

	"github.com/hexuzhen-geo/mpm/inp"
	"github.com/hexuzhen-geo/mpm/msolid"
)

// Domain drives all particles through the per-step update cycle.
// Particles update in parallel within one stage; a strict barrier
// separates stages, because later stages read grid values aggregated
// from every particle in the prior stage.
type Domain struct {

	// essential
	Msh       *Mesh                   // background grid
	Particles []*Particle             // all material points
	Models    map[string]msolid.Model // material models by name (shared, read-only during a step)

	// control
	Gravity []float64 // gravity vector [ndim]
	Dt      float64   // time step
	Nproc   int       // number of workers for the particle stages
	Scheme  string    // position update scheme: "accel" or "velocity"
	EncType string    // state encoder: "gob" or "json"

	// statistics
	NumOutside int // seeds that could not be located at build time
}

// Failure records one particle stage failure. The particle's remaining
// stages for the step were skipped; its contribution is omitted.
type Failure struct {
	Pid   int    // particle id
	Stage string // stage name
	Err   error  // cause
}

// StepReport summarises one step
type StepReport struct {
	Step     int       // step index
	Nactive  int       // particles that completed all stages
	Failures []Failure // per-particle failures
}

// NewDomain builds a domain from simulation input: grid, materials and
// particle seeds. Seeds outside the grid are deactivated and counted.
func NewDomain(sim *inp.Simulation) (dom *Domain, err error) {

	// grid
	msh := NewMesh(sim.Data.Ndim, sim.Data.Nphases)
	for _, v := range sim.Msh.Verts {
		if err = msh.SetVert(v.Id, v.X); err != nil {
			return
		}
	}
	for _, c := range sim.Msh.Cells {
		if err = msh.SetCell(c.Id, c.Geo, c.Verts); err != nil {
			return
		}
	}

	// materials
	models := make(map[string]msolid.Model)
	for _, mat := range sim.Mdb.Materials {
		mdl, e := msolid.New(mat.Model)
		if e != nil {
			return nil, e
		}
		if e := mdl.Init(sim.Data.Ndim, mat.Prms); e != nil {
			return nil, chk.Err("cannot initialise material %q:\n%v", mat.Name, e)
		}
		models[mat.Name] = mdl
	}

	dom = &Domain{
		Msh:     msh,
		Models:  models,
		Gravity: sim.Data.Gravity,
		Dt:      sim.Data.Dt,
		Nproc:   sim.Data.Nproc,
		Scheme:  sim.Data.Scheme,
		EncType: sim.Data.Encoder,
	}

	// particle seeds
	r := make([]float64, 3)
	for i, seed := range sim.Particles {
		x := make([]float64, len(seed.X))
		copy(x, seed.X)
		p := NewParticle(msh, i, x)
		p.AssignMaterial(seed.Mat, models[seed.Mat])
		if err = p.AssignVelocity(0, seed.Vel); err != nil {
			return nil, err
		}
		c, e := msh.FindCell(r, x, -1)
		if e != nil {
			p.Active = false
			dom.NumOutside++
		} else {
			if e := p.AssignCell(c); e != nil {
				p.Active = false
				dom.NumOutside++
			}
		}
		dom.Particles = append(dom.Particles, p)
	}
	return
}

// stage is one phase-barrier section of the update cycle
type stage struct {
	name string
	run  func(p *Particle) error
}

// Step runs one full update cycle over all particles. A particle whose
// stage fails skips its remaining stages for this step; other particles
// are unaffected. Only corrupted mesh bookkeeping panics.
func (o *Domain) Step(step int) (rep *StepReport) {

	rep = &StepReport{Step: step}
	o.Msh.ResetNodes()

	// skip flags for this step: inactive or already failed
	skip := make([]bool, len(o.Particles))
	for i, p := range o.Particles {
		if !p.Active {
			skip[i] = true
		}
	}

	phases := o.Msh.Nphases
	eachPhase := func(fn func(p *Particle, phase int) error) func(*Particle) error {
		return func(p *Particle) error {
			for ph := 0; ph < phases; ph++ {
				if err := fn(p, ph); err != nil {
					return err
				}
			}
			return nil
		}
	}

	updatePosition := eachPhase(func(p *Particle, ph int) error {
		if o.Scheme == "velocity" {
			return p.ComputeUpdatedPositionVelocity(ph, o.Dt)
		}
		return p.ComputeUpdatedPosition(ph, o.Dt)
	})

	stages := []stage{
		{"locate", o.locate},
		{"shapefn", func(p *Particle) error {
			if err := p.ComputeShapefn(); err != nil {
				return err
			}
			if err := p.ComputeVolume(); err != nil {
				return err
			}
			return eachPhase((*Particle).ComputeMass)(p)
		}},
		{"mass-momentum", eachPhase((*Particle).MapMassMomentumToNodes)},
		{"strain", eachPhase(func(p *Particle, ph int) error {
			return p.ComputeStrain(ph, o.Dt)
		})},
		{"stress", eachPhase((*Particle).ComputeStress)},
		{"forces", eachPhase(func(p *Particle, ph int) error {
			if err := p.MapBodyForce(ph, o.Gravity); err != nil {
				return err
			}
			return p.MapInternalForce(ph)
		})},
		{"position", updatePosition},
	}

	for _, st := range stages {
		o.runStage(st, skip, rep)
	}

	for i, p := range o.Particles {
		if p.Active && !skip[i] {
			rep.Nactive++
		}
	}
	return
}

// locate re-resolves the particle's cell, trying the current cell first
func (o *Domain) locate(p *Particle) error {
	r := make([]float64, 3)
	c, err := o.Msh.FindCell(r, p.X, p.CellId)
	if err != nil {
		p.RemoveCell()
		return err
	}
	return p.AssignCell(c)
}

// runStage executes one stage over all non-skipped particles, in
// parallel chunks, and waits for completion (the phase barrier)
func (o *Domain) runStage(st stage, skip []bool, rep *StepReport) {

	nproc := o.Nproc
	if nproc < 1 {
		nproc = 1
	}
	n := len(o.Particles)

	// serial
	if nproc == 1 || n < 2*nproc {
		for i, p := range o.Particles {
			if skip[i] {
				continue
			}
			if err := st.run(p); err != nil {
				skip[i] = true
				rep.Failures = append(rep.Failures, Failure{Pid: p.Id, Stage: st.name, Err: err})
			}
		}
		return
	}

	// parallel chunks; node accumulation inside stages is serialized by
	// the node mutexes, so workers only need to guard the report
	var mu sync.Mutex
	var wg sync.WaitGroup
	chunk := (n + nproc - 1) / nproc
	for w := 0; w < nproc; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				if skip[i] {
					continue
				}
				if err := st.run(o.Particles[i]); err != nil {
					mu.Lock()
					skip[i] = true
					rep.Failures = append(rep.Failures, Failure{Pid: o.Particles[i].Id, Stage: st.name, Err: err})
					mu.Unlock()
				}
			}
		}(lo, hi)
	}
	wg.Wait()
}
