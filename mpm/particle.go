// Copyright 2018 Hexu Zhen. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpm

import (
	"fmt"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/hexuzhen-geo/mpm/msolid"
)

// nsig is the number of Voigt components carried per phase, in 2D and 3D
// alike; unused components stay zero in 2D
const nsig = 6

// Particle is one material point. It carries the mechanical state between
// grid solutions and holds only non-owning references: the cell by id
// through the mesh registry, the material as a shared read-only model.
// All mechanical fields are mutated exclusively by the update-cycle
// operations below, driven by the Domain.
type Particle struct {

	// essential
	Id     int       // particle id
	Active bool      // active / inactive status
	X      []float64 // coordinates [ndim]
	Xi     []float64 // natural coordinates within the cell [ndim]
	CellId int       // id of the cell (resolved through the mesh); -1 when unbound

	// material
	MatName string // material name, for state records

	// mechanical state
	Vol   float64     // volume; recomputed each step
	Mass  []float64   // mass [nphases]
	Sig   [][]float64 // stress [nphases][6]
	Eps   [][]float64 // strain [nphases][6]
	Rate  [][]float64 // strain rate [nphases][6]
	DEps  [][]float64 // strain increment [nphases][6]
	EvCen []float64   // volumetric strain at centroid [nphases]
	Vel   [][]float64 // velocity [nphases][ndim]

	// current interpolation data; recomputed each step
	S  []float64     // shape function values [nverts]
	B  [][][]float64 // strain-displacement matrix per node [nverts][6][ndim]
	Gc [][]float64   // shape gradients at the cell centroid [nverts][ndim]

	// non-owning collaborators
	msh *Mesh        // mesh registry
	mdl msolid.Model // material model; nil until assigned
}

// NewParticle creates an active particle with id and coordinates
func NewParticle(msh *Mesh, id int, x []float64) *Particle {
	return NewParticleStatus(msh, id, x, true)
}

// NewParticleStatus creates a particle with explicit status
func NewParticleStatus(msh *Mesh, id int, x []float64, active bool) *Particle {
	ndim := msh.Ndim
	np := msh.Nphases
	o := &Particle{
		Id:     id,
		Active: active,
		X:      x,
		Xi:     make([]float64, ndim),
		CellId: -1,
		Mass:   make([]float64, np),
		EvCen:  make([]float64, np),
		msh:    msh,
	}
	o.Sig = la.MatAlloc(np, nsig)
	o.Eps = la.MatAlloc(np, nsig)
	o.Rate = la.MatAlloc(np, nsig)
	o.DEps = la.MatAlloc(np, nsig)
	o.Vel = la.MatAlloc(np, ndim)
	return o
}

// Reinitialise zeroes the mechanical state, keeping id, coordinates,
// status and bindings
func (o *Particle) Reinitialise() {
	o.Vol = 0
	for p := 0; p < o.msh.Nphases; p++ {
		o.Mass[p] = 0
		o.EvCen[p] = 0
		for i := 0; i < nsig; i++ {
			o.Sig[p][i] = 0
			o.Eps[p][i] = 0
			o.Rate[p][i] = 0
			o.DEps[p][i] = 0
		}
		for j := range o.Vel[p] {
			o.Vel[p][j] = 0
		}
	}
}

// StrainRate implements msolid.Point, giving rate-dependent models the
// live strain rate of this particle
func (o *Particle) StrainRate(phase int) []float64 { return o.Rate[phase] }

// AssignMaterial binds a material to the particle; the model is shared
// and must already be initialised
func (o *Particle) AssignMaterial(name string, mdl msolid.Model) {
	o.MatName = name
	o.mdl = mdl
}

// Material returns the bound material model; nil when unassigned
func (o *Particle) Material() msolid.Model { return o.mdl }

// AssignVelocity sets the particle velocity of one phase
func (o *Particle) AssignVelocity(phase int, v []float64) error {
	if len(v) != o.msh.Ndim {
		return chk.Err("particle %d: velocity has %d components; need %d", o.Id, len(v), o.msh.Ndim)
	}
	copy(o.Vel[phase], v)
	return nil
}

// AssignVolume sets the particle volume
func (o *Particle) AssignVolume(vol float64) { o.Vol = vol }

// AssignMass sets the particle mass of one phase
func (o *Particle) AssignMass(phase int, m float64) { o.Mass[phase] = m }

// Cell returns the bound cell, resolved through the mesh registry;
// nil when unbound
func (o *Particle) Cell() *Cell { return o.msh.CellByID(o.CellId) }

// RemoveCell clears the cell binding and its membership entry
func (o *Particle) RemoveCell() {
	if c := o.Cell(); c != nil {
		c.RemoveParticle(o.Id)
	}
	o.CellId = -1
}

// AssignCell binds the particle to cell c if its location resolves
// inside c, removing the membership from any prior cell. If resolution
// fails, the prior binding is kept only while still valid there;
// otherwise the binding is cleared entirely.
func (o *Particle) AssignCell(c *Cell) error {
	r := make([]float64, 3)
	if err := c.Locate(r, o.X); err == nil {
		if o.CellId != c.Id {
			if prev := o.Cell(); prev != nil {
				prev.RemoveParticle(o.Id)
			}
			o.CellId = c.Id
			c.AddParticle(o.Id)
		}
		copy(o.Xi, r[:len(o.Xi)])
		return nil
	}
	if prev := o.Cell(); prev != nil {
		if err := prev.Locate(r, o.X); err == nil {
			copy(o.Xi, r[:len(o.Xi)])
		} else {
			prev.RemoveParticle(o.Id)
			o.CellId = -1
		}
	}
	return fmt.Errorf("particle %d is not inside cell %d: %w", o.Id, c.Id, ErrLocate)
}

// ComputeReferenceLocation inverse-maps the particle coordinates into
// the natural frame of the bound cell
func (o *Particle) ComputeReferenceLocation() error {
	c := o.Cell()
	if c == nil {
		return fmt.Errorf("particle %d: %w", o.Id, ErrNoCell)
	}
	r := make([]float64, 3)
	if err := c.Locate(r, o.X); err != nil {
		return err
	}
	copy(o.Xi, r[:len(o.Xi)])
	return nil
}

// ComputeShapefn evaluates shape functions, the strain-displacement
// matrix and the centroid gradients at the current natural coordinates
func (o *Particle) ComputeShapefn() error {
	c := o.Cell()
	if c == nil {
		return fmt.Errorf("particle %d: %w", o.Id, ErrNoCell)
	}
	ndim := o.msh.Ndim
	nverts := c.Shape.Nverts

	// shape values and gradients at the particle
	if len(o.S) != nverts {
		o.S = make([]float64, nverts)
		o.Gc = la.MatAlloc(nverts, ndim)
		o.B = make([][][]float64, nverts)
		for m := 0; m < nverts; m++ {
			o.B[m] = la.MatAlloc(nsig, ndim)
		}
	}
	G := la.MatAlloc(nverts, ndim)
	if err := c.CalcShape(o.S, G, o.Xi); err != nil {
		return chk.Err("particle %d: cannot compute shape functions:\n%v", o.Id, err)
	}

	// B-matrix per node
	for m := 0; m < nverts; m++ {
		for i := 0; i < nsig; i++ {
			for j := 0; j < ndim; j++ {
				o.B[m][i][j] = 0
			}
		}
		switch ndim {
		case 2:
			o.B[m][0][0] = G[m][0]
			o.B[m][1][1] = G[m][1]
			o.B[m][3][0] = G[m][1]
			o.B[m][3][1] = G[m][0]
		case 3:
			o.B[m][0][0] = G[m][0]
			o.B[m][1][1] = G[m][1]
			o.B[m][2][2] = G[m][2]
			o.B[m][3][0] = G[m][1]
			o.B[m][3][1] = G[m][0]
			o.B[m][4][1] = G[m][2]
			o.B[m][4][2] = G[m][1]
			o.B[m][5][0] = G[m][2]
			o.B[m][5][2] = G[m][0]
		}
	}

	// centroid gradients, kept separate to mitigate volumetric locking
	centroid := []float64{0, 0, 0}
	if err := c.CalcShape(nil, o.Gc, centroid); err != nil {
		return chk.Err("particle %d: cannot compute centroid gradients:\n%v", o.Id, err)
	}
	return nil
}

// ComputeVolume computes volume = cell volume / number of particles
// currently mapped into the cell
func (o *Particle) ComputeVolume() error {
	c := o.Cell()
	if c == nil {
		return fmt.Errorf("particle %d: %w", o.Id, ErrNoCell)
	}
	np := c.NumParticles()
	if np < 1 {
		chk.Panic("cell %d: membership bookkeeping corrupted: bound particle %d not counted", c.Id, o.Id)
	}
	o.Vol = c.Volume() / float64(np)
	return nil
}

// ComputeMass computes mass = volume * material density
func (o *Particle) ComputeMass(phase int) error {
	if o.mdl == nil {
		return fmt.Errorf("particle %d: %w", o.Id, ErrNoMaterial)
	}
	if o.Vol <= 0 {
		return fmt.Errorf("particle %d: volume: %w", o.Id, ErrNotReady)
	}
	o.Mass[phase] = o.Vol * o.mdl.GetRho()
	return nil
}

// MapMassMomentumToNodes accumulates mass and momentum onto the nodes
// of the bound cell
func (o *Particle) MapMassMomentumToNodes(phase int) error {
	c := o.Cell()
	if c == nil {
		return fmt.Errorf("particle %d: %w", o.Id, ErrNoCell)
	}
	if len(o.S) == 0 {
		return fmt.Errorf("particle %d: shape functions: %w", o.Id, ErrNotReady)
	}
	m := o.Mass[phase]
	p := make([]float64, o.msh.Ndim)
	for n, nod := range c.Nodes() {
		nod.AddMass(phase, m*o.S[n])
		for j := range p {
			p[j] = m * o.Vel[phase][j] * o.S[n]
		}
		nod.AddMomentum(phase, p)
	}
	return nil
}

// ComputeStrain computes the strain increment from nodal velocities via
// the B-matrix, accumulates strain and updates the strain rate. The
// volumetric strain at the centroid uses the centroid-evaluated
// gradients instead of the particle-point values.
func (o *Particle) ComputeStrain(phase int, dt float64) error {
	c := o.Cell()
	if c == nil {
		return fmt.Errorf("particle %d: %w", o.Id, ErrNoCell)
	}
	if len(o.S) == 0 {
		return fmt.Errorf("particle %d: shape functions: %w", o.Id, ErrNotReady)
	}
	rate := o.Rate[phase]
	for i := 0; i < nsig; i++ {
		rate[i] = 0
	}
	var evRate float64
	v := make([]float64, o.msh.Ndim)
	for n, nod := range c.Nodes() {
		nod.Velocity(v, phase)
		for i := 0; i < nsig; i++ {
			for j := range v {
				rate[i] += o.B[n][i][j] * v[j]
			}
		}
		for j := range v {
			evRate += o.Gc[n][j] * v[j]
		}
	}
	for i := 0; i < nsig; i++ {
		o.DEps[phase][i] = rate[i] * dt
		o.Eps[phase][i] += o.DEps[phase][i]
	}
	o.EvCen[phase] += evRate * dt
	return nil
}

// ComputeStress delegates the stress update to the material model,
// passing the particle itself as live context
func (o *Particle) ComputeStress(phase int) error {
	if o.mdl == nil {
		return fmt.Errorf("particle %d: %w", o.Id, ErrNoMaterial)
	}
	var σNew [nsig]float64
	if err := o.mdl.UpdateRate(σNew[:], o.Sig[phase], o.DEps[phase], phase, o); err != nil {
		return fmt.Errorf("particle %d: stress update failed: %w", o.Id, err)
	}
	copy(o.Sig[phase], σNew[:])
	return nil
}

// MapBodyForce accumulates mass * gravity onto the nodes
func (o *Particle) MapBodyForce(phase int, gravity []float64) error {
	c := o.Cell()
	if c == nil {
		return fmt.Errorf("particle %d: %w", o.Id, ErrNoCell)
	}
	if len(o.S) == 0 {
		return fmt.Errorf("particle %d: shape functions: %w", o.Id, ErrNotReady)
	}
	f := make([]float64, o.msh.Ndim)
	for n, nod := range c.Nodes() {
		for j := range f {
			f[j] = o.Mass[phase] * o.S[n] * gravity[j]
		}
		nod.AddExtForce(phase, f)
	}
	return nil
}

// MapInternalForce accumulates -volume * Bᵀ·σ onto the nodes
func (o *Particle) MapInternalForce(phase int) error {
	c := o.Cell()
	if c == nil {
		return fmt.Errorf("particle %d: %w", o.Id, ErrNoCell)
	}
	if len(o.S) == 0 {
		return fmt.Errorf("particle %d: shape functions: %w", o.Id, ErrNotReady)
	}
	σ := o.Sig[phase]
	f := make([]float64, o.msh.Ndim)
	for n, nod := range c.Nodes() {
		for j := range f {
			f[j] = 0
			for i := 0; i < nsig; i++ {
				f[j] -= o.Vol * o.B[n][i][j] * σ[i]
			}
		}
		nod.AddIntForce(phase, f)
	}
	return nil
}

// ComputeUpdatedPosition integrates nodal accelerations into the particle
// velocity, then moves the particle with the interpolated nodal velocity
func (o *Particle) ComputeUpdatedPosition(phase int, dt float64) error {
	c := o.Cell()
	if c == nil {
		return fmt.Errorf("particle %d: %w", o.Id, ErrNoCell)
	}
	if len(o.S) == 0 {
		return fmt.Errorf("particle %d: shape functions: %w", o.Id, ErrNotReady)
	}
	a := make([]float64, o.msh.Ndim)
	v := make([]float64, o.msh.Ndim)
	for n, nod := range c.Nodes() {
		nod.Acceleration(a, phase)
		nod.Velocity(v, phase)
		for j := range a {
			o.Vel[phase][j] += o.S[n] * a[j] * dt
			o.X[j] += o.S[n] * v[j] * dt
		}
	}
	return nil
}

// ComputeUpdatedPositionVelocity assigns the interpolated nodal velocity
// to the particle and moves it accordingly
func (o *Particle) ComputeUpdatedPositionVelocity(phase int, dt float64) error {
	c := o.Cell()
	if c == nil {
		return fmt.Errorf("particle %d: %w", o.Id, ErrNoCell)
	}
	if len(o.S) == 0 {
		return fmt.Errorf("particle %d: shape functions: %w", o.Id, ErrNotReady)
	}
	v := make([]float64, o.msh.Ndim)
	vp := make([]float64, o.msh.Ndim)
	for n, nod := range c.Nodes() {
		nod.Velocity(v, phase)
		for j := range v {
			vp[j] += o.S[n] * v[j]
		}
	}
	for j := range vp {
		o.Vel[phase][j] = vp[j]
		o.X[j] += vp[j] * dt
	}
	return nil
}
