// Copyright 2018 Hexu Zhen. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mpm implements the material point method runtime: particles,
// the background grid they are coupled to, and the staged update cycle.
package mpm

import "sync"

// Node is one background grid node. Particles accumulate mass, momentum
// and forces additively into nodes; all Add* methods are serialized by
// the node mutex so that particles may run in parallel. Read accessors
// are not locked: they must only be called between stage barriers, when
// no particle is writing.
type Node struct {

	// essential
	Id int       // node id
	X  []float64 // coordinates [ndim]

	// accumulated state
	Mass []float64   // mass [nphases]
	Mom  [][]float64 // momentum [nphases][ndim]
	Fint [][]float64 // internal force [nphases][ndim]
	Fext [][]float64 // external force [nphases][ndim]

	mu sync.Mutex
}

// NewNode allocates a node
func NewNode(id int, x []float64, nphases int) *Node {
	ndim := len(x)
	o := &Node{Id: id, X: x, Mass: make([]float64, nphases)}
	o.Mom = make([][]float64, nphases)
	o.Fint = make([][]float64, nphases)
	o.Fext = make([][]float64, nphases)
	for i := 0; i < nphases; i++ {
		o.Mom[i] = make([]float64, ndim)
		o.Fint[i] = make([]float64, ndim)
		o.Fext[i] = make([]float64, ndim)
	}
	return o
}

// Reset zeroes all accumulated state
func (o *Node) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := range o.Mass {
		o.Mass[i] = 0
		for j := range o.Mom[i] {
			o.Mom[i][j] = 0
			o.Fint[i][j] = 0
			o.Fext[i][j] = 0
		}
	}
}

// AddMass adds mass
func (o *Node) AddMass(phase int, m float64) {
	o.mu.Lock()
	o.Mass[phase] += m
	o.mu.Unlock()
}

// AddMomentum adds momentum
func (o *Node) AddMomentum(phase int, p []float64) {
	o.mu.Lock()
	for j, v := range p {
		o.Mom[phase][j] += v
	}
	o.mu.Unlock()
}

// AddIntForce adds internal force
func (o *Node) AddIntForce(phase int, f []float64) {
	o.mu.Lock()
	for j, v := range f {
		o.Fint[phase][j] += v
	}
	o.mu.Unlock()
}

// AddExtForce adds external force
func (o *Node) AddExtForce(phase int, f []float64) {
	o.mu.Lock()
	for j, v := range f {
		o.Fext[phase][j] += v
	}
	o.mu.Unlock()
}

// Velocity computes v = momentum / mass; massless nodes give zero
func (o *Node) Velocity(v []float64, phase int) {
	m := o.Mass[phase]
	for j := range v {
		v[j] = 0
		if m > 0 {
			v[j] = o.Mom[phase][j] / m
		}
	}
}

// Acceleration computes a = (fint + fext) / mass; massless nodes give zero
func (o *Node) Acceleration(a []float64, phase int) {
	m := o.Mass[phase]
	for j := range a {
		a[j] = 0
		if m > 0 {
			a[j] = (o.Fint[phase][j] + o.Fext[phase][j]) / m
		}
	}
}
