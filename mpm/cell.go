// Copyright 2018 Hexu Zhen. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpm

import (
	"fmt"
	"sync"

	"github.com/cpmech/gosl/chk"

	"github.com/hexuzhen-geo/mpm/shp"
)

// LOC_TOL is the tolerance on natural coordinates when deciding whether
// a point lies inside a cell
const LOC_TOL = 1.0e-8

// Cell is one background grid cell. It owns the membership bookkeeping
// of the particles currently mapped into it; membership mutations are
// serialized by the cell mutex.
type Cell struct {

	// essential
	Id    int        // cell id
	Geo   string     // geometry type; e.g. "qua4"
	Verts []int      // node ids
	Shape *shp.Shape // shape structure (shared, read-only)

	// derived
	nodes []*Node     // resolved nodes [nverts]
	x     [][]float64 // coordinates matrix [ndim][nverts]
	vol   float64     // cell volume (area in 2D)

	// membership
	mu    sync.Mutex
	parts map[int]bool // ids of particles mapped into this cell
}

// newCell allocates a cell, resolving nodes and computing the volume
func newCell(id int, geo string, verts []int, nodes []*Node, ndim int) (o *Cell, err error) {
	shape := shp.Get(geo)
	if shape == nil {
		return nil, chk.Err("cell %d: geometry %q is not available", id, geo)
	}
	if shape.Gndim != ndim {
		return nil, chk.Err("cell %d: geometry %q is %dD; mesh is %dD", id, geo, shape.Gndim, ndim)
	}
	if len(verts) != shape.Nverts {
		return nil, chk.Err("cell %d: geometry %q needs %d vertices; got %d", id, geo, shape.Nverts, len(verts))
	}
	o = &Cell{Id: id, Geo: geo, Verts: verts, Shape: shape, nodes: nodes, parts: make(map[int]bool)}
	o.x = make([][]float64, ndim)
	for i := 0; i < ndim; i++ {
		o.x[i] = make([]float64, shape.Nverts)
		for n, nod := range nodes {
			o.x[i][n] = nod.X[i]
		}
	}
	o.vol, err = shape.Volume(o.x)
	if err != nil {
		return nil, chk.Err("cell %d: cannot compute volume:\n%v", id, err)
	}
	return
}

// Nodes returns the resolved nodes of this cell
func (o *Cell) Nodes() []*Node { return o.nodes }

// Volume returns the cell volume (area in 2D)
func (o *Cell) Volume() float64 { return o.vol }

// Locate inverse-maps the real point y into natural coordinates r.
// It fails if the mapping does not converge or if the point falls
// outside the natural range of the cell.
func (o *Cell) Locate(r, y []float64) error {
	if err := o.Shape.InvMap(r, y, o.x); err != nil {
		return fmt.Errorf("cell %d: %v: %w", o.Id, err, ErrLocate)
	}
	for i := 0; i < o.Shape.Gndim; i++ {
		if r[i] < -1.0-LOC_TOL || r[i] > 1.0+LOC_TOL {
			return fmt.Errorf("cell %d: point is outside natural range: %w", o.Id, ErrLocate)
		}
	}
	return nil
}

// CalcShape computes shape values S [nverts] and gradients G
// [nverts][ndim] at natural coordinates r. S or G may be nil.
func (o *Cell) CalcShape(S []float64, G [][]float64, r []float64) error {
	_, err := o.Shape.CalcAtR(S, G, o.x, r)
	return err
}

// AddParticle registers a particle id in the membership list.
// A duplicate registration means the bookkeeping is corrupted.
func (o *Cell) AddParticle(id int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.parts[id] {
		chk.Panic("cell %d: membership bookkeeping corrupted: particle %d added twice", o.Id, id)
	}
	o.parts[id] = true
}

// RemoveParticle removes a particle id from the membership list.
// Removing an absent particle means the bookkeeping is corrupted.
func (o *Cell) RemoveParticle(id int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.parts[id] {
		chk.Panic("cell %d: membership bookkeeping corrupted: particle %d is not a member", o.Id, id)
	}
	delete(o.parts, id)
}

// HasParticle tells whether a particle id is a member
func (o *Cell) HasParticle(id int) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.parts[id]
}

// NumParticles returns the number of particles mapped into this cell
func (o *Cell) NumParticles() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.parts)
}
