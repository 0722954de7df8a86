// Copyright 2018 Hexu Zhen. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpm

import (
	"fmt"

	"github.com/cpmech/gosl/chk"
)

// Mesh is the background grid: the registry owning all nodes and cells.
// Particles refer to cells by id through this registry and never own them.
type Mesh struct {
	Ndim    int     // space dimension
	Nphases int     // number of phases
	Nodes   []*Node // all nodes; index == id
	Cells   []*Cell // all cells; index == id
}

// NewMesh allocates a mesh
func NewMesh(ndim, nphases int) *Mesh {
	return &Mesh{Ndim: ndim, Nphases: nphases}
}

// SetVert appends a node; ids must come in order
func (o *Mesh) SetVert(id int, x []float64) error {
	if id != len(o.Nodes) {
		return chk.Err("vertex ids must be sequential; got %d, want %d", id, len(o.Nodes))
	}
	if len(x) != o.Ndim {
		return chk.Err("vertex %d has %d coordinates; need %d", id, len(x), o.Ndim)
	}
	o.Nodes = append(o.Nodes, NewNode(id, x, o.Nphases))
	return nil
}

// SetCell appends a cell; ids must come in order
func (o *Mesh) SetCell(id int, geo string, verts []int) error {
	if id != len(o.Cells) {
		return chk.Err("cell ids must be sequential; got %d, want %d", id, len(o.Cells))
	}
	nodes := make([]*Node, len(verts))
	for i, v := range verts {
		if v < 0 || v >= len(o.Nodes) {
			return chk.Err("cell %d refers to unknown vertex %d", id, v)
		}
		nodes[i] = o.Nodes[v]
	}
	c, err := newCell(id, geo, verts, nodes, o.Ndim)
	if err != nil {
		return err
	}
	o.Cells = append(o.Cells, c)
	return nil
}

// CellByID returns a cell from the registry; returns nil if unknown
func (o *Mesh) CellByID(id int) *Cell {
	if id < 0 || id >= len(o.Cells) {
		return nil
	}
	return o.Cells[id]
}

// FindCell searches for the cell containing the real point y, trying the
// hint cell first (set hint to a negative value to skip). On success the
// natural coordinates are left in r.
func (o *Mesh) FindCell(r, y []float64, hint int) (*Cell, error) {
	if c := o.CellByID(hint); c != nil {
		if c.Locate(r, y) == nil {
			return c, nil
		}
	}
	for _, c := range o.Cells {
		if c.Id == hint {
			continue
		}
		if c.Locate(r, y) == nil {
			return c, nil
		}
	}
	return nil, fmt.Errorf("point %v is not inside any cell: %w", y, ErrLocate)
}

// ResetNodes zeroes the accumulated state of all nodes
func (o *Mesh) ResetNodes() {
	for _, n := range o.Nodes {
		n.Reset()
	}
}
