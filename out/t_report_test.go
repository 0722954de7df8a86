// Copyright 2018 Hexu Zhen. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/fun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexuzhen-geo/mpm/inp"
	"github.com/hexuzhen-geo/mpm/mpm"
)

func buildDomain(tst *testing.T) *mpm.Domain {
	sim := &inp.Simulation{
		Data: inp.Data{
			Ndim:    2,
			Dt:      0.001,
			Nsteps:  1,
			Gravity: []float64{0, -10},
		},
		Msh: inp.Mesh{
			Verts: []*inp.Vert{
				{Id: 0, X: []float64{0, 0}},
				{Id: 1, X: []float64{1, 0}},
				{Id: 2, X: []float64{0, 1}},
				{Id: 3, X: []float64{1, 1}},
			},
			Cells: []*inp.Cell{
				{Id: 0, Geo: "qua4", Verts: []int{0, 1, 3, 2}},
			},
		},
		Mdb: inp.MatDb{
			Materials: []*inp.Material{
				{Name: "slurry", Model: "bingham", Prms: []*fun.Prm{
					&fun.Prm{N: "density", V: 1000},
					&fun.Prm{N: "youngs_modulus", V: 1e7},
					&fun.Prm{N: "poisson_ratio", V: 0.3},
					&fun.Prm{N: "tau0", V: 200},
					&fun.Prm{N: "mu", V: 200},
					&fun.Prm{N: "critical_shear_rate", V: 0.2},
				}},
			},
		},
		Particles: []*inp.Particle{
			{X: []float64{0.25, 0.25}, Mat: "slurry", Vel: []float64{3, 4}},
			{X: []float64{0.75, 0.75}, Mat: "slurry"},
			{X: []float64{5, 5}, Mat: "slurry"}, // outside, inactive
		},
	}
	require.NoError(tst, sim.Validate())
	dom, err := mpm.NewDomain(sim)
	require.NoError(tst, err)
	return dom
}

func Test_report01(tst *testing.T) {
	dom := buildDomain(tst)

	rows := Rows(dom, 7)
	require.Len(tst, rows, 3)
	assert.Equal(tst, 7, rows[0].Step)
	assert.Equal(tst, 0.25, rows[0].X)
	assert.Equal(tst, 3.0, rows[0].Vx)
	assert.Equal(tst, 4.0, rows[0].Vy)
	assert.True(tst, rows[0].Active)
	assert.False(tst, rows[2].Active)
	assert.Equal(tst, -1, rows[2].CellId)

	path := filepath.Join(tst.TempDir(), "step7.csv")
	require.NoError(tst, SaveCSV(path, rows))
	back, err := ReadCSV(path)
	require.NoError(tst, err)
	require.Len(tst, back, 3)
	assert.Equal(tst, rows[0].X, back[0].X)
	assert.Equal(tst, rows[1].Id, back[1].Id)
	assert.Equal(tst, rows[2].Active, back[2].Active)
}

func Test_report02(tst *testing.T) {
	dom := buildDomain(tst)

	s := Summarize(dom, 3)
	assert.Equal(tst, 3, s.Step)
	assert.Equal(tst, 2, s.Nactive)
	assert.InDelta(tst, 5.0, s.MaxSpeed, 1e-14) // |(3,4)| = 5
	assert.InDelta(tst, 0.0, s.MeanP, 1e-14)
	assert.InDelta(tst, 0.25, s.Xmin, 1e-14)
	assert.InDelta(tst, 0.75, s.Xmax, 1e-14)
	assert.Contains(tst, s.String(), "nactive=2")

	// empty summary must not blow up
	for _, p := range dom.Particles {
		p.Active = false
	}
	s = Summarize(dom, 4)
	assert.Equal(tst, 0, s.Nactive)
	assert.Equal(tst, 0.0, s.MaxSpeed)
}

func Test_filtering01(tst *testing.T) {
	dom := buildDomain(tst)

	ids := Within(dom, []float64{0, 0}, []float64{0.5, 0.5})
	assert.Equal(tst, []int{0}, ids)

	ids = Within(dom, []float64{0, 0}, []float64{1, 1})
	assert.Equal(tst, []int{0, 1}, ids)

	// diagonal through both active particles, sorted from the origin
	ids = Along(dom, []float64{0, 0}, []float64{1, 1}, 1e-8)
	assert.Equal(tst, []int{0, 1}, ids)

	// reversed direction reverses the order
	ids = Along(dom, []float64{1, 1}, []float64{0, 0}, 1e-8)
	assert.Equal(tst, []int{1, 0}, ids)

	// a line missing both particles selects nothing
	ids = Along(dom, []float64{0, 1}, []float64{1, 1}, 1e-8)
	assert.Empty(tst, ids)
}
