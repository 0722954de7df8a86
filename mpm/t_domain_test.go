// Copyright 2018 Hexu Zhen. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpm

import (
	"errors"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"

	"github.com/hexuzhen-geo/mpm/inp"
)

// testSim builds a two-cell simulation input without touching the disk
func testSim(seeds []*inp.Particle, gravity []float64, scheme string, nproc int) *inp.Simulation {
	sim := &inp.Simulation{
		Data: inp.Data{
			Desc:    "two-cell column",
			Ndim:    2,
			Dt:      0.001,
			Nsteps:  1,
			Gravity: gravity,
			Scheme:  scheme,
			Nproc:   nproc,
		},
		Msh: inp.Mesh{
			Verts: []*inp.Vert{
				{Id: 0, X: []float64{0, 0}},
				{Id: 1, X: []float64{1, 0}},
				{Id: 2, X: []float64{2, 0}},
				{Id: 3, X: []float64{0, 1}},
				{Id: 4, X: []float64{1, 1}},
				{Id: 5, X: []float64{2, 1}},
			},
			Cells: []*inp.Cell{
				{Id: 0, Geo: "qua4", Verts: []int{0, 1, 4, 3}},
				{Id: 1, Geo: "qua4", Verts: []int{1, 2, 5, 4}},
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
		Particles: seeds,
	}
	return sim
}

func Test_domain01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("domain01. build and one gravity step")

	seeds := []*inp.Particle{
		{X: []float64{0.5, 0.5}, Mat: "slurry"},
		{X: []float64{10, 10}, Mat: "slurry"}, // outside the grid
	}
	sim := testSim(seeds, []float64{0, -10}, "accel", 1)
	if err := sim.Validate(); err != nil {
		tst.Errorf("Validate failed: %v\n", err)
		return
	}

	dom, err := NewDomain(sim)
	if err != nil {
		tst.Errorf("NewDomain failed: %v\n", err)
		return
	}
	chk.IntAssert(len(dom.Msh.Nodes), 6)
	chk.IntAssert(len(dom.Msh.Cells), 2)
	chk.IntAssert(len(dom.Particles), 2)
	chk.IntAssert(dom.NumOutside, 1)
	if dom.Particles[1].Active {
		tst.Errorf("outside seed must be deactivated\n")
		return
	}

	// at rest with zero stress, the first step only accelerates:
	// nodal momentum is zero, so the position stays put while the
	// particle velocity picks up g*dt
	rep := dom.Step(0)
	if len(rep.Failures) > 0 {
		tst.Errorf("step must not fail: %v\n", rep.Failures)
		return
	}
	chk.IntAssert(rep.Nactive, 1)
	p := dom.Particles[0]
	chk.Vector(tst, "vel after step 0", 1e-12, p.Vel[0], []float64{0, -10 * 0.001})
	chk.Vector(tst, "x after step 0", 1e-12, p.X, []float64{0.5, 0.5})

	// the second step sees the mapped momentum and starts moving
	rep = dom.Step(1)
	if len(rep.Failures) > 0 {
		tst.Errorf("step must not fail: %v\n", rep.Failures)
		return
	}
	dy := -10 * 0.001 * 0.001
	chk.Vector(tst, "vel after step 1", 1e-12, p.Vel[0], []float64{0, -2 * 10 * 0.001})
	chk.Vector(tst, "x after step 1", 1e-12, p.X, []float64{0.5, 0.5 + dy})
}

func Test_domain02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("domain02. advection and cell crossing")

	// uniform velocity, no gravity: the particle advects rigidly and
	// must be rebound when it crosses into the neighbour cell
	seeds := []*inp.Particle{
		{X: []float64{0.9, 0.5}, Mat: "slurry", Vel: []float64{100, 0}},
	}
	sim := testSim(seeds, []float64{0, 0}, "velocity", 1)
	sim.Data.Dt = 0.002
	if err := sim.Validate(); err != nil {
		tst.Errorf("Validate failed: %v\n", err)
		return
	}
	dom, err := NewDomain(sim)
	if err != nil {
		tst.Errorf("NewDomain failed: %v\n", err)
		return
	}
	p := dom.Particles[0]
	chk.IntAssert(p.CellId, 0)

	rep := dom.Step(0)
	if len(rep.Failures) > 0 {
		tst.Errorf("step must not fail: %v\n", rep.Failures)
		return
	}
	chk.Scalar(tst, "x after step 0", 1e-12, p.X[0], 1.1)
	chk.Vector(tst, "sig stays zero", 1e-12, p.Sig[0], []float64{0, 0, 0, 0, 0, 0})

	rep = dom.Step(1)
	if len(rep.Failures) > 0 {
		tst.Errorf("step must not fail: %v\n", rep.Failures)
		return
	}
	chk.IntAssert(p.CellId, 1)
	if dom.Msh.Cells[0].HasParticle(0) {
		tst.Errorf("membership of cell 0 must have been released\n")
		return
	}
	if !dom.Msh.Cells[1].HasParticle(0) {
		tst.Errorf("particle must be a member of cell 1\n")
		return
	}
	chk.Scalar(tst, "x after step 1", 1e-12, p.X[0], 1.3)

	// eventually the particle leaves the grid and is reported
	var failed bool
	for i := 2; i < 10; i++ {
		rep = dom.Step(i)
		if len(rep.Failures) > 0 {
			failed = true
			chk.IntAssert(rep.Failures[0].Pid, 0)
			if rep.Failures[0].Stage != "locate" {
				tst.Errorf("failure must come from the locate stage; got %q\n", rep.Failures[0].Stage)
			}
			if !errors.Is(rep.Failures[0].Err, ErrLocate) {
				tst.Errorf("failure must wrap ErrLocate; got %v\n", rep.Failures[0].Err)
			}
			chk.IntAssert(p.CellId, -1)
			break
		}
	}
	if !failed {
		tst.Errorf("particle must eventually leave the grid\n")
		return
	}
}

func Test_domain03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("domain03. one failing particle leaves the rest intact")

	seeds := []*inp.Particle{
		{X: []float64{0.25, 0.5}, Mat: "slurry"},
		{X: []float64{0.75, 0.5}, Mat: "slurry"},
	}
	sim := testSim(seeds, []float64{0, -10}, "accel", 1)
	if err := sim.Validate(); err != nil {
		tst.Errorf("Validate failed: %v\n", err)
		return
	}
	dom, err := NewDomain(sim)
	if err != nil {
		tst.Errorf("NewDomain failed: %v\n", err)
		return
	}

	// strip the material of particle 1: it must fail before mapping
	// anything onto the grid
	bad := dom.Particles[1]
	bad.mdl = nil

	rep := dom.Step(0)
	chk.IntAssert(len(rep.Failures), 1)
	chk.IntAssert(rep.Failures[0].Pid, 1)
	if rep.Failures[0].Stage != "shapefn" {
		tst.Errorf("failure must come from the shapefn stage; got %q\n", rep.Failures[0].Stage)
		return
	}
	if !errors.Is(rep.Failures[0].Err, ErrNoMaterial) {
		tst.Errorf("failure must wrap ErrNoMaterial; got %v\n", rep.Failures[0].Err)
		return
	}
	chk.IntAssert(rep.Nactive, 1)

	// the failing particle contributed nothing to the nodes
	var mass float64
	for _, nod := range dom.Msh.Nodes {
		mass += nod.Mass[0]
	}
	good := dom.Particles[0]
	chk.Scalar(tst, "total nodal mass", 1e-10, mass, good.Mass[0])

	// the good particle still went through the whole cycle
	chk.Vector(tst, "good particle velocity", 1e-12, good.Vel[0], []float64{0, -10 * 0.001})
	chk.Vector(tst, "bad particle velocity", 1e-15, bad.Vel[0], []float64{0, 0})
}

func Test_domain04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("domain04. parallel step equals serial step")

	var seeds []*inp.Particle
	for i := 0; i < 4; i++ {
		for j := 0; j < 3; j++ {
			x := 0.25 + 0.5*float64(i)
			y := 0.25 + 0.25*float64(j)
			seeds = append(seeds, &inp.Particle{X: []float64{x, y}, Mat: "slurry"})
		}
	}

	run := func(nproc int) *Domain {
		sim := testSim(seeds, []float64{0, -10}, "accel", nproc)
		if err := sim.Validate(); err != nil {
			tst.Fatalf("Validate failed: %v\n", err)
		}
		dom, err := NewDomain(sim)
		if err != nil {
			tst.Fatalf("NewDomain failed: %v\n", err)
		}
		for i := 0; i < 3; i++ {
			rep := dom.Step(i)
			if len(rep.Failures) > 0 {
				tst.Fatalf("step must not fail: %v\n", rep.Failures)
			}
		}
		return dom
	}

	serial := run(1)
	parallel := run(4)
	for i := range serial.Particles {
		ps, pp := serial.Particles[i], parallel.Particles[i]
		chk.Vector(tst, "x", 1e-12, pp.X, ps.X)
		chk.Vector(tst, "vel", 1e-12, pp.Vel[0], ps.Vel[0])
		chk.Vector(tst, "sig", 1e-9, pp.Sig[0], ps.Sig[0])
		chk.Vector(tst, "eps", 1e-12, pp.Eps[0], ps.Eps[0])
	}
}
