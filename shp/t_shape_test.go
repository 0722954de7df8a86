// Copyright 2018 Hexu Zhen. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_shape01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape01. Kronecker property and partition of unity")

	for name, shape := range factory {

		io.Pfyel("----------------------------- %-6s-----------------------------\n", name)

		// S(node m natural coords) == delta_mn
		S := make([]float64, shape.Nverts)
		dSdR := la.MatAlloc(shape.Nverts, shape.Gndim)
		r := make([]float64, 3)
		for n := 0; n < shape.Nverts; n++ {
			for i := 0; i < shape.Gndim; i++ {
				r[i] = shape.NatCoords[i][n]
			}
			shape.Func(S, dSdR, r, false)
			for m := 0; m < shape.Nverts; m++ {
				var correct float64
				if m == n {
					correct = 1
				}
				chk.Scalar(tst, io.Sf("%s: S_%d(xi_%d)", name, m, n), 1e-17, S[m], correct)
			}
		}

		// partition of unity and zero-sum derivatives at interior points
		for _, r0 := range []float64{-0.77, 0, 0.33} {
			for i := 0; i < shape.Gndim; i++ {
				r[i] = r0 * float64(i+1) / float64(shape.Gndim)
			}
			shape.Func(S, dSdR, r, true)
			var sum float64
			dsum := make([]float64, shape.Gndim)
			for m := 0; m < shape.Nverts; m++ {
				sum += S[m]
				for i := 0; i < shape.Gndim; i++ {
					dsum[i] += dSdR[m][i]
				}
			}
			chk.Scalar(tst, io.Sf("%s: sum(S)", name), 1e-15, sum, 1)
			for i := 0; i < shape.Gndim; i++ {
				chk.Scalar(tst, io.Sf("%s: sum(dSdR_%d)", name, i), 1e-15, dsum[i], 0)
			}
		}

		io.PfGreen("OK\n")
	}
}

func Test_shape02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape02. Jacobian and volume of a stretched qua4")

	xmat := [][]float64{
		{10, 13, 13, 10},
		{8, 8, 9, 9},
	}
	dx, dy := 3.0, 1.0
	dr, ds := 2.0, 2.0
	shape := Get("qua4")
	S := make([]float64, shape.Nverts)
	G := la.MatAlloc(shape.Nverts, shape.Gndim)
	J, err := shape.CalcAtR(S, G, xmat, []float64{0, 0, 0})
	if err != nil {
		tst.Errorf("CalcAtR failed: %v\n", err)
		return
	}
	io.Pforan("J = %v\n", J)
	chk.Scalar(tst, "J", 1e-14, J, (dx/dr)*(dy/ds))

	vol, err := shape.Volume(xmat)
	if err != nil {
		tst.Errorf("Volume failed: %v\n", err)
		return
	}
	chk.Scalar(tst, "area", 1e-13, vol, dx*dy)
}

func Test_shape03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape03. inverse mapping round trip")

	// qua4
	xmat := [][]float64{
		{0, 2, 2.5, 0.3},
		{0, 0.1, 2, 1.8},
	}
	shape := Get("qua4")
	rref := []float64{0.4, -0.6, 0}

	// real coordinates of rref
	S := make([]float64, shape.Nverts)
	shape.Func(S, la.MatAlloc(shape.Nverts, shape.Gndim), rref, false)
	y := make([]float64, 2)
	for i := 0; i < 2; i++ {
		for n := 0; n < shape.Nverts; n++ {
			y[i] += xmat[i][n] * S[n]
		}
	}

	r := make([]float64, 3)
	err := shape.InvMap(r, y, xmat)
	if err != nil {
		tst.Errorf("InvMap failed: %v\n", err)
		return
	}
	chk.Vector(tst, "r", 1e-9, r[:2], rref[:2])

	// hex8 on a unit cube
	xcube := [][]float64{
		{0, 1, 1, 0, 0, 1, 1, 0},
		{0, 0, 1, 1, 0, 0, 1, 1},
		{0, 0, 0, 0, 1, 1, 1, 1},
	}
	hex := Get("hex8")
	r3 := make([]float64, 3)
	err = hex.InvMap(r3, []float64{0.25, 0.5, 0.75}, xcube)
	if err != nil {
		tst.Errorf("InvMap failed: %v\n", err)
		return
	}
	chk.Vector(tst, "r3", 1e-9, r3, []float64{-0.5, 0, 0.5})

	vol, err := hex.Volume(xcube)
	if err != nil {
		tst.Errorf("Volume failed: %v\n", err)
		return
	}
	chk.Scalar(tst, "cube volume", 1e-13, vol, 1.0)
}
