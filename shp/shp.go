// Copyright 2018 Hexu Zhen. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package shp implements shape functions and derivatives for background
// grid cells. All evaluation routines are stateless so that many material
// points can use the same Shape concurrently.
package shp

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// constants
const (
	MINDET     = 1.0e-14 // minimum determinant allowed for dxdR
	INVMAP_TOL = 1.0e-10 // tolerance for inverse mapping
	INVMAP_NIT = 25      // maximum number of iterations for inverse mapping
)

// ShpFunc is the shape functions callback function
type ShpFunc func(S []float64, dSdR [][]float64, r []float64, derivs bool)

// Shape holds geometry data of one cell type
type Shape struct {
	Type      string      // name; e.g. "qua4"
	Func      ShpFunc     // shape/derivs callback
	Gndim     int         // geometry dimension; e.g. "hex8" => 3
	Nverts    int         // number of vertices
	NatCoords [][]float64 // natural coordinates [gndim][nverts]
	IntPoints [][]float64 // integration points {r, s, t, w} [nip][4]
}

// factory holds all Shapes available
var factory = make(map[string]*Shape)

// Get returns an existent Shape structure; returns nil on errors
func Get(geoType string) *Shape {
	s, ok := factory[geoType]
	if !ok {
		return nil
	}
	return s
}

// CalcAtR computes shape functions S [nverts], gradients G = dSdx
// [nverts][gndim] and the Jacobian determinant at natural coordinates r.
//  x[gndim][nverts] -- coordinates matrix of the cell
// S or G may be nil when not needed.
func (o *Shape) CalcAtR(S []float64, G [][]float64, x [][]float64, r []float64) (J float64, err error) {

	// shape functions and natural derivatives
	s := make([]float64, o.Nverts)
	dSdR := la.MatAlloc(o.Nverts, o.Gndim)
	o.Func(s, dSdR, r, true)
	if S != nil {
		copy(S, s)
	}

	// dxdR := x * dSdR
	dxdR := la.MatAlloc(o.Gndim, o.Gndim)
	for i := 0; i < o.Gndim; i++ {
		for j := 0; j < o.Gndim; j++ {
			for n := 0; n < o.Nverts; n++ {
				dxdR[i][j] += x[i][n] * dSdR[n][j]
			}
		}
	}

	// dRdx := inv(dxdR)
	dRdx := la.MatAlloc(o.Gndim, o.Gndim)
	J, err = la.MatInv(dRdx, dxdR, MINDET)
	if err != nil {
		return
	}

	// G := dSdR * dRdx
	if G != nil {
		for m := 0; m < o.Nverts; m++ {
			for i := 0; i < o.Gndim; i++ {
				G[m][i] = 0
				for j := 0; j < o.Gndim; j++ {
					G[m][i] += dSdR[m][j] * dRdx[j][i]
				}
			}
		}
	}
	return
}

// Volume computes the cell volume (area in 2D) by Gauss quadrature
func (o *Shape) Volume(x [][]float64) (vol float64, err error) {
	var J float64
	for _, ip := range o.IntPoints {
		J, err = o.CalcAtR(nil, nil, x, ip[:3])
		if err != nil {
			return 0, err
		}
		vol += J * ip[3]
	}
	return
}

// InvMap computes the natural coordinates r corresponding to the real
// point y, by Newton iterations. It fails explicitly on non-convergence
// or on a degenerate Jacobian.
//  y[gndim]         -- real point coordinates
//  x[gndim][nverts] -- coordinates matrix of the cell
func (o *Shape) InvMap(r, y []float64, x [][]float64) (err error) {

	s := make([]float64, o.Nverts)
	dSdR := la.MatAlloc(o.Nverts, o.Gndim)
	dxdR := la.MatAlloc(o.Gndim, o.Gndim)
	dRdx := la.MatAlloc(o.Gndim, o.Gndim)
	e := make([]float64, o.Gndim)  // residual
	δr := make([]float64, o.Gndim) // corrector

	// first trial
	for i := 0; i < o.Gndim; i++ {
		r[i] = 0
	}

	for it := 0; it < INVMAP_NIT; it++ {

		// residual: e = y - x * S
		o.Func(s, dSdR, r, true)
		for i := 0; i < o.Gndim; i++ {
			e[i] = y[i]
			for n := 0; n < o.Nverts; n++ {
				e[i] -= x[i][n] * s[n]
			}
		}

		// dxdR := x * dSdR
		for i := 0; i < o.Gndim; i++ {
			for j := 0; j < o.Gndim; j++ {
				dxdR[i][j] = 0
				for n := 0; n < o.Nverts; n++ {
					dxdR[i][j] += x[i][n] * dSdR[n][j]
				}
			}
		}

		// dRdx := inv(dxdR)
		_, err = la.MatInv(dRdx, dxdR, MINDET)
		if err != nil {
			return chk.Err("InvMap: singular Jacobian: %v", err)
		}

		// corrector: δr = dRdx * e
		var δRnorm float64
		for i := 0; i < o.Gndim; i++ {
			δr[i] = 0
			for j := 0; j < o.Gndim; j++ {
				δr[i] += dRdx[i][j] * e[j]
			}
			r[i] += δr[i]
			δRnorm += δr[i] * δr[i]
		}

		// snap r to the natural range boundary
		for i := 0; i < o.Gndim; i++ {
			if math.Abs(r[i]-(-1.0)) < INVMAP_TOL {
				r[i] = -1.0
			}
			if math.Abs(r[i]-1.0) < INVMAP_TOL {
				r[i] = 1.0
			}
		}

		if math.Sqrt(δRnorm) < INVMAP_TOL {
			return nil
		}
	}
	return chk.Err("InvMap did not converge after %d iterations", INVMAP_NIT)
}
