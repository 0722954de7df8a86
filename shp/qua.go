// Copyright 2018 Hexu Zhen. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import "math"

// Qua4 calculates the shape functions and derivatives of a 4-node quadrilateral
//
//	3-----------2
//	|     s     |
//	|     |     |
//	|     +--r  |
//	|           |
//	|           |
//	0-----------1
func Qua4(S []float64, dSdR [][]float64, r []float64, derivs bool) {
	s, t := r[0], r[1]
	S[0] = (1.0 - s) * (1.0 - t) / 4.0
	S[1] = (1.0 + s) * (1.0 - t) / 4.0
	S[2] = (1.0 + s) * (1.0 + t) / 4.0
	S[3] = (1.0 - s) * (1.0 + t) / 4.0
	if !derivs {
		return
	}
	dSdR[0][0] = -(1.0 - t) / 4.0
	dSdR[0][1] = -(1.0 - s) / 4.0
	dSdR[1][0] = (1.0 - t) / 4.0
	dSdR[1][1] = -(1.0 + s) / 4.0
	dSdR[2][0] = (1.0 + t) / 4.0
	dSdR[2][1] = (1.0 + s) / 4.0
	dSdR[3][0] = -(1.0 + t) / 4.0
	dSdR[3][1] = (1.0 - s) / 4.0
}

func init() {
	g := 1.0 / math.Sqrt(3.0)
	factory["qua4"] = &Shape{
		Type:   "qua4",
		Func:   Qua4,
		Gndim:  2,
		Nverts: 4,
		NatCoords: [][]float64{
			{-1, 1, 1, -1},
			{-1, -1, 1, 1},
		},
		IntPoints: [][]float64{
			{-g, -g, 0, 1},
			{g, -g, 0, 1},
			{g, g, 0, 1},
			{-g, g, 0, 1},
		},
	}
}
