// Copyright 2018 Hexu Zhen. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"fmt"

	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/tsr"
)

// LinearElastic implements isotropic linear elasticity (Hooke's law in
// Voigt notation, engineering shear strains). Being rate-independent it
// supports the full capability set; UpdateRate delegates to Update.
type LinearElastic struct {

	// parameters
	ρ float64 // density
	E float64 // Young's modulus
	ν float64 // Poisson's ratio

	// derived
	lam float64 // Lamé λ
	gg  float64 // shear modulus G

	// flag
	ready bool // Init succeeded
}

// add model to factory
func init() {
	allocators["linear_elastic"] = func() Model { return new(LinearElastic) }
}

// Init initialises model
func (o *LinearElastic) Init(ndim int, prms fun.Prms) (err error) {
	if ndim != 2 && ndim != 3 {
		return fmt.Errorf("linear_elastic: ndim=%d: %w", ndim, ErrNdim)
	}
	found := make(map[string]bool)
	for _, p := range prms {
		switch p.N {
		case "density":
			o.ρ = p.V
		case "youngs_modulus":
			o.E = p.V
		case "poisson_ratio":
			o.ν = p.V
		default:
			return fmt.Errorf("linear_elastic: parameter named %q is unknown: %w", p.N, ErrPrms)
		}
		found[p.N] = true
	}
	for _, name := range []string{"density", "youngs_modulus", "poisson_ratio"} {
		if !found[name] {
			return fmt.Errorf("linear_elastic: parameter %q is missing: %w", name, ErrPrms)
		}
	}
	o.lam = o.E * o.ν / ((1.0 + o.ν) * (1.0 - 2.0*o.ν))
	o.gg = Calc_G_from_Enu(o.E, o.ν)
	o.ready = true
	return
}

// GetPrms gets (an example) of parameters
func (o LinearElastic) GetPrms() fun.Prms {
	return []*fun.Prm{
		&fun.Prm{N: "density", V: 1000},
		&fun.Prm{N: "youngs_modulus", V: 1e7},
		&fun.Prm{N: "poisson_ratio", V: 0.3},
	}
}

// GetRho returns density
func (o LinearElastic) GetRho() float64 { return o.ρ }

// CalcD computes the elastic tensor D [6][6]
func (o LinearElastic) CalcD(D [][]float64) error {
	if !o.ready {
		return fmt.Errorf("linear_elastic: model is not initialised: %w", ErrPrms)
	}
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			D[i][j] = o.lam * tsr.Im[i] * tsr.Im[j]
		}
		if i < 3 {
			D[i][i] += 2.0 * o.gg
		} else {
			D[i][i] += o.gg // engineering shear strain carries the 2
		}
	}
	return nil
}

// Update computes σNew = σ + D·Δε
func (o LinearElastic) Update(σNew, σ, Δε []float64) error {
	if !o.ready {
		return fmt.Errorf("linear_elastic: model is not initialised: %w", ErrPrms)
	}
	trΔε := Δε[0] + Δε[1] + Δε[2]
	for i := 0; i < 3; i++ {
		σNew[i] = σ[i] + o.lam*trΔε + 2.0*o.gg*Δε[i]
		σNew[i+3] = σ[i+3] + o.gg*Δε[i+3]
	}
	return nil
}

// UpdateRate delegates to the context-free update
func (o LinearElastic) UpdateRate(σNew, σ, Δε []float64, phase int, p Point) error {
	return o.Update(σNew, σ, Δε)
}
