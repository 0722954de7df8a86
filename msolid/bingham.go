// Copyright 2018 Hexu Zhen. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"fmt"
	"math"

	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/tsr"
)

// Bingham implements the Bingham viscoplastic model: rigid below the yield
// stress tau0, flowing with apparent viscosity above it. The model is
// rate-dependent: the stress update needs the live strain rate of the
// material point, hence only UpdateRate is supported.
type Bingham struct {

	// parameters
	ρ    float64 // density
	E    float64 // Young's modulus
	ν    float64 // Poisson's ratio
	τy0  float64 // yield stress tau0
	μ    float64 // plastic viscosity
	γcr  float64 // critical shear rate (floored at GCR_MIN)
	ndim int     // space dimension

	// derived
	kk float64 // bulk modulus K = E / (3(1-2ν))

	// flag
	ready bool // Init succeeded
}

// GCR_MIN is the floor for the critical shear rate, avoiding division blow-up
const GCR_MIN = 1.0e-15

// binghamprms are the required parameter names
var binghamprms = []string{"density", "youngs_modulus", "poisson_ratio", "tau0", "mu", "critical_shear_rate"}

// add model to factory
func init() {
	allocators["bingham"] = func() Model { return new(Bingham) }
}

// Init initialises model
func (o *Bingham) Init(ndim int, prms fun.Prms) (err error) {

	// check ndim
	if ndim != 2 && ndim != 3 {
		return fmt.Errorf("bingham: ndim=%d: %w", ndim, ErrNdim)
	}
	o.ndim = ndim

	// parse parameters
	found := make(map[string]bool)
	for _, p := range prms {
		switch p.N {
		case "density":
			o.ρ = p.V
		case "youngs_modulus":
			o.E = p.V
		case "poisson_ratio":
			o.ν = p.V
		case "tau0":
			o.τy0 = p.V
		case "mu":
			o.μ = p.V
		case "critical_shear_rate":
			o.γcr = p.V
		default:
			return fmt.Errorf("bingham: parameter named %q is unknown: %w", p.N, ErrPrms)
		}
		found[p.N] = true
	}
	for _, name := range binghamprms {
		if !found[name] {
			return fmt.Errorf("bingham: parameter %q is missing: %w", name, ErrPrms)
		}
	}

	// derived
	o.kk = Calc_K_from_Enu(o.E, o.ν)
	if o.γcr < GCR_MIN {
		o.γcr = GCR_MIN
	}
	o.ready = true
	return
}

// GetPrms gets (an example) of parameters
func (o Bingham) GetPrms() fun.Prms {
	return []*fun.Prm{
		&fun.Prm{N: "density", V: 1000},
		&fun.Prm{N: "youngs_modulus", V: 1e7},
		&fun.Prm{N: "poisson_ratio", V: 0.3},
		&fun.Prm{N: "tau0", V: 200},
		&fun.Prm{N: "mu", V: 1},
		&fun.Prm{N: "critical_shear_rate", V: 1e-3},
	}
}

// GetRho returns density
func (o Bingham) GetRho() float64 { return o.ρ }

// CalcD is not meaningful for this rate-dependent model
func (o Bingham) CalcD(D [][]float64) error {
	return fmt.Errorf("bingham: elastic tensor: %w", ErrUnsupported)
}

// Update without particle context is not possible: the model needs the
// live strain rate, available only through UpdateRate
func (o Bingham) Update(σNew, σ, Δε []float64) error {
	return fmt.Errorf("bingham: context-free stress update: %w", ErrUnsupported)
}

// UpdateRate computes σNew for given σ, Δε and the particle's strain rate.
// The shear-rate magnitude is 2·(rate·rate) over all six Voigt components;
// note this is not the conventional second invariant.
func (o *Bingham) UpdateRate(σNew, σ, Δε []float64, phase int, p Point) (err error) {

	// guard: must be initialised
	if !o.ready {
		return fmt.Errorf("bingham: model is not initialised: %w", ErrPrms)
	}

	// strain rate from particle
	γ := p.StrainRate(phase)

	// pressure update
	pOld := (σ[0] + σ[1] + σ[2]) / 3.0
	pNew := pOld + o.kk*(Δε[0]+Δε[1]+Δε[2])

	// shear rate magnitude
	var γdotγ float64
	for i := 0; i < 6; i++ {
		γdotγ += γ[i] * γ[i]
	}
	srm := 2.0 * γdotγ

	// apparent viscosity modulus; zero (rigid) while unyielded
	var factor float64
	if srm > o.γcr*o.γcr {
		factor = 2.0 * (o.τy0/math.Sqrt(srm) + o.μ)
	}

	// deviatoric stress
	var τ [6]float64
	var inv2 float64
	for i := 0; i < 6; i++ {
		τ[i] = factor * γ[i]
		inv2 += τ[i] * τ[i]
	}

	// snap to zero near yield to regularise numerical noise
	if inv2 < 2.0*o.τy0*o.τy0 {
		for i := 0; i < 6; i++ {
			τ[i] = 0
		}
	}

	// assemble
	for i := 0; i < 6; i++ {
		σNew[i] = 0
	}
	switch o.ndim {
	case 3:
		for i := 0; i < 6; i++ {
			σNew[i] = pNew*tsr.Im[i] + τ[i]
		}
	case 2:
		σNew[0] = τ[0] + pNew
		σNew[1] = τ[1] + pNew
		σNew[3] = τ[3]
	default:
		return fmt.Errorf("bingham: ndim=%d: %w", o.ndim, ErrNdim)
	}
	return
}
