// Copyright 2018 Hexu Zhen. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package msolid implements constitutive models for material points.
// Stress and strain quantities are 6-component Voigt vectors
// {xx, yy, zz, xy, yz, zx}, in 2D and 3D alike (unused components stay zero).
package msolid

import (
	"errors"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// error kinds returned by models; use errors.Is to classify
var (

	// ErrPrms means invalid, missing or unknown material parameters;
	// a model that returns ErrPrms from Init must refuse any computation
	ErrPrms = errors.New("invalid or missing material parameters")

	// ErrUnsupported means the operation is not meaningful for this model;
	// e.g. the elastic tensor of a rate-dependent model
	ErrUnsupported = errors.New("operation is not supported by model")

	// ErrNdim means the space dimension is outside {2,3}
	ErrNdim = errors.New("space dimension must be 2 or 3")
)

// Point provides live particle data to rate-dependent models.
// It is implemented by mpm.Particle; models hold no reference to it
// beyond the duration of one call.
type Point interface {
	StrainRate(phase int) []float64 // current strain rate [6]
}

// Model defines the capability interface of constitutive models.
// Not every model implements every capability: unsupported entry points
// return an error wrapping ErrUnsupported instead of a wrong result.
type Model interface {

	// Init initialises the model with parameters; ndim must be 2 or 3.
	// On error, the model remains unusable: all compute entry points fail.
	Init(ndim int, prms fun.Prms) error

	// GetPrms gets (an example of) parameters
	GetPrms() fun.Prms

	// GetRho returns density
	GetRho() float64

	// CalcD computes the elastic tensor D [6][6]
	CalcD(D [][]float64) error

	// Update computes σNew for a given stress σ and strain increment Δε,
	// without particle context [6 each]
	Update(σNew, σ, Δε []float64) error

	// UpdateRate computes σNew using live particle data; rate-independent
	// models may simply delegate to Update
	UpdateRate(σNew, σ, Δε []float64, phase int, p Point) error
}

// New returns a new model from the factory
func New(name string) (Model, error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in 'msolid' database", name)
	}
	return allocator(), nil
}

// allocators holds all available models; modelname => allocator
var allocators = map[string]func() Model{}
