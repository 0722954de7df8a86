// Copyright 2018 Hexu Zhen. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpm

import "errors"

// error kinds returned by particle operations; use errors.Is to classify.
// All are recoverable, per-particle conditions; the only fatal channel is
// the chk.Panic raised on corrupted cell-membership bookkeeping.
var (

	// ErrLocate means coordinates could not be resolved inside a cell
	ErrLocate = errors.New("cannot locate point inside a cell")

	// ErrNoCell means the particle has no cell assigned
	ErrNoCell = errors.New("particle has no cell assigned")

	// ErrNoMaterial means the particle has no material assigned
	ErrNoMaterial = errors.New("particle has no material assigned")

	// ErrNotReady means a stage ran before its prerequisite stage
	ErrNotReady = errors.New("prerequisite stage has not run")
)
