// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go CPU backend for the alibi kernels.
//
// The CPU backend executes the forward pass data-parallel across
// goroutines and the backward pass as a two-level reduction: independent
// worker groups per attention head, with a barrier-synchronized tree
// combine inside each group.
package cpu

import (
	internalcpu "github.com/born-ml/alibi/internal/backend/cpu"
	"github.com/born-ml/alibi/internal/parallel"
	"github.com/born-ml/alibi/tensor"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// Config controls parallel execution behavior.
type Config = parallel.Config

// New creates a new CPU backend.
//
// Example:
//
//	backend := cpu.New()
//	out := tensor.Zeros[float32](tensor.Shape{1, 8, 16, 16}, backend)
func New() *Backend {
	return internalcpu.New()
}

// NewWithParallel creates a CPU backend with explicit parallelism settings.
func NewWithParallel(cfg Config) *Backend {
	return internalcpu.NewWithParallel(cfg)
}
