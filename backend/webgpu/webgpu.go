// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU backend for GPU-accelerated bias
// computation. The forward pass runs as a WGSL compute shader; the
// backward reduction falls back to the CPU implementation.
//
// Example:
//
//	gpu, err := webgpu.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gpu.Release()
package webgpu

import (
	internalwebgpu "github.com/born-ml/alibi/internal/backend/webgpu"
	"github.com/born-ml/alibi/tensor"
)

// Backend represents the WebGPU backend implementation.
type Backend = internalwebgpu.Backend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new WebGPU backend.
//
// Returns an error if WebGPU initialization fails (e.g., no compatible
// GPU or native library). Call Release() when done to free GPU resources.
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable checks if WebGPU is available on the current system.
//
// Example:
//
//	if webgpu.IsAvailable() {
//	    backend, _ = webgpu.New()
//	} else {
//	    backend = cpu.New()
//	}
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
