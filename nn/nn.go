// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the learnable ALiBi bias layer.
package nn

import (
	"github.com/born-ml/alibi/internal/nn"
	"github.com/born-ml/alibi/internal/tensor"
)

// Parameter represents a trainable parameter of the bias layer.
type Parameter[T tensor.DType, B tensor.Backend] = nn.Parameter[T, B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[T tensor.DType, B tensor.Backend](name string, t *tensor.Tensor[T, B]) *Parameter[T, B] {
	return nn.NewParameter(name, t)
}

// AlibiBias produces the ALiBi additive attention bias with learnable
// per-head slope and bias parameters.
type AlibiBias[T tensor.DType, B tensor.Backend] = nn.AlibiBias[T, B]

// NewAlibiBias creates an AlibiBias layer for the given head count.
//
// Example:
//
//	backend := cpu.New()
//	layer := nn.NewAlibiBias[float32](8, backend)
func NewAlibiBias[T tensor.DType, B tensor.Backend](numHeads int, backend B) *AlibiBias[T, B] {
	return nn.NewAlibiBias[T](numHeads, backend)
}

// LogMask converts a multiplicative 0/1 attention mask into an additive
// log mask repeated per head.
func LogMask[T tensor.DType, B tensor.Backend](mask *tensor.Tensor[T, B], numHeads int) *tensor.Tensor[T, B] {
	return nn.LogMask(mask, numHeads)
}
