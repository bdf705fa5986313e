// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for the tensor types used by the
// alibi attention-bias kernels.
//
// The package defines core interfaces and types:
//   - Tensor[T, B]: high-level generic tensor with type safety
//   - RawTensor: low-level tensor for backend kernels
//   - Backend: interface for device-specific kernel implementations
//   - Shape, DataType, Device, Indexer: core type definitions
//
// Example:
//
//	backend := cpu.New()
//	mask := tensor.Zeros[float32](tensor.Shape{1, 2, 1, 16}, backend)
package tensor

import (
	"github.com/born-ml/alibi/internal/tensor"
)

// Type aliases for public API

// DType is a constraint for tensor element types.
// Supported types: float32, float64, float16.Float16, int32, bool.
type DType = tensor.DType

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Float16 DataType = tensor.Float16
	Int32   DataType = tensor.Int32
	Bool    DataType = tensor.Bool
)

// Device represents the compute device.
type Device = tensor.Device

// Device constants.
const (
	CPU    Device = tensor.CPU
	WebGPU Device = tensor.WebGPU
)

// Shape represents tensor dimensions.
type Shape = tensor.Shape

// Indexer converts between linear indices and rank-4 coordinates.
type Indexer = tensor.Indexer

// RawTensor is the low-level tensor representation.
type RawTensor = tensor.RawTensor

// Backend is the interface compute backends implement.
type Backend = tensor.Backend

// Tensor is the generic type-safe tensor.
type Tensor[T DType, B Backend] = tensor.Tensor[T, B]

// New creates a Tensor from a RawTensor and backend.
func New[T DType, B Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return tensor.New[T, B](raw, b)
}

// NewRaw creates a new RawTensor with the given shape and type.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// Zeros creates a zero-initialized tensor with the given shape.
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Zeros[T](shape, b)
}

// FromSlice creates a tensor from a Go slice.
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	return tensor.FromSlice[T](data, shape, b)
}

// NewIndexer creates an Indexer for a rank-4 shape.
func NewIndexer(shape Shape) Indexer {
	return tensor.NewIndexer(shape)
}

// BroadcastShapes implements NumPy-style broadcasting rules.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	return tensor.BroadcastShapes(a, b)
}

// AccumType returns the accumulation type for a storage type.
func AccumType(storage DataType) DataType {
	return tensor.AccumType(storage)
}

// SaturationBound returns the clamped masking value for a storage type.
func SaturationBound(storage DataType) float64 {
	return tensor.SaturationBound(storage)
}
