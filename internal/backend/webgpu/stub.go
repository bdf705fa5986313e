//go:build !windows

// Package webgpu implements the WebGPU backend for the alibi attention-bias
// kernels. On platforms without the wgpu_native build, this stub reports
// the backend as unavailable; use the CPU backend instead.
package webgpu

import (
	"errors"

	"github.com/born-ml/alibi/internal/tensor"
)

// Backend is the WebGPU backend placeholder for unsupported platforms.
type Backend struct{}

// New reports that WebGPU is not available on this platform.
func New() (*Backend, error) {
	return nil, errors.New("webgpu: not available on this platform")
}

// IsAvailable returns false on platforms without WebGPU support.
func IsAvailable() bool {
	return false
}

// Release is a no-op on unsupported platforms.
func (b *Backend) Release() {}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "webgpu"
}

// Device returns the compute device.
func (b *Backend) Device() tensor.Device {
	return tensor.WebGPU
}

// AlibiForward panics: the backend cannot be constructed on this platform.
func (b *Backend) AlibiForward(out, mask, slopes, biases, shift *tensor.RawTensor, heads, queryOffset int) {
	panic("webgpu: not available on this platform")
}

// AlibiBackward panics: the backend cannot be constructed on this platform.
func (b *Backend) AlibiBackward(slopesGrad, biasesGrad, mask, slopes, biases, shift, adj *tensor.RawTensor, heads, queryOffset int) {
	panic("webgpu: not available on this platform")
}
