// Package cpu implements the CPU backend for the alibi attention-bias kernels.
package cpu

import (
	"sync"

	"github.com/born-ml/alibi/internal/parallel"
	"github.com/born-ml/alibi/internal/tensor"
)

// CPUBackend implements the attention-bias kernels on CPU with
// goroutine-based data parallelism.
type CPUBackend struct {
	device   tensor.Device
	parallel parallel.Config

	// gradMu serializes the final commit into the persistent gradient
	// accumulators across concurrently running backward invocations.
	gradMu sync.Mutex
}

// New creates a new CPU backend with default parallelism.
func New() *CPUBackend {
	return &CPUBackend{
		device:   tensor.CPU,
		parallel: parallel.DefaultConfig(),
	}
}

// NewWithParallel creates a CPU backend with explicit parallelism settings.
// Useful for tests that pin the worker count.
func NewWithParallel(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		device:   tensor.CPU,
		parallel: cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}
