//go:build windows

// Package webgpu implements the WebGPU backend for the alibi attention-bias
// kernels. Uses go-webgpu (github.com/go-webgpu/webgpu) for zero-CGO WebGPU
// bindings. The forward pass runs as a WGSL compute shader; the backward
// reduction and non-float32 storage fall back to the CPU backend.
package webgpu

import (
	"fmt"
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/born-ml/alibi/internal/backend/cpu"
	"github.com/born-ml/alibi/internal/tensor"
)

// Backend implements the attention-bias kernels on GPU using WebGPU.
type Backend struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	// Shader and pipeline cache
	shaders   map[string]*wgpu.ShaderModule
	pipelines map[string]*wgpu.ComputePipeline
	mu        sync.RWMutex

	// fallback runs the backward reduction and any configuration the GPU
	// path does not cover.
	fallback *cpu.CPUBackend
}

// New creates a new WebGPU backend.
// Returns an error if WebGPU is not available or initialization fails.
func New() (backend *Backend, err error) {
	// Recover from panic if the wgpu_native library is not found.
	defer func() {
		if r := recover(); r != nil {
			backend = nil
			err = fmt.Errorf("webgpu: native library not available: %v", r)
		}
	}()

	instance := wgpu.CreateInstance(nil)
	adapter, adapterErr := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if adapterErr != nil {
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request adapter: %w", adapterErr)
	}

	device, deviceErr := adapter.RequestDevice(nil)
	if deviceErr != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to request device: %w", deviceErr)
	}

	queue := device.GetQueue()
	if queue == nil {
		device.Release()
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: failed to get queue")
	}

	return &Backend{
		instance:  instance,
		adapter:   adapter,
		device:    device,
		queue:     queue,
		shaders:   make(map[string]*wgpu.ShaderModule),
		pipelines: make(map[string]*wgpu.ComputePipeline),
		fallback:  cpu.New(),
	}, nil
}

// IsAvailable checks if WebGPU is available on the current system.
// Useful for graceful fallback to the CPU backend when no compatible GPU
// or driver is present.
func IsAvailable() bool {
	b, err := New()
	if err != nil {
		return false
	}
	b.Release()
	return true
}

// Release releases all WebGPU resources.
// Must be called when the backend is no longer needed.
func (b *Backend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, pipeline := range b.pipelines {
		pipeline.Release()
	}
	b.pipelines = make(map[string]*wgpu.ComputePipeline)

	for _, shader := range b.shaders {
		shader.Release()
	}
	b.shaders = make(map[string]*wgpu.ShaderModule)

	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "webgpu"
}

// Device returns the compute device.
func (b *Backend) Device() tensor.Device {
	return tensor.WebGPU
}
