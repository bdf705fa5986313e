//go:build windows

package webgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/born-ml/alibi/internal/tensor"
)

// AlibiForward computes the attention bias, dispatching float32 tensors
// with canonical operand layouts to the GPU kernel and everything else to
// the CPU fallback. See tensor.Backend for shapes and conventions.
func (b *Backend) AlibiForward(out, mask, slopes, biases, shift *tensor.RawTensor, heads, queryOffset int) {
	if out.DType() == tensor.Float32 && b.canonicalLayout(out, mask, shift, heads) {
		if err := b.alibiForwardGPU(out, mask, slopes, biases, shift, heads, queryOffset); err == nil {
			return
		}
	}
	b.fallback.AlibiForward(out, mask, slopes, biases, shift, heads, queryOffset)
}

// AlibiBackward runs the per-head gradient reduction on the CPU fallback.
// The reduction is bandwidth-bound and accumulates into caller-owned
// buffers, which the readback-based GPU path cannot do atomically.
func (b *Backend) AlibiBackward(slopesGrad, biasesGrad, mask, slopes, biases, shift, adj *tensor.RawTensor, heads, queryOffset int) {
	b.fallback.AlibiBackward(slopesGrad, biasesGrad, mask, slopes, biases, shift, adj, heads, queryOffset)
}

// canonicalLayout reports whether the operands use the exact layouts the
// WGSL kernel indexes: mask [1, batch, 1, key] and shift
// [beam, batch, query, 1]. Other broadcast-compatible layouts run on CPU.
func (b *Backend) canonicalLayout(out, mask, shift *tensor.RawTensor, heads int) bool {
	o := out.Shape()
	batch := o[1] / heads

	m := mask.Shape()
	if len(m) != 4 || m[0] != 1 || m[1] != batch || m[2] != 1 || m[3] != o[3] {
		return false
	}
	if shift != nil {
		s := shift.Shape()
		if len(s) != 4 || s[0] != o[0] || s[1] != batch || s[2] != o[2] || s[3] != 1 {
			return false
		}
	}
	return true
}

func (b *Backend) alibiForwardGPU(out, mask, slopes, biases, shift *tensor.RawTensor, heads, queryOffset int) error {
	o := out.Shape()
	beam, batchHeads, query, key := o[0], o[1], o[2], o[3]
	batch := batchHeads / heads

	shader := b.compileShader("alibi_forward", alibiForwardShader)
	pipeline := b.getOrCreatePipeline("alibi_forward", shader)

	bufferMask := b.createBuffer(mask.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferMask.Release()

	bufferSlopes := b.createBuffer(slopes.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferSlopes.Release()

	bufferBiases := b.createBuffer(biases.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferBiases.Release()

	// WGSL requires every binding to be populated; bind a one-element
	// placeholder when no shift tensor is given.
	shiftData := []byte{0, 0, 0, 0}
	hasShift := uint32(0)
	if shift != nil {
		shiftData = shift.Data()
		hasShift = 1
	}
	bufferShift := b.createBuffer(shiftData, wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	defer bufferShift.Release()

	outputSize := uint64(out.ByteSize()) //nolint:gosec // G115: buffer size fits in uint64
	bufferOutput := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc,
		Size:  outputSize,
	})
	defer bufferOutput.Release()

	bound := float32(tensor.SaturationBound(tensor.Float32))

	// struct Params { beam, batch, heads, query, key, query_offset (i32), has_shift, bound (f32) }
	params := make([]byte, 32) // 8 x 4-byte fields
	//nolint:gosec // G115: dimensions come from validated shapes
	binary.LittleEndian.PutUint32(params[0:4], uint32(beam))
	//nolint:gosec // G115: dimensions come from validated shapes
	binary.LittleEndian.PutUint32(params[4:8], uint32(batch))
	//nolint:gosec // G115: dimensions come from validated shapes
	binary.LittleEndian.PutUint32(params[8:12], uint32(heads))
	//nolint:gosec // G115: dimensions come from validated shapes
	binary.LittleEndian.PutUint32(params[12:16], uint32(query))
	//nolint:gosec // G115: dimensions come from validated shapes
	binary.LittleEndian.PutUint32(params[16:20], uint32(key))
	//nolint:gosec // G115: queryOffset fits in int32 for any realistic sequence
	binary.LittleEndian.PutUint32(params[20:24], uint32(int32(queryOffset)))
	binary.LittleEndian.PutUint32(params[24:28], hasShift)
	binary.LittleEndian.PutUint32(params[28:32], math.Float32bits(bound))

	bufferParams := b.createUniformBuffer(params)
	defer bufferParams.Release()

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, []wgpu.BindGroupEntry{
		wgpu.BufferBindingEntry(0, bufferMask, 0, uint64(mask.ByteSize())),     //nolint:gosec // G115: buffer size fits
		wgpu.BufferBindingEntry(1, bufferSlopes, 0, uint64(slopes.ByteSize())), //nolint:gosec // G115: buffer size fits
		wgpu.BufferBindingEntry(2, bufferBiases, 0, uint64(biases.ByteSize())), //nolint:gosec // G115: buffer size fits
		wgpu.BufferBindingEntry(3, bufferShift, 0, uint64(len(shiftData))),
		wgpu.BufferBindingEntry(4, bufferOutput, 0, outputSize),
		wgpu.BufferBindingEntry(5, bufferParams, 0, 32),
	})
	defer bindGroup.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)
	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)

	numElements := out.NumElements()
	workgroups := uint32((numElements + workgroupSize - 1) / workgroupSize) //nolint:gosec // G115: safe cast
	computePass.DispatchWorkgroups(workgroups, 1, 1)
	computePass.End()

	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)

	resultData, err := b.readBuffer(bufferOutput, outputSize)
	if err != nil {
		return fmt.Errorf("alibi forward: failed to read output: %w", err)
	}

	copy(out.Data(), resultData)
	return nil
}
