package cpu

import (
	"fmt"
	"math"

	"github.com/x448/float16"

	"github.com/born-ml/alibi/internal/parallel"
	"github.com/born-ml/alibi/internal/tensor"
)

// AlibiForward computes the additive attention bias for every element of
// out, in parallel. See tensor.Backend for shapes and conventions.
//
// Per output element at (beam, batchHead, query, key):
//
//	batch   = batchHead / heads
//	head    = batchHead % heads
//	relPos  = key - (query + queryOffset) - shift[beam, batch, query]
//	alibi   = slope[head] * |relPos + bias[head]|
//	logMask = (2*mask[batch, key] - 1) * saturationBound
//	out     = min(logMask, alibi)
//
// The mask term dominates when it excludes a position: mask 0 maps to
// -saturationBound, which is below any alibi value the bound admits.
func (cpu *CPUBackend) AlibiForward(out, mask, slopes, biases, shift *tensor.RawTensor, heads, queryOffset int) {
	switch out.DType() {
	case tensor.Float32:
		cpu.alibiForwardFloat32(out, mask, slopes, biases, shift, heads, queryOffset)
	case tensor.Float16:
		cpu.alibiForwardFloat16(out, mask, slopes, biases, shift, heads, queryOffset)
	default:
		panic(fmt.Sprintf("alibi forward: unsupported dtype %s (only float32/float16 supported)", out.DType()))
	}
}

func (cpu *CPUBackend) alibiForwardFloat32(out, mask, slopes, biases, shift *tensor.RawTensor, heads, queryOffset int) {
	outIx := tensor.NewIndexer(out.Shape())
	collapsed := outIx.Collapse(1, heads).Shape()

	maskStrides := tensor.BroadcastStrides(mask.Shape(), collapsed)
	maskData := mask.AsFloat32()

	var shiftStrides [4]int
	var shiftData []float32
	if shift != nil {
		shiftStrides = tensor.BroadcastStrides(shift.Shape(), collapsed)
		shiftData = shift.AsFloat32()
	}

	outData := out.AsFloat32()
	slopeData := slopes.AsFloat32()
	biasData := biases.AsFloat32()
	bound := tensor.SaturationBound(tensor.Float32)

	parallel.For(outIx.NumElements(), func(i int) {
		beam, bh, q, k := outIx.Coords(i)
		batch := bh / heads
		head := bh % heads

		relPos := float64(k) - float64(q+queryOffset)
		if shiftData != nil {
			relPos -= float64(shiftData[tensor.BroadcastOffset(shiftStrides, beam, batch, q, k)])
		}

		alibi := float64(slopeData[head]) * math.Abs(relPos+float64(biasData[head]))
		m := float64(maskData[tensor.BroadcastOffset(maskStrides, beam, batch, q, k)])
		logMask := (2*m - 1) * bound

		outData[i] = float32(math.Min(logMask, alibi))
	}, cpu.parallel)
}

func (cpu *CPUBackend) alibiForwardFloat16(out, mask, slopes, biases, shift *tensor.RawTensor, heads, queryOffset int) {
	outIx := tensor.NewIndexer(out.Shape())
	collapsed := outIx.Collapse(1, heads).Shape()

	maskStrides := tensor.BroadcastStrides(mask.Shape(), collapsed)
	maskData := mask.AsFloat16()

	var shiftStrides [4]int
	var shiftData []float16.Float16
	if shift != nil {
		shiftStrides = tensor.BroadcastStrides(shift.Shape(), collapsed)
		shiftData = shift.AsFloat16()
	}

	outData := out.AsFloat16()
	slopeData := slopes.AsFloat16()
	biasData := biases.AsFloat16()
	bound := tensor.SaturationBound(tensor.Float16)

	parallel.For(outIx.NumElements(), func(i int) {
		beam, bh, q, k := outIx.Coords(i)
		batch := bh / heads
		head := bh % heads

		relPos := float64(k) - float64(q+queryOffset)
		if shiftData != nil {
			relPos -= float64(shiftData[tensor.BroadcastOffset(shiftStrides, beam, batch, q, k)].Float32())
		}

		alibi := float64(slopeData[head].Float32()) * math.Abs(relPos+float64(biasData[head].Float32()))
		m := float64(maskData[tensor.BroadcastOffset(maskStrides, beam, batch, q, k)].Float32())
		logMask := (2*m - 1) * bound

		outData[i] = float16.Fromfloat32(float32(math.Min(logMask, alibi)))
	}, cpu.parallel)
}
