package cpu

import (
	"fmt"
	"math"

	"github.com/x448/float16"

	"github.com/born-ml/alibi/internal/parallel"
	"github.com/born-ml/alibi/internal/tensor"
)

// AlibiBackward reduces the adjoint tensor into per-head slope and bias
// gradients, adding into slopesGrad and biasesGrad. See tensor.Backend
// for shapes and conventions.
//
// Per adjoint element (same coordinate decoding as the forward pass):
//
//	signed = relPos + bias[head]
//	dSlope = mask * |signed| * adj
//	dBias  = mask * slope[head] * sign(signed) * adj, sign(0) = 0
//
// Each head forms an independent worker group. Within a group, columns
// (all beam/batch/query/key combinations for that head) are assigned to
// workers in a strided pattern, each worker accumulates a local partial
// sum in float64, and the partials are combined with a binary tree
// reduction synchronized by a barrier. Worker 0 then commits the group
// total under the backend's gradient mutex, so concurrent invocations
// accumulating into the same buffers never lose updates.
func (cpu *CPUBackend) AlibiBackward(slopesGrad, biasesGrad, mask, slopes, biases, shift, adj *tensor.RawTensor, heads, queryOffset int) {
	switch adj.DType() {
	case tensor.Float32:
		cpu.alibiBackwardFloat32(slopesGrad, biasesGrad, mask, slopes, biases, shift, adj, heads, queryOffset)
	case tensor.Float16:
		cpu.alibiBackwardFloat16(slopesGrad, biasesGrad, mask, slopes, biases, shift, adj, heads, queryOffset)
	default:
		panic(fmt.Sprintf("alibi backward: unsupported dtype %s (only float32/float16 supported)", adj.DType()))
	}
}

// groupWorkers picks the worker count for one head group.
func (cpu *CPUBackend) groupWorkers(heads, columns int) int {
	cfg := cpu.parallel
	if !cfg.Enabled || columns < cfg.MinChunkSize {
		return 1
	}
	w := cfg.NumWorkers / heads
	if w < 1 {
		w = 1
	}
	if w > columns {
		w = columns
	}
	return w
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// reduceHead runs one head's worker team: strided local accumulation,
// tree combine, and the final accumulate into the head's gradient slots
// via commit. contrib evaluates one column's pair of contributions.
// Partial sums are kept at the accumulation width the numeric policy
// assigns to the storage type.
func (cpu *CPUBackend) reduceHead(storage tensor.DataType, workers, columns int, contrib func(col int) (dSlope, dBias float64), commit func(dSlope, dBias float64)) {
	// Scratch for the tree reduction, scoped to this one call.
	var ds, db []float64
	switch accum := tensor.AccumType(storage); accum {
	case tensor.Float64:
		ds = make([]float64, workers)
		db = make([]float64, workers)
	default:
		panic(fmt.Sprintf("alibi backward: no %s accumulator", accum))
	}

	parallel.Team(workers, func(w int, barrier *parallel.Barrier) {
		var sumSlope, sumBias float64
		for c := w; c < columns; c += workers {
			s, b := contrib(c)
			sumSlope += s
			sumBias += b
		}
		ds[w] = sumSlope
		db[w] = sumBias

		// Binary tree combine: each step pairs active workers and halves
		// their count, with a barrier between steps.
		for stride := 1; stride < workers; stride *= 2 {
			barrier.Wait()
			if w%(2*stride) == 0 && w+stride < workers {
				ds[w] += ds[w+stride]
				db[w] += db[w+stride]
			}
		}
		barrier.Wait()

		if w == 0 {
			cpu.gradMu.Lock()
			commit(ds[0], db[0])
			cpu.gradMu.Unlock()
		}
	})
}

func (cpu *CPUBackend) alibiBackwardFloat32(slopesGrad, biasesGrad, mask, slopes, biases, shift, adj *tensor.RawTensor, heads, queryOffset int) {
	adjIx := tensor.NewIndexer(adj.Shape())
	collapsed := adjIx.Collapse(1, heads)
	columns := collapsed.NumElements()

	maskStrides := tensor.BroadcastStrides(mask.Shape(), collapsed.Shape())
	maskData := mask.AsFloat32()

	var shiftStrides [4]int
	var shiftData []float32
	if shift != nil {
		shiftStrides = tensor.BroadcastStrides(shift.Shape(), collapsed.Shape())
		shiftData = shift.AsFloat32()
	}

	adjData := adj.AsFloat32()
	slopeData := slopes.AsFloat32()
	biasData := biases.AsFloat32()
	sgData := slopesGrad.AsFloat32()
	bgData := biasesGrad.AsFloat32()

	workers := cpu.groupWorkers(heads, columns)

	runHead := func(h int) {
		slope := float64(slopeData[h])
		bias := float64(biasData[h])

		cpu.reduceHead(tensor.Float32, workers, columns, func(col int) (float64, float64) {
			beam, batch, q, k := collapsed.Coords(col)
			i := adjIx.Linear(beam, batch*heads+h, q, k)

			relPos := float64(k) - float64(q+queryOffset)
			if shiftData != nil {
				relPos -= float64(shiftData[tensor.BroadcastOffset(shiftStrides, beam, batch, q, k)])
			}

			signed := relPos + bias
			m := float64(maskData[tensor.BroadcastOffset(maskStrides, beam, batch, q, k)])
			a := float64(adjData[i])

			return m * math.Abs(signed) * a, m * slope * sign(signed) * a
		}, func(dSlope, dBias float64) {
			sgData[h] += float32(dSlope)
			bgData[h] += float32(dBias)
		})
	}

	if cpu.parallel.Enabled {
		parallel.Groups(heads, runHead)
	} else {
		for h := 0; h < heads; h++ {
			runHead(h)
		}
	}
}

func (cpu *CPUBackend) alibiBackwardFloat16(slopesGrad, biasesGrad, mask, slopes, biases, shift, adj *tensor.RawTensor, heads, queryOffset int) {
	adjIx := tensor.NewIndexer(adj.Shape())
	collapsed := adjIx.Collapse(1, heads)
	columns := collapsed.NumElements()

	maskStrides := tensor.BroadcastStrides(mask.Shape(), collapsed.Shape())
	maskData := mask.AsFloat16()

	var shiftStrides [4]int
	var shiftData []float16.Float16
	if shift != nil {
		shiftStrides = tensor.BroadcastStrides(shift.Shape(), collapsed.Shape())
		shiftData = shift.AsFloat16()
	}

	adjData := adj.AsFloat16()
	slopeData := slopes.AsFloat16()
	biasData := biases.AsFloat16()
	sgData := slopesGrad.AsFloat16()
	bgData := biasesGrad.AsFloat16()

	workers := cpu.groupWorkers(heads, columns)

	runHead := func(h int) {
		slope := float64(slopeData[h].Float32())
		bias := float64(biasData[h].Float32())

		cpu.reduceHead(tensor.Float16, workers, columns, func(col int) (float64, float64) {
			beam, batch, q, k := collapsed.Coords(col)
			i := adjIx.Linear(beam, batch*heads+h, q, k)

			relPos := float64(k) - float64(q+queryOffset)
			if shiftData != nil {
				relPos -= float64(shiftData[tensor.BroadcastOffset(shiftStrides, beam, batch, q, k)].Float32())
			}

			signed := relPos + bias
			m := float64(maskData[tensor.BroadcastOffset(maskStrides, beam, batch, q, k)].Float32())
			a := float64(adjData[i].Float32())

			return m * math.Abs(signed) * a, m * slope * sign(signed) * a
		}, func(dSlope, dBias float64) {
			sgData[h] = float16.Fromfloat32(sgData[h].Float32() + float32(dSlope))
			bgData[h] = float16.Fromfloat32(bgData[h].Float32() + float32(dBias))
		})
	}

	if cpu.parallel.Enabled {
		parallel.Groups(heads, runHead)
	} else {
		for h := 0; h < heads; h++ {
			runHead(h)
		}
	}
}
