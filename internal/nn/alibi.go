// Package nn provides the learnable layer wrapping the alibi bias kernels.
package nn

import (
	"fmt"
	"math"

	"github.com/x448/float16"

	"github.com/born-ml/alibi/internal/tensor"
)

// AlibiBias produces the ALiBi additive attention bias with learnable
// per-head slope and bias parameters.
//
// ALiBi (Attention with Linear Biases) penalizes query-key pairs by their
// distance, scaled by a per-head slope:
//
//	bias[b, n*heads+h, q, k] = min(logMask, slope[h] * |k - q - offset - shift + headBias[h]|)
//
// where logMask maps mask 1 to +saturationBound and mask 0 to
// -saturationBound, so excluded positions always dominate. Unlike the
// fixed-slope formulation, both the slopes and the per-head bias terms
// are trainable; gradients are accumulated per head by the backend's
// backward kernel.
//
// Example:
//
//	backend := cpu.New()
//	layer := nn.NewAlibiBias[float32](8, backend)
//	bias := layer.Forward(mask, nil, 1, seqLen, 0)
//	// bias: [1, batch*8, seqLen, keyLen], add to attention logits
type AlibiBias[T tensor.DType, B tensor.Backend] struct {
	NumHeads int
	Slopes   *Parameter[T, B] // [1, heads, 1, 1]
	Biases   *Parameter[T, B] // [1, heads, 1, 1]
	backend  B
}

// NewAlibiBias creates an AlibiBias layer for the given head count.
//
// Slopes are initialized to the negated geometric sequence from the ALiBi
// paper, -2^(-8/n * (i+1)) for head i of n, so distant positions start out
// penalized. Biases are initialized to zero.
//
// Panics if numHeads is not positive.
func NewAlibiBias[T tensor.DType, B tensor.Backend](numHeads int, backend B) *AlibiBias[T, B] {
	if numHeads <= 0 {
		panic(fmt.Sprintf("AlibiBias: numHeads must be positive, got %d", numHeads))
	}

	slopes := make([]T, numHeads)
	ratio := math.Pow(2, -8.0/float64(numHeads))
	for i := 0; i < numHeads; i++ {
		slopes[i] = fromFloat32[T](-float32(math.Pow(ratio, float64(i+1))))
	}

	paramShape := tensor.Shape{1, numHeads, 1, 1}
	slopeTensor, err := tensor.FromSlice[T](slopes, paramShape, backend)
	if err != nil {
		panic(fmt.Sprintf("AlibiBias: failed to create slopes tensor: %v", err))
	}
	biasTensor := tensor.Zeros[T](paramShape, backend)

	return &AlibiBias[T, B]{
		NumHeads: numHeads,
		Slopes:   NewParameter("alibi.slopes", slopeTensor),
		Biases:   NewParameter("alibi.biases", biasTensor),
		backend:  backend,
	}
}

// Forward computes the bias tensor for the given mask and optional shift.
//
// Parameters:
//   - mask: binary mask [1, batch, 1, keyLen], 1 keeps a key position,
//     0 excludes it
//   - shift: optional per-position offset [beam, batch, queryLen, 1];
//     nil means no shift
//   - beam: beam dimension of the output
//   - queryLen: number of query positions
//   - queryOffset: absolute position of the first query row (incremental
//     decoding)
//
// Returns the bias tensor [beam, batch*heads, queryLen, keyLen], the same
// shape as the attention logits it is added to.
func (a *AlibiBias[T, B]) Forward(mask, shift *tensor.Tensor[T, B], beam, queryLen, queryOffset int) *tensor.Tensor[T, B] {
	batch := mask.Shape()[1]
	keyLen := mask.Shape()[3]

	out := tensor.Zeros[T](tensor.Shape{beam, batch * a.NumHeads, queryLen, keyLen}, a.backend)
	a.backend.AlibiForward(out.Raw(), mask.Raw(), a.Slopes.Tensor().Raw(), a.Biases.Tensor().Raw(),
		rawOrNil(shift), a.NumHeads, queryOffset)
	return out
}

// Backward accumulates per-head gradients for the slope and bias
// parameters from the adjoint of the forward output. mask, shift and
// queryOffset must match the corresponding Forward call. Gradients add
// into the parameter buffers; call ZeroGrad on the parameters to start a
// fresh accumulation cycle.
func (a *AlibiBias[T, B]) Backward(mask, shift, adj *tensor.Tensor[T, B], queryOffset int) {
	a.backend.AlibiBackward(a.Slopes.Grad().Raw(), a.Biases.Grad().Raw(),
		mask.Raw(), a.Slopes.Tensor().Raw(), a.Biases.Tensor().Raw(),
		rawOrNil(shift), adj.Raw(), a.NumHeads, queryOffset)
}

// Parameters returns the trainable parameters.
func (a *AlibiBias[T, B]) Parameters() []*Parameter[T, B] {
	return []*Parameter[T, B]{a.Slopes, a.Biases}
}

func rawOrNil[T tensor.DType, B tensor.Backend](t *tensor.Tensor[T, B]) *tensor.RawTensor {
	if t == nil {
		return nil
	}
	return t.Raw()
}

// fromFloat32 converts a float32 into a supported floating element type.
func fromFloat32[T tensor.DType](v float32) T {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return any(v).(T)
	case float64:
		return any(float64(v)).(T)
	case float16.Float16:
		return any(float16.Fromfloat32(v)).(T)
	default:
		panic(fmt.Sprintf("AlibiBias: unsupported element type %T", dummy))
	}
}
