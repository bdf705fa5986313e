package nn

import (
	"github.com/born-ml/alibi/internal/tensor"
)

// Parameter represents a trainable parameter of the bias layer.
//
// Parameters are tensors that accumulate gradients during training.
// Gradient buffers are allocated lazily on the first backward pass and
// are accumulated into, never overwritten; call ZeroGrad between
// optimizer steps.
type Parameter[T tensor.DType, B tensor.Backend] struct {
	name   string
	tensor *tensor.Tensor[T, B]
	grad   *tensor.Tensor[T, B]
}

// NewParameter creates a new trainable parameter.
// The parameter tensor should be initialized before creating the Parameter.
func NewParameter[T tensor.DType, B tensor.Backend](name string, t *tensor.Tensor[T, B]) *Parameter[T, B] {
	return &Parameter[T, B]{
		name:   name,
		tensor: t,
	}
}

// Name returns the parameter name.
func (p *Parameter[T, B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[T, B]) Tensor() *tensor.Tensor[T, B] {
	return p.tensor
}

// Grad returns the gradient tensor, allocating a zeroed buffer of the
// parameter's shape on first use.
func (p *Parameter[T, B]) Grad() *tensor.Tensor[T, B] {
	if p.grad == nil {
		p.grad = tensor.Zeros[T](p.tensor.Shape(), p.tensor.Backend())
	}
	return p.grad
}

// ZeroGrad clears the gradient buffer.
// Call this before the first accumulation of a training cycle.
func (p *Parameter[T, B]) ZeroGrad() {
	p.grad = nil
}
