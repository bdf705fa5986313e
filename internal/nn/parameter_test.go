package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/born-ml/alibi/internal/backend/cpu"
	"github.com/born-ml/alibi/internal/tensor"
)

func TestParameter_GradLazyAllocation(t *testing.T) {
	backend := cpu.New()
	p := NewParameter("w", tensor.Zeros[float32](tensor.Shape{1, 4, 1, 1}, backend))

	grad := p.Grad()
	assert.Equal(t, p.Tensor().Shape(), grad.Shape())
	for _, v := range grad.Data() {
		assert.Zero(t, v)
	}

	// Repeated calls return the same buffer.
	grad.Data()[2] = 5
	assert.Equal(t, float32(5), p.Grad().Data()[2])
}

func TestParameter_ZeroGrad(t *testing.T) {
	backend := cpu.New()
	p := NewParameter("w", tensor.Zeros[float32](tensor.Shape{1, 2, 1, 1}, backend))

	p.Grad().Data()[0] = 3
	p.ZeroGrad()

	assert.Zero(t, p.Grad().Data()[0])
}

func TestParameter_Name(t *testing.T) {
	backend := cpu.New()
	p := NewParameter("alibi.slopes", tensor.Zeros[float32](tensor.Shape{1, 1, 1, 1}, backend))
	assert.Equal(t, "alibi.slopes", p.Name())
}
