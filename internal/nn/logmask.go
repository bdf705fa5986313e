package nn

import (
	"github.com/x448/float16"

	"github.com/born-ml/alibi/internal/tensor"
)

// LogMask converts a multiplicative 0/1 attention mask into an additive
// log mask repeated per head: kept positions map to 0, excluded positions
// map to -saturationBound. This is the plain masking path used when no
// positional bias is wanted; the bias kernels fold the same conversion
// into their min() term instead.
//
// Input mask: [1, batch, 1, keyLen]. Output: [1, batch*heads, 1, keyLen],
// laid out so it broadcasts over the query dimension of the attention
// logits.
func LogMask[T tensor.DType, B tensor.Backend](mask *tensor.Tensor[T, B], numHeads int) *tensor.Tensor[T, B] {
	batch := mask.Shape()[1]
	keyLen := mask.Shape()[3]

	// Negative factor clamped so repeated additions stay finite even in
	// reduced-precision storage.
	factor := -tensor.SaturationBound(mask.DType())

	out := tensor.Zeros[T](tensor.Shape{1, batch * numHeads, 1, keyLen}, mask.Backend())
	maskData := mask.Data()
	outData := out.Data()

	for b := 0; b < batch; b++ {
		for h := 0; h < numHeads; h++ {
			for k := 0; k < keyLen; k++ {
				m := toFloat64(maskData[b*keyLen+k])
				outData[(b*numHeads+h)*keyLen+k] = fromFloat32[T](float32((1 - m) * factor))
			}
		}
	}

	return out
}

// toFloat64 widens a supported floating element to float64.
func toFloat64[T tensor.DType](v T) float64 {
	switch x := any(v).(type) {
	case float32:
		return float64(x)
	case float64:
		return x
	case float16.Float16:
		return float64(x.Float32())
	default:
		panic("logmask: unsupported element type")
	}
}
