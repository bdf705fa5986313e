package tensor

import (
	"fmt"
	"math"
)

// maskFactorCap bounds the saturation value used when masking out
// positions, so that downstream additions cannot overflow even in
// reduced-precision storage.
const maskFactorCap = 99999999.0

// maxFiniteFloat16 is the largest finite value representable in IEEE 754
// binary16 (the x448/float16 storage format).
const maxFiniteFloat16 = 65504.0

// AccumType returns the data type used for internal accumulation when
// reducing tensors of the given storage type. Accumulation always happens
// in the widest floating type regardless of how values are stored.
// Panics if the storage type is not a supported floating representation.
func AccumType(storage DataType) DataType {
	switch storage {
	case Float32, Float16:
		return Float64
	default:
		panic(fmt.Sprintf("numeric: unsupported storage dtype %s (only float32/float16 supported)", storage))
	}
}

// SaturationBound returns the clamped large value substituted for
// "effectively negative infinity" when masking out disallowed positions.
// It is half the maximum finite value of the storage type, capped so the
// masked value stays within safe range for any supported representation.
// Panics if the storage type is not a supported floating representation.
func SaturationBound(storage DataType) float64 {
	switch storage {
	case Float32:
		return math.Min(math.MaxFloat32/2, maskFactorCap)
	case Float16:
		return math.Min(maxFiniteFloat16/2, maskFactorCap)
	default:
		panic(fmt.Sprintf("numeric: unsupported storage dtype %s (only float32/float16 supported)", storage))
	}
}
