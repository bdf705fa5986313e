package tensor

import (
	"math"
	"strings"
	"testing"
)

func TestAccumType(t *testing.T) {
	if got := AccumType(Float32); got != Float64 {
		t.Errorf("AccumType(Float32) = %s, want float64", got)
	}
	if got := AccumType(Float16); got != Float64 {
		t.Errorf("AccumType(Float16) = %s, want float64", got)
	}
}

func TestAccumType_UnsupportedPanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for int32 storage")
		}
		if !strings.Contains(r.(string), "int32") {
			t.Errorf("panic message %q does not name the offending type", r)
		}
	}()
	AccumType(Int32)
}

func TestSaturationBound(t *testing.T) {
	// Float32's half-max far exceeds the cap, so the cap wins.
	if got := SaturationBound(Float32); got != 99999999.0 {
		t.Errorf("SaturationBound(Float32) = %v, want 99999999", got)
	}
	// Float16's half-max is below the cap.
	if got := SaturationBound(Float16); got != 32752.0 {
		t.Errorf("SaturationBound(Float16) = %v, want 32752", got)
	}
}

func TestSaturationBound_FitsStorage(t *testing.T) {
	if b := SaturationBound(Float32); 2*b > math.MaxFloat32 {
		t.Errorf("2*bound %v overflows float32", 2*b)
	}
	if b := SaturationBound(Float16); 2*b > maxFiniteFloat16 {
		t.Errorf("2*bound %v overflows float16", 2*b)
	}
}

func TestSaturationBound_UnsupportedPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for bool storage")
		}
	}()
	SaturationBound(Bool)
}
