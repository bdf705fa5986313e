package tensor

import (
	"fmt"
	"unsafe"

	"github.com/x448/float16"
)

// Device represents the compute device for tensor operations.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
	WebGPU
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case WebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

// RawTensor is the low-level tensor representation: a flat byte buffer
// plus shape, stride and type metadata. The bias kernels only read from
// or accumulate into RawTensors they are given; ownership stays with the
// caller and the kernels never allocate or free operand storage.
type RawTensor struct {
	data   []byte
	shape  Shape
	stride []int
	dtype  DataType
	device Device
}

// NewRaw creates a new RawTensor with the given shape and type.
// Memory is allocated and zero-initialized.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	byteSize := shape.NumElements() * dtype.Size()

	return &RawTensor{
		data:   make([]byte, byteSize),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
		device: device,
	}, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's memory strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Device returns the tensor's compute device.
func (r *RawTensor) Device() Device {
	return r.device
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the total memory size in bytes.
func (r *RawTensor) ByteSize() int {
	return r.NumElements() * r.dtype.Size()
}

// Data returns the raw byte slice.
// WARNING: Direct access to underlying memory. Use with caution.
func (r *RawTensor) Data() []byte {
	return r.data
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", r.dtype))
	}
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation, length derived from buffer size
	return unsafe.Slice((*float32)(unsafe.Pointer(&r.data[0])), len(r.data)/4)
}

// AsFloat64 interprets the data as []float64.
// Panics if the tensor's dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 {
	if r.dtype != Float64 {
		panic(fmt.Sprintf("tensor dtype is %s, not float64", r.dtype))
	}
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation, length derived from buffer size
	return unsafe.Slice((*float64)(unsafe.Pointer(&r.data[0])), len(r.data)/8)
}

// AsFloat16 interprets the data as []float16.Float16.
// Panics if the tensor's dtype is not Float16.
func (r *RawTensor) AsFloat16() []float16.Float16 {
	if r.dtype != Float16 {
		panic(fmt.Sprintf("tensor dtype is %s, not float16", r.dtype))
	}
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation, length derived from buffer size
	return unsafe.Slice((*float16.Float16)(unsafe.Pointer(&r.data[0])), len(r.data)/2)
}

// AsInt32 interprets the data as []int32.
// Panics if the tensor's dtype is not Int32.
func (r *RawTensor) AsInt32() []int32 {
	if r.dtype != Int32 {
		panic(fmt.Sprintf("tensor dtype is %s, not int32", r.dtype))
	}
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation, length derived from buffer size
	return unsafe.Slice((*int32)(unsafe.Pointer(&r.data[0])), len(r.data)/4)
}

// AsBool interprets the data as []bool.
// Panics if the tensor's dtype is not Bool.
func (r *RawTensor) AsBool() []bool {
	if r.dtype != Bool {
		panic(fmt.Sprintf("tensor dtype is %s, not bool", r.dtype))
	}
	//nolint:gosec // unsafe.Slice for zero-copy reinterpretation, length derived from buffer size
	return unsafe.Slice((*bool)(unsafe.Pointer(&r.data[0])), len(r.data))
}

// Clone creates a deep copy of the tensor.
func (r *RawTensor) Clone() *RawTensor {
	clone := &RawTensor{
		data:   make([]byte, len(r.data)),
		shape:  r.shape.Clone(),
		stride: make([]int, len(r.stride)),
		dtype:  r.dtype,
		device: r.device,
	}
	copy(clone.data, r.data)
	copy(clone.stride, r.stride)
	return clone
}

// String returns a human-readable representation of the tensor.
func (r *RawTensor) String() string {
	return fmt.Sprintf("RawTensor[%s]%v on %s", r.dtype, r.shape, r.device)
}
