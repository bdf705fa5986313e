package tensor

import "fmt"

// Indexer converts between a linear element index and rank-4 coordinates
// for a fixed tensor shape with row-major layout.
//
// The attention-bias kernels address every operand through one of these:
// the output tensor is enumerated linearly, each linear index is decoded
// into (beam, batchHead, query, key) coordinates, and those coordinates
// are mapped back into differently-shaped operands via broadcast strides.
type Indexer struct {
	shape   Shape
	strides [4]int
}

// NewIndexer creates an Indexer for a rank-4 shape.
// Panics if the shape does not have exactly 4 dimensions.
func NewIndexer(shape Shape) Indexer {
	if len(shape) != 4 {
		panic(fmt.Sprintf("indexer: shape must be rank 4, got %v", shape))
	}
	ix := Indexer{shape: shape.Clone()}
	s := shape.ComputeStrides()
	copy(ix.strides[:], s)
	return ix
}

// Shape returns the indexed shape.
func (ix Indexer) Shape() Shape {
	return ix.shape
}

// NumElements returns the number of addressable elements.
func (ix Indexer) NumElements() int {
	return ix.shape.NumElements()
}

// Coords decodes a linear index into (d0, d1, d2, d3) coordinates.
// The index must be in [0, NumElements()); out-of-range indices are the
// caller's contract violation and produce meaningless coordinates.
func (ix Indexer) Coords(idx int) (d0, d1, d2, d3 int) {
	d0 = idx / ix.strides[0]
	idx %= ix.strides[0]
	d1 = idx / ix.strides[1]
	idx %= ix.strides[1]
	d2 = idx / ix.strides[2]
	d3 = idx % ix.strides[2]
	return d0, d1, d2, d3
}

// Linear encodes (d0, d1, d2, d3) coordinates into a linear index.
func (ix Indexer) Linear(d0, d1, d2, d3 int) int {
	return d0*ix.strides[0] + d1*ix.strides[1] + d2*ix.strides[2] + d3*ix.strides[3]
}

// Collapse returns an Indexer over the same shape with dimension dim
// divided by factor, pinning the factor-sized sub-coordinate for
// enumeration. This is how the backward reduction enumerates all elements
// belonging to one attention head: the fused batch*head dimension is
// collapsed to batch, and the head coordinate is re-inserted by the caller
// through Linear on the full indexer.
func (ix Indexer) Collapse(dim, factor int) Indexer {
	if dim < 0 || dim >= 4 {
		panic(fmt.Sprintf("indexer: collapse dimension %d out of range", dim))
	}
	if factor <= 0 || ix.shape[dim]%factor != 0 {
		panic(fmt.Sprintf("indexer: factor %d must divide dimension %d of %v", factor, dim, ix.shape))
	}
	collapsed := ix.shape.Clone()
	collapsed[dim] /= factor
	return NewIndexer(collapsed)
}

// BroadcastStrides computes strides for reading inShape at coordinates of
// outShape. Dimensions of extent 1 get stride 0, so the single stored
// element repeats along the paired larger extent without physical
// replication. Shorter input shapes are padded with leading 1s.
func BroadcastStrides(inShape, outShape Shape) [4]int {
	if len(outShape) != 4 {
		panic(fmt.Sprintf("indexer: output shape must be rank 4, got %v", outShape))
	}

	var strides [4]int
	offset := len(outShape) - len(inShape)
	origStrides := inShape.ComputeStrides()

	for i := range strides {
		inIdx := i - offset
		switch {
		case inIdx < 0:
			// Padded dimension, stride is 0
			strides[i] = 0
		case inShape[inIdx] == 1:
			// Broadcast dimension, stride is 0
			strides[i] = 0
		default:
			strides[i] = origStrides[inIdx]
		}
	}

	return strides
}

// BroadcastOffset maps output coordinates into a linear index of an operand
// whose broadcast strides were computed with BroadcastStrides.
func BroadcastOffset(strides [4]int, d0, d1, d2, d3 int) int {
	return d0*strides[0] + d1*strides[1] + d2*strides[2] + d3*strides[3]
}
