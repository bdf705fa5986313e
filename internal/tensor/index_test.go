package tensor

import "testing"

func TestIndexer_CoordsLinearRoundTrip(t *testing.T) {
	shapes := []Shape{
		{2, 6, 3, 4},
		{1, 1, 1, 1},
		{1, 8, 1, 5},
		{3, 1, 7, 1},
	}
	for _, shape := range shapes {
		ix := NewIndexer(shape)
		for i := 0; i < ix.NumElements(); i++ {
			d0, d1, d2, d3 := ix.Coords(i)
			if d0 >= shape[0] || d1 >= shape[1] || d2 >= shape[2] || d3 >= shape[3] {
				t.Fatalf("shape %v index %d: coords (%d,%d,%d,%d) out of range", shape, i, d0, d1, d2, d3)
			}
			if back := ix.Linear(d0, d1, d2, d3); back != i {
				t.Fatalf("shape %v index %d: round trip gave %d", shape, i, back)
			}
		}
	}
}

func TestIndexer_NonRank4Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for rank-3 shape")
		}
	}()
	NewIndexer(Shape{2, 3, 4})
}

func TestIndexer_Collapse(t *testing.T) {
	ix := NewIndexer(Shape{2, 12, 3, 4})
	collapsed := ix.Collapse(1, 4)
	want := Shape{2, 3, 3, 4}
	if !collapsed.Shape().Equal(want) {
		t.Errorf("collapsed shape %v, want %v", collapsed.Shape(), want)
	}
}

func TestIndexer_CollapseNonDividingPanics(t *testing.T) {
	ix := NewIndexer(Shape{2, 10, 3, 4})
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for factor not dividing the dimension")
		}
	}()
	ix.Collapse(1, 3)
}

func TestBroadcastStrides(t *testing.T) {
	tests := []struct {
		name     string
		in, out  Shape
		expected [4]int
	}{
		{
			name:     "SameShape",
			in:       Shape{2, 3, 4, 5},
			out:      Shape{2, 3, 4, 5},
			expected: [4]int{60, 20, 5, 1},
		},
		{
			name:     "MaskShape",
			in:       Shape{1, 3, 1, 5},
			out:      Shape{2, 3, 4, 5},
			expected: [4]int{0, 5, 0, 1},
		},
		{
			name:     "HeadParams",
			in:       Shape{1, 8, 1, 1},
			out:      Shape{2, 8, 4, 5},
			expected: [4]int{0, 1, 0, 0},
		},
		{
			name:     "ShiftShape",
			in:       Shape{2, 3, 4, 1},
			out:      Shape{2, 3, 4, 5},
			expected: [4]int{12, 4, 1, 0},
		},
		{
			name:     "ShorterInput",
			in:       Shape{4, 5},
			out:      Shape{2, 3, 4, 5},
			expected: [4]int{0, 0, 5, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BroadcastStrides(tt.in, tt.out)
			if got != tt.expected {
				t.Errorf("BroadcastStrides(%v, %v) = %v, want %v", tt.in, tt.out, got, tt.expected)
			}
		})
	}
}

func TestBroadcastOffset(t *testing.T) {
	// A [1, batch, 1, key] mask read at full output coordinates must hit
	// the same element for every beam, head and query row.
	out := Shape{2, 6, 3, 4}
	strides := BroadcastStrides(Shape{1, 3, 1, 4}, Shape{2, 3, 3, 4})

	ix := NewIndexer(out)
	for i := 0; i < ix.NumElements(); i++ {
		beam, bh, q, k := ix.Coords(i)
		batch := bh / 2
		got := BroadcastOffset(strides, beam, batch, q, k)
		want := batch*4 + k
		if got != want {
			t.Fatalf("offset for (%d,%d,%d,%d) = %d, want %d", beam, bh, q, k, got, want)
		}
	}
}
