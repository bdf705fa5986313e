package tensor

import "testing"

func TestShape_NumElements(t *testing.T) {
	tests := []struct {
		shape Shape
		want  int
	}{
		{Shape{}, 1},
		{Shape{5}, 5},
		{Shape{2, 3}, 6},
		{Shape{1, 16, 128, 128}, 262144},
	}
	for _, tt := range tests {
		if got := tt.shape.NumElements(); got != tt.want {
			t.Errorf("%v.NumElements() = %d, want %d", tt.shape, got, tt.want)
		}
	}
}

func TestShape_Validate(t *testing.T) {
	if err := (Shape{2, 3, 4}).Validate(); err != nil {
		t.Errorf("valid shape rejected: %v", err)
	}
	if err := (Shape{2, 0, 4}).Validate(); err == nil {
		t.Error("zero dimension accepted")
	}
	if err := (Shape{-1, 3}).Validate(); err == nil {
		t.Error("negative dimension accepted")
	}
}

func TestShape_ComputeStrides(t *testing.T) {
	tests := []struct {
		shape Shape
		want  []int
	}{
		{Shape{2, 3, 4}, []int{12, 4, 1}},
		{Shape{5}, []int{1}},
		{Shape{1, 4, 1, 6}, []int{24, 6, 6, 1}},
	}
	for _, tt := range tests {
		got := tt.shape.ComputeStrides()
		if len(got) != len(tt.want) {
			t.Fatalf("%v.ComputeStrides() = %v, want %v", tt.shape, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%v.ComputeStrides() = %v, want %v", tt.shape, got, tt.want)
				break
			}
		}
	}
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name      string
		a, b      Shape
		want      Shape
		broadcast bool
		wantErr   bool
	}{
		{"Same", Shape{2, 3}, Shape{2, 3}, Shape{2, 3}, false, false},
		{"LeftOne", Shape{1, 5}, Shape{3, 5}, Shape{3, 5}, true, false},
		{"MaskAgainstOutput", Shape{1, 4, 1, 7}, Shape{2, 4, 3, 7}, Shape{2, 4, 3, 7}, true, false},
		{"RankMismatch", Shape{5}, Shape{3, 5}, Shape{3, 5}, true, false},
		{"Incompatible", Shape{3, 4}, Shape{3, 5}, nil, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, broadcast, err := BroadcastShapes(tt.a, tt.b)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("BroadcastShapes(%v, %v): expected error", tt.a, tt.b)
				}
				return
			}
			if err != nil {
				t.Fatalf("BroadcastShapes(%v, %v): %v", tt.a, tt.b, err)
			}
			if !got.Equal(tt.want) || broadcast != tt.broadcast {
				t.Errorf("BroadcastShapes(%v, %v) = %v, %v; want %v, %v",
					tt.a, tt.b, got, broadcast, tt.want, tt.broadcast)
			}
		})
	}
}
