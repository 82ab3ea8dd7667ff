package tensor

import (
	"testing"
)

func TestShape_NumElements(t *testing.T) {
	tests := []struct {
		shape    Shape
		expected int
	}{
		{Shape{}, 1},
		{Shape{5}, 5},
		{Shape{2, 3}, 6},
		{Shape{4, 1, 8}, 32},
	}

	for _, tt := range tests {
		if got := tt.shape.NumElements(); got != tt.expected {
			t.Errorf("Shape %v: expected %d elements, got %d", tt.shape, tt.expected, got)
		}
	}
}

func TestShape_Equal(t *testing.T) {
	if !(Shape{2, 3}).Equal(Shape{2, 3}) {
		t.Error("Equal shapes reported unequal")
	}
	if (Shape{2, 3}).Equal(Shape{3, 2}) {
		t.Error("Unequal shapes reported equal")
	}
	if (Shape{2, 3}).Equal(Shape{2, 3, 1}) {
		t.Error("Shapes of different rank reported equal")
	}
}

func TestShape_ComputeStrides(t *testing.T) {
	strides := Shape{2, 3, 4}.ComputeStrides()
	expected := []int{12, 4, 1}
	for i, s := range strides {
		if s != expected[i] {
			t.Errorf("Stride %d: expected %d, got %d", i, expected[i], s)
		}
	}
}

func TestShape_Validate(t *testing.T) {
	if err := (Shape{2, 3}).Validate(); err != nil {
		t.Errorf("Valid shape rejected: %v", err)
	}
	if err := (Shape{2, 0}).Validate(); err == nil {
		t.Error("Zero dimension accepted")
	}
	if err := (Shape{2, -1}).Validate(); err == nil {
		t.Error("Negative dimension accepted")
	}
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		a, b     Shape
		expected Shape
	}{
		{Shape{2, 3}, Shape{2, 3}, Shape{2, 3}},
		{Shape{2, 3}, Shape{3}, Shape{2, 3}},
		{Shape{2, 1}, Shape{2, 3}, Shape{2, 3}},
		{Shape{4, 1, 3}, Shape{2, 1}, Shape{4, 2, 3}},
	}

	for _, tt := range tests {
		result, _, err := BroadcastShapes(tt.a, tt.b)
		if err != nil {
			t.Errorf("BroadcastShapes(%v, %v) failed: %v", tt.a, tt.b, err)
			continue
		}
		if !result.Equal(tt.expected) {
			t.Errorf("BroadcastShapes(%v, %v): expected %v, got %v", tt.a, tt.b, tt.expected, result)
		}
	}
}

func TestBroadcastShapes_Incompatible(t *testing.T) {
	if _, _, err := BroadcastShapes(Shape{2, 3}, Shape{2, 4}); err == nil {
		t.Error("Incompatible shapes accepted for broadcast")
	}
}

func TestNormalizeDim(t *testing.T) {
	if got := NormalizeDim(-1, 3); got != 2 {
		t.Errorf("NormalizeDim(-1, 3): expected 2, got %d", got)
	}
	if got := NormalizeDim(0, 3); got != 0 {
		t.Errorf("NormalizeDim(0, 3): expected 0, got %d", got)
	}
	if got := NormalizeDim(-3, 3); got != 0 {
		t.Errorf("NormalizeDim(-3, 3): expected 0, got %d", got)
	}
}

func TestNormalizeDim_OutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for out-of-range dimension")
		}
	}()
	NormalizeDim(3, 3)
}
