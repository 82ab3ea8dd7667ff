package cpu

import (
	"testing"

	"github.com/loom-ml/loom/internal/tensor"
)

func newFloat32(t *testing.T, shape tensor.Shape, data []float32) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	copy(raw.AsFloat32(), data)
	return raw
}

func TestAdd_SameShape(t *testing.T) {
	backend := New()

	a := newFloat32(t, tensor.Shape{2, 2}, []float32{1, 2, 3, 4})
	b := newFloat32(t, tensor.Shape{2, 2}, []float32{10, 20, 30, 40})

	result := backend.Add(a, b)

	expected := []float32{11, 22, 33, 44}
	for i, v := range result.AsFloat32() {
		if v != expected[i] {
			t.Errorf("Element %d: expected %v, got %v", i, expected[i], v)
		}
	}
}

func TestAdd_Broadcast(t *testing.T) {
	backend := New()

	// [2, 3] + [3] broadcasts over rows.
	a := newFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	b := newFloat32(t, tensor.Shape{3}, []float32{10, 20, 30})

	result := backend.Add(a, b)

	if !result.Shape().Equal(tensor.Shape{2, 3}) {
		t.Fatalf("Expected shape [2 3], got %v", result.Shape())
	}
	expected := []float32{11, 22, 33, 14, 25, 36}
	for i, v := range result.AsFloat32() {
		if v != expected[i] {
			t.Errorf("Element %d: expected %v, got %v", i, expected[i], v)
		}
	}
}

func TestAdd_BroadcastKeepDim(t *testing.T) {
	backend := New()

	// [2, 3] + [2, 1], the layer norm mean-subtraction pattern.
	a := newFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	b := newFloat32(t, tensor.Shape{2, 1}, []float32{100, 200})

	result := backend.Add(a, b)

	expected := []float32{101, 102, 103, 204, 205, 206}
	for i, v := range result.AsFloat32() {
		if v != expected[i] {
			t.Errorf("Element %d: expected %v, got %v", i, expected[i], v)
		}
	}
}

func TestSubMulDiv(t *testing.T) {
	backend := New()

	a := newFloat32(t, tensor.Shape{4}, []float32{10, 20, 30, 40})
	b := newFloat32(t, tensor.Shape{4}, []float32{2, 4, 5, 8})

	sub := backend.Sub(a, b).AsFloat32()
	mul := backend.Mul(a, b).AsFloat32()
	div := backend.Div(a, b).AsFloat32()

	expectedSub := []float32{8, 16, 25, 32}
	expectedMul := []float32{20, 80, 150, 320}
	expectedDiv := []float32{5, 5, 6, 5}
	for i := range expectedSub {
		if sub[i] != expectedSub[i] {
			t.Errorf("Sub element %d: expected %v, got %v", i, expectedSub[i], sub[i])
		}
		if mul[i] != expectedMul[i] {
			t.Errorf("Mul element %d: expected %v, got %v", i, expectedMul[i], mul[i])
		}
		if div[i] != expectedDiv[i] {
			t.Errorf("Div element %d: expected %v, got %v", i, expectedDiv[i], div[i])
		}
	}
}

func TestAdd_ShapeMismatchPanics(t *testing.T) {
	backend := New()

	a := newFloat32(t, tensor.Shape{2, 3}, make([]float32, 6))
	b := newFloat32(t, tensor.Shape{2, 4}, make([]float32, 8))

	defer func() {
		if recover() == nil {
			t.Error("Expected panic for incompatible shapes")
		}
	}()
	backend.Add(a, b)
}

func TestBackendMetadata(t *testing.T) {
	backend := New()

	if backend.Name() != "CPU" {
		t.Errorf("Expected backend name CPU, got %q", backend.Name())
	}
	if backend.Device() != tensor.CPU {
		t.Errorf("Expected CPU device, got %v", backend.Device())
	}
}
