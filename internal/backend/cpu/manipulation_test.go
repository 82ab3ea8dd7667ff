package cpu

import (
	"testing"

	"github.com/loom-ml/loom/internal/tensor"
)

func TestReshape(t *testing.T) {
	backend := New()

	x := newFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})

	result := backend.Reshape(x, tensor.Shape{3, 2})

	if !result.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("Expected shape [3 2], got %v", result.Shape())
	}
	// Row-major order is preserved.
	for i, v := range result.AsFloat32() {
		if v != x.AsFloat32()[i] {
			t.Errorf("Element %d: expected %v, got %v", i, x.AsFloat32()[i], v)
		}
	}
}

func TestReshape_WrongCountPanics(t *testing.T) {
	backend := New()

	x := newFloat32(t, tensor.Shape{2, 3}, make([]float32, 6))

	defer func() {
		if recover() == nil {
			t.Error("Expected panic for element count mismatch")
		}
	}()
	backend.Reshape(x, tensor.Shape{4, 2})
}

func TestTranspose_2D(t *testing.T) {
	backend := New()

	x := newFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})

	result := backend.Transpose(x)

	if !result.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("Expected shape [3 2], got %v", result.Shape())
	}
	expected := []float32{1, 4, 2, 5, 3, 6}
	for i, v := range result.AsFloat32() {
		if v != expected[i] {
			t.Errorf("Element %d: expected %v, got %v", i, expected[i], v)
		}
	}
}

func TestTranspose_3D(t *testing.T) {
	backend := New()

	// [2, 1, 3] with axes (1, 0, 2) -> [1, 2, 3], the seq/batch swap used
	// when splitting attention heads.
	x := newFloat32(t, tensor.Shape{2, 1, 3}, []float32{1, 2, 3, 4, 5, 6})

	result := backend.Transpose(x, 1, 0, 2)

	if !result.Shape().Equal(tensor.Shape{1, 2, 3}) {
		t.Fatalf("Expected shape [1 2 3], got %v", result.Shape())
	}
	expected := []float32{1, 2, 3, 4, 5, 6}
	for i, v := range result.AsFloat32() {
		if v != expected[i] {
			t.Errorf("Element %d: expected %v, got %v", i, expected[i], v)
		}
	}
}

func TestNarrow_FirstDim(t *testing.T) {
	backend := New()

	// [4, 2], take rows [1, 3).
	x := newFloat32(t, tensor.Shape{4, 2}, []float32{1, 2, 3, 4, 5, 6, 7, 8})

	result := backend.Narrow(x, 0, 1, 2)

	if !result.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("Expected shape [2 2], got %v", result.Shape())
	}
	expected := []float32{3, 4, 5, 6}
	for i, v := range result.AsFloat32() {
		if v != expected[i] {
			t.Errorf("Element %d: expected %v, got %v", i, expected[i], v)
		}
	}
}

func TestNarrow_IsACopy(t *testing.T) {
	backend := New()

	x := newFloat32(t, tensor.Shape{3}, []float32{1, 2, 3})

	result := backend.Narrow(x, 0, 0, 2)
	x.AsFloat32()[0] = 99

	if result.AsFloat32()[0] != 1 {
		t.Errorf("Narrow result aliases source: got %v", result.AsFloat32()[0])
	}
}

func TestNarrow_OutOfRangePanics(t *testing.T) {
	backend := New()

	x := newFloat32(t, tensor.Shape{3}, []float32{1, 2, 3})

	defer func() {
		if recover() == nil {
			t.Error("Expected panic for out-of-range narrow")
		}
	}()
	backend.Narrow(x, 0, 2, 5)
}

func TestUnsqueezeSqueeze(t *testing.T) {
	backend := New()

	x := newFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})

	up := backend.Unsqueeze(x, 1)
	if !up.Shape().Equal(tensor.Shape{2, 1, 3}) {
		t.Fatalf("Expected shape [2 1 3], got %v", up.Shape())
	}

	down := backend.Squeeze(up, 1)
	if !down.Shape().Equal(tensor.Shape{2, 3}) {
		t.Fatalf("Expected shape [2 3], got %v", down.Shape())
	}
	for i, v := range down.AsFloat32() {
		if v != x.AsFloat32()[i] {
			t.Errorf("Element %d: expected %v, got %v", i, x.AsFloat32()[i], v)
		}
	}
}

func TestSqueeze_NonUnitDimPanics(t *testing.T) {
	backend := New()

	x := newFloat32(t, tensor.Shape{2, 3}, make([]float32, 6))

	defer func() {
		if recover() == nil {
			t.Error("Expected panic when squeezing a non-unit dimension")
		}
	}()
	backend.Squeeze(x, 0)
}

func TestCat_FirstDim(t *testing.T) {
	backend := New()

	a := newFloat32(t, tensor.Shape{1, 2}, []float32{1, 2})
	b := newFloat32(t, tensor.Shape{2, 2}, []float32{3, 4, 5, 6})

	result := backend.Cat([]*tensor.RawTensor{a, b}, 0)

	if !result.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("Expected shape [3 2], got %v", result.Shape())
	}
	expected := []float32{1, 2, 3, 4, 5, 6}
	for i, v := range result.AsFloat32() {
		if v != expected[i] {
			t.Errorf("Element %d: expected %v, got %v", i, expected[i], v)
		}
	}
}
