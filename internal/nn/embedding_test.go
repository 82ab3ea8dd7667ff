package nn

import (
	"math"
	"testing"

	"github.com/loom-ml/loom/internal/backend/cpu"
	"github.com/loom-ml/loom/internal/tensor"
)

func TestScaledEmbedding_LookupAndScale(t *testing.T) {
	backend := cpu.New()

	vocab, dim := 5, 4
	embed := NewScaledEmbedding(vocab, dim, -1, backend)

	// Set token 2's row to known values.
	weights := embed.Weight.Tensor().Data()
	for j := 0; j < dim; j++ {
		weights[2*dim+j] = float32(j + 1)
	}

	tokens, err := tensor.FromSlice([]int32{2}, tensor.Shape{1, 1}, backend)
	if err != nil {
		t.Fatalf("Failed to create tokens: %v", err)
	}

	output := embed.Forward(tokens)

	if !output.Shape().Equal(tensor.Shape{1, 1, dim}) {
		t.Fatalf("Expected shape [1 1 %d], got %v", dim, output.Shape())
	}
	scale := float32(math.Sqrt(float64(dim)))
	for j, v := range output.Data() {
		expected := float32(j+1) * scale
		if math.Abs(float64(v-expected)) > 1e-5 {
			t.Errorf("Element %d: expected %v, got %v", j, expected, v)
		}
	}
}

func TestScaledEmbedding_PaddingRowIsZero(t *testing.T) {
	backend := cpu.New()

	padIdx := 1
	embed := NewScaledEmbedding(6, 8, padIdx, backend)

	tokens, err := tensor.FromSlice([]int32{int32(padIdx), int32(padIdx)}, tensor.Shape{2, 1}, backend)
	if err != nil {
		t.Fatalf("Failed to create tokens: %v", err)
	}

	output := embed.Forward(tokens)
	for i, v := range output.Data() {
		if v != 0 {
			t.Errorf("Element %d: padding token embedded to %v, expected 0", i, v)
		}
	}
}

func TestScaledEmbedding_BatchLayout(t *testing.T) {
	backend := cpu.New()

	embed := NewScaledEmbedding(10, 4, -1, backend)

	// [seq=3, batch=2] tokens produce [3, 2, 4] embeddings.
	tokens, err := tensor.FromSlice([]int32{0, 1, 2, 3, 4, 5}, tensor.Shape{3, 2}, backend)
	if err != nil {
		t.Fatalf("Failed to create tokens: %v", err)
	}

	output := embed.Forward(tokens)
	if !output.Shape().Equal(tensor.Shape{3, 2, 4}) {
		t.Errorf("Expected shape [3 2 4], got %v", output.Shape())
	}
}

func TestScaledEmbedding_PaddingIdxOutOfRangePanics(t *testing.T) {
	backend := cpu.New()

	defer func() {
		if recover() == nil {
			t.Error("Expected panic for paddingIdx beyond vocabulary")
		}
	}()
	NewScaledEmbedding(4, 8, 4, backend)
}
