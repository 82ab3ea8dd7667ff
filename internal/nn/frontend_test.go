package nn

import (
	"math"
	"testing"

	"github.com/loom-ml/loom/internal/backend/cpu"
	"github.com/loom-ml/loom/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoderWithEmbedding_TokensToLayerOutputs(t *testing.T) {
	backend := cpu.New()

	dim := 8
	enc := NewEncoderWithEmbedding(20, 0, 50, EncoderConfig{
		Dim:       dim,
		NumLayers: 2,
		NumHeads:  []int{2},
		FFNHidden: []int{16},
		Dropout:   0,
	}, backend)

	tokens, err := tensor.FromSlice([]int32{5, 7, 3}, tensor.Shape{3, 1}, backend)
	require.NoError(t, err)

	final, outputs := enc.Forward(tokens)

	require.Len(t, outputs, 2)
	require.True(t, final.Shape().Equal(tensor.Shape{3, 1, dim}))
	for i, out := range outputs {
		assert.True(t, out.Shape().Equal(tensor.Shape{3, 1, dim}), "layer %d shape %v", i, out.Shape())
	}
}

func TestDecoderWithEmbedding_EndToEnd(t *testing.T) {
	backend := cpu.New()

	dim := 8
	enc := NewEncoderWithEmbedding(20, 0, 50, EncoderConfig{
		Dim:       dim,
		NumLayers: 2,
		NumHeads:  []int{2},
		FFNHidden: []int{16},
		Dropout:   0,
	}, backend)
	dec := NewDecoderWithEmbedding(30, 0, 50, DecoderConfig{
		Dim:       dim,
		NumLayers: 2,
		NumHeads:  []int{2},
		FFNHidden: []int{16},
		Dropout:   0,
	}, backend)

	src, err := tensor.FromSlice([]int32{5, 7, 3}, tensor.Shape{3, 1}, backend)
	require.NoError(t, err)
	tgt, err := tensor.FromSlice([]int32{1, 9, 4, 2}, tensor.Shape{4, 1}, backend)
	require.NoError(t, err)

	_, encOuts := enc.Forward(src)
	output, _ := dec.Forward(tgt, encOuts)

	require.True(t, output.Shape().Equal(tensor.Shape{4, 1, dim}))
	for i, v := range output.Data() {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("Element %d: not finite: %v", i, v)
		}
	}
}

func TestEncoderWithEmbedding_DeterministicInference(t *testing.T) {
	backend := cpu.New()

	enc := NewEncoderWithEmbedding(15, -1, 50, EncoderConfig{
		Dim:       8,
		NumLayers: 1,
		NumHeads:  []int{2},
		FFNHidden: []int{16},
		Dropout:   0.2,
	}, backend)

	tokens, err := tensor.FromSlice([]int32{1, 2, 3}, tensor.Shape{3, 1}, backend)
	require.NoError(t, err)

	a, _ := enc.Forward(tokens)
	b, _ := enc.Forward(tokens)
	assert.Equal(t, a.Data(), b.Data())
}

func TestFrontend_ParametersIncludeEmbedding(t *testing.T) {
	backend := cpu.New()

	enc := NewEncoderWithEmbedding(10, -1, 20, EncoderConfig{
		Dim:       8,
		NumLayers: 1,
		NumHeads:  []int{2},
		FFNHidden: []int{16},
		Dropout:   0,
	}, backend)

	params := enc.Parameters()
	// Embedding table + per layer: attention 8, FFN 4, 2 sublayers * 2 = 16.
	assert.Len(t, params, 1+16)
	assert.Equal(t, "weight", params[0].Name())
}
