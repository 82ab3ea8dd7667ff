package nn

import (
	"math"
	"testing"

	"github.com/loom-ml/loom/internal/backend/cpu"
	"github.com/loom-ml/loom/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoderLayer_PreservesShape(t *testing.T) {
	backend := cpu.New()

	layer := NewEncoderLayer(8, 2, 16, 0, backend)
	input := tensor.Randn(tensor.Shape{4, 2, 8}, backend)

	output := layer.Forward(input)
	require.True(t, output.Shape().Equal(input.Shape()))

	for i, v := range output.Data() {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("Element %d: not finite: %v", i, v)
		}
	}
}

func TestEncoder_PerLayerOutputs(t *testing.T) {
	backend := cpu.New()

	enc := NewEncoder(EncoderConfig{
		Dim:       8,
		NumLayers: 3,
		NumHeads:  []int{2},
		FFNHidden: []int{16},
		Dropout:   0,
	}, backend)

	input := tensor.Randn(tensor.Shape{5, 2, 8}, backend)
	final, outputs := enc.Forward(input)

	require.Len(t, outputs, 3)
	for i, out := range outputs {
		assert.True(t, out.Shape().Equal(input.Shape()), "layer %d shape %v", i, out.Shape())
	}
	assert.Equal(t, final.Data(), outputs[2].Data(), "final output differs from last layer output")

	// Chaining: the last output reflects all layers, so it should differ
	// from the first layer's output.
	same := true
	first, last := outputs[0].Data(), outputs[2].Data()
	for i := range first {
		if first[i] != last[i] {
			same = false
			break
		}
	}
	assert.False(t, same, "layers 2-3 had no effect")
}

func TestEncoder_PerLayerHyperparams(t *testing.T) {
	backend := cpu.New()

	enc := NewEncoder(EncoderConfig{
		Dim:       12,
		NumLayers: 3,
		NumHeads:  []int{2, 3, 4},
		FFNHidden: []int{16, 24, 32},
		Dropout:   0,
	}, backend)

	require.Len(t, enc.Layers, 3)
	for i, heads := range []int{2, 3, 4} {
		assert.Equal(t, heads, enc.Layers[i].SelfAttn.Attn.NumHeads(), "layer %d", i)
	}
	for i, hidden := range []int{16, 24, 32} {
		assert.Equal(t, hidden, enc.Layers[i].FFN.Fc1.OutFeatures(), "layer %d", i)
	}
}

// TestEncoder_SingleValueBroadcasts verifies that a single hyperparameter
// value builds the same stack structure as spelling it out per layer.
func TestEncoder_SingleValueBroadcasts(t *testing.T) {
	backend := cpu.New()

	scalar := NewEncoder(EncoderConfig{
		Dim:       8,
		NumLayers: 3,
		NumHeads:  []int{4},
		FFNHidden: []int{16},
		Dropout:   0,
	}, backend)
	explicit := NewEncoder(EncoderConfig{
		Dim:       8,
		NumLayers: 3,
		NumHeads:  []int{4, 4, 4},
		FFNHidden: []int{16, 16, 16},
		Dropout:   0,
	}, backend)

	require.Len(t, scalar.Layers, len(explicit.Layers))
	for i := range scalar.Layers {
		assert.Equal(t, explicit.Layers[i].SelfAttn.Attn.NumHeads(),
			scalar.Layers[i].SelfAttn.Attn.NumHeads(), "layer %d heads", i)
		assert.Equal(t, explicit.Layers[i].FFN.Fc1.OutFeatures(),
			scalar.Layers[i].FFN.Fc1.OutFeatures(), "layer %d hidden", i)
	}
}

func TestPerLayer_WrongLengthPanics(t *testing.T) {
	assert.Panics(t, func() {
		perLayer("NumHeads", []int{2, 4}, 3)
	})
	assert.Panics(t, func() {
		perLayer("NumHeads", nil, 3)
	})
}

func TestEncoder_TrainingModeIsStochastic(t *testing.T) {
	backend := cpu.New()

	enc := NewEncoder(EncoderConfig{
		Dim:       8,
		NumLayers: 1,
		NumHeads:  []int{2},
		FFNHidden: []int{16},
		Dropout:   0.5,
	}, backend)

	input := tensor.Randn(tensor.Shape{3, 1, 8}, backend)

	// Inference passes agree exactly.
	a, _ := enc.Forward(input)
	b, _ := enc.Forward(input)
	assert.Equal(t, a.Data(), b.Data())

	// Training passes draw fresh dropout masks.
	enc.SetTraining(true)
	c, _ := enc.Forward(input)
	d, _ := enc.Forward(input)
	same := true
	for i := range c.Data() {
		if c.Data()[i] != d.Data()[i] {
			same = false
			break
		}
	}
	assert.False(t, same, "training-mode passes were identical")
}
