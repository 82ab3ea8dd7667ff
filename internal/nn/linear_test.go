package nn

import (
	"testing"

	"github.com/loom-ml/loom/internal/backend/cpu"
	"github.com/loom-ml/loom/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Backend = *cpu.CPUBackend

func TestLinear_Forward(t *testing.T) {
	backend := cpu.New()

	layer := NewLinear(3, 2, backend)

	// W = [[1, 0, 0], [0, 1, 0]], b = [10, 20]
	w := layer.Weight().Tensor().Data()
	copy(w, []float32{1, 0, 0, 0, 1, 0})
	b := layer.Bias().Tensor().Data()
	copy(b, []float32{10, 20})

	input, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	require.NoError(t, err)

	output := layer.Forward(input)

	require.True(t, output.Shape().Equal(tensor.Shape{2, 2}))
	// Row 1: [1+10, 2+20], row 2: [4+10, 5+20]
	assert.Equal(t, []float32{11, 22, 14, 25}, output.Data())
}

func TestLinear_ParameterShapes(t *testing.T) {
	backend := cpu.New()

	layer := NewLinear(8, 16, backend)

	params := layer.Parameters()
	require.Len(t, params, 2)
	assert.True(t, params[0].Tensor().Shape().Equal(tensor.Shape{16, 8}))
	assert.True(t, params[1].Tensor().Shape().Equal(tensor.Shape{16}))
	assert.Equal(t, 8, layer.InFeatures())
	assert.Equal(t, 16, layer.OutFeatures())
}

func TestLinear_WrongFeatureCountPanics(t *testing.T) {
	backend := cpu.New()

	layer := NewLinear(4, 2, backend)
	input := tensor.Zeros[float32](tensor.Shape{3, 5}, backend)

	assert.Panics(t, func() {
		layer.Forward(input)
	})
}

func TestLinear_NonPositiveFeaturesPanics(t *testing.T) {
	backend := cpu.New()

	assert.Panics(t, func() {
		NewLinear(0, 4, backend)
	})
}
