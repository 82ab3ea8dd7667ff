package nn

import (
	"math"
	"testing"

	"github.com/loom-ml/loom/internal/backend/cpu"
	"github.com/loom-ml/loom/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoderLayer_PreservesShape(t *testing.T) {
	backend := cpu.New()

	layer := NewDecoderLayer(8, 2, 16, 0, backend)
	x := tensor.Randn(tensor.Shape{4, 2, 8}, backend)
	encOut := tensor.Randn(tensor.Shape{6, 2, 8}, backend)

	output := layer.Forward(x, encOut)
	require.True(t, output.Shape().Equal(x.Shape()))
}

func TestDecoder_ForwardShape(t *testing.T) {
	backend := cpu.New()

	cfg := DecoderConfig{
		Dim:       8,
		NumLayers: 2,
		NumHeads:  []int{2},
		FFNHidden: []int{16},
		Dropout:   0,
	}
	dec := NewDecoder(cfg, backend)

	x := tensor.Randn(tensor.Shape{3, 2, 8}, backend)
	encOuts := []*tensor.Tensor[float32, Backend]{
		tensor.Randn(tensor.Shape{5, 2, 8}, backend),
		tensor.Randn(tensor.Shape{5, 2, 8}, backend),
	}

	final, perLayer := dec.Forward(x, encOuts)
	require.True(t, final.Shape().Equal(x.Shape()))
	require.Len(t, perLayer, 2)
	for i, out := range perLayer {
		assert.True(t, out.Shape().Equal(x.Shape()), "layer %d shape %v", i, out.Shape())
	}
}

func TestDecoder_EncoderOutputCountMismatchPanics(t *testing.T) {
	backend := cpu.New()

	dec := NewDecoder(DecoderConfig{
		Dim:       8,
		NumLayers: 3,
		NumHeads:  []int{2},
		FFNHidden: []int{16},
		Dropout:   0,
	}, backend)

	x := tensor.Randn(tensor.Shape{3, 1, 8}, backend)
	encOuts := []*tensor.Tensor[float32, Backend]{
		tensor.Randn(tensor.Shape{4, 1, 8}, backend),
		tensor.Randn(tensor.Shape{4, 1, 8}, backend),
	}

	assert.Panics(t, func() {
		dec.Forward(x, encOuts)
	})
}

// TestDecoder_CausalAcrossStack verifies that causal masking holds through a
// full decoder stack, not just a single attention block.
func TestDecoder_CausalAcrossStack(t *testing.T) {
	backend := cpu.New()

	dim := 8
	seq := 4
	dec := NewDecoder(DecoderConfig{
		Dim:       dim,
		NumLayers: 2,
		NumHeads:  []int{2},
		FFNHidden: []int{16},
		Dropout:   0,
	}, backend)

	encOuts := []*tensor.Tensor[float32, Backend]{
		tensor.Randn(tensor.Shape{5, 1, dim}, backend),
		tensor.Randn(tensor.Shape{5, 1, dim}, backend),
	}

	x := tensor.Randn(tensor.Shape{seq, 1, dim}, backend)
	y := x.Clone()
	yData := y.Data()
	for j := 0; j < dim; j++ {
		yData[(seq-1)*dim+j] += 3.0
	}

	outXT, _ := dec.Forward(x, encOuts)
	outYT, _ := dec.Forward(y, encOuts)
	outX, outY := outXT.Data(), outYT.Data()

	for i := 0; i < (seq-1)*dim; i++ {
		if outX[i] != outY[i] {
			t.Fatalf("Element %d: future target token leaked into past position", i)
		}
	}
}

// TestEncoderDecoder_EndToEnd runs a small but complete encoder/decoder pass
// and checks the output is finite and correctly shaped.
func TestEncoderDecoder_EndToEnd(t *testing.T) {
	backend := cpu.New()

	dim := 8
	enc := NewEncoder(EncoderConfig{
		Dim:       dim,
		NumLayers: 2,
		NumHeads:  []int{2},
		FFNHidden: []int{16},
		Dropout:   0,
	}, backend)
	dec := NewDecoder(DecoderConfig{
		Dim:       dim,
		NumLayers: 2,
		NumHeads:  []int{2},
		FFNHidden: []int{16},
		Dropout:   0,
	}, backend)

	src := tensor.Randn(tensor.Shape{3, 1, dim}, backend)
	tgt := tensor.Randn(tensor.Shape{4, 1, dim}, backend)

	_, encOuts := enc.Forward(src)
	output, _ := dec.Forward(tgt, encOuts)

	require.True(t, output.Shape().Equal(tensor.Shape{4, 1, dim}))
	for i, v := range output.Data() {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("Element %d: not finite: %v", i, v)
		}
	}
}

func TestDecoder_ParameterCount(t *testing.T) {
	backend := cpu.New()

	dec := NewDecoder(DecoderConfig{
		Dim:       8,
		NumLayers: 2,
		NumHeads:  []int{2},
		FFNHidden: []int{16},
		Dropout:   0,
	}, backend)

	// Per layer: 2 attention blocks * 8 params, FFN 4 params, 3 sublayers
	// * 2 norm params = 26.
	assert.Len(t, dec.Parameters(), 2*26)
}
