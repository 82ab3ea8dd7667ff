package nn

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// DecoderConfig describes a decoder stack. NumHeads and FFNHidden accept
// either a single value, applied to every layer, or one value per layer.
type DecoderConfig struct {
	Dim       int
	NumLayers int
	NumHeads  []int
	FFNHidden []int
	Dropout   float32
}

// Decoder is a stack of decoder layers. Layer i cross-attends over the
// i-th encoder output, so the encoder must have been built with the same
// number of layers.
type Decoder[B tensor.Backend] struct {
	Layers []*DecoderLayer[B]
}

// NewDecoder builds a decoder stack from the config.
func NewDecoder[B tensor.Backend](cfg DecoderConfig, backend B) *Decoder[B] {
	if cfg.NumLayers <= 0 {
		panic(fmt.Sprintf("NewDecoder: NumLayers must be positive, got %d", cfg.NumLayers))
	}
	heads := perLayer("NumHeads", cfg.NumHeads, cfg.NumLayers)
	hidden := perLayer("FFNHidden", cfg.FFNHidden, cfg.NumLayers)

	layers := make([]*DecoderLayer[B], cfg.NumLayers)
	for i := range layers {
		layers[i] = NewDecoderLayer(cfg.Dim, heads[i], hidden[i], cfg.Dropout, backend)
	}
	return &Decoder[B]{Layers: layers}
}

// Forward runs the target sequence x [tgtSeq, batch, dim] through the
// stack, pairing layer i with encOuts[i], and returns the final
// representation plus each layer's output in order. Panics if the number
// of encoder outputs does not match the number of decoder layers; a silent
// pairing of mismatched stacks would mask a configuration error.
func (d *Decoder[B]) Forward(
	x *tensor.Tensor[float32, B],
	encOuts []*tensor.Tensor[float32, B],
) (*tensor.Tensor[float32, B], []*tensor.Tensor[float32, B]) {
	if len(encOuts) != len(d.Layers) {
		panic(fmt.Sprintf("Decoder.Forward: %d encoder outputs for %d decoder layers", len(encOuts), len(d.Layers)))
	}
	outputs := make([]*tensor.Tensor[float32, B], len(d.Layers))
	for i, layer := range d.Layers {
		x = layer.Forward(x, encOuts[i])
		outputs[i] = x
	}
	return x, outputs
}

// SetTraining propagates the mode to every layer.
func (d *Decoder[B]) SetTraining(training bool) {
	for _, layer := range d.Layers {
		layer.SetTraining(training)
	}
}

// Parameters returns the parameters of every layer.
func (d *Decoder[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	for _, layer := range d.Layers {
		params = append(params, layer.Parameters()...)
	}
	return params
}
