package nn

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// EncoderConfig describes an encoder stack. NumHeads and FFNHidden accept
// either a single value, applied to every layer, or one value per layer.
type EncoderConfig struct {
	Dim       int
	NumLayers int
	NumHeads  []int
	FFNHidden []int
	Dropout   float32
}

// Encoder is a stack of encoder layers. Forward returns the output of
// every layer, which the decoder consumes layer-by-layer.
type Encoder[B tensor.Backend] struct {
	Layers []*EncoderLayer[B]
}

// NewEncoder builds an encoder stack from the config.
func NewEncoder[B tensor.Backend](cfg EncoderConfig, backend B) *Encoder[B] {
	if cfg.NumLayers <= 0 {
		panic(fmt.Sprintf("NewEncoder: NumLayers must be positive, got %d", cfg.NumLayers))
	}
	heads := perLayer("NumHeads", cfg.NumHeads, cfg.NumLayers)
	hidden := perLayer("FFNHidden", cfg.FFNHidden, cfg.NumLayers)

	layers := make([]*EncoderLayer[B], cfg.NumLayers)
	for i := range layers {
		layers[i] = NewEncoderLayer(cfg.Dim, heads[i], hidden[i], cfg.Dropout, backend)
	}
	return &Encoder[B]{Layers: layers}
}

// Forward runs the input sequence [seq, batch, dim] through every layer,
// returning the final representation and each layer's output in order.
// The final output equals the last per-layer output.
func (e *Encoder[B]) Forward(x *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], []*tensor.Tensor[float32, B]) {
	outputs := make([]*tensor.Tensor[float32, B], len(e.Layers))
	for i, layer := range e.Layers {
		x = layer.Forward(x)
		outputs[i] = x
	}
	return x, outputs
}

// SetTraining propagates the mode to every layer.
func (e *Encoder[B]) SetTraining(training bool) {
	for _, layer := range e.Layers {
		layer.SetTraining(training)
	}
}

// Parameters returns the parameters of every layer.
func (e *Encoder[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	for _, layer := range e.Layers {
		params = append(params, layer.Parameters()...)
	}
	return params
}

// perLayer expands a hyperparameter to one value per layer. A single value
// broadcasts; otherwise the length must equal the layer count.
func perLayer(name string, values []int, numLayers int) []int {
	switch len(values) {
	case 1:
		expanded := make([]int, numLayers)
		for i := range expanded {
			expanded[i] = values[0]
		}
		return expanded
	case numLayers:
		return values
	default:
		panic(fmt.Sprintf("%s: expected 1 or %d values, got %d", name, numLayers, len(values)))
	}
}
