package nn

import (
	"github.com/loom-ml/loom/internal/tensor"
)

// EncoderWithEmbedding fronts an encoder stack with a token embedding and
// positional encoding, so callers can feed token ids directly.
type EncoderWithEmbedding[B tensor.Backend] struct {
	Embed   *ScaledEmbedding[B]
	PosEnc  *PositionalEncoding[B]
	Encoder *Encoder[B]
}

// NewEncoderWithEmbedding builds the embedding front-end and the encoder
// stack together. Pass paddingIdx < 0 when the vocabulary has no padding
// token.
func NewEncoderWithEmbedding[B tensor.Backend](
	vocabSize, paddingIdx, maxLen int,
	cfg EncoderConfig,
	backend B,
) *EncoderWithEmbedding[B] {
	return &EncoderWithEmbedding[B]{
		Embed:   NewScaledEmbedding(vocabSize, cfg.Dim, paddingIdx, backend),
		PosEnc:  NewPositionalEncoding(cfg.Dim, maxLen, cfg.Dropout, backend),
		Encoder: NewEncoder(cfg, backend),
	}
}

// Forward embeds tokens [seq, batch], adds position encodings, and runs
// the encoder stack, returning the final representation and each layer's
// output.
func (e *EncoderWithEmbedding[B]) Forward(tokens *tensor.Tensor[int32, B]) (*tensor.Tensor[float32, B], []*tensor.Tensor[float32, B]) {
	return e.Encoder.Forward(e.PosEnc.Forward(e.Embed.Forward(tokens)))
}

// SetTraining propagates the mode through the front-end and the stack.
func (e *EncoderWithEmbedding[B]) SetTraining(training bool) {
	e.PosEnc.SetTraining(training)
	e.Encoder.SetTraining(training)
}

// Parameters returns the embedding table plus the encoder parameters.
func (e *EncoderWithEmbedding[B]) Parameters() []*Parameter[B] {
	params := e.Embed.Parameters()
	return append(params, e.Encoder.Parameters()...)
}

// DecoderWithEmbedding fronts a decoder stack with a token embedding and
// positional encoding.
type DecoderWithEmbedding[B tensor.Backend] struct {
	Embed   *ScaledEmbedding[B]
	PosEnc  *PositionalEncoding[B]
	Decoder *Decoder[B]
}

// NewDecoderWithEmbedding builds the embedding front-end and the decoder
// stack together.
func NewDecoderWithEmbedding[B tensor.Backend](
	vocabSize, paddingIdx, maxLen int,
	cfg DecoderConfig,
	backend B,
) *DecoderWithEmbedding[B] {
	return &DecoderWithEmbedding[B]{
		Embed:   NewScaledEmbedding(vocabSize, cfg.Dim, paddingIdx, backend),
		PosEnc:  NewPositionalEncoding(cfg.Dim, maxLen, cfg.Dropout, backend),
		Decoder: NewDecoder(cfg, backend),
	}
}

// Forward embeds target tokens [seq, batch], adds position encodings, and
// runs the decoder stack against the encoder outputs, returning the final
// representation and each layer's output.
func (d *DecoderWithEmbedding[B]) Forward(
	tokens *tensor.Tensor[int32, B],
	encOuts []*tensor.Tensor[float32, B],
) (*tensor.Tensor[float32, B], []*tensor.Tensor[float32, B]) {
	return d.Decoder.Forward(d.PosEnc.Forward(d.Embed.Forward(tokens)), encOuts)
}

// SetTraining propagates the mode through the front-end and the stack.
func (d *DecoderWithEmbedding[B]) SetTraining(training bool) {
	d.PosEnc.SetTraining(training)
	d.Decoder.SetTraining(training)
}

// Parameters returns the embedding table plus the decoder parameters.
func (d *DecoderWithEmbedding[B]) Parameters() []*Parameter[B] {
	params := d.Embed.Parameters()
	return append(params, d.Decoder.Parameters()...)
}
