// Copyright 2026 Loom ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/loom-ml/loom/internal/nn"
	"github.com/loom-ml/loom/internal/tensor"
)

// Module is the common interface for all neural network modules.
type Module[B tensor.Backend] = nn.Module[B]

// Trainable is implemented by modules whose behavior depends on the
// training/inference mode.
type Trainable = nn.Trainable

// Parameter represents a trainable parameter in a neural network.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Core layers

// Linear represents a fully connected layer: y = x @ W.T + b.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a new linear layer with Xavier initialization.
//
// Example:
//
//	backend := cpu.New()
//	layer := nn.NewLinear(512, 2048, backend)
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, backend)
}

// LayerNorm normalizes activations along the feature dimension.
type LayerNorm[B tensor.Backend] = nn.LayerNorm[B]

// NewLayerNorm creates a layer normalization over dim features.
func NewLayerNorm[B tensor.Backend](dim int, epsilon float32, backend B) *LayerNorm[B] {
	return nn.NewLayerNorm(dim, epsilon, backend)
}

// Dropout randomly zeroes activations during training.
type Dropout[B tensor.Backend] = nn.Dropout[B]

// NewDropout creates a dropout layer with the given rate in [0, 1).
func NewDropout[B tensor.Backend](rate float32, backend B) *Dropout[B] {
	return nn.NewDropout(rate, backend)
}

// Sublayer applies the pre-norm residual pattern around a transform.
type Sublayer[B tensor.Backend] = nn.Sublayer[B]

// NewSublayer creates a pre-norm residual wrapper over dim features.
func NewSublayer[B tensor.Backend](dim int, backend B) *Sublayer[B] {
	return nn.NewSublayer[B](dim, backend)
}

// FeedForward is the position-wise feed-forward block.
type FeedForward[B tensor.Backend] = nn.FeedForward[B]

// NewFeedForward creates a feed-forward block mapping in -> hidden -> out.
func NewFeedForward[B tensor.Backend](in, hidden, out int, dropout float32, backend B) *FeedForward[B] {
	return nn.NewFeedForward(in, hidden, out, dropout, backend)
}

// Attention

// MultiHeadAttention is the scaled dot-product attention kernel.
type MultiHeadAttention[B tensor.Backend] = nn.MultiHeadAttention[B]

// NewMultiHeadAttention creates an attention kernel. dim must be divisible
// by heads.
func NewMultiHeadAttention[B tensor.Backend](dim, heads int, dropout float32, backend B) *MultiHeadAttention[B] {
	return nn.NewMultiHeadAttention(dim, heads, dropout, backend)
}

// AttentionBlock drives the attention kernel across a sequence, with
// optional causal masking.
type AttentionBlock[B tensor.Backend] = nn.AttentionBlock[B]

// NewAttentionBlock creates an attention driver. With causal=true, each
// position only attends to positions at or before it.
func NewAttentionBlock[B tensor.Backend](dim, heads int, dropout float32, causal bool, backend B) *AttentionBlock[B] {
	return nn.NewAttentionBlock(dim, heads, dropout, causal, backend)
}

// Transformer layers and stacks

// EncoderLayer is a self-attention + feed-forward encoder block.
type EncoderLayer[B tensor.Backend] = nn.EncoderLayer[B]

// NewEncoderLayer creates an encoder block.
func NewEncoderLayer[B tensor.Backend](dim, heads, ffnHidden int, dropout float32, backend B) *EncoderLayer[B] {
	return nn.NewEncoderLayer(dim, heads, ffnHidden, dropout, backend)
}

// DecoderLayer is a masked self-attention + cross-attention + feed-forward
// decoder block.
type DecoderLayer[B tensor.Backend] = nn.DecoderLayer[B]

// NewDecoderLayer creates a decoder block.
func NewDecoderLayer[B tensor.Backend](dim, heads, ffnHidden int, dropout float32, backend B) *DecoderLayer[B] {
	return nn.NewDecoderLayer(dim, heads, ffnHidden, dropout, backend)
}

// EncoderConfig describes an encoder stack.
type EncoderConfig = nn.EncoderConfig

// DecoderConfig describes a decoder stack.
type DecoderConfig = nn.DecoderConfig

// Encoder is a stack of encoder layers producing per-layer outputs.
type Encoder[B tensor.Backend] = nn.Encoder[B]

// NewEncoder builds an encoder stack from the config.
//
// Example:
//
//	enc := nn.NewEncoder(nn.EncoderConfig{
//	    Dim:       512,
//	    NumLayers: 6,
//	    NumHeads:  []int{8},
//	    FFNHidden: []int{2048},
//	    Dropout:   0.1,
//	}, backend)
func NewEncoder[B tensor.Backend](cfg EncoderConfig, backend B) *Encoder[B] {
	return nn.NewEncoder(cfg, backend)
}

// Decoder is a stack of decoder layers consuming per-layer encoder outputs.
type Decoder[B tensor.Backend] = nn.Decoder[B]

// NewDecoder builds a decoder stack from the config.
func NewDecoder[B tensor.Backend](cfg DecoderConfig, backend B) *Decoder[B] {
	return nn.NewDecoder(cfg, backend)
}

// Embedding front-ends

// ScaledEmbedding maps token ids to vectors scaled by sqrt(dim).
type ScaledEmbedding[B tensor.Backend] = nn.ScaledEmbedding[B]

// NewScaledEmbedding creates an embedding table. paddingIdx < 0 disables
// padding handling.
func NewScaledEmbedding[B tensor.Backend](vocabSize, dim, paddingIdx int, backend B) *ScaledEmbedding[B] {
	return nn.NewScaledEmbedding(vocabSize, dim, paddingIdx, backend)
}

// PositionalEncoding adds the fixed sinusoidal position signal.
type PositionalEncoding[B tensor.Backend] = nn.PositionalEncoding[B]

// NewPositionalEncoding precomputes the sinusoidal table up to maxLen.
func NewPositionalEncoding[B tensor.Backend](dim, maxLen int, dropout float32, backend B) *PositionalEncoding[B] {
	return nn.NewPositionalEncoding(dim, maxLen, dropout, backend)
}

// EncoderWithEmbedding fronts an encoder stack with token embeddings.
type EncoderWithEmbedding[B tensor.Backend] = nn.EncoderWithEmbedding[B]

// NewEncoderWithEmbedding builds an embedding front-end plus encoder stack.
func NewEncoderWithEmbedding[B tensor.Backend](
	vocabSize, paddingIdx, maxLen int,
	cfg EncoderConfig,
	backend B,
) *EncoderWithEmbedding[B] {
	return nn.NewEncoderWithEmbedding(vocabSize, paddingIdx, maxLen, cfg, backend)
}

// DecoderWithEmbedding fronts a decoder stack with token embeddings.
type DecoderWithEmbedding[B tensor.Backend] = nn.DecoderWithEmbedding[B]

// NewDecoderWithEmbedding builds an embedding front-end plus decoder stack.
func NewDecoderWithEmbedding[B tensor.Backend](
	vocabSize, paddingIdx, maxLen int,
	cfg DecoderConfig,
	backend B,
) *DecoderWithEmbedding[B] {
	return nn.NewDecoderWithEmbedding(vocabSize, paddingIdx, maxLen, cfg, backend)
}

// Initialization helpers

// Xavier initializes a tensor with Glorot uniform values.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Xavier(fanIn, fanOut, shape, backend)
}
