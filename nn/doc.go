// Copyright 2026 Loom ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the transformer building blocks of the Loom library.
//
// # Overview
//
// The package exposes the layers needed to assemble a sequence-to-sequence
// transformer:
//   - Linear, LayerNorm, Dropout: core layers
//   - Sublayer: pre-norm residual wrapper
//   - MultiHeadAttention, AttentionBlock: attention with causal masking
//   - EncoderLayer, DecoderLayer, Encoder, Decoder: transformer blocks
//   - ScaledEmbedding, PositionalEncoding: token front-ends
//
// # Basic Usage
//
//	import (
//	    "github.com/loom-ml/loom/backend/cpu"
//	    "github.com/loom-ml/loom/nn"
//	    "github.com/loom-ml/loom/tensor"
//	)
//
//	backend := cpu.New()
//	cfg := nn.EncoderConfig{Dim: 512, NumLayers: 6, NumHeads: []int{8}, FFNHidden: []int{2048}, Dropout: 0.1}
//	enc := nn.NewEncoderWithEmbedding(32000, 0, 1024, cfg, backend)
//
//	tokens, _ := tensor.FromSlice([]int32{5, 17, 42}, tensor.Shape{3, 1}, backend)
//	final, perLayer := enc.Forward(tokens)
//
// Sequence tensors use the (seq_len, batch, dim) layout. Modules start in
// inference mode; call SetTraining(true) to enable dropout.
package nn
