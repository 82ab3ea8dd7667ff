package nn

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// AttentionBlock drives a MultiHeadAttention kernel across a sequence of
// query positions. Each position is attended independently against the
// key/value sequence; in causal mode position i only sees key positions
// [0, i], which is the masking required for autoregressive decoding.
type AttentionBlock[B tensor.Backend] struct {
	Attn   *MultiHeadAttention[B]
	Causal bool
}

// NewAttentionBlock creates an attention driver. When causal is true, each
// query position attends only to key positions at or before it.
func NewAttentionBlock[B tensor.Backend](dim, heads int, dropout float32, causal bool, backend B) *AttentionBlock[B] {
	return &AttentionBlock[B]{
		Attn:   NewMultiHeadAttention(dim, heads, dropout, backend),
		Causal: causal,
	}
}

// Forward attends every query position over the key/value sequence.
//
//	query:  [seq, batch, dim]
//	keys:   [kv, batch, dim]
//	values: [kv, batch, dim]
//
// Returns [seq, batch, dim]. In causal mode query and keys must have the
// same length, since position i is masked to the prefix [0, i] of the keys.
func (b *AttentionBlock[B]) Forward(query, keys, values *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	qs := query.Shape()
	ks := keys.Shape()
	if len(qs) != 3 {
		panic(fmt.Sprintf("AttentionBlock.Forward: query must be [seq, batch, dim], got %v", qs))
	}
	if b.Causal && qs[0] != ks[0] {
		panic(fmt.Sprintf("AttentionBlock.Forward: causal attention requires matching lengths, got query %d and keys %d", qs[0], ks[0]))
	}

	seqLen := qs[0]
	steps := make([]*tensor.Tensor[float32, B], seqLen)
	for i := 0; i < seqLen; i++ {
		q := query.Narrow(0, i, 1).Squeeze(0)
		k, v := keys, values
		if b.Causal {
			k = keys.Narrow(0, 0, i+1)
			v = values.Narrow(0, 0, i+1)
		}
		steps[i] = b.Attn.Forward(q, k, v)
	}
	return tensor.Stack(steps, 0)
}

// SetTraining propagates the mode to the attention kernel.
func (b *AttentionBlock[B]) SetTraining(training bool) {
	b.Attn.SetTraining(training)
}

// Parameters returns the attention kernel's parameters.
func (b *AttentionBlock[B]) Parameters() []*Parameter[B] {
	return b.Attn.Parameters()
}
