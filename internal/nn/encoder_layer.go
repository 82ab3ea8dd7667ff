package nn

import (
	"github.com/loom-ml/loom/internal/tensor"
)

// EncoderLayer is one block of the encoder stack: self-attention followed
// by a position-wise feed-forward network, each wrapped in a pre-norm
// residual sublayer. Encoder self-attention is bidirectional; every
// position sees the full input sequence.
type EncoderLayer[B tensor.Backend] struct {
	SelfAttn *AttentionBlock[B]
	FFN      *FeedForward[B]
	Sub1     *Sublayer[B]
	Sub2     *Sublayer[B]
	dim      int
}

// NewEncoderLayer creates an encoder block over dim features with the given
// number of attention heads and feed-forward hidden size.
func NewEncoderLayer[B tensor.Backend](dim, heads, ffnHidden int, dropout float32, backend B) *EncoderLayer[B] {
	return &EncoderLayer[B]{
		SelfAttn: NewAttentionBlock(dim, heads, dropout, false, backend),
		FFN:      NewFeedForward(dim, ffnHidden, dim, dropout, backend),
		Sub1:     NewSublayer[B](dim, backend),
		Sub2:     NewSublayer[B](dim, backend),
		dim:      dim,
	}
}

// Forward transforms a sequence tensor [seq, batch, dim] into another of
// the same shape.
func (l *EncoderLayer[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	attended := l.Sub1.Forward(x, func(n *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
		return l.SelfAttn.Forward(n, n, n)
	})

	return l.Sub2.Forward(attended, func(n *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
		shape := n.Shape()
		flat := n.Reshape(shape[0]*shape[1], l.dim)
		return l.FFN.Forward(flat).Reshape(shape[0], shape[1], l.dim)
	})
}

// SetTraining propagates the mode to every dropout in the block.
func (l *EncoderLayer[B]) SetTraining(training bool) {
	l.SelfAttn.SetTraining(training)
	l.FFN.SetTraining(training)
}

// Parameters returns all learnable parameters of the block.
func (l *EncoderLayer[B]) Parameters() []*Parameter[B] {
	params := l.SelfAttn.Parameters()
	params = append(params, l.FFN.Parameters()...)
	params = append(params, l.Sub1.Parameters()...)
	return append(params, l.Sub2.Parameters()...)
}
