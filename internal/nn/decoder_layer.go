package nn

import (
	"github.com/loom-ml/loom/internal/tensor"
)

// DecoderLayer is one block of the decoder stack. It runs three residual
// sublayers in order: causally masked self-attention, cross-attention
// over the encoder output, and a position-wise feed-forward network.
type DecoderLayer[B tensor.Backend] struct {
	SelfAttn  *AttentionBlock[B]
	CrossAttn *AttentionBlock[B]
	FFN       *FeedForward[B]
	Sub1      *Sublayer[B]
	Sub2      *Sublayer[B]
	Sub3      *Sublayer[B]
	dim       int
}

// NewDecoderLayer creates a decoder block over dim features with the given
// number of attention heads and feed-forward hidden size.
func NewDecoderLayer[B tensor.Backend](dim, heads, ffnHidden int, dropout float32, backend B) *DecoderLayer[B] {
	return &DecoderLayer[B]{
		SelfAttn:  NewAttentionBlock(dim, heads, dropout, true, backend),
		CrossAttn: NewAttentionBlock(dim, heads, dropout, false, backend),
		FFN:       NewFeedForward(dim, ffnHidden, dim, dropout, backend),
		Sub1:      NewSublayer[B](dim, backend),
		Sub2:      NewSublayer[B](dim, backend),
		Sub3:      NewSublayer[B](dim, backend),
		dim:       dim,
	}
}

// Forward transforms the target sequence x [tgtSeq, batch, dim] using the
// encoder output encOut [srcSeq, batch, dim], returning a tensor with the
// shape of x. Self-attention is causal, so position i of x only attends
// to target positions [0, i]; cross-attention sees all of encOut.
func (l *DecoderLayer[B]) Forward(x, encOut *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	attended := l.Sub1.Forward(x, func(n *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
		return l.SelfAttn.Forward(n, n, n)
	})

	crossed := l.Sub2.Forward(attended, func(n *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
		return l.CrossAttn.Forward(n, encOut, encOut)
	})

	return l.Sub3.Forward(crossed, func(n *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
		shape := n.Shape()
		flat := n.Reshape(shape[0]*shape[1], l.dim)
		return l.FFN.Forward(flat).Reshape(shape[0], shape[1], l.dim)
	})
}

// SetTraining propagates the mode to every dropout in the block.
func (l *DecoderLayer[B]) SetTraining(training bool) {
	l.SelfAttn.SetTraining(training)
	l.CrossAttn.SetTraining(training)
	l.FFN.SetTraining(training)
}

// Parameters returns all learnable parameters of the block.
func (l *DecoderLayer[B]) Parameters() []*Parameter[B] {
	params := l.SelfAttn.Parameters()
	params = append(params, l.CrossAttn.Parameters()...)
	params = append(params, l.FFN.Parameters()...)
	params = append(params, l.Sub1.Parameters()...)
	params = append(params, l.Sub2.Parameters()...)
	return append(params, l.Sub3.Parameters()...)
}
