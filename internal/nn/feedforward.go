package nn

import (
	"github.com/loom-ml/loom/internal/tensor"
)

// FeedForward is the position-wise feed-forward block: two linear layers
// with a ReLU in between and dropout on the output.
//
//	Y = Dropout(W2 * ReLU(W1*X + b1) + b2)
//
// It operates on 2D inputs [positions, in]; callers flatten any leading
// sequence dimensions into the position axis before invoking it, so every
// position is transformed independently.
type FeedForward[B tensor.Backend] struct {
	Fc1  *Linear[B]
	Fc2  *Linear[B]
	Drop *Dropout[B]
}

// NewFeedForward creates a feed-forward block mapping in -> hidden -> out
// features with the given dropout rate.
func NewFeedForward[B tensor.Backend](in, hidden, out int, dropout float32, backend B) *FeedForward[B] {
	return &FeedForward[B]{
		Fc1:  NewLinear(in, hidden, backend),
		Fc2:  NewLinear(hidden, out, backend),
		Drop: NewDropout(dropout, backend),
	}
}

// Forward applies the block to x of shape [positions, in], returning
// [positions, out].
func (f *FeedForward[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	h := f.Fc1.Forward(x).ReLU()
	return f.Drop.Forward(f.Fc2.Forward(h))
}

// SetTraining propagates the mode to the dropout layer.
func (f *FeedForward[B]) SetTraining(training bool) {
	f.Drop.SetTraining(training)
}

// Parameters returns the parameters of both linear layers.
func (f *FeedForward[B]) Parameters() []*Parameter[B] {
	params := f.Fc1.Parameters()
	return append(params, f.Fc2.Parameters()...)
}
