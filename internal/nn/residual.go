package nn

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// Sublayer wraps a transform with the pre-norm residual pattern used
// throughout the encoder and decoder layers:
//
//	Y = X + transform(LayerNorm(X))
//
// Normalizing before the transform keeps the residual path an identity,
// which stabilizes deep stacks. The wrapper carries no state beyond the
// normalization parameters; any dropout belongs inside the transform
// itself. The transform must preserve the input shape; a shape mismatch
// is a programming error and panics.
type Sublayer[B tensor.Backend] struct {
	Norm    *LayerNorm[B]
	backend B
}

// NewSublayer creates a pre-norm residual wrapper for a transform whose
// inputs and outputs have trailing dimension dim.
func NewSublayer[B tensor.Backend](dim int, backend B) *Sublayer[B] {
	return &Sublayer[B]{
		Norm:    NewLayerNorm(dim, 1e-5, backend),
		backend: backend,
	}
}

// Forward applies the residual pattern around transform.
func (s *Sublayer[B]) Forward(
	x *tensor.Tensor[float32, B],
	transform func(*tensor.Tensor[float32, B]) *tensor.Tensor[float32, B],
) *tensor.Tensor[float32, B] {
	out := transform(s.Norm.Forward(x))
	if !out.Shape().Equal(x.Shape()) {
		panic(fmt.Sprintf("Sublayer.Forward: transform changed shape %v -> %v", x.Shape(), out.Shape()))
	}
	return x.Add(out)
}

// Parameters returns the layer norm parameters.
func (s *Sublayer[B]) Parameters() []*Parameter[B] {
	return s.Norm.Parameters()
}
