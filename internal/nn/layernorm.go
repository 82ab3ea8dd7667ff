package nn

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// LayerNorm applies layer normalization along the last dimension:
//
//	Y = gamma * (X - mean(X)) / sqrt(var(X) + eps) + beta
//
// Mean and variance are computed per position across the feature dimension.
// gamma is initialized to ones, beta to zeros.
type LayerNorm[B tensor.Backend] struct {
	Gamma   *Parameter[B] // learnable scale [dim]
	Beta    *Parameter[B] // learnable shift [dim]
	Epsilon float32
	dim     int
	backend B
}

// NewLayerNorm creates a LayerNorm over a feature dimension of the given
// size, with epsilon for numerical stability (typically 1e-5).
func NewLayerNorm[B tensor.Backend](dim int, epsilon float32, backend B) *LayerNorm[B] {
	if dim <= 0 {
		panic(fmt.Sprintf("LayerNorm: dim must be positive, got %d", dim))
	}
	if epsilon <= 0 {
		panic(fmt.Sprintf("LayerNorm: epsilon must be positive, got %g", epsilon))
	}

	return &LayerNorm[B]{
		Gamma:   NewParameter("gamma", Ones(tensor.Shape{dim}, backend)),
		Beta:    NewParameter("beta", Zeros(tensor.Shape{dim}, backend)),
		Epsilon: epsilon,
		dim:     dim,
		backend: backend,
	}
}

// Forward normalizes x along its last dimension and applies the learned
// scale and shift. Input and output have shape [..., dim].
func (l *LayerNorm[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := x.Shape()
	if shape[len(shape)-1] != l.dim {
		panic(fmt.Sprintf("LayerNorm.Forward: expected last dimension %d, got shape %v", l.dim, shape))
	}

	mean := x.MeanDim(-1, true)
	centered := x.Sub(mean)
	variance := centered.Mul(centered).MeanDim(-1, true)
	norm := centered.Mul(variance.AddScalar(l.Epsilon).Rsqrt())

	// gamma and beta are [dim]; unsqueeze to [..., 1, dim] for broadcasting.
	gamma := l.Gamma.Tensor()
	beta := l.Beta.Tensor()
	for i := 0; i < len(shape)-1; i++ {
		gamma = gamma.Unsqueeze(0)
		beta = beta.Unsqueeze(0)
	}

	return norm.Mul(gamma).Add(beta)
}

// Parameters returns the learnable parameters (gamma and beta).
func (l *LayerNorm[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{l.Gamma, l.Beta}
}
