package nn

import (
	"fmt"
	"math"

	"github.com/loom-ml/loom/internal/tensor"
)

// PositionalEncoding adds the fixed sinusoidal position signal of the
// original transformer to a sequence tensor:
//
//	PE(pos, 2i)   = sin(pos / 10000^(2i/dim))
//	PE(pos, 2i+1) = cos(pos / 10000^(2i/dim))
//
// The table is precomputed up to maxLen positions at construction.
// Dropout is applied after the addition during training.
type PositionalEncoding[B tensor.Backend] struct {
	table  *tensor.Tensor[float32, B] // [maxLen, dim]
	Drop   *Dropout[B]
	maxLen int
	dim    int
}

// NewPositionalEncoding precomputes the sinusoidal table for sequences of
// up to maxLen positions over dim features.
func NewPositionalEncoding[B tensor.Backend](dim, maxLen int, dropout float32, backend B) *PositionalEncoding[B] {
	if dim <= 0 || maxLen <= 0 {
		panic(fmt.Sprintf("PositionalEncoding: dim and maxLen must be positive, got %d, %d", dim, maxLen))
	}

	data := make([]float32, maxLen*dim)
	for pos := 0; pos < maxLen; pos++ {
		for i := 0; i < dim; i += 2 {
			angle := float64(pos) / math.Pow(10000, float64(i)/float64(dim))
			data[pos*dim+i] = float32(math.Sin(angle))
			if i+1 < dim {
				data[pos*dim+i+1] = float32(math.Cos(angle))
			}
		}
	}

	table, err := tensor.FromSlice(data, tensor.Shape{maxLen, dim}, backend)
	if err != nil {
		panic(fmt.Sprintf("PositionalEncoding: %v", err))
	}

	return &PositionalEncoding[B]{
		table:  table,
		Drop:   NewDropout(dropout, backend),
		maxLen: maxLen,
		dim:    dim,
	}
}

// Forward adds position encodings to x [seq, batch, dim]. Panics if the
// sequence is longer than the precomputed table.
func (p *PositionalEncoding[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := x.Shape()
	if len(shape) != 3 || shape[2] != p.dim {
		panic(fmt.Sprintf("PositionalEncoding.Forward: expected [seq, batch, %d], got %v", p.dim, shape))
	}
	if shape[0] > p.maxLen {
		panic(fmt.Sprintf("PositionalEncoding.Forward: sequence length %d exceeds max %d", shape[0], p.maxLen))
	}

	// [seq, dim] -> [seq, 1, dim] broadcasts over the batch dimension.
	pe := p.table.Narrow(0, 0, shape[0]).Unsqueeze(1)
	return p.Drop.Forward(x.Add(pe))
}

// MaxLen returns the longest sequence the table covers.
func (p *PositionalEncoding[B]) MaxLen() int { return p.maxLen }

// SetTraining propagates the mode to the dropout layer.
func (p *PositionalEncoding[B]) SetTraining(training bool) {
	p.Drop.SetTraining(training)
}

// Parameters returns nil; the encoding table is fixed, not learned.
func (p *PositionalEncoding[B]) Parameters() []*Parameter[B] {
	return nil
}
