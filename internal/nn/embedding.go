package nn

import (
	"fmt"
	"math"

	"github.com/loom-ml/loom/internal/tensor"
)

// ScaledEmbedding maps token ids to dense vectors and scales them by
// sqrt(dim), so that embeddings and positional encodings arrive at a
// comparable magnitude. An optional padding id maps to the zero vector,
// keeping padded positions inert.
type ScaledEmbedding[B tensor.Backend] struct {
	Weight *Parameter[B] // [vocabSize, dim]

	vocabSize  int
	dim        int
	paddingIdx int // -1 when unset
	scale      float32
	backend    B
}

// NewScaledEmbedding creates an embedding table for vocabSize tokens of
// dim features. paddingIdx < 0 disables padding handling; otherwise the
// row at paddingIdx is zeroed so padding tokens embed to zero.
func NewScaledEmbedding[B tensor.Backend](vocabSize, dim, paddingIdx int, backend B) *ScaledEmbedding[B] {
	if vocabSize <= 0 || dim <= 0 {
		panic(fmt.Sprintf("ScaledEmbedding: vocabSize and dim must be positive, got %d, %d", vocabSize, dim))
	}
	if paddingIdx >= vocabSize {
		panic(fmt.Sprintf("ScaledEmbedding: paddingIdx %d out of range for vocab size %d", paddingIdx, vocabSize))
	}

	weight := Randn(tensor.Shape{vocabSize, dim}, backend)
	if paddingIdx >= 0 {
		data := weight.Data()
		for j := 0; j < dim; j++ {
			data[paddingIdx*dim+j] = 0
		}
	}

	return &ScaledEmbedding[B]{
		Weight:     NewParameter("weight", weight),
		vocabSize:  vocabSize,
		dim:        dim,
		paddingIdx: paddingIdx,
		scale:      float32(math.Sqrt(float64(dim))),
		backend:    backend,
	}
}

// Forward looks up tokens [seq, batch] and returns scaled embeddings
// [seq, batch, dim].
func (e *ScaledEmbedding[B]) Forward(tokens *tensor.Tensor[int32, B]) *tensor.Tensor[float32, B] {
	raw := e.backend.Embedding(e.Weight.Tensor().Raw(), tokens.Raw())
	return tensor.New[float32, B](raw, e.backend).MulScalar(e.scale)
}

// Dim returns the embedding dimension.
func (e *ScaledEmbedding[B]) Dim() int { return e.dim }

// PaddingIdx returns the padding token id, or -1 if none was configured.
func (e *ScaledEmbedding[B]) PaddingIdx() int { return e.paddingIdx }

// Parameters returns the embedding table.
func (e *ScaledEmbedding[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{e.Weight}
}
