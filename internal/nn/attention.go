package nn

import (
	"fmt"
	"math"

	"github.com/loom-ml/loom/internal/tensor"
)

// MultiHeadAttention computes scaled dot-product attention for a single
// query position against a window of key/value positions, split across
// multiple heads:
//
//	Attention(Q, K, V) = Softmax(Q*K^T / sqrt(headDim)) * V
//
// Each head attends over its own headDim = dim/heads slice of the
// projections; the head outputs are concatenated and mixed by a final
// output projection.
type MultiHeadAttention[B tensor.Backend] struct {
	WQ   *Linear[B]
	WK   *Linear[B]
	WV   *Linear[B]
	WO   *Linear[B]
	Drop *Dropout[B]

	dim     int
	heads   int
	headDim int
	scale   float32
	backend B
}

// NewMultiHeadAttention creates an attention kernel over dim features with
// the given number of heads. dim must be divisible by heads.
func NewMultiHeadAttention[B tensor.Backend](dim, heads int, dropout float32, backend B) *MultiHeadAttention[B] {
	if dim <= 0 || heads <= 0 {
		panic(fmt.Sprintf("MultiHeadAttention: dim and heads must be positive, got dim=%d heads=%d", dim, heads))
	}
	if dim%heads != 0 {
		panic(fmt.Sprintf("MultiHeadAttention: dim %d not divisible by heads %d", dim, heads))
	}

	headDim := dim / heads
	return &MultiHeadAttention[B]{
		WQ:      NewLinear(dim, dim, backend),
		WK:      NewLinear(dim, dim, backend),
		WV:      NewLinear(dim, dim, backend),
		WO:      NewLinear(dim, dim, backend),
		Drop:    NewDropout(dropout, backend),
		dim:     dim,
		heads:   heads,
		headDim: headDim,
		scale:   float32(1 / math.Sqrt(float64(headDim))),
		backend: backend,
	}
}

// Forward attends a single query position over a key/value window.
//
//	query:  [batch, dim]      the position being computed
//	keys:   [kv, batch, dim]  positions the query may attend to
//	values: [kv, batch, dim]  same layout as keys
//
// Returns the attended representation, shape [batch, dim].
func (a *MultiHeadAttention[B]) Forward(query, keys, values *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	qs := query.Shape()
	ks := keys.Shape()
	vs := values.Shape()
	if len(qs) != 2 || qs[1] != a.dim {
		panic(fmt.Sprintf("MultiHeadAttention.Forward: query must be [batch, %d], got %v", a.dim, qs))
	}
	if len(ks) != 3 || ks[1] != qs[0] || ks[2] != a.dim {
		panic(fmt.Sprintf("MultiHeadAttention.Forward: keys must be [kv, %d, %d], got %v", qs[0], a.dim, ks))
	}
	if !vs.Equal(ks) {
		panic(fmt.Sprintf("MultiHeadAttention.Forward: values shape %v does not match keys %v", vs, ks))
	}

	batch := qs[0]
	kv := ks[0]

	// Project and split into heads.
	// q: [batch, dim] -> [batch, heads, 1, headDim]
	q := a.WQ.Forward(query).
		Reshape(batch, a.heads, a.headDim).
		Unsqueeze(2)

	// k, v: [kv, batch, dim] -> [batch, heads, kv, headDim]
	k := a.splitHeads(a.WK.Forward(keys.Reshape(kv*batch, a.dim)), kv, batch)
	v := a.splitHeads(a.WV.Forward(values.Reshape(kv*batch, a.dim)), kv, batch)

	// scores: [batch, heads, 1, kv]
	scores := q.BatchMatMul(k.Transpose(0, 1, 3, 2)).MulScalar(a.scale)
	attn := scores.Softmax(-1)

	// ctx: [batch, heads, 1, headDim] -> [batch, dim]
	ctx := attn.BatchMatMul(v).
		Squeeze(2).
		Reshape(batch, a.dim)

	return a.Drop.Forward(a.WO.Forward(ctx))
}

// splitHeads reshapes a projected [kv*batch, dim] tensor into the per-head
// layout [batch, heads, kv, headDim].
func (a *MultiHeadAttention[B]) splitHeads(x *tensor.Tensor[float32, B], kv, batch int) *tensor.Tensor[float32, B] {
	return x.Reshape(kv, batch, a.dim).
		Transpose(1, 0, 2).
		Reshape(batch, kv, a.heads, a.headDim).
		Transpose(0, 2, 1, 3)
}

// NumHeads returns the number of attention heads.
func (a *MultiHeadAttention[B]) NumHeads() int { return a.heads }

// SetTraining propagates the mode to the dropout layer.
func (a *MultiHeadAttention[B]) SetTraining(training bool) {
	a.Drop.SetTraining(training)
}

// Parameters returns the parameters of the four projections.
func (a *MultiHeadAttention[B]) Parameters() []*Parameter[B] {
	params := a.WQ.Parameters()
	params = append(params, a.WK.Parameters()...)
	params = append(params, a.WV.Parameters()...)
	return append(params, a.WO.Parameters()...)
}
