package nn

import (
	"fmt"
	"math/rand"

	"github.com/loom-ml/loom/internal/tensor"
)

// Dropout randomly zeroes elements of the input with probability Rate during
// training, scaling the survivors by 1/(1-Rate) so that expected values are
// preserved. In inference mode it is the identity.
//
// The zero value of training is false, so a freshly built module runs in
// inference mode until SetTraining(true) is called.
type Dropout[B tensor.Backend] struct {
	Rate     float32
	training bool
	backend  B
}

// NewDropout creates a Dropout layer. Rate must be in [0, 1).
func NewDropout[B tensor.Backend](rate float32, backend B) *Dropout[B] {
	if rate < 0 || rate >= 1 {
		panic(fmt.Sprintf("Dropout: rate must be in [0, 1), got %g", rate))
	}
	return &Dropout[B]{Rate: rate, backend: backend}
}

// SetTraining switches between training (random masking) and inference
// (identity) behavior.
func (d *Dropout[B]) SetTraining(training bool) {
	d.training = training
}

// Forward applies dropout to x. When not training, or when Rate is zero,
// the input is returned unchanged.
func (d *Dropout[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !d.training || d.Rate == 0 {
		return x
	}

	scale := 1 / (1 - d.Rate)
	src := x.Data()
	out := make([]float32, len(src))
	for i, v := range src {
		if rand.Float32() >= d.Rate {
			out[i] = v * scale
		}
	}

	result, err := tensor.FromSlice(out, x.Shape(), d.backend)
	if err != nil {
		panic(fmt.Sprintf("Dropout.Forward: %v", err))
	}
	return result
}

// Parameters returns nil; Dropout has no learnable state.
func (d *Dropout[B]) Parameters() []*Parameter[B] {
	return nil
}
