// Package nn implements the transformer building blocks of the Loom library:
// linear and normalization layers, multi-head attention, position-wise
// feed-forward networks, pre-norm residual sublayers, and the stacked
// encoder/decoder assemblies that compose them.
//
// All sequence tensors use the (seq_len, batch, dim) layout. Components are
// constructed once with a fixed configuration and reused across forward
// passes; the only mutable per-module state is the learned parameters, which
// are updated exclusively by an external training procedure.
package nn

import (
	"github.com/loom-ml/loom/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Forward signatures vary by module kind (self-attention takes a causal
// flag, decoder layers take two inputs), so the shared surface is parameter
// traversal: Parameters returns every trainable parameter of the module,
// including nested sub-modules, for consumption by an external optimizer.
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] interface {
	Parameters() []*Parameter[B]
}

// Trainable is implemented by modules whose forward behavior depends on the
// training/inference mode (anything containing dropout). SetTraining
// propagates the flag through the module tree; the zero value is inference
// mode, under which forward passes are deterministic.
type Trainable interface {
	SetTraining(training bool)
}
