// Copyright 2026 Loom ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor re-exports the Loom tensor core.
//
// # Design
//
// Tensors pair a typed view (Tensor[T, B]) with untyped storage
// (RawTensor). All computation goes through the Backend interface, so the
// same layer code runs on any backend implementation. Sequence data uses
// the (seq_len, batch, dim) layout throughout the library.
//
// # Basic Usage
//
//	import (
//	    "github.com/loom-ml/loom/backend/cpu"
//	    "github.com/loom-ml/loom/tensor"
//	)
//
//	backend := cpu.New()
//	x := tensor.Randn(tensor.Shape{3, 2, 8}, backend)
//	y := x.Softmax(-1)
package tensor
