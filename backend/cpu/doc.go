// Copyright 2026 Loom ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the CPU backend for Loom tensor operations.
//
// # Overview
//
// The backend implements the full tensor.Backend contract:
//   - Element-wise arithmetic with broadcasting
//   - Matrix and batched matrix products via gonum BLAS
//   - Softmax and dimension reductions
//   - Shape manipulation (reshape, transpose, narrow, cat)
//   - Embedding lookup
//
// # Basic Usage
//
//	import (
//	    "github.com/loom-ml/loom/backend/cpu"
//	    "github.com/loom-ml/loom/tensor"
//	)
//
//	backend := cpu.New()
//	x := tensor.Randn(tensor.Shape{4, 8}, backend)
//	y := x.Softmax(-1)
package cpu
