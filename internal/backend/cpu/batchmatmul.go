package cpu

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// BatchMatMul performs batched matrix multiplication over the last two
// dimensions. All leading (batch) dimensions must match.
//
// For 3D: [B, M, K] @ [B, K, N] -> [B, M, N]
// For 4D: [B, H, M, K] @ [B, H, K, N] -> [B, H, M, N]
//
// Each batch slice is dispatched to the same BLAS GEMM as MatMul.
func (cpu *CPUBackend) BatchMatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape := a.Shape()
	bShape := b.Shape()
	ndim := len(aShape)

	if ndim < 3 {
		panic(fmt.Sprintf("batchmatmul: inputs must be at least 3D, got %dD", ndim))
	}
	if len(bShape) != ndim {
		panic(fmt.Sprintf("batchmatmul: dimension mismatch, got %dD and %dD", ndim, len(bShape)))
	}
	if a.DType() != tensor.Float32 || b.DType() != tensor.Float32 {
		panic(fmt.Sprintf("batchmatmul: unsupported dtypes %s, %s", a.DType(), b.DType()))
	}

	batch := 1
	for i := 0; i < ndim-2; i++ {
		if aShape[i] != bShape[i] {
			panic(fmt.Sprintf("batchmatmul: batch dimension mismatch at dim %d: %d vs %d", i, aShape[i], bShape[i]))
		}
		batch *= aShape[i]
	}

	m, k := aShape[ndim-2], aShape[ndim-1]
	if bShape[ndim-2] != k {
		panic(fmt.Sprintf("batchmatmul: inner dimension mismatch: %d vs %d", k, bShape[ndim-2]))
	}
	n := bShape[ndim-1]

	outShape := aShape.Clone()
	outShape[ndim-1] = n
	result, err := tensor.NewRaw(outShape, tensor.Float32, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("batchmatmul: failed to create result tensor: %v", err))
	}

	c, aData, bData := result.AsFloat32(), a.AsFloat32(), b.AsFloat32()
	for bi := 0; bi < batch; bi++ {
		gemm(c[bi*m*n:(bi+1)*m*n], aData[bi*m*k:(bi+1)*m*k], bData[bi*k*n:(bi+1)*k*n], m, k, n)
	}
	return result
}
