package cpu

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// Embedding performs embedding lookup.
//
// weight: [numEmbeddings, embeddingDim] float32
// indices: any shape of int32 indices
// output: [...indices.shape, embeddingDim]
func (cpu *CPUBackend) Embedding(weight, indices *tensor.RawTensor) *tensor.RawTensor {
	if indices.DType() != tensor.Int32 {
		panic(fmt.Sprintf("embedding: indices must be int32, got %s", indices.DType()))
	}
	if weight.DType() != tensor.Float32 {
		panic(fmt.Sprintf("embedding: weight must be float32, got %s", weight.DType()))
	}

	weightShape := weight.Shape()
	if len(weightShape) != 2 {
		panic(fmt.Sprintf("embedding: weight must be 2D, got shape %v", weightShape))
	}
	num, dim := weightShape[0], weightShape[1]

	outShape := append(indices.Shape().Clone(), dim)
	result, err := tensor.NewRaw(outShape, tensor.Float32, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("embedding: failed to create result tensor: %v", err))
	}

	idx, w, dst := indices.AsInt32(), weight.AsFloat32(), result.AsFloat32()
	for i, id := range idx {
		if int(id) < 0 || int(id) >= num {
			panic(fmt.Sprintf("embedding: index %d out of bounds [0, %d)", id, num))
		}
		copy(dst[i*dim:(i+1)*dim], w[int(id)*dim:(int(id)+1)*dim])
	}
	return result
}
