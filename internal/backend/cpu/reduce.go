package cpu

import (
	"fmt"
	"math"

	"github.com/loom-ml/loom/internal/tensor"
)

// Softmax computes the softmax along the specified dimension.
// Uses the max-subtraction trick for numerical stability.
func (cpu *CPUBackend) Softmax(t *tensor.RawTensor, dim int) *tensor.RawTensor {
	if t.DType() != tensor.Float32 {
		panic(fmt.Sprintf("softmax: unsupported dtype %s", t.DType()))
	}

	shape := t.Shape()
	dim = tensor.NormalizeDim(dim, len(shape))

	result, err := tensor.NewRaw(shape, tensor.Float32, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("softmax: failed to create result tensor: %v", err))
	}

	n := shape[dim]
	outer, inner := outerInner(shape, dim)
	src, dst := t.AsFloat32(), result.AsFloat32()

	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			base := o*n*inner + in

			maxVal := src[base]
			for i := 1; i < n; i++ {
				if v := src[base+i*inner]; v > maxVal {
					maxVal = v
				}
			}

			sum := float32(0)
			for i := 0; i < n; i++ {
				e := float32(math.Exp(float64(src[base+i*inner] - maxVal)))
				dst[base+i*inner] = e
				sum += e
			}
			for i := 0; i < n; i++ {
				dst[base+i*inner] /= sum
			}
		}
	}
	return result
}

// SumDim sums tensor elements along the specified dimension.
//
// With keepDim the reduced dimension is kept with size 1, otherwise it is
// removed. Supports negative indexing (-1 = last dim).
func (cpu *CPUBackend) SumDim(t *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	if t.DType() != tensor.Float32 {
		panic(fmt.Sprintf("sumdim: unsupported dtype %s", t.DType()))
	}

	shape := t.Shape()
	dim = tensor.NormalizeDim(dim, len(shape))

	result, err := tensor.NewRaw(reducedShape(shape, dim, keepDim), tensor.Float32, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("sumdim: failed to create result tensor: %v", err))
	}

	n := shape[dim]
	outer, inner := outerInner(shape, dim)
	src, dst := t.AsFloat32(), result.AsFloat32()

	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			sum := float32(0)
			for i := 0; i < n; i++ {
				sum += src[o*n*inner+i*inner+in]
			}
			dst[o*inner+in] = sum
		}
	}
	return result
}

// MeanDim computes the mean of tensor elements along the specified dimension.
func (cpu *CPUBackend) MeanDim(t *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := t.Shape()
	n := shape[tensor.NormalizeDim(dim, len(shape))]

	result := cpu.SumDim(t, dim, keepDim)
	data := result.AsFloat32()
	for i := range data {
		data[i] /= float32(n)
	}
	return result
}

// outerInner returns the products of the dimensions before and after dim.
func outerInner(shape tensor.Shape, dim int) (outer, inner int) {
	outer, inner = 1, 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	for i := dim + 1; i < len(shape); i++ {
		inner *= shape[i]
	}
	return outer, inner
}

// reducedShape computes the output shape of a reduction along dim.
func reducedShape(shape tensor.Shape, dim int, keepDim bool) tensor.Shape {
	if keepDim {
		out := shape.Clone()
		out[dim] = 1
		return out
	}
	out := make(tensor.Shape, 0, len(shape)-1)
	for i, d := range shape {
		if i != dim {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		out = tensor.Shape{1}
	}
	return out
}
