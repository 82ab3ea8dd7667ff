package cpu

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// Reshape returns a tensor with the same data but a different shape.
// The element count must match. Zero-copy: the result shares the buffer.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if err := newShape.Validate(); err != nil {
		panic(fmt.Sprintf("reshape: invalid shape: %v", err))
	}
	if t.NumElements() != newShape.NumElements() {
		panic(fmt.Sprintf("reshape: incompatible shapes: %v -> %v (different number of elements)",
			t.Shape(), newShape))
	}
	return t.WithShape(newShape)
}

// Transpose permutes the tensor's dimensions. With no axes, all dimensions
// are reversed. The result is a contiguous copy.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)

	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: axes length %d != ndim %d", len(axes), ndim))
	}
	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim {
			panic(fmt.Sprintf("transpose: invalid axis %d for %dD tensor", ax, ndim))
		}
		if seen[ax] {
			panic(fmt.Sprintf("transpose: duplicate axis %d", ax))
		}
		seen[ax] = true
	}

	newShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		newShape[i] = shape[ax]
	}

	result, err := tensor.NewRaw(newShape, t.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("transpose: %v", err))
	}

	if t.DType() != tensor.Float32 {
		panic(fmt.Sprintf("transpose: unsupported dtype %s", t.DType()))
	}

	src, dst := t.AsFloat32(), result.AsFloat32()
	srcStrides := shape.ComputeStrides()
	dstStrides := newShape.ComputeStrides()
	for i := range dst {
		srcIdx := 0
		for d, stride := range dstStrides {
			coord := (i / stride) % newShape[d]
			srcIdx += coord * srcStrides[axes[d]]
		}
		dst[i] = src[srcIdx]
	}
	return result
}

// Unsqueeze adds a dimension of size 1 at the specified position.
// Zero-copy view. Supports negative dim indexing (dim may be ndim, appending
// a trailing axis).
func (cpu *CPUBackend) Unsqueeze(t *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := t.Shape()
	if dim < 0 {
		dim += len(shape) + 1
	}
	if dim < 0 || dim > len(shape) {
		panic(fmt.Sprintf("unsqueeze: dimension %d out of range for %dD tensor", dim, len(shape)))
	}

	newShape := make(tensor.Shape, 0, len(shape)+1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, 1)
	newShape = append(newShape, shape[dim:]...)
	return t.WithShape(newShape)
}

// Squeeze removes a dimension of size 1 at the specified position.
// Zero-copy view. Panics if the dimension size is not 1.
func (cpu *CPUBackend) Squeeze(t *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := t.Shape()
	dim = tensor.NormalizeDim(dim, len(shape))
	if shape[dim] != 1 {
		panic(fmt.Sprintf("squeeze: dimension %d has size %d, not 1", dim, shape[dim]))
	}

	newShape := make(tensor.Shape, 0, len(shape)-1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, shape[dim+1:]...)
	return t.WithShape(newShape)
}

// Narrow returns the slice [start, start+length) of t along dim as a copy.
func (cpu *CPUBackend) Narrow(t *tensor.RawTensor, dim, start, length int) *tensor.RawTensor {
	shape := t.Shape()
	dim = tensor.NormalizeDim(dim, len(shape))
	if start < 0 || length <= 0 || start+length > shape[dim] {
		panic(fmt.Sprintf("narrow: range [%d, %d) out of bounds for dimension %d (size %d)",
			start, start+length, dim, shape[dim]))
	}

	newShape := shape.Clone()
	newShape[dim] = length
	result, err := tensor.NewRaw(newShape, t.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("narrow: %v", err))
	}

	outer, inner := outerInner(shape, dim)
	rowBytes := inner * t.DType().Size()
	src, dst := t.Data(), result.Data()
	for o := 0; o < outer; o++ {
		srcOff := (o*shape[dim] + start) * rowBytes
		dstOff := o * length * rowBytes
		copy(dst[dstOff:dstOff+length*rowBytes], src[srcOff:srcOff+length*rowBytes])
	}
	return result
}

// Cat concatenates tensors along the specified dimension.
func (cpu *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: at least one tensor required")
	}

	first := tensors[0].Shape()
	dim = tensor.NormalizeDim(dim, len(first))

	total := 0
	for _, t := range tensors {
		shape := t.Shape()
		if len(shape) != len(first) {
			panic("cat: tensors must have the same number of dimensions")
		}
		for i := range shape {
			if i != dim && shape[i] != first[i] {
				panic(fmt.Sprintf("cat: shape mismatch at dimension %d: %v vs %v", i, first, shape))
			}
		}
		total += shape[dim]
	}

	outShape := first.Clone()
	outShape[dim] = total
	result, err := tensor.NewRaw(outShape, tensors[0].DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("cat: %v", err))
	}

	outer, inner := outerInner(first, dim)
	elemSize := tensors[0].DType().Size()
	dst := result.Data()
	rowBytes := total * inner * elemSize
	written := 0
	for _, t := range tensors {
		src := t.Data()
		chunk := t.Shape()[dim] * inner * elemSize
		for o := 0; o < outer; o++ {
			copy(dst[o*rowBytes+written:], src[o*chunk:(o+1)*chunk])
		}
		written += chunk
	}
	return result
}
