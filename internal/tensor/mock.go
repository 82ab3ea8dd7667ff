package tensor

import (
	"fmt"
	"math"
)

// Verify that MockBackend implements Backend.
var _ Backend = (*MockBackend)(nil)

// MockBackend is a simple float32-only backend for testing the tensor
// package without importing a real backend (which would create an import
// cycle). All operations are implemented naively for correctness.
type MockBackend struct{}

// NewMockBackend creates a new MockBackend.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// Name returns the backend name.
func (m *MockBackend) Name() string {
	return "mock"
}

// Device returns the device type.
func (m *MockBackend) Device() Device {
	return CPU
}

// Add performs element-wise addition with broadcasting.
func (m *MockBackend) Add(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float32) float32 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (m *MockBackend) Sub(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float32) float32 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (m *MockBackend) Mul(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float32) float32 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (m *MockBackend) Div(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float32) float32 { return x / y })
}

func (m *MockBackend) elementWise(a, b *RawTensor, op func(float32, float32) float32) *RawTensor {
	outShape, _, err := BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(err)
	}

	result, err := NewRaw(outShape, Float32, m.Device())
	if err != nil {
		panic(err)
	}

	out := result.AsFloat32()
	aData, bData := a.AsFloat32(), b.AsFloat32()
	for i := range out {
		out[i] = op(aData[broadcastIndex(i, outShape, a.Shape())], bData[broadcastIndex(i, outShape, b.Shape())])
	}
	return result
}

// broadcastIndex maps a flat index in the broadcast output shape back to a
// flat index in the (possibly smaller) input shape.
func broadcastIndex(flatIdx int, outShape, inShape Shape) int {
	outStrides := outShape.ComputeStrides()
	inStrides := inShape.ComputeStrides()
	offset := len(outShape) - len(inShape)

	inIdx := 0
	for i, stride := range outStrides {
		coord := (flatIdx / stride) % outShape[i]
		if i-offset >= 0 {
			if inShape[i-offset] == 1 {
				continue
			}
			inIdx += coord * inStrides[i-offset]
		}
	}
	return inIdx
}

// MatMul performs naive 2D matrix multiplication.
func (m *MockBackend) MatMul(a, b *RawTensor) *RawTensor {
	aShape, bShape := a.Shape(), b.Shape()
	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: only 2D tensors supported, got %dD and %dD", len(aShape), len(bShape)))
	}
	mm, k, n := aShape[0], aShape[1], bShape[1]
	if bShape[0] != k {
		panic(fmt.Sprintf("matmul: shape mismatch %v @ %v", aShape, bShape))
	}

	result, err := NewRaw(Shape{mm, n}, Float32, m.Device())
	if err != nil {
		panic(err)
	}
	c, aData, bData := result.AsFloat32(), a.AsFloat32(), b.AsFloat32()
	for i := 0; i < mm; i++ {
		for j := 0; j < n; j++ {
			sum := float32(0)
			for kk := 0; kk < k; kk++ {
				sum += aData[i*k+kk] * bData[kk*n+j]
			}
			c[i*n+j] = sum
		}
	}
	return result
}

// BatchMatMul performs naive batched matrix multiplication.
func (m *MockBackend) BatchMatMul(a, b *RawTensor) *RawTensor {
	aShape, bShape := a.Shape(), b.Shape()
	ndim := len(aShape)
	if ndim < 3 || len(bShape) != ndim {
		panic("batchmatmul: inputs must be matching >=3D tensors")
	}

	batch := 1
	for i := 0; i < ndim-2; i++ {
		if aShape[i] != bShape[i] {
			panic(fmt.Sprintf("batchmatmul: batch dimension mismatch at dim %d", i))
		}
		batch *= aShape[i]
	}
	mm, k, n := aShape[ndim-2], aShape[ndim-1], bShape[ndim-1]
	if bShape[ndim-2] != k {
		panic(fmt.Sprintf("batchmatmul: inner dimension mismatch: %d vs %d", k, bShape[ndim-2]))
	}

	outShape := aShape.Clone()
	outShape[ndim-1] = n
	result, err := NewRaw(outShape, Float32, m.Device())
	if err != nil {
		panic(err)
	}
	c, aData, bData := result.AsFloat32(), a.AsFloat32(), b.AsFloat32()
	for bi := 0; bi < batch; bi++ {
		aOff, bOff, cOff := bi*mm*k, bi*k*n, bi*mm*n
		for i := 0; i < mm; i++ {
			for j := 0; j < n; j++ {
				sum := float32(0)
				for kk := 0; kk < k; kk++ {
					sum += aData[aOff+i*k+kk] * bData[bOff+kk*n+j]
				}
				c[cOff+i*n+j] = sum
			}
		}
	}
	return result
}

// Reshape returns a view with the new shape.
func (m *MockBackend) Reshape(t *RawTensor, newShape Shape) *RawTensor {
	return t.Clone().WithShape(newShape)
}

// Transpose permutes dimensions by copying.
func (m *MockBackend) Transpose(t *RawTensor, axes ...int) *RawTensor {
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

	newShape := make(Shape, ndim)
	for i, ax := range axes {
		newShape[i] = shape[ax]
	}
	result, err := NewRaw(newShape, t.DType(), m.Device())
	if err != nil {
		panic(err)
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

// Unsqueeze adds a dimension of size 1.
func (m *MockBackend) Unsqueeze(t *RawTensor, dim int) *RawTensor {
	shape := t.Shape()
	if dim < 0 {
		dim += len(shape) + 1
	}
	newShape := make(Shape, 0, len(shape)+1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, 1)
	newShape = append(newShape, shape[dim:]...)
	return t.Clone().WithShape(newShape)
}

// Squeeze removes a dimension of size 1.
func (m *MockBackend) Squeeze(t *RawTensor, dim int) *RawTensor {
	shape := t.Shape()
	dim = NormalizeDim(dim, len(shape))
	if shape[dim] != 1 {
		panic(fmt.Sprintf("squeeze: dimension %d has size %d, not 1", dim, shape[dim]))
	}
	newShape := make(Shape, 0, len(shape)-1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, shape[dim+1:]...)
	return t.Clone().WithShape(newShape)
}

// Narrow returns the slice [start, start+length) along dim.
func (m *MockBackend) Narrow(t *RawTensor, dim, start, length int) *RawTensor {
	shape := t.Shape()
	dim = NormalizeDim(dim, len(shape))
	if start < 0 || length <= 0 || start+length > shape[dim] {
		panic(fmt.Sprintf("narrow: range [%d, %d) out of bounds for dimension %d (size %d)",
			start, start+length, dim, shape[dim]))
	}

	newShape := shape.Clone()
	newShape[dim] = length
	result, err := NewRaw(newShape, t.DType(), m.Device())
	if err != nil {
		panic(err)
	}

	outer := 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	inner := 1
	for i := dim + 1; i < len(shape); i++ {
		inner *= shape[i]
	}

	elemSize := t.DType().Size()
	src, dst := t.Data(), result.Data()
	for o := 0; o < outer; o++ {
		srcOff := (o*shape[dim] + start) * inner * elemSize
		dstOff := o * length * inner * elemSize
		copy(dst[dstOff:dstOff+length*inner*elemSize], src[srcOff:srcOff+length*inner*elemSize])
	}
	return result
}

// Cat concatenates tensors along dim.
func (m *MockBackend) Cat(tensors []*RawTensor, dim int) *RawTensor {
	first := tensors[0].Shape()
	dim = NormalizeDim(dim, len(first))

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
	result, err := NewRaw(outShape, tensors[0].DType(), m.Device())
	if err != nil {
		panic(err)
	}

	outer := 1
	for i := 0; i < dim; i++ {
		outer *= first[i]
	}
	inner := 1
	for i := dim + 1; i < len(first); i++ {
		inner *= first[i]
	}

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

// MulScalar multiplies each element by a scalar.
func (m *MockBackend) MulScalar(t *RawTensor, scalar any) *RawTensor {
	s := scalar.(float32)
	return m.unary(t, func(x float32) float32 { return x * s })
}

// AddScalar adds a scalar to each element.
func (m *MockBackend) AddScalar(t *RawTensor, scalar any) *RawTensor {
	s := scalar.(float32)
	return m.unary(t, func(x float32) float32 { return x + s })
}

// DivScalar divides each element by a scalar.
func (m *MockBackend) DivScalar(t *RawTensor, scalar any) *RawTensor {
	s := scalar.(float32)
	return m.unary(t, func(x float32) float32 { return x / s })
}

// Exp computes e^x element-wise.
func (m *MockBackend) Exp(t *RawTensor) *RawTensor {
	return m.unary(t, func(x float32) float32 { return float32(math.Exp(float64(x))) })
}

// Sqrt computes sqrt(x) element-wise.
func (m *MockBackend) Sqrt(t *RawTensor) *RawTensor {
	return m.unary(t, func(x float32) float32 { return float32(math.Sqrt(float64(x))) })
}

// Rsqrt computes 1/sqrt(x) element-wise.
func (m *MockBackend) Rsqrt(t *RawTensor) *RawTensor {
	return m.unary(t, func(x float32) float32 { return float32(1.0 / math.Sqrt(float64(x))) })
}

// ReLU computes max(0, x) element-wise.
func (m *MockBackend) ReLU(t *RawTensor) *RawTensor {
	return m.unary(t, func(x float32) float32 {
		if x > 0 {
			return x
		}
		return 0
	})
}

func (m *MockBackend) unary(t *RawTensor, op func(float32) float32) *RawTensor {
	result, err := NewRaw(t.Shape(), Float32, m.Device())
	if err != nil {
		panic(err)
	}
	src, dst := t.AsFloat32(), result.AsFloat32()
	for i := range dst {
		dst[i] = op(src[i])
	}
	return result
}

// Softmax computes softmax along dim.
func (m *MockBackend) Softmax(t *RawTensor, dim int) *RawTensor {
	shape := t.Shape()
	dim = NormalizeDim(dim, len(shape))

	result, err := NewRaw(shape, Float32, m.Device())
	if err != nil {
		panic(err)
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

// SumDim sums along dim.
func (m *MockBackend) SumDim(t *RawTensor, dim int, keepDim bool) *RawTensor {
	shape := t.Shape()
	dim = NormalizeDim(dim, len(shape))

	outShape := reducedShape(shape, dim, keepDim)
	result, err := NewRaw(outShape, Float32, m.Device())
	if err != nil {
		panic(err)
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

// MeanDim computes the mean along dim.
func (m *MockBackend) MeanDim(t *RawTensor, dim int, keepDim bool) *RawTensor {
	shape := t.Shape()
	n := shape[NormalizeDim(dim, len(shape))]
	result := m.SumDim(t, dim, keepDim)
	data := result.AsFloat32()
	for i := range data {
		data[i] /= float32(n)
	}
	return result
}

// Embedding looks up rows of weight by int32 indices.
func (m *MockBackend) Embedding(weight, indices *RawTensor) *RawTensor {
	if indices.DType() != Int32 {
		panic(fmt.Sprintf("embedding: indices must be int32, got %s", indices.DType()))
	}
	weightShape := weight.Shape()
	if len(weightShape) != 2 {
		panic(fmt.Sprintf("embedding: weight must be 2D, got shape %v", weightShape))
	}

	num, dim := weightShape[0], weightShape[1]
	outShape := append(indices.Shape().Clone(), dim)
	result, err := NewRaw(outShape, Float32, m.Device())
	if err != nil {
		panic(err)
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

// outerInner returns the products of the dimensions before and after dim.
func outerInner(shape Shape, dim int) (outer, inner int) {
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
func reducedShape(shape Shape, dim int, keepDim bool) Shape {
	if keepDim {
		out := shape.Clone()
		out[dim] = 1
		return out
	}
	out := make(Shape, 0, len(shape)-1)
	for i, d := range shape {
		if i != dim {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		out = Shape{1}
	}
	return out
}
