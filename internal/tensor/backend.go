package tensor

// Backend defines the interface compute backends must implement. Backends
// operate on RawTensors and handle the actual computation; the typed
// Tensor[T, B] methods are thin wrappers over these operations.
//
// The CPU backend lives in internal/backend/cpu. The interface is the seam
// where accelerator backends (GPU, BLAS variants) plug in without touching
// the model code.
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// MatMul performs 2D matrix multiplication: (M, K) @ (K, N) -> (M, N).
	MatMul(a, b *RawTensor) *RawTensor

	// BatchMatMul performs batched matrix multiplication over the last two
	// dimensions. For 3D: [B, M, K] @ [B, K, N] -> [B, M, N].
	// For 4D: [B, H, M, K] @ [B, H, K, N] -> [B, H, M, N].
	BatchMatMul(a, b *RawTensor) *RawTensor

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor
	Unsqueeze(t *RawTensor, dim int) *RawTensor
	Squeeze(t *RawTensor, dim int) *RawTensor

	// Narrow returns the slice [start, start+length) of t along dim.
	// The causal masking loop uses this to truncate keys/values to a prefix.
	Narrow(t *RawTensor, dim, start, length int) *RawTensor

	// Cat concatenates tensors along the given dimension.
	Cat(tensors []*RawTensor, dim int) *RawTensor

	// Scalar operations (element-wise with a scalar operand).
	MulScalar(t *RawTensor, scalar any) *RawTensor
	AddScalar(t *RawTensor, scalar any) *RawTensor
	DivScalar(t *RawTensor, scalar any) *RawTensor

	// Element-wise math.
	Exp(t *RawTensor) *RawTensor
	Sqrt(t *RawTensor) *RawTensor
	Rsqrt(t *RawTensor) *RawTensor
	ReLU(t *RawTensor) *RawTensor

	// Softmax along a dimension (supports negative indexing).
	Softmax(t *RawTensor, dim int) *RawTensor

	// Reductions along a dimension.
	SumDim(t *RawTensor, dim int, keepDim bool) *RawTensor
	MeanDim(t *RawTensor, dim int, keepDim bool) *RawTensor

	// Embedding looks up rows of weight [num, dim] by int32 indices,
	// producing [...indices.shape, dim].
	Embedding(weight, indices *RawTensor) *RawTensor

	// Metadata.
	Name() string
	Device() Device
}
