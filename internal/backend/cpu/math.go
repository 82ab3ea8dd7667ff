package cpu

import (
	"fmt"
	"math"

	"github.com/loom-ml/loom/internal/tensor"
)

// Exp computes the exponential (e^x) of each element.
func (cpu *CPUBackend) Exp(t *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("exp", t, func(x float32) float32 {
		return float32(math.Exp(float64(x)))
	})
}

// Sqrt computes the square root of each element.
func (cpu *CPUBackend) Sqrt(t *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("sqrt", t, func(x float32) float32 {
		return float32(math.Sqrt(float64(x)))
	})
}

// Rsqrt computes the reciprocal square root (1/sqrt(x)) of each element.
func (cpu *CPUBackend) Rsqrt(t *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("rsqrt", t, func(x float32) float32 {
		return float32(1.0 / math.Sqrt(float64(x)))
	})
}

// ReLU computes max(0, x) for each element.
func (cpu *CPUBackend) ReLU(t *tensor.RawTensor) *tensor.RawTensor {
	return cpu.unary("relu", t, func(x float32) float32 {
		if x > 0 {
			return x
		}
		return 0
	})
}

// MulScalar multiplies each element by a scalar.
func (cpu *CPUBackend) MulScalar(t *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s := toFloat32("mulscalar", scalar)
	return cpu.unary("mulscalar", t, func(x float32) float32 { return x * s })
}

// AddScalar adds a scalar to each element.
func (cpu *CPUBackend) AddScalar(t *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s := toFloat32("addscalar", scalar)
	return cpu.unary("addscalar", t, func(x float32) float32 { return x + s })
}

// DivScalar divides each element by a scalar.
func (cpu *CPUBackend) DivScalar(t *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s := toFloat32("divscalar", scalar)
	if s == 0 {
		panic("divscalar: division by zero")
	}
	return cpu.unary("divscalar", t, func(x float32) float32 { return x / s })
}

func (cpu *CPUBackend) unary(name string, t *tensor.RawTensor, op func(float32) float32) *tensor.RawTensor {
	if t.DType() != tensor.Float32 {
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, t.DType()))
	}

	result, err := tensor.NewRaw(t.Shape(), tensor.Float32, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}

	src, dst := t.AsFloat32(), result.AsFloat32()
	for i := range dst {
		dst[i] = op(src[i])
	}
	return result
}

func toFloat32(name string, scalar any) float32 {
	switch s := scalar.(type) {
	case float32:
		return s
	case float64:
		return float32(s)
	case int:
		return float32(s)
	case int32:
		return float32(s)
	default:
		panic(fmt.Sprintf("%s: unsupported scalar type %T", name, scalar))
	}
}
