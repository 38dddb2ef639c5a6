// Package cpu implements the tensor.Backend contract in pure Go.
//
// Convolutions are lowered to im2col + float32 GEMM (gonum blas32); the
// remaining kernels are straight loops, parallelized over the batch axis
// where that pays off.
package cpu

import (
	"fmt"

	"github.com/dbnet-ml/dbnet/internal/parallel"
	"github.com/dbnet-ml/dbnet/internal/tensor"
)

// CPUBackend executes all tensor operations on the host CPU.
type CPUBackend struct {
	par parallel.Config
}

// New creates a CPU backend with default parallelism.
func New() *CPUBackend {
	return &CPUBackend{par: parallel.DefaultConfig()}
}

// NewSequential creates a CPU backend with parallel execution disabled.
// Useful for deterministic profiling and debugging.
func NewSequential() *CPUBackend {
	cfg := parallel.DefaultConfig()
	cfg.Enabled = false
	return &CPUBackend{par: cfg}
}

// Name identifies the backend in diagnostics.
func (cpu *CPUBackend) Name() string {
	return "cpu"
}

// Mul performs the elementwise product a*b into dst.
func (cpu *CPUBackend) Mul(dst, a, b *tensor.Tensor) {
	ad, bd, dd := a.Data(), b.Data(), dst.Data()
	if len(ad) != len(bd) || len(ad) != len(dd) {
		panic(fmt.Sprintf("cpu: Mul size mismatch: %v, %v -> %v", a.Shape(), b.Shape(), dst.Shape()))
	}
	for i := range dd {
		dd[i] = ad[i] * bd[i]
	}
}
