// Copyright 2025 The dbnet Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/dbnet-ml/dbnet/internal/backend/cpu"
	"github.com/dbnet-ml/dbnet/tensor"
)

// Backend represents the CPU backend implementation.
//
// Convolution kernels are lowered to im2col + float32 GEMM; batch-level
// loops run on a bounded worker pool.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend with default parallelism.
func New() *Backend {
	return internalcpu.New()
}

// NewSequential creates a CPU backend with parallel execution disabled,
// useful for deterministic profiling and debugging.
func NewSequential() *Backend {
	return internalcpu.NewSequential()
}
