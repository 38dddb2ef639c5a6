// Copyright 2025 The dbnet Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for tensors in the dbnet library.
//
// The package defines the dense float32 Tensor, the runtime Shape type, and
// the Backend interface implemented by compute backends:
//
//	backend := cpu.New()
//	x := tensor.Zeros(tensor.Shape{1, 5, 5})
//	y := backend.ConvForward(x.Reshape(1, 1, 5, 5), kernel)
package tensor

import (
	"github.com/dbnet-ml/dbnet/internal/tensor"
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Tensor is a dense float32 tensor with row-major layout.
type Tensor = tensor.Tensor

// Backend is the interface compute backends implement. Layers delegate all
// numeric kernels (convolution, normalization, bias ops) to it.
type Backend = tensor.Backend

// Creation functions

// New creates an uninitialized (zero-filled) tensor with the given shape.
func New(shape Shape) (*Tensor, error) {
	return tensor.New(shape)
}

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape) *Tensor {
	return tensor.Zeros(shape)
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape) *Tensor {
	return tensor.Ones(shape)
}

// Full creates a tensor filled with a specific value.
func Full(shape Shape, value float32) *Tensor {
	return tensor.Full(shape, value)
}

// Randn creates a tensor filled with values drawn from N(0, 1).
func Randn(shape Shape) *Tensor {
	return tensor.Randn(shape)
}

// FromSlice creates a tensor from a Go slice. The data is copied.
func FromSlice(data []float32, shape Shape) (*Tensor, error) {
	return tensor.FromSlice(data, shape)
}
