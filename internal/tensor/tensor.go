// Package tensor implements the float32 tensor type shared by all layers
// and compute backends.
//
// A Tensor is a dense row-major buffer plus a runtime Shape. Fixed-shape
// ("fast") and dynamic-shape ("dyn") layers differ only in where their shape
// descriptor comes from; the tensor representation is the same for both, so
// one kernel implementation serves both binding strategies.
package tensor

import (
	"fmt"
	"math/rand"
)

// Tensor is a dense float32 tensor with row-major layout.
//
// Tensors are created through the package creation functions (Zeros, Full,
// FromSlice, Randn) or by Reshape/Clone on an existing tensor. The zero value
// is not usable.
type Tensor struct {
	shape  Shape
	stride []int
	data   []float32
}

// New creates an uninitialized (zero-filled) tensor with the given shape.
func New(shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("tensor: invalid shape: %w", err)
	}
	return &Tensor{
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		data:   make([]float32, shape.NumElements()),
	}, nil
}

// MustNew is New that panics on invalid shapes.
//
// Used where the shape comes from a validated layer descriptor, not from
// external input.
func MustNew(shape Shape) *Tensor {
	t, err := New(shape)
	if err != nil {
		panic(err)
	}
	return t
}

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape) *Tensor {
	return MustNew(shape)
}

// Full creates a tensor filled with value.
func Full(shape Shape, value float32) *Tensor {
	t := MustNew(shape)
	for i := range t.data {
		t.data[i] = value
	}
	return t
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape) *Tensor {
	return Full(shape, 1)
}

// FromSlice creates a tensor from a Go slice. The data is copied.
func FromSlice(data []float32, shape Shape) (*Tensor, error) {
	t, err := New(shape)
	if err != nil {
		return nil, err
	}
	if len(data) != len(t.data) {
		return nil, fmt.Errorf("tensor: data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}
	copy(t.data, data)
	return t, nil
}

// Randn creates a tensor filled with values from N(0, 1).
func Randn(shape Shape) *Tensor {
	t := MustNew(shape)
	for i := range t.data {
		t.data[i] = float32(rand.NormFloat64())
	}
	return t
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// Strides returns the tensor's memory strides.
func (t *Tensor) Strides() []int {
	return t.stride
}

// NumElements returns the number of elements.
func (t *Tensor) NumElements() int {
	return len(t.data)
}

// Data returns the underlying buffer. Mutations are visible to every view
// sharing the buffer.
func (t *Tensor) Data() []float32 {
	return t.data
}

// At returns the element at the given indices.
func (t *Tensor) At(idx ...int) float32 {
	return t.data[t.flatIndex(idx)]
}

// Set stores v at the given indices.
func (t *Tensor) Set(v float32, idx ...int) {
	t.data[t.flatIndex(idx)] = v
}

func (t *Tensor) flatIndex(idx []int) int {
	if len(idx) != len(t.shape) {
		panic(fmt.Sprintf("tensor: %d indices for rank-%d tensor", len(idx), len(t.shape)))
	}
	flat := 0
	for i, x := range idx {
		if x < 0 || x >= t.shape[i] {
			panic(fmt.Sprintf("tensor: index %d out of range for dimension %d (size %d)", x, i, t.shape[i]))
		}
		flat += x * t.stride[i]
	}
	return flat
}

// Reshape returns a view with a new shape sharing the same buffer.
//
// The element count must be preserved.
func (t *Tensor) Reshape(dims ...int) *Tensor {
	shape := Shape(dims)
	if shape.NumElements() != len(t.data) {
		panic(fmt.Sprintf("tensor: cannot reshape %v (%d elements) to %v (%d elements)",
			t.shape, len(t.data), shape, shape.NumElements()))
	}
	return &Tensor{
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		data:   t.data,
	}
}

// Sample returns a view of sample i of a batched tensor, dropping the
// leading batch axis.
//
// For a [B, C, H, W] tensor, Sample(i) is the [C, H, W] slice of sample i.
func (t *Tensor) Sample(i int) *Tensor {
	if len(t.shape) < 2 {
		panic(fmt.Sprintf("tensor: Sample requires a batched tensor, got shape %v", t.shape))
	}
	if i < 0 || i >= t.shape[0] {
		panic(fmt.Sprintf("tensor: sample %d out of range for batch size %d", i, t.shape[0]))
	}
	sub := t.shape[1:].Clone()
	n := sub.NumElements()
	return &Tensor{
		shape:  sub,
		stride: sub.ComputeStrides(),
		data:   t.data[i*n : (i+1)*n],
	}
}

// Clone returns a deep copy with its own buffer.
func (t *Tensor) Clone() *Tensor {
	c := MustNew(t.shape)
	copy(c.data, t.data)
	return c
}

// CopyFrom copies src's elements into t. Shapes must match element count.
func (t *Tensor) CopyFrom(src *Tensor) {
	if len(src.data) != len(t.data) {
		panic(fmt.Sprintf("tensor: copy size mismatch: %v vs %v", t.shape, src.shape))
	}
	copy(t.data, src.data)
}

// Fill sets every element to v.
func (t *Tensor) Fill(v float32) {
	for i := range t.data {
		t.data[i] = v
	}
}

// String returns a compact description, not the full contents.
func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor(shape=%v)", t.shape)
}
