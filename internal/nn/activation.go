package nn

import (
	"fmt"

	"github.com/goki/mat32"

	"github.com/dbnet-ml/dbnet/internal/tensor"
)

// Activation enumerates the supported activation functions.
//
// Derivatives are expressed in terms of the forward output rather than the
// input, which is what AdaptErrors has available (the retained context
// output).
type Activation int

// Supported activation functions.
const (
	Identity Activation = iota
	Sigmoid
	Tanh
	ReLU
)

// String returns the activation name.
func (a Activation) String() string {
	switch a {
	case Identity:
		return "Identity"
	case Sigmoid:
		return "Sigmoid"
	case Tanh:
		return "Tanh"
	case ReLU:
		return "ReLU"
	default:
		return fmt.Sprintf("Activation(%d)", int(a))
	}
}

// Apply evaluates the activation elementwise, in place.
func (a Activation) Apply(t *tensor.Tensor) {
	data := t.Data()
	switch a {
	case Identity:
		// f(x) = x
	case Sigmoid:
		for i, x := range data {
			data[i] = 1 / (1 + mat32.Exp(-x))
		}
	case Tanh:
		for i, x := range data {
			data[i] = mat32.Tanh(x)
		}
	case ReLU:
		for i, x := range data {
			data[i] = mat32.Max(0, x)
		}
	default:
		panic(fmt.Sprintf("nn: unknown activation %d", int(a)))
	}
}

// Derivative returns f'(x) evaluated from the forward output y = f(x).
func (a Activation) Derivative(output *tensor.Tensor) *tensor.Tensor {
	d := tensor.Zeros(output.Shape())
	dd, od := d.Data(), output.Data()
	switch a {
	case Identity:
		for i := range dd {
			dd[i] = 1
		}
	case Sigmoid:
		for i, y := range od {
			dd[i] = y * (1 - y)
		}
	case Tanh:
		for i, y := range od {
			dd[i] = 1 - y*y
		}
	case ReLU:
		for i, y := range od {
			if y > 0 {
				dd[i] = 1
			}
		}
	default:
		panic(fmt.Sprintf("nn: unknown activation %d", int(a)))
	}
	return d
}
