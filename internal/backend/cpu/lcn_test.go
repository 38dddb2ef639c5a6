package cpu

import (
	"testing"

	"github.com/dbnet-ml/dbnet/internal/tensor"
)

// boxKernel builds a uniform kxk window summing to 1. The backend only
// requires the kernel to be a normalized weighting window, so a box filter
// keeps the expected values easy to reason about.
func boxKernel(k int) *tensor.Tensor {
	w := tensor.Full(tensor.Shape{k, k}, 1/float32(k*k))
	return w
}

// TestLCNNormalize_ConstantInputIsZero: a flat image has no contrast, so the
// subtractive step cancels everything.
func TestLCNNormalize_ConstantInputIsZero(t *testing.T) {
	backend := New()

	input := tensor.Full(tensor.Shape{2, 4, 4}, 7)
	output := tensor.Zeros(tensor.Shape{2, 4, 4})
	kernel := boxKernel(3)

	backend.LCNNormalize(output, input, kernel, 3, 1)

	for i, v := range output.Data() {
		if v != 0 {
			t.Errorf("output[%d]: expected 0 for constant input, got %.6f", i, v)
		}
	}
}

// TestLCNNormalize_Deterministic: the transform is a pure function of its
// input.
func TestLCNNormalize_Deterministic(t *testing.T) {
	backend := New()

	input := tensor.Randn(tensor.Shape{1, 5, 5})
	kernel := boxKernel(3)

	a := tensor.Zeros(tensor.Shape{1, 5, 5})
	b := tensor.Zeros(tensor.Shape{1, 5, 5})
	backend.LCNNormalize(a, input, kernel, 3, 1)
	backend.LCNNormalize(b, input, kernel, 3, 1)

	for i := range a.Data() {
		if a.Data()[i] != b.Data()[i] {
			t.Fatalf("non-deterministic at %d: %.6f vs %.6f", i, a.Data()[i], b.Data()[i])
		}
	}
}

// TestLCNNormalize_ChannelsIndependent: each channel is normalized on its own
// statistics.
func TestLCNNormalize_ChannelsIndependent(t *testing.T) {
	backend := New()

	single := tensor.Randn(tensor.Shape{1, 4, 4})
	double := tensor.Zeros(tensor.Shape{2, 4, 4})
	copy(double.Data()[:16], single.Data())
	copy(double.Data()[16:], single.Data())

	kernel := boxKernel(3)

	outSingle := tensor.Zeros(tensor.Shape{1, 4, 4})
	outDouble := tensor.Zeros(tensor.Shape{2, 4, 4})
	backend.LCNNormalize(outSingle, single, kernel, 3, 1)
	backend.LCNNormalize(outDouble, double, kernel, 3, 1)

	for i := 0; i < 16; i++ {
		if outDouble.Data()[i] != outSingle.Data()[i] {
			t.Fatalf("channel 0 differs at %d", i)
		}
		if outDouble.Data()[16+i] != outSingle.Data()[i] {
			t.Fatalf("channel 1 differs at %d", i)
		}
	}
}

func TestLCNNormalize_ShapeMismatchPanics(t *testing.T) {
	backend := New()
	kernel := boxKernel(3)

	defer func() {
		if recover() == nil {
			t.Error("expected panic for shape mismatch")
		}
	}()
	backend.LCNNormalize(tensor.Zeros(tensor.Shape{1, 3, 3}), tensor.Zeros(tensor.Shape{1, 4, 4}), kernel, 3, 1)
}
