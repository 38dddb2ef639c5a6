package nn

import (
	"fmt"
	"math"

	"github.com/goki/mat32"

	"github.com/dbnet-ml/dbnet/internal/parallel"
	"github.com/dbnet-ml/dbnet/internal/tensor"
)

// DefaultLCNSigma is the spatial falloff used when none is configured.
const DefaultLCNSigma = 2.0

// lcnCore carries the state and algorithm shared by the fixed and dynamic
// local-contrast-normalization layers.
type lcnCore struct {
	k     int // kernel size, odd and > 1
	mid   int // center offset, K/2
	sigma float32

	backend tensor.Backend
	par     parallel.Config
}

func validKernelSize(k int) error {
	if k <= 1 {
		return fmt.Errorf("nn: LCN kernel size must be greater than 1, got %d", k)
	}
	if k%2 == 0 {
		return fmt.Errorf("nn: LCN kernel size must be odd, got %d", k)
	}
	return nil
}

// KernelSize returns the configured kernel size K.
func (l *lcnCore) KernelSize() int { return l.k }

// Mid returns the kernel center offset K/2.
func (l *lcnCore) Mid() int { return l.mid }

// Sigma returns the spatial falloff of the normalization kernel.
func (l *lcnCore) Sigma() float32 { return l.sigma }

// SetSigma overrides the spatial falloff.
func (l *lcnCore) SetSigma(sigma float32) { l.sigma = sigma }

// Filter builds the KxK normalization kernel for the given falloff.
//
// Pure function of (K, Mid, sigma): a Gaussian window centered at Mid,
// normalized to sum to 1 so the subtractive step computes a weighted local
// mean.
func (l *lcnCore) Filter(sigma float32) *tensor.Tensor {
	w := tensor.Zeros(tensor.Shape{l.k, l.k})
	data := w.Data()

	norm := float32(1 / (2 * math.Pi * float64(sigma) * float64(sigma)))
	sum := float32(0)
	for i := 0; i < l.k; i++ {
		for j := 0; j < l.k; j++ {
			dx := float32(i - l.mid)
			dy := float32(j - l.mid)
			v := norm * mat32.Exp(-(dx*dx+dy*dy)/(2*sigma*sigma))
			data[i*l.k+j] = v
			sum += v
		}
	}
	for i := range data {
		data[i] /= sum
	}
	return w
}

// OutputShape mirrors the input shape: normalization preserves dimensions.
func (l *lcnCore) OutputShape(inputShape tensor.Shape) tensor.Shape {
	return inputShape.Clone()
}

// PrepareOutput allocates a [samples, ...inputShape] buffer.
func (l *lcnCore) PrepareOutput(samples int, inputShape tensor.Shape) *tensor.Tensor {
	s := make(tensor.Shape, 0, len(inputShape)+1)
	s = append(s, samples)
	return tensor.Zeros(append(s, inputShape...))
}

// ActivateHidden normalizes one [C, H, W] sample into output, which must
// have the input's shape. Deterministic; no learned state.
func (l *lcnCore) ActivateHidden(output, input *tensor.Tensor) {
	w := l.Filter(l.sigma)
	l.activateWith(output, input, w)
}

func (l *lcnCore) activateWith(output, input, w *tensor.Tensor) {
	in, out := input, output
	if in.Shape().Rank() == 2 {
		in = in.Reshape(1, in.Shape().Dim(0), in.Shape().Dim(1))
		out = out.Reshape(1, in.Shape().Dim(1), in.Shape().Dim(2))
	}
	l.backend.LCNNormalize(out, in, w, l.k, l.mid)
}

// BatchActivateHidden applies the normalization independently to every
// sample along the batch axis. Samples never interact, so they run on the
// worker pool; the kernel is computed once and shared read-only.
func (l *lcnCore) BatchActivateHidden(output, input *tensor.Tensor) {
	if !output.Shape().Equal(input.Shape()) {
		panic(fmt.Sprintf("nn: LCN output shape %v != input shape %v", output.Shape(), input.Shape()))
	}
	w := l.Filter(l.sigma)
	parallel.ForSamples(input.Shape().Dim(0), func(b int) {
		l.activateWith(output.Sample(b), input.Sample(b), w)
	}, l.par)
}

// BatchActivate is BatchActivateHidden with the output buffer allocated by
// the layer, mirroring the input batch shape.
func (l *lcnCore) BatchActivate(input *tensor.Tensor) *tensor.Tensor {
	out := tensor.Zeros(input.Shape())
	l.BatchActivateHidden(out, input)
	return out
}

// LCN is a local contrast normalization layer with the kernel size frozen at
// construction.
//
// A transform layer: no trainable parameters, forward pass only. The driver
// skips backward and gradient steps based on the trait record.
type LCN struct {
	lcnCore
}

var (
	_ Layer = (*LCN)(nil)
	_ Layer = (*DynLCN)(nil)
)

// NewLCN creates a fixed LCN layer. The kernel size must be odd and greater
// than 1 so the kernel has a well-defined center.
func NewLCN(k int, backend tensor.Backend) (*LCN, error) {
	if err := validKernelSize(k); err != nil {
		return nil, err
	}
	return &LCN{lcnCore{k: k, mid: k / 2, sigma: DefaultLCNSigma, backend: backend, par: parallel.DefaultConfig()}}, nil
}

// Traits returns the static record of the fixed LCN layer.
func (l *LCN) Traits() Traits { return lcnTraits }

// ShortString returns a one-line description for diagnostics.
func (l *LCN) ShortString() string {
	return fmt.Sprintf("LCN: %dx%d", l.k, l.k)
}

// DynInit populates the mutable fields of a dynamic counterpart with this
// layer's kernel size.
func (l *LCN) DynInit(dyn *DynLCN) error {
	return dyn.InitLayer(l.k)
}
