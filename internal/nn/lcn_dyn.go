package nn

import (
	"fmt"

	"github.com/dbnet-ml/dbnet/internal/parallel"
	"github.com/dbnet-ml/dbnet/internal/tensor"
)

// DynLCN is the dynamic-shape twin of LCN: the kernel size is a runtime
// field populated by InitLayer instead of frozen at construction.
type DynLCN struct {
	lcnCore
	initialized bool
}

// NewDynLCN creates an uninitialized dynamic LCN layer. InitLayer must run
// before any use.
func NewDynLCN(backend tensor.Backend) *DynLCN {
	return &DynLCN{lcnCore: lcnCore{sigma: DefaultLCNSigma, backend: backend, par: parallel.DefaultConfig()}}
}

// InitLayer sets the kernel size K and the center offset Mid = K/2.
//
// Fails fast unless K is odd and greater than 1 (the kernel must have a
// well-defined center); training must not proceed with an invalid layer.
func (l *DynLCN) InitLayer(k int) error {
	if err := validKernelSize(k); err != nil {
		return err
	}
	l.k = k
	l.mid = k / 2
	l.initialized = true
	return nil
}

// Initialized reports whether InitLayer has run successfully.
func (l *DynLCN) Initialized() bool { return l.initialized }

// Traits returns the static record of the dynamic LCN layer.
func (l *DynLCN) Traits() Traits { return dynLCNTraits }

// ShortString returns a one-line description for diagnostics.
func (l *DynLCN) ShortString() string {
	if !l.initialized {
		return "LCN(dyn): uninitialized"
	}
	return fmt.Sprintf("LCN(dyn): %dx%d", l.k, l.k)
}

// String implements fmt.Stringer.
func (l *DynLCN) String() string { return l.ShortString() }

func (l *DynLCN) mustInit() {
	if !l.initialized {
		panic("nn: DynLCN used before InitLayer")
	}
}

// ActivateHidden normalizes one sample.
func (l *DynLCN) ActivateHidden(output, input *tensor.Tensor) {
	l.mustInit()
	l.lcnCore.ActivateHidden(output, input)
}

// BatchActivateHidden normalizes every sample of a batch independently.
func (l *DynLCN) BatchActivateHidden(output, input *tensor.Tensor) {
	l.mustInit()
	l.lcnCore.BatchActivateHidden(output, input)
}
