package nn

import (
	"fmt"

	"github.com/dbnet-ml/dbnet/internal/tensor"
)

// DynConv is the dynamic-shape twin of Conv: the same algorithm bound to a
// shape descriptor populated at runtime through InitLayer instead of frozen
// at construction.
//
// Used when a statically-configured network is converted into a
// runtime-configurable one; Conv.DynInit performs that conversion.
type DynConv struct {
	convCore
	act0        Activation
	wInit       Initializer
	bInit       Initializer
	initialized bool
}

// NewDynConv creates an uninitialized dynamic convolutional layer. The shape
// descriptor must be populated with InitLayer before any use.
func NewDynConv(act Activation, wInit, bInit Initializer, backend tensor.Backend) *DynConv {
	return &DynConv{
		convCore: convCore{act: act, backend: backend},
		act0:     act,
		wInit:    wInit,
		bInit:    bInit,
	}
}

// InitLayer sets the shape descriptor and initializes the parameters.
//
// Fails fast on invalid dimensions; a layer that fails InitLayer must not be
// used in a pipeline.
func (c *DynConv) InitLayer(nc, nv1, nv2, k, nw1, nw2 int) error {
	dims := convDims{nc: nc, nv1: nv1, nv2: nv2, k: k, nw1: nw1, nw2: nw2}
	if err := dims.validate(); err != nil {
		return err
	}
	c.dims = dims
	c.act = c.act0
	c.initParams(c.wInit, c.bInit)
	c.initialized = true
	return nil
}

// Initialized reports whether InitLayer has run successfully.
func (c *DynConv) Initialized() bool { return c.initialized }

// Traits returns the static record of the dynamic convolutional layer.
func (c *DynConv) Traits() Traits { return dynConvTraits }

// ShortString returns a one-line description for diagnostics.
func (c *DynConv) ShortString() string {
	if !c.initialized {
		return "Conv(dyn): uninitialized"
	}
	return c.shortString("Conv(dyn)")
}

// String implements fmt.Stringer.
func (c *DynConv) String() string { return c.ShortString() }

// mustInit guards the hot-path operations of an uninitialized layer.
func (c *DynConv) mustInit() {
	if !c.initialized {
		panic(fmt.Sprintf("nn: %s used before InitLayer", c.ShortString()))
	}
}

// ActivateHidden computes the forward activation of one sample.
func (c *DynConv) ActivateHidden(output, input *tensor.Tensor) {
	c.mustInit()
	c.convCore.ActivateHidden(output, input)
}

// BatchActivateHidden computes the forward activation of a batch.
func (c *DynConv) BatchActivateHidden(output, input *tensor.Tensor) {
	c.mustInit()
	c.convCore.BatchActivateHidden(output, input)
}
