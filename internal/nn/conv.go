package nn

import (
	"fmt"

	"github.com/dbnet-ml/dbnet/internal/tensor"
)

// convDims is the shape descriptor of a convolutional layer.
//
// The fixed layer freezes it at construction; the dynamic layer populates it
// through InitLayer. Everything downstream of the descriptor is shared.
type convDims struct {
	nc  int // input channels
	nv1 int // input height
	nv2 int // input width
	k   int // number of filters
	nw1 int // filter height
	nw2 int // filter width
}

// Output spatial dims of a valid, non-padded convolution.

func (d convDims) nh1() int { return d.nv1 - d.nw1 + 1 }
func (d convDims) nh2() int { return d.nv2 - d.nw2 + 1 }

func (d convDims) inputSize() int  { return d.nc * d.nv1 * d.nv2 }
func (d convDims) outputSize() int { return d.k * d.nh1() * d.nh2() }

func (d convDims) weightShape() tensor.Shape {
	return tensor.Shape{d.k, d.nc, d.nw1, d.nw2}
}

func (d convDims) biasShape() tensor.Shape {
	return tensor.Shape{d.k}
}

func (d convDims) outputShape() tensor.Shape {
	return tensor.Shape{d.k, d.nh1(), d.nh2()}
}

func (d convDims) validate() error {
	if d.nc <= 0 || d.nv1 <= 0 || d.nv2 <= 0 {
		return fmt.Errorf("nn: conv visible dims must be positive, got %dx%dx%d", d.nc, d.nv1, d.nv2)
	}
	if d.k <= 0 || d.nw1 <= 0 || d.nw2 <= 0 {
		return fmt.Errorf("nn: conv filter dims must be positive, got %dx%dx%d", d.k, d.nw1, d.nw2)
	}
	if d.nw1 > d.nv1 || d.nw2 > d.nv2 {
		return fmt.Errorf("nn: conv filter %dx%d larger than input %dx%d", d.nw1, d.nw2, d.nv1, d.nv2)
	}
	return nil
}

// ConvConfig configures a convolutional layer.
type ConvConfig struct {
	Channels int // input channels (NC)
	VisibleH int // input height (NV1)
	VisibleW int // input width (NV2)
	Filters  int // number of filters (K)
	KernelH  int // filter height (NW1)
	KernelW  int // filter width (NW2)

	Activation Activation  // applied elementwise after bias add
	WeightInit Initializer // defaults to LeCun
	BiasInit   Initializer // defaults to Zero

	weightInitSet bool
}

// WithWeightInit overrides the default LeCun weight initializer.
func (c ConvConfig) WithWeightInit(in Initializer) ConvConfig {
	c.WeightInit = in
	c.weightInitSet = true
	return c
}

func (c ConvConfig) dims() convDims {
	return convDims{nc: c.Channels, nv1: c.VisibleH, nv2: c.VisibleW, k: c.Filters, nw1: c.KernelH, nw2: c.KernelW}
}

// convCore carries the state and algorithm shared by the fixed and dynamic
// convolutional layers.
type convCore struct {
	dims convDims
	act  Activation

	w *tensor.Tensor // [K, NC, NW1, NW2]
	b *tensor.Tensor // [K]

	// Backup parameters for pretraining rollback. Independent copies, nil
	// until BackupWeights.
	bakW *tensor.Tensor
	bakB *tensor.Tensor

	backend tensor.Backend
}

func (c *convCore) initParams(wInit, bInit Initializer) {
	c.w = tensor.Zeros(c.dims.weightShape())
	c.b = tensor.Zeros(c.dims.biasShape())
	wInit.Fill(c.w, c.dims.inputSize(), c.dims.outputSize())
	bInit.Fill(c.b, c.dims.inputSize(), c.dims.outputSize())
}

// InputSize returns NC * NV1 * NV2.
func (c *convCore) InputSize() int { return c.dims.inputSize() }

// OutputSize returns K * NH1 * NH2.
func (c *convCore) OutputSize() int { return c.dims.outputSize() }

// ParameterCount returns the number of trainable parameters.
func (c *convCore) ParameterCount() int {
	return c.dims.weightShape().NumElements() + c.dims.k
}

// Weights returns the weight tensor [K, NC, NW1, NW2].
func (c *convCore) Weights() *tensor.Tensor { return c.w }

// Biases returns the bias tensor [K].
func (c *convCore) Biases() *tensor.Tensor { return c.b }

// Activation returns the configured activation function.
func (c *convCore) Activation() Activation { return c.act }

// OutputShape returns [K, NH1, NH2] regardless of inputShape; the descriptor
// fixes the input shape, and mismatches are the assembler's fault.
func (c *convCore) OutputShape(tensor.Shape) tensor.Shape {
	return c.dims.outputShape()
}

// PrepareOutput allocates a [samples, K, NH1, NH2] output buffer.
func (c *convCore) PrepareOutput(samples int, _ tensor.Shape) *tensor.Tensor {
	d := c.dims
	return tensor.Zeros(tensor.Shape{samples, d.k, d.nh1(), d.nh2()})
}

// ActivateHidden computes the forward activation of one sample.
//
// input is [NC, NV1, NV2] (or flat with the same element count); output is
// [K, NH1, NH2].
func (c *convCore) ActivateHidden(output, input *tensor.Tensor) {
	d := c.dims
	v := input.Reshape(1, d.nc, d.nv1, d.nv2)
	out := c.backend.ConvForward(v, c.w)
	c.backend.BiasAdd(out, c.b)
	c.act.Apply(out)
	output.CopyFrom(out)
}

// BatchActivateHidden computes the forward activation of a batch.
//
// input is [B, NC, NV1, NV2], or an already-flattened [B, NC*NV1*NV2] which
// is reshaped to the 4-D layout before convolving. output is
// [B, K, NH1, NH2].
func (c *convCore) BatchActivateHidden(output, input *tensor.Tensor) {
	d := c.dims
	v := input
	if v.Shape().Rank() == 2 {
		v = v.Reshape(v.Shape().Dim(0), d.nc, d.nv1, d.nv2)
	}
	out := c.backend.ConvForward(v, c.w)
	c.backend.BiasAdd(out, c.b)
	c.act.Apply(out)
	output.CopyFrom(out)
}

// BatchActivate is BatchActivateHidden with the output buffer allocated by
// the layer.
func (c *convCore) BatchActivate(input *tensor.Tensor) *tensor.Tensor {
	out := c.PrepareOutput(input.Shape().Dim(0), nil)
	c.BatchActivateHidden(out, input)
	return out
}

// AdaptErrors rescales ctx.Errors in place by the activation derivative
// evaluated at ctx.Output.
//
// The Identity activation has a uniformly-1 derivative, so the rescale is
// skipped entirely in that case; only this one function gets the shortcut.
func (c *convCore) AdaptErrors(ctx *Context) {
	if c.act == Identity {
		return
	}
	deriv := c.act.Derivative(ctx.Output)
	c.backend.Mul(ctx.Errors, deriv, ctx.Errors)
}

// BackwardBatch propagates ctx.Errors to the previous layer. output must be
// [B, NC, NV1, NV2] and must not alias ctx.Errors.
func (c *convCore) BackwardBatch(output *tensor.Tensor, ctx *Context) {
	grad := c.backend.ConvBackwardData(ctx.Errors, c.w)
	output.CopyFrom(grad)
}

// ComputeGradients fills ctx.WGrad from the retained forward input and
// ctx.Errors, and ctx.BGrad from ctx.Errors alone.
func (c *convCore) ComputeGradients(ctx *Context) {
	d := c.dims
	in := ctx.Input
	if in.Shape().Rank() == 2 {
		in = in.Reshape(in.Shape().Dim(0), d.nc, d.nv1, d.nv2)
	}
	ctx.WGrad.CopyFrom(c.backend.ConvBackwardFilter(in, ctx.Errors))
	ctx.BGrad.CopyFrom(c.backend.BiasBatchSum(ctx.Errors))
}

// BackupWeights snapshots the parameters into independent backup copies,
// replacing any previous snapshot.
func (c *convCore) BackupWeights() {
	c.bakW = c.w.Clone()
	c.bakB = c.b.Clone()
}

// RestoreWeights copies the backup snapshot back into the live parameters.
func (c *convCore) RestoreWeights() error {
	if c.bakW == nil {
		return fmt.Errorf("nn: no weight backup to restore")
	}
	c.w.CopyFrom(c.bakW)
	c.b.CopyFrom(c.bakB)
	return nil
}

// DiscardBackup releases the backup snapshot, if any.
func (c *convCore) DiscardBackup() {
	c.bakW = nil
	c.bakB = nil
}

// HasBackup reports whether a backup snapshot exists.
func (c *convCore) HasBackup() bool { return c.bakW != nil }

func (c *convCore) shortString(name string) string {
	d := c.dims
	return fmt.Sprintf("%s: %dx%dx%d -> (%dx%dx%d) -> %s -> %dx%dx%d",
		name, d.nc, d.nv1, d.nv2, d.k, d.nw1, d.nw2, c.act, d.k, d.nh1(), d.nh2())
}

// Conv is a standard convolutional layer with a fixed shape descriptor.
//
// Weights are [K, NC, NW1, NW2], biases [K]. The output spatial dims follow
// the valid-convolution rule NH = NV - NW + 1 per axis.
type Conv struct {
	convCore
}

// Conv is trainable; DynConv inherits the same method set through convCore.
var (
	_ Trainable = (*Conv)(nil)
	_ Trainable = (*DynConv)(nil)
)

// NewConv creates a convolutional layer, initializing weights and biases
// with the configured initializers (LeCun and Zero by default).
func NewConv(cfg ConvConfig, backend tensor.Backend) (*Conv, error) {
	dims := cfg.dims()
	if err := dims.validate(); err != nil {
		return nil, err
	}

	wInit := cfg.WeightInit
	if wInit == InitZero && !cfg.weightInitSet {
		wInit = InitLeCun
	}

	c := &Conv{convCore{dims: dims, act: cfg.Activation, backend: backend}}
	c.initParams(wInit, cfg.BiasInit)
	return c, nil
}

// Traits returns the static record of the fixed convolutional layer.
func (c *Conv) Traits() Traits { return convTraits }

// ShortString returns a one-line description for diagnostics.
func (c *Conv) ShortString() string { return c.shortString("Conv") }

// DynInit populates the mutable shape fields of a dynamic counterpart with
// this layer's shape parameters. One-way: weights are not copied.
func (c *Conv) DynInit(dyn *DynConv) error {
	d := c.dims
	return dyn.InitLayer(d.nc, d.nv1, d.nv2, d.k, d.nw1, d.nw2)
}
