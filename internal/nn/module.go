// Package nn implements the layer contract used by the training driver.
//
// Layers come in two capability tiers:
//   - Layer: forward activation only (transform layers such as LCN)
//   - Trainable: layers owning weights and biases (convolution), adding
//     error adaptation, backward propagation and gradient computation
//
// Every layer also exposes a static Traits record. The driver selects which
// steps to run per layer from the record and the Trainable capability, never
// from concrete type identity.
//
// Each layer type exists in two shape-binding flavors sharing one algorithm:
// a fixed variant whose shape descriptor is frozen at construction, and a
// dynamic variant whose descriptor is populated later through InitLayer. A
// fixed layer can populate its dynamic twin via DynInit.
package nn

import (
	"github.com/dbnet-ml/dbnet/internal/tensor"
)

// Layer is the base contract every layer implements.
//
// ActivateHidden and BatchActivateHidden write into caller-supplied output
// buffers; PrepareOutput allocates a buffer of the right shape for a batch of
// samples. Output shape is a pure function of input shape and the layer's
// descriptor, and OutputShape is that function; the same one sizes the
// context buffers at assembly time and the kernels at execution time.
type Layer interface {
	// ActivateHidden computes the forward activation of a single sample.
	ActivateHidden(output, input *tensor.Tensor)

	// BatchActivateHidden computes the forward activation of a batch.
	// The leading axis of both tensors is the batch axis.
	BatchActivateHidden(output, input *tensor.Tensor)

	// PrepareOutput allocates an output buffer for the given number of
	// samples, shaped according to the layer's output for inputShape.
	PrepareOutput(samples int, inputShape tensor.Shape) *tensor.Tensor

	// OutputShape returns the per-sample output shape for a per-sample
	// input shape.
	OutputShape(inputShape tensor.Shape) tensor.Shape

	// Traits returns the static capability record of the layer type.
	Traits() Traits

	// ShortString returns a one-line description for diagnostics.
	ShortString() string
}

// Trainable is the contract of layers with trainable parameters.
//
// The driver invokes AdaptErrors, BackwardBatch and ComputeGradients in that
// order during the reverse pass, strictly after the layer's own forward pass
// within the same step.
type Trainable interface {
	Layer

	// AdaptErrors rescales ctx.Errors in place by the derivative of the
	// activation function evaluated at ctx.Output. The rescale is skipped
	// when the activation is Identity.
	AdaptErrors(ctx *Context)

	// BackwardBatch propagates ctx.Errors to the previous layer, writing
	// into the caller-supplied output buffer. output must not alias
	// ctx.Errors.
	BackwardBatch(output *tensor.Tensor, ctx *Context)

	// ComputeGradients fills ctx.WGrad and ctx.BGrad from ctx.Input and
	// ctx.Errors for the optimizer to consume.
	ComputeGradients(ctx *Context)

	// Weights returns the weight tensor, owned by the layer.
	Weights() *tensor.Tensor

	// Biases returns the bias tensor, owned by the layer.
	Biases() *tensor.Tensor
}
