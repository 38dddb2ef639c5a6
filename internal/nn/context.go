package nn

import (
	"fmt"

	"github.com/dbnet-ml/dbnet/internal/tensor"
)

// Context holds the per-layer scratch state of one training run.
//
// One Context exists per (layer, training run) pair, allocated once at
// assembly time and mutated by every forward/backward pass. Input, Output and
// Errors carry the batch axis in front; WGrad/BGrad and the momentum
// increments WInc/BInc mirror the parameter shapes and are nil for layers
// without trainable parameters.
//
// The driver enforces strictly sequential access per Context, so no locking
// exists here.
type Context struct {
	Input  *tensor.Tensor // forward input, retained for gradient computation
	Output *tensor.Tensor // forward output, retained for error adaptation
	Errors *tensor.Tensor // error gradient at the layer output

	WGrad *tensor.Tensor // weight gradient, shaped like the weights
	BGrad *tensor.Tensor // bias gradient, shaped like the biases
	WInc  *tensor.Tensor // weight momentum increment
	BInc  *tensor.Tensor // bias momentum increment
}

// NewContext allocates the scratch state for layer with the given batch size
// and per-sample input shape.
//
// The output shape comes from the same shape function the layer executes
// with, so buffers and kernels can never disagree.
func NewContext(layer Layer, batchSize int, inputShape tensor.Shape) (*Context, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("nn: batch size must be positive, got %d", batchSize)
	}
	outputShape := layer.OutputShape(inputShape)

	ctx := &Context{
		Input:  tensor.Zeros(batched(batchSize, inputShape)),
		Output: tensor.Zeros(batched(batchSize, outputShape)),
		Errors: tensor.Zeros(batched(batchSize, outputShape)),
	}

	if t, ok := layer.(Trainable); ok {
		ctx.WGrad = tensor.Zeros(t.Weights().Shape())
		ctx.BGrad = tensor.Zeros(t.Biases().Shape())
		ctx.WInc = tensor.Zeros(t.Weights().Shape())
		ctx.BInc = tensor.Zeros(t.Biases().Shape())
	}
	return ctx, nil
}

func batched(batchSize int, sample tensor.Shape) tensor.Shape {
	s := make(tensor.Shape, 0, len(sample)+1)
	s = append(s, batchSize)
	return append(s, sample...)
}
