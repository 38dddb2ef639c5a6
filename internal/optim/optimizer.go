// Package optim implements parameter-update policies consuming the gradient
// and momentum buffers of a layer's training context.
package optim

import (
	"github.com/dbnet-ml/dbnet/internal/nn"
)

// Optimizer updates a trainable layer's parameters from the gradients its
// context accumulated during the backward pass.
type Optimizer interface {
	// Update applies one optimization step to layer using ctx.WGrad and
	// ctx.BGrad, maintaining any optimizer state (momentum increments) in
	// the context.
	Update(layer nn.Trainable, ctx *nn.Context)
}
