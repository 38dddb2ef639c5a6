// Package train implements the sequential training driver over the layer
// contract.
//
// The driver owns one Context per layer, allocated once per training run by
// an explicit shape-inference pass at assembly time. Every training step runs
// the layers strictly in forward order, then strictly in reverse order; which
// backward steps run for a layer is decided from its trait record and the
// Trainable capability, never from its concrete type.
package train

import (
	"fmt"

	"github.com/dbnet-ml/dbnet/internal/nn"
	"github.com/dbnet-ml/dbnet/internal/optim"
	"github.com/dbnet-ml/dbnet/internal/tensor"
)

// Trainer drives a layer pipeline through forward/backward passes and feeds
// the per-layer gradients to an optimizer.
type Trainer struct {
	layers []nn.Layer
	ctxs   []*nn.Context
	shapes []tensor.Shape // per-sample shape at each pipeline position
	opt    optim.Optimizer
	batch  int
}

// New assembles a trainer for the pipeline.
//
// inputShape is the per-sample input shape of the first layer. The shape
// table is resolved layer by layer with each layer's own OutputShape
// function, and all contexts are allocated up front; a configuration error
// here fails fast before any training step.
func New(layers []nn.Layer, batchSize int, inputShape tensor.Shape, opt optim.Optimizer) (*Trainer, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("train: empty pipeline")
	}
	for _, l := range layers {
		if !l.Traits().SGDSupported {
			return nil, fmt.Errorf("train: layer %q does not support SGD training", l.ShortString())
		}
	}

	t := &Trainer{
		layers: layers,
		ctxs:   make([]*nn.Context, len(layers)),
		shapes: make([]tensor.Shape, len(layers)+1),
		opt:    opt,
		batch:  batchSize,
	}

	t.shapes[0] = inputShape.Clone()
	for i, l := range layers {
		ctx, err := nn.NewContext(l, batchSize, t.shapes[i])
		if err != nil {
			return nil, fmt.Errorf("train: layer %d (%s): %w", i, l.ShortString(), err)
		}
		t.ctxs[i] = ctx
		t.shapes[i+1] = l.OutputShape(t.shapes[i])
	}
	return t, nil
}

// BatchSize returns the batch size the contexts were sized for.
func (t *Trainer) BatchSize() int { return t.batch }

// OutputShape returns the per-sample shape produced by the last layer.
func (t *Trainer) OutputShape() tensor.Shape { return t.shapes[len(t.shapes)-1].Clone() }

// Context returns the training context of layer i.
func (t *Trainer) Context(i int) *nn.Context { return t.ctxs[i] }

// Forward runs the forward pass, retaining each layer's input and output in
// its context. Returns the last layer's batched output.
func (t *Trainer) Forward(input *tensor.Tensor) *tensor.Tensor {
	cur := input
	for i, l := range t.layers {
		ctx := t.ctxs[i]
		ctx.Input.CopyFrom(cur)
		l.BatchActivateHidden(ctx.Output, ctx.Input)
		cur = ctx.Output
	}
	return cur
}

// Backward runs the reverse pass from the loss gradient at the last layer's
// output.
//
// Trainable layers adapt their errors, propagate them backward and compute
// parameter gradients; transform layers have no backward steps to run (their
// absence of trainable parameters is read from the capability, not from
// calling empty methods) and their shape-preserving errors flow through
// unchanged.
func (t *Trainer) Backward(lossGrad *tensor.Tensor) {
	last := len(t.layers) - 1
	t.ctxs[last].Errors.CopyFrom(lossGrad)

	for i := last; i >= 0; i-- {
		ctx := t.ctxs[i]
		trainable, ok := t.layers[i].(nn.Trainable)
		if ok {
			trainable.AdaptErrors(ctx)
			if i > 0 {
				trainable.BackwardBatch(t.ctxs[i-1].Errors, ctx)
			}
			trainable.ComputeGradients(ctx)
			continue
		}
		// Transform layer: errors pass through with unchanged shape.
		if i > 0 {
			t.ctxs[i-1].Errors.CopyFrom(ctx.Errors)
		}
	}
}

// Step applies the optimizer to every trainable layer's accumulated
// gradients.
func (t *Trainer) Step() {
	for i, l := range t.layers {
		if trainable, ok := l.(nn.Trainable); ok {
			t.opt.Update(trainable, t.ctxs[i])
		}
	}
}

// TrainBatch runs one full training step on a batch and returns the mean
// squared error against target before the update.
func (t *Trainer) TrainBatch(input, target *tensor.Tensor) float32 {
	output := t.Forward(input)
	loss, grad := MSE(output, target)
	t.Backward(grad)
	t.Step()
	return loss
}

// Describe returns the pipeline's layer descriptions, one per line.
func (t *Trainer) Describe() string {
	s := ""
	for i, l := range t.layers {
		s += fmt.Sprintf("%d: %s\n", i, l.ShortString())
	}
	return s
}
