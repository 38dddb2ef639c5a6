package optim

import (
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/dbnet-ml/dbnet/internal/tensor"

	"github.com/dbnet-ml/dbnet/internal/nn"
)

// SGD implements stochastic gradient descent with optional momentum and
// weight decay.
//
// Update rule per parameter tensor:
//
//	inc   = momentum * inc + lr * (grad + decay * param)
//	param = param - inc
//
// The momentum increments live in the layer's training context (WInc/BInc),
// so optimizer state shares the context's lifetime.
type SGD struct {
	cfg SGDConfig
}

// SGDConfig holds configuration for the SGD optimizer.
type SGDConfig struct {
	LR          float32 // learning rate (default 0.01)
	Momentum    float32 // momentum factor, in [0, 1)
	WeightDecay float32 // L2 penalty factor
}

// NewSGD creates an SGD optimizer.
func NewSGD(cfg SGDConfig) *SGD {
	if cfg.LR == 0 {
		cfg.LR = 0.01
	}
	return &SGD{cfg: cfg}
}

// LR returns the current learning rate.
func (s *SGD) LR() float32 { return s.cfg.LR }

// SetLR updates the learning rate, for schedules driven by the caller.
func (s *SGD) SetLR(lr float32) { s.cfg.LR = lr }

// Update applies one SGD step to the layer's weights and biases.
func (s *SGD) Update(layer nn.Trainable, ctx *nn.Context) {
	s.step(layer.Weights(), ctx.WGrad, ctx.WInc)
	s.step(layer.Biases(), ctx.BGrad, ctx.BInc)
}

func (s *SGD) step(param, grad, inc *tensor.Tensor) {
	p := vec(param)
	g := vec(grad)
	v := vec(inc)

	blas32.Scal(s.cfg.Momentum, v)
	if s.cfg.WeightDecay != 0 {
		blas32.Axpy(s.cfg.LR*s.cfg.WeightDecay, p, v)
	}
	blas32.Axpy(s.cfg.LR, g, v)
	blas32.Axpy(-1, v, p)
}

func vec(t *tensor.Tensor) blas32.Vector {
	return blas32.Vector{N: t.NumElements(), Inc: 1, Data: t.Data()}
}
