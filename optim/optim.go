// Copyright 2025 The dbnet Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides the public API for dbnet optimizers.
package optim

import (
	"github.com/dbnet-ml/dbnet/internal/optim"
)

// Optimizer updates a trainable layer's parameters from the gradients its
// context accumulated during the backward pass.
type Optimizer = optim.Optimizer

// SGD implements stochastic gradient descent with optional momentum and
// weight decay.
type SGD = optim.SGD

// SGDConfig holds configuration for the SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates an SGD optimizer.
var NewSGD = optim.NewSGD
