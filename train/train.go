// Copyright 2025 The dbnet Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package train provides the public API for the sequential training driver.
package train

import (
	"github.com/dbnet-ml/dbnet/internal/train"
)

// Trainer drives a layer pipeline through forward/backward passes and feeds
// the per-layer gradients to an optimizer.
type Trainer = train.Trainer

// New assembles a trainer for the pipeline, resolving the shape table and
// allocating all training contexts up front.
var New = train.New

// MSE computes the mean squared error between output and target, and the
// loss gradient with respect to the output.
var MSE = train.MSE
