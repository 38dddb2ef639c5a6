// Copyright 2025 The dbnet Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the public API for dbnet layers.
//
// Layers implement a uniform contract consumed by the training driver:
// forward activation (single-sample and batched), and, for trainable layers,
// error adaptation, backward propagation and gradient computation.
// Each layer type carries a static Traits record the driver dispatches on.
//
// Every layer exists in a fixed-shape variant (descriptor frozen at
// construction) and a dynamic variant (descriptor populated via InitLayer):
//
//	conv, err := nn.NewConv(nn.ConvConfig{
//	    Channels: 1, VisibleH: 28, VisibleW: 28,
//	    Filters: 6, KernelH: 5, KernelW: 5,
//	    Activation: nn.Sigmoid,
//	}, backend)
//
//	dyn := nn.NewDynConv(nn.Sigmoid, nn.InitLeCun, nn.InitZero, backend)
//	err = conv.DynInit(dyn)
package nn

import (
	"github.com/dbnet-ml/dbnet/internal/nn"
)

// Layer is the base contract every layer implements.
type Layer = nn.Layer

// Trainable is the contract of layers with trainable parameters.
type Trainable = nn.Trainable

// Traits is the static capability record of a layer type.
type Traits = nn.Traits

// Context holds the per-layer scratch state of one training run.
type Context = nn.Context

// NewContext allocates the scratch state for layer with the given batch size
// and per-sample input shape.
var NewContext = nn.NewContext

// Conv is a convolutional layer with a fixed shape descriptor.
type Conv = nn.Conv

// DynConv is the dynamic-shape twin of Conv.
type DynConv = nn.DynConv

// ConvConfig configures a convolutional layer.
type ConvConfig = nn.ConvConfig

// NewConv creates a fixed-shape convolutional layer.
var NewConv = nn.NewConv

// NewDynConv creates an uninitialized dynamic convolutional layer.
var NewDynConv = nn.NewDynConv

// LCN is a local contrast normalization layer with a fixed kernel size.
type LCN = nn.LCN

// DynLCN is the dynamic-shape twin of LCN.
type DynLCN = nn.DynLCN

// NewLCN creates a fixed LCN layer.
var NewLCN = nn.NewLCN

// NewDynLCN creates an uninitialized dynamic LCN layer.
var NewDynLCN = nn.NewDynLCN

// DefaultLCNSigma is the spatial falloff used when none is configured.
const DefaultLCNSigma = nn.DefaultLCNSigma

// Activation enumerates the supported activation functions.
type Activation = nn.Activation

// Supported activation functions.
const (
	Identity = nn.Identity
	Sigmoid  = nn.Sigmoid
	Tanh     = nn.Tanh
	ReLU     = nn.ReLU
)

// Initializer enumerates the weight/bias initialization policies.
type Initializer = nn.Initializer

// Supported initializers.
const (
	InitZero     = nn.InitZero
	InitGaussian = nn.InitGaussian
	InitUniform  = nn.InitUniform
	InitLeCun    = nn.InitLeCun
	InitXavier   = nn.InitXavier
	InitHe       = nn.InitHe
)
