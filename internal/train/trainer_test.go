package train

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbnet-ml/dbnet/internal/backend/cpu"
	"github.com/dbnet-ml/dbnet/internal/nn"
	"github.com/dbnet-ml/dbnet/internal/optim"
	"github.com/dbnet-ml/dbnet/internal/tensor"
)

func testConv(t *testing.T, act nn.Activation) *nn.Conv {
	t.Helper()
	c, err := nn.NewConv(nn.ConvConfig{
		Channels: 1, VisibleH: 5, VisibleW: 5,
		Filters: 2, KernelH: 3, KernelW: 3,
		Activation: act,
	}, cpu.New())
	require.NoError(t, err)
	return c
}

func testLCN(t *testing.T) *nn.LCN {
	t.Helper()
	l, err := nn.NewLCN(3, cpu.New())
	require.NoError(t, err)
	return l
}

func TestNew_ShapeTable(t *testing.T) {
	trainer, err := New(
		[]nn.Layer{testLCN(t), testConv(t, nn.Tanh)},
		4,
		tensor.Shape{1, 5, 5},
		optim.NewSGD(optim.SGDConfig{}),
	)
	require.NoError(t, err)

	assert.Equal(t, 4, trainer.BatchSize())
	assert.True(t, trainer.OutputShape().Equal(tensor.Shape{2, 3, 3}))

	// LCN preserves the shape, so its context is batched input-shaped.
	assert.True(t, trainer.Context(0).Output.Shape().Equal(tensor.Shape{4, 1, 5, 5}))
	assert.True(t, trainer.Context(1).Output.Shape().Equal(tensor.Shape{4, 2, 3, 3}))

	// Only the trainable layer gets gradient buffers.
	assert.Nil(t, trainer.Context(0).WGrad)
	require.NotNil(t, trainer.Context(1).WGrad)
	assert.True(t, trainer.Context(1).WGrad.Shape().Equal(tensor.Shape{2, 1, 3, 3}))
}

func TestNew_EmptyPipeline(t *testing.T) {
	_, err := New(nil, 4, tensor.Shape{1, 5, 5}, optim.NewSGD(optim.SGDConfig{}))
	require.Error(t, err)
}

func TestNew_InvalidBatchSize(t *testing.T) {
	_, err := New([]nn.Layer{testConv(t, nn.Tanh)}, 0, tensor.Shape{1, 5, 5}, optim.NewSGD(optim.SGDConfig{}))
	require.Error(t, err)
}

func TestForward_RetainsContextState(t *testing.T) {
	conv := testConv(t, nn.Tanh)
	trainer, err := New([]nn.Layer{conv}, 2, tensor.Shape{1, 5, 5}, optim.NewSGD(optim.SGDConfig{}))
	require.NoError(t, err)

	input := tensor.Randn(tensor.Shape{2, 1, 5, 5})
	output := trainer.Forward(input)

	ctx := trainer.Context(0)
	assert.Equal(t, input.Data(), ctx.Input.Data())
	assert.Same(t, ctx.Output, output)

	direct := conv.BatchActivate(input)
	assert.Equal(t, direct.Data(), output.Data())
}

func TestBackward_TransformPassthrough(t *testing.T) {
	// conv -> lcn: the transform layer in last position forwards the loss
	// gradient to the conv unchanged.
	conv := testConv(t, nn.Identity)
	lcn := testLCN(t)

	trainer, err := New([]nn.Layer{conv, lcn}, 2, tensor.Shape{1, 5, 5}, optim.NewSGD(optim.SGDConfig{}))
	require.NoError(t, err)

	input := tensor.Randn(tensor.Shape{2, 1, 5, 5})
	trainer.Forward(input)

	lossGrad := tensor.Randn(tensor.Shape{2, 2, 3, 3})
	trainer.Backward(lossGrad)

	assert.Equal(t, lossGrad.Data(), trainer.Context(1).Errors.Data())
	// Identity activation: the conv's adapted errors are the passthrough
	// gradient itself.
	assert.Equal(t, lossGrad.Data(), trainer.Context(0).Errors.Data())
}

func TestBackward_ComputesGradients(t *testing.T) {
	conv := testConv(t, nn.Identity)
	trainer, err := New([]nn.Layer{conv}, 2, tensor.Shape{1, 5, 5}, optim.NewSGD(optim.SGDConfig{}))
	require.NoError(t, err)

	input := tensor.Ones(tensor.Shape{2, 1, 5, 5})
	trainer.Forward(input)

	lossGrad := tensor.Ones(tensor.Shape{2, 2, 3, 3})
	trainer.Backward(lossGrad)

	ctx := trainer.Context(0)
	// Unit input and unit errors: every weight sees one contribution per
	// output position per sample, 2 samples x 3x3 positions.
	for _, v := range ctx.WGrad.Data() {
		assert.InDelta(t, 18, v, 1e-4)
	}
	for _, v := range ctx.BGrad.Data() {
		assert.InDelta(t, 18, v, 1e-4)
	}
}

func TestTrainBatch_LossDecreases(t *testing.T) {
	conv := testConv(t, nn.Identity)
	trainer, err := New([]nn.Layer{conv}, 4, tensor.Shape{1, 5, 5},
		optim.NewSGD(optim.SGDConfig{LR: 0.001}))
	require.NoError(t, err)

	input := tensor.Randn(tensor.Shape{4, 1, 5, 5})
	target := tensor.Zeros(tensor.Shape{4, 2, 3, 3})

	first := trainer.TrainBatch(input, target)
	var last float32
	for i := 0; i < 30; i++ {
		last = trainer.TrainBatch(input, target)
	}
	assert.Less(t, last, first)
}

func TestMSE(t *testing.T) {
	output, err := tensor.FromSlice([]float32{1, 2}, tensor.Shape{2})
	require.NoError(t, err)
	target := tensor.Zeros(tensor.Shape{2})

	loss, grad := MSE(output, target)

	assert.InDelta(t, 2.5, loss, 1e-6)
	assert.InDelta(t, 1, grad.Data()[0], 1e-6)
	assert.InDelta(t, 2, grad.Data()[1], 1e-6)
}

func TestMSE_SizeMismatchPanics(t *testing.T) {
	assert.Panics(t, func() {
		MSE(tensor.Zeros(tensor.Shape{2}), tensor.Zeros(tensor.Shape{3}))
	})
}

func TestDescribe(t *testing.T) {
	trainer, err := New(
		[]nn.Layer{testLCN(t), testConv(t, nn.Tanh)},
		2,
		tensor.Shape{1, 5, 5},
		optim.NewSGD(optim.SGDConfig{}),
	)
	require.NoError(t, err)

	desc := trainer.Describe()
	assert.Contains(t, desc, "0: LCN: 3x3")
	assert.Contains(t, desc, "1: Conv: 1x5x5")
}
