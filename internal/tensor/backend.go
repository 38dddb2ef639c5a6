package tensor

// Backend defines the numeric operations layers delegate to.
//
// The layer contract makes no assumption about how a backend schedules work
// internally; kernels may parallelize over batch or spatial axes as long as
// shared read-only inputs (weights) are not mutated during a call.
//
// All convolutions are valid (no padding, stride 1): for input [N, C, H, W]
// and kernel [K, C, KH, KW] the output is [N, K, H-KH+1, W-KW+1].
type Backend interface {
	// ConvForward computes the valid cross-correlation of a batched input
	// against a filter bank.
	//
	// input: [N, C, H, W], kernel: [K, C, KH, KW] -> [N, K, H-KH+1, W-KW+1].
	ConvForward(input, kernel *Tensor) *Tensor

	// ConvBackwardData propagates output-side error gradients back to the
	// input side (full convolution against the filter bank).
	//
	// errors: [N, K, OH, OW], kernel: [K, C, KH, KW] -> [N, C, H, W].
	ConvBackwardData(errors, kernel *Tensor) *Tensor

	// ConvBackwardFilter computes the filter gradient from the retained
	// forward input and the output-side error gradients.
	//
	// input: [N, C, H, W], errors: [N, K, OH, OW] -> [K, C, KH, KW].
	ConvBackwardFilter(input, errors *Tensor) *Tensor

	// BiasAdd adds bias[k] to every spatial position of channel k.
	//
	// x: [N, K, H, W], bias: [K]. The result is written in place into x.
	BiasAdd(x, bias *Tensor)

	// BiasBatchSum sums x over batch and spatial axes, producing the bias
	// gradient.
	//
	// x: [N, K, H, W] -> [K].
	BiasBatchSum(x *Tensor) *Tensor

	// Mul performs the elementwise (Hadamard) product a*b, written in place
	// into dst. dst may alias a or b.
	Mul(dst, a, b *Tensor)

	// LCNNormalize applies local contrast normalization of input into
	// output using a centered kernel window of size k with center offset
	// mid. Both tensors are [C, H, W] and output shape mirrors input shape.
	LCNNormalize(output, input, kernel *Tensor, k, mid int)

	// Name identifies the backend in diagnostics.
	Name() string
}
