package cpu

import (
	"fmt"

	"github.com/dbnet-ml/dbnet/internal/tensor"
)

// BiasAdd adds bias[k] to every spatial position of channel k, in place.
//
// x: [N, K, H, W], bias: [K].
func (cpu *CPUBackend) BiasAdd(x, bias *tensor.Tensor) {
	xShape := x.Shape()
	if xShape.Rank() != 4 {
		panic(fmt.Sprintf("cpu: BiasAdd wants 4D input, got %v", xShape))
	}
	k := xShape[1]
	if bias.NumElements() != k {
		panic(fmt.Sprintf("cpu: BiasAdd bias size %d != channels %d", bias.NumElements(), k))
	}

	n := xShape[0]
	plane := xShape[2] * xShape[3]
	xd, bd := x.Data(), bias.Data()

	for b := 0; b < n; b++ {
		for f := 0; f < k; f++ {
			off := (b*k + f) * plane
			bv := bd[f]
			row := xd[off : off+plane]
			for i := range row {
				row[i] += bv
			}
		}
	}
}

// BiasBatchSum sums x over batch and spatial axes, producing a [K] tensor.
//
// x: [N, K, H, W].
func (cpu *CPUBackend) BiasBatchSum(x *tensor.Tensor) *tensor.Tensor {
	xShape := x.Shape()
	if xShape.Rank() != 4 {
		panic(fmt.Sprintf("cpu: BiasBatchSum wants 4D input, got %v", xShape))
	}

	n, k := xShape[0], xShape[1]
	plane := xShape[2] * xShape[3]
	out := tensor.Zeros(tensor.Shape{k})
	od, xd := out.Data(), x.Data()

	for b := 0; b < n; b++ {
		for f := 0; f < k; f++ {
			off := (b*k + f) * plane
			sum := float32(0)
			for _, v := range xd[off : off+plane] {
				sum += v
			}
			od[f] += sum
		}
	}
	return out
}
