package cpu

import (
	"fmt"

	"github.com/goki/mat32"

	"github.com/dbnet-ml/dbnet/internal/tensor"
)

// LCNNormalize applies local contrast normalization of input into output.
//
// Both tensors are [C, H, W]; the kernel is a [k, k] weighting window with
// center offset mid. Per channel, each pixel is first centered on its
// weighted local mean (subtractive step), then divided by the larger of its
// weighted local standard deviation and the channel-mean deviation (divisive
// step). Window positions falling outside the image are clamped to the
// border.
func (cpu *CPUBackend) LCNNormalize(output, input, kernel *tensor.Tensor, k, mid int) {
	inShape := input.Shape()
	if inShape.Rank() != 3 {
		panic(fmt.Sprintf("cpu: LCNNormalize wants 3D input [C,H,W], got %v", inShape))
	}
	if !output.Shape().Equal(inShape) {
		panic(fmt.Sprintf("cpu: LCNNormalize output shape %v != input shape %v", output.Shape(), inShape))
	}
	if !kernel.Shape().Equal(tensor.Shape{k, k}) {
		panic(fmt.Sprintf("cpu: LCNNormalize kernel shape %v != [%d %d]", kernel.Shape(), k, k))
	}

	c, h, w := inShape[0], inShape[1], inShape[2]
	kd := kernel.Data()
	centered := make([]float32, h*w)
	sigma := make([]float32, h*w)

	clamp := func(v, hi int) int {
		if v < 0 {
			return 0
		}
		if v >= hi {
			return hi - 1
		}
		return v
	}

	for ch := 0; ch < c; ch++ {
		in := input.Data()[ch*h*w : (ch+1)*h*w]
		out := output.Data()[ch*h*w : (ch+1)*h*w]

		// Subtractive step: remove the weighted local mean.
		for i := 0; i < h; i++ {
			for j := 0; j < w; j++ {
				mean := float32(0)
				for m := 0; m < k; m++ {
					y := clamp(i+m-mid, h)
					for n := 0; n < k; n++ {
						x := clamp(j+n-mid, w)
						mean += kd[m*k+n] * in[y*w+x]
					}
				}
				centered[i*w+j] = in[i*w+j] - mean
			}
		}

		// Divisive step: weighted local standard deviation of the
		// centered signal, floored by its channel mean.
		total := float32(0)
		for i := 0; i < h; i++ {
			for j := 0; j < w; j++ {
				variance := float32(0)
				for m := 0; m < k; m++ {
					y := clamp(i+m-mid, h)
					for n := 0; n < k; n++ {
						x := clamp(j+n-mid, w)
						v := centered[y*w+x]
						variance += kd[m*k+n] * v * v
					}
				}
				s := mat32.Sqrt(variance)
				sigma[i*w+j] = s
				total += s
			}
		}
		floor := total / float32(h*w)

		for i := range out {
			denom := mat32.Max(sigma[i], floor)
			if denom > 0 {
				out[i] = centered[i] / denom
			} else {
				out[i] = centered[i]
			}
		}
	}
}
