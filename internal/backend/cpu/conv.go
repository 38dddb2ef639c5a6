package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/dbnet-ml/dbnet/internal/parallel"
	"github.com/dbnet-ml/dbnet/internal/tensor"
)

// ConvForward computes the valid cross-correlation of a batched input against
// a filter bank using im2col + GEMM.
//
// input: [N, C, H, W], kernel: [K, C, KH, KW] -> [N, K, OH, OW] with
// OH = H-KH+1 and OW = W-KW+1.
//
// Each sample is lowered independently: the patch matrix of sample n is
// [OH*OW, C*KH*KW] and a single float32 GEMM against the flattened kernel
// [K, C*KH*KW] produces the [K, OH*OW] output plane directly in its final
// row-major layout, so no post-hoc rearrangement is needed.
func (cpu *CPUBackend) ConvForward(input, kernel *tensor.Tensor) *tensor.Tensor {
	inShape := input.Shape()
	kShape := kernel.Shape()
	if inShape.Rank() != 4 {
		panic(fmt.Sprintf("cpu: ConvForward input must be 4D [N,C,H,W], got %v", inShape))
	}
	if kShape.Rank() != 4 {
		panic(fmt.Sprintf("cpu: ConvForward kernel must be 4D [K,C,KH,KW], got %v", kShape))
	}

	n, c, h, w := inShape[0], inShape[1], inShape[2], inShape[3]
	k, kc, kh, kw := kShape[0], kShape[1], kShape[2], kShape[3]
	if c != kc {
		panic(fmt.Sprintf("cpu: ConvForward channel mismatch: input %d, kernel %d", c, kc))
	}
	oh, ow := h-kh+1, w-kw+1
	if oh <= 0 || ow <= 0 {
		panic(fmt.Sprintf("cpu: ConvForward kernel %dx%d larger than input %dx%d", kh, kw, h, w))
	}

	output := tensor.Zeros(tensor.Shape{n, k, oh, ow})

	colWidth := c * kh * kw
	colHeight := oh * ow
	kernelMat := blas32.General{
		Rows:   k,
		Cols:   colWidth,
		Stride: colWidth,
		Data:   kernel.Data(),
	}

	inData := input.Data()
	outData := output.Data()

	parallel.ForSamples(n, func(b int) {
		colBuf := make([]float32, colHeight*colWidth)
		im2col(colBuf, inData[b*c*h*w:(b+1)*c*h*w], c, h, w, kh, kw, oh, ow)

		colMat := blas32.General{
			Rows:   colHeight,
			Cols:   colWidth,
			Stride: colWidth,
			Data:   colBuf,
		}
		outMat := blas32.General{
			Rows:   k,
			Cols:   colHeight,
			Stride: colHeight,
			Data:   outData[b*k*colHeight : (b+1)*k*colHeight],
		}

		// out = kernel (K x CW) * col^T (CW x OH*OW)
		blas32.Gemm(blas.NoTrans, blas.Trans, 1, kernelMat, colMat, 0, outMat)
	}, cpu.par)

	return output
}

// im2col lowers one [C, H, W] sample into a [OH*OW, C*KH*KW] patch matrix.
// Row r holds the receptive field of output position r, flattened
// channel-major.
func im2col(colBuf, in []float32, c, h, w, kh, kw, oh, ow int) {
	colWidth := c * kh * kw
	row := 0
	for outH := 0; outH < oh; outH++ {
		for outW := 0; outW < ow; outW++ {
			buf := colBuf[row*colWidth:]
			idx := 0
			for ch := 0; ch < c; ch++ {
				plane := in[ch*h*w:]
				for y := 0; y < kh; y++ {
					src := plane[(outH+y)*w+outW:]
					copy(buf[idx:idx+kw], src[:kw])
					idx += kw
				}
			}
			row++
		}
	}
}
