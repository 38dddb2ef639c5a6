package cpu

import (
	"fmt"

	"github.com/dbnet-ml/dbnet/internal/parallel"
	"github.com/dbnet-ml/dbnet/internal/tensor"
)

// ConvBackwardData propagates error gradients from the output side of a valid
// convolution back to the input side.
//
// errors: [N, K, OH, OW], kernel: [K, C, KH, KW] -> [N, C, H, W] with
// H = OH+KH-1 and W = OW+KW-1 (the full convolution of errors with the
// kernel, per the standard convolution-gradient identities).
func (cpu *CPUBackend) ConvBackwardData(errors, kernel *tensor.Tensor) *tensor.Tensor {
	eShape := errors.Shape()
	kShape := kernel.Shape()
	if eShape.Rank() != 4 || kShape.Rank() != 4 {
		panic(fmt.Sprintf("cpu: ConvBackwardData wants 4D errors and kernel, got %v, %v", eShape, kShape))
	}
	if eShape[1] != kShape[0] {
		panic(fmt.Sprintf("cpu: ConvBackwardData filter count mismatch: errors %d, kernel %d", eShape[1], kShape[0]))
	}

	n, k, oh, ow := eShape[0], eShape[1], eShape[2], eShape[3]
	c, kh, kw := kShape[1], kShape[2], kShape[3]
	h, w := oh+kh-1, ow+kw-1

	grad := tensor.Zeros(tensor.Shape{n, c, h, w})
	gradData := grad.Data()
	errData := errors.Data()
	kernData := kernel.Data()

	parallel.ForSamples(n, func(b int) {
		gradBatch := gradData[b*c*h*w : (b+1)*c*h*w]
		errBatch := errData[b*k*oh*ow : (b+1)*k*oh*ow]

		for outH := 0; outH < oh; outH++ {
			for outW := 0; outW < ow; outW++ {
				for f := 0; f < k; f++ {
					e := errBatch[f*oh*ow+outH*ow+outW]
					if e == 0 {
						continue
					}
					kernF := kernData[f*c*kh*kw : (f+1)*c*kh*kw]
					for ch := 0; ch < c; ch++ {
						gradCh := gradBatch[ch*h*w : (ch+1)*h*w]
						kernCh := kernF[ch*kh*kw : (ch+1)*kh*kw]
						for y := 0; y < kh; y++ {
							row := gradCh[(outH+y)*w+outW:]
							kRow := kernCh[y*kw:]
							for x := 0; x < kw; x++ {
								row[x] += e * kRow[x]
							}
						}
					}
				}
			}
		}
	}, cpu.par)

	return grad
}

// ConvBackwardFilter computes the filter gradient of a valid convolution.
//
// input: [N, C, H, W], errors: [N, K, OH, OW] -> [K, C, KH, KW] with
// KH = H-OH+1 and KW = W-OW+1. Contributions are summed over the batch and
// all output positions.
func (cpu *CPUBackend) ConvBackwardFilter(input, errors *tensor.Tensor) *tensor.Tensor {
	inShape := input.Shape()
	eShape := errors.Shape()
	if inShape.Rank() != 4 || eShape.Rank() != 4 {
		panic(fmt.Sprintf("cpu: ConvBackwardFilter wants 4D input and errors, got %v, %v", inShape, eShape))
	}
	if inShape[0] != eShape[0] {
		panic(fmt.Sprintf("cpu: ConvBackwardFilter batch mismatch: input %d, errors %d", inShape[0], eShape[0]))
	}

	n, c, h, w := inShape[0], inShape[1], inShape[2], inShape[3]
	k, oh, ow := eShape[1], eShape[2], eShape[3]
	kh, kw := h-oh+1, w-ow+1
	if kh <= 0 || kw <= 0 {
		panic(fmt.Sprintf("cpu: ConvBackwardFilter errors %dx%d larger than input %dx%d", oh, ow, h, w))
	}

	grad := tensor.Zeros(tensor.Shape{k, c, kh, kw})
	gradData := grad.Data()
	inData := input.Data()
	errData := errors.Data()

	// Each (filter, channel) pair is independent; parallelize across them.
	parallel.For(k*c, func(fc int) {
		f, ch := fc/c, fc%c
		gradFC := gradData[(f*c+ch)*kh*kw:]

		for b := 0; b < n; b++ {
			inCh := inData[(b*c+ch)*h*w:]
			errF := errData[(b*k+f)*oh*ow:]

			for y := 0; y < kh; y++ {
				for x := 0; x < kw; x++ {
					sum := float32(0)
					for outH := 0; outH < oh; outH++ {
						inRow := inCh[(outH+y)*w+x:]
						errRow := errF[outH*ow:]
						for outW := 0; outW < ow; outW++ {
							sum += inRow[outW] * errRow[outW]
						}
					}
					gradFC[y*kw+x] += sum
				}
			}
		}
	}, parallel.Config{Enabled: cpu.par.Enabled, NumWorkers: cpu.par.NumWorkers, MinChunkSize: 1})

	return grad
}
