package nn

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/dbnet-ml/dbnet/internal/tensor"
)

// Initializer enumerates the weight/bias initialization policies.
//
// Every policy is parameterized by the layer's input and output sizes; the
// exact distribution is a construction-time choice and has no effect on the
// layer contract itself.
type Initializer int

// Supported initializers.
const (
	InitZero Initializer = iota
	InitGaussian
	InitUniform
	InitLeCun
	InitXavier
	InitHe
)

// String returns the initializer name.
func (in Initializer) String() string {
	switch in {
	case InitZero:
		return "Zero"
	case InitGaussian:
		return "Gaussian"
	case InitUniform:
		return "Uniform"
	case InitLeCun:
		return "LeCun"
	case InitXavier:
		return "Xavier"
	case InitHe:
		return "He"
	default:
		return fmt.Sprintf("Initializer(%d)", int(in))
	}
}

// Fill initializes t according to the policy.
//
//nolint:gosec // math/rand is fine for weight initialization.
func (in Initializer) Fill(t *tensor.Tensor, fanIn, fanOut int) {
	data := t.Data()
	switch in {
	case InitZero:
		t.Fill(0)
	case InitGaussian:
		for i := range data {
			data[i] = float32(rand.NormFloat64() * 0.01)
		}
	case InitUniform:
		for i := range data {
			data[i] = float32(rand.Float64()*0.1 - 0.05)
		}
	case InitLeCun:
		scale := 1 / math.Sqrt(float64(fanIn))
		for i := range data {
			data[i] = float32(rand.NormFloat64() * scale)
		}
	case InitXavier:
		// Glorot uniform bound: sqrt(6 / (fan_in + fan_out)).
		bound := math.Sqrt(6 / float64(fanIn+fanOut))
		for i := range data {
			data[i] = float32((rand.Float64()*2 - 1) * bound)
		}
	case InitHe:
		scale := math.Sqrt(2 / float64(fanIn))
		for i := range data {
			data[i] = float32(rand.NormFloat64() * scale)
		}
	default:
		panic(fmt.Sprintf("nn: unknown initializer %d", int(in)))
	}
}
