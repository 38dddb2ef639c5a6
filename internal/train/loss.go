package train

import (
	"fmt"

	"github.com/dbnet-ml/dbnet/internal/tensor"
)

// MSE computes the mean squared error between output and target, and the
// gradient of the loss with respect to the output.
func MSE(output, target *tensor.Tensor) (float32, *tensor.Tensor) {
	od, td := output.Data(), target.Data()
	if len(od) != len(td) {
		panic(fmt.Sprintf("train: MSE shape mismatch: %v vs %v", output.Shape(), target.Shape()))
	}

	grad := tensor.Zeros(output.Shape())
	gd := grad.Data()
	n := float32(len(od))

	loss := float32(0)
	for i := range od {
		diff := od[i] - td[i]
		loss += diff * diff
		gd[i] = 2 * diff / n
	}
	return loss / n, grad
}
