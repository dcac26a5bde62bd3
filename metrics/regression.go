// Package metrics provides the error metrics used to fit and score
// phenology models. Predictions and observations are day-of-year vectors.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/phenogo/pkg/errors"
)

// MSE computes the mean squared error between observed and predicted
// day-of-year values.
func MSE(yTrue, yPred []float64) (float64, error) {
	n := len(yTrue)
	if n == 0 {
		return 0, errors.NewValueError("MSE", "empty vector")
	}
	if len(yPred) != n {
		return 0, errors.NewDimensionError("MSE", n, len(yPred))
	}

	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue[i] - yPred[i]
		sum += diff * diff
	}
	return sum / float64(n), nil
}

// RMSE computes the root mean squared error. This is the default fitting
// loss for all model variants.
func RMSE(yTrue, yPred []float64) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE computes the mean absolute error.
func MAE(yTrue, yPred []float64) (float64, error) {
	n := len(yTrue)
	if n == 0 {
		return 0, errors.NewValueError("MAE", "empty vector")
	}
	if len(yPred) != n {
		return 0, errors.NewDimensionError("MAE", n, len(yPred))
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue[i] - yPred[i])
	}
	return sum / float64(n), nil
}

// AIC computes the Akaike information criterion from the residuals and the
// number of estimated parameters: n*log(MSE) + 2*(k+1).
func AIC(yTrue, yPred []float64, nParams int) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	if mse <= 0 {
		return 0, errors.NewValueError("AIC", "mean squared error must be positive")
	}
	n := float64(len(yTrue))
	return n*math.Log(mse) + 2*float64(nParams+1), nil
}

// R2 computes the coefficient of determination of the prediction.
func R2(yTrue, yPred []float64) (float64, error) {
	n := len(yTrue)
	if n == 0 {
		return 0, errors.NewValueError("R2", "empty vector")
	}
	if len(yPred) != n {
		return 0, errors.NewDimensionError("R2", n, len(yPred))
	}

	mean := stat.Mean(yTrue, nil)
	var ssRes, ssTot float64
	for i := 0; i < n; i++ {
		r := yTrue[i] - yPred[i]
		ssRes += r * r
		d := yTrue[i] - mean
		ssTot += d * d
	}
	if ssTot == 0 {
		return 0, errors.NewValueError("R2", "observed values are constant")
	}
	return 1 - ssRes/ssTot, nil
}
