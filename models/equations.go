// Package models implements the phenology model family. Every variant is a
// Definition: a pure equation over the aligned predictor matrices plus
// parameter metadata. All fitting, validation and persistence behavior is
// shared by the Model orchestration type, so a variant is only its equation.
package models

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/phenogo/data"
)

// nonPredictionDOY is returned for observations whose forcing never reaches
// the threshold. It is deliberately large so that unrealistic parameter sets
// produce a large fitting error.
const nonPredictionDOY = 999

// cumulateColumns accumulates each column in place: row i becomes the sum of
// rows 0..i. This is the forcing accumulator shared by all threshold models.
func cumulateColumns(m *mat.Dense) {
	r, c := m.Dims()
	for i := 1; i < r; i++ {
		for j := 0; j < c; j++ {
			m.Set(i, j, m.At(i, j)+m.At(i-1, j))
		}
	}
}

// doyEstimator returns, per column, the first day of year at which the
// accumulated forcing meets the threshold, or nonPredictionDOY when it never
// does.
func doyEstimator(forcing *mat.Dense, doySeries []float64, threshold float64) []float64 {
	r, c := forcing.Dims()
	out := make([]float64, c)
	for j := 0; j < c; j++ {
		out[j] = nonPredictionDOY
		for i := 0; i < r; i++ {
			if forcing.At(i, j) >= threshold {
				out[j] = doySeries[i]
				break
			}
		}
	}
	return out
}

// zeroBelow zeroes every element smaller than threshold, in place.
func zeroBelow(m *mat.Dense, threshold float64) {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if m.At(i, j) < threshold {
				m.Set(i, j, 0)
			}
		}
	}
}

// zeroBeforeDay zeroes all rows whose day of year precedes t1, in place.
func zeroBeforeDay(m *mat.Dense, doySeries []float64, t1 float64) {
	_, c := m.Dims()
	for i, doy := range doySeries {
		if doy >= t1 {
			break
		}
		for j := 0; j < c; j++ {
			m.Set(i, j, 0)
		}
	}
}

// sigmoid2 applies the two-parameter sigmoid forcing response of Chuine
// (2000) element-wise, in place: 1 / (1 + exp(b*(T-c))).
func sigmoid2(m *mat.Dense, b, c float64) {
	r, cols := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < cols; j++ {
			t := m.At(i, j)
			m.Set(i, j, 1/(1+math.Exp(b*(t-c))))
		}
	}
}

// sigmoid3 applies the three-parameter sigmoid chilling response of Chuine
// (2000) element-wise, in place: 1 / (1 + exp(a*(T-c)^2 + b*(T-c))).
func sigmoid3(m *mat.Dense, a, b, c float64) {
	r, cols := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < cols; j++ {
			t := m.At(i, j) - c
			m.Set(i, j, 1/(1+math.Exp(a*t*t+b*t)))
		}
	}
}

// meanTemperature returns the per-observation mean temperature over the
// inclusive day-of-year window [startDOY, endDOY].
func meanTemperature(d *data.Dataset, startDOY, endDOY float64) []float64 {
	r, c := d.Temperature.Dims()
	out := make([]float64, c)
	for j := 0; j < c; j++ {
		var sum float64
		var n int
		for i := 0; i < r; i++ {
			doy := d.DOYSeries[i]
			if doy >= startDOY && doy <= endDOY {
				sum += d.Temperature.At(i, j)
				n++
			}
		}
		if n > 0 {
			out[j] = sum / float64(n)
		}
	}
	return out
}

// daylengthScale multiplies each element by (daylength/24)^k, in place.
// Daylength-sensitive models weight daily forcing by photoperiod this way.
func daylengthScale(m, daylength *mat.Dense, k float64) {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			scale := math.Pow(daylength.At(i, j)/24, k)
			m.Set(i, j, m.At(i, j)*scale)
		}
	}
}
