package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/phenogo/data"
)

func TestCumulateColumns(t *testing.T) {
	m := mat.NewDense(3, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
	})
	cumulateColumns(m)

	assert.Equal(t, []float64{1, 10}, m.RawRowView(0))
	assert.Equal(t, []float64{3, 30}, m.RawRowView(1))
	assert.Equal(t, []float64{6, 60}, m.RawRowView(2))
}

func TestDoyEstimator(t *testing.T) {
	doySeries := []float64{10, 11, 12}
	forcing := mat.NewDense(3, 3, []float64{
		5, 50, 0,
		10, 100, 0,
		15, 150, 0,
	})

	got := doyEstimator(forcing, doySeries, 10)

	// First column meets the threshold on the second day, second on the
	// first day, third never.
	assert.Equal(t, []float64{11, 10, nonPredictionDOY}, got)
}

func TestZeroBelow(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{
		-3, 0,
		2, 5,
	})
	zeroBelow(m, 0)

	assert.Equal(t, []float64{0, 0}, m.RawRowView(0))
	assert.Equal(t, []float64{2, 5}, m.RawRowView(1))
}

func TestZeroBeforeDay(t *testing.T) {
	doySeries := []float64{1, 2, 3, 4}
	m := mat.NewDense(4, 1, []float64{10, 10, 10, 10})
	zeroBeforeDay(m, doySeries, 3)

	assert.Equal(t, []float64{0, 0, 10, 10}, mat.Col(nil, 0, m))
}

func TestSigmoid2(t *testing.T) {
	m := mat.NewDense(1, 1, []float64{10})
	sigmoid2(m, -0.5, 10)

	// At T == c the response is exactly one half.
	assert.InDelta(t, 0.5, m.At(0, 0), 1e-12)

	// Warmer temperatures push a negative-b sigmoid toward one.
	warm := mat.NewDense(1, 1, []float64{30})
	sigmoid2(warm, -0.5, 10)
	assert.Greater(t, warm.At(0, 0), 0.99)
}

func TestSigmoid3(t *testing.T) {
	m := mat.NewDense(1, 1, []float64{5})
	sigmoid3(m, 1, 0, 5)

	// At T == c both exponent terms vanish.
	assert.InDelta(t, 0.5, m.At(0, 0), 1e-12)
}

func TestMeanTemperature(t *testing.T) {
	ds := &data.Dataset{
		DOYSeries: []float64{-10, 1, 2, 3, 100},
		Temperature: mat.NewDense(5, 1, []float64{
			99,
			10,
			20,
			30,
			99,
		}),
	}
	require.NoError(t, ds.Validate())

	got := meanTemperature(ds, 0, 90)
	require.Len(t, got, 1)
	assert.InDelta(t, 20.0, got[0], 1e-12)
}

func TestDaylengthScale(t *testing.T) {
	m := mat.NewDense(1, 2, []float64{10, 10})
	daylength := mat.NewDense(1, 2, []float64{12, 24})

	daylengthScale(m, daylength, 1)

	assert.InDelta(t, 5.0, m.At(0, 0), 1e-12)
	assert.InDelta(t, 10.0, m.At(0, 1), 1e-12)
}
