package models

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/phenogo/core/params"
	"github.com/YuminosukeSato/phenogo/data"
)

// Alternating is the model of Cannell & Smith (1983): the event occurs on
// the first day accumulated growing degree days exceed an exponential curve
// of the accumulated number of chill days, a + b*exp(c*NCD).
//
// Parameters:
//   - a:         intercept of the chill day curve, default bounds (-1000, 1000)
//   - b:         slope of the chill day curve, default bounds (0, 5000)
//   - c:         scale of the chill day curve, default bounds (-5, 0)
//   - threshold: degree threshold separating forcing from chilling, default
//     pinned to 5 by degenerate bounds (5, 5)
//   - t1:        day of year accumulation begins, default pinned to 1
type Alternating struct{}

func (Alternating) Name() string { return "Alternating" }

func (Alternating) RequiredPredictors() []data.Kind {
	return []data.Kind{data.Temperature}
}

func (Alternating) Parameters() []params.Parameter {
	return []params.Parameter{
		{Name: "a", Bounds: params.Bounds{Lower: -1000, Upper: 1000}},
		{Name: "b", Bounds: params.Bounds{Lower: 0, Upper: 5000}},
		{Name: "c", Bounds: params.Bounds{Lower: -5, Upper: 0}},
		{Name: "threshold", Bounds: params.Bounds{Lower: 5, Upper: 5}},
		{Name: "t1", Bounds: params.Bounds{Lower: 1, Upper: 1}},
	}
}

func (Alternating) Apply(p map[string]float64, d *data.Dataset) []float64 {
	diff := alternatingDifference(p, d, nil)
	return doyEstimator(diff, d.DOYSeries, 0)
}

// alternatingDifference computes gdd - (a + b*exp(c*chillDays)) per day and
// observation. When daylengthExp is non-nil, daily forcing is weighted by
// (daylength/24)^d before accumulating (the MSB extension).
func alternatingDifference(p map[string]float64, d *data.Dataset, daylengthExp *float64) *mat.Dense {
	threshold := p["threshold"]
	t1 := p["t1"]

	// Accumulated count of days below the threshold.
	chillDays := mat.NewDense(len(d.DOYSeries), d.NumObs(), nil)
	r, c := chillDays.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if d.Temperature.At(i, j) < threshold {
				chillDays.Set(i, j, 1)
			}
		}
	}
	zeroBeforeDay(chillDays, d.DOYSeries, t1)
	cumulateColumns(chillDays)

	// Accumulated growing degree days above the threshold.
	gdd := mat.DenseCopyOf(d.Temperature)
	zeroBelow(gdd, threshold)
	zeroBeforeDay(gdd, d.DOYSeries, t1)
	if daylengthExp != nil {
		daylengthScale(gdd, d.Daylength, *daylengthExp)
	}
	cumulateColumns(gdd)

	diff := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			curve := p["a"] + p["b"]*math.Exp(p["c"]*chillDays.At(i, j))
			diff.Set(i, j, gdd.At(i, j)-curve)
		}
	}
	return diff
}

// MSB extends Alternating with a photoperiod correction (Jeong et al. 2013):
// daily growing degree days are weighted by (daylength/24)^d before
// accumulating, so it requires a daylength predictor.
//
// Parameters: a, b, c, threshold, t1 as in Alternating plus
//   - d: daylength exponent, default bounds (-10, 10)
type MSB struct{}

func (MSB) Name() string { return "MSB" }

func (MSB) RequiredPredictors() []data.Kind {
	return []data.Kind{data.Temperature, data.Daylength}
}

func (MSB) Parameters() []params.Parameter {
	return []params.Parameter{
		{Name: "a", Bounds: params.Bounds{Lower: -1000, Upper: 1000}},
		{Name: "b", Bounds: params.Bounds{Lower: 0, Upper: 5000}},
		{Name: "c", Bounds: params.Bounds{Lower: -5, Upper: 0}},
		{Name: "d", Bounds: params.Bounds{Lower: -10, Upper: 10}},
		{Name: "threshold", Bounds: params.Bounds{Lower: 5, Upper: 5}},
		{Name: "t1", Bounds: params.Bounds{Lower: 1, Upper: 1}},
	}
}

func (MSB) Apply(p map[string]float64, d *data.Dataset) []float64 {
	exp := p["d"]
	diff := alternatingDifference(p, d, &exp)
	return doyEstimator(diff, d.DOYSeries, 0)
}
