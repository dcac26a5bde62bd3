package models

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/phenogo/core/params"
	"github.com/YuminosukeSato/phenogo/data"
)

// ThermalTime is the classic growing degree day model: forcing accumulates
// above a fixed temperature threshold T starting on day t1, and the event
// occurs once the accumulation reaches F.
//
// Parameters:
//   - t1: day of year forcing accumulation begins, default bounds (-67, 298)
//   - T:  threshold above which forcing accumulates, default bounds (-25, 25)
//   - F:  total forcing units required, default bounds (0, 1000)
type ThermalTime struct{}

func (ThermalTime) Name() string { return "ThermalTime" }

func (ThermalTime) RequiredPredictors() []data.Kind {
	return []data.Kind{data.Temperature}
}

func (ThermalTime) Parameters() []params.Parameter {
	return []params.Parameter{
		{Name: "t1", Bounds: params.Bounds{Lower: -67, Upper: 298}},
		{Name: "T", Bounds: params.Bounds{Lower: -25, Upper: 25}},
		{Name: "F", Bounds: params.Bounds{Lower: 0, Upper: 1000}},
	}
}

func (ThermalTime) Apply(p map[string]float64, d *data.Dataset) []float64 {
	temp := mat.DenseCopyOf(d.Temperature)
	zeroBelow(temp, p["T"])
	zeroBeforeDay(temp, d.DOYSeries, p["t1"])
	cumulateColumns(temp)
	return doyEstimator(temp, d.DOYSeries, p["F"])
}

// FallCooling is the autumn counterpart of ThermalTime: cooling degree days
// below threshold T accumulate from day t1 and the event (e.g. leaf
// senescence) occurs once the accumulation reaches F.
//
// Parameters:
//   - t1: day of year cooling accumulation begins, default bounds (182, 365)
//   - T:  threshold below which cooling accumulates, default bounds (-25, 25)
//   - F:  total cooling units required, default bounds (0, 1000)
type FallCooling struct{}

func (FallCooling) Name() string { return "FallCooling" }

func (FallCooling) RequiredPredictors() []data.Kind {
	return []data.Kind{data.Temperature}
}

func (FallCooling) Parameters() []params.Parameter {
	return []params.Parameter{
		{Name: "t1", Bounds: params.Bounds{Lower: 182, Upper: 365}},
		{Name: "T", Bounds: params.Bounds{Lower: -25, Upper: 25}},
		{Name: "F", Bounds: params.Bounds{Lower: 0, Upper: 1000}},
	}
}

func (FallCooling) Apply(p map[string]float64, d *data.Dataset) []float64 {
	threshold := p["T"]
	cooling := mat.DenseCopyOf(d.Temperature)
	r, c := cooling.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			t := cooling.At(i, j)
			if t < threshold {
				cooling.Set(i, j, threshold-t)
			} else {
				cooling.Set(i, j, 0)
			}
		}
	}
	zeroBeforeDay(cooling, d.DOYSeries, p["t1"])
	cumulateColumns(cooling)
	return doyEstimator(cooling, d.DOYSeries, p["F"])
}

// M1 is ThermalTime with a photoperiod correction (Blümel & Chmielewski
// 2012): daily forcing is weighted by (daylength/24)^k before accumulating,
// so it requires a daylength predictor.
//
// Parameters: t1, T, F as in ThermalTime plus
//   - k: daylength exponent, default bounds (0, 50)
type M1 struct{}

func (M1) Name() string { return "M1" }

func (M1) RequiredPredictors() []data.Kind {
	return []data.Kind{data.Temperature, data.Daylength}
}

func (M1) Parameters() []params.Parameter {
	return []params.Parameter{
		{Name: "t1", Bounds: params.Bounds{Lower: -67, Upper: 298}},
		{Name: "T", Bounds: params.Bounds{Lower: -25, Upper: 25}},
		{Name: "F", Bounds: params.Bounds{Lower: 0, Upper: 1000}},
		{Name: "k", Bounds: params.Bounds{Lower: 0, Upper: 50}},
	}
}

func (M1) Apply(p map[string]float64, d *data.Dataset) []float64 {
	temp := mat.DenseCopyOf(d.Temperature)
	zeroBelow(temp, p["T"])
	zeroBeforeDay(temp, d.DOYSeries, p["t1"])
	daylengthScale(temp, d.Daylength, p["k"])
	cumulateColumns(temp)
	return doyEstimator(temp, d.DOYSeries, p["F"])
}
