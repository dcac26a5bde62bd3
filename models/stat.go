package models

import (
	"github.com/YuminosukeSato/phenogo/core/params"
	"github.com/YuminosukeSato/phenogo/data"
)

// Linear is a simple statistical baseline: the event day is a linear
// function of the mean spring temperature (day of year 0 through 90).
//
// Parameters:
//   - intercept: default bounds (-67, 298)
//   - slope:     default bounds (-25, 25)
type Linear struct{}

func (Linear) Name() string { return "Linear" }

func (Linear) RequiredPredictors() []data.Kind {
	return []data.Kind{data.Temperature}
}

func (Linear) Parameters() []params.Parameter {
	return []params.Parameter{
		{Name: "intercept", Bounds: params.Bounds{Lower: -67, Upper: 298}},
		{Name: "slope", Bounds: params.Bounds{Lower: -25, Upper: 25}},
	}
}

func (Linear) Apply(p map[string]float64, d *data.Dataset) []float64 {
	spring := meanTemperature(d, 0, 90)
	out := make([]float64, len(spring))
	for j, t := range spring {
		out[j] = p["intercept"] + p["slope"]*t
	}
	return out
}

// Naive predicts a constant day of year for every observation. It is the
// null model other variants are compared against.
//
// Parameters:
//   - intercept: default bounds (0, 365)
type Naive struct{}

func (Naive) Name() string { return "Naive" }

func (Naive) RequiredPredictors() []data.Kind {
	return []data.Kind{data.Temperature}
}

func (Naive) Parameters() []params.Parameter {
	return []params.Parameter{
		{Name: "intercept", Bounds: params.Bounds{Lower: 0, Upper: 365}},
	}
}

func (Naive) Apply(p map[string]float64, d *data.Dataset) []float64 {
	out := make([]float64, d.NumObs())
	for j := range out {
		out[j] = p["intercept"]
	}
	return out
}
