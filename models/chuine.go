package models

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/phenogo/core/params"
	"github.com/YuminosukeSato/phenogo/data"
)

// Uniforc is the single-phase forcing model of Chuine (2000): daily forcing
// units follow a two-parameter sigmoid of temperature, accumulate from day
// t1, and the event occurs when they reach F.
//
// Parameters:
//   - t1: day of year forcing accumulation begins, default bounds (-67, 298)
//   - F:  total forcing units required, default bounds (0, 200)
//   - b:  sigmoid slope parameter, default bounds (-20, 0)
//   - c:  sigmoid midpoint parameter, default bounds (-50, 50)
//
// Chuine, I. (2000). A Unified Model for Budburst of Trees.
// Journal of Theoretical Biology, 207(3), 337-347.
type Uniforc struct{}

func (Uniforc) Name() string { return "Uniforc" }

func (Uniforc) RequiredPredictors() []data.Kind {
	return []data.Kind{data.Temperature}
}

func (Uniforc) Parameters() []params.Parameter {
	return []params.Parameter{
		{Name: "t1", Bounds: params.Bounds{Lower: -67, Upper: 298}},
		{Name: "F", Bounds: params.Bounds{Lower: 0, Upper: 200}},
		{Name: "b", Bounds: params.Bounds{Lower: -20, Upper: 0}},
		{Name: "c", Bounds: params.Bounds{Lower: -50, Upper: 50}},
	}
}

func (Uniforc) Apply(p map[string]float64, d *data.Dataset) []float64 {
	forcing := mat.DenseCopyOf(d.Temperature)
	sigmoid2(forcing, p["b"], p["c"])
	zeroBeforeDay(forcing, d.DOYSeries, p["t1"])
	cumulateColumns(forcing)
	return doyEstimator(forcing, d.DOYSeries, p["F"])
}

// Unichill is the two-phase model of Chuine (2000): chilling units (a
// three-parameter sigmoid of temperature) accumulate from day t0 until the
// chilling requirement C is met, which starts the forcing phase; forcing
// units (a two-parameter sigmoid) then accumulate until they reach F.
//
// Parameters:
//   - t0:       day of year chilling accumulation begins, bounds (-67, 298)
//   - C:        total chilling units required, bounds (0, 300)
//   - F:        total forcing units required, bounds (0, 200)
//   - b_f, c_f: forcing sigmoid parameters, bounds (-20, 0) and (-50, 50)
//   - a_c:      chilling sigmoid parameter, bounds (0, 20)
//   - b_c:      chilling sigmoid parameter, bounds (-20, 20)
//   - c_c:      chilling sigmoid parameter, bounds (-50, 50)
type Unichill struct{}

func (Unichill) Name() string { return "Unichill" }

func (Unichill) RequiredPredictors() []data.Kind {
	return []data.Kind{data.Temperature}
}

func (Unichill) Parameters() []params.Parameter {
	return []params.Parameter{
		{Name: "t0", Bounds: params.Bounds{Lower: -67, Upper: 298}},
		{Name: "C", Bounds: params.Bounds{Lower: 0, Upper: 300}},
		{Name: "F", Bounds: params.Bounds{Lower: 0, Upper: 200}},
		{Name: "b_f", Bounds: params.Bounds{Lower: -20, Upper: 0}},
		{Name: "c_f", Bounds: params.Bounds{Lower: -50, Upper: 50}},
		{Name: "a_c", Bounds: params.Bounds{Lower: 0, Upper: 20}},
		{Name: "b_c", Bounds: params.Bounds{Lower: -20, Upper: 20}},
		{Name: "c_c", Bounds: params.Bounds{Lower: -50, Upper: 50}},
	}
}

func (Unichill) Apply(p map[string]float64, d *data.Dataset) []float64 {
	chilling := mat.DenseCopyOf(d.Temperature)
	sigmoid3(chilling, p["a_c"], p["b_c"], p["c_c"])
	zeroBeforeDay(chilling, d.DOYSeries, p["t0"])
	cumulateColumns(chilling)

	// The forcing phase of each observation starts on the day its chilling
	// requirement C is met. Columns that never meet C keep the
	// non-prediction day and accumulate no forcing at all.
	t1 := doyEstimator(chilling, d.DOYSeries, p["C"])

	forcing := mat.DenseCopyOf(d.Temperature)
	sigmoid2(forcing, p["b_f"], p["c_f"])
	_, c := forcing.Dims()
	for j := 0; j < c; j++ {
		for i, doy := range d.DOYSeries {
			if doy >= t1[j] {
				break
			}
			forcing.Set(i, j, 0)
		}
	}
	cumulateColumns(forcing)
	return doyEstimator(forcing, d.DOYSeries, p["F"])
}
