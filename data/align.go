package data

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/phenogo/pkg/errors"
)

// MissingPolicy controls what happens when an observation references a
// site/year with no (or incomplete) predictor coverage.
type MissingPolicy int

const (
	// DropWithWarning removes the affected observations and emits a
	// DroppedDataWarning. This is the default.
	DropWithWarning MissingPolicy = iota
	// Fail returns a ValidationError instead of dropping anything.
	Fail
)

// AlignOptions configures observation/predictor alignment.
type AlignOptions struct {
	// Policy for observations without matching predictor data.
	Policy MissingPolicy

	// ForPrediction permits NaN in the observation DOY column; the
	// resulting dataset carries no ObservedDOY vector.
	ForPrediction bool
}

type seriesGroup struct {
	temps    map[float64]float64
	latitude float64
}

// Align joins each observation to its site/year predictor series and pivots
// the result into the (days x observations) matrices models consume.
//
// The day-of-year index is the sorted union of all days present in the
// predictor table; a day whose temperature is NA counts as absent. A
// site/year that does not cover the full index is treated as missing.
// As a special case, when the very first day of the index is the only
// gap (a leap-year artifact in daily climate exports), that day is
// dropped from the index with a warning instead.
func Align(obs Observations, preds Predictors, opts AlignOptions) (*Dataset, error) {
	if len(obs) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "Align: observations")
	}
	if len(preds.Rows) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "Align: predictors")
	}

	if !opts.ForPrediction {
		for _, o := range obs {
			if math.IsNaN(o.DOY) {
				return nil, errors.NewValidationError("Align",
					"observation DOY contains NaN", o.Key())
			}
		}
	}

	groups := make(map[string]*seriesGroup)
	doySet := make(map[float64]struct{})
	for _, row := range preds.Rows {
		key := Observation{SiteID: row.SiteID, Year: row.Year}.Key()
		g, ok := groups[key]
		if !ok {
			g = &seriesGroup{temps: make(map[float64]float64)}
			groups[key] = g
		}
		g.latitude = row.Latitude
		// An NA temperature cell leaves a hole in the series, making the
		// site/year incomplete and subject to the missing-data policy.
		if math.IsNaN(row.Temperature) {
			continue
		}
		g.temps[row.DOY] = row.Temperature
		doySet[row.DOY] = struct{}{}
	}

	doySeries := make([]float64, 0, len(doySet))
	for doy := range doySet {
		doySeries = append(doySeries, doy)
	}
	sort.Float64s(doySeries)
	if len(doySeries) == 0 {
		return nil, errors.NewValidationError("Align",
			"predictor data contains no usable temperature values", len(preds.Rows))
	}

	// Leap-year artifact: drop the first day of the index when some groups
	// are missing only that day.
	if len(doySeries) > 1 {
		incomplete := 0
		for _, g := range groups {
			if _, ok := g.temps[doySeries[0]]; !ok {
				incomplete++
			}
		}
		if incomplete > 0 {
			errors.Warn(errors.Newf(
				"dropped temperature data for doy %v due to missing data in %d series, most likely a leap year mismatch",
				doySeries[0], incomplete))
			doySeries = doySeries[1:]
		}
	}

	complete := func(g *seriesGroup) bool {
		for _, doy := range doySeries {
			if _, ok := g.temps[doy]; !ok {
				return false
			}
		}
		return true
	}

	kept := make(Observations, 0, len(obs))
	var missing []string
	seenMissing := make(map[string]struct{})
	for _, o := range obs {
		g, ok := groups[o.Key()]
		if ok && complete(g) {
			kept = append(kept, o)
			continue
		}
		if _, dup := seenMissing[o.Key()]; !dup {
			seenMissing[o.Key()] = struct{}{}
			missing = append(missing, o.Key())
		}
	}

	if len(missing) > 0 {
		if opts.Policy == Fail {
			return nil, errors.NewValidationError("Align",
				"observations reference site/years absent from predictor data", missing)
		}
		errors.Warn(errors.NewDroppedDataWarning(len(obs)-len(kept), len(obs), missing))
	}
	if len(kept) == 0 {
		return nil, errors.NewValidationError("Align",
			"no observations with matching predictor data remain", len(obs))
	}

	nDays := len(doySeries)
	nObs := len(kept)
	temperature := mat.NewDense(nDays, nObs, nil)
	var daylength *mat.Dense
	if preds.HasLatitude {
		daylength = mat.NewDense(nDays, nObs, nil)
	}

	for j, o := range kept {
		g := groups[o.Key()]
		for i, doy := range doySeries {
			temperature.Set(i, j, g.temps[doy])
			if daylength != nil {
				daylength.Set(i, j, DaylengthHours(doy, g.latitude))
			}
		}
	}

	ds := &Dataset{
		DOYSeries:    doySeries,
		Temperature:  temperature,
		Daylength:    daylength,
		Observations: kept,
	}
	if !opts.ForPrediction {
		ds.ObservedDOY = make([]float64, nObs)
		for j, o := range kept {
			ds.ObservedDOY[j] = o.DOY
		}
	}
	return ds, nil
}
