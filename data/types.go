// Package data loads and validates phenology observations and predictor
// time series, and aligns them into the matrix form consumed by the model
// family: one column per observation, one row per day of year.
package data

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/phenogo/pkg/errors"
)

// Kind names a predictor series a model may require.
type Kind string

const (
	// Temperature is the daily mean temperature series.
	Temperature Kind = "temperature"
	// Daylength is the daily photoperiod in hours, derived from latitude.
	Daylength Kind = "daylength"
)

// Observation is a single recorded phenological event: the day of year an
// event (budburst, flowering) occurred at a site in a given year.
// Observations are immutable once loaded.
type Observation struct {
	SiteID     string
	Year       int
	Phenophase int
	DOY        float64
}

// Key returns the site/year join key of the observation.
func (o Observation) Key() string {
	return fmt.Sprintf("%s/%d", o.SiteID, o.Year)
}

// Observations is a table of phenological events.
type Observations []Observation

// PredictorRow is one day of predictor data for a site and year.
type PredictorRow struct {
	SiteID      string
	Year        int
	DOY         float64
	Temperature float64
	Latitude    float64
}

// Predictors is the long-format predictor table. Latitude is optional; when
// present it enables daylength-based models.
type Predictors struct {
	Rows        []PredictorRow
	HasLatitude bool
}

// Has reports whether the table can provide the named predictor series.
func (p Predictors) Has(kind Kind) bool {
	switch kind {
	case Temperature:
		return len(p.Rows) > 0
	case Daylength:
		return len(p.Rows) > 0 && p.HasLatitude
	default:
		return false
	}
}

// Dataset is the aligned matrix form of observations plus predictors:
// Temperature (and optionally Daylength) hold one column per observation
// and one row per entry of DOYSeries.
type Dataset struct {
	// DOYSeries is the strictly increasing day-of-year index of the rows.
	DOYSeries []float64

	// Temperature is the (days x observations) daily mean temperature matrix.
	Temperature *mat.Dense

	// Daylength is the (days x observations) photoperiod matrix, nil when
	// the predictor table carried no latitude.
	Daylength *mat.Dense

	// ObservedDOY is the observed event day per column, nil when the
	// dataset was built for prediction only.
	ObservedDOY []float64

	// Observations are the retained rows, aligned with the matrix columns.
	Observations Observations
}

// NumObs returns the number of observation columns.
func (d *Dataset) NumObs() int {
	if d.Temperature == nil {
		return 0
	}
	_, c := d.Temperature.Dims()
	return c
}

// NumDays returns the number of days in the series.
func (d *Dataset) NumDays() int {
	return len(d.DOYSeries)
}

// Validate checks the structural invariants models rely on: a non-empty,
// strictly increasing day index, a matching temperature matrix, and no NaN
// values. It returns a ValidationError on the first violation.
func (d *Dataset) Validate() error {
	if d == nil || d.Temperature == nil || len(d.DOYSeries) == 0 {
		return errors.NewValidationError("Dataset.Validate", "empty dataset", nil)
	}
	r, c := d.Temperature.Dims()
	if r != len(d.DOYSeries) {
		return errors.NewValidationError("Dataset.Validate",
			"temperature rows do not match day-of-year series length", r)
	}
	if c == 0 {
		return errors.NewValidationError("Dataset.Validate", "no observation columns", c)
	}
	for i := 1; i < len(d.DOYSeries); i++ {
		if d.DOYSeries[i] <= d.DOYSeries[i-1] {
			return errors.NewValidationError("Dataset.Validate",
				"day-of-year series is not strictly increasing", d.DOYSeries[i])
		}
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if math.IsNaN(d.Temperature.At(i, j)) {
				return errors.NewValidationError("Dataset.Validate",
					"temperature contains NaN", fmt.Sprintf("row %d col %d", i, j))
			}
		}
	}
	if d.Daylength != nil {
		dr, dc := d.Daylength.Dims()
		if dr != r || dc != c {
			return errors.NewValidationError("Dataset.Validate",
				"daylength shape does not match temperature", fmt.Sprintf("%dx%d", dr, dc))
		}
	}
	if d.ObservedDOY != nil && len(d.ObservedDOY) != c {
		return errors.NewDimensionError("Dataset.Validate", c, len(d.ObservedDOY))
	}
	return nil
}
