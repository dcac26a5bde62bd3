package data

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/phenogo/pkg/errors"
)

// predictorSeries builds a daily series for one site/year covering the doy
// range [from, to] with a constant temperature.
func predictorSeries(site string, year int, from, to int, temp, lat float64) []PredictorRow {
	rows := make([]PredictorRow, 0, to-from+1)
	for d := from; d <= to; d++ {
		rows = append(rows, PredictorRow{
			SiteID: site, Year: year, DOY: float64(d), Temperature: temp, Latitude: lat,
		})
	}
	return rows
}

func TestAlignBasic(t *testing.T) {
	obs := Observations{
		{SiteID: "a", Year: 2001, Phenophase: 371, DOY: 5},
		{SiteID: "b", Year: 2001, Phenophase: 371, DOY: 7},
	}
	preds := Predictors{Rows: append(
		predictorSeries("a", 2001, 1, 10, 10, 0),
		predictorSeries("b", 2001, 1, 10, 12, 0)...,
	)}

	ds, err := Align(obs, preds, AlignOptions{})
	require.NoError(t, err)
	require.NoError(t, ds.Validate())

	assert.Equal(t, 10, ds.NumDays())
	assert.Equal(t, 2, ds.NumObs())
	assert.Equal(t, []float64{5, 7}, ds.ObservedDOY)
	assert.Nil(t, ds.Daylength, "no latitude column means no daylength matrix")

	// Columns follow observation order.
	assert.Equal(t, 10.0, ds.Temperature.At(0, 0))
	assert.Equal(t, 12.0, ds.Temperature.At(0, 1))
}

func TestAlignDropsMissingWithWarning(t *testing.T) {
	obs := Observations{
		{SiteID: "a", Year: 2001, DOY: 5},
		{SiteID: "a", Year: 2002, DOY: 6}, // no predictor coverage
	}
	preds := Predictors{Rows: predictorSeries("a", 2001, 1, 10, 10, 0)}

	var captured error
	errors.SetWarningHandler(func(w error) { captured = w })
	defer errors.SetWarningHandler(nil)

	ds, err := Align(obs, preds, AlignOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, ds.NumObs())
	assert.Equal(t, []float64{5}, ds.ObservedDOY)

	require.Error(t, captured, "a DroppedDataWarning should have been emitted")
	var dropped *errors.DroppedDataWarning
	require.True(t, errors.As(captured, &dropped))
	assert.Equal(t, 1, dropped.Dropped)
	assert.Equal(t, 2, dropped.Total)
	assert.Equal(t, []string{"a/2002"}, dropped.Missing)
}

func TestAlignFailPolicy(t *testing.T) {
	obs := Observations{
		{SiteID: "a", Year: 2001, DOY: 5},
		{SiteID: "a", Year: 2002, DOY: 6},
	}
	preds := Predictors{Rows: predictorSeries("a", 2001, 1, 10, 10, 0)}

	_, err := Align(obs, preds, AlignOptions{Policy: Fail})
	require.Error(t, err)
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr))
}

func TestAlignLeapYearFirstDay(t *testing.T) {
	// 2001 covers doy 1..10, 2000 only 2..10: the first day of the union is
	// dropped instead of discarding the whole 2000 series.
	obs := Observations{
		{SiteID: "a", Year: 2000, DOY: 5},
		{SiteID: "a", Year: 2001, DOY: 6},
	}
	preds := Predictors{Rows: append(
		predictorSeries("a", 2000, 2, 10, 10, 0),
		predictorSeries("a", 2001, 1, 10, 12, 0)...,
	)}

	errors.SetWarningHandler(func(w error) {})
	defer errors.SetWarningHandler(nil)

	ds, err := Align(obs, preds, AlignOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, ds.NumObs())
	assert.Equal(t, 9, ds.NumDays())
	assert.Equal(t, 2.0, ds.DOYSeries[0])
}

func TestAlignForPrediction(t *testing.T) {
	obs := Observations{{SiteID: "a", Year: 2001, DOY: math.NaN()}}
	preds := Predictors{Rows: predictorSeries("a", 2001, 1, 10, 10, 0)}

	t.Run("NaN DOY rejected when fitting", func(t *testing.T) {
		_, err := Align(obs, preds, AlignOptions{})
		require.Error(t, err)
		var valErr *errors.ValidationError
		assert.True(t, errors.As(err, &valErr))
	})

	t.Run("NaN DOY permitted for prediction", func(t *testing.T) {
		ds, err := Align(obs, preds, AlignOptions{ForPrediction: true})
		require.NoError(t, err)
		assert.Nil(t, ds.ObservedDOY)
		assert.Equal(t, 1, ds.NumObs())
	})
}

func TestAlignDaylengthMatrix(t *testing.T) {
	obs := Observations{{SiteID: "a", Year: 2001, DOY: 5}}
	preds := Predictors{
		Rows:        predictorSeries("a", 2001, 170, 175, 10, 0),
		HasLatitude: true,
	}

	ds, err := Align(obs, preds, AlignOptions{})
	require.NoError(t, err)
	require.NotNil(t, ds.Daylength)

	// At the equator every day is close to twelve hours.
	for i := 0; i < ds.NumDays(); i++ {
		assert.InDelta(t, 12.0, ds.Daylength.At(i, 0), 0.2)
	}
}

func TestAlignEmptyInputs(t *testing.T) {
	preds := Predictors{Rows: predictorSeries("a", 2001, 1, 10, 10, 0)}

	_, err := Align(nil, preds, AlignOptions{})
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	_, err = Align(Observations{{SiteID: "a", Year: 2001, DOY: 5}}, Predictors{}, AlignOptions{})
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}

func TestAlignNaNTemperature(t *testing.T) {
	// An NA temperature cell punches a hole in a/2001's series, so that
	// site/year falls under the missing-data policy like any other gap.
	obs := Observations{
		{SiteID: "a", Year: 2001, DOY: 5},
		{SiteID: "b", Year: 2001, DOY: 6},
	}
	rows := predictorSeries("a", 2001, 1, 10, 10, 0)
	rows[3].Temperature = math.NaN()
	rows = append(rows, predictorSeries("b", 2001, 1, 10, 12, 0)...)

	t.Run("drop policy drops the holed site/year", func(t *testing.T) {
		var captured error
		errors.SetWarningHandler(func(w error) { captured = w })
		defer errors.SetWarningHandler(nil)

		ds, err := Align(obs, Predictors{Rows: rows}, AlignOptions{})
		require.NoError(t, err)
		assert.Equal(t, 1, ds.NumObs())
		assert.Equal(t, []float64{6}, ds.ObservedDOY)

		var dropped *errors.DroppedDataWarning
		require.True(t, errors.As(captured, &dropped))
		assert.Equal(t, []string{"a/2001"}, dropped.Missing)
	})

	t.Run("fail policy returns a validation error", func(t *testing.T) {
		_, err := Align(obs, Predictors{Rows: rows}, AlignOptions{Policy: Fail})
		require.Error(t, err)
		var valErr *errors.ValidationError
		assert.True(t, errors.As(err, &valErr))
	})

	t.Run("no usable temperature values at all", func(t *testing.T) {
		holed := predictorSeries("a", 2001, 1, 10, math.NaN(), 0)
		_, err := Align(obs[:1], Predictors{Rows: holed}, AlignOptions{})
		require.Error(t, err)
		var valErr *errors.ValidationError
		assert.True(t, errors.As(err, &valErr))
	})
}

func TestDatasetValidate(t *testing.T) {
	obs := Observations{{SiteID: "a", Year: 2001, DOY: 5}}
	preds := Predictors{Rows: predictorSeries("a", 2001, 1, 10, 10, 0)}

	ds, err := Align(obs, preds, AlignOptions{})
	require.NoError(t, err)
	require.NoError(t, ds.Validate())

	t.Run("empty dataset", func(t *testing.T) {
		var empty Dataset
		assert.Error(t, empty.Validate())
	})

	t.Run("non-increasing day series", func(t *testing.T) {
		broken := *ds
		broken.DOYSeries = make([]float64, len(ds.DOYSeries))
		copy(broken.DOYSeries, ds.DOYSeries)
		broken.DOYSeries[3] = broken.DOYSeries[2]
		assert.Error(t, broken.Validate())
	})

	t.Run("observed length mismatch", func(t *testing.T) {
		broken := *ds
		broken.ObservedDOY = []float64{1, 2}
		assert.Error(t, broken.Validate())
	})
}
