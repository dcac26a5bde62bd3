package datasets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/phenogo/core/params"
	"github.com/YuminosukeSato/phenogo/models"
	"github.com/YuminosukeSato/phenogo/optimizer"
	"github.com/YuminosukeSato/phenogo/pkg/errors"
)

func TestLoadTestData(t *testing.T) {
	t.Run("both phenophases", func(t *testing.T) {
		obs, preds, err := LoadTestData("vaccinium", "both")
		require.NoError(t, err)
		assert.Len(t, obs, 32)
		assert.True(t, preds.HasLatitude)
		assert.NotEmpty(t, preds.Rows)
	})

	t.Run("budburst only", func(t *testing.T) {
		obs, _, err := LoadTestData("vaccinium", "budburst")
		require.NoError(t, err)
		assert.Len(t, obs, 16)
		for _, o := range obs {
			assert.Equal(t, PhenophaseBudburst, o.Phenophase)
		}
	})

	t.Run("flowers only", func(t *testing.T) {
		obs, _, err := LoadTestData("vaccinium", "flowers")
		require.NoError(t, err)
		assert.Len(t, obs, 16)
		for _, o := range obs {
			assert.Equal(t, PhenophaseFlowers, o.Phenophase)
		}
	})

	t.Run("empty filter means both", func(t *testing.T) {
		obs, _, err := LoadTestData("vaccinium", "")
		require.NoError(t, err)
		assert.Len(t, obs, 32)
	})

	t.Run("unknown dataset", func(t *testing.T) {
		_, _, err := LoadTestData("aspen", "")
		require.Error(t, err)
		var valErr *errors.ValueError
		assert.True(t, errors.As(err, &valErr))
	})

	t.Run("unknown phenophase", func(t *testing.T) {
		_, _, err := LoadTestData("vaccinium", "leaf_fall")
		assert.Error(t, err)
	})
}

// TestFitVacciniumBudburst fits the growing degree day model on the bundled
// dataset with a deterministic grid search over the forcing requirement.
// The observations were generated with t1 = 0, T = 0 and a known F, so the
// fit recovers a parameter set that reproduces every observed day exactly.
func TestFitVacciniumBudburst(t *testing.T) {
	obs, preds, err := LoadTestData("vaccinium", "budburst")
	require.NoError(t, err)

	m, err := models.New(models.ThermalTime{}, map[string]params.Setting{
		"t1": params.Fixed(0),
		"T":  params.Fixed(0),
		"F":  params.Range(250, 300),
	})
	require.NoError(t, err)

	opts := models.FitOptions{
		Optimizer: optimizer.Config{Method: optimizer.Grid, GridPoints: 51},
	}
	require.NoError(t, m.Fit(obs, preds, opts))

	got := m.GetParams()
	assert.InDelta(t, 273, got["F"], 1.0)

	score, err := m.Score("rmse")
	require.NoError(t, err)
	assert.InDelta(t, 0.0, score, 1e-12)

	predicted, err := m.PredictFitted()
	require.NoError(t, err)
	require.Len(t, predicted, 16)
	for i, o := range obs {
		assert.Equal(t, o.DOY, predicted[i], "observation %s", o.Key())
	}
}

// TestFitVacciniumFixedThreshold pins the forcing threshold and estimates
// the remaining two parameters with the seeded default optimizer. The pinned
// value must come back from GetParams untouched.
func TestFitVacciniumFixedThreshold(t *testing.T) {
	obs, preds, err := LoadTestData("vaccinium", "budburst")
	require.NoError(t, err)

	m, err := models.New(models.ThermalTime{}, map[string]params.Setting{
		"T": params.Fixed(0),
	})
	require.NoError(t, err)

	// The tiny testing budget rarely meets the tolerance; the warning is
	// expected and irrelevant here.
	errors.SetWarningHandler(func(error) {})
	defer errors.SetWarningHandler(nil)

	opts := models.FitOptions{Optimizer: optimizer.Testing()}
	require.NoError(t, m.Fit(obs, preds, opts))

	got := m.GetParams()
	require.Len(t, got, 3)
	assert.Equal(t, 0.0, got["T"])
	assert.Contains(t, got, "t1")
	assert.Contains(t, got, "F")
}

func TestFitVacciniumFlowers(t *testing.T) {
	obs, preds, err := LoadTestData("vaccinium", "flowers")
	require.NoError(t, err)

	m, err := models.New(models.ThermalTime{}, map[string]params.Setting{
		"t1": params.Fixed(0),
		"T":  params.Fixed(0),
		"F":  params.Range(400, 500),
	})
	require.NoError(t, err)

	opts := models.FitOptions{
		Optimizer: optimizer.Config{Method: optimizer.Grid, GridPoints: 101},
	}
	require.NoError(t, m.Fit(obs, preds, opts))

	got := m.GetParams()
	assert.InDelta(t, 447, got["F"], 2.0)

	score, err := m.Score("rmse")
	require.NoError(t, err)
	assert.InDelta(t, 0.0, score, 1e-12)
}
