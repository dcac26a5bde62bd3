// Package datasets bundles small example phenology datasets for testing and
// learning the API. The vaccinium dataset holds Vaccinium corymbosum
// (highbush blueberry) observations for two phenophases, budburst (371) and
// flowers (501), with matching daily mean temperature series.
package datasets

import (
	"bytes"
	"embed"

	"github.com/YuminosukeSato/phenogo/data"
	"github.com/YuminosukeSato/phenogo/pkg/errors"
)

//go:embed data/*.csv
var dataFS embed.FS

// Phenophase identifiers used in the bundled observation tables.
const (
	PhenophaseBudburst = 371
	PhenophaseFlowers  = 501
)

// LoadTestData returns the observations and predictors of a bundled dataset.
// Supported names: "vaccinium". The phenophase filter is "budburst",
// "flowers" or "both".
func LoadTestData(name, phenophase string) (data.Observations, data.Predictors, error) {
	var obsFile, tempFile string
	switch name {
	case "vaccinium":
		obsFile = "data/vaccinium_obs.csv"
		tempFile = "data/vaccinium_temperature.csv"
	default:
		return nil, data.Predictors{}, errors.NewValueError("datasets.LoadTestData", "unknown dataset name: "+name)
	}

	var keep []int
	switch phenophase {
	case "budburst":
		keep = []int{PhenophaseBudburst}
	case "flowers":
		keep = []int{PhenophaseFlowers}
	case "", "both":
		keep = []int{PhenophaseBudburst, PhenophaseFlowers}
	default:
		return nil, data.Predictors{}, errors.NewValueError("datasets.LoadTestData", "unknown phenophase: "+phenophase)
	}

	obsRaw, err := dataFS.ReadFile(obsFile)
	if err != nil {
		return nil, data.Predictors{}, errors.Wrap(err, "read bundled observations")
	}
	tempRaw, err := dataFS.ReadFile(tempFile)
	if err != nil {
		return nil, data.Predictors{}, errors.Wrap(err, "read bundled predictors")
	}

	allObs, err := data.ReadObservations(bytes.NewReader(obsRaw))
	if err != nil {
		return nil, data.Predictors{}, err
	}
	preds, err := data.ReadPredictors(bytes.NewReader(tempRaw))
	if err != nil {
		return nil, data.Predictors{}, err
	}

	obs := make(data.Observations, 0, len(allObs))
	for _, o := range allObs {
		for _, id := range keep {
			if o.Phenophase == id {
				obs = append(obs, o)
				break
			}
		}
	}
	return obs, preds, nil
}
