// Package phenogo is a plant phenology modeling library for Go.
//
// It provides a fit/predict API over the established phenology model
// equations: construct a model variant, estimate its free parameters from
// observed event days and daily temperature series, then predict event
// timing for new site/years.
//
// # Quick Start
//
// Fit the classic growing degree day model on the bundled dataset:
//
//	obs, preds, err := datasets.LoadTestData("vaccinium", "budburst")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	m, err := models.New(models.ThermalTime{}, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := m.Fit(obs, preds, models.FitOptions{Optimizer: optimizer.Practical()}); err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println(m.GetParams()) // map[F:... T:... t1:...]
//
// Parameters may be pinned at construction; fixed parameters are never
// altered by fitting:
//
//	m, _ := models.New(models.ThermalTime{}, map[string]params.Setting{
//	    "T": params.Fixed(0),
//	})
//
// Fitted parameters can be saved as JSON and reloaded without refitting:
//
//	_ = m.SaveParams("thermaltime.json", true)
//	loaded, _ := models.LoadSavedFile("thermaltime.json")
//
// # Packages
//
//   - models: the model family (ThermalTime, Uniforc, Unichill, ...) and
//     the shared fit/predict orchestration
//   - optimizer: the fit engine (differential evolution, Nelder-Mead, grid)
//   - data: observation/predictor loading, validation and alignment
//   - datasets: bundled example data
//   - metrics: RMSE, MAE, AIC, R2
package phenogo
