package models

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/YuminosukeSato/phenogo/core/model"
	"github.com/YuminosukeSato/phenogo/core/params"
	"github.com/YuminosukeSato/phenogo/data"
	"github.com/YuminosukeSato/phenogo/metrics"
	"github.com/YuminosukeSato/phenogo/optimizer"
	"github.com/YuminosukeSato/phenogo/pkg/errors"
	phenologging "github.com/YuminosukeSato/phenogo/pkg/log"
)

// FitOptions configures a Fit call. The zero value uses the Practical
// optimizer preset, RMSE loss, and drop-with-warning alignment.
type FitOptions struct {
	// Optimizer is the fit engine configuration. See optimizer.Preset for
	// the named presets "testing", "practical" and "intensive".
	Optimizer optimizer.Config

	// Loss selects the fitting loss: "rmse" (default), "mae" or "aic".
	Loss string

	// Policy controls observations without matching predictor data.
	Policy data.MissingPolicy
}

// Model is a model family variant bound to a parameter store. It carries all
// behavior shared across variants: fitting, validation, prediction, scoring
// and serialization.
//
// A Model is not safe for concurrent mutation: serialize Fit and SetParams
// calls on the same instance. Predict is read-only and a pure function of
// the inputs. Independent instances may be fit concurrently.
type Model struct {
	model.BaseEstimator

	def    Definition
	store  *params.Store
	fitted *data.Dataset // retained fitting data for PredictFitted/Score
}

var (
	_ model.ParameterGetter = (*Model)(nil)
	_ model.ParameterSetter = (*Model)(nil)
	_ model.Scorer          = (*Model)(nil)
	_ model.ParamSaver      = (*Model)(nil)
	_ model.ParamSaver      = (*BootstrapModel)(nil)
)

// New constructs a model instance of the given variant. Settings may pin
// parameters to fixed values or override their search bounds; unknown names
// return a ConfigurationError. When every parameter is fixed the model is
// immediately ready for prediction.
func New(def Definition, settings map[string]params.Setting) (*Model, error) {
	store, err := params.NewStore(def.Parameters(), settings)
	if err != nil {
		return nil, err
	}
	m := &Model{def: def, store: store}
	if store.FreeCount() == 0 {
		m.SetFitted()
	}
	return m, nil
}

// NewNamed constructs a model instance of the variant registered under name.
func NewNamed(name string, settings map[string]params.Setting) (*Model, error) {
	def, err := LoadDefinition(name)
	if err != nil {
		return nil, err
	}
	return New(def, settings)
}

// Definition returns the variant this instance is bound to.
func (m *Model) Definition() Definition { return m.def }

// Fit estimates the model's free parameters from observations and predictor
// data. See FitContext.
func (m *Model) Fit(obs data.Observations, preds data.Predictors, opts FitOptions) error {
	return m.FitContext(context.Background(), obs, preds, opts)
}

// FitContext validates and aligns the inputs, then searches the free
// parameter space for the values minimizing the loss between predicted and
// observed event days. Fixed parameters are never altered. When the
// optimizer exhausts its budget without converging, the best parameters
// found are still assigned and a ConvergenceWarning is emitted. Cancelling
// the context aborts the search with an error.
func (m *Model) FitContext(ctx context.Context, obs data.Observations, preds data.Predictors, opts FitOptions) (err error) {
	defer errors.Recover(&err, "Model.Fit")

	if m.store.FreeCount() == 0 {
		return errors.Wrap(errors.ErrNothingToFit, m.def.Name())
	}
	if err := m.checkPredictors(preds); err != nil {
		return err
	}

	ds, err := data.Align(obs, preds, data.AlignOptions{Policy: opts.Policy})
	if err != nil {
		return err
	}
	if err := ds.Validate(); err != nil {
		return err
	}

	loss, err := lossFunction(opts.Loss, m.store.FreeCount())
	if err != nil {
		return err
	}

	objective := func(x []float64) float64 {
		predicted := m.def.Apply(m.store.Merged(x), ds)
		return loss(ds.ObservedDOY, predicted)
	}

	start := time.Now()
	res, minErr := optimizer.Minimize(ctx, optimizer.Problem{
		Objective: objective,
		Bounds:    m.store.FreeBounds(),
	}, opts.Optimizer)

	// Keep whatever the search found, even on cancellation: partial
	// progress is worth more than discarding the work.
	if res != nil {
		if assignErr := m.store.AssignFree(res.X); assignErr != nil {
			return assignErr
		}
	}
	if minErr != nil {
		return minErr
	}

	m.fitted = ds
	m.SetFitted()

	if opts.Optimizer.Verbose {
		method := opts.Optimizer.Method
		if method == "" {
			method = optimizer.DifferentialEvolution
		}
		slog.Debug("model fit complete",
			slog.String(phenologging.ModelNameKey, m.def.Name()),
			slog.String(phenologging.OperationKey, "fit"),
			slog.String(phenologging.MethodKey, string(method)),
			slog.Int64(phenologging.SeedKey, opts.Optimizer.Seed),
			slog.Int(phenologging.ObservationsKey, ds.NumObs()),
			slog.Int(phenologging.DaysKey, ds.NumDays()),
			slog.Int(phenologging.DroppedKey, len(obs)-ds.NumObs()),
			slog.Int(phenologging.EvaluationsKey, res.Evaluations),
			slog.Float64(phenologging.LossKey, res.Loss),
			slog.Bool(phenologging.ConvergedKey, res.Converged),
			slog.Duration(phenologging.DurationKey, time.Since(start)))
	}
	return nil
}

// Predict returns the predicted event day of year for each observation row,
// using its site/year predictor series. All parameters must be set, by Fit
// or at construction. The DOY column of toPredict is ignored and may be NaN.
func (m *Model) Predict(toPredict data.Observations, preds data.Predictors) (predicted []float64, err error) {
	defer errors.Recover(&err, "Model.Predict")

	if !m.store.AllSet() {
		return nil, errors.NewNotFittedError(m.def.Name(), "Predict")
	}
	if err := m.checkPredictors(preds); err != nil {
		return nil, err
	}
	ds, err := data.Align(toPredict, preds, data.AlignOptions{ForPrediction: true})
	if err != nil {
		return nil, err
	}
	return m.PredictDataset(ds)
}

// PredictDataset evaluates the model equation on an already-aligned dataset.
// It validates the dataset and the required predictor series first.
func (m *Model) PredictDataset(ds *data.Dataset) ([]float64, error) {
	if !m.store.AllSet() {
		return nil, errors.NewNotFittedError(m.def.Name(), "Predict")
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	for _, kind := range m.def.RequiredPredictors() {
		if kind == data.Daylength && ds.Daylength == nil {
			return nil, errors.NewValidationError("Model.Predict",
				"model requires a daylength predictor series", m.def.Name())
		}
	}
	return m.def.Apply(m.store.GetParams(), ds), nil
}

// PredictFitted predicts the event days of the data used in fitting.
func (m *Model) PredictFitted() ([]float64, error) {
	if m.fitted == nil {
		return nil, errors.NewNotFittedError(m.def.Name(), "PredictFitted")
	}
	return m.PredictDataset(m.fitted)
}

// GetParams returns all currently set parameter values, fixed and fitted.
func (m *Model) GetParams() map[string]float64 {
	return m.store.GetParams()
}

// SetParams bulk-assigns free parameter values. Targeting a fixed parameter
// or an unknown name returns a ConfigurationError.
func (m *Model) SetParams(values map[string]float64) error {
	if err := m.store.SetParams(values); err != nil {
		return err
	}
	if m.store.AllSet() {
		m.SetFitted()
	}
	return nil
}

// Score computes the model error on the data used in fitting under the
// named metric ("rmse" default, "mae", "aic").
func (m *Model) Score(metric string) (float64, error) {
	if m.fitted == nil {
		return 0, errors.NewNotFittedError(m.def.Name(), "Score")
	}
	predicted, err := m.PredictDataset(m.fitted)
	if err != nil {
		return 0, err
	}
	return scoreMetric(metric, m.fitted.ObservedDOY, predicted, m.store.FreeCount())
}

// ScoreData computes the model error on new observations and predictors.
func (m *Model) ScoreData(metric string, obs data.Observations, preds data.Predictors) (float64, error) {
	if err := m.checkPredictors(preds); err != nil {
		return 0, err
	}
	ds, err := data.Align(obs, preds, data.AlignOptions{})
	if err != nil {
		return 0, err
	}
	predicted, err := m.PredictDataset(ds)
	if err != nil {
		return 0, err
	}
	return scoreMetric(metric, ds.ObservedDOY, predicted, m.store.FreeCount())
}

func (m *Model) checkPredictors(preds data.Predictors) error {
	for _, kind := range m.def.RequiredPredictors() {
		if !preds.Has(kind) {
			return errors.NewValidationError("Model",
				"required predictor series is missing", string(kind))
		}
	}
	return nil
}

// lossFunction maps a loss name to a function over observed and predicted
// day-of-year vectors. Metric errors cannot occur inside the fit loop (the
// vectors always align), so they surface as an infinite loss.
func lossFunction(name string, nFree int) (func(obs, pred []float64) float64, error) {
	var fn func(obs, pred []float64) (float64, error)
	switch name {
	case "", "rmse":
		fn = metrics.RMSE
	case "mae":
		fn = metrics.MAE
	case "aic":
		fn = func(obs, pred []float64) (float64, error) {
			return metrics.AIC(obs, pred, nFree)
		}
	default:
		return nil, errors.NewValueError("models.Fit", "unknown loss method: "+name)
	}
	return func(obs, pred []float64) float64 {
		v, err := fn(obs, pred)
		if err != nil {
			return math.Inf(1)
		}
		return v
	}, nil
}

func scoreMetric(metric string, obs, pred []float64, nFree int) (float64, error) {
	switch metric {
	case "", "rmse":
		return metrics.RMSE(obs, pred)
	case "mae":
		return metrics.MAE(obs, pred)
	case "aic":
		return metrics.AIC(obs, pred, nFree)
	default:
		return 0, errors.NewValueError("models.Score", "unknown metric: "+metric)
	}
}
