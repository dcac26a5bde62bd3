package model

import "io"

// ParameterGetter is implemented by models that expose their parameters.
type ParameterGetter interface {
	// GetParams returns all currently set parameter values, fixed and fitted.
	GetParams() map[string]float64
}

// ParameterSetter is implemented by models whose free parameters can be
// assigned in bulk.
type ParameterSetter interface {
	// SetParams assigns values to free parameters only.
	SetParams(values map[string]float64) error
}

// Scorer is implemented by models that can score their own predictions
// against the observations used in fitting.
type Scorer interface {
	// Score returns the model error under the named metric ("rmse", "mae").
	Score(metric string) (float64, error)
}

// ParamSaver is implemented by models whose parameter set can be serialized
// for later reuse without refitting.
type ParamSaver interface {
	// SaveParamsTo writes the model name and parameters as JSON.
	SaveParamsTo(w io.Writer) error
	// SaveParams writes the serialized parameters to a file.
	SaveParams(path string, overwrite bool) error
}
