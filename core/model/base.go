// Package model provides the shared estimator plumbing for phenology models:
// fitted-state tracking and the interfaces the model family implements.
package model

// EstimatorState represents the lifecycle state of a model instance.
type EstimatorState int

const (
	// NotFitted means the model's free parameters have not been estimated.
	NotFitted EstimatorState = iota
	// Fitted means all parameters are set, by fitting or at construction.
	Fitted
)

// BaseEstimator is embedded by every model instance to track whether its
// parameters have been populated.
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted reports whether the model's parameters are populated.
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted marks the model as fitted.
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset returns the model to the unfitted state.
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}
