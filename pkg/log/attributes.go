package log

// Standard attribute keys for phenology modeling operations. Using these
// keys keeps fit and predict logs consistent and easy to filter.

// Model and operation context.
const (
	// ModelNameKey identifies the phenology model variant.
	// Examples: "ThermalTime", "Uniforc", "BootstrapModel"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "score", "save", "load"
	OperationKey = "pheno.operation"

	// MethodKey identifies the optimizer method in use.
	// Examples: "DE", "NelderMead", "Grid"
	MethodKey = "optimizer.method"
)

// Data shape and characteristics.
const (
	// ObservationsKey is the number of phenology observations being processed.
	ObservationsKey = "data.observations"

	// DaysKey is the number of days in the predictor time series.
	DaysKey = "data.days"

	// DroppedKey is the number of observations dropped during alignment.
	DroppedKey = "data.dropped"
)

// Fitting progress and outcome.
const (
	// EvaluationsKey is the number of objective function evaluations used.
	EvaluationsKey = "fit.evaluations"

	// LossKey is the loss value of the current best parameter set.
	LossKey = "fit.loss"

	// ConvergedKey reports whether the optimizer met its tolerance.
	ConvergedKey = "fit.converged"

	// SeedKey is the random seed used for stochastic optimizers.
	SeedKey = "fit.seed"

	// DurationKey is the elapsed time of an operation.
	DurationKey = "duration"
)
