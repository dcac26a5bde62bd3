// Package optimizer implements the fit engine: it searches the free
// parameter space of a model for the values minimizing a loss function over
// the observations. Differential evolution (the default) and grid search run
// in-package with an explicit seed for reproducibility; Nelder-Mead local
// search is delegated to gonum.org/v1/gonum/optimize.
//
// A Minimize call is a blocking, single-threaded computation. It never
// shares state across invocations, so independent fits may run concurrently.
package optimizer

import (
	"context"

	"github.com/YuminosukeSato/phenogo/core/params"
	"github.com/YuminosukeSato/phenogo/pkg/errors"
)

// Method selects the search algorithm.
type Method string

const (
	// DifferentialEvolution is a stochastic global optimizer. Default.
	DifferentialEvolution Method = "DE"
	// NelderMead is a bounded local simplex search backed by gonum.
	NelderMead Method = "NelderMead"
	// Grid is an exhaustive grid evaluation. Deterministic but expensive
	// beyond two or three free parameters.
	Grid Method = "Grid"
)

// Config holds the optimizer settings. Zero values other than Seed are
// replaced with the Practical preset's defaults.
type Config struct {
	Method Method

	// Seed makes stochastic methods reproducible. Runs with the same seed,
	// bounds and objective produce identical results. Zero is a valid seed
	// and is used as-is; the presets all pick 42.
	Seed int64

	// MaxIter is the generation budget for DE and the major iteration
	// budget for NelderMead.
	MaxIter int

	// PopSize is the DE population multiplier: the population holds
	// PopSize*len(bounds) members.
	PopSize int

	// Mutation is the DE dither range for the differential weight.
	Mutation [2]float64

	// Recombination is the DE crossover probability.
	Recombination float64

	// Tol is the convergence tolerance. DE stops early when the spread of
	// population losses falls below Tol relative to their mean.
	Tol float64

	// GridPoints is the number of grid points per dimension for Grid.
	GridPoints int

	// Verbose logs search progress at debug level.
	Verbose bool
}

// Testing returns a preset for fast test runs: tiny budgets, loose tolerance.
func Testing() Config {
	return Config{
		Method:        DifferentialEvolution,
		Seed:          42,
		MaxIter:       5,
		PopSize:       10,
		Mutation:      [2]float64{0.5, 1},
		Recombination: 0.25,
		Tol:           0.01,
		GridPoints:    3,
	}
}

// Practical returns a preset balancing quality and runtime. Default.
func Practical() Config {
	return Config{
		Method:        DifferentialEvolution,
		Seed:          42,
		MaxIter:       1000,
		PopSize:       50,
		Mutation:      [2]float64{0.5, 1},
		Recombination: 0.25,
		Tol:           0.01,
		GridPoints:    20,
	}
}

// Intensive returns a preset for final parameter estimates: large budgets,
// wide mutation dither.
func Intensive() Config {
	return Config{
		Method:        DifferentialEvolution,
		Seed:          42,
		MaxIter:       10000,
		PopSize:       100,
		Mutation:      [2]float64{0.1, 1},
		Recombination: 0.25,
		Tol:           0.01,
		GridPoints:    40,
	}
}

// Preset returns a named preset config: "testing", "practical" or "intensive".
func Preset(name string) (Config, error) {
	switch name {
	case "testing":
		return Testing(), nil
	case "practical":
		return Practical(), nil
	case "intensive":
		return Intensive(), nil
	default:
		return Config{}, errors.NewValueError("optimizer.Preset", "unknown preset: "+name)
	}
}

func (c Config) withDefaults() Config {
	def := Practical()
	if c.Method == "" {
		c.Method = def.Method
	}
	if c.MaxIter == 0 {
		c.MaxIter = def.MaxIter
	}
	if c.PopSize == 0 {
		c.PopSize = def.PopSize
	}
	if c.Mutation == [2]float64{} {
		c.Mutation = def.Mutation
	}
	if c.Recombination == 0 {
		c.Recombination = def.Recombination
	}
	if c.Tol == 0 {
		c.Tol = def.Tol
	}
	if c.GridPoints == 0 {
		c.GridPoints = def.GridPoints
	}
	return c
}

// Problem is a bounded black-box minimization problem. Objective must be a
// pure function of x; it is called many times per fit.
type Problem struct {
	Objective func(x []float64) float64
	Bounds    []params.Bounds
}

// Result is the outcome of a Minimize call. When Converged is false the
// result still carries the best parameters found; a ConvergenceWarning has
// been emitted.
type Result struct {
	X           []float64
	Loss        float64
	Evaluations int
	Converged   bool
}

// Minimize runs the configured search over the problem's bounds. It returns
// the best parameter vector found even when the budget is exhausted without
// meeting the tolerance; that case emits a ConvergenceWarning rather than
// failing. Cancelling the context stops the search and returns the
// best-effort result alongside the context error.
func Minimize(ctx context.Context, p Problem, cfg Config) (*Result, error) {
	if p.Objective == nil {
		return nil, errors.NewValueError("optimizer.Minimize", "nil objective")
	}
	if len(p.Bounds) == 0 {
		return nil, errors.NewValueError("optimizer.Minimize", "no free parameters to search")
	}
	for i, b := range p.Bounds {
		if b.Lower > b.Upper {
			return nil, errors.NewConfigurationError(
				"bounds", "lower bound exceeds upper bound", i)
		}
	}
	cfg = cfg.withDefaults()

	var (
		res *Result
		err error
	)
	switch cfg.Method {
	case DifferentialEvolution:
		res, err = differentialEvolution(ctx, p, cfg)
	case NelderMead:
		res, err = nelderMead(p, cfg)
	case Grid:
		res, err = gridSearch(ctx, p, cfg)
	default:
		return nil, errors.NewValueError("optimizer.Minimize", "unknown method: "+string(cfg.Method))
	}
	if res != nil && !res.Converged && err == nil {
		errors.Warn(errors.NewConvergenceWarning(string(cfg.Method), res.Evaluations, res.Loss))
	}
	return res, err
}

func clampToBounds(x []float64, bounds []params.Bounds) {
	for i, b := range bounds {
		if x[i] < b.Lower {
			x[i] = b.Lower
		}
		if x[i] > b.Upper {
			x[i] = b.Upper
		}
	}
}
