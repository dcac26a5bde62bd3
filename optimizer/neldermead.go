package optimizer

import (
	gopt "gonum.org/v1/gonum/optimize"

	"github.com/YuminosukeSato/phenogo/pkg/errors"
)

// nelderMead delegates to gonum's simplex search. The search itself is
// unconstrained, so the objective is evaluated on a copy clamped into the
// bounds with a quadratic penalty on the violation, which steers the simplex
// back inside. Starting from the bounds midpoint keeps runs deterministic.
func nelderMead(p Problem, cfg Config) (*Result, error) {
	dims := len(p.Bounds)

	wrapped := func(x []float64) float64 {
		clamped := make([]float64, dims)
		copy(clamped, x)
		clampToBounds(clamped, p.Bounds)

		var penalty float64
		for i := range x {
			d := x[i] - clamped[i]
			penalty += d * d
		}
		return p.Objective(clamped) + penalty
	}

	x0 := make([]float64, dims)
	for i, b := range p.Bounds {
		x0[i] = b.Lower + (b.Upper-b.Lower)/2
	}

	settings := &gopt.Settings{
		MajorIterations: cfg.MaxIter,
		Converger: &gopt.FunctionConverge{
			Absolute:   cfg.Tol,
			Iterations: 30,
		},
	}

	result, err := gopt.Minimize(gopt.Problem{Func: wrapped}, x0, settings, &gopt.NelderMead{})
	if err != nil && result == nil {
		return nil, errors.Wrap(err, "optimizer: nelder-mead failed")
	}

	x := make([]float64, dims)
	copy(x, result.X)
	clampToBounds(x, p.Bounds)

	return &Result{
		X:           x,
		Loss:        p.Objective(x),
		Evaluations: result.Stats.FuncEvaluations,
		Converged:   result.Status == gopt.FunctionConvergence,
	}, nil
}
