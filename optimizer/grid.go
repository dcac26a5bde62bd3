package optimizer

import (
	"context"
	"math"

	"github.com/YuminosukeSato/phenogo/pkg/errors"
)

// gridSearch exhaustively evaluates GridPoints values per dimension,
// linearly spaced across the bounds (inclusive of both ends). It is fully
// deterministic, which makes it the method of choice for tests and for
// estimating a single free parameter; the cost grows as GridPoints^dims.
func gridSearch(ctx context.Context, p Problem, cfg Config) (*Result, error) {
	dims := len(p.Bounds)
	ns := cfg.GridPoints
	if ns < 2 {
		return nil, errors.NewValueError("optimizer.Grid", "GridPoints must be at least 2")
	}

	axes := make([][]float64, dims)
	for d, b := range p.Bounds {
		axes[d] = make([]float64, ns)
		step := (b.Upper - b.Lower) / float64(ns-1)
		for k := 0; k < ns; k++ {
			axes[d][k] = b.Lower + float64(k)*step
		}
	}

	idx := make([]int, dims)
	x := make([]float64, dims)
	best := make([]float64, dims)
	bestLoss := math.Inf(1)
	evals := 0

	for {
		if err := ctx.Err(); err != nil {
			return &Result{X: best, Loss: bestLoss, Evaluations: evals}, errors.Wrap(err, "optimizer: search cancelled")
		}

		for d := 0; d < dims; d++ {
			x[d] = axes[d][idx[d]]
		}
		loss := p.Objective(x)
		evals++
		if loss < bestLoss {
			bestLoss = loss
			copy(best, x)
		}

		// Odometer-style advance over the grid.
		d := 0
		for ; d < dims; d++ {
			idx[d]++
			if idx[d] < ns {
				break
			}
			idx[d] = 0
		}
		if d == dims {
			break
		}
	}

	return &Result{X: best, Loss: bestLoss, Evaluations: evals, Converged: true}, nil
}
