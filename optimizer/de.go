package optimizer

import (
	"context"
	"log/slog"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/phenogo/pkg/errors"
	phenologging "github.com/YuminosukeSato/phenogo/pkg/log"
)

// differentialEvolution implements the rand/1/bin DE scheme with a dithered
// differential weight. The population is initialized uniformly within the
// bounds from the seeded source, and trial vectors are clamped back into the
// bounds, so fixed seeds give byte-identical runs.
func differentialEvolution(ctx context.Context, p Problem, cfg Config) (*Result, error) {
	dims := len(p.Bounds)
	rng := rand.New(rand.NewSource(cfg.Seed))

	npop := cfg.PopSize * dims
	if npop < 4 {
		// rand/1/bin needs three distinct partners per member.
		npop = 4
	}

	pop := make([][]float64, npop)
	losses := make([]float64, npop)
	evals := 0
	for i := range pop {
		pop[i] = make([]float64, dims)
		for d, b := range p.Bounds {
			pop[i][d] = b.Lower + rng.Float64()*(b.Upper-b.Lower)
		}
		losses[i] = p.Objective(pop[i])
		evals++
	}

	bestIdx := 0
	for i, l := range losses {
		if l < losses[bestIdx] {
			bestIdx = i
		}
	}

	result := func(converged bool) *Result {
		x := make([]float64, dims)
		copy(x, pop[bestIdx])
		return &Result{X: x, Loss: losses[bestIdx], Evaluations: evals, Converged: converged}
	}

	trial := make([]float64, dims)
	for gen := 0; gen < cfg.MaxIter; gen++ {
		if err := ctx.Err(); err != nil {
			return result(false), errors.Wrap(err, "optimizer: search cancelled")
		}

		// Dither the differential weight once per generation.
		f := cfg.Mutation[0] + rng.Float64()*(cfg.Mutation[1]-cfg.Mutation[0])

		for i := 0; i < npop; i++ {
			a, b, c := pickPartners(rng, npop, i)
			jrand := rng.Intn(dims)
			for d := 0; d < dims; d++ {
				if d == jrand || rng.Float64() < cfg.Recombination {
					trial[d] = pop[a][d] + f*(pop[b][d]-pop[c][d])
				} else {
					trial[d] = pop[i][d]
				}
			}
			clampToBounds(trial, p.Bounds)

			loss := p.Objective(trial)
			evals++
			if loss <= losses[i] {
				copy(pop[i], trial)
				losses[i] = loss
				if loss < losses[bestIdx] {
					bestIdx = i
				}
			}
		}

		if cfg.Verbose {
			slog.Debug("differential evolution generation",
				slog.Int("generation", gen),
				slog.Float64(phenologging.LossKey, losses[bestIdx]),
				slog.Int(phenologging.EvaluationsKey, evals))
		}

		// Converged when the population losses have collapsed relative to
		// their mean, the scipy convergence criterion.
		mean, std := stat.MeanStdDev(losses, nil)
		if std <= cfg.Tol*math.Abs(mean) {
			return result(true), nil
		}
	}

	return result(false), nil
}

// pickPartners draws three distinct population indices, all different from i.
func pickPartners(rng *rand.Rand, npop, i int) (int, int, int) {
	pick := func(exclude ...int) int {
	retry:
		for {
			j := rng.Intn(npop)
			for _, e := range exclude {
				if j == e {
					continue retry
				}
			}
			return j
		}
	}
	a := pick(i)
	b := pick(i, a)
	c := pick(i, a, b)
	return a, b, c
}
