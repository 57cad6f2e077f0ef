package neat

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// EvaluateFunc measures the fitness of one individual.
// It is called concurrently for different individuals and must only read the
// genome it is given. Any randomness it needs must come from its own source.
type EvaluateFunc func(ctx context.Context, ind *Individual) (float64, error)

// Evaluate runs fn over every individual in parallel and stores the results.
// Each task writes only the fitness of its own individual, so no locking is needed.
// It returns once every evaluation has finished or the first one has failed.
func (p *Population) Evaluate(ctx context.Context, fn EvaluateFunc) error {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers())

	for _, ind := range p.Individuals {
		ind := ind
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			fitness, err := fn(gCtx, ind)
			if err != nil {
				return fmt.Errorf("evaluate genome %d: %w", ind.Genome.ID, err)
			}
			ind.Fitness = fitness
			return nil
		})
	}
	return g.Wait()
}

// workers returns the evaluation parallelism.
func (p *Population) workers() int {
	if p.Config.Neat.Workers > 0 {
		return p.Config.Neat.Workers
	}
	return runtime.GOMAXPROCS(0)
}
