package neat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Individual pairs a genome with its most recently measured fitness.
type Individual struct {
	Genome  *Genome `json:"genome"`
	Fitness float64 `json:"fitness"`
}

// Clone creates a deep copy of the individual.
func (ind *Individual) Clone() *Individual {
	return &Individual{Genome: ind.Genome.Clone(), Fitness: ind.Fitness}
}

// Population holds the state of the evolutionary process.
type Population struct {
	RunID       string // Identifies one evolution run across checkpoints and archives
	Config      *Config
	Individuals []*Individual
	Best        *Individual // Copy of the top individual of the latest evaluated generation
	Champion    *Individual // Copy of the fittest individual seen in any generation
	Generation  int         // Number of evaluated generations
	Indexer     *GenomeIndexer
	Mutator     *Mutator
	Rand        *rand.Rand
	Logger      *slog.Logger
	Reporters   []Reporter
}

// NewPopulation creates an empty population. Call Populate or PopulateFromGenome to fill it.
// rng drives every initialization, crossover and mutation; pass a seeded source for reproducible runs.
func NewPopulation(config *Config, rng *rand.Rand) (*Population, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Population{
		RunID:   uuid.NewString(),
		Config:  config,
		Indexer: NewGenomeIndexer(1),
		Mutator: NewMutator(&config.Genome, rng),
		Rand:    rng,
		Logger:  slog.Default(),
	}, nil
}

// Populate replaces the individuals with PopSize freshly created genomes.
func (p *Population) Populate() {
	p.Individuals = make([]*Individual, 0, p.Config.Neat.PopSize)
	for i := 0; i < p.Config.Neat.PopSize; i++ {
		p.Individuals = append(p.Individuals, &Individual{
			Genome: NewGenome(p.Indexer, p.Rand, &p.Config.Genome),
		})
	}
	p.Logger.Info("population created",
		slog.Int("size", len(p.Individuals)),
		slog.Int("inputs", p.Config.Genome.NumInputs),
		slog.Int("outputs", p.Config.Genome.NumOutputs))
}

// PopulateFromGenome seeds the population from a previously evolved genome.
// The first individual is an exact copy; the others carry one structural mutation each.
func (p *Population) PopulateFromGenome(seed *Genome) error {
	if err := seed.Validate(); err != nil {
		return fmt.Errorf("invalid seed genome: %w", err)
	}
	if seed.NumInputs != p.Config.Genome.NumInputs || seed.NumOutputs != p.Config.Genome.NumOutputs {
		return fmt.Errorf("seed genome arity %d->%d does not match config %d->%d",
			seed.NumInputs, seed.NumOutputs, p.Config.Genome.NumInputs, p.Config.Genome.NumOutputs)
	}

	p.Individuals = make([]*Individual, 0, p.Config.Neat.PopSize)
	for i := 0; i < p.Config.Neat.PopSize; i++ {
		g := seed.Clone()
		g.ID = p.Indexer.Next()
		if i > 0 {
			p.Mutator.Mutate(g)
		}
		p.Individuals = append(p.Individuals, &Individual{Genome: g})
	}
	p.Logger.Info("population seeded from genome",
		slog.Int("seed_genome", seed.ID),
		slog.Int("size", len(p.Individuals)))
	return nil
}

// SortByFitness orders the individuals from the fittest to the least fit.
// Individuals with equal fitness keep their relative order.
func (p *Population) SortByFitness() {
	sort.SliceStable(p.Individuals, func(i, j int) bool {
		return p.Individuals[i].Fitness > p.Individuals[j].Fitness
	})
}

// RunGeneration evaluates the current individuals, ranks them and records the best one.
// Unless last is set or the fitness threshold was reached, the individuals are then
// replaced by the next generation. It reports whether the fitness threshold was reached.
func (p *Population) RunGeneration(ctx context.Context, fn EvaluateFunc, last bool) (bool, error) {
	if len(p.Individuals) == 0 {
		return false, errors.New("population is empty; call Populate first")
	}
	start := time.Now()

	if err := p.Evaluate(ctx, fn); err != nil {
		return false, fmt.Errorf("fitness evaluation failed in generation %d: %w", p.Generation+1, err)
	}
	evalDuration := time.Since(start)
	p.Generation++

	p.SortByFitness()
	p.Best = p.Individuals[0].Clone()
	if p.Champion == nil || p.Best.Fitness > p.Champion.Fitness {
		p.Champion = p.Best.Clone()
	}

	stats := computeStats(p.Individuals, &p.Config.Compatibility)
	stats.Generation = p.Generation
	stats.Best = p.Best
	stats.EvalDuration = evalDuration

	solved := p.Config.Neat.FitnessThreshold > 0 && p.Best.Fitness >= p.Config.Neat.FitnessThreshold
	if !last && !solved {
		p.Individuals = p.Reproduce()
	}

	stats.Duration = time.Since(start)
	for _, r := range p.Reporters {
		r.EndGeneration(stats)
	}
	return solved, nil
}

// Run evolves the population for numGenerations generations and returns a copy of
// the best individual of the final evaluated generation.
func (p *Population) Run(ctx context.Context, fn EvaluateFunc, numGenerations int) (*Individual, error) {
	for i := 0; i < numGenerations; i++ {
		if err := ctx.Err(); err != nil {
			return p.Best, err
		}
		solved, err := p.RunGeneration(ctx, fn, i == numGenerations-1)
		if err != nil {
			return p.Best, err
		}
		if solved {
			p.Logger.Info("fitness threshold reached",
				slog.Int("generation", p.Generation),
				slog.Float64("fitness", p.Best.Fitness))
			break
		}
	}
	return p.Best, nil
}
