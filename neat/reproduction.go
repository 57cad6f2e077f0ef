package neat

import (
	"log/slog"
	"math"
)

// survivalCutoff returns how many of the ranked individuals may breed.
func (p *Population) survivalCutoff() int {
	n := len(p.Individuals)
	cutoff := int(math.Ceil(p.Config.Neat.SurvivalThreshold * float64(n)))
	if cutoff < 1 {
		cutoff = 1 // Handle edge case where threshold is 0 but members exist
	}
	if cutoff > n {
		cutoff = n
	}
	return cutoff
}

// Reproduce creates the next generation from the current individuals, which must
// already be sorted by descending fitness and must not be empty.
//
// The top survivors form the breeding pool. The first Elitism survivors are carried
// over unchanged; every other slot is filled by crossing two survivors picked at random
// with replacement and applying one structural mutation. The result always holds
// exactly PopSize individuals, all with fitness 0.
func (p *Population) Reproduce() []*Individual {
	survivors := p.Individuals[:p.survivalCutoff()]
	popSize := p.Config.Neat.PopSize
	next := make([]*Individual, 0, popSize)

	for i := 0; i < p.Config.Neat.Elitism && i < len(survivors) && len(next) < popSize; i++ {
		next = append(next, &Individual{Genome: survivors[i].Genome.Clone()})
	}

	applied := make(map[MutationKind]int, numMutationKinds)
	for len(next) < popSize {
		dominant := survivors[p.Rand.Intn(len(survivors))]
		recessive := survivors[p.Rand.Intn(len(survivors))]

		offspring := Crossover(p.Indexer, p.Rand, dominant, recessive)
		if kind, ok := p.Mutator.Mutate(offspring); ok {
			applied[kind]++
		}
		if p.Config.Genome.NumericMutation {
			p.Mutator.MutateValues(offspring)
		}
		next = append(next, &Individual{Genome: offspring})
	}

	p.Logger.Debug("reproduced",
		slog.Int("survivors", len(survivors)),
		slog.Int("offspring", len(next)),
		slog.Int(AddLink.String(), applied[AddLink]),
		slog.Int(AddNeuron.String(), applied[AddNeuron]),
		slog.Int(RemoveLink.String(), applied[RemoveLink]),
		slog.Int(RemoveNeuron.String(), applied[RemoveNeuron]))
	return next
}
