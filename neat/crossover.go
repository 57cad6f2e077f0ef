package neat

import "math/rand"

// Crossover creates an offspring genome from a dominant and a recessive parent.
//
// Genes present in both parents get their values picked from either parent at random.
// Genes only present in the dominant parent are copied; genes only present in the
// recessive parent are dropped. The offspring takes a fresh id and the dominant's arity.
func Crossover(indexer *GenomeIndexer, rng *rand.Rand, dominant, recessive *Individual) *Genome {
	dg, rg := dominant.Genome, recessive.Genome
	offspring := &Genome{
		ID:         indexer.Next(),
		NumInputs:  dg.NumInputs,
		NumOutputs: dg.NumOutputs,
		Neurons:    make([]NeuronGene, 0, len(dg.Neurons)),
		Links:      make([]LinkGene, 0, len(dg.Links)),
	}

	// Inherit neuron genes.
	for _, dn := range dg.Neurons {
		if rn, ok := rg.FindNeuron(dn.ID); ok {
			offspring.Neurons = append(offspring.Neurons, crossoverNeuron(rng, dn, *rn))
		} else {
			offspring.Neurons = append(offspring.Neurons, dn)
		}
	}

	// Inherit link genes.
	for _, dl := range dg.Links {
		if rl, ok := rg.FindLink(dl.ID); ok {
			offspring.Links = append(offspring.Links, crossoverLink(rng, dl, *rl))
		} else {
			offspring.Links = append(offspring.Links, dl)
		}
	}

	return offspring
}
