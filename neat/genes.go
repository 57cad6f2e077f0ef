package neat

import (
	"fmt"
	"math/rand"
)

// --------------------------- NeuronGene ---------------------------

// NeuronGene represents a neuron in the genome.
// Ids are negative for inputs, 0..NumOutputs-1 for outputs and >= NumOutputs for hidden neurons.
type NeuronGene struct {
	ID   int     `json:"id"`
	Bias float64 `json:"bias"`
}

// String returns a string representation of the NeuronGene.
func (ng NeuronGene) String() string {
	return fmt.Sprintf("NeuronGene(ID: %d, Bias: %.3f)", ng.ID, ng.Bias)
}

// crossoverNeuron picks the bias of the offspring neuron from one of the two parents.
func crossoverNeuron(rng *rand.Rand, a, b NeuronGene) NeuronGene {
	if a.ID != b.ID {
		panic(fmt.Sprintf("crossover of unrelated neurons %d and %d", a.ID, b.ID))
	}
	child := a
	if rng.Intn(2) == 1 {
		child.Bias = b.Bias
	}
	return child
}

// --------------------------- LinkGene ---------------------------

// LinkID uniquely identifies a directed link between two neurons,
// regardless of its weight or enabled state.
type LinkID struct {
	InID  int `json:"in_id"`
	OutID int `json:"out_id"`
}

// LinkGene represents a weighted link between two neurons in the genome.
// Disabled links stay in the genome and are ignored when building a network.
type LinkGene struct {
	ID      LinkID  `json:"id"`
	Weight  float64 `json:"weight"`
	Enabled bool    `json:"enabled"`
}

// String returns a string representation of the LinkGene.
func (lg LinkGene) String() string {
	return fmt.Sprintf("LinkGene(%d->%d, Weight: %.3f, Enabled: %t)",
		lg.ID.InID, lg.ID.OutID, lg.Weight, lg.Enabled)
}

// crossoverLink picks weight and enabled flag independently from either parent.
func crossoverLink(rng *rand.Rand, a, b LinkGene) LinkGene {
	if a.ID != b.ID {
		panic(fmt.Sprintf("crossover of unrelated links %v and %v", a.ID, b.ID))
	}
	child := a
	if rng.Intn(2) == 1 {
		child.Weight = b.Weight
	}
	if rng.Intn(2) == 1 {
		child.Enabled = b.Enabled
	}
	return child
}

// --------------------------- Value Helpers ---------------------------
// Weights and biases share one distribution and one clamp range.

// initValue draws a fresh value from the configured normal distribution, clamped to range.
func initValue(rng *rand.Rand, config *GenomeConfig) float64 {
	return clamp(rng.NormFloat64()*config.InitStdev+config.InitMean, config.MinValue, config.MaxValue)
}

// shiftValue perturbs value by a normally distributed delta scaled by the mutate power.
func shiftValue(rng *rand.Rand, config *GenomeConfig, value float64) float64 {
	delta := clamp(rng.NormFloat64()*config.MutatePower, config.MinValue, config.MaxValue)
	return clamp(value+delta, config.MinValue, config.MaxValue)
}

// wideValue draws uniformly from [-NewValueRange, NewValueRange).
// Used for weights of freshly added links and biases of freshly added neurons.
func wideValue(rng *rand.Rand, config *GenomeConfig) float64 {
	return (rng.Float64()*2 - 1) * config.NewValueRange
}
