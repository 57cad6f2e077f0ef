package nn

import (
	"fmt"
	"sort"

	"github.com/baldhumanity/neat-ff/neat"
)

// NeuronInput is one weighted incoming edge of a compiled neuron.
type NeuronInput struct {
	InputID int
	Weight  float64
}

// Neuron is the evaluation record of one neuron: its bias and its enabled incoming edges.
type Neuron struct {
	ID     int
	Bias   float64
	Inputs []NeuronInput
}

// FeedForwardNetwork is a phenotype network that can be activated.
// Neurons are stored in a valid evaluation order; neurons that cannot
// influence an output are left out.
type FeedForwardNetwork struct {
	InputIDs  []int    // Input neuron ids (negative)
	OutputIDs []int    // Output neuron ids (0 to N-1)
	Neurons   []Neuron // Evaluation order

	outputSet        map[int]bool
	hiddenActivation neat.ActivationType
	outputActivation neat.ActivationType
}

// NewFeedForwardNetwork wraps neurons that are already in evaluation order.
// Hidden neurons use ReLU and outputs stay linear.
func NewFeedForwardNetwork(inputIDs, outputIDs []int, neurons []Neuron) *FeedForwardNetwork {
	net := &FeedForwardNetwork{
		InputIDs:         inputIDs,
		OutputIDs:        outputIDs,
		Neurons:          neurons,
		outputSet:        make(map[int]bool, len(outputIDs)),
		hiddenActivation: neat.ReLU,
		outputActivation: neat.Identity,
	}
	for _, id := range outputIDs {
		net.outputSet[id] = true
	}
	return net
}

// RequiredForOutput returns the neurons that feed, directly or indirectly, into an output.
// Input ids are never part of the result; output ids always are.
func RequiredForOutput(inputs, outputs []int, links []neat.LinkGene) map[int]bool {
	inputSet := make(map[int]bool, len(inputs))
	for _, id := range inputs {
		inputSet[id] = true
	}

	required := make(map[int]bool, len(outputs))
	for _, id := range outputs {
		required[id] = true
	}

	for {
		added := false
		for _, l := range links {
			if required[l.ID.OutID] && !required[l.ID.InID] && !inputSet[l.ID.InID] {
				required[l.ID.InID] = true
				added = true
			}
		}
		if !added {
			return required
		}
	}
}

// FeedForwardLayers groups the required neurons into layers that can be evaluated in order:
// every neuron's incoming links come from the inputs or from an earlier layer.
// Neurons within a layer are sorted by id, so the result is deterministic for a fixed link set.
func FeedForwardLayers(inputs, outputs []int, links []neat.LinkGene) [][]int {
	required := RequiredForOutput(inputs, outputs, links)

	incoming := make(map[int][]int)
	for _, l := range links {
		incoming[l.ID.OutID] = append(incoming[l.ID.OutID], l.ID.InID)
	}

	satisfied := make(map[int]bool, len(inputs)+len(required))
	for _, id := range inputs {
		satisfied[id] = true
	}

	var layers [][]int
	for {
		// Candidates are unsatisfied targets of links leaving the satisfied set.
		candidates := make(map[int]bool)
		for _, l := range links {
			if satisfied[l.ID.InID] && !satisfied[l.ID.OutID] {
				candidates[l.ID.OutID] = true
			}
		}

		var layer []int
		for id := range candidates {
			if !required[id] {
				continue
			}
			ready := true
			for _, src := range incoming[id] {
				if !satisfied[src] {
					ready = false
					break
				}
			}
			if ready {
				layer = append(layer, id)
			}
		}

		if len(layer) == 0 {
			return layers
		}
		sort.Ints(layer)
		for _, id := range layer {
			satisfied[id] = true
		}
		layers = append(layers, layer)
	}
}

// CreateFeedForwardNetwork builds a runnable feed-forward network from a genome.
// Only enabled links are used. The genome must be acyclic over its enabled links.
// A nil config selects ReLU for hidden neurons and linear outputs.
func CreateFeedForwardNetwork(g *neat.Genome, config *neat.GenomeConfig) (*FeedForwardNetwork, error) {
	if config == nil {
		config = &neat.DefaultConfig().Genome
	}
	hidden, err := neat.GetActivation(config.HiddenActivation)
	if err != nil {
		return nil, fmt.Errorf("hidden activation: %w", err)
	}
	output, err := neat.GetActivation(config.OutputActivation)
	if err != nil {
		return nil, fmt.Errorf("output activation: %w", err)
	}

	net := NewFeedForwardNetwork(g.InputIDs(), g.OutputIDs(), nil)
	net.hiddenActivation = hidden
	net.outputActivation = output

	enabled := make([]neat.LinkGene, 0, len(g.Links))
	for _, l := range g.Links {
		if l.Enabled {
			enabled = append(enabled, l)
		}
	}

	for _, layer := range FeedForwardLayers(net.InputIDs, net.OutputIDs, enabled) {
		for _, id := range layer {
			gene, ok := g.FindNeuron(id)
			if !ok {
				continue
			}
			neuron := Neuron{ID: id, Bias: gene.Bias}
			for _, l := range enabled {
				if l.ID.OutID == id {
					neuron.Inputs = append(neuron.Inputs, NeuronInput{InputID: l.ID.InID, Weight: l.Weight})
				}
			}
			net.Neurons = append(net.Neurons, neuron)
		}
	}
	return net, nil
}

// Activate computes the network's output for a given slice of input values.
//
// It panics if len(inputs) differs from the number of input neurons, or if a neuron
// reads a value that was never computed; both mean the network does not match the
// genome it was built from.
func (net *FeedForwardNetwork) Activate(inputs []float64) []float64 {
	if len(inputs) != len(net.InputIDs) {
		panic(fmt.Sprintf("mismatch between input count (%d) and network input neurons (%d)", len(inputs), len(net.InputIDs)))
	}

	values := make(map[int]float64, len(net.InputIDs)+len(net.Neurons))
	for i, id := range net.InputIDs {
		values[id] = inputs[i]
	}
	for _, id := range net.OutputIDs {
		values[id] = 0.0
	}

	for _, neuron := range net.Neurons {
		sum := 0.0
		for _, in := range neuron.Inputs {
			v, ok := values[in.InputID]
			if !ok {
				panic(fmt.Sprintf("missing input %d for neuron %d", in.InputID, neuron.ID))
			}
			sum += v * in.Weight
		}
		sum += neuron.Bias

		if net.outputSet[neuron.ID] {
			values[neuron.ID] = net.outputActivation(sum)
		} else {
			values[neuron.ID] = net.hiddenActivation(sum)
		}
	}

	outputs := make([]float64, len(net.OutputIDs))
	for i, id := range net.OutputIDs {
		outputs[i] = values[id]
	}
	return outputs
}
