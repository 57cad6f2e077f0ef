package neat

import (
	"fmt"
	"math/rand"
)

// MutationKind identifies one of the structural mutations.
type MutationKind int

const (
	AddLink MutationKind = iota
	AddNeuron
	RemoveLink
	RemoveNeuron

	numMutationKinds = iota
)

func (k MutationKind) String() string {
	switch k {
	case AddLink:
		return "add_link"
	case AddNeuron:
		return "add_neuron"
	case RemoveLink:
		return "remove_link"
	case RemoveNeuron:
		return "remove_neuron"
	default:
		return fmt.Sprintf("MutationKind(%d)", int(k))
	}
}

// Mutator applies structural and numeric mutations to genomes.
// It is not safe for concurrent use because it owns a *rand.Rand.
type Mutator struct {
	Config *GenomeConfig
	Rand   *rand.Rand
}

// NewMutator creates a mutator drawing from rng.
func NewMutator(config *GenomeConfig, rng *rand.Rand) *Mutator {
	return &Mutator{Config: config, Rand: rng}
}

// Mutate applies one structural mutation chosen uniformly at random.
// It reports the chosen kind and whether it changed the genome.
func (m *Mutator) Mutate(g *Genome) (MutationKind, bool) {
	kind := MutationKind(m.Rand.Intn(numMutationKinds))
	return kind, m.Apply(kind, g)
}

// Apply runs the structural mutation of the given kind once.
func (m *Mutator) Apply(kind MutationKind, g *Genome) bool {
	switch kind {
	case AddLink:
		return m.AddLink(g)
	case AddNeuron:
		return m.AddNeuron(g)
	case RemoveLink:
		return m.RemoveLink(g)
	case RemoveNeuron:
		return m.RemoveNeuron(g)
	default:
		panic(fmt.Sprintf("unknown mutation kind %d", int(kind)))
	}
}

// AddLink attempts to connect a random input/hidden neuron to a random hidden/output neuron.
// An existing link is re-enabled instead, which does not count as a change.
func (m *Mutator) AddLink(g *Genome) bool {
	sources := make([]int, 0, len(g.Neurons))
	targets := make([]int, 0, len(g.Neurons))
	for _, n := range g.Neurons {
		if !g.IsOutput(n.ID) {
			sources = append(sources, n.ID)
		}
		if !g.IsInput(n.ID) {
			targets = append(targets, n.ID)
		}
	}
	if len(sources) == 0 || len(targets) == 0 {
		return false
	}

	id := LinkID{
		InID:  sources[m.Rand.Intn(len(sources))],
		OutID: targets[m.Rand.Intn(len(targets))],
	}

	if existing, ok := g.FindLink(id); ok {
		existing.Enabled = true
		return false
	}

	// Only feed-forward topologies are supported.
	if createsCycle(g.Links, id.InID, id.OutID) {
		return false
	}

	g.Links = append(g.Links, LinkGene{
		ID:      id,
		Weight:  wideValue(m.Rand, m.Config),
		Enabled: true,
	})
	return true
}

// RemoveLink drops a random link, never one of the first NumOutputs links.
func (m *Mutator) RemoveLink(g *Genome) bool {
	if len(g.Links) <= g.NumOutputs {
		return false
	}
	idx := g.NumOutputs + m.Rand.Intn(len(g.Links)-g.NumOutputs)
	g.Links = append(g.Links[:idx], g.Links[idx+1:]...)
	return true
}

// AddNeuron splits a random link with a new hidden neuron.
// The split link is kept enabled unless DisableSplitLink is set.
func (m *Mutator) AddNeuron(g *Genome) bool {
	if len(g.Links) == 0 {
		return false
	}

	split := &g.Links[m.Rand.Intn(len(g.Links))]
	split.Enabled = !m.Config.DisableSplitLink
	splitID, splitWeight := split.ID, split.Weight

	neuron := NeuronGene{
		ID:   nextNeuronID(g),
		Bias: wideValue(m.Rand, m.Config),
	}
	g.Neurons = append(g.Neurons, neuron)

	g.Links = append(g.Links,
		LinkGene{
			ID:      LinkID{InID: splitID.InID, OutID: neuron.ID},
			Weight:  1.0,
			Enabled: true,
		},
		LinkGene{
			ID:      LinkID{InID: neuron.ID, OutID: splitID.OutID},
			Weight:  splitWeight,
			Enabled: true,
		},
	)
	return true
}

// RemoveNeuron deletes a random hidden neuron together with every link touching it.
func (m *Mutator) RemoveNeuron(g *Genome) bool {
	hidden := make([]int, 0, len(g.Neurons))
	for i, n := range g.Neurons {
		if g.IsHidden(n.ID) {
			hidden = append(hidden, i)
		}
	}
	if len(hidden) == 0 {
		return false
	}

	idx := hidden[m.Rand.Intn(len(hidden))]
	id := g.Neurons[idx].ID

	kept := g.Links[:0]
	for _, l := range g.Links {
		if l.ID.InID != id && l.ID.OutID != id {
			kept = append(kept, l)
		}
	}
	g.Links = kept
	g.Neurons = append(g.Neurons[:idx], g.Neurons[idx+1:]...)
	return true
}

// Shift returns value moved by a normally distributed delta and clamped to range.
func (m *Mutator) Shift(value float64) float64 {
	return shiftValue(m.Rand, m.Config, value)
}

// Replace returns a freshly drawn value.
func (m *Mutator) Replace() float64 {
	return initValue(m.Rand, m.Config)
}

// MutateValues perturbs weights, biases and enabled flags according to the configured probabilities.
// It never adds or removes genes. Re-enabling is safe because the full link set is acyclic.
func (m *Mutator) MutateValues(g *Genome) {
	c := m.Config
	for i := range g.Links {
		l := &g.Links[i]
		r := m.Rand.Float64()
		switch {
		case r < c.ShiftWeightProb:
			l.Weight = m.Shift(l.Weight)
		case r < c.ShiftWeightProb+c.RandomWeightProb:
			l.Weight = m.Replace()
		}

		if l.Enabled {
			if m.Rand.Float64() < c.DisableLinkProb {
				l.Enabled = false
			}
		} else if m.Rand.Float64() < c.EnableLinkProb {
			l.Enabled = true
		}
	}

	for i := range g.Neurons {
		n := &g.Neurons[i]
		if g.IsInput(n.ID) {
			continue
		}
		r := m.Rand.Float64()
		switch {
		case r < c.MutationRate:
			n.Bias = m.Shift(n.Bias)
		case r < c.MutationRate+c.ReplaceRate:
			n.Bias = m.Replace()
		}
	}
}

// nextNeuronID returns the id for a new hidden neuron: the neuron count,
// or one past the largest id when removals left the count already taken.
func nextNeuronID(g *Genome) int {
	id := len(g.Neurons)
	if _, taken := g.FindNeuron(id); !taken {
		return id
	}
	for _, n := range g.Neurons {
		if n.ID >= id {
			id = n.ID + 1
		}
	}
	return id
}

// createsCycle reports whether adding inID->outID would close a cycle.
// It walks depth-first from outID over every link, enabled or not.
func createsCycle(links []LinkGene, inID, outID int) bool {
	if inID == outID {
		return true
	}

	visited := make(map[int]bool)
	stack := []int{outID}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[current] {
			continue
		}
		visited[current] = true

		if current == inID {
			return true
		}
		for _, l := range links {
			if l.ID.InID == current {
				stack = append(stack, l.ID.OutID)
			}
		}
	}
	return false
}
