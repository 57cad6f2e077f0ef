package neat

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Genome describes a feed-forward network as ordered lists of neuron and link genes.
// Neurons and links refer to each other by id only.
type Genome struct {
	ID         int          `json:"id"`
	NumInputs  int          `json:"num_inputs"`
	NumOutputs int          `json:"num_outputs"`
	Neurons    []NeuronGene `json:"neurons"`
	Links      []LinkGene   `json:"links"`
}

// NewGenome creates a genome with every input connected to every output.
// Output neurons come first (ids 0..NumOutputs-1), followed by the inputs (ids -1..-NumInputs).
func NewGenome(indexer *GenomeIndexer, rng *rand.Rand, config *GenomeConfig) *Genome {
	g := &Genome{
		ID:         indexer.Next(),
		NumInputs:  config.NumInputs,
		NumOutputs: config.NumOutputs,
		Neurons:    make([]NeuronGene, 0, config.NumInputs+config.NumOutputs),
		Links:      make([]LinkGene, 0, config.NumInputs*config.NumOutputs),
	}

	for i := 0; i < config.NumOutputs; i++ {
		g.Neurons = append(g.Neurons, NeuronGene{ID: i, Bias: initValue(rng, config)})
	}

	for i := 0; i < config.NumInputs; i++ {
		inputID := -i - 1
		g.Neurons = append(g.Neurons, NeuronGene{ID: inputID, Bias: initValue(rng, config)})
		for outputID := 0; outputID < config.NumOutputs; outputID++ {
			g.Links = append(g.Links, LinkGene{
				ID:      LinkID{InID: inputID, OutID: outputID},
				Weight:  initValue(rng, config),
				Enabled: true,
			})
		}
	}
	return g
}

// FindNeuron returns the neuron gene with the given id, if present.
func (g *Genome) FindNeuron(id int) (*NeuronGene, bool) {
	for i := range g.Neurons {
		if g.Neurons[i].ID == id {
			return &g.Neurons[i], true
		}
	}
	return nil, false
}

// FindLink returns the link gene with the given id, if present.
func (g *Genome) FindLink(id LinkID) (*LinkGene, bool) {
	for i := range g.Links {
		if g.Links[i].ID == id {
			return &g.Links[i], true
		}
	}
	return nil, false
}

// InputIDs returns the input neuron ids: -1, -2, ..., -NumInputs.
func (g *Genome) InputIDs() []int {
	ids := make([]int, g.NumInputs)
	for i := range ids {
		ids[i] = -i - 1
	}
	return ids
}

// OutputIDs returns the output neuron ids: 0, 1, ..., NumOutputs-1.
func (g *Genome) OutputIDs() []int {
	ids := make([]int, g.NumOutputs)
	for i := range ids {
		ids[i] = i
	}
	return ids
}

// IsInput reports whether id is reserved for an input neuron.
func (g *Genome) IsInput(id int) bool {
	return id < 0 && id >= -g.NumInputs
}

// IsOutput reports whether id is reserved for an output neuron.
func (g *Genome) IsOutput(id int) bool {
	return id >= 0 && id < g.NumOutputs
}

// IsHidden reports whether id belongs to a hidden neuron.
func (g *Genome) IsHidden(id int) bool {
	return id >= g.NumOutputs
}

// Clone creates a deep copy of the genome, keeping its id.
func (g *Genome) Clone() *Genome {
	c := &Genome{
		ID:         g.ID,
		NumInputs:  g.NumInputs,
		NumOutputs: g.NumOutputs,
		Neurons:    make([]NeuronGene, len(g.Neurons)),
		Links:      make([]LinkGene, len(g.Links)),
	}
	copy(c.Neurons, g.Neurons)
	copy(c.Links, g.Links)
	return c
}

// String returns a short summary of the genome.
func (g *Genome) String() string {
	enabled := 0
	for _, l := range g.Links {
		if l.Enabled {
			enabled++
		}
	}
	return fmt.Sprintf("Genome(ID: %d, Inputs: %d, Outputs: %d, Neurons: %d, Links: %d/%d enabled)",
		g.ID, g.NumInputs, g.NumOutputs, len(g.Neurons), enabled, len(g.Links))
}

// Validate checks the structural invariants of a genome that was not produced by
// the operators in this package, e.g. one decoded from a file.
func (g *Genome) Validate() error {
	if g.NumInputs <= 0 || g.NumOutputs <= 0 {
		return fmt.Errorf("genome %d: invalid arity %d->%d", g.ID, g.NumInputs, g.NumOutputs)
	}

	// Map neuron ids onto dense graph node ids.
	nodeIDs := make(map[int]int64, len(g.Neurons))
	for _, n := range g.Neurons {
		if _, dup := nodeIDs[n.ID]; dup {
			return fmt.Errorf("genome %d: duplicate neuron %d", g.ID, n.ID)
		}
		nodeIDs[n.ID] = int64(len(nodeIDs))
	}
	for _, id := range append(g.InputIDs(), g.OutputIDs()...) {
		if _, ok := nodeIDs[id]; !ok {
			return fmt.Errorf("genome %d: missing reserved neuron %d", g.ID, id)
		}
	}

	dg := simple.NewDirectedGraph()
	for _, nid := range nodeIDs {
		dg.AddNode(simple.Node(nid))
	}
	seen := make(map[LinkID]bool, len(g.Links))
	for _, l := range g.Links {
		if seen[l.ID] {
			return fmt.Errorf("genome %d: duplicate link %d->%d", g.ID, l.ID.InID, l.ID.OutID)
		}
		seen[l.ID] = true
		from, okFrom := nodeIDs[l.ID.InID]
		to, okTo := nodeIDs[l.ID.OutID]
		if !okFrom || !okTo {
			return fmt.Errorf("genome %d: link %d->%d references a missing neuron", g.ID, l.ID.InID, l.ID.OutID)
		}
		if from == to {
			return fmt.Errorf("genome %d: self link on neuron %d", g.ID, l.ID.InID)
		}
		if g.IsInput(l.ID.OutID) {
			return fmt.Errorf("genome %d: link %d->%d targets an input", g.ID, l.ID.InID, l.ID.OutID)
		}
		if l.Enabled {
			dg.SetEdge(dg.NewEdge(dg.Node(from), dg.Node(to)))
		}
	}

	if _, err := topo.Sort(dg); err != nil {
		var cycles topo.Unorderable
		if errors.As(err, &cycles) {
			return fmt.Errorf("genome %d: enabled links contain %d cycle(s)", g.ID, len(cycles))
		}
		return fmt.Errorf("genome %d: %w", g.ID, err)
	}
	return nil
}

// Distance calculates the compatibility distance between this genome and another.
// Non-matching neurons count as excess, non-matching links as disjoint,
// and matching links contribute their mean weight difference.
func (g *Genome) Distance(other *Genome, config *CompatibilityConfig) float64 {
	excess := 0
	for _, n := range g.Neurons {
		if _, ok := other.FindNeuron(n.ID); !ok {
			excess++
		}
	}
	for _, n := range other.Neurons {
		if _, ok := g.FindNeuron(n.ID); !ok {
			excess++
		}
	}

	disjoint := 0
	matching := 0
	weightDiffSum := 0.0
	for _, l := range g.Links {
		if ol, ok := other.FindLink(l.ID); ok {
			weightDiffSum += math.Abs(l.Weight - ol.Weight)
			matching++
		} else {
			disjoint++
		}
	}
	for _, l := range other.Links {
		if _, ok := g.FindLink(l.ID); !ok {
			disjoint++
		}
	}

	n := float64(max(len(g.Links), len(other.Links)))
	if n < 1.0 {
		n = 1.0
	}
	distance := (config.C1Excess*float64(excess) + config.C2Disjoint*float64(disjoint)) / n
	if matching > 0 {
		distance += config.C3Weight * weightDiffSum / float64(matching)
	}
	return distance
}
