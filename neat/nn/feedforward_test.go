package nn

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baldhumanity/neat-ff/neat"
)

func link(in, out int, weight float64) neat.LinkGene {
	return neat.LinkGene{ID: neat.LinkID{InID: in, OutID: out}, Weight: weight, Enabled: true}
}

func TestActivateHandBuiltNetwork(t *testing.T) {
	// Three inputs feed a single output through weights 1, 2 and 3.
	net := NewFeedForwardNetwork([]int{-1, -2, -3}, []int{0}, []Neuron{
		{ID: 0, Bias: 0, Inputs: []NeuronInput{{InputID: -1, Weight: 1}, {InputID: -2, Weight: 2}, {InputID: -3, Weight: 3}}},
	})
	assert.Equal(t, []float64{14}, net.Activate([]float64{1, 2, 3}))
}

func TestActivateFullyConnectedGenome(t *testing.T) {
	g := &neat.Genome{
		ID:         1,
		NumInputs:  3,
		NumOutputs: 3,
		Neurons: []neat.NeuronGene{
			{ID: 0, Bias: 0}, {ID: 1, Bias: 1}, {ID: 2, Bias: 2},
			{ID: -1}, {ID: -2}, {ID: -3},
		},
	}
	for _, in := range g.InputIDs() {
		for _, out := range g.OutputIDs() {
			g.Links = append(g.Links, link(in, out, 1))
		}
	}
	require.NoError(t, g.Validate())

	net, err := CreateFeedForwardNetwork(g, nil)
	require.NoError(t, err)
	// Each output sums 3+4+5 and adds its own bias.
	assert.Equal(t, []float64{12, 13, 14}, net.Activate([]float64{3, 4, 5}))
}

func TestActivateAppliesHiddenActivation(t *testing.T) {
	g := &neat.Genome{
		ID:         1,
		NumInputs:  1,
		NumOutputs: 1,
		Neurons:    []neat.NeuronGene{{ID: 0}, {ID: -1}, {ID: 1, Bias: -2}},
		Links:      []neat.LinkGene{link(-1, 1, 1), link(1, 0, -1)},
	}

	net, err := CreateFeedForwardNetwork(g, nil)
	require.NoError(t, err)

	// ReLU clips the hidden neuron; the output stays linear.
	assert.Equal(t, []float64{0}, net.Activate([]float64{1}))
	assert.Equal(t, []float64{-3}, net.Activate([]float64{5}))

	cfg := neat.DefaultConfig().Genome
	cfg.HiddenActivation = "identity"
	cfg.OutputActivation = "relu"
	net, err = CreateFeedForwardNetwork(g, &cfg)
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, net.Activate([]float64{1}))
	assert.Equal(t, []float64{0}, net.Activate([]float64{5}))
}

func TestCreateFeedForwardNetworkUnknownActivation(t *testing.T) {
	cfg := neat.DefaultConfig().Genome
	cfg.HiddenActivation = "softplus"
	_, err := CreateFeedForwardNetwork(&neat.Genome{NumInputs: 1, NumOutputs: 1}, &cfg)
	assert.Error(t, err)
}

func TestDisabledLinksAreIgnored(t *testing.T) {
	g := &neat.Genome{
		ID:         1,
		NumInputs:  2,
		NumOutputs: 1,
		Neurons:    []neat.NeuronGene{{ID: 0}, {ID: -1}, {ID: -2}},
		Links:      []neat.LinkGene{link(-1, 0, 1), link(-2, 0, 10)},
	}
	g.Links[1].Enabled = false

	net, err := CreateFeedForwardNetwork(g, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, net.Activate([]float64{2, 2}))
}

func TestUnreachableOutputStaysZero(t *testing.T) {
	g := &neat.Genome{
		ID:         1,
		NumInputs:  1,
		NumOutputs: 2,
		Neurons:    []neat.NeuronGene{{ID: 0}, {ID: 1, Bias: 7}, {ID: -1}},
		Links:      []neat.LinkGene{link(-1, 0, 2)},
	}

	net, err := CreateFeedForwardNetwork(g, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 0}, net.Activate([]float64{2}))
}

func TestActivatePanicsOnInputMismatch(t *testing.T) {
	net := NewFeedForwardNetwork([]int{-1, -2}, []int{0}, nil)
	assert.PanicsWithValue(t,
		"mismatch between input count (1) and network input neurons (2)",
		func() { net.Activate([]float64{1}) })
}

func TestActivatePanicsOnMissingValue(t *testing.T) {
	net := NewFeedForwardNetwork([]int{-1}, []int{0}, []Neuron{
		{ID: 0, Inputs: []NeuronInput{{InputID: 5, Weight: 1}}},
	})
	assert.Panics(t, func() { net.Activate([]float64{1}) })
}

func TestRequiredForOutput(t *testing.T) {
	links := []neat.LinkGene{
		link(-1, 2, 1),
		link(2, 0, 1),
		link(-1, 3, 1), // 3 leads nowhere
		link(4, 2, 1),
	}

	required := RequiredForOutput([]int{-1}, []int{0}, links)
	assert.Equal(t, map[int]bool{0: true, 2: true, 4: true}, required)
}

func TestFeedForwardLayers(t *testing.T) {
	inputs := []int{-1, -2}
	outputs := []int{0, 1}
	links := []neat.LinkGene{
		link(-1, 3, 1),
		link(-2, 2, 1),
		link(3, 4, 1),
		link(2, 0, 1),
		link(4, 0, 1),
		link(-2, 1, 1),
		link(-1, 5, 1), // dead end
	}

	layers := FeedForwardLayers(inputs, outputs, links)
	assert.Equal(t, [][]int{{1, 2, 3}, {4}, {0}}, layers)

	required := RequiredForOutput(inputs, outputs, links)
	seen := make(map[int]bool)
	for _, layer := range layers {
		for _, id := range layer {
			assert.True(t, required[id])
			assert.False(t, seen[id])
			seen[id] = true
		}
	}
	assert.Len(t, seen, len(required))
}

func TestNewGenomeNetworkProducesFiniteOutputs(t *testing.T) {
	cfg := neat.DefaultConfig()
	rng := rand.New(rand.NewSource(1))
	g := neat.NewGenome(neat.NewGenomeIndexer(1), rng, &cfg.Genome)
	m := neat.NewMutator(&cfg.Genome, rng)
	for i := 0; i < 50; i++ {
		m.Mutate(g)
	}

	net, err := CreateFeedForwardNetwork(g, &cfg.Genome)
	require.NoError(t, err)

	outputs := net.Activate([]float64{0.5, 0.5, 0.5})
	require.Len(t, outputs, 3)
	for _, v := range outputs {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
}
