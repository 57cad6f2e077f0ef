package neat

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpointRoundTrip(t *testing.T) {
	dir := t.TempDir()
	configPath := writeConfig(t, "[NEAT]\npop_size = 12\n")
	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	p, err := NewPopulation(cfg, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	p.Populate()
	_, err = p.Run(context.Background(), linkCount, 3)
	require.NoError(t, err)

	path := filepath.Join(dir, "run.gz")
	require.NoError(t, p.SaveCheckpoint(path))

	loaded, err := LoadCheckpoint(path, configPath, rand.New(rand.NewSource(2)))
	require.NoError(t, err)

	assert.Equal(t, p.RunID, loaded.RunID)
	assert.Equal(t, p.Generation, loaded.Generation)
	assert.Equal(t, p.Individuals, loaded.Individuals)
	assert.Equal(t, p.Best, loaded.Best)
	assert.Equal(t, p.Champion, loaded.Champion)
	assert.Equal(t, p.Indexer.Peek(), loaded.Indexer.Peek())

	// A resumed run keeps issuing fresh ids.
	next := loaded.Reproduce()
	for _, ind := range next {
		assert.GreaterOrEqual(t, ind.Genome.ID, p.Indexer.Peek())
	}
}

func TestLoadCheckpointErrors(t *testing.T) {
	dir := t.TempDir()
	configPath := writeConfig(t, "[NEAT]\npop_size = 5\n")

	_, err := LoadCheckpoint(filepath.Join(dir, "missing.gz"), configPath, nil)
	assert.Error(t, err)

	garbage := filepath.Join(dir, "garbage.gz")
	require.NoError(t, os.WriteFile(garbage, []byte("not gzip"), 0o644))
	_, err = LoadCheckpoint(garbage, configPath, nil)
	assert.Error(t, err)

	_, err = LoadCheckpoint(garbage, filepath.Join(dir, "missing.ini"), nil)
	assert.ErrorContains(t, err, "config")
}

func TestSaveAndLoadGenome(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genome.gz")
	g := newTestGenome(4, 3, 3)
	NewMutator(testGenomeConfig(3, 3), rand.New(rand.NewSource(4))).AddNeuron(g)

	require.NoError(t, SaveGenome(g, path))
	loaded, err := LoadGenome(path)
	require.NoError(t, err)
	assert.Equal(t, g, loaded)
}

func TestLoadGenomeRejectsInvalidGenome(t *testing.T) {
	path := filepath.Join(t.TempDir(), "genome.gz")
	g := newTestGenome(4, 2, 2)
	g.Neurons = append(g.Neurons, NeuronGene{ID: 2})
	g.Links = append(g.Links,
		LinkGene{ID: LinkID{InID: 0, OutID: 2}, Enabled: true},
		LinkGene{ID: LinkID{InID: 2, OutID: 0}, Enabled: true},
	)
	require.NoError(t, SaveGenome(g, path))

	_, err := LoadGenome(path)
	assert.ErrorContains(t, err, "cycle")
}

func TestSaveAndLoadIndividual(t *testing.T) {
	path := filepath.Join(t.TempDir(), "best.gz")
	ind := &Individual{Genome: newTestGenome(5, 3, 3), Fitness: 321.5}

	require.NoError(t, SaveIndividual(ind, path))
	loaded, err := LoadIndividual(path)
	require.NoError(t, err)
	assert.Equal(t, ind, loaded)
}
