package neat

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	assert.Equal(t, summary{}, summarize(nil))
	assert.Equal(t, summary{Mean: 4, Min: 4, Max: 4}, summarize([]float64{4}))

	s := summarize([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 5.0, s.Mean, 1e-12)
	assert.InDelta(t, 2.138089935, s.Stdev, 1e-9)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 9.0, s.Max)
}

func TestComputeStats(t *testing.T) {
	compat := &DefaultConfig().Compatibility
	best := newTestGenome(1, 2, 1)
	bigger := best.Clone()
	bigger.Neurons = append(bigger.Neurons, NeuronGene{ID: 3})
	bigger.Links = append(bigger.Links,
		LinkGene{ID: LinkID{InID: -1, OutID: 3}, Weight: 1, Enabled: true},
		LinkGene{ID: LinkID{InID: 3, OutID: 0}, Weight: 1, Enabled: true},
	)

	stats := computeStats([]*Individual{
		{Genome: best, Fitness: 9},
		{Genome: bigger, Fitness: 3},
	}, compat)

	assert.Equal(t, 2, stats.PopulationSize)
	assert.Equal(t, 9.0, stats.MaxFitness)
	assert.Equal(t, 3.0, stats.MinFitness)
	assert.Equal(t, 6.0, stats.MeanFitness)
	assert.Equal(t, 3.5, stats.MeanNeurons)
	assert.Equal(t, 3.0, stats.MeanLinks)
	assert.InDelta(t, best.Distance(bigger, compat)/2, stats.Diversity, 1e-12)

	assert.Equal(t, GenerationStats{}, computeStats(nil, compat))
}

func TestEvalsPerSecond(t *testing.T) {
	assert.Zero(t, GenerationStats{PopulationSize: 10}.EvalsPerSecond())
	assert.Equal(t, 20.0, GenerationStats{PopulationSize: 10, EvalDuration: 500 * time.Millisecond}.EvalsPerSecond())
}

func TestLogReporter(t *testing.T) {
	var buf bytes.Buffer
	r := LogReporter{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	r.EndGeneration(GenerationStats{
		Generation:     4,
		Best:           &Individual{Genome: &Genome{ID: 17}, Fitness: 12},
		MaxFitness:     12,
		PopulationSize: 8,
	})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "generation finished", entry["msg"])
	assert.Equal(t, 4.0, entry["generation"])
	assert.Equal(t, 12.0, entry["best_fitness"])
	assert.Equal(t, 17.0, entry["best_genome"])
}
