package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/baldhumanity/neat-ff/neat"
)

func TestPrometheusReporterEndGeneration(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewPrometheusReporter(reg)

	r.EndGeneration(neat.GenerationStats{
		Generation:     3,
		MaxFitness:     120,
		MeanFitness:    40,
		MinFitness:     2,
		MeanNeurons:    7.5,
		MeanLinks:      12,
		Diversity:      0.25,
		PopulationSize: 50,
		EvalDuration:   200 * time.Millisecond,
	})

	assert.Equal(t, 3.0, testutil.ToFloat64(r.Generation))
	assert.Equal(t, 120.0, testutil.ToFloat64(r.BestFitness))
	assert.Equal(t, 40.0, testutil.ToFloat64(r.MeanFitness))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.MinFitness))
	assert.Equal(t, 7.5, testutil.ToFloat64(r.MeanNeurons))
	assert.Equal(t, 12.0, testutil.ToFloat64(r.MeanLinks))
	assert.Equal(t, 0.25, testutil.ToFloat64(r.Diversity))
	assert.Equal(t, 50.0, testutil.ToFloat64(r.EvalsTotal))
}

func TestPrometheusReporterAccumulatesEvaluations(t *testing.T) {
	r := NewPrometheusReporter(prometheus.NewRegistry())

	for gen := 1; gen <= 4; gen++ {
		r.EndGeneration(neat.GenerationStats{Generation: gen, PopulationSize: 10})
	}

	assert.Equal(t, 4.0, testutil.ToFloat64(r.Generation))
	assert.Equal(t, 40.0, testutil.ToFloat64(r.EvalsTotal))
}

func TestNewPrometheusReporterRegistersMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheusReporter(reg)

	count, err := testutil.GatherAndCount(reg)
	assert.NoError(t, err)
	assert.Equal(t, 9, count)

	assert.Panics(t, func() { NewPrometheusReporter(reg) })
}
