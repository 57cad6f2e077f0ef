// Package metrics exports per-generation evolution statistics as Prometheus metrics.
//
// PrometheusReporter implements neat.Reporter; add it to Population.Reporters and
// serve the registry with promhttp to watch a run from Prometheus or Grafana.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/baldhumanity/neat-ff/neat"
)

const metricsNamespace = "neat"

const evolutionSubsystem = "evolution"

// PrometheusReporter holds the gauges and counters updated after every generation.
type PrometheusReporter struct {
	Generation   prometheus.Gauge
	BestFitness  prometheus.Gauge
	MeanFitness  prometheus.Gauge
	MinFitness   prometheus.Gauge
	MeanNeurons  prometheus.Gauge
	MeanLinks    prometheus.Gauge
	Diversity    prometheus.Gauge
	EvalsTotal   prometheus.Counter
	EvalDuration prometheus.Histogram
}

// NewPrometheusReporter creates the metrics and registers them with reg.
// It panics if a metric with the same name is already registered.
func NewPrometheusReporter(reg prometheus.Registerer) *PrometheusReporter {
	factory := promauto.With(reg)
	gauge := func(name, help string) prometheus.Gauge {
		return factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: evolutionSubsystem,
			Name:      name,
			Help:      help,
		})
	}

	return &PrometheusReporter{
		Generation:  gauge("generation", "Number of evaluated generations"),
		BestFitness: gauge("best_fitness", "Fitness of the best individual of the latest generation"),
		MeanFitness: gauge("mean_fitness", "Mean fitness of the latest generation"),
		MinFitness:  gauge("min_fitness", "Lowest fitness of the latest generation"),
		MeanNeurons: gauge("mean_neurons", "Mean neuron count per genome"),
		MeanLinks:   gauge("mean_links", "Mean link count per genome"),
		Diversity:   gauge("diversity", "Mean compatibility distance to the best genome"),
		EvalsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: evolutionSubsystem,
			Name:      "evaluations_total",
			Help:      "Total number of fitness evaluations",
		}),
		EvalDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: evolutionSubsystem,
			Name:      "eval_duration_seconds",
			Help:      "Wall time spent evaluating one generation",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}
}

// EndGeneration implements neat.Reporter.
func (r *PrometheusReporter) EndGeneration(s neat.GenerationStats) {
	r.Generation.Set(float64(s.Generation))
	r.BestFitness.Set(s.MaxFitness)
	r.MeanFitness.Set(s.MeanFitness)
	r.MinFitness.Set(s.MinFitness)
	r.MeanNeurons.Set(s.MeanNeurons)
	r.MeanLinks.Set(s.MeanLinks)
	r.Diversity.Set(s.Diversity)
	r.EvalsTotal.Add(float64(s.PopulationSize))
	r.EvalDuration.Observe(s.EvalDuration.Seconds())
}
