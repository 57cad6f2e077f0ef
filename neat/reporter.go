package neat

import (
	"log/slog"
	"time"
)

// GenerationStats summarizes one evaluated generation.
type GenerationStats struct {
	Generation     int
	Best           *Individual // Copy of the top individual of this generation
	MeanFitness    float64
	StdevFitness   float64
	MinFitness     float64
	MaxFitness     float64
	MeanNeurons    float64
	MeanLinks      float64
	Diversity      float64 // Mean compatibility distance to the best genome
	PopulationSize int
	EvalDuration   time.Duration
	Duration       time.Duration
}

// EvalsPerSecond returns the evaluation throughput of the generation.
func (s GenerationStats) EvalsPerSecond() float64 {
	if s.EvalDuration <= 0 {
		return 0
	}
	return float64(s.PopulationSize) / s.EvalDuration.Seconds()
}

// Reporter receives a summary at the end of every generation.
type Reporter interface {
	EndGeneration(stats GenerationStats)
}

// LogReporter writes one structured log line per generation.
type LogReporter struct {
	Logger *slog.Logger
}

// EndGeneration implements Reporter.
func (r LogReporter) EndGeneration(s GenerationStats) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []any{
		slog.Int("generation", s.Generation),
		slog.Int("population", s.PopulationSize),
		slog.Float64("best_fitness", s.MaxFitness),
		slog.Float64("mean_fitness", s.MeanFitness),
		slog.Float64("stdev_fitness", s.StdevFitness),
		slog.Float64("min_fitness", s.MinFitness),
		slog.Float64("mean_neurons", s.MeanNeurons),
		slog.Float64("mean_links", s.MeanLinks),
		slog.Float64("diversity", s.Diversity),
		slog.Float64("evals_per_sec", s.EvalsPerSecond()),
		slog.Duration("duration", s.Duration),
	}
	if s.Best != nil {
		attrs = append(attrs, slog.Int("best_genome", s.Best.Genome.ID))
	}
	logger.Info("generation finished", attrs...)
}

// computeStats summarizes individuals, which must be sorted with the best first.
func computeStats(individuals []*Individual, compat *CompatibilityConfig) GenerationStats {
	stats := GenerationStats{PopulationSize: len(individuals)}
	if len(individuals) == 0 {
		return stats
	}

	fitnesses := make([]float64, len(individuals))
	neurons := make([]float64, len(individuals))
	links := make([]float64, len(individuals))
	distances := make([]float64, len(individuals))
	best := individuals[0].Genome
	for i, ind := range individuals {
		fitnesses[i] = ind.Fitness
		neurons[i] = float64(len(ind.Genome.Neurons))
		links[i] = float64(len(ind.Genome.Links))
		distances[i] = best.Distance(ind.Genome, compat)
	}

	f := summarize(fitnesses)
	stats.MeanFitness = f.Mean
	stats.StdevFitness = f.Stdev
	stats.MinFitness = f.Min
	stats.MaxFitness = f.Max
	stats.MeanNeurons = summarize(neurons).Mean
	stats.MeanLinks = summarize(links).Mean
	stats.Diversity = summarize(distances).Mean
	return stats
}
