package neat

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// clamp restricts a value to a given range [minVal, maxVal].
func clamp(value, minVal, maxVal float64) float64 {
	return math.Max(minVal, math.Min(value, maxVal))
}

// summary holds descriptive statistics of a sample.
type summary struct {
	Mean  float64
	Stdev float64
	Min   float64
	Max   float64
}

// summarize computes mean, sample standard deviation, min and max of values.
// An empty sample yields the zero summary.
func summarize(values []float64) summary {
	if len(values) == 0 {
		return summary{}
	}
	s := summary{
		Min: floats.Min(values),
		Max: floats.Max(values),
	}
	if len(values) < 2 {
		s.Mean = values[0]
		return s
	}
	s.Mean, s.Stdev = stat.MeanStdDev(values, nil)
	return s
}
