package timeseries

import (
	"errors"
	"math"
	"slices"

	"github.com/montanaflynn/stats"
)

// ErrEmptySeries is returned when no finite values remain after filtering.
var ErrEmptySeries = errors.New("series has no valid values")

type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

type Variability string

const (
	VariabilityLow    Variability = "low"
	VariabilityMedium Variability = "medium"
	VariabilityHigh   Variability = "high"
	// VariabilityUndefined is reported when the mean is zero and the
	// coefficient of variation has no value.
	VariabilityUndefined Variability = "undefined"
)

const (
	trendThreshold = 0.01
	cvLow          = 0.1
	cvMedium       = 0.3
)

// Statistics summarizes one index across a series.
type Statistics struct {
	Mean        float64     `json:"mean"`
	Median      float64     `json:"median"`
	Min         float64     `json:"min"`
	Max         float64     `json:"max"`
	StdDev      float64     `json:"stdDev"`
	Count       int         `json:"count"`
	Slope       float64     `json:"slope"`
	Trend       Trend       `json:"trend"`
	Variability Variability `json:"variability"`
}

// Finite drops NaN and infinite values, keeping order.
func Finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Summarize computes descriptive statistics over the finite entries of
// values. Trend positions are indices into the filtered slice.
func Summarize(values []float64) (Statistics, error) {
	data := stats.Float64Data(Finite(values))
	if data.Len() == 0 {
		return Statistics{}, ErrEmptySeries
	}

	mean, err := stats.Mean(data)
	if err != nil {
		return Statistics{}, err
	}
	minV, err := stats.Min(data)
	if err != nil {
		return Statistics{}, err
	}
	maxV, err := stats.Max(data)
	if err != nil {
		return Statistics{}, err
	}
	sd, err := stats.StandardDeviationPopulation(data)
	if err != nil {
		return Statistics{}, err
	}

	slope := Slope(data)
	return Statistics{
		Mean:        mean,
		Median:      Median(data),
		Min:         minV,
		Max:         maxV,
		StdDev:      sd,
		Count:       data.Len(),
		Slope:       slope,
		Trend:       ClassifyTrend(slope),
		Variability: ClassifyVariability(sd, mean),
	}, nil
}

// Median returns sorted[n/2]. For even n that is the upper of the two
// middle values; they are not averaged.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return sorted[len(sorted)/2]
}

// Slope fits an ordinary least squares line to (i, values[i]) and returns
// its slope. Fewer than two values give 0.
func Slope(values []float64) float64 {
	n := float64(len(values))
	if n < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	den := n*sumXX - sumX*sumX
	if den == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / den
}

// ClassifyTrend uses a fixed absolute slope threshold, independent of the
// index's value range.
func ClassifyTrend(slope float64) Trend {
	switch {
	case slope > trendThreshold:
		return TrendIncreasing
	case slope < -trendThreshold:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// ClassifyVariability buckets the coefficient of variation stdDev/mean. The
// mean keeps its sign, so a series with a negative mean always reads low.
func ClassifyVariability(stdDev, mean float64) Variability {
	if mean == 0 {
		return VariabilityUndefined
	}
	cv := stdDev / mean
	switch {
	case cv < cvLow:
		return VariabilityLow
	case cv < cvMedium:
		return VariabilityMedium
	default:
		return VariabilityHigh
	}
}
