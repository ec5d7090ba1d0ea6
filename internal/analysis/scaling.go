package analysis

import (
	"math"
	"sort"
)

// MinMaxScale normalizes values into [0,1]. When every value ties
// (max == min) the fixed midpoint is assigned to all of them instead of
// dividing by zero.
func MinMaxScale(values []float64) []float64 {
	n := len(values)
	if n == 0 {
		return nil
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	scaled := make([]float64, n)
	if max == min {
		for i := range scaled {
			scaled[i] = MidpointScore
		}
		return scaled
	}

	span := max - min
	for i, v := range values {
		scaled[i] = (v - min) / span
	}
	return scaled
}

// PercentileRank normalizes values into [0,1] by rank: each value scores
// the count of values strictly below it over n-1, and the ranks are then
// rescaled so the minimum maps to exactly 0 and the maximum, ties
// included, to exactly 1. Tied values share a score. A fully tied set
// degenerates to the fixed midpoint for every value.
func PercentileRank(values []float64) []float64 {
	n := len(values)
	if n == 0 {
		return nil
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if sorted[0] == sorted[n-1] {
		ranks := make([]float64, n)
		for i := range ranks {
			ranks[i] = MidpointScore
		}
		return ranks
	}

	ranks := make([]float64, n)
	maxRank := 0.0
	for i, v := range values {
		// Number of values strictly below v.
		below := sort.SearchFloat64s(sorted, v)
		ranks[i] = float64(below) / float64(n-1)
		if ranks[i] > maxRank {
			maxRank = ranks[i]
		}
	}

	// A tied maximum group has fewer values strictly below it than n-1,
	// which would pull the cheapest suppliers off the top of the scale.
	// Rescaling by the observed maximum pins the extremes to 0 and 1.
	for i := range ranks {
		ranks[i] /= maxRank
	}
	return ranks
}

// Quantile returns the value at the given fraction of the distribution
// using linear interpolation between order statistics.
func Quantile(values []float64, q float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}

	index := q * float64(n-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Median returns the middle order statistic, 0 for an empty slice.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// StdDev returns the sample standard deviation, 0 when fewer than two
// observations exist.
func StdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}

	mean := Mean(values)
	sumSquared := 0.0
	for _, v := range values {
		d := v - mean
		sumSquared += d * d
	}
	return math.Sqrt(sumSquared / float64(n-1))
}

// sanitize replaces NaN and Inf with 0 so no degenerate float reaches a
// client-visible field.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
