package analysis

import (
	"math"
	"sort"
)

// mean computes the average of a slice
func mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}

// variance computes the population variance in a single pass
func variance(x []float64) float64 {
	n := float64(len(x))
	if n == 0 {
		return 0
	}
	sum, sumSq := 0.0, 0.0
	for _, v := range x {
		sum += v
		sumSq += v * v
	}
	m := sum / n
	v := (sumSq / n) - (m * m)
	if v < 0 {
		// Rounding can push a zero variance slightly negative
		return 0
	}
	return v
}

// stdDev computes the population standard deviation
func stdDev(x []float64) float64 {
	return math.Sqrt(variance(x))
}

// percentile computes the p-th percentile (0..1) with linear interpolation
// between closest ranks. The input does not need to be sorted.
func percentile(x []float64, p float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)
	return percentileSorted(sorted, p)
}

// percentileSorted is percentile over an already sorted slice
func percentileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	rank := p * float64(n-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// skewness computes the moment coefficient of skewness. Returns 0 for
// constant or near-empty slices.
func skewness(x []float64) float64 {
	if len(x) < 3 {
		return 0
	}
	m := mean(x)
	sd := stdDev(x)
	if sd == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range x {
		d := (v - m) / sd
		sum += d * d * d
	}
	return sum / float64(len(x))
}

// clamp bounds v to [lo, hi]
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
