// Package stats holds the quantile helper shared by the batch stages.
// gonum's Quantile cumulant kinds interpolate over the empirical CDF, which
// is not the closest-rank linear interpolation the price quartiles and
// medians here are defined on.
package stats

import "math"

// Quantile returns the p-th quantile of a sorted sample, linearly
// interpolating between closest ranks.
func Quantile(p float64, sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}

	h := p * float64(n-1)
	i := int(math.Floor(h))
	if i >= n-1 {
		return sorted[n-1]
	}
	return sorted[i] + (h-float64(i))*(sorted[i+1]-sorted[i])
}

// Median returns the middle value of a sorted sample.
func Median(sorted []float64) float64 {
	return Quantile(0.5, sorted)
}
