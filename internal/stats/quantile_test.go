package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}

	assert.Equal(t, 1.0, Quantile(0, sorted))
	assert.Equal(t, 2.0, Quantile(0.25, sorted))
	assert.Equal(t, 3.0, Quantile(0.5, sorted))
	assert.Equal(t, 4.0, Quantile(0.75, sorted))
	assert.Equal(t, 5.0, Quantile(1, sorted))
}

func TestQuantileInterpolates(t *testing.T) {
	sorted := []float64{10, 20, 30, 40}

	assert.Equal(t, 17.5, Quantile(0.25, sorted))
	assert.Equal(t, 25.0, Quantile(0.5, sorted))
	assert.Equal(t, 32.5, Quantile(0.75, sorted))
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 2.0, Median([]float64{1, 2, 3}))
	assert.Equal(t, 2.5, Median([]float64{1, 2, 3, 4}))
	assert.Equal(t, 7.0, Median([]float64{7}))
	assert.True(t, math.IsNaN(Median(nil)))
}
