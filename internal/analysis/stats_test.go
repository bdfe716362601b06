package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		input    []float64
		expected float64
	}{
		{name: "empty", input: nil, expected: 0},
		{name: "single", input: []float64{5}, expected: 5},
		{name: "simple", input: []float64{1, 2, 3, 4}, expected: 2.5},
		{name: "negative", input: []float64{-2, 2}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, mean(tt.input), 1e-12)
		})
	}
}

func TestVariance(t *testing.T) {
	tests := []struct {
		name     string
		input    []float64
		expected float64
	}{
		{name: "empty", input: nil, expected: 0},
		{name: "constant", input: []float64{3, 3, 3, 3}, expected: 0},
		{name: "spread", input: []float64{2, 4, 4, 4, 5, 5, 7, 9}, expected: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, variance(tt.input), 1e-9)
		})
	}
}

func TestPercentile(t *testing.T) {
	values := []float64{15, 20, 35, 40, 50}

	tests := []struct {
		name     string
		p        float64
		expected float64
	}{
		{name: "min", p: 0, expected: 15},
		{name: "max", p: 1, expected: 50},
		{name: "median", p: 0.5, expected: 35},
		{name: "q1_interpolated", p: 0.25, expected: 20},
		{name: "q3_interpolated", p: 0.75, expected: 40},
		{name: "between_ranks", p: 0.4, expected: 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, percentile(values, tt.p), 1e-9)
		})
	}
}

func TestPercentileDoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	percentile(values, 0.5)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestSkewness(t *testing.T) {
	t.Run("constant_is_zero", func(t *testing.T) {
		assert.Zero(t, skewness([]float64{5, 5, 5, 5}))
	})

	t.Run("too_few_values", func(t *testing.T) {
		assert.Zero(t, skewness([]float64{1, 2}))
	})

	t.Run("right_tail_positive", func(t *testing.T) {
		assert.Positive(t, skewness([]float64{1, 1, 1, 2, 2, 3, 100}))
	})

	t.Run("left_tail_negative", func(t *testing.T) {
		assert.Negative(t, skewness([]float64{-100, 1, 2, 2, 3, 3, 3}))
	})

	t.Run("symmetric_near_zero", func(t *testing.T) {
		assert.InDelta(t, 0, skewness([]float64{1, 2, 3, 4, 5}), 1e-9)
	})
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, clamp(-0.5, 0, 1))
	assert.Equal(t, 1.0, clamp(1.5, 0, 1))
	assert.Equal(t, 0.7, clamp(0.7, 0, 1))
}
