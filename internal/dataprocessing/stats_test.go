package dataprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantile(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		p      float64
		want   float64
	}{
		{"first quartile", []float64{1, 2, 3, 4}, 0.25, 1.75},
		{"median even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"third quartile", []float64{1, 2, 3, 4}, 0.75, 3.25},
		{"minimum", []float64{1, 2, 3, 4}, 0, 1},
		{"maximum", []float64{1, 2, 3, 4}, 1, 4},
		{"single value", []float64{5}, 0.25, 5},
		{"exact rank", []float64{10, 11, 12, 13, 1000}, 0.25, 11},
		{"exact rank upper", []float64{10, 11, 12, 13, 1000}, 0.75, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Quantile(tt.values, tt.p), 1e-12)
		})
	}

	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}

func TestMean(t *testing.T) {
	mean, n := Mean([]float64{2, math.NaN(), 4})
	assert.Equal(t, 3.0, mean)
	assert.Equal(t, 2, n)

	mean, n = Mean([]float64{math.NaN()})
	assert.True(t, math.IsNaN(mean))
	assert.Zero(t, n)
}

func TestComputeBounds(t *testing.T) {
	b := ComputeBounds([]float64{10, 12, 11, 13, 1000}, 0.25, 0.75, 1.5)

	assert.True(t, b.Valid)
	assert.Equal(t, 11.0, b.Q1)
	assert.Equal(t, 13.0, b.Q3)
	assert.Equal(t, 2.0, b.IQR)
	assert.Equal(t, 8.0, b.Lower)
	assert.Equal(t, 16.0, b.Upper)
	assert.False(t, b.Contains(1000))
	assert.True(t, b.Contains(16))
	assert.True(t, b.Contains(8))

	// Missing values are ignored and input order does not matter
	b = ComputeBounds([]float64{math.NaN(), 4, 1, 3, 2}, 0.25, 0.75, 1.5)
	assert.InDelta(t, 1.75, b.Q1, 1e-12)
	assert.InDelta(t, 3.25, b.Q3, 1e-12)

	assert.False(t, ComputeBounds([]float64{math.NaN()}, 0.25, 0.75, 1.5).Valid)
	assert.False(t, ComputeBounds(nil, 0.25, 0.75, 1.5).Valid)
}
