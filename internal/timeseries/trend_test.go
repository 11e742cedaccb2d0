package timeseries

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitLinearTrend(t *testing.T) {
	tests := []struct {
		name   string
		series []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single point", []float64{7}, 0},
		{"flat", []float64{3, 3, 3, 3}, 0},
		{"unit slope", []float64{1, 2, 3, 4, 5}, 1},
		{"negative", []float64{10, 8, 6, 4}, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, FitLinearTrend(tt.series), 1e-9)
		})
	}
}

func TestSampleVariance(t *testing.T) {
	assert.Zero(t, SampleVariance(nil))
	assert.Zero(t, SampleVariance([]float64{42}))
	assert.Zero(t, SampleVariance([]float64{5, 5, 5}))
	// mean 5, squared deviations 9+1+1+9 = 20, / 3
	assert.InDelta(t, 20.0/3.0, SampleVariance([]float64{2, 4, 6, 8}), 1e-9)
}

func TestMeanAndClamp(t *testing.T) {
	assert.Zero(t, Mean(nil))
	assert.InDelta(t, 2.5, Mean([]float64{1, 2, 3, 4}), 1e-9)

	assert.Equal(t, 0.0, Clamp(-3, 0, 100))
	assert.Equal(t, 100.0, Clamp(130, 0, 100))
	assert.Equal(t, 55.5, Clamp(55.5, 0, 100))
}
