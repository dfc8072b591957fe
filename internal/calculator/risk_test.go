package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnualizedVolatility(t *testing.T) {
	returns := []float64{0.01, -0.01, 0.01, -0.01}

	v, err := AnnualizedVolatility(returns)
	require.NoError(t, err)
	// sample std of ±0.01 over four points
	daily := math.Sqrt(4 * 0.0001 / 3)
	assert.InDelta(t, daily, v.Daily, 1e-12)
	assert.InDelta(t, daily*math.Sqrt(252), v.Annual, 1e-12)
	assert.Equal(t, 4, v.Observations)
	assert.True(t, v.LowConfidence)
}

func TestAnnualizedVolatility_EnoughObservations(t *testing.T) {
	returns := make([]float64, MinVolatilityObservations)
	for i := range returns {
		returns[i] = float64(i%3-1) * 0.02
	}

	v, err := AnnualizedVolatility(returns)
	require.NoError(t, err)
	assert.False(t, v.LowConfidence)
	assert.Greater(t, v.Annual, 0.0)
}

func TestAnnualizedVolatility_TooFew(t *testing.T) {
	_, err := AnnualizedVolatility([]float64{0.1})
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestMaxDrawdown(t *testing.T) {
	tests := []struct {
		name    string
		returns []float64
		want    float64
	}{
		{"rising", []float64{0.01, 0.02, 0, 0.05}, 0},
		{"single drop", []float64{0.10, -0.10}, -0.10},
		{"recovery then deeper drop", []float64{0.5, -0.2, 0.3, -0.5}, -0.5},
		{"first return negative", []float64{-0.2, 0.1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MaxDrawdown(tt.returns)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
			assert.LessOrEqual(t, got, 0.0)
		})
	}
}

func TestMaxDrawdown_Empty(t *testing.T) {
	_, err := MaxDrawdown(nil)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestMaxDrawdown_NeverPositive(t *testing.T) {
	returns := []float64{0.03, -0.07, 0.12, -0.01, -0.04, 0.09, -0.15, 0.02}
	for i := 1; i <= len(returns); i++ {
		got, err := MaxDrawdown(returns[:i])
		require.NoError(t, err)
		assert.LessOrEqual(t, got, 0.0)
	}
}

func TestSharpeRatio(t *testing.T) {
	got, err := SharpeRatio([]float64{0.01, 0.03})
	require.NoError(t, err)
	// mean 0.02, sample std sqrt(0.0002)
	assert.InDelta(t, 0.02/math.Sqrt(0.0002), got, 1e-9)

	_, err = SharpeRatio([]float64{0.25, 0.25, 0.25})
	assert.ErrorIs(t, err, ErrDivisionByZero)

	_, err = SharpeRatio([]float64{0.01})
	assert.ErrorIs(t, err, ErrInsufficientData)
}
