package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovingAverage_WindowTwo(t *testing.T) {
	s := closeSeries(t, "NVDA", 100, 110, 99)

	got, err := MovingAverage(s, 2)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.False(t, got[0].Valid)
	assert.InDelta(t, 105.0, got[1].Float64, 1e-12)
	assert.InDelta(t, 104.5, got[2].Float64, 1e-12)
}

func TestMovingAverage_WindowOneIsClose(t *testing.T) {
	s := closeSeries(t, "AAPL", 187.2, 185.6, 190.1, 191.0, 176.4)

	got, err := MovingAverage(s, 1)
	require.NoError(t, err)
	for i, c := range s.Closes() {
		assert.True(t, got[i].Valid)
		assert.Equal(t, c, got[i].Float64)
	}
}

func TestMovingAverage_InvalidWindow(t *testing.T) {
	s := closeSeries(t, "NVDA", 100, 110, 99)

	for _, w := range []int{0, -1, 4} {
		_, err := MovingAverage(s, w)
		assert.ErrorIs(t, err, ErrInvalidWindow, "window %d", w)
	}
}

func TestLatestMovingAverage(t *testing.T) {
	s := closeSeries(t, "NVDA", 1, 2, 3, 4, 5)

	got, err := LatestMovingAverage(s, 5)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got)

	_, err = CalculateSMA(nil, 1)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}
