package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRSI(t *testing.T) {
	up := closeSeries(t, "NVDA", 1, 2, 3, 4, 5, 6)
	v, err := RSI(up, 3)
	require.NoError(t, err)
	assert.Equal(t, 100.0, v)

	down := closeSeries(t, "NVDA", 6, 5, 4, 3, 2, 1)
	v, err = RSI(down, 3)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	balanced := closeSeries(t, "NVDA", 10, 11, 10)
	v, err = RSI(balanced, 2)
	require.NoError(t, err)
	assert.InDelta(t, 50, v, 1e-9)

	_, err = RSI(balanced, 3)
	assert.ErrorIs(t, err, ErrInsufficientData)
	_, err = RSI(balanced, 0)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestSupportResistance(t *testing.T) {
	s := barSeries(t, "IBM",
		ohlcv(0, 100, 130, 70, 100, 1),
		ohlcv(1, 100, 104, 96, 100, 1),
		ohlcv(2, 100, 108, 98, 100, 1),
	)

	sup, res, err := SupportResistance(s, 2)
	require.NoError(t, err)
	assert.Equal(t, 96.0, sup)
	assert.Equal(t, 108.0, res)

	// lookback longer than the series covers every bar
	sup, res, err = SupportResistance(s, 50)
	require.NoError(t, err)
	assert.Equal(t, 70.0, sup)
	assert.Equal(t, 130.0, res)

	_, _, err = SupportResistance(s, 0)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestExtremes(t *testing.T) {
	s := barSeries(t, "IBM",
		ohlcv(0, 100, 101, 99, 100, 1),
		ohlcv(1, 100, 120, 95, 100, 1),
		ohlcv(2, 100, 110, 90, 100, 1),
	)
	high, low := Extremes(s)
	assert.Equal(t, 120.0, high.Price)
	assert.Equal(t, s.Bar(1).Date, high.Bar.Date)
	assert.Equal(t, 90.0, low.Price)
	assert.Equal(t, s.Bar(2).Date, low.Bar.Date)
}

func TestRangePosition(t *testing.T) {
	v, err := RangePosition(105, 110, 100)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, v, 1e-12)

	v, err = RangePosition(120, 110, 100)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	v, err = RangePosition(90, 110, 100)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	_, err = RangePosition(100, 100, 100)
	assert.ErrorIs(t, err, ErrDivisionByZero)

	_, err = RangePosition(100, 90, 110)
	assert.Error(t, err)
}
