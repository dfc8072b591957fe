package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExcessReturn(t *testing.T) {
	stock := closeSeries(t, "NVDA", 100, 110, 121)
	bench := closeSeries(t, "SPY", 100, 100, 105)

	// diffs: 0.10, 0.10 - 0.05
	got, err := ExcessReturn(stock, bench)
	require.NoError(t, err)
	assert.InDelta(t, 1.10*1.05-1, got, 1e-12)
}

func TestExcessReturn_InnerJoin(t *testing.T) {
	stock := closeSeries(t, "NVDA", 100, 110, 121, 133.1)
	// benchmark starts one day later; only returns on days 2 and 3 align
	bench := offsetSeries(t, "SPY", 1, 200, 200, 200)

	sum, err := ExcessStats(stock, bench)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Days)
	assert.InDelta(t, 0.10, sum.Mean, 1e-12)
	assert.InDelta(t, 1.1*1.1-1, sum.Cumulative, 1e-12)
}

func TestExcessReturn_NoOverlap(t *testing.T) {
	stock := closeSeries(t, "NVDA", 100, 110, 99)
	bench := offsetSeries(t, "SPY", 100, 400, 401, 402)

	_, err := ExcessReturn(stock, bench)
	assert.ErrorIs(t, err, ErrNoOverlap)

	// one shared day is still no overlapping return
	_, err = ExcessReturn(stock, offsetSeries(t, "SPY", 2, 400, 401))
	assert.ErrorIs(t, err, ErrNoOverlap)
}

func TestCorrelation_Self(t *testing.T) {
	s := closeSeries(t, "AAPL", 100, 103, 101, 108, 104, 110)

	got, err := Correlation(s, s)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-12)
}

func TestCorrelation_Inverse(t *testing.T) {
	a := closeSeries(t, "A", 100, 110, 99, 108.9)
	b := closeSeries(t, "B", 100, 90, 99, 89.1)

	got, err := Correlation(a, b)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, got, 1e-9)
	assert.GreaterOrEqual(t, got, -1.0)
}

func TestCorrelation_InsufficientOverlap(t *testing.T) {
	a := closeSeries(t, "A", 100, 110, 99)
	b := offsetSeries(t, "B", 1, 50, 55)

	_, err := Correlation(a, b)
	assert.ErrorIs(t, err, ErrInsufficientOverlap)
}

func TestCorrelation_ConstantSeries(t *testing.T) {
	a := closeSeries(t, "A", 100, 100, 100, 100)
	b := closeSeries(t, "B", 100, 110, 99, 108.9)

	_, err := Correlation(a, b)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestPriceVolumeCorrelation(t *testing.T) {
	s := barSeries(t, "IBM",
		ohlcv(0, 100, 100, 100, 100, 1000),
		ohlcv(1, 110, 110, 110, 110, 2000),
		ohlcv(2, 99, 99, 99, 99, 1000),
		ohlcv(3, 108.9, 108.9, 108.9, 108.9, 2000),
	)
	got, err := PriceVolumeCorrelation(s)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-9)

	zeroVol := barSeries(t, "IBM",
		ohlcv(0, 100, 100, 100, 100, 0),
		ohlcv(1, 110, 110, 110, 110, 2000),
		ohlcv(2, 99, 99, 99, 99, 1000),
	)
	_, err = PriceVolumeCorrelation(zeroVol)
	assert.ErrorIs(t, err, ErrDivisionByZero)

	_, err = PriceVolumeCorrelation(closeSeries(t, "IBM", 1, 2))
	assert.ErrorIs(t, err, ErrInsufficientData)
}
