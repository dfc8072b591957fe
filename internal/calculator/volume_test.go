package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockInsight/internal/model"
)

func volumeSeries(t *testing.T, symbol string, volumes ...int64) *model.PriceSeries {
	t.Helper()
	bars := make([]model.PriceBar, len(volumes))
	for i, v := range volumes {
		bars[i] = ohlcv(i, 10, 10, 10, 10, v)
	}
	return barSeries(t, symbol, bars...)
}

func TestVolumeDistribution_SumsToOne(t *testing.T) {
	set := []*model.PriceSeries{
		volumeSeries(t, "NVDA", 300, 300, 400),
		volumeSeries(t, "AAPL", 100, 200, 300),
		volumeSeries(t, "IBM", 7, 13, 0),
	}

	shares, err := VolumeDistribution(set, base, base.AddDate(0, 0, 10))
	require.NoError(t, err)
	require.Len(t, shares, 3)

	sum := 0.0
	for _, v := range shares {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.InDelta(t, 1000.0/1620, shares["NVDA"], 1e-12)
}

func TestVolumeBreakdown_Period(t *testing.T) {
	set := []*model.PriceSeries{
		volumeSeries(t, "NVDA", 100, 100, 100),
		volumeSeries(t, "AAPL", 300, 300, 300),
	}

	got, err := VolumeBreakdown(set, base.AddDate(0, 0, 1), base.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "AAPL", got[0].Symbol)
	assert.Equal(t, int64(300), got[0].Total)
	assert.Equal(t, 1, got[0].Days)
	assert.InDelta(t, 0.75, got[0].Share, 1e-12)
	assert.InDelta(t, 100.0, got[1].AvgDaily, 1e-12)
}

func TestVolumeBreakdown_Errors(t *testing.T) {
	set := []*model.PriceSeries{volumeSeries(t, "NVDA", 0, 0)}

	_, err := VolumeBreakdown(set, base, base.AddDate(0, 0, 5))
	assert.ErrorIs(t, err, ErrDivisionByZero)

	_, err = VolumeBreakdown(set, base.AddDate(1, 0, 0), base.AddDate(1, 0, 5))
	assert.ErrorIs(t, err, ErrNoDataInPeriod)
}

func TestLookbackStart(t *testing.T) {
	earliest := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	latest := time.Date(2026, time.May, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"1m", time.Date(2026, time.April, 15, 0, 0, 0, 0, time.UTC)},
		{"3M", time.Date(2026, time.February, 15, 0, 0, 0, 0, time.UTC)},
		{"ytd", time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{" ALL ", earliest},
	}
	for _, tt := range tests {
		l, err := ParseLookback(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, LookbackStart(l, earliest, latest), tt.in)
	}

	_, err := ParseLookback("5Y")
	assert.Error(t, err)
}
