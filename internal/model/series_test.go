package model

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2026, time.January, d, 0, 0, 0, 0, time.UTC)
}

func bar(d int, close float64) PriceBar {
	return PriceBar{Date: day(d), Open: close, High: close, Low: close, Close: close, Volume: 100}
}

func TestNewPriceSeries_SortsAndFillsSymbol(t *testing.T) {
	s, err := NewPriceSeries("AAPL", []PriceBar{bar(3, 99), bar(1, 100), bar(2, 110)})
	require.NoError(t, err)

	assert.Equal(t, "AAPL", s.Symbol())
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []float64{100, 110, 99}, s.Closes())
	assert.Equal(t, "AAPL", s.First().Symbol)
	assert.Equal(t, day(3), s.Last().Date)
}

func TestNewPriceSeries_Rejects(t *testing.T) {
	tests := []struct {
		name string
		bars []PriceBar
		want error
	}{
		{"empty", nil, ErrEmptySeries},
		{"duplicate date", []PriceBar{bar(1, 100), bar(1, 101)}, ErrDuplicateDate},
		{"symbol mismatch", []PriceBar{{Symbol: "MSFT", Date: day(1), Open: 1, High: 1, Low: 1, Close: 1}}, ErrSymbolMismatch},
		{"non-positive close", []PriceBar{{Date: day(1), Open: 1, High: 1, Low: 1, Close: 0}}, ErrInvalidBar},
		{"high below close", []PriceBar{{Date: day(1), Open: 1, High: 1, Low: 1, Close: 2}}, ErrInvalidBar},
		{"low above open", []PriceBar{{Date: day(1), Open: 1, High: 3, Low: 2, Close: 2}}, ErrInvalidBar},
		{"negative volume", []PriceBar{{Date: day(1), Open: 1, High: 1, Low: 1, Close: 1, Volume: -1}}, ErrInvalidBar},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPriceSeries("AAPL", tt.bars)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPriceBar_RejectsNonFinitePrices(t *testing.T) {
	fields := map[string]func(*PriceBar, float64){
		"open":  func(b *PriceBar, v float64) { b.Open = v },
		"high":  func(b *PriceBar, v float64) { b.High = v },
		"low":   func(b *PriceBar, v float64) { b.Low = v },
		"close": func(b *PriceBar, v float64) { b.Close = v },
	}
	values := map[string]float64{"NaN": math.NaN(), "+Inf": math.Inf(1), "-Inf": math.Inf(-1)}
	for field, set := range fields {
		for label, v := range values {
			t.Run(field+" "+label, func(t *testing.T) {
				b := bar(1, 100)
				set(&b, v)
				assert.ErrorIs(t, b.Validate(), ErrInvalidBar)
				_, err := NewPriceSeries("AAPL", []PriceBar{b})
				assert.ErrorIs(t, err, ErrInvalidBar)
			})
		}
	}
}

func TestNewPriceSeries_DuplicateAfterTruncation(t *testing.T) {
	morning := bar(5, 100)
	evening := bar(5, 101)
	evening.Date = evening.Date.Add(20 * time.Hour)

	_, err := NewPriceSeries("AAPL", []PriceBar{morning, evening})
	assert.ErrorIs(t, err, ErrDuplicateDate)
}

func TestPriceSeries_Between(t *testing.T) {
	s, err := NewPriceSeries("AAPL", []PriceBar{bar(2, 1), bar(5, 2), bar(9, 3), bar(12, 4)})
	require.NoError(t, err)

	got := s.Between(day(5), day(9))
	require.Len(t, got, 2)
	assert.Equal(t, 2.0, got[0].Close)
	assert.Equal(t, 3.0, got[1].Close)

	assert.Empty(t, s.Between(day(13), day(20)))
	assert.Empty(t, s.Between(day(9), day(5)))
	assert.Len(t, s.InYear(2026), 4)
	assert.Empty(t, s.InYear(2025))
	assert.Len(t, s.InMonth(2026, time.January), 4)
}

func TestPriceSeries_BarsIsACopy(t *testing.T) {
	s, err := NewPriceSeries("AAPL", []PriceBar{bar(1, 100), bar(2, 110)})
	require.NoError(t, err)

	bars := s.Bars()
	bars[0].Close = 1
	assert.Equal(t, 100.0, s.First().Close)
}

func TestMetricResult(t *testing.T) {
	r := NewMetricResult("AAPL", day(1), day(3))
	r.Set(MetricYTD, 0.12)
	r.Flag(MetricAnnualVolatility)

	v, ok := r.Value(MetricYTD)
	assert.True(t, ok)
	assert.Equal(t, 0.12, v)
	_, ok = r.Value(MetricMTD)
	assert.False(t, ok)
	assert.True(t, r.IsLowConfidence(MetricAnnualVolatility))
	assert.False(t, r.IsLowConfidence(MetricYTD))
}
