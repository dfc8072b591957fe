package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"StockInsight/internal/model"
)

var base = time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)

// closeSeries builds a series with one bar per calendar day starting at base.
func closeSeries(t *testing.T, symbol string, closes ...float64) *model.PriceSeries {
	t.Helper()
	return offsetSeries(t, symbol, 0, closes...)
}

func offsetSeries(t *testing.T, symbol string, offset int, closes ...float64) *model.PriceSeries {
	t.Helper()
	bars := make([]model.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = model.PriceBar{
			Date:   base.AddDate(0, 0, offset+i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}
	s, err := model.NewPriceSeries(symbol, bars)
	require.NoError(t, err)
	return s
}

func barSeries(t *testing.T, symbol string, bars ...model.PriceBar) *model.PriceSeries {
	t.Helper()
	s, err := model.NewPriceSeries(symbol, bars)
	require.NoError(t, err)
	return s
}

func ohlcv(d int, open, high, low, close float64, volume int64) model.PriceBar {
	return model.PriceBar{Date: base.AddDate(0, 0, d), Open: open, High: high, Low: low, Close: close, Volume: volume}
}
