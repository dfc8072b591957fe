package calculator

import (
	"fmt"

	"github.com/guregu/null/v6"

	"StockInsight/internal/model"
)

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 || period > len(prices) {
		return 0, fmt.Errorf("%w: period %d over %d prices", ErrInvalidWindow, period, len(prices))
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// MovingAverage returns the trailing simple mean of closes over window bars,
// aligned with the series. Positions before the window fills are null.
func MovingAverage(s *model.PriceSeries, window int) ([]null.Float, error) {
	if window < 1 || window > s.Len() {
		return nil, fmt.Errorf("%w: window %d for %s with %d bars", ErrInvalidWindow, window, s.Symbol(), s.Len())
	}
	closes := s.Closes()
	out := make([]null.Float, len(closes))
	for i := window - 1; i < len(closes); i++ {
		ma, err := CalculateSMA(closes[:i+1], window)
		if err != nil {
			return nil, err
		}
		out[i] = null.FloatFrom(ma)
	}
	return out, nil
}

// LatestMovingAverage returns the moving average at the last bar.
func LatestMovingAverage(s *model.PriceSeries, window int) (float64, error) {
	return CalculateSMA(s.Closes(), window)
}
