package calculator

import (
	"fmt"

	"StockInsight/internal/model"
)

// RSI computes the Wilder-smoothed relative strength index over period.
// Requires at least period+1 bars.
func RSI(s *model.PriceSeries, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("%w: period %d", ErrInvalidWindow, period)
	}
	if s.Len() < period+1 {
		return 0, fmt.Errorf("%w: %s has %d bars, RSI(%d) needs %d", ErrInsufficientData, s.Symbol(), s.Len(), period, period+1)
	}

	closes := s.Closes()

	// Initial average gain/loss over the first `period` changes
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100.0, nil
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs), nil
}
