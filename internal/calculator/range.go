package calculator

import (
	"fmt"

	"StockInsight/internal/model"
)

// PricePoint is a price observed on a specific bar.
type PricePoint struct {
	Bar   model.PriceBar
	Price float64
}

// SupportResistance scans the most recent lookback bars and returns the lowest low and highest high.
func SupportResistance(s *model.PriceSeries, lookback int) (support, resistance float64, err error) {
	if lookback < 1 {
		return 0, 0, fmt.Errorf("%w: lookback %d", ErrInvalidWindow, lookback)
	}
	start := s.Len() - lookback
	if start < 0 {
		start = 0
	}
	support, resistance = s.Bar(start).Low, s.Bar(start).High
	for i := start + 1; i < s.Len(); i++ {
		b := s.Bar(i)
		if b.High > resistance {
			resistance = b.High
		}
		if b.Low < support {
			support = b.Low
		}
	}
	return support, resistance, nil
}

// Extremes returns the bars carrying the highest high and the lowest low of the series.
func Extremes(s *model.PriceSeries) (high, low PricePoint) {
	high = PricePoint{Bar: s.First(), Price: s.First().High}
	low = PricePoint{Bar: s.First(), Price: s.First().Low}
	for i := 1; i < s.Len(); i++ {
		b := s.Bar(i)
		if b.High > high.Price {
			high = PricePoint{Bar: b, Price: b.High}
		}
		if b.Low < low.Price {
			low = PricePoint{Bar: b, Price: b.Low}
		}
	}
	return high, low
}

// RangePosition returns where current sits within [low, high] (0.0~1.0).
func RangePosition(current, high, low float64) (float64, error) {
	if high < low {
		return 0, fmt.Errorf("high %.4f below low %.4f", high, low)
	}
	if high == low {
		return 0, fmt.Errorf("%w: empty range", ErrDivisionByZero)
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}
