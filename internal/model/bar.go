package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DateLayout is the calendar-day format used in CSV files and reports.
const DateLayout = "2006-01-02"

var ErrInvalidBar = errors.New("invalid price bar")

// PriceBar represents one trading day for one symbol.
type PriceBar struct {
	Symbol string
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Validate checks price positivity and the high/low envelope.
// NaN and infinite prices are rejected.
func (b PriceBar) Validate() error {
	for _, p := range [...]float64{b.Open, b.High, b.Low, b.Close} {
		if !(p > 0) || math.IsInf(p, 0) {
			return fmt.Errorf("%w: %s %s: prices must be positive and finite", ErrInvalidBar, b.Symbol, b.Date.Format(DateLayout))
		}
	}
	if b.Volume < 0 {
		return fmt.Errorf("%w: %s %s: negative volume", ErrInvalidBar, b.Symbol, b.Date.Format(DateLayout))
	}
	if b.High < b.Open || b.High < b.Close || b.High < b.Low {
		return fmt.Errorf("%w: %s %s: high %.4f below open/close/low", ErrInvalidBar, b.Symbol, b.Date.Format(DateLayout), b.High)
	}
	if b.Low > b.Open || b.Low > b.Close {
		return fmt.Errorf("%w: %s %s: low %.4f above open/close", ErrInvalidBar, b.Symbol, b.Date.Format(DateLayout), b.Low)
	}
	return nil
}
