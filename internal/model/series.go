package model

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	ErrEmptySeries    = errors.New("price series is empty")
	ErrDuplicateDate  = errors.New("duplicate date in price series")
	ErrSymbolMismatch = errors.New("bar symbol does not match series")
)

// PriceSeries is an immutable, date-ascending run of bars for one symbol.
// Dates are unique calendar days and every bar has passed Validate.
type PriceSeries struct {
	symbol string
	bars   []PriceBar
}

// NewPriceSeries sorts a copy of bars by date and validates it.
// Bars with an empty Symbol inherit the series symbol.
func NewPriceSeries(symbol string, bars []PriceBar) (*PriceSeries, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySeries, symbol)
	}

	sorted := make([]PriceBar, len(bars))
	copy(sorted, bars)
	for i := range sorted {
		if sorted[i].Symbol == "" {
			sorted[i].Symbol = symbol
		}
		if sorted[i].Symbol != symbol {
			return nil, fmt.Errorf("%w: %s in %s", ErrSymbolMismatch, sorted[i].Symbol, symbol)
		}
		sorted[i].Date = Day(sorted[i].Date)
		if err := sorted[i].Validate(); err != nil {
			return nil, err
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Date.Equal(sorted[i-1].Date) {
			return nil, fmt.Errorf("%w: %s %s", ErrDuplicateDate, symbol, sorted[i].Date.Format(DateLayout))
		}
	}

	return &PriceSeries{symbol: symbol, bars: sorted}, nil
}

func (s *PriceSeries) Symbol() string { return s.symbol }
func (s *PriceSeries) Len() int       { return len(s.bars) }

// Bar returns the i-th bar in date order.
func (s *PriceSeries) Bar(i int) PriceBar { return s.bars[i] }

func (s *PriceSeries) First() PriceBar { return s.bars[0] }
func (s *PriceSeries) Last() PriceBar  { return s.bars[len(s.bars)-1] }

// Bars returns a copy of the underlying bars.
func (s *PriceSeries) Bars() []PriceBar {
	out := make([]PriceBar, len(s.bars))
	copy(out, s.bars)
	return out
}

func (s *PriceSeries) Dates() []time.Time {
	out := make([]time.Time, len(s.bars))
	for i, b := range s.bars {
		out[i] = b.Date
	}
	return out
}

func (s *PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.bars))
	for i, b := range s.bars {
		out[i] = b.Close
	}
	return out
}

func (s *PriceSeries) Volumes() []int64 {
	out := make([]int64, len(s.bars))
	for i, b := range s.bars {
		out[i] = b.Volume
	}
	return out
}

// Between returns the bars dated within [start, end], compared as calendar days.
// The result may be empty.
func (s *PriceSeries) Between(start, end time.Time) []PriceBar {
	start, end = Day(start), Day(end)
	lo := sort.Search(len(s.bars), func(i int) bool { return !s.bars[i].Date.Before(start) })
	hi := sort.Search(len(s.bars), func(i int) bool { return s.bars[i].Date.After(end) })
	if lo >= hi {
		return nil
	}
	out := make([]PriceBar, hi-lo)
	copy(out, s.bars[lo:hi])
	return out
}

// Slice returns a new series over bars [from, to). It panics on bad bounds like a slice expression.
func (s *PriceSeries) Slice(from, to int) *PriceSeries {
	return &PriceSeries{symbol: s.symbol, bars: s.bars[from:to:to]}
}

func (s *PriceSeries) InYear(year int) []PriceBar {
	return s.Between(
		time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	)
}

func (s *PriceSeries) InMonth(year int, month time.Month) []PriceBar {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return s.Between(first, first.AddDate(0, 1, -1))
}
