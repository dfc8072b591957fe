package calculator

import (
	"fmt"
	"time"

	"StockInsight/internal/model"
)

// DatedReturn is a simple return attributed to the later of its two bars.
type DatedReturn struct {
	Date   time.Time
	Return float64
}

// Performance describes the move between the first and last bar of a period.
type Performance struct {
	Start      time.Time
	End        time.Time
	StartClose float64
	EndClose   float64
	Return     float64
	Days       int
}

// DailyReturns computes (close[i] - close[i-1]) / close[i-1] for i > 0.
func DailyReturns(s *model.PriceSeries) ([]float64, error) {
	dated, err := DatedReturns(s)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(dated))
	for i, d := range dated {
		out[i] = d.Return
	}
	return out, nil
}

// DatedReturns is DailyReturns keyed by the date of the later bar.
func DatedReturns(s *model.PriceSeries) ([]DatedReturn, error) {
	if s.Len() < 2 {
		return nil, fmt.Errorf("%w: %s has %d bars, need 2", ErrInsufficientData, s.Symbol(), s.Len())
	}
	out := make([]DatedReturn, 0, s.Len()-1)
	for i := 1; i < s.Len(); i++ {
		prev, cur := s.Bar(i-1), s.Bar(i)
		r, err := change(cur.Close, prev.Close)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", s.Symbol(), cur.Date.Format(model.DateLayout), err)
		}
		out = append(out, DatedReturn{Date: cur.Date, Return: r})
	}
	return out, nil
}

// PeriodReturn is the return from the first to the last bar dated within [start, end].
func PeriodReturn(s *model.PriceSeries, start, end time.Time) (float64, error) {
	p, err := PeriodPerformance(s, start, end)
	if err != nil {
		return 0, err
	}
	return p.Return, nil
}

func PeriodPerformance(s *model.PriceSeries, start, end time.Time) (Performance, error) {
	bars := s.Between(start, end)
	if len(bars) == 0 {
		return Performance{}, fmt.Errorf("%w: %s between %s and %s", ErrNoDataInPeriod,
			s.Symbol(), start.Format(model.DateLayout), end.Format(model.DateLayout))
	}
	return performance(s.Symbol(), bars)
}

// YearToDate measures from the first bar of year to the latest bar of that year.
func YearToDate(s *model.PriceSeries, year int) (Performance, error) {
	bars := s.InYear(year)
	if len(bars) == 0 {
		return Performance{}, fmt.Errorf("%w: %s has no bars in %d", ErrNoDataInPeriod, s.Symbol(), year)
	}
	return performance(s.Symbol(), bars)
}

// MonthToDate measures from the first bar of year/month to the latest bar of that month.
func MonthToDate(s *model.PriceSeries, year int, month time.Month) (Performance, error) {
	bars := s.InMonth(year, month)
	if len(bars) == 0 {
		return Performance{}, fmt.Errorf("%w: %s has no bars in %d-%02d", ErrNoDataInPeriod, s.Symbol(), year, month)
	}
	return performance(s.Symbol(), bars)
}

// WindowReturn is the return over n bars ending offset bars before the last one.
// WindowReturn(s, 0, 10) covers the latest ten sessions.
func WindowReturn(s *model.PriceSeries, offset, n int) (Performance, error) {
	if n < 1 || offset < 0 {
		return Performance{}, fmt.Errorf("%w: offset %d, n %d", ErrInvalidWindow, offset, n)
	}
	end := s.Len() - offset
	if end-n < 0 {
		return Performance{}, fmt.Errorf("%w: %s has %d bars, need %d", ErrInsufficientData, s.Symbol(), s.Len(), offset+n)
	}
	return performance(s.Symbol(), s.Bars()[end-n:end])
}

func performance(symbol string, bars []model.PriceBar) (Performance, error) {
	first, last := bars[0], bars[len(bars)-1]
	r, err := change(last.Close, first.Close)
	if err != nil {
		return Performance{}, fmt.Errorf("%s %s: %w", symbol, first.Date.Format(model.DateLayout), err)
	}
	return Performance{
		Start:      first.Date,
		End:        last.Date,
		StartClose: first.Close,
		EndClose:   last.Close,
		Return:     r,
		Days:       len(bars),
	}, nil
}

func change(cur, base float64) (float64, error) {
	if base == 0 {
		return 0, fmt.Errorf("%w: zero baseline", ErrDivisionByZero)
	}
	return (cur - base) / base, nil
}
