package calculator

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"StockInsight/internal/model"
)

// ExcessSummary describes daily return differences against a benchmark on common dates.
type ExcessSummary struct {
	Mean       float64
	StdDev     float64
	Cumulative float64
	Days       int
}

// alignReturns inner-joins the daily returns of a and b on date.
func alignReturns(a, b *model.PriceSeries) (ra, rb []float64, err error) {
	da, err := DatedReturns(a)
	if err != nil {
		return nil, nil, err
	}
	db, err := DatedReturns(b)
	if err != nil {
		return nil, nil, err
	}

	byDate := make(map[time.Time]float64, len(db))
	for _, d := range db {
		byDate[d.Date] = d.Return
	}
	for _, d := range da {
		if r, ok := byDate[d.Date]; ok {
			ra = append(ra, d.Return)
			rb = append(rb, r)
		}
	}
	return ra, rb, nil
}

func sharesDate(a, b *model.PriceSeries) bool {
	dates := make(map[time.Time]struct{}, b.Len())
	for _, d := range b.Dates() {
		dates[d] = struct{}{}
	}
	for _, d := range a.Dates() {
		if _, ok := dates[d]; ok {
			return true
		}
	}
	return false
}

// ExcessReturn compounds the per-date return difference of s over bench:
// Π(1 + (r_s - r_b)) - 1.
func ExcessReturn(s, bench *model.PriceSeries) (float64, error) {
	sum, err := ExcessStats(s, bench)
	if err != nil {
		return 0, err
	}
	return sum.Cumulative, nil
}

func ExcessStats(s, bench *model.PriceSeries) (ExcessSummary, error) {
	if !sharesDate(s, bench) {
		return ExcessSummary{}, fmt.Errorf("%w: %s and %s", ErrNoOverlap, s.Symbol(), bench.Symbol())
	}
	rs, rb, err := alignReturns(s, bench)
	if err != nil {
		return ExcessSummary{}, err
	}
	if len(rs) == 0 {
		return ExcessSummary{}, fmt.Errorf("%w: %s and %s", ErrNoOverlap, s.Symbol(), bench.Symbol())
	}

	diff := make([]float64, len(rs))
	cumulative := 1.0
	for i := range rs {
		diff[i] = rs[i] - rb[i]
		cumulative *= 1 + diff[i]
	}

	out := ExcessSummary{Mean: stat.Mean(diff, nil), Cumulative: cumulative - 1, Days: len(diff)}
	if len(diff) > 1 {
		out.StdDev = stat.StdDev(diff, nil)
	}
	return out, nil
}

// Correlation is the Pearson correlation of daily returns on the dates both series share.
func Correlation(a, b *model.PriceSeries) (float64, error) {
	ra, rb, err := alignReturns(a, b)
	if err != nil {
		return 0, err
	}
	if len(ra) < 2 {
		return 0, fmt.Errorf("%w: %s and %s share %d returns", ErrInsufficientOverlap, a.Symbol(), b.Symbol(), len(ra))
	}
	return pearson(ra, rb)
}

// PriceVolumeCorrelation correlates close-to-close change with volume change.
func PriceVolumeCorrelation(s *model.PriceSeries) (float64, error) {
	if s.Len() < 3 {
		return 0, fmt.Errorf("%w: %s has %d bars, need 3", ErrInsufficientData, s.Symbol(), s.Len())
	}
	prices := make([]float64, 0, s.Len()-1)
	volumes := make([]float64, 0, s.Len()-1)
	for i := 1; i < s.Len(); i++ {
		prev, cur := s.Bar(i-1), s.Bar(i)
		p, err := change(cur.Close, prev.Close)
		if err != nil {
			return 0, err
		}
		v, err := change(float64(cur.Volume), float64(prev.Volume))
		if err != nil {
			return 0, fmt.Errorf("%s volume %s: %w", s.Symbol(), cur.Date.Format(model.DateLayout), err)
		}
		prices = append(prices, p)
		volumes = append(volumes, v)
	}
	return pearson(prices, volumes)
}

func pearson(x, y []float64) (float64, error) {
	if stat.StdDev(x, nil) == 0 || stat.StdDev(y, nil) == 0 {
		return 0, fmt.Errorf("%w: constant sequence has no variance", ErrDivisionByZero)
	}
	c := stat.Correlation(x, y, nil)
	return math.Max(-1, math.Min(1, c)), nil
}
