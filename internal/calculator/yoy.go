package calculator

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"StockInsight/internal/model"
)

// MonthlyStat aggregates closes within one calendar month.
type MonthlyStat struct {
	Year     int
	Month    time.Month
	AvgClose float64
	StdClose float64
	Days     int
}

// YOYPoint compares a month's average close in the latest year with the
// earliest year present.
type YOYPoint struct {
	Month    time.Month
	Previous float64
	Latest   float64
	Change   float64
}

// MonthlyAverages groups closes by calendar month in chronological order.
// StdClose is zero for months with a single session.
func MonthlyAverages(s *model.PriceSeries) []MonthlyStat {
	type key struct {
		y int
		m time.Month
	}
	groups := make(map[key][]float64)
	var order []key
	for i := 0; i < s.Len(); i++ {
		b := s.Bar(i)
		k := key{b.Date.Year(), b.Date.Month()}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], b.Close)
	}

	out := make([]MonthlyStat, 0, len(order))
	for _, k := range order {
		closes := groups[k]
		ms := MonthlyStat{Year: k.y, Month: k.m, AvgClose: stat.Mean(closes, nil), Days: len(closes)}
		if len(closes) > 1 {
			ms.StdClose = stat.StdDev(closes, nil)
		}
		out = append(out, ms)
	}
	return out
}

// YearOverYear pairs monthly average closes of the latest year with the
// earliest year present. Months missing from either year are skipped, so
// a series spanning a single year yields nothing.
func YearOverYear(s *model.PriceSeries) []YOYPoint {
	monthly := MonthlyAverages(s)
	if len(monthly) == 0 {
		return nil
	}
	prevYear, latestYear := monthly[0].Year, monthly[len(monthly)-1].Year
	if prevYear == latestYear {
		return nil
	}

	prev := make(map[time.Month]float64)
	latest := make(map[time.Month]float64)
	for _, ms := range monthly {
		switch ms.Year {
		case prevYear:
			prev[ms.Month] = ms.AvgClose
		case latestYear:
			latest[ms.Month] = ms.AvgClose
		}
	}

	var out []YOYPoint
	for m, l := range latest {
		p, ok := prev[m]
		if !ok || p == 0 {
			continue
		}
		out = append(out, YOYPoint{Month: m, Previous: p, Latest: l, Change: (l - p) / p})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
