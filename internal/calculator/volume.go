package calculator

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"StockInsight/internal/model"
)

// Lookback names a trailing window used for volume and chart periods.
type Lookback string

const (
	LookbackMonth   Lookback = "1M"
	LookbackQuarter Lookback = "3M"
	LookbackYTD     Lookback = "YTD"
	LookbackAll     Lookback = "ALL"
)

// ParseLookback accepts 1M, 3M, YTD and ALL in any case.
func ParseLookback(v string) (Lookback, error) {
	switch l := Lookback(strings.ToUpper(strings.TrimSpace(v))); l {
	case LookbackMonth, LookbackQuarter, LookbackYTD, LookbackAll:
		return l, nil
	default:
		return "", fmt.Errorf("unknown lookback %q", v)
	}
}

// LookbackStart resolves the first day of period ending at latest.
func LookbackStart(period Lookback, earliest, latest time.Time) time.Time {
	switch period {
	case LookbackMonth:
		return latest.AddDate(0, -1, 0)
	case LookbackQuarter:
		return latest.AddDate(0, -3, 0)
	case LookbackYTD:
		return time.Date(latest.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return earliest
	}
}

// VolumeShare is one symbol's traded volume within a period.
type VolumeShare struct {
	Symbol   string
	Total    int64
	AvgDaily float64
	Days     int
	Share    float64
}

// VolumeBreakdown sums volume per symbol within [start, end]. Symbols with no
// bars in the period are omitted; the result is ordered by symbol.
func VolumeBreakdown(set []*model.PriceSeries, start, end time.Time) ([]VolumeShare, error) {
	bySymbol := make(map[string]*VolumeShare)
	var total int64
	for _, s := range set {
		bars := s.Between(start, end)
		if len(bars) == 0 {
			continue
		}
		vs, ok := bySymbol[s.Symbol()]
		if !ok {
			vs = &VolumeShare{Symbol: s.Symbol()}
			bySymbol[s.Symbol()] = vs
		}
		for _, b := range bars {
			vs.Total += b.Volume
			total += b.Volume
		}
		vs.Days += len(bars)
	}
	if len(bySymbol) == 0 {
		return nil, fmt.Errorf("%w: no bars between %s and %s", ErrNoDataInPeriod,
			start.Format(model.DateLayout), end.Format(model.DateLayout))
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: total volume is zero", ErrDivisionByZero)
	}

	out := make([]VolumeShare, 0, len(bySymbol))
	for _, vs := range bySymbol {
		vs.AvgDaily = float64(vs.Total) / float64(vs.Days)
		vs.Share = float64(vs.Total) / float64(total)
		out = append(out, *vs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out, nil
}

// VolumeDistribution maps symbol to its share of total volume within [start, end].
func VolumeDistribution(set []*model.PriceSeries, start, end time.Time) (map[string]float64, error) {
	breakdown, err := VolumeBreakdown(set, start, end)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(breakdown))
	for _, vs := range breakdown {
		out[vs.Symbol] = vs.Share
	}
	return out, nil
}
