package analysis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/guregu/null/v6"
	"golang.org/x/sync/errgroup"

	"StockInsight/internal/calculator"
	"StockInsight/internal/model"
)

// ErrNoSeries is returned when Analyze receives nothing to work on.
var ErrNoSeries = errors.New("no price series to analyze")

// SymbolAnalysis is everything computed for one symbol. Optional metrics are
// nil or invalid when the calculator could not produce them.
type SymbolAnalysis struct {
	Symbol         string
	Series         *model.PriceSeries
	Metrics        *model.MetricResult
	MovingAverages map[int][]null.Float

	Period     calculator.Performance
	YTD        *calculator.Performance
	MTD        *calculator.Performance
	Volatility *calculator.Volatility
	Drawdown   null.Float
	Sharpe     null.Float

	Excess               *calculator.ExcessSummary
	BenchmarkCorrelation null.Float

	Monthly []calculator.MonthlyStat
	YOY     []calculator.YOYPoint
	Insight Insight
}

// Dashboard is the result of one analysis run across all symbols.
type Dashboard struct {
	RunID       string
	GeneratedAt time.Time
	Year        int
	Month       time.Month

	Symbols   []*SymbolAnalysis
	Benchmark *SymbolAnalysis

	VolumePeriod calculator.Lookback
	VolumeStart  time.Time
	VolumeEnd    time.Time
	Volume       []calculator.VolumeShare

	// Correlations of daily returns, keyed by symbol on both axes.
	Correlations map[string]map[string]float64
}

// Lookup returns the analysis for symbol, including the benchmark.
func (d *Dashboard) Lookup(symbol string) (*SymbolAnalysis, bool) {
	if d.Benchmark != nil && strings.EqualFold(d.Benchmark.Symbol, symbol) {
		return d.Benchmark, true
	}
	for _, a := range d.Symbols {
		if strings.EqualFold(a.Symbol, symbol) {
			return a, true
		}
	}
	return nil, false
}

// Analyzer turns price series into a Dashboard.
type Analyzer struct {
	Benchmark string
	MAWindows []int
	// Year and Month select the YTD/MTD period; zero means the period of the latest bar.
	Year  int
	Month time.Month

	VolumePeriod    calculator.Lookback
	FlatTolerance   float64
	RSIPeriod       int
	SupportLookback int
	Workers         int

	Now func() time.Time
}

// NewAnalyzer returns an Analyzer with the default windows: MA5/MA20,
// RSI(14), 20-session support/resistance and a year-to-date volume period.
func NewAnalyzer(benchmark string) *Analyzer {
	return &Analyzer{
		Benchmark:       benchmark,
		MAWindows:       []int{5, 20},
		VolumePeriod:    calculator.LookbackYTD,
		RSIPeriod:       14,
		SupportLookback: 20,
		Workers:         runtime.NumCPU(),
		Now:             time.Now,
	}
}

// Analyze computes per-symbol metrics concurrently, then the cross-symbol
// volume breakdown and correlation matrix. Individual metric failures are
// logged and leave the metric unset.
func (a *Analyzer) Analyze(ctx context.Context, set []*model.PriceSeries) (*Dashboard, error) {
	if len(set) == 0 {
		return nil, ErrNoSeries
	}

	var bench *model.PriceSeries
	var stocks []*model.PriceSeries
	for _, s := range set {
		if a.Benchmark != "" && strings.EqualFold(s.Symbol(), a.Benchmark) {
			bench = s
			continue
		}
		stocks = append(stocks, s)
	}
	if a.Benchmark != "" && bench == nil {
		log.Printf("[WARN] benchmark %s not in input, skipping benchmark-relative metrics", a.Benchmark)
	}

	earliest, latest := span(set)
	year, month := a.Year, a.Month
	if year == 0 {
		year = latest.Year()
	}
	if month == 0 {
		month = latest.Month()
	}

	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	d := &Dashboard{
		GeneratedAt:  now(),
		Year:         year,
		Month:        month,
		VolumePeriod: a.VolumePeriod,
		VolumeEnd:    latest,
	}

	all := stocks
	if bench != nil {
		all = append(append([]*model.PriceSeries{}, stocks...), bench)
	}
	results := make([]*SymbolAnalysis, len(all))

	workers := a.Workers
	if workers < 1 {
		workers = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, s := range all {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			var b *model.PriceSeries
			if s != bench {
				b = bench
			}
			results[i] = a.analyzeSymbol(s, b, year, month)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	d.Symbols = results[:len(stocks)]
	if bench != nil {
		d.Benchmark = results[len(stocks)]
	}

	if len(stocks) > 0 {
		d.VolumeStart = calculator.LookbackStart(a.VolumePeriod, earliest, latest)
		vol, err := calculator.VolumeBreakdown(stocks, d.VolumeStart, d.VolumeEnd)
		if err != nil {
			log.Printf("[WARN] volume distribution: %v", err)
		} else {
			d.Volume = vol
		}
	}
	d.Correlations = correlationMatrix(all)
	return d, nil
}

func (a *Analyzer) analyzeSymbol(s, bench *model.PriceSeries, year int, month time.Month) *SymbolAnalysis {
	sym := s.Symbol()
	res := &SymbolAnalysis{
		Symbol:         sym,
		Series:         s,
		Metrics:        model.NewMetricResult(sym, s.First().Date, s.Last().Date),
		MovingAverages: make(map[int][]null.Float, len(a.MAWindows)),
	}
	m := res.Metrics
	warn := func(metric string, err error) {
		log.Printf("[WARN] %s %s: %v", sym, metric, err)
	}

	m.Set(model.MetricLastClose, s.Last().Close)
	m.Set(model.MetricAvgVolume, avgVolume(s))

	for _, w := range a.MAWindows {
		ma, err := calculator.MovingAverage(s, w)
		if err != nil {
			warn(fmt.Sprintf("MA%d", w), err)
			continue
		}
		res.MovingAverages[w] = ma
		if v, err := calculator.LatestMovingAverage(s, w); err == nil {
			m.Set(model.MetricMA(w), v)
		}
	}

	if p, err := calculator.PeriodPerformance(s, s.First().Date, s.Last().Date); err != nil {
		warn("period return", err)
	} else {
		res.Period = p
		m.Set(model.MetricPeriodReturn, p.Return)
	}
	if p, err := calculator.YearToDate(s, year); err != nil {
		warn("YTD", err)
	} else {
		res.YTD = &p
		m.Set(model.MetricYTD, p.Return)
	}
	if p, err := calculator.MonthToDate(s, year, month); err != nil {
		warn("MTD", err)
	} else {
		res.MTD = &p
		m.Set(model.MetricMTD, p.Return)
	}

	if returns, err := calculator.DailyReturns(s); err != nil {
		warn("daily returns", err)
	} else {
		if v, err := calculator.AnnualizedVolatility(returns); err != nil {
			warn("volatility", err)
		} else {
			res.Volatility = &v
			m.Set(model.MetricDailyVolatility, v.Daily)
			m.Set(model.MetricAnnualVolatility, v.Annual)
			if v.LowConfidence {
				m.Flag(model.MetricDailyVolatility)
				m.Flag(model.MetricAnnualVolatility)
			}
		}
		if dd, err := calculator.MaxDrawdown(returns); err != nil {
			warn("max drawdown", err)
		} else {
			res.Drawdown = null.FloatFrom(dd)
			m.Set(model.MetricMaxDrawdown, dd)
		}
		if sr, err := calculator.SharpeRatio(returns); err != nil {
			warn("sharpe", err)
		} else {
			res.Sharpe = null.FloatFrom(sr)
			m.Set(model.MetricSharpe, sr)
		}
	}

	if rsi, err := calculator.RSI(s, a.RSIPeriod); err != nil {
		warn("RSI", err)
	} else {
		m.Set(model.MetricRSI14, rsi)
	}

	if bench != nil {
		if ex, err := calculator.ExcessStats(s, bench); err != nil {
			warn("excess return", err)
		} else {
			res.Excess = &ex
			m.Set(model.MetricExcessReturn, ex.Cumulative)
		}
		if c, err := calculator.Correlation(s, bench); err != nil {
			warn("benchmark correlation", err)
		} else {
			res.BenchmarkCorrelation = null.FloatFrom(c)
			m.Set(model.MetricBenchmarkCorr, c)
		}
	}

	res.Monthly = calculator.MonthlyAverages(s)
	res.YOY = calculator.YearOverYear(s)
	res.Insight = a.insight(s, res, warn)
	return res
}

func avgVolume(s *model.PriceSeries) float64 {
	var total int64
	for _, v := range s.Volumes() {
		total += v
	}
	return float64(total) / float64(s.Len())
}

func span(set []*model.PriceSeries) (earliest, latest time.Time) {
	earliest, latest = set[0].First().Date, set[0].Last().Date
	for _, s := range set[1:] {
		if s.First().Date.Before(earliest) {
			earliest = s.First().Date
		}
		if s.Last().Date.After(latest) {
			latest = s.Last().Date
		}
	}
	return earliest, latest
}

func correlationMatrix(set []*model.PriceSeries) map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(set))
	for _, s := range set {
		out[s.Symbol()] = map[string]float64{s.Symbol(): 1}
	}
	for i := 0; i < len(set); i++ {
		for j := i + 1; j < len(set); j++ {
			a, b := set[i], set[j]
			c, err := calculator.Correlation(a, b)
			if err != nil {
				log.Printf("[WARN] correlation %s/%s: %v", a.Symbol(), b.Symbol(), err)
				continue
			}
			out[a.Symbol()][b.Symbol()] = c
			out[b.Symbol()][a.Symbol()] = c
		}
	}
	return out
}

// SortedSymbols returns the symbols of the matrix in a stable order.
func SortedSymbols(m map[string]map[string]float64) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
