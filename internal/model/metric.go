package model

import (
	"fmt"
	"time"
)

// Metric names used as keys of MetricResult.Values.
const (
	MetricLastClose        = "last_close"
	MetricYTD              = "ytd_return"
	MetricMTD              = "mtd_return"
	MetricPeriodReturn     = "period_return"
	MetricDailyVolatility  = "daily_volatility"
	MetricAnnualVolatility = "annual_volatility"
	MetricMaxDrawdown      = "max_drawdown"
	MetricSharpe           = "sharpe_ratio"
	MetricExcessReturn     = "excess_return"
	MetricBenchmarkCorr    = "benchmark_correlation"
	MetricRSI14            = "rsi_14"
	MetricAvgVolume        = "avg_volume"
)

// MetricMA names the latest moving-average value for window.
func MetricMA(window int) string { return fmt.Sprintf("ma_%d", window) }

// MetricResult maps metric names to values computed over one symbol and date range.
type MetricResult struct {
	Symbol        string
	Start         time.Time
	End           time.Time
	Values        map[string]float64
	LowConfidence map[string]bool
}

func NewMetricResult(symbol string, start, end time.Time) *MetricResult {
	return &MetricResult{
		Symbol:        symbol,
		Start:         start,
		End:           end,
		Values:        make(map[string]float64),
		LowConfidence: make(map[string]bool),
	}
}

func (r *MetricResult) Set(name string, v float64) { r.Values[name] = v }

// Flag marks a metric as computed from too few observations to be meaningful.
func (r *MetricResult) Flag(name string) { r.LowConfidence[name] = true }

func (r *MetricResult) Value(name string) (float64, bool) {
	v, ok := r.Values[name]
	return v, ok
}

func (r *MetricResult) IsLowConfidence(name string) bool { return r.LowConfidence[name] }
