package calculator

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

const (
	// TradingDays annualizes daily statistics.
	TradingDays = 252
	// MinVolatilityObservations is the sample size below which volatility is flagged low-confidence.
	MinVolatilityObservations = 20
)

// Volatility holds sample standard deviation of daily returns and its annualized form.
type Volatility struct {
	Daily         float64
	Annual        float64
	Observations  int
	LowConfidence bool
}

// AnnualizedVolatility computes stddev(returns) * sqrt(252).
func AnnualizedVolatility(returns []float64) (Volatility, error) {
	if len(returns) < 2 {
		return Volatility{}, fmt.Errorf("%w: %d returns, need 2", ErrInsufficientData, len(returns))
	}
	daily := stat.StdDev(returns, nil)
	return Volatility{
		Daily:         daily,
		Annual:        daily * math.Sqrt(TradingDays),
		Observations:  len(returns),
		LowConfidence: len(returns) < MinVolatilityObservations,
	}, nil
}

// MaxDrawdown tracks the cumulative product of (1+r) against its running
// maximum and returns the deepest relative decline, a value <= 0.
func MaxDrawdown(returns []float64) (float64, error) {
	if len(returns) == 0 {
		return 0, fmt.Errorf("%w: no returns", ErrInsufficientData)
	}
	cumulative := 1.0
	runningMax := math.Inf(-1)
	worst := 0.0
	for i, r := range returns {
		cumulative *= 1 + r
		if cumulative > runningMax {
			runningMax = cumulative
		}
		if runningMax == 0 {
			return 0, fmt.Errorf("%w: running maximum is zero at return %d", ErrDivisionByZero, i)
		}
		if dd := (cumulative - runningMax) / runningMax; dd < worst {
			worst = dd
		}
	}
	return worst, nil
}

// SharpeRatio is the unannualized mean over standard deviation of daily returns.
func SharpeRatio(returns []float64) (float64, error) {
	if len(returns) < 2 {
		return 0, fmt.Errorf("%w: %d returns, need 2", ErrInsufficientData, len(returns))
	}
	mean, std := stat.MeanStdDev(returns, nil)
	if std == 0 {
		return 0, fmt.Errorf("%w: zero return deviation", ErrDivisionByZero)
	}
	return mean / std, nil
}
