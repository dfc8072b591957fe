package analysis

import (
	"github.com/guregu/null/v6"
	"gonum.org/v1/gonum/stat"

	"StockInsight/internal/calculator"
	"StockInsight/internal/model"
)

const (
	recentSessions  = 10
	topVolumeDays   = 3
	strongCorrLevel = 0.3
)

// Relation describes how price and volume changes move together.
type Relation string

const (
	RelationPositive Relation = "positive"
	RelationNegative Relation = "negative"
	RelationWeak     Relation = "weak"
)

// ClassifyRelation labels a price/volume correlation; |corr| <= 0.3 is weak.
func ClassifyRelation(corr float64) Relation {
	switch {
	case corr > strongCorrLevel:
		return RelationPositive
	case corr < -strongCorrLevel:
		return RelationNegative
	default:
		return RelationWeak
	}
}

// Insight is the single-symbol narrative block.
type Insight struct {
	Directions calculator.DirectionCount

	Amplitudes          []float64
	AvgAmplitude        float64
	VolatilityThreshold float64
	HighVolatility      []calculator.AmplitudeDay

	TopVolume []calculator.VolumeDay

	Recent *calculator.Performance
	Prior  *calculator.Performance

	Support    float64
	Resistance float64
	Position   null.Float
	High       calculator.PricePoint
	Low        calculator.PricePoint

	// ShortMARising compares the shortest moving average with its value five sessions earlier.
	ShortMARising null.Bool

	Trend           calculator.Trend
	PriceVolumeCorr null.Float
	Relation        Relation
}

func (a *Analyzer) insight(s *model.PriceSeries, res *SymbolAnalysis, warn func(string, error)) Insight {
	in := Insight{
		Directions: calculator.Directions(s, a.FlatTolerance),
		Amplitudes: calculator.Amplitudes(s),
		Trend:      calculator.ClassifyTrend(res.Period.Return),
		Relation:   RelationWeak,
	}
	in.AvgAmplitude = stat.Mean(in.Amplitudes, nil)
	in.High, in.Low = calculator.Extremes(s)

	if days, threshold, err := calculator.HighVolatilityDays(s, in.Amplitudes); err != nil {
		warn("high volatility days", err)
	} else {
		in.HighVolatility, in.VolatilityThreshold = days, threshold
	}

	if top, err := calculator.TopVolumeDays(s, topVolumeDays); err != nil {
		warn("top volume days", err)
	} else {
		in.TopVolume = top
	}

	n := min(recentSessions, s.Len())
	if p, err := calculator.WindowReturn(s, 0, n); err != nil {
		warn("recent sessions", err)
	} else {
		in.Recent = &p
	}
	// sessions -20..-10 when available, otherwise the first ten
	priorOffset := recentSessions
	if s.Len() < 2*recentSessions {
		priorOffset = s.Len() - n
	}
	if p, err := calculator.WindowReturn(s, priorOffset, n); err != nil {
		warn("prior sessions", err)
	} else {
		in.Prior = &p
	}

	lookback := a.SupportLookback
	if lookback < 1 {
		lookback = 20
	}
	if sup, resist, err := calculator.SupportResistance(s, lookback); err != nil {
		warn("support/resistance", err)
	} else {
		in.Support, in.Resistance = sup, resist
		if pos, err := calculator.RangePosition(s.Last().Close, resist, sup); err != nil {
			warn("range position", err)
		} else {
			in.Position = null.FloatFrom(pos)
		}
	}

	if len(a.MAWindows) > 0 {
		short := a.MAWindows[0]
		for _, w := range a.MAWindows[1:] {
			short = min(short, w)
		}
		if ma := res.MovingAverages[short]; len(ma) >= 6 {
			now, before := ma[len(ma)-1], ma[len(ma)-6]
			if now.Valid && before.Valid {
				in.ShortMARising = null.BoolFrom(now.Float64 > before.Float64)
			}
		}
	}

	if c, err := calculator.PriceVolumeCorrelation(s); err != nil {
		warn("price/volume correlation", err)
	} else {
		in.PriceVolumeCorr = null.FloatFrom(c)
		in.Relation = ClassifyRelation(c)
	}
	return in
}
