package calculator

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"StockInsight/internal/model"
)

// DirectionCount tallies sessions by the sign of Close - Open.
type DirectionCount struct {
	Up   int
	Down int
	Flat int
}

// Directions classifies each bar as up, down or flat. A bar is flat when
// |Close - Open| <= tolerance * Open; tolerance 0 means exact equality.
func Directions(s *model.PriceSeries, tolerance float64) DirectionCount {
	var dc DirectionCount
	for i := 0; i < s.Len(); i++ {
		b := s.Bar(i)
		diff := b.Close - b.Open
		switch {
		case math.Abs(diff) <= tolerance*b.Open:
			dc.Flat++
		case diff > 0:
			dc.Up++
		default:
			dc.Down++
		}
	}
	return dc
}

// Amplitudes returns (High - Low) / previous close for each bar.
// The first bar is measured against its own close.
func Amplitudes(s *model.PriceSeries) []float64 {
	out := make([]float64, s.Len())
	for i := 0; i < s.Len(); i++ {
		b := s.Bar(i)
		base := b.Close
		if i > 0 {
			base = s.Bar(i - 1).Close
		}
		out[i] = (b.High - b.Low) / base
	}
	return out
}

// AmplitudeDay is a session flagged for an unusually wide range.
type AmplitudeDay struct {
	Bar       model.PriceBar
	Amplitude float64
}

// HighVolatilityDays returns bars whose amplitude exceeds mean + one standard
// deviation, widest first.
func HighVolatilityDays(s *model.PriceSeries, amplitudes []float64) ([]AmplitudeDay, float64, error) {
	if len(amplitudes) != s.Len() {
		return nil, 0, fmt.Errorf("%w: %d amplitudes for %d bars", ErrInvalidWindow, len(amplitudes), s.Len())
	}
	if len(amplitudes) < 2 {
		return nil, 0, fmt.Errorf("%w: %d amplitudes, need 2", ErrInsufficientData, len(amplitudes))
	}
	mean, std := stat.MeanStdDev(amplitudes, nil)
	threshold := mean + std

	var out []AmplitudeDay
	for i, a := range amplitudes {
		if a > threshold {
			out = append(out, AmplitudeDay{Bar: s.Bar(i), Amplitude: a})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Amplitude > out[j].Amplitude })
	return out, threshold, nil
}

// VolumeDay is a high-volume session with its open-to-close return.
type VolumeDay struct {
	Bar            model.PriceBar
	IntradayReturn float64
}

// TopVolumeDays returns the n sessions with the largest volume; ties keep date order.
func TopVolumeDays(s *model.PriceSeries, n int) ([]VolumeDay, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: n %d", ErrInvalidWindow, n)
	}
	bars := s.Bars()
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Volume > bars[j].Volume })
	if n > len(bars) {
		n = len(bars)
	}
	out := make([]VolumeDay, n)
	for i, b := range bars[:n] {
		r, err := change(b.Close, b.Open)
		if err != nil {
			return nil, err
		}
		out[i] = VolumeDay{Bar: b, IntradayReturn: r}
	}
	return out, nil
}

// Trend is a coarse label for a period return.
type Trend string

const (
	TrendUp       Trend = "up"
	TrendDown     Trend = "down"
	TrendSideways Trend = "sideways"
)

// TrendThreshold is the absolute return separating a trend from sideways movement.
const TrendThreshold = 0.02

func ClassifyTrend(ret float64) Trend {
	switch {
	case ret > TrendThreshold:
		return TrendUp
	case ret < -TrendThreshold:
		return TrendDown
	default:
		return TrendSideways
	}
}
