package report

import (
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"
)

var (
	gain = color.New(color.FgGreen).SprintFunc()
	loss = color.New(color.FgRed).SprintFunc()
	bold = color.New(color.Bold).SprintFunc()
	dim  = color.New(color.Faint).SprintFunc()
)

// Percent renders a fraction as a signed percentage with two decimals, 0.0123 -> "+1.23%".
func Percent(v float64) string {
	d := decimal.NewFromFloat(v).Shift(2).Round(2)
	s := d.StringFixed(2) + "%"
	if d.IsPositive() {
		return "+" + s
	}
	return s
}

// Price renders a price rounded half away from zero to two decimals.
func Price(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Ratio renders a unitless value such as a correlation with the given precision.
func Ratio(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// Volume groups thousands: 1234567 -> "1,234,567".
func Volume(v int64) string {
	return humanize.Comma(v)
}

// CompactVolume renders large volumes with an SI suffix: 1234567 -> "1.2 M".
func CompactVolume(v float64) string {
	return humanize.SIWithDigits(v, 1, "")
}

// colorPercent renders Percent in green for gains and red for losses.
func colorPercent(v float64) string {
	switch {
	case v > 0:
		return gain(Percent(v))
	case v < 0:
		return loss(Percent(v))
	default:
		return Percent(v)
	}
}

func optPercent(v null.Float) string {
	if !v.Valid {
		return "n/a"
	}
	return colorPercent(v.Float64)
}

func optRatio(v null.Float, places int32) string {
	if !v.Valid {
		return "n/a"
	}
	return Ratio(v.Float64, places)
}
