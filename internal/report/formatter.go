package report

import (
	"fmt"
	"strings"

	"StockInsight/internal/analysis"
	"StockInsight/internal/model"
)

// FormatSummary formats the dashboard as a coloured console table.
func FormatSummary(d *analysis.Dashboard) string {
	var b strings.Builder

	b.WriteString(bold(fmt.Sprintf("StockInsight | %d-%02d | generated %s", d.Year, d.Month, d.GeneratedAt.Format("2006-01-02 15:04"))))
	b.WriteString("\n")
	if d.RunID != "" {
		b.WriteString(dim("run " + d.RunID))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("%-8s %10s %9s %9s %9s %9s %9s\n",
		"SYMBOL", "CLOSE", "YTD", "MTD", "VOL(ANN)", "MAX DD", "EXCESS"))
	rows := d.Symbols
	if d.Benchmark != nil {
		rows = append(append([]*analysis.SymbolAnalysis{}, rows...), d.Benchmark)
	}
	for _, a := range rows {
		b.WriteString(summaryRow(a))
	}

	if len(d.Volume) > 0 {
		b.WriteString(fmt.Sprintf("\nVolume share %s (%s to %s):\n", d.VolumePeriod,
			d.VolumeStart.Format(model.DateLayout), d.VolumeEnd.Format(model.DateLayout)))
		for _, v := range d.Volume {
			b.WriteString(fmt.Sprintf("  %-8s %7s  total %s, avg %s/day\n",
				v.Symbol, Ratio(v.Share*100, 1)+"%", Volume(v.Total), CompactVolume(v.AvgDaily)))
		}
	}
	return b.String()
}

func summaryRow(a *analysis.SymbolAnalysis) string {
	ytd, mtd, vol, excess := "n/a", "n/a", "n/a", "n/a"
	if a.YTD != nil {
		ytd = colorPercent(a.YTD.Return)
	}
	if a.MTD != nil {
		mtd = colorPercent(a.MTD.Return)
	}
	if a.Volatility != nil {
		vol = Percent(a.Volatility.Annual)
		if a.Volatility.LowConfidence {
			vol += "*"
		}
	}
	if a.Excess != nil {
		excess = colorPercent(a.Excess.Cumulative)
	}
	// padding is applied to the plain text so colour codes do not skew columns
	return fmt.Sprintf("%-8s %10s %s %s %9s %s %s\n",
		a.Symbol, Price(a.Series.Last().Close),
		pad(ytd, 9), pad(mtd, 9), vol, pad(optPercent(a.Drawdown), 9), pad(excess, 9))
}

// pad right-aligns s to width visible characters, ignoring ANSI escapes.
func pad(s string, width int) string {
	n := visibleLen(s)
	if n >= width {
		return s
	}
	return strings.Repeat(" ", width-n) + s
}

func visibleLen(s string) int {
	n, inEscape := 0, false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		default:
			n++
		}
	}
	return n
}

// FormatDigest formats a short HTML-flavoured message for chat notifications.
func FormatDigest(d *analysis.Dashboard) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>StockInsight</b> | %s\n\n", d.GeneratedAt.Format("2006-01-02")))
	for _, a := range d.Symbols {
		b.WriteString(fmt.Sprintf("<b>%s</b> %s", a.Symbol, Price(a.Series.Last().Close)))
		if a.YTD != nil {
			b.WriteString(fmt.Sprintf(" | YTD %s", Percent(a.YTD.Return)))
		}
		if a.MTD != nil {
			b.WriteString(fmt.Sprintf(" | MTD %s", Percent(a.MTD.Return)))
		}
		if a.Excess != nil {
			b.WriteString(fmt.Sprintf(" | vs bench %s", Percent(a.Excess.Cumulative)))
		}
		b.WriteString(fmt.Sprintf(" | %s\n", a.Insight.Trend))
	}
	if d.Benchmark != nil && d.Benchmark.YTD != nil {
		b.WriteString(fmt.Sprintf("\nBenchmark %s YTD %s\n", d.Benchmark.Symbol, Percent(d.Benchmark.YTD.Return)))
	}
	if d.RunID != "" {
		b.WriteString(fmt.Sprintf("\n<i>run %s</i>", d.RunID))
	}
	return b.String()
}
