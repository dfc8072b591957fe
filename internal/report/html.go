package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/guregu/null/v6"

	"StockInsight/internal/analysis"
	"StockInsight/internal/calculator"
	"StockInsight/internal/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"percent":  Percent,
	"price":    Price,
	"ratio":    Ratio,
	"volume":   Volume,
	"compact":  CompactVolume,
	"date":     func(t time.Time) string { return t.Format(model.DateLayout) },
	"optpct":   func(v null.Float) string { return optPlain(v, Percent) },
	"optratio": func(v null.Float) string { return optPlain(v, func(f float64) string { return Ratio(f, 2) }) },
	"sign":     sign,
}).ParseFS(templateFS, "templates/*.tmpl"))

func optPlain(v null.Float, f func(float64) string) string {
	if !v.Valid {
		return "n/a"
	}
	return f(v.Float64)
}

// sign maps a value to a CSS class.
func sign(v float64) string {
	switch {
	case v > 0:
		return "up"
	case v < 0:
		return "down"
	default:
		return "flat"
	}
}

// line is one Plotly trace; invalid points render as gaps.
type line struct {
	Name string
	X    []string
	Y    []null.Float
}

type dashboardView struct {
	*analysis.Dashboard
	BenchmarkLine []line
	Comparisons   []comparison
	VolumeLabels  []string
	VolumeValues  []int64
	YOY           []line
	Matrix        matrix
}

type comparison struct {
	Symbol string
	Lines  []line
}

type matrix struct {
	Symbols []string
	Z       [][]null.Float
}

// RenderDashboard writes the multi-symbol HTML dashboard.
func RenderDashboard(w io.Writer, d *analysis.Dashboard) error {
	v := dashboardView{Dashboard: d}

	if b := d.Benchmark; b != nil {
		from, to := yearRange(b.Series, d.Year)
		v.BenchmarkLine = []line{closeLine(b.Symbol, b.Series.Slice(from, to))}
		if ma, ok := b.MovingAverages[20]; ok {
			v.BenchmarkLine = append(v.BenchmarkLine, maLine("MA20", b.Series, ma, from, to))
		}
	}
	for _, a := range d.Symbols {
		c := comparison{Symbol: a.Symbol, Lines: []line{normalized(a.Symbol, a.Series)}}
		if d.Benchmark != nil {
			c.Lines = append(c.Lines, normalized(d.Benchmark.Symbol, d.Benchmark.Series))
		}
		v.Comparisons = append(v.Comparisons, c)

		if len(a.YOY) > 0 {
			yoy := line{Name: a.Symbol}
			for _, p := range a.YOY {
				yoy.X = append(yoy.X, p.Month.String()[:3])
				yoy.Y = append(yoy.Y, null.FloatFrom(p.Change*100))
			}
			v.YOY = append(v.YOY, yoy)
		}
	}
	for _, vs := range d.Volume {
		v.VolumeLabels = append(v.VolumeLabels, vs.Symbol)
		v.VolumeValues = append(v.VolumeValues, vs.Total)
	}

	v.Matrix.Symbols = analysis.SortedSymbols(d.Correlations)
	for _, row := range v.Matrix.Symbols {
		z := make([]null.Float, len(v.Matrix.Symbols))
		for j, col := range v.Matrix.Symbols {
			if c, ok := d.Correlations[row][col]; ok {
				z[j] = null.FloatFrom(c)
			}
		}
		v.Matrix.Z = append(v.Matrix.Z, z)
	}

	return templates.ExecuteTemplate(w, "dashboard.html.tmpl", v)
}

type insightView struct {
	*analysis.SymbolAnalysis
	RunID       string
	GeneratedAt time.Time
	Price       []line
	Volumes     []int64
	Dates       []string
	TopVolatile []calculator.AmplitudeDay
}

// RenderInsight writes the single-symbol insight report.
func RenderInsight(w io.Writer, a *analysis.SymbolAnalysis, runID string, generated time.Time) error {
	v := insightView{SymbolAnalysis: a, RunID: runID, GeneratedAt: generated}

	v.Price = []line{closeLine("Close", a.Series)}
	for _, window := range sortedWindows(a.MovingAverages) {
		v.Price = append(v.Price, maLine(fmt.Sprintf("MA%d", window), a.Series, a.MovingAverages[window], 0, a.Series.Len()))
	}
	for _, d := range a.Series.Dates() {
		v.Dates = append(v.Dates, d.Format(model.DateLayout))
	}
	v.Volumes = a.Series.Volumes()

	v.TopVolatile = a.Insight.HighVolatility
	if len(v.TopVolatile) > 3 {
		v.TopVolatile = v.TopVolatile[:3]
	}
	return templates.ExecuteTemplate(w, "insight.html.tmpl", v)
}

// WriteFile renders into path, creating parent directories.
func WriteFile(path string, render func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := render(f); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("[INFO] Report written: %s", path)
	return nil
}

// yearRange returns the bar index range [from, to) dated in year, or the
// whole series when year has no bars.
func yearRange(s *model.PriceSeries, year int) (from, to int) {
	from = sort.Search(s.Len(), func(i int) bool { return s.Bar(i).Date.Year() >= year })
	to = sort.Search(s.Len(), func(i int) bool { return s.Bar(i).Date.Year() > year })
	if from == to {
		return 0, s.Len()
	}
	return from, to
}

func closeLine(name string, s *model.PriceSeries) line {
	l := line{Name: name}
	for i := 0; i < s.Len(); i++ {
		b := s.Bar(i)
		l.X = append(l.X, b.Date.Format(model.DateLayout))
		l.Y = append(l.Y, null.FloatFrom(b.Close))
	}
	return l
}

// maLine plots ma over bars [from, to) of s.
func maLine(name string, s *model.PriceSeries, ma []null.Float, from, to int) line {
	l := line{Name: name}
	for i := from; i < to; i++ {
		l.X = append(l.X, s.Bar(i).Date.Format(model.DateLayout))
		l.Y = append(l.Y, ma[i])
	}
	return l
}

// normalized rebases closes to 100 at the first bar.
func normalized(name string, s *model.PriceSeries) line {
	l := line{Name: name}
	first := s.First().Close
	for i := 0; i < s.Len(); i++ {
		b := s.Bar(i)
		l.X = append(l.X, b.Date.Format(model.DateLayout))
		l.Y = append(l.Y, null.FloatFrom(b.Close/first*100))
	}
	return l
}

func sortedWindows(m map[int][]null.Float) []int {
	out := make([]int, 0, len(m))
	for w := range m {
		out = append(out, w)
	}
	sort.Ints(out)
	return out
}
