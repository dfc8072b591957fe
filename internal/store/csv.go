package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"StockInsight/internal/model"
)

var header = []string{"symbol", "date", "open", "high", "low", "close", "volume"}

// ErrMissingColumn is returned when a CSV header lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// WriteCSV writes series in long format, ordered by symbol then date.
func WriteCSV(w io.Writer, series ...*model.PriceSeries) error {
	sorted := make([]*model.PriceSeries, len(series))
	copy(sorted, series)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Symbol() < sorted[j].Symbol() })

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, s := range sorted {
		for i := 0; i < s.Len(); i++ {
			b := s.Bar(i)
			err := cw.Write([]string{
				s.Symbol(),
				b.Date.Format(model.DateLayout),
				formatPrice(b.Open),
				formatPrice(b.High),
				formatPrice(b.Low),
				formatPrice(b.Close),
				strconv.FormatInt(b.Volume, 10),
			})
			if err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ReadCSV parses long-format rows into one series per symbol, ordered by
// symbol. Headers match case-insensitively; when there is no symbol column
// every row is attributed to defaultSymbol. Unknown columns are ignored.
func ReadCSV(r io.Reader, defaultSymbol string) ([]*model.PriceSeries, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("read header: %w", model.ErrEmptySeries)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(head))
	for i, h := range head {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, name := range header[1:] {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}
	symCol, hasSymbol := cols["symbol"]
	if !hasSymbol && defaultSymbol == "" {
		return nil, fmt.Errorf("%w: symbol (and no default given)", ErrMissingColumn)
	}

	bySymbol := make(map[string][]model.PriceBar)
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		field := func(name string) string {
			i := cols[name]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		symbol := defaultSymbol
		if hasSymbol && symCol < len(rec) && strings.TrimSpace(rec[symCol]) != "" {
			symbol = strings.TrimSpace(rec[symCol])
		}
		bar, err := parseRow(symbol, field)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		bySymbol[symbol] = append(bySymbol[symbol], bar)
	}
	if len(bySymbol) == 0 {
		return nil, model.ErrEmptySeries
	}

	symbols := make([]string, 0, len(bySymbol))
	for sym := range bySymbol {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	out := make([]*model.PriceSeries, 0, len(symbols))
	for _, sym := range symbols {
		s, err := model.NewPriceSeries(sym, bySymbol[sym])
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func parseRow(symbol string, field func(string) string) (model.PriceBar, error) {
	raw := field("date")
	if len(raw) > len(model.DateLayout) {
		raw = raw[:len(model.DateLayout)] // "2026-01-02 00:00:00"
	}
	date, err := time.Parse(model.DateLayout, raw)
	if err != nil {
		return model.PriceBar{}, fmt.Errorf("date %q: %w", field("date"), err)
	}
	bar := model.PriceBar{Symbol: symbol, Date: date}
	prices := []struct {
		name string
		dst  *float64
	}{
		{"open", &bar.Open}, {"high", &bar.High}, {"low", &bar.Low}, {"close", &bar.Close},
	}
	for _, p := range prices {
		v, err := strconv.ParseFloat(field(p.name), 64)
		if err != nil {
			return model.PriceBar{}, fmt.Errorf("%s: %w", p.name, err)
		}
		*p.dst = v
	}
	vol, err := strconv.ParseInt(field("volume"), 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(field("volume"), 64)
		if ferr != nil {
			return model.PriceBar{}, fmt.Errorf("volume: %w", err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return model.PriceBar{}, fmt.Errorf("%w: volume %q", model.ErrInvalidBar, field("volume"))
		}
		vol = int64(f)
	}
	bar.Volume = vol
	return bar, nil
}
