package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"StockInsight/internal/model"
)

// MockFetcher returns deterministic bars for development and testing.
type MockFetcher struct {
	Price float64
	End   time.Time
	Bars  map[string][]model.PriceBar
	Err   map[string]error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol string, days int) ([]model.PriceBar, error) {
	if err := m.Err[symbol]; err != nil {
		return nil, err
	}
	if bars, ok := m.Bars[symbol]; ok {
		return lastN(bars, days), nil
	}
	end := m.End
	if end.IsZero() {
		end = time.Now()
	}
	price := m.Price
	if price <= 0 {
		price = 100
	}
	return generateMockBars(symbol, price, end, days), nil
}

func generateMockBars(symbol string, basePrice float64, end time.Time, count int) []model.PriceBar {
	bars := make([]model.PriceBar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		if i%7 == 3 {
			p *= 0.99
		}
		bars[i] = model.PriceBar{
			Symbol: symbol,
			Date:   model.Day(end.AddDate(0, 0, -(count - 1 - i))),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000 + int64(i%5)*250000,
		}
	}
	return bars
}

// Collector fetches daily series for a list of symbols one at a time.
type Collector struct {
	Fetcher Fetcher
	Days    int
	// Pause is slept between consecutive requests to stay under the provider rate limit.
	Pause time.Duration
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, days int, pause time.Duration) *Collector {
	return &Collector{Fetcher: fetcher, Days: days, Pause: pause}
}

// Collect fetches every symbol in order. Symbols that fail are logged and
// skipped; an error is returned only when none succeed or ctx is cancelled.
func (c *Collector) Collect(ctx context.Context, symbols []string) ([]*model.PriceSeries, error) {
	if len(symbols) == 0 {
		return nil, errors.New("no symbols to collect")
	}
	var out []*model.PriceSeries
	var errs []error
	for i, symbol := range symbols {
		if i > 0 && c.Pause > 0 {
			log.Printf("[INFO] Waiting %s before next request (%s)", c.Pause, c.Fetcher.Name())
			select {
			case <-ctx.Done():
				return out, ctx.Err()
			case <-time.After(c.Pause):
			}
		}

		s, err := c.collectOne(ctx, symbol)
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			log.Printf("[WARN] %s: %v", symbol, err)
			errs = append(errs, err)
			continue
		}
		log.Printf("[INFO] %s: %d bars (%s to %s)", symbol, s.Len(),
			s.First().Date.Format(model.DateLayout), s.Last().Date.Format(model.DateLayout))
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no symbols collected: %w", errors.Join(errs...))
	}
	return out, nil
}

func (c *Collector) collectOne(ctx context.Context, symbol string) (*model.PriceSeries, error) {
	bars, err := c.Fetcher.FetchDailyBars(ctx, symbol, c.Days)
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars: %w", err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("fetch daily bars: %w", ErrNoData)
	}
	return model.NewPriceSeries(symbol, bars)
}
