package collector

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"StockInsight/internal/model"
)

// ErrNoData is returned when a provider answers without any usable bars.
var ErrNoData = errors.New("no data returned")

// Fetcher defines the interface for fetching daily price bars.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error)
	Name() string
}

// NewHTTPClient builds a client with a 30s timeout and optional proxy. It is
// shared by the fetchers and the notifier.
func NewHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

// lastN keeps the most recent n bars of a date-ascending slice.
func lastN(bars []model.PriceBar, n int) []model.PriceBar {
	if n > 0 && len(bars) > n {
		return bars[len(bars)-n:]
	}
	return bars
}
