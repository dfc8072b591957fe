package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"StockInsight/internal/model"
)

// CompactSize is the number of bars Alpha Vantage returns for outputsize=compact.
const CompactSize = 100

// AlphaVantageFetcher implements Fetcher using the TIME_SERIES_DAILY endpoint.
type AlphaVantageFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewAlphaVantageFetcher creates a new fetcher with optional proxy support.
func NewAlphaVantageFetcher(apiKey, proxyURL string) *AlphaVantageFetcher {
	return &AlphaVantageFetcher{
		BaseURL: "https://www.alphavantage.co/query",
		APIKey:  apiKey,
		Client:  NewHTTPClient(proxyURL),
	}
}

func (f *AlphaVantageFetcher) Name() string { return "alphavantage" }

// avDaily is the TIME_SERIES_DAILY payload. Errors and throttling come back
// with status 200 and one of the message fields set.
type avDaily struct {
	ErrorMessage string                       `json:"Error Message"`
	Information  string                       `json:"Information"`
	Note         string                       `json:"Note"`
	Series       map[string]map[string]string `json:"Time Series (Daily)"`
}

func (f *AlphaVantageFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error) {
	outputSize := "compact"
	if days > CompactSize {
		outputSize = "full"
	}
	q := url.Values{}
	q.Set("function", "TIME_SERIES_DAILY")
	q.Set("symbol", symbol)
	q.Set("outputsize", outputSize)
	q.Set("apikey", f.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("alphavantage: status %d, body: %s", resp.StatusCode, string(body))
	}

	var payload avDaily
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}
	switch {
	case payload.ErrorMessage != "":
		return nil, fmt.Errorf("alphavantage api error: %s", payload.ErrorMessage)
	case payload.Information != "":
		return nil, fmt.Errorf("alphavantage information: %s", payload.Information)
	case payload.Note != "":
		return nil, fmt.Errorf("alphavantage note: %s", payload.Note)
	case len(payload.Series) == 0:
		return nil, fmt.Errorf("alphavantage %s: %w", symbol, ErrNoData)
	}

	bars := make([]model.PriceBar, 0, len(payload.Series))
	for date, values := range payload.Series {
		bar, err := parseAVBar(symbol, date, values)
		if err != nil {
			return nil, err
		}
		bars = append(bars, bar)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return lastN(bars, days), nil
}

func parseAVBar(symbol, date string, values map[string]string) (model.PriceBar, error) {
	d, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return model.PriceBar{}, fmt.Errorf("alphavantage date %q: %w", date, err)
	}
	bar := model.PriceBar{Symbol: symbol, Date: d}
	fields := []struct {
		key string
		dst *float64
	}{
		{"1. open", &bar.Open},
		{"2. high", &bar.High},
		{"3. low", &bar.Low},
		{"4. close", &bar.Close},
	}
	for _, fld := range fields {
		v, err := strconv.ParseFloat(values[fld.key], 64)
		if err != nil {
			return model.PriceBar{}, fmt.Errorf("alphavantage %s %s %q: %w", symbol, date, fld.key, err)
		}
		*fld.dst = v
	}
	vol, err := strconv.ParseInt(values["5. volume"], 10, 64)
	if err != nil {
		return model.PriceBar{}, fmt.Errorf("alphavantage %s %s volume: %w", symbol, date, err)
	}
	bar.Volume = vol
	return bar, nil
}
