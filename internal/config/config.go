package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"StockInsight/internal/calculator"
)

// Data providers accepted in data_source.provider.
const (
	ProviderAlphaVantage = "alphavantage"
	ProviderYahoo        = "yahoo"
	ProviderMock         = "mock"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider     string `yaml:"provider"`
		APIKey       string `yaml:"api_key"`
		Days         int    `yaml:"days"`
		PauseSeconds int    `yaml:"pause_seconds"`
	} `yaml:"data_source"`
	Symbols   []string `yaml:"symbols"`
	Benchmark string   `yaml:"benchmark"`
	Storage   struct {
		DataDir string `yaml:"data_dir"`
		Dataset string `yaml:"dataset"`
	} `yaml:"storage"`
	Report struct {
		OutputDir      string   `yaml:"output_dir"`
		Year           int      `yaml:"year"`
		Month          int      `yaml:"month"`
		VolumePeriod   string   `yaml:"volume_period"`
		FlatTolerance  float64  `yaml:"flat_tolerance"`
		MAWindows      []int    `yaml:"ma_windows"`
		InsightSymbols []string `yaml:"insight_symbols"`
	} `yaml:"report"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
		RunOnStart  bool   `yaml:"run_on_start"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then a .env file in the working
// directory, then applies environment variable overrides and defaults.
// A missing YAML or .env file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	// Environment variable overrides
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("STOCK_SYMBOLS"); v != "" {
		cfg.Symbols = splitList(v)
	}
	if v := os.Getenv("BENCHMARK_SYMBOL"); v != "" {
		cfg.Benchmark = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("REPORT_DIR"); v != "" {
		cfg.Report.OutputDir = v
	}
	if v := os.Getenv("CRON_REFRESH"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("RUN_ON_START"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Schedule.RunOnStart = b
		}
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	cfg.DataSource.Provider = strings.ToLower(strings.TrimSpace(cfg.DataSource.Provider))
	if cfg.DataSource.Provider == "" {
		if cfg.DataSource.APIKey != "" {
			cfg.DataSource.Provider = ProviderAlphaVantage
		} else {
			cfg.DataSource.Provider = ProviderYahoo
		}
	}
	if cfg.DataSource.Days == 0 {
		cfg.DataSource.Days = calculator.TradingDays
	}
	if cfg.DataSource.PauseSeconds == 0 && cfg.DataSource.Provider == ProviderAlphaVantage {
		// free tier allows 5 requests per minute
		cfg.DataSource.PauseSeconds = 15
	}
	if len(cfg.Symbols) == 0 {
		cfg.Symbols = []string{"NVDA", "AAPL", "CRM", "IBM"}
	}
	for i, s := range cfg.Symbols {
		cfg.Symbols[i] = strings.ToUpper(strings.TrimSpace(s))
	}
	if cfg.Benchmark == "" {
		cfg.Benchmark = "SPY"
	}
	cfg.Benchmark = strings.ToUpper(strings.TrimSpace(cfg.Benchmark))
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "data"
	}
	if cfg.Storage.Dataset == "" {
		cfg.Storage.Dataset = "stocks"
	}
	if cfg.Report.OutputDir == "" {
		cfg.Report.OutputDir = "reports"
	}
	if cfg.Report.VolumePeriod == "" {
		cfg.Report.VolumePeriod = string(calculator.LookbackYTD)
	}
	if len(cfg.Report.MAWindows) == 0 {
		cfg.Report.MAWindows = []int{5, 20}
	}
	if cfg.Schedule.RefreshCron == "" {
		cfg.Schedule.RefreshCron = "0 30 22 * * 1-5"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case ProviderAlphaVantage:
		if c.DataSource.APIKey == "" {
			return fmt.Errorf("data_source.api_key is required for %s", ProviderAlphaVantage)
		}
	case ProviderYahoo, ProviderMock:
	default:
		return fmt.Errorf("data_source.provider %q is not one of %s, %s, %s",
			c.DataSource.Provider, ProviderAlphaVantage, ProviderYahoo, ProviderMock)
	}
	if c.DataSource.Days <= 0 {
		return fmt.Errorf("data_source.days must be positive")
	}
	if c.DataSource.PauseSeconds < 0 {
		return fmt.Errorf("data_source.pause_seconds must not be negative")
	}
	if len(c.Symbols) == 0 {
		return fmt.Errorf("symbols is required")
	}
	for _, s := range c.Symbols {
		if s == "" {
			return fmt.Errorf("symbols contains an empty entry")
		}
	}
	if _, err := calculator.ParseLookback(c.Report.VolumePeriod); err != nil {
		return fmt.Errorf("report.volume_period: %w", err)
	}
	if c.Report.Month < 0 || c.Report.Month > 12 {
		return fmt.Errorf("report.month must be between 1 and 12 (0 for latest)")
	}
	if c.Report.FlatTolerance < 0 {
		return fmt.Errorf("report.flat_tolerance must not be negative")
	}
	for _, w := range c.Report.MAWindows {
		if w < 1 {
			return fmt.Errorf("report.ma_windows must be positive, got %d", w)
		}
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// Pause is the delay between provider requests.
func (c *Config) Pause() time.Duration {
	return time.Duration(c.DataSource.PauseSeconds) * time.Second
}

// AllSymbols returns the configured symbols followed by the benchmark, without duplicates.
func (c *Config) AllSymbols() []string {
	out := make([]string, 0, len(c.Symbols)+1)
	seen := make(map[string]bool, len(c.Symbols)+1)
	for _, s := range append(append([]string{}, c.Symbols...), c.Benchmark) {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// NotifyEnabled reports whether a Telegram chat is configured.
func (c *Config) NotifyEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
