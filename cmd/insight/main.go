package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StockInsight/internal/analysis"
	"StockInsight/internal/calculator"
	"StockInsight/internal/collector"
	"StockInsight/internal/config"
	"StockInsight/internal/notifier"
	"StockInsight/internal/pipeline"
	"StockInsight/internal/report"
	"StockInsight/internal/scheduler"
	"StockInsight/internal/store"
)

const usage = `Usage: insight [-config path] <command>

Commands:
  fetch      download daily bars and replace the stored dataset
  analyze    compute metrics from the stored dataset and print a summary
  report     analyze and write the HTML dashboard and insight reports
  run        fetch, analyze, report and notify once
  schedule   run on the configured cron schedule until interrupted
`

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	flag.StringVar(&cfgPath, "config", cfgPath, "path to the YAML config file")
	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), usage) }
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	p, n, err := build(cfg)
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cmd := flag.Arg(0); cmd {
	case "fetch":
		err = p.Fetch(ctx)
	case "analyze":
		var d *analysis.Dashboard
		if d, err = p.Analyze(ctx); err == nil {
			fmt.Print(report.FormatSummary(d))
		}
	case "report":
		var d *analysis.Dashboard
		if d, err = p.Analyze(ctx); err == nil {
			_, err = p.Report(ctx, d)
		}
	case "run":
		var res *pipeline.Result
		if res, err = p.Run(ctx); err == nil {
			fmt.Print(report.FormatSummary(res.Dashboard))
		}
	case "schedule":
		err = schedule(ctx, cfg, p, n)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("[FATAL] %v", err)
	}
}

func build(cfg *config.Config) (*pipeline.Pipeline, notifier.Notifier, error) {
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case config.ProviderAlphaVantage:
		fetcher = collector.NewAlphaVantageFetcher(cfg.DataSource.APIKey, cfg.Proxy)
	case config.ProviderMock:
		fetcher = &collector.MockFetcher{}
	default:
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	st, err := store.NewCSVStore(cfg.Storage.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("init store: %w", err)
	}

	var n notifier.Notifier = notifier.Noop{}
	if cfg.NotifyEnabled() {
		n = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, collector.NewHTTPClient(cfg.Proxy))
		log.Println("[INFO] Telegram digest enabled")
	}

	a := analysis.NewAnalyzer(cfg.Benchmark)
	a.MAWindows = cfg.Report.MAWindows
	a.Year = cfg.Report.Year
	a.Month = time.Month(cfg.Report.Month)
	a.FlatTolerance = cfg.Report.FlatTolerance
	// validated by config.Validate
	a.VolumePeriod, _ = calculator.ParseLookback(cfg.Report.VolumePeriod)

	return &pipeline.Pipeline{
		Collector:      collector.NewCollector(fetcher, cfg.DataSource.Days, cfg.Pause()),
		Store:          st,
		Analyzer:       a,
		Notifier:       n,
		Dataset:        cfg.Storage.Dataset,
		Symbols:        cfg.AllSymbols(),
		OutputDir:      cfg.Report.OutputDir,
		InsightSymbols: cfg.Report.InsightSymbols,
	}, n, nil
}

func schedule(ctx context.Context, cfg *config.Config, p *pipeline.Pipeline, n notifier.Notifier) error {
	sched := scheduler.NewScheduler(ctx, p, n)
	if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
		return err
	}
	sched.Start()

	if cfg.Schedule.RunOnStart {
		log.Println("[INFO] RUN_ON_START enabled, executing refresh now")
		go sched.RunNow()
	}

	log.Printf("[INFO] StockInsight is running (%s). Press Ctrl+C to stop.", cfg.Schedule.RefreshCron)
	<-ctx.Done()

	log.Println("[INFO] shutdown signal received, stopping...")
	sched.Stop()
	log.Println("[INFO] StockInsight stopped")
	return nil
}
