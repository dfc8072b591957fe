package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"StockInsight/internal/analysis"
	"StockInsight/internal/collector"
	"StockInsight/internal/notifier"
	"StockInsight/internal/report"
	"StockInsight/internal/store"
)

// DashboardFile is the name of the multi-symbol report in OutputDir.
const DashboardFile = "dashboard.html"

// Pipeline wires collection, storage, analysis and reporting for one dataset.
type Pipeline struct {
	Collector *collector.Collector
	Store     store.Store
	Analyzer  *analysis.Analyzer
	Notifier  notifier.Notifier

	Dataset   string
	Symbols   []string
	OutputDir string
	// InsightSymbols selects single-symbol reports; empty means every non-benchmark symbol.
	InsightSymbols []string

	NewRunID func() string
}

// Result summarises a completed run.
type Result struct {
	RunID     string
	Dashboard *analysis.Dashboard
	Files     []string
	Manifest  string
	// PreviousRunID is the run recorded in the manifest this run replaced.
	PreviousRunID string
	Elapsed       time.Duration
}

func (p *Pipeline) runID() string {
	if p.NewRunID != nil {
		return p.NewRunID()
	}
	return uuid.NewString()
}

// Fetch downloads every symbol and replaces the stored dataset.
func (p *Pipeline) Fetch(ctx context.Context) error {
	series, err := p.Collector.Collect(ctx, p.Symbols)
	if err != nil {
		return fmt.Errorf("collect: %w", err)
	}
	if len(series) < len(p.Symbols) {
		log.Printf("[WARN] collected %d of %d symbols", len(series), len(p.Symbols))
	}
	if err := p.Store.Save(p.Dataset, series...); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

// Analyze loads the stored dataset and computes the dashboard.
func (p *Pipeline) Analyze(ctx context.Context) (*analysis.Dashboard, error) {
	series, err := p.Store.Load(p.Dataset)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	d, err := p.Analyzer.Analyze(ctx, series)
	if err != nil {
		return nil, err
	}
	d.RunID = p.runID()
	return d, nil
}

// Report renders the dashboard and insight reports for d into OutputDir.
func (p *Pipeline) Report(ctx context.Context, d *analysis.Dashboard) ([]string, error) {
	var files []string

	path := filepath.Join(p.OutputDir, DashboardFile)
	if err := report.WriteFile(path, func(w io.Writer) error { return report.RenderDashboard(w, d) }); err != nil {
		return nil, err
	}
	files = append(files, path)

	for _, a := range p.insightTargets(d) {
		if err := ctx.Err(); err != nil {
			return files, err
		}
		path := filepath.Join(p.OutputDir, fmt.Sprintf("insight_%s.html", strings.ToLower(a.Symbol)))
		err := report.WriteFile(path, func(w io.Writer) error {
			return report.RenderInsight(w, a, d.RunID, d.GeneratedAt)
		})
		if err != nil {
			return files, err
		}
		files = append(files, path)
	}
	return files, nil
}

func (p *Pipeline) insightTargets(d *analysis.Dashboard) []*analysis.SymbolAnalysis {
	if len(p.InsightSymbols) == 0 {
		return d.Symbols
	}
	var out []*analysis.SymbolAnalysis
	for _, sym := range p.InsightSymbols {
		a, ok := d.Lookup(sym)
		if !ok {
			log.Printf("[WARN] insight report: %s not in dataset", sym)
			continue
		}
		out = append(out, a)
	}
	return out
}

// Run fetches, stores, analyzes, renders, records the manifest and notifies.
// A failed notification is logged but does not fail the run.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	started := time.Now()
	if err := p.Fetch(ctx); err != nil {
		return nil, err
	}
	d, err := p.Analyze(ctx)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] run %s: analyzed %d symbols", d.RunID, len(d.Symbols))

	files, err := p.Report(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", d.RunID, err)
	}

	if p.Notifier != nil {
		if err := p.Notifier.Send(ctx, report.FormatDigest(d)); err != nil {
			log.Printf("[WARN] run %s: notify: %v", d.RunID, err)
		}
	}

	res := &Result{RunID: d.RunID, Dashboard: d, Files: files, Elapsed: time.Since(started)}
	manifest := filepath.Join(p.OutputDir, ManifestFile)
	if prev, err := LoadManifest(manifest); err != nil {
		log.Printf("[WARN] run %s: previous manifest: %v", d.RunID, err)
	} else if prev != nil {
		res.PreviousRunID = prev.RunID
		log.Printf("[INFO] run %s replaces run %s from %s", d.RunID, prev.RunID, prev.GeneratedAt.Format(time.RFC3339))
	}
	if err := SaveManifest(manifest, newManifest(p.Dataset, res)); err != nil {
		return nil, fmt.Errorf("run %s: save manifest: %w", d.RunID, err)
	}
	res.Manifest = manifest
	log.Printf("[INFO] run %s finished in %s, %d reports", res.RunID, res.Elapsed.Round(time.Millisecond), len(files))
	return res, nil
}
