package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"StockInsight/internal/analysis"
	"StockInsight/internal/model"
)

// ManifestFile is the JSON summary of the latest run in OutputDir.
const ManifestFile = "run.json"

// Manifest records what a run produced.
type Manifest struct {
	RunID       string           `json:"run_id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Dataset     string           `json:"dataset"`
	Benchmark   string           `json:"benchmark,omitempty"`
	Symbols     []ManifestSymbol `json:"symbols"`
	Files       []string         `json:"files"`
	Elapsed     string           `json:"elapsed"`
}

// ManifestSymbol is the per-symbol part of a Manifest.
type ManifestSymbol struct {
	Symbol        string             `json:"symbol"`
	Bars          int                `json:"bars"`
	First         string             `json:"first"`
	Last          string             `json:"last"`
	Metrics       map[string]float64 `json:"metrics"`
	LowConfidence []string           `json:"low_confidence,omitempty"`
}

func newManifest(dataset string, res *Result) *Manifest {
	d := res.Dashboard
	m := &Manifest{
		RunID:       res.RunID,
		GeneratedAt: d.GeneratedAt,
		Dataset:     dataset,
		Files:       res.Files,
		Elapsed:     res.Elapsed.Round(time.Millisecond).String(),
	}
	all := d.Symbols
	if d.Benchmark != nil {
		m.Benchmark = d.Benchmark.Symbol
		all = append(append([]*analysis.SymbolAnalysis{}, d.Symbols...), d.Benchmark)
	}
	for _, a := range all {
		ms := ManifestSymbol{
			Symbol:  a.Symbol,
			Bars:    a.Series.Len(),
			First:   a.Series.First().Date.Format(model.DateLayout),
			Last:    a.Series.Last().Date.Format(model.DateLayout),
			Metrics: a.Metrics.Values,
		}
		for name, low := range a.Metrics.LowConfidence {
			if low {
				ms.LowConfidence = append(ms.LowConfidence, name)
			}
		}
		sort.Strings(ms.LowConfidence)
		m.Symbols = append(m.Symbols, ms)
	}
	return m
}

// LoadManifest reads a manifest from a JSON file. Returns nil if the file doesn't exist.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

// SaveManifest writes m to path, replacing any previous manifest atomically.
func SaveManifest(path string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
