package store

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"StockInsight/internal/model"
)

// Store persists price series between runs.
type Store interface {
	Save(name string, series ...*model.PriceSeries) error
	Load(name string) ([]*model.PriceSeries, error)
}

// CSVStore keeps each named dataset as <Dir>/<name>.csv.
type CSVStore struct {
	Dir string
	mu  sync.Mutex
}

// NewCSVStore creates the directory if needed.
func NewCSVStore(dir string) (*CSVStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &CSVStore{Dir: dir}, nil
}

// Path returns the file backing name.
func (s *CSVStore) Path(name string) string {
	if !strings.HasSuffix(name, ".csv") {
		name += ".csv"
	}
	return filepath.Join(s.Dir, name)
}

// Save replaces the dataset atomically: rows go to a temp file in Dir which
// is renamed over the target once fully written.
func (s *CSVStore) Save(name string, series ...*model.PriceSeries) error {
	if len(series) == 0 {
		return fmt.Errorf("save %s: %w", name, model.ErrEmptySeries)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.Dir, ".tmp-*.csv")
	if err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteCSV(tmp, series...); err != nil {
		tmp.Close()
		return fmt.Errorf("save %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), s.Path(name)); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}

	rows := 0
	for _, ps := range series {
		rows += ps.Len()
	}
	log.Printf("[INFO] Saved %d rows for %d symbols to %s", rows, len(series), s.Path(name))
	return nil
}

// Load reads a dataset written by Save. Files without a symbol column are
// attributed to the upper-cased dataset name.
func (s *CSVStore) Load(name string) ([]*model.PriceSeries, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	defer f.Close()

	series, err := ReadCSV(f, strings.ToUpper(strings.TrimSuffix(name, ".csv")))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return series, nil
}
