package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"fitness-analyzer/models"
)

// CSVWriter writes per-listing raw and scaled scores to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"title", "link", "price", "mileage",
		"price_fitness", "mileage_fitness", "total_fitness",
		"scaled_price_fitness", "scaled_mileage_fitness",
	}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{path: path, file: f, writer: w}, nil
}

// Name identifies the sink in logs.
func (c *CSVWriter) Name() string { return "csv:" + c.path }

// Write appends one row per scored listing.
func (c *CSVWriter) Write(r *models.AnalysisReport) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range r.Scored {
		l := s.Listing
		p, m, t := l.Scores()
		row := []string{
			l.Title,
			l.Link,
			l.Price,
			l.Mileage,
			formatFloat(p),
			formatFloat(m),
			formatFloat(t),
			formatFloat(s.ScaledPrice),
			formatFloat(s.ScaledMileage),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
