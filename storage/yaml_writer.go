package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"fitness-analyzer/models"
)

// Summary is the machine-readable digest of a run written by YAMLWriter.
type Summary struct {
	RunID       string                  `yaml:"run_id"`
	GeneratedAt time.Time               `yaml:"generated_at"`
	Source      string                  `yaml:"source,omitempty"`
	SampleSize  int                     `yaml:"sample_size"`
	Normality   *models.NormalityResult `yaml:"normality,omitempty"`
	SkipReason  string                  `yaml:"normality_skipped,omitempty"`
	Regression  *models.Regression      `yaml:"regression,omitempty"`
	Gaussian    models.GaussianFit      `yaml:"gaussian"`
	Histogram   models.Histogram        `yaml:"histogram"`
}

// NewSummary extracts the summary fields from a report.
func NewSummary(r *models.AnalysisReport) Summary {
	return Summary{
		RunID:       r.RunID,
		GeneratedAt: r.GeneratedAt,
		Source:      r.Source,
		SampleSize:  r.SampleSize,
		Normality:   r.Normality,
		SkipReason:  r.NormalitySkipped,
		Regression:  r.Regression,
		Gaussian:    r.Gaussian,
		Histogram:   r.Histogram,
	}
}

// YAMLWriter writes the run summary as YAML.
type YAMLWriter struct {
	path string
}

// NewYAMLWriter returns a writer targeting path; directories are created on Write.
func NewYAMLWriter(path string) *YAMLWriter {
	return &YAMLWriter{path: path}
}

func (y *YAMLWriter) Name() string { return "yaml:" + y.path }

// Write marshals the summary and replaces the file atomically.
func (y *YAMLWriter) Write(r *models.AnalysisReport) error {
	data, err := yaml.Marshal(NewSummary(r))
	if err != nil {
		return fmt.Errorf("yaml: marshal summary: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(y.path), 0755); err != nil {
		return fmt.Errorf("yaml: create output dir: %w", err)
	}
	tmp := y.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("yaml: write %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, y.path); err != nil {
		return fmt.Errorf("yaml: rename: %w", err)
	}
	return nil
}

func (y *YAMLWriter) Close() error { return nil }

// ReadSummary loads a summary previously written by YAMLWriter.
func ReadSummary(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("yaml: read %q: %w", path, err)
	}
	var s Summary
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("yaml: parse summary: %w", err)
	}
	return &s, nil
}
