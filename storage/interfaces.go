package storage

import (
	"context"

	"fitness-analyzer/models"
)

// ReportWriter is the interface every file-based output sink satisfies.
type ReportWriter interface {
	Name() string
	Write(r *models.AnalysisReport) error
	Close() error
}

// RunStore persists analysis runs in a database.
type RunStore interface {
	SaveRun(ctx context.Context, r *models.AnalysisReport) error
	FetchRuns(ctx context.Context, limit int) ([]RunSummary, error)
	Close() error
}
