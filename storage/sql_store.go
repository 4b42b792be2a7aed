package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq" // driver: postgres
	_ "modernc.org/sqlite" // driver: sqlite

	"fitness-analyzer/models"
	"fitness-analyzer/utils"
)

// Driver selects the SQL backend.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// RunSummary is one stored analysis run.
type RunSummary struct {
	ID         string
	Source     string
	SampleSize int
	ShapiroW   sql.NullFloat64
	ShapiroP   sql.NullFloat64
	Slope      sql.NullFloat64
	Intercept  sql.NullFloat64
	Mu         float64
	Sigma      float64
	CreatedAt  time.Time
}

// ScoreRow is one stored per-listing score.
type ScoreRow struct {
	Title         string
	Link          string
	TotalFitness  float64
	ScaledPrice   float64
	ScaledMileage float64
}

// SQLStore persists analysis runs and their per-listing scores.
type SQLStore struct {
	db     *sql.DB
	driver Driver
}

// OpenSQLStore opens a connection, waits for the database to answer a ping
// (with retries), runs schema migrations and returns a ready store.
func OpenSQLStore(ctx context.Context, driver Driver, dsn string, retry *utils.RetryConfig) (*SQLStore, error) {
	var drvName string
	switch driver {
	case DriverPostgres:
		drvName = "postgres"
	case DriverSQLite:
		drvName = "sqlite"
	default:
		return nil, fmt.Errorf("sql: unsupported driver %q", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql: open: %w", err)
	}
	if driver == DriverSQLite {
		// One connection keeps in-memory databases alive and serialises writers.
		db.SetMaxOpenConns(1)
	}

	if retry == nil {
		retry = &utils.RetryConfig{MaxAttempts: 1}
	}
	if err := retry.Do(ctx, "sql ping", db.PingContext); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sql: ping: %w", err)
	}

	s := &SQLStore{db: db, driver: driver}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sql: migrate: %w", err)
	}
	return s, nil
}

func (s *SQLStore) migrate(ctx context.Context) error {
	schema := schemaPostgres
	if s.driver == DriverSQLite {
		schema = schemaSQLite
	}
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS analysis_runs (
	id          TEXT PRIMARY KEY,
	source      TEXT             NOT NULL DEFAULT '',
	sample_size INTEGER          NOT NULL,
	shapiro_w   DOUBLE PRECISION,
	shapiro_p   DOUBLE PRECISION,
	slope       DOUBLE PRECISION,
	intercept   DOUBLE PRECISION,
	mu          DOUBLE PRECISION NOT NULL,
	sigma       DOUBLE PRECISION NOT NULL,
	created_at  BIGINT           NOT NULL
);

CREATE TABLE IF NOT EXISTS listing_scores (
	id              BIGSERIAL PRIMARY KEY,
	run_id          TEXT             NOT NULL REFERENCES analysis_runs(id) ON DELETE CASCADE,
	title           TEXT             NOT NULL DEFAULT '',
	link            TEXT             NOT NULL DEFAULT '',
	price_fitness   DOUBLE PRECISION NOT NULL,
	mileage_fitness DOUBLE PRECISION NOT NULL,
	total_fitness   DOUBLE PRECISION NOT NULL,
	scaled_price    DOUBLE PRECISION NOT NULL,
	scaled_mileage  DOUBLE PRECISION NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_listing_scores_run   ON listing_scores(run_id);
CREATE INDEX IF NOT EXISTS idx_analysis_runs_created ON analysis_runs(created_at);
`

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS analysis_runs (
	id          TEXT PRIMARY KEY,
	source      TEXT    NOT NULL DEFAULT '',
	sample_size INTEGER NOT NULL,
	shapiro_w   REAL,
	shapiro_p   REAL,
	slope       REAL,
	intercept   REAL,
	mu          REAL    NOT NULL,
	sigma       REAL    NOT NULL,
	created_at  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS listing_scores (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id          TEXT NOT NULL REFERENCES analysis_runs(id) ON DELETE CASCADE,
	title           TEXT NOT NULL DEFAULT '',
	link            TEXT NOT NULL DEFAULT '',
	price_fitness   REAL NOT NULL,
	mileage_fitness REAL NOT NULL,
	total_fitness   REAL NOT NULL,
	scaled_price    REAL NOT NULL,
	scaled_mileage  REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_listing_scores_run    ON listing_scores(run_id);
CREATE INDEX IF NOT EXISTS idx_analysis_runs_created ON analysis_runs(created_at);
`

// SaveRun stores the run header and all scored listings in one transaction.
func (s *SQLStore) SaveRun(ctx context.Context, r *models.AnalysisReport) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sql: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var w, p, slope, intercept sql.NullFloat64
	if r.Normality != nil {
		w = sql.NullFloat64{Float64: r.Normality.Statistic, Valid: true}
		p = sql.NullFloat64{Float64: r.Normality.PValue, Valid: true}
	}
	if r.Regression != nil {
		slope = sql.NullFloat64{Float64: r.Regression.Slope, Valid: true}
		intercept = sql.NullFloat64{Float64: r.Regression.Intercept, Valid: true}
	}

	_, err = tx.ExecContext(ctx, s.rebind(`
		INSERT INTO analysis_runs (id, source, sample_size, shapiro_w, shapiro_p, slope, intercept, mu, sigma, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), r.RunID, r.Source, r.SampleSize, w, p, slope, intercept,
		r.Gaussian.Mu, r.Gaussian.Sigma, r.GeneratedAt.Unix())
	if err != nil {
		return fmt.Errorf("sql: insert run: %w", err)
	}

	const batchSize = 50
	for i := 0; i < len(r.Scored); i += batchSize {
		end := min(i+batchSize, len(r.Scored))
		if err := s.insertBatch(ctx, tx, r.RunID, r.Scored[i:end]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sql: commit: %w", err)
	}
	return nil
}

func (s *SQLStore) insertBatch(ctx context.Context, tx *sql.Tx, runID string, batch []models.ScoredListing) error {
	const cols = 8
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for _, sl := range batch {
		valueStrings = append(valueStrings, "(?,?,?,?,?,?,?,?)")
		p, m, t := sl.Listing.Scores()
		valueArgs = append(valueArgs,
			runID, sl.Listing.Title, sl.Listing.Link, p, m, t, sl.ScaledPrice, sl.ScaledMileage)
	}

	query := s.rebind(fmt.Sprintf(`
		INSERT INTO listing_scores (run_id, title, link, price_fitness, mileage_fitness, total_fitness, scaled_price, scaled_mileage)
		VALUES %s
	`, strings.Join(valueStrings, ",")))

	if _, err := tx.ExecContext(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("sql: insert scores: %w", err)
	}
	return nil
}

// FetchRuns returns the most recent runs, newest first.
func (s *SQLStore) FetchRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, source, sample_size, shapiro_w, shapiro_p, slope, intercept, mu, sigma, created_at
		FROM analysis_runs
		ORDER BY created_at DESC, id
		LIMIT ?
	`), limit)
	if err != nil {
		return nil, fmt.Errorf("sql: fetch runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		var created int64
		if err := rows.Scan(&r.ID, &r.Source, &r.SampleSize, &r.ShapiroW, &r.ShapiroP,
			&r.Slope, &r.Intercept, &r.Mu, &r.Sigma, &created); err != nil {
			return nil, fmt.Errorf("sql: scan run: %w", err)
		}
		r.CreatedAt = time.Unix(created, 0).UTC()
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// FetchScores returns the stored listing scores of one run in insertion order.
func (s *SQLStore) FetchScores(ctx context.Context, runID string) ([]ScoreRow, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT title, link, total_fitness, scaled_price, scaled_mileage
		FROM listing_scores
		WHERE run_id = ?
		ORDER BY id
	`), runID)
	if err != nil {
		return nil, fmt.Errorf("sql: fetch scores: %w", err)
	}
	defer rows.Close()

	var out []ScoreRow
	for rows.Next() {
		var r ScoreRow
		if err := rows.Scan(&r.Title, &r.Link, &r.TotalFitness, &r.ScaledPrice, &r.ScaledMileage); err != nil {
			return nil, fmt.Errorf("sql: scan score: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *SQLStore) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
