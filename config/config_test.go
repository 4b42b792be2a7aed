package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"INPUT_PATH", "HIST_BINS", "ALPHA", "PLOT_FORMAT", "STORE_DRIVER", "STORE_DSN"} {
		t.Setenv(k, "")
	}

	cfg := FromEnv()
	if cfg.InputPath != "./combined_results.json" {
		t.Errorf("InputPath: got %q", cfg.InputPath)
	}
	if cfg.HistBins != 20 {
		t.Errorf("HistBins: got %d, want 20", cfg.HistBins)
	}
	if cfg.Alpha != 0.05 {
		t.Errorf("Alpha: got %v, want 0.05", cfg.Alpha)
	}
	if cfg.StoreDriver != StoreNone {
		t.Errorf("StoreDriver: got %q, want %q", cfg.StoreDriver, StoreNone)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HIST_BINS", "30")
	t.Setenv("ALPHA", "0.01")
	t.Setenv("PLOT_FORMAT", ".SVG")
	t.Setenv("OUTPUT_DIR", "/tmp/out")

	cfg := FromEnv()
	if cfg.HistBins != 30 {
		t.Errorf("HistBins: got %d, want 30", cfg.HistBins)
	}
	if cfg.Alpha != 0.01 {
		t.Errorf("Alpha: got %v, want 0.01", cfg.Alpha)
	}
	if got, want := cfg.PlotPath("scatter"), filepath.Join("/tmp/out", "scatter.svg"); got != want {
		t.Errorf("PlotPath: got %q, want %q", got, want)
	}
}

func TestFromEnvBadNumbersFallBack(t *testing.T) {
	t.Setenv("HIST_BINS", "twenty")
	t.Setenv("ALPHA", "five percent")

	cfg := FromEnv()
	if cfg.HistBins != 20 || cfg.Alpha != 0.05 {
		t.Errorf("fallbacks: got bins=%d alpha=%v", cfg.HistBins, cfg.Alpha)
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{StoreDriver: StorePostgres, PostgresHost: "db", PostgresPort: "5432",
		PostgresUser: "u", PostgresPassword: "p", PostgresDB: "fitness_db", PostgresSSLMode: "disable"}
	if got := cfg.DSN(); !strings.Contains(got, "host=db") || !strings.Contains(got, "dbname=fitness_db") {
		t.Errorf("postgres DSN: got %q", got)
	}

	cfg = &Config{StoreDriver: StoreSQLite, OutputDir: "out"}
	if got := cfg.DSN(); !strings.HasPrefix(got, "file:") || !strings.Contains(got, "fitness.db") {
		t.Errorf("sqlite DSN: got %q", got)
	}

	cfg.StoreDSN = "file::memory:"
	if got := cfg.DSN(); got != "file::memory:" {
		t.Errorf("explicit DSN: got %q", got)
	}
}

func TestFromEnvScoring(t *testing.T) {
	t.Setenv("DEDUPE_LINKS", "true")
	t.Setenv("PRICE_WEIGHT", "")
	t.Setenv("MILEAGE_WEIGHT", "3")

	cfg := FromEnv()
	if !cfg.DedupeLinks {
		t.Error("DedupeLinks: got false, want true")
	}
	if cfg.PriceWeight != 5 || cfg.MileageWeight != 3 {
		t.Errorf("weights: got %v/%v, want 5/3", cfg.PriceWeight, cfg.MileageWeight)
	}

	t.Setenv("DEDUPE_LINKS", "maybe")
	if FromEnv().DedupeLinks {
		t.Error("unparseable bool should fall back to false")
	}
}
