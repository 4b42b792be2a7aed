package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store drivers accepted in STORE_DRIVER.
const (
	StoreNone     = "none"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	InputPath  string
	OutputDir  string
	PlotFormat string

	HistBins int
	Alpha    float64
	LogLevel string

	MaxConcurrency int
	MaxRetries     int

	DedupeLinks   bool
	PriceWeight   float64
	MileageWeight float64

	// Optional sinks; an empty path disables the sink.
	CSVOutputPath   string
	SummaryYAMLPath string
	DocxReportPath  string
	PDFReportPath   string
	ChromeBin       string

	StoreDriver string
	StoreDSN    string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current process environment only.
func FromEnv() *Config {
	return &Config{
		InputPath:  getEnv("INPUT_PATH", "./combined_results.json"),
		OutputDir:  getEnv("OUTPUT_DIR", "./output"),
		PlotFormat: strings.TrimPrefix(strings.ToLower(getEnv("PLOT_FORMAT", "png")), "."),

		HistBins: getEnvInt("HIST_BINS", 20),
		Alpha:    getEnvFloat("ALPHA", 0.05),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 3),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),

		DedupeLinks:   getEnvBool("DEDUPE_LINKS", false),
		PriceWeight:   getEnvFloat("PRICE_WEIGHT", 5),
		MileageWeight: getEnvFloat("MILEAGE_WEIGHT", 2),

		CSVOutputPath:   getEnv("CSV_OUTPUT_PATH", "./output/scores.csv"),
		SummaryYAMLPath: getEnv("SUMMARY_YAML_PATH", "./output/summary.yaml"),
		DocxReportPath:  getEnv("DOCX_REPORT_PATH", ""),
		PDFReportPath:   getEnv("PDF_REPORT_PATH", ""),
		ChromeBin:       getEnv("CHROME_BIN", ""),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StoreNone)),
		StoreDSN:    getEnv("STORE_DSN", ""),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "analyzer"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "analyzer123"),
		PostgresDB:       getEnv("POSTGRES_DB", "fitness_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}
}

// DSN returns the connection string for the configured store driver.
// STORE_DSN wins when set; otherwise postgres is assembled from POSTGRES_* and
// sqlite defaults to a file in the output directory.
func (c *Config) DSN() string {
	if c.StoreDSN != "" {
		return c.StoreDSN
	}
	switch c.StoreDriver {
	case StoreSQLite:
		return "file:" + filepath.Join(c.OutputDir, "fitness.db") + "?_pragma=busy_timeout(5000)"
	default:
		return "host=" + c.PostgresHost +
			" port=" + c.PostgresPort +
			" user=" + c.PostgresUser +
			" password=" + c.PostgresPassword +
			" dbname=" + c.PostgresDB +
			" sslmode=" + c.PostgresSSLMode
	}
}

// PlotPath returns the output path for a plot with the configured image format.
func (c *Config) PlotPath(name string) string {
	return filepath.Join(c.OutputDir, name+"."+c.PlotFormat)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
