package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitness-analyzer/config"
	"fitness-analyzer/models"
	"fitness-analyzer/plots"
	"fitness-analyzer/render"
	"fitness-analyzer/services"
	"fitness-analyzer/storage"
	"fitness-analyzer/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()
	logger.SetLevel(utils.ParseLevel(cfg.LogLevel))

	inputPath := cfg.InputPath
	if len(os.Args) > 1 {
		inputPath = os.Args[1]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("=== Listing Fitness Analysis starting ===")
	logger.Info("Config | input: %s | output: %s | bins: %d | alpha: %g | concurrency: %d",
		inputPath, cfg.OutputDir, cfg.HistBins, cfg.Alpha, cfg.MaxConcurrency)

	listings, err := storage.LoadListings(inputPath)
	if err != nil {
		logger.Error("Failed to load listings: %v", err)
		os.Exit(1)
	}
	logger.Info("Loaded %d records from %s", len(listings), inputPath)

	listings = services.NewCleaner(logger, cfg.DedupeLinks).Clean(listings)

	if missing := storage.IncompleteIndexes(listings); len(missing) > 0 {
		logger.Info("%d records lack fitness scores (indexes %v), deriving them from price and mileage",
			len(missing), missing)
		weights := services.Weights{Price: cfg.PriceWeight, Mileage: cfg.MileageWeight}
		services.NewScorer(logger, weights).Fill(listings)
	}

	analysis := services.NewAnalysisService(logger, cfg.Alpha, cfg.HistBins)
	report, err := analysis.Generate(listings)
	if err != nil {
		logger.Error("Analysis failed: %v", err)
		os.Exit(1)
	}
	report.Source = inputPath
	analysis.Print(report)

	if err := writeOutputs(ctx, cfg, logger, report); err != nil {
		logger.Warn("Some outputs failed: %v", err)
	}

	fmt.Printf("  Done. Run %s | plots → %s\n\n", report.RunID, cfg.OutputDir)
}

// writeOutputs fans the report out to every configured sink. A failing sink is
// logged and does not stop the others.
func writeOutputs(ctx context.Context, cfg *config.Config, logger *utils.Logger, report *models.AnalysisReport) error {
	pool := utils.NewWorkerPool(cfg.MaxConcurrency)

	pool.Submit(func() error {
		path := cfg.PlotPath("scatter")
		if err := plots.Scatter(report, path); err != nil {
			logger.Error("Scatter plot failed: %v", err)
			return err
		}
		logger.Info("Scatter plot saved to %s", path)
		return nil
	})
	pool.Submit(func() error {
		path := cfg.PlotPath("histogram")
		if err := plots.Histogram(report, path); err != nil {
			logger.Error("Histogram plot failed: %v", err)
			return err
		}
		logger.Info("Histogram plot saved to %s", path)
		return nil
	})

	for _, w := range reportWriters(cfg, logger) {
		pool.Submit(func() error {
			defer w.Close()
			if err := w.Write(report); err != nil {
				logger.Error("%s write failed: %v", w.Name(), err)
				return err
			}
			logger.Info("Report written (%s)", w.Name())
			return nil
		})
	}

	if cfg.StoreDriver != config.StoreNone && cfg.StoreDriver != "" {
		pool.Submit(func() error { return saveRun(ctx, cfg, logger, report) })
	}

	if cfg.PDFReportPath != "" {
		pool.Submit(func() error { return exportPDF(ctx, cfg, logger, report) })
	}

	return pool.Wait()
}

func reportWriters(cfg *config.Config, logger *utils.Logger) []storage.ReportWriter {
	var writers []storage.ReportWriter

	if cfg.CSVOutputPath != "" {
		csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
		if err != nil {
			logger.Error("Failed to create CSV writer: %v", err)
		} else {
			writers = append(writers, csvWriter)
		}
	}
	if cfg.SummaryYAMLPath != "" {
		writers = append(writers, storage.NewYAMLWriter(cfg.SummaryYAMLPath))
	}
	if cfg.DocxReportPath != "" {
		writers = append(writers, storage.NewDOCXWriter(cfg.DocxReportPath))
	}
	return writers
}

func saveRun(ctx context.Context, cfg *config.Config, logger *utils.Logger, report *models.AnalysisReport) error {
	retry := &utils.RetryConfig{MaxAttempts: cfg.MaxRetries, BaseDelay: time.Second, Logger: logger}

	store, err := storage.OpenSQLStore(ctx, storage.Driver(cfg.StoreDriver), cfg.DSN(), retry)
	if err != nil {
		logger.Error("Failed to open %s store: %v", cfg.StoreDriver, err)
		if cfg.StoreDriver == config.StorePostgres {
			logger.Error("Make sure Docker is running: docker compose up -d")
		}
		return err
	}
	defer store.Close()

	if err := store.SaveRun(ctx, report); err != nil {
		logger.Error("Saving run failed: %v", err)
		return err
	}

	runs, err := store.FetchRuns(ctx, 5)
	if err != nil {
		logger.Warn("Could not list stored runs: %v", err)
		return nil
	}
	logger.Info("Run %s stored in %s (%d recent runs)", report.RunID, cfg.StoreDriver, len(runs))
	return nil
}

func exportPDF(ctx context.Context, cfg *config.Config, logger *utils.Logger, report *models.AnalysisReport) error {
	var scatterSVG, histSVG []byte
	if p, err := plots.ScatterPlot(report); err == nil {
		scatterSVG, _ = plots.SVG(p)
	}
	if p, err := plots.HistogramPlot(report); err == nil {
		histSVG, _ = plots.SVG(p)
	}

	html, err := render.HTML(report, scatterSVG, histSVG, 10)
	if err != nil {
		logger.Error("HTML report failed: %v", err)
		return err
	}

	if err := render.NewPDFExporter(cfg.ChromeBin, logger).Export(ctx, html, cfg.PDFReportPath); err != nil {
		logger.Error("PDF export failed: %v", err)
		return err
	}
	logger.Info("PDF report saved to %s", cfg.PDFReportPath)
	return nil
}
