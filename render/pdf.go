package render

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"fitness-analyzer/utils"
)

// PDFExporter prints HTML reports to PDF with a headless Chrome.
type PDFExporter struct {
	chromeBin string
	timeout   time.Duration
	logger    *utils.Logger
}

// NewPDFExporter creates an exporter. An empty chromeBin triggers a lookup of
// the usual Chrome/Chromium locations.
func NewPDFExporter(chromeBin string, logger *utils.Logger) *PDFExporter {
	return &PDFExporter{chromeBin: chromeBin, timeout: time.Minute, logger: logger}
}

// Export writes html to a temporary file, loads it in Chrome and prints it to path.
func (e *PDFExporter) Export(ctx context.Context, html []byte, path string) error {
	chromeBin := e.chromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	if chromeBin == "" {
		return fmt.Errorf("pdf: no Chrome/Chromium binary found (set CHROME_BIN)")
	}
	e.logger.Debug("[pdf] Using browser binary: %s", chromeBin)

	tmp, err := os.CreateTemp("", "fitness-report-*.html")
	if err != nil {
		return fmt.Errorf("pdf: create temp html: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(html); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("pdf: write temp html: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("pdf: close temp html: %w", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.ExecPath(chromeBin),
	)

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+tmp.Name()),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithLandscape(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("pdf: print: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("pdf: create output dir: %w", err)
	}
	if err := os.WriteFile(path, pdf, 0644); err != nil {
		return fmt.Errorf("pdf: write %q: %w", path, err)
	}
	return nil
}

func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
