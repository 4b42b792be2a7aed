package plots

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fitness-analyzer/models"
)

func testReport() *models.AnalysisReport {
	return &models.AnalysisReport{
		SampleSize:    5,
		ScaledPrice:   []float64{0, 0.25, 0.5, 0.75, 1},
		ScaledMileage: []float64{1, 0.8, 0.45, 0.3, 0},
		Regression:    &models.Regression{Slope: -0.98, Intercept: 0.99},
		Gaussian:      models.GaussianFit{Mu: 0.5, Sigma: 0.15},
		Histogram: models.Histogram{
			Edges:  []float64{0.2, 0.4, 0.6, 0.8},
			Counts: []int{1, 3, 1},
		},
		CurveX: []float64{0.2, 0.5, 0.8},
		CurveY: []float64{0.36, 2.66, 0.36},
	}
}

func TestScatterWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plots", "scatter.png")
	if err := Scatter(testReport(), path); err != nil {
		t.Fatalf("Scatter: %v", err)
	}
	assertNonEmpty(t, path)
}

func TestHistogramWritesSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "histogram.svg")
	if err := Histogram(testReport(), path); err != nil {
		t.Fatalf("Histogram: %v", err)
	}
	assertNonEmpty(t, path)

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "<svg") {
		t.Error("expected SVG output for .svg extension")
	}
}

func TestScatterPlotWithoutRegression(t *testing.T) {
	r := testReport()
	r.Regression = nil

	p, err := ScatterPlot(r)
	if err != nil {
		t.Fatal(err)
	}
	if p.X.Min != -0.05 || p.X.Max != 1.05 {
		t.Errorf("x range: got [%v, %v], want [-0.05, 1.05]", p.X.Min, p.X.Max)
	}
}

func TestHistogramPlotWithoutCurve(t *testing.T) {
	r := testReport()
	r.CurveX, r.CurveY = nil, nil
	if _, err := HistogramPlot(r); err != nil {
		t.Errorf("HistogramPlot without curve: %v", err)
	}
}

func TestPlotsRejectEmptyReport(t *testing.T) {
	empty := &models.AnalysisReport{}
	if _, err := ScatterPlot(empty); !errors.Is(err, ErrEmptyReport) {
		t.Errorf("ScatterPlot: got %v, want ErrEmptyReport", err)
	}
	if _, err := HistogramPlot(empty); !errors.Is(err, ErrEmptyReport) {
		t.Errorf("HistogramPlot: got %v, want ErrEmptyReport", err)
	}
}

func TestSaveUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scatter.bogus")
	if err := Scatter(testReport(), path); err == nil {
		t.Error("expected error for unsupported image format")
	}
}

func assertNonEmpty(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	if info.Size() == 0 {
		t.Errorf("%s is empty", path)
	}
}

func TestSVG(t *testing.T) {
	p, err := ScatterPlot(testReport())
	if err != nil {
		t.Fatal(err)
	}
	data, err := SVG(p)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("SVG output missing <svg element")
	}
}
