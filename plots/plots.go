// Package plots renders the diagnostic charts of an analysis run.
package plots

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"fitness-analyzer/models"
)

// Figure size, matching a 10x6 inch canvas.
const (
	figWidth  = 10 * vg.Inch
	figHeight = 6 * vg.Inch
)

var (
	pointColor = color.NRGBA{R: 31, G: 119, B: 180, A: 153} // alpha 0.6
	lineRed    = color.NRGBA{R: 214, G: 39, B: 40, A: 255}
	skyBlue    = color.NRGBA{R: 135, G: 206, B: 235, A: 179} // alpha 0.7
	gridGray   = color.Gray{Y: 200}
)

// ErrEmptyReport is returned when there is nothing to draw.
var ErrEmptyReport = errors.New("plots: report has no data")

// Scatter draws scaled price fitness against scaled mileage fitness with the
// regression line, and saves it to path. The image format follows the extension.
func Scatter(r *models.AnalysisReport, path string) error {
	p, err := ScatterPlot(r)
	if err != nil {
		return err
	}
	return save(p, path)
}

// ScatterPlot builds the scatter chart without saving it.
func ScatterPlot(r *models.AnalysisReport) (*plot.Plot, error) {
	if len(r.ScaledPrice) == 0 {
		return nil, ErrEmptyReport
	}

	p := plot.New()
	p.Title.Text = "Scaled Price Fitness vs. Scaled Mileage Fitness with Linear Regression"
	p.X.Label.Text = "Scaled Price Fitness (0=Min, 1=Max)"
	p.Y.Label.Text = "Scaled Mileage Fitness (0=Min, 1=Max)"
	p.Legend.Top = true
	p.Add(newGrid(true))

	pts := make(plotter.XYs, len(r.ScaledPrice))
	for i := range pts {
		pts[i].X = r.ScaledPrice[i]
		pts[i].Y = r.ScaledMileage[i]
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, fmt.Errorf("plots: scatter points: %w", err)
	}
	scatter.GlyphStyle.Color = pointColor
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	scatter.GlyphStyle.Radius = vg.Points(3)
	p.Add(scatter)
	p.Legend.Add("Data points", scatter)

	if reg := r.Regression; reg != nil {
		line := plotter.NewFunction(reg.At)
		line.XMin, line.XMax = -0.05, 1.05
		line.Color = lineRed
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("Linear Regression (y=%.2fx+%.2f)", reg.Slope, reg.Intercept), line)
	}

	p.X.Min, p.X.Max = -0.05, 1.05
	p.Y.Min, p.Y.Max = -0.05, 1.05
	return p, nil
}

// Histogram draws the totalFitness distribution with the scaled Gaussian fit and
// saves it to path.
func Histogram(r *models.AnalysisReport, path string) error {
	p, err := HistogramPlot(r)
	if err != nil {
		return err
	}
	return save(p, path)
}

// HistogramPlot builds the histogram chart without saving it.
func HistogramPlot(r *models.AnalysisReport) (*plot.Plot, error) {
	h := r.Histogram
	if len(h.Counts) == 0 {
		return nil, ErrEmptyReport
	}

	p := plot.New()
	p.Title.Text = "Distribution of Total Fitness Scores with Gaussian Fit"
	p.X.Label.Text = "Total Fitness (Distance to [1,1])"
	p.Y.Label.Text = "Number of Listings"
	p.Legend.Top = true
	p.Add(newGrid(false))

	bins := make([]plotter.HistogramBin, len(h.Counts))
	for i, c := range h.Counts {
		bins[i] = plotter.HistogramBin{Min: h.Edges[i], Max: h.Edges[i+1], Weight: float64(c)}
	}
	bars := &plotter.Histogram{
		Bins:      bins,
		Width:     h.BinWidth(),
		FillColor: skyBlue,
		LineStyle: draw.LineStyle{Color: color.Black, Width: vg.Points(0.7)},
	}
	p.Add(bars)
	p.Legend.Add("Actual Distribution", bars)

	if len(r.CurveX) > 1 {
		pts := make(plotter.XYs, len(r.CurveX))
		for i := range pts {
			pts[i].X, pts[i].Y = r.CurveX[i], r.CurveY[i]
		}
		curve, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("plots: gaussian curve: %w", err)
		}
		curve.Color = lineRed
		curve.Width = vg.Points(2)
		curve.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
		p.Add(curve)
		p.Legend.Add(fmt.Sprintf("Gaussian Fit (μ=%.2f, σ=%.2f)", r.Gaussian.Mu, r.Gaussian.Sigma), curve)
	}

	p.Y.Min = 0
	return p, nil
}

// newGrid returns a light grid; the histogram only keeps horizontal lines.
func newGrid(vertical bool) *plotter.Grid {
	g := plotter.NewGrid()
	g.Horizontal.Color = gridGray
	if vertical {
		g.Vertical.Color = gridGray
	} else {
		g.Vertical.Color = nil
	}
	return g
}

func save(p *plot.Plot, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("plots: create output dir: %w", err)
	}
	if err := p.Save(figWidth, figHeight, path); err != nil {
		return fmt.Errorf("plots: save %q: %w", path, err)
	}
	return nil
}

// SVG renders a plot to SVG bytes at the standard figure size.
func SVG(p *plot.Plot) ([]byte, error) {
	wt, err := p.WriterTo(figWidth, figHeight, "svg")
	if err != nil {
		return nil, fmt.Errorf("plots: svg writer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("plots: render svg: %w", err)
	}
	return buf.Bytes(), nil
}
