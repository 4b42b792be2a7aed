package services

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"fitness-analyzer/models"
)

var (
	// ErrTooFewSamples is returned when a routine needs more observations than given.
	ErrTooFewSamples = errors.New("too few samples")
	// ErrZeroRange is returned when every observation is identical.
	ErrZeroRange = errors.New("all values are identical")
	// ErrDegenerateFit is returned when the regressor has no variance.
	ErrDegenerateFit = errors.New("regressor has zero variance")
)

// MinMaxScale maps data linearly onto [0,1]. A constant column maps to all zeros.
func MinMaxScale(data []float64) []float64 {
	out := make([]float64, len(data))
	if len(data) == 0 {
		return out
	}

	minVal, maxVal := floats.Min(data), floats.Max(data)
	if maxVal == minVal {
		return out
	}

	span := maxVal - minVal
	for i, x := range data {
		out[i] = (x - minVal) / span
	}
	return out
}

// LinearFit returns the least-squares line y = Slope*x + Intercept.
func LinearFit(x, y []float64) (models.Regression, error) {
	if len(x) != len(y) {
		return models.Regression{}, fmt.Errorf("linear fit: length mismatch %d != %d", len(x), len(y))
	}
	if len(x) < 2 {
		return models.Regression{}, fmt.Errorf("linear fit: %w (need >= 2, got %d)", ErrTooFewSamples, len(x))
	}
	if floats.Min(x) == floats.Max(x) {
		return models.Regression{}, fmt.Errorf("linear fit: %w", ErrDegenerateFit)
	}

	intercept, slope := stat.LinearRegression(x, y, nil, false)

	r2 := 1.0
	if floats.Min(y) != floats.Max(y) {
		r2 = stat.RSquared(x, y, nil, intercept, slope)
	}
	return models.Regression{Slope: slope, Intercept: intercept, RSquared: r2}, nil
}

// FitGaussian returns the sample mean and population standard deviation.
func FitGaussian(data []float64) models.GaussianFit {
	if len(data) == 0 {
		return models.GaussianFit{}
	}
	mu, sigma := stat.PopMeanStdDev(data, nil)
	return models.GaussianFit{Mu: mu, Sigma: sigma}
}

// NormalPDF evaluates the normal density at x. A zero sigma yields 0 everywhere.
func NormalPDF(x, mu, sigma float64) float64 {
	if sigma <= 0 {
		return 0
	}
	return distuv.Normal{Mu: mu, Sigma: sigma}.Prob(x)
}

// NewHistogram bins data into n equal-width bins spanning [min, max]. Every bin is
// half-open except the last, which also holds max. Constant data is centred in
// [v-0.5, v+0.5].
func NewHistogram(data []float64, n int) models.Histogram {
	if len(data) == 0 || n < 1 {
		return models.Histogram{}
	}

	lo, hi := floats.Min(data), floats.Max(data)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	edges := linspace(lo, hi, n+1)

	counts := make([]int, n)
	width := (hi - lo) / float64(n)
	for _, v := range data {
		idx := int((v - lo) / width)
		if idx >= n {
			idx = n - 1
		}
		if idx < 0 {
			idx = 0
		}
		// The division can land one bin off for values on an edge.
		if v < edges[idx] && idx > 0 {
			idx--
		} else if idx != n-1 && v >= edges[idx+1] {
			idx++
		}
		counts[idx]++
	}
	return models.Histogram{Edges: edges, Counts: counts}
}

// GaussianCurve samples the fitted normal PDF over the histogram range and scales
// it by n*binWidth so it overlays raw counts.
func GaussianCurve(fit models.GaussianFit, h models.Histogram, n, samples int) (xs, ys []float64) {
	if len(h.Edges) < 2 || samples < 2 || fit.Sigma <= 0 || math.IsNaN(fit.Sigma) {
		return nil, nil
	}

	xs = linspace(h.Edges[0], h.Edges[len(h.Edges)-1], samples)

	scale := float64(n) * h.BinWidth()
	ys = make([]float64, samples)
	for i, x := range xs {
		ys[i] = NormalPDF(x, fit.Mu, fit.Sigma) * scale
	}
	return xs, ys
}

// linspace returns n evenly spaced values with both endpoints pinned exactly.
func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	floats.Span(out, lo, hi)
	out[0], out[n-1] = lo, hi
	return out
}
