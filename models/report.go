package models

import (
	"sort"
	"time"
)

// NormalityResult is the outcome of a Shapiro-Wilk test.
type NormalityResult struct {
	Statistic float64 `yaml:"statistic"`
	PValue    float64 `yaml:"p_value"`
	Alpha     float64 `yaml:"alpha"`
	Normal    bool    `yaml:"looks_normal"`
}

// Regression is a degree-1 least-squares fit y = Slope*x + Intercept.
type Regression struct {
	Slope     float64 `yaml:"slope"`
	Intercept float64 `yaml:"intercept"`
	RSquared  float64 `yaml:"r_squared"`
}

// At evaluates the fitted line at x.
func (r Regression) At(x float64) float64 {
	return r.Slope*x + r.Intercept
}

// GaussianFit holds the mean and population standard deviation of a sample.
type GaussianFit struct {
	Mu    float64 `yaml:"mu"`
	Sigma float64 `yaml:"sigma"`
}

// Histogram is a fixed-width binning. len(Edges) == len(Counts)+1.
type Histogram struct {
	Edges  []float64 `yaml:"edges"`
	Counts []int     `yaml:"counts"`
}

// BinWidth returns the width of a single bin, or 0 for an empty histogram.
func (h Histogram) BinWidth() float64 {
	if len(h.Edges) < 2 {
		return 0
	}
	return h.Edges[1] - h.Edges[0]
}

// ScoredListing pairs a listing with its scaled sub-scores.
type ScoredListing struct {
	Listing       *Listing
	ScaledPrice   float64
	ScaledMileage float64
}

// AnalysisReport holds everything computed over one input file.
type AnalysisReport struct {
	RunID       string
	GeneratedAt time.Time
	Source      string

	SampleSize int

	// Normality is nil when the test was skipped; NormalitySkipped explains why.
	Normality        *NormalityResult
	NormalitySkipped string

	PriceFitness   []float64
	MileageFitness []float64
	TotalFitness   []float64

	ScaledPrice   []float64
	ScaledMileage []float64
	Scored        []ScoredListing

	// Regression is nil when the fit was degenerate.
	Regression *Regression

	Gaussian  GaussianFit
	Histogram Histogram
	// CurveX/CurveY sample the Gaussian PDF scaled to histogram counts.
	CurveX []float64
	CurveY []float64
}

// Top returns up to n scored listings ordered by descending totalFitness.
// Ties keep input order.
func (r *AnalysisReport) Top(n int) []ScoredListing {
	out := make([]ScoredListing, len(r.Scored))
	copy(out, r.Scored)
	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].Listing.Fitness.TotalFitness > *out[j].Listing.Fitness.TotalFitness
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
