package services

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"fitness-analyzer/models"
	"fitness-analyzer/utils"
)

// ErrNoListings is returned when no listing carries a complete fitness record.
var ErrNoListings = errors.New("no listings with complete fitness scores")

// curveSamples is the number of points used to draw the Gaussian overlay.
const curveSamples = 100

// AnalysisService turns a set of scored listings into an AnalysisReport.
type AnalysisService struct {
	logger *utils.Logger
	alpha  float64
	bins   int
}

// NewAnalysisService creates the service. alpha is the normality test
// significance level and bins the number of histogram bins.
func NewAnalysisService(logger *utils.Logger, alpha float64, bins int) *AnalysisService {
	if alpha <= 0 || alpha >= 1 {
		alpha = 0.05
	}
	if bins < 1 {
		bins = 20
	}
	return &AnalysisService{logger: logger, alpha: alpha, bins: bins}
}

// Generate runs the normality test, scaling, regression and histogram fit.
func (s *AnalysisService) Generate(listings []*models.Listing) (*models.AnalysisReport, error) {
	report := &models.AnalysisReport{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
	}

	for i, l := range listings {
		if l == nil || !l.Fitness.Complete() {
			s.logger.Warn("[analysis] Listing #%d (%s) has no complete fitness record, skipping",
				i, truncate(titleOf(l), 40))
			continue
		}
		p, m, t := l.Scores()
		report.PriceFitness = append(report.PriceFitness, p)
		report.MileageFitness = append(report.MileageFitness, m)
		report.TotalFitness = append(report.TotalFitness, t)
		report.Scored = append(report.Scored, models.ScoredListing{Listing: l})
	}

	report.SampleSize = len(report.TotalFitness)
	if report.SampleSize == 0 {
		return nil, fmt.Errorf("analysis: generate: %w", ErrNoListings)
	}
	s.logger.Info("[analysis] Analysing %s listings", humanize.Comma(int64(report.SampleSize)))

	s.testNormality(report)

	report.ScaledPrice = MinMaxScale(report.PriceFitness)
	report.ScaledMileage = MinMaxScale(report.MileageFitness)
	for i := range report.Scored {
		report.Scored[i].ScaledPrice = report.ScaledPrice[i]
		report.Scored[i].ScaledMileage = report.ScaledMileage[i]
	}

	reg, err := LinearFit(report.ScaledPrice, report.ScaledMileage)
	if err != nil {
		s.logger.Warn("[analysis] Regression skipped: %v", err)
	} else {
		report.Regression = &reg
	}

	report.Gaussian = FitGaussian(report.TotalFitness)
	report.Histogram = NewHistogram(report.TotalFitness, s.bins)
	report.CurveX, report.CurveY = GaussianCurve(report.Gaussian, report.Histogram,
		report.SampleSize, curveSamples)

	return report, nil
}

func (s *AnalysisService) testNormality(report *models.AnalysisReport) {
	if report.SampleSize < 3 {
		report.NormalitySkipped = "Not enough data points (need >= 3) to perform Shapiro-Wilk test."
		return
	}
	if report.SampleSize > MaxShapiroAccurate {
		s.logger.Warn("[analysis] N=%d exceeds %d, Shapiro-Wilk p-value may not be accurate",
			report.SampleSize, MaxShapiroAccurate)
	}

	res, err := ShapiroWilk(report.TotalFitness)
	if err != nil {
		s.logger.Warn("[analysis] Normality test skipped: %v", err)
		report.NormalitySkipped = "Shapiro-Wilk test not applicable: " + err.Error()
		return
	}
	res.Alpha = s.alpha
	res.Normal = res.PValue > s.alpha
	report.Normality = &res
}

// Interpretation renders the decision for a normality result.
func Interpretation(r *models.NormalityResult) string {
	if r.Normal {
		return fmt.Sprintf("P-value (%.4f) > %g. Fail to reject H0. Sample looks Gaussian (normal).",
			r.PValue, r.Alpha)
	}
	return fmt.Sprintf("P-value (%.4f) <= %g. Reject H0. Sample does not look Gaussian (normal).",
		r.PValue, r.Alpha)
}

// Print writes the report to stdout.
func (s *AnalysisService) Print(r *models.AnalysisReport) {
	Fprint(os.Stdout, r)
}

// Fprint writes the console form of the report to w.
func Fprint(w io.Writer, r *models.AnalysisReport) {
	sep := strings.Repeat("═", 58)
	thin := strings.Repeat("─", 58)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  LISTING FITNESS ANALYSIS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "  Run      : %s\n", r.RunID)
	if r.Source != "" {
		fmt.Fprintf(w, "  Source   : %s\n", r.Source)
	}
	fmt.Fprintf(w, "  Listings : \033[1m%s\033[0m\n\n", humanize.Comma(int64(r.SampleSize)))

	fmt.Fprintf(w, "\033[1;33m  Shapiro-Wilk Normality Test for Total Fitness\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.Normality == nil {
		fmt.Fprintf(w, "  %s\n", r.NormalitySkipped)
	} else {
		fmt.Fprintf(w, "  Test Statistic: %.4f\n", r.Normality.Statistic)
		fmt.Fprintf(w, "  P-value: %.4f\n", r.Normality.PValue)
		fmt.Fprintf(w, "  Interpretation: %s\n", Interpretation(r.Normality))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Scaled Price vs. Scaled Mileage Fitness\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.Regression == nil {
		fmt.Fprintf(w, "  Linear regression not available (degenerate data)\n")
	} else {
		fmt.Fprintf(w, "  Linear Regression Slope (a factor): %v\n", r.Regression.Slope)
		fmt.Fprintf(w, "  Intercept: %.4f | R²: %.4f\n", r.Regression.Intercept, r.Regression.RSquared)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Total Fitness Distribution\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Gaussian Fit: μ=%.2f, σ=%.2f\n", r.Gaussian.Mu, r.Gaussian.Sigma)
	maxCount := 0
	for _, c := range r.Histogram.Counts {
		maxCount = max(maxCount, c)
	}
	for i, c := range r.Histogram.Counts {
		bar := ""
		if maxCount > 0 {
			bar = strings.Repeat("█", c*30/maxCount)
		}
		fmt.Fprintf(w, "  [%7.3f, %7.3f) %-30s %d\n", r.Histogram.Edges[i], r.Histogram.Edges[i+1], bar, c)
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func titleOf(l *models.Listing) string {
	if l == nil {
		return "<nil>"
	}
	return l.Title
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
