package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gingfrederik/docx"

	"fitness-analyzer/models"
)

// topListings is how many best-scoring listings the document lists.
const topListings = 10

// DOCXWriter renders a human-readable report as a Word document.
type DOCXWriter struct {
	path string
}

func NewDOCXWriter(path string) *DOCXWriter {
	return &DOCXWriter{path: path}
}

func (d *DOCXWriter) Name() string { return "docx:" + d.path }

func (d *DOCXWriter) Write(r *models.AnalysisReport) error {
	if err := os.MkdirAll(filepath.Dir(d.path), 0755); err != nil {
		return fmt.Errorf("docx: create output dir: %w", err)
	}

	f := docx.NewFile()

	f.AddParagraph().AddText("Listing Fitness Analysis").Size(20)
	meta := f.AddParagraph().AddText(fmt.Sprintf("Run %s | %s | %d listings",
		r.RunID, r.GeneratedAt.Format("2006-01-02 15:04"), r.SampleSize))
	meta.Size(10)
	meta.Color("808080")
	f.AddParagraph()

	f.AddParagraph().AddText("Shapiro-Wilk Normality Test for Total Fitness").Size(16)
	if r.Normality == nil {
		f.AddParagraph().AddText(r.NormalitySkipped)
	} else {
		f.AddParagraph().AddText(fmt.Sprintf("Test Statistic: %.4f", r.Normality.Statistic))
		f.AddParagraph().AddText(fmt.Sprintf("P-value: %.4f", r.Normality.PValue))
		verdict := "Reject H0: sample does not look Gaussian."
		if r.Normality.Normal {
			verdict = "Fail to reject H0: sample looks Gaussian."
		}
		f.AddParagraph().AddText(fmt.Sprintf("At alpha %.2f: %s", r.Normality.Alpha, verdict))
	}

	f.AddParagraph().AddText("Scaled Price vs. Scaled Mileage Fitness").Size(16)
	if r.Regression == nil {
		f.AddParagraph().AddText("Linear regression not available (degenerate data).")
	} else {
		f.AddParagraph().AddText(fmt.Sprintf("y = %.4fx + %.4f (R² %.4f)",
			r.Regression.Slope, r.Regression.Intercept, r.Regression.RSquared))
	}

	f.AddParagraph().AddText("Total Fitness Distribution").Size(16)
	f.AddParagraph().AddText(fmt.Sprintf("Gaussian fit: μ=%.4f, σ=%.4f", r.Gaussian.Mu, r.Gaussian.Sigma))

	f.AddParagraph().AddText("Best Listings by Total Fitness").Size(16)
	for i, s := range r.Top(topListings) {
		_, _, total := s.Listing.Scores()
		f.AddParagraph().AddText(fmt.Sprintf("%d. %s (%.3f)", i+1, s.Listing.Title, total))
		if s.Listing.Link != "" {
			link := f.AddParagraph().AddText(s.Listing.Link)
			link.Size(9)
			link.Color("0000FF")
		}
	}

	if err := f.Save(d.path); err != nil {
		return fmt.Errorf("docx: save %q: %w", d.path, err)
	}
	return nil
}

func (d *DOCXWriter) Close() error { return nil }
