package storage

import (
	"time"

	"fitness-analyzer/models"
)

func sampleReport() *models.AnalysisReport {
	listings := []*models.Listing{
		{Title: "Corolla 1.4", Link: "https://www.olx.pl/d/oferta/1", Price: "2 899 zł", Mileage: " 290 000 km",
			Fitness: &models.Fitness{PriceFitness: models.Float(0.83), MileageFitness: models.Float(-0.39), TotalFitness: models.Float(0.48)}},
		{Title: "Yaris, \"igła\"", Link: "https://www.olx.pl/d/oferta/2", Price: "15 500 zł", Mileage: "120 000 km",
			Fitness: &models.Fitness{PriceFitness: models.Float(0.20), MileageFitness: models.Float(0.40), TotalFitness: models.Float(0.26)}},
		{Title: "Auris", Link: "https://www.olx.pl/d/oferta/3", Price: "9 000 zł", Mileage: "200 000 km",
			Fitness: &models.Fitness{PriceFitness: models.Float(0.55), MileageFitness: models.Float(0.10), TotalFitness: models.Float(0.42)}},
	}

	scaledPrice := []float64{1, 0, 0.5396825396825397}
	scaledMileage := []float64{0, 1, 0.6329113924050633}
	scored := make([]models.ScoredListing, len(listings))
	for i, l := range listings {
		scored[i] = models.ScoredListing{Listing: l, ScaledPrice: scaledPrice[i], ScaledMileage: scaledMileage[i]}
	}

	return &models.AnalysisReport{
		RunID:          "6f1f7a52-3c1e-4c55-9a3a-4f1b8f0e2d11",
		GeneratedAt:    time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
		Source:         "combined_results.json",
		SampleSize:     3,
		Normality:      &models.NormalityResult{Statistic: 0.9643, PValue: 0.6369, Alpha: 0.05, Normal: true},
		PriceFitness:   []float64{0.83, 0.20, 0.55},
		MileageFitness: []float64{-0.39, 0.40, 0.10},
		TotalFitness:   []float64{0.48, 0.26, 0.42},
		ScaledPrice:    scaledPrice,
		ScaledMileage:  scaledMileage,
		Scored:         scored,
		Regression:     &models.Regression{Slope: -0.93, Intercept: 0.97, RSquared: 0.98},
		Gaussian:       models.GaussianFit{Mu: 0.3867, Sigma: 0.0929},
		Histogram: models.Histogram{
			Edges:  []float64{0.26, 0.37, 0.48},
			Counts: []int{1, 2},
		},
	}
}
