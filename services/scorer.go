package services

import (
	"fitness-analyzer/models"
	"fitness-analyzer/utils"
)

// Weights sets how much each sub-score contributes to totalFitness.
// Only the ratio matters.
type Weights struct {
	Price   float64
	Mileage float64
}

// DefaultWeights matches the search backend's defaults for the two always-present scores.
var DefaultWeights = Weights{Price: 5, Mileage: 2}

// Scorer completes fitness for listings that arrive without it or with only part of it.
type Scorer struct {
	logger  *utils.Logger
	weights Weights
}

// NewScorer creates a Scorer using the given weights.
func NewScorer(logger *utils.Logger, weights Weights) *Scorer {
	return &Scorer{logger: logger, weights: weights}
}

type limits struct {
	minPrice, maxPrice     float64
	minMileage, maxMileage float64
}

// Fill completes fitness for listings whose fitness object is absent or partial.
// Supplied sub-scores are kept. Missing ones are derived from limits taken over
// every listing with a parsed price and mileage:
//
//	priceFitness   = 1 - minmax(price)
//	mileageFitness = 1 - minmax(mileage)
//	totalFitness   = weighted mean of the two
//
// Listings that already carry complete fitness are left untouched.
// It returns the number of listings scored.
func (s *Scorer) Fill(listings []*models.Listing) int {
	totalWeight := s.weights.Price + s.weights.Mileage
	if totalWeight <= 0 {
		s.logger.Warn("[scorer] Weights sum to %.2f, cannot score listings", totalWeight)
		return 0
	}

	lim, haveLimits := s.limits(listings)

	scored := 0
	for _, l := range listings {
		if l == nil || l.Fitness.Complete() {
			continue
		}

		f := l.Fitness
		if f == nil {
			f = &models.Fitness{}
		}
		if f.PriceFitness == nil || f.MileageFitness == nil {
			if !haveLimits || !hasParsedValues(l) {
				continue
			}
			if f.PriceFitness == nil {
				f.PriceFitness = models.Float(1 - minMaxValue(l.PriceValue, lim.minPrice, lim.maxPrice))
			}
			if f.MileageFitness == nil {
				f.MileageFitness = models.Float(1 - minMaxValue(l.MileageValue, lim.minMileage, lim.maxMileage))
			}
		}
		if f.TotalFitness == nil {
			total := (*f.PriceFitness*s.weights.Price + *f.MileageFitness*s.weights.Mileage) / totalWeight
			f.TotalFitness = models.Float(total)
		}

		l.Fitness = f
		scored++
	}

	if scored > 0 {
		s.logger.Info("[scorer] Completed fitness for %d listings (price %.0f–%.0f, mileage %.0f–%.0f)",
			scored, lim.minPrice, lim.maxPrice, lim.minMileage, lim.maxMileage)
	}
	return scored
}

func (s *Scorer) limits(listings []*models.Listing) (limits, bool) {
	var lim limits
	found := false
	for _, l := range listings {
		if l == nil || !hasParsedValues(l) {
			continue
		}
		if !found {
			lim = limits{l.PriceValue, l.PriceValue, l.MileageValue, l.MileageValue}
			found = true
			continue
		}
		lim.minPrice = min(lim.minPrice, l.PriceValue)
		lim.maxPrice = max(lim.maxPrice, l.PriceValue)
		lim.minMileage = min(lim.minMileage, l.MileageValue)
		lim.maxMileage = max(lim.maxMileage, l.MileageValue)
	}
	return lim, found
}

func hasParsedValues(l *models.Listing) bool {
	return l.PriceValue > 0 && l.MileageValue > 0
}

// minMaxValue scales a single value into [0,1]; equal limits give 0.
func minMaxValue(v, lo, hi float64) float64 {
	if hi == lo {
		return 0
	}
	return (v - lo) / (hi - lo)
}
