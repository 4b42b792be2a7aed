package models

// Fitness holds the precomputed scores attached to a listing.
// A nil field means the key was absent from the input record.
type Fitness struct {
	PriceFitness   *float64 `json:"priceFitness"`
	MileageFitness *float64 `json:"mileageFitness"`
	TotalFitness   *float64 `json:"totalFitness"`
}

// Complete reports whether all three scores are present.
func (f *Fitness) Complete() bool {
	return f != nil && f.PriceFitness != nil && f.MileageFitness != nil && f.TotalFitness != nil
}

// Listing is one vehicle offer as exported by the search backend.
// Price and Mileage are kept as the raw marketplace text ("2 899 zł", " 290 000 km").
type Listing struct {
	Title    string   `json:"title"`
	Price    string   `json:"price"`
	Location string   `json:"location"`
	Link     string   `json:"link"`
	Mileage  string   `json:"mileage"`
	Fitness  *Fitness `json:"fitness,omitempty"`

	// Filled in by the cleaner; zero when the raw text could not be parsed.
	PriceValue   float64 `json:"-"`
	MileageValue float64 `json:"-"`
}

// Scores returns the three fitness values. Callers must check Fitness.Complete first.
func (l *Listing) Scores() (price, mileage, total float64) {
	return *l.Fitness.PriceFitness, *l.Fitness.MileageFitness, *l.Fitness.TotalFitness
}

// Float returns a pointer to v; used when building Fitness values.
func Float(v float64) *float64 {
	return &v
}
