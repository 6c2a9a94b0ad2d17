package models

import "time"

// Cohort identifies what a run was scanning for: a brand, a model and an
// optional fuel type.
type Cohort struct {
	Brand    string `json:"brand" validate:"required"`
	Model    string `json:"model" validate:"required"`
	FuelType string `json:"fuel_type,omitempty"`
}

// MarketData is the price/volume summary computed for a run at ingestion
// time. Rows are never mutated after creation.
type MarketData struct {
	ID            int64     `json:"id"`
	AveragePrice  float64   `json:"average_price"`
	MedianPrice   float64   `json:"median_price"`
	MinPrice      float64   `json:"min_price"`
	MaxPrice      float64   `json:"max_price"`
	TotalListings int       `json:"total_listings"`
	ValidListings int       `json:"valid_listings"`
	CreatedAt     time.Time `json:"created_at"`
}

// Run is one completed market scan: a cohort, its computed MarketData and the
// batch of listings the scan produced. Runs accumulate historically and are
// never deleted by the application.
type Run struct {
	ID           int64       `json:"id"`
	Cohort       Cohort      `json:"cohort"`
	MarketDataID int64       `json:"market_data_id"`
	MarketData   *MarketData `json:"market_data,omitempty"`
	Listings     []Listing   `json:"listings"`
	CreatedAt    time.Time   `json:"created_at"`
}
