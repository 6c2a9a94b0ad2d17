package models

import "time"

// Listing is a single scraped vehicle advertisement, immutable once its run
// is persisted. PriceDifference always follows the buyer-favorable convention:
// MarketPrice - Price, so a positive value means the car is listed below its
// cohort's market estimate.
type Listing struct {
	ID              int64     `json:"id"`
	RunID           int64     `json:"run_id"`
	ExternalID      string    `json:"external_id" validate:"required"`
	Title           string    `json:"title" validate:"required"`
	Price           float64   `json:"price" validate:"gte=0"`
	MarketPrice     float64   `json:"market_price" validate:"gte=0"`
	PriceDifference float64   `json:"price_difference"`
	PriceDiffPct    float64   `json:"price_diff_pct"`
	Location        string    `json:"location"`
	Year            int       `json:"year"`
	Kilometers      int       `json:"kilometers" validate:"gte=0"`
	FuelType        string    `json:"fuel_type"`
	Transmission    string    `json:"transmission"`
	PowerHP         int       `json:"power_hp"`
	URL             string    `json:"url" validate:"omitempty,url"`
	ImageURLs       []string  `json:"image_urls"`
	DistanceKm      float64   `json:"distance_km"`
	CreatedAt       time.Time `json:"created_at"`
}

// Valid reports whether the listing carries both a usable price and a usable
// model year. Zero is treated as absent for both fields.
func (l Listing) Valid() bool {
	return l.Price > 0 && l.Year > 0
}
