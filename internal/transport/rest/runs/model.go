package runscntrl

import "github.com/wallasnipe/wallasnipe/internal/models"

// ingestRequest is one scan result posted by the scraping side. Numeric
// listing fields simply default to 0 when absent.
type ingestRequest struct {
	Brand    string           `json:"brand" validate:"required"`
	Model    string           `json:"model" validate:"required"`
	FuelType string           `json:"fuel_type"`
	Listings []listingPayload `json:"listings" validate:"dive"`
}

type listingPayload struct {
	ExternalID   string   `json:"external_id" validate:"required"`
	Title        string   `json:"title"`
	Price        float64  `json:"price" validate:"gte=0"`
	MarketPrice  float64  `json:"market_price" validate:"gte=0"`
	Location     string   `json:"location"`
	Year         int      `json:"year" validate:"gte=0"`
	Kilometers   int      `json:"kilometers" validate:"gte=0"`
	FuelType     string   `json:"fuel_type"`
	Transmission string   `json:"transmission"`
	PowerHP      int      `json:"power_hp" validate:"gte=0"`
	URL          string   `json:"url"`
	ImageURLs    []string `json:"image_urls"`
	DistanceKm   float64  `json:"distance_km" validate:"gte=0"`
}

func (r ingestRequest) cohort() models.Cohort {
	return models.Cohort{Brand: r.Brand, Model: r.Model, FuelType: r.FuelType}
}

func (r ingestRequest) listings() []models.Listing {
	out := make([]models.Listing, 0, len(r.Listings))
	for _, p := range r.Listings {
		out = append(out, models.Listing{
			ExternalID:   p.ExternalID,
			Title:        p.Title,
			Price:        p.Price,
			MarketPrice:  p.MarketPrice,
			Location:     p.Location,
			Year:         p.Year,
			Kilometers:   p.Kilometers,
			FuelType:     p.FuelType,
			Transmission: p.Transmission,
			PowerHP:      p.PowerHP,
			URL:          p.URL,
			ImageURLs:    p.ImageURLs,
			DistanceKm:   p.DistanceKm,
		})
	}
	return out
}
