package market

import (
	"sort"
	"time"

	"github.com/wallasnipe/wallasnipe/internal/models"
)

// Summarize computes the MarketData summary persisted alongside a run.
// Price statistics cover valid listings only; an all-invalid batch yields a
// zeroed summary rather than an error.
func Summarize(listings []models.Listing, now time.Time) models.MarketData {
	md := models.MarketData{
		TotalListings: len(listings),
		CreatedAt:     now,
	}

	var prices []float64
	for _, l := range listings {
		if !l.Valid() {
			continue
		}
		prices = append(prices, l.Price)
	}
	md.ValidListings = len(prices)
	if len(prices) == 0 {
		return md
	}

	sort.Float64s(prices)
	md.MinPrice = prices[0]
	md.MaxPrice = prices[len(prices)-1]

	var sum float64
	for _, p := range prices {
		sum += p
	}
	md.AveragePrice = sum / float64(len(prices))

	mid := len(prices) / 2
	if len(prices)%2 == 0 {
		md.MedianPrice = (prices[mid-1] + prices[mid]) / 2
	} else {
		md.MedianPrice = prices[mid]
	}

	return md
}
