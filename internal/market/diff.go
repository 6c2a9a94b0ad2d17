package market

import "github.com/wallasnipe/wallasnipe/internal/models"

// PriceDifference computes the canonical signed gap between a cohort's market
// estimate and a listing's asking price. Positive means buyer-favorable (the
// car is listed below its market estimate).
func PriceDifference(marketEstimate, askingPrice float64) (diff, pct float64) {
	diff = marketEstimate - askingPrice
	if marketEstimate > 0 {
		pct = diff / marketEstimate * 100
	}
	return diff, pct
}

// EnrichListing fills the derived price-difference fields on a listing from
// its asking price and market estimate.
func EnrichListing(l *models.Listing) {
	l.PriceDifference, l.PriceDiffPct = PriceDifference(l.MarketPrice, l.Price)
}

// categorySortAscending holds the vehicle categories whose feeds rank listings
// by ascending signed difference instead of the default descending order.
var categorySortAscending = map[string]bool{
	"classic": true,
}

// LessFor returns the comparator used to order two listings within a
// category's feed. The default ranks the most buyer-favorable difference
// first; categories in categorySortAscending invert that.
func LessFor(category string) func(a, b models.Listing) bool {
	if categorySortAscending[category] {
		return func(a, b models.Listing) bool {
			return a.PriceDifference < b.PriceDifference
		}
	}
	return func(a, b models.Listing) bool {
		return a.PriceDifference > b.PriceDifference
	}
}
