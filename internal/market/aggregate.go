package market

import (
	"errors"
	"time"

	"github.com/wallasnipe/wallasnipe/internal/models"
)

// Distinct read-side conditions, so callers can tell "nothing scanned yet in
// this window" apart from "this cohort was never scanned".
var (
	ErrNoMarketData     = errors.New("no market data found")
	ErrCohortNotScanned = errors.New("no data found for this cohort")
)

// AggregateOptions selects what to aggregate. Model may be empty for a
// brand-wide aggregation. Window bounds the lookback (0 = all history) and is
// applied by the caller when fetching runs; it is carried here so reports can
// state what they cover.
type AggregateOptions struct {
	Brand  string
	Model  string
	Window time.Duration
}

// CohortStats is the descriptive-statistics report for one cohort across all
// matched runs.
type CohortStats struct {
	Brand         string        `json:"brand"`
	Model         string        `json:"model,omitempty"`
	Window        time.Duration `json:"-"`
	TotalScans    int           `json:"total_scans"`
	AveragePrice  float64       `json:"average_price"`
	TotalListings int           `json:"total_listings"`
	ValidListings int           `json:"valid_listings"`
	// ValidListingsPercentage is 100*valid/total and is NaN when
	// TotalListings is 0; consumers must guard.
	ValidListingsPercentage float64                `json:"valid_listings_percentage"`
	FuelDistribution        map[string]int         `json:"fuel_distribution"`
	YearDistribution        map[int]int            `json:"year_distribution"`
	PriceRanges             map[string]int         `json:"price_ranges"`
	YearPriceHistogram      map[int]map[string]int `json:"year_price_histogram,omitempty"`
}

// AggregateCohort computes descriptive statistics over the given runs, which
// the caller has already filtered to the cohort and recency window. The
// average is a true mean over all raw valid listing prices, never a mean of
// per-run means, so large runs weigh proportionally more. Every run counts
// toward TotalScans whether or not it produced valid listings.
func AggregateCohort(runs []models.Run, opts AggregateOptions) (*CohortStats, error) {
	if len(runs) == 0 {
		return nil, ErrCohortNotScanned
	}

	stats := &CohortStats{
		Brand:            opts.Brand,
		Model:            opts.Model,
		Window:           opts.Window,
		TotalScans:       len(runs),
		FuelDistribution: make(map[string]int),
		YearDistribution: make(map[int]int),
		PriceRanges:      make(map[string]int),
	}
	if opts.Model != "" {
		stats.YearPriceHistogram = make(map[int]map[string]int)
	}

	var price RunningMean
	for _, run := range runs {
		for _, l := range run.Listings {
			stats.TotalListings++

			fuel := l.FuelType
			if fuel == "" {
				fuel = FuelUnknown
			}
			stats.FuelDistribution[fuel]++
			if l.Year > 0 {
				stats.YearDistribution[l.Year]++
			}

			if !l.Valid() {
				continue
			}
			stats.ValidListings++
			price.Observe(l.Price)

			bucket := PriceBucket(l.Price)
			stats.PriceRanges[bucket]++
			if stats.YearPriceHistogram != nil {
				if stats.YearPriceHistogram[l.Year] == nil {
					stats.YearPriceHistogram[l.Year] = make(map[string]int)
				}
				stats.YearPriceHistogram[l.Year][bucket]++
			}
		}
	}

	stats.AveragePrice = price.Mean()
	stats.ValidListingsPercentage = float64(stats.ValidListings) / float64(stats.TotalListings) * 100

	return stats, nil
}
