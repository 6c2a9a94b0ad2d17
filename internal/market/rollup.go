package market

import (
	"sort"

	"github.com/wallasnipe/wallasnipe/internal/models"
)

// Rollup folds runs across every brand and model into one in-memory
// structure for the dashboard overview. It is built to be fed in batches:
// AddRun may be called in any order and the global histograms come from the
// same per-listing pass as the per-brand accumulators. Space is bounded by
// distinct brands x models x years, time by total listings.
type Rollup struct {
	brands           map[string]*BrandRollup
	fuelDistribution map[string]int
	yearDistribution map[int]int
	priceRanges      map[string]int
	totalListings    int
	totalRuns        int
}

// BrandRollup accumulates per-brand statistics. Scans counts only runs that
// produced at least one valid listing; a run of all-invalid listings must not
// dilute the brand's averages.
type BrandRollup struct {
	Scans         int
	Price         RunningMean
	TotalListings int
	Models        map[string]*ModelRollup
}

type ModelRollup struct {
	Scans              int
	Price              RunningMean
	TotalListings      int
	YearPriceHistogram map[int]map[string]int
}

func NewRollup() *Rollup {
	return &Rollup{
		brands:           make(map[string]*BrandRollup),
		fuelDistribution: make(map[string]int),
		yearDistribution: make(map[int]int),
		priceRanges:      make(map[string]int),
	}
}

// AddRun folds one run into the rollup.
func (r *Rollup) AddRun(run models.Run) {
	r.totalRuns++

	brand := r.brands[run.Cohort.Brand]
	if brand == nil {
		brand = &BrandRollup{Models: make(map[string]*ModelRollup)}
		r.brands[run.Cohort.Brand] = brand
	}
	model := brand.Models[run.Cohort.Model]
	if model == nil {
		model = &ModelRollup{YearPriceHistogram: make(map[int]map[string]int)}
		brand.Models[run.Cohort.Model] = model
	}

	validInRun := 0
	for _, l := range run.Listings {
		r.totalListings++
		brand.TotalListings++
		model.TotalListings++

		fuel := l.FuelType
		if fuel == "" {
			fuel = FuelUnknown
		}
		r.fuelDistribution[fuel]++
		if l.Year > 0 {
			r.yearDistribution[l.Year]++
		}

		if !l.Valid() {
			continue
		}
		validInRun++
		brand.Price.Observe(l.Price)
		model.Price.Observe(l.Price)

		bucket := PriceBucket(l.Price)
		r.priceRanges[bucket]++
		if model.YearPriceHistogram[l.Year] == nil {
			model.YearPriceHistogram[l.Year] = make(map[string]int)
		}
		model.YearPriceHistogram[l.Year][bucket]++
	}

	if validInRun > 0 {
		brand.Scans++
		model.Scans++
	}
}

// RollupReport is the exportable snapshot of a Rollup.
type RollupReport struct {
	TotalRuns        int                    `json:"total_runs"`
	TotalListings    int                    `json:"total_listings"`
	FuelDistribution map[string]int         `json:"fuel_distribution"`
	YearDistribution map[int]int            `json:"year_distribution"`
	PriceRanges      map[string]int         `json:"price_ranges"`
	Brands           []BrandReport          `json:"brands"`
}

type BrandReport struct {
	Brand         string        `json:"brand"`
	Scans         int           `json:"scans"`
	AveragePrice  float64       `json:"average_price"`
	TotalListings int           `json:"total_listings"`
	Models        []ModelReport `json:"models"`
}

type ModelReport struct {
	Model              string                 `json:"model"`
	Scans              int                    `json:"scans"`
	AveragePrice       float64                `json:"average_price"`
	TotalListings      int                    `json:"total_listings"`
	YearPriceHistogram map[int]map[string]int `json:"year_price_histogram"`
}

// Report snapshots the rollup into a stable, brand-sorted shape. The maps are
// copied so the report stays fixed while AddRun keeps folding new runs.
func (r *Rollup) Report() RollupReport {
	report := RollupReport{
		TotalRuns:        r.totalRuns,
		TotalListings:    r.totalListings,
		FuelDistribution: copyMap(r.fuelDistribution),
		YearDistribution: copyMap(r.yearDistribution),
		PriceRanges:      copyMap(r.priceRanges),
	}

	for brandName, brand := range r.brands {
		br := BrandReport{
			Brand:         brandName,
			Scans:         brand.Scans,
			AveragePrice:  brand.Price.Mean(),
			TotalListings: brand.TotalListings,
		}
		for modelName, model := range brand.Models {
			br.Models = append(br.Models, ModelReport{
				Model:              modelName,
				Scans:              model.Scans,
				AveragePrice:       model.Price.Mean(),
				TotalListings:      model.TotalListings,
				YearPriceHistogram: copyHistogram(model.YearPriceHistogram),
			})
		}
		sort.Slice(br.Models, func(i, j int) bool { return br.Models[i].Model < br.Models[j].Model })
		report.Brands = append(report.Brands, br)
	}
	sort.Slice(report.Brands, func(i, j int) bool { return report.Brands[i].Brand < report.Brands[j].Brand })

	return report
}

func copyMap[K comparable](m map[K]int) map[K]int {
	out := make(map[K]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyHistogram(h map[int]map[string]int) map[int]map[string]int {
	out := make(map[int]map[string]int, len(h))
	for year, buckets := range h {
		out[year] = copyMap(buckets)
	}
	return out
}
