package market

import (
	"math"
	"sort"

	"github.com/wallasnipe/wallasnipe/internal/models"
)

// Page is one slice of the ranked, deduplicated cross-run listing feed.
// Total always reports the full deduplicated set size, independent of
// pagination.
type Page struct {
	Listings   []models.Listing `json:"listings"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

const DefaultPageSize = 20

// MergeRuns flattens the listings of many runs into a single ranked feed.
// Runs must be ordered newest-first; deduplication by external ID keeps the
// first occurrence, so a listing re-scraped in a newer run wins over its
// older duplicates. The result is ordered descending by the magnitude of the
// price difference, best deals first regardless of sign. A missing difference
// ranks as magnitude 0.
func MergeRuns(runs []models.Run, page, pageSize int) Page {
	merged := Dedup(runs)
	sort.SliceStable(merged, func(i, j int) bool {
		return math.Abs(merged[i].PriceDifference) > math.Abs(merged[j].PriceDifference)
	})
	return Paginate(merged, page, pageSize)
}

// Dedup flattens newest-first runs into one listing slice with exactly one
// entry per external ID, keeping the first occurrence.
func Dedup(runs []models.Run) []models.Listing {
	seen := make(map[string]struct{})
	var merged []models.Listing
	for _, run := range runs {
		for _, l := range run.Listings {
			if _, dup := seen[l.ExternalID]; dup {
				continue
			}
			seen[l.ExternalID] = struct{}{}
			merged = append(merged, l)
		}
	}
	return merged
}

// Paginate slices an already-ordered listing set into one page. Out-of-range
// pages yield an empty page with correct totals.
func Paginate(merged []models.Listing, page, pageSize int) Page {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	total := len(merged)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return Page{
		Listings:   merged[start:end],
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// SortByCategory orders listings in place using the category's comparator.
// Unlike MergeRuns' magnitude ranking, this respects the signed difference
// and the per-category direction policy.
func SortByCategory(listings []models.Listing, category string) {
	less := LessFor(category)
	sort.SliceStable(listings, func(i, j int) bool {
		return less(listings[i], listings[j])
	})
}
