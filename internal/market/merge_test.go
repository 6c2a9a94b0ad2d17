package market

import (
	"math"
	"testing"
	"time"

	"github.com/wallasnipe/wallasnipe/internal/models"
)

func runWith(created time.Time, listings ...models.Listing) models.Run {
	return models.Run{CreatedAt: created, Listings: listings}
}

func TestMergeRuns_DedupKeepsNewestRun(t *testing.T) {
	t1 := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	// Runs ordered newest-first: the "x" from the newer run must win.
	runs := []models.Run{
		runWith(t2, models.Listing{ExternalID: "x", PriceDifference: 5}),
		runWith(t1,
			models.Listing{ExternalID: "x", PriceDifference: 9},
			models.Listing{ExternalID: "y", PriceDifference: 2},
		),
	}

	page := MergeRuns(runs, 1, 10)
	if page.Total != 2 {
		t.Fatalf("Total: got %d, want 2", page.Total)
	}
	if page.Listings[0].ExternalID != "x" || page.Listings[0].PriceDifference != 5 {
		t.Errorf("first entry: got %s/%v, want x/5", page.Listings[0].ExternalID, page.Listings[0].PriceDifference)
	}
	if page.Listings[1].ExternalID != "y" || page.Listings[1].PriceDifference != 2 {
		t.Errorf("second entry: got %s/%v, want y/2", page.Listings[1].ExternalID, page.Listings[1].PriceDifference)
	}
}

func TestMergeRuns_RanksByMagnitude(t *testing.T) {
	now := time.Now()
	runs := []models.Run{
		runWith(now,
			models.Listing{ExternalID: "a", PriceDifference: -800},
			models.Listing{ExternalID: "b", PriceDifference: 300},
			models.Listing{ExternalID: "c"}, // missing diff ranks last
			models.Listing{ExternalID: "d", PriceDifference: 1200},
		),
	}

	page := MergeRuns(runs, 1, 10)
	for i := 0; i+1 < len(page.Listings); i++ {
		cur := math.Abs(page.Listings[i].PriceDifference)
		next := math.Abs(page.Listings[i+1].PriceDifference)
		if cur < next {
			t.Errorf("order violated at %d: |%v| < |%v|", i, cur, next)
		}
	}
	if got := page.Listings[0].ExternalID; got != "d" {
		t.Errorf("best deal: got %s, want d", got)
	}
	if got := page.Listings[len(page.Listings)-1].ExternalID; got != "c" {
		t.Errorf("worst deal: got %s, want c", got)
	}
}

func TestMergeRuns_PaginationReassembles(t *testing.T) {
	now := time.Now()
	var listings []models.Listing
	for i := 0; i < 23; i++ {
		listings = append(listings, models.Listing{
			ExternalID:      string(rune('a' + i)),
			PriceDifference: float64(i * 10),
		})
	}
	runs := []models.Run{runWith(now, listings...)}

	const pageSize = 5
	first := MergeRuns(runs, 1, pageSize)
	wantPages := (first.Total + pageSize - 1) / pageSize
	if first.TotalPages != wantPages {
		t.Fatalf("TotalPages: got %d, want %d", first.TotalPages, wantPages)
	}

	seen := make(map[string]int)
	var reassembled []models.Listing
	for p := 1; p <= first.TotalPages; p++ {
		page := MergeRuns(runs, p, pageSize)
		if page.Total != first.Total {
			t.Errorf("page %d Total: got %d, want %d", p, page.Total, first.Total)
		}
		for _, l := range page.Listings {
			seen[l.ExternalID]++
			reassembled = append(reassembled, l)
		}
	}

	if len(reassembled) != first.Total {
		t.Fatalf("reassembled %d listings, want %d", len(reassembled), first.Total)
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("listing %s appeared %d times across pages", id, n)
		}
	}
}

func TestMergeRuns_PageBeyondEnd(t *testing.T) {
	runs := []models.Run{runWith(time.Now(), models.Listing{ExternalID: "a"})}
	page := MergeRuns(runs, 99, 10)
	if len(page.Listings) != 0 {
		t.Errorf("expected empty page, got %d listings", len(page.Listings))
	}
	if page.Total != 1 {
		t.Errorf("Total: got %d, want 1", page.Total)
	}
}

func TestSortByCategory(t *testing.T) {
	listings := []models.Listing{
		{ExternalID: "a", PriceDifference: -500},
		{ExternalID: "b", PriceDifference: 900},
		{ExternalID: "c", PriceDifference: 100},
	}

	tests := []struct {
		name     string
		category string
		first    string
	}{
		{name: "default descending", category: "car", first: "b"},
		{name: "classic ascending", category: "classic", first: "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ls := append([]models.Listing(nil), listings...)
			SortByCategory(ls, tt.category)
			if ls[0].ExternalID != tt.first {
				t.Errorf("first: got %s, want %s", ls[0].ExternalID, tt.first)
			}
		})
	}
}
