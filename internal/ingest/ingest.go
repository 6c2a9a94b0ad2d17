// Package ingest turns a scraped listing batch into a persisted run: it
// computes the MarketData summary, derives the price-difference fields and
// hands the whole batch to storage as one transaction.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wallasnipe/wallasnipe/internal/market"
	"github.com/wallasnipe/wallasnipe/internal/models"
)

// RunStore abstracts the storage layer for run writes.
type RunStore interface {
	CreateRun(ctx context.Context, cohort models.Cohort, md models.MarketData, listings []models.Listing) (*models.Run, error)
}

type Service struct {
	store RunStore
	now   func() time.Time
}

func New(store RunStore) *Service {
	return &Service{store: store, now: time.Now}
}

// Ingest persists one completed scan. An empty batch is legal: the MarketData
// and run rows are still created and the returned run carries an empty
// listings array. Listings without their own market estimate inherit the
// batch average so their price difference stays computable.
func (s *Service) Ingest(ctx context.Context, cohort models.Cohort, listings []models.Listing) (*models.Run, error) {
	md := market.Summarize(listings, s.now())

	for i := range listings {
		if listings[i].MarketPrice == 0 {
			listings[i].MarketPrice = md.AveragePrice
		}
		market.EnrichListing(&listings[i])
	}

	run, err := s.store.CreateRun(ctx, cohort, md, listings)
	if err != nil {
		return nil, fmt.Errorf("persist run for %s %s: %w", cohort.Brand, cohort.Model, err)
	}

	slog.Info("Ingested run",
		"brand", cohort.Brand,
		"model", cohort.Model,
		"listings", md.TotalListings,
		"valid", md.ValidListings,
		"avg_price", md.AveragePrice)
	return run, nil
}
