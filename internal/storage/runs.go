package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"github.com/wallasnipe/wallasnipe/internal/models"
)

// listingInsertBatchSize bounds the multi-row VALUES insert.
const listingInsertBatchSize = 100

const listingColumns = `id, run_id, external_id, title, price, market_price,
	price_difference, price_diff_pct, location, year, kilometers, fuel_type,
	transmission, power_hp, url, image_urls, distance_km, created_at`

// CreateRun persists one completed scan as a single transaction: the
// MarketData summary, the run row referencing it and the listing batch. A
// failure at any step rolls everything back; an empty listing batch is legal
// and still creates the MarketData and run rows. The complete joined run is
// read back and returned.
func (s *Store) CreateRun(ctx context.Context, cohort models.Cohort, md models.MarketData, listings []models.Listing) (*models.Run, error) {
	var runID int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var mdID int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO market_data (average_price, median_price, min_price, max_price, total_listings, valid_listings)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			md.AveragePrice, md.MedianPrice, md.MinPrice, md.MaxPrice, md.TotalListings, md.ValidListings,
		).Scan(&mdID)
		if err != nil {
			return fmt.Errorf("insert market data: %w", err)
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO runs (brand, model, fuel_type, market_data_id)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			cohort.Brand, cohort.Model, cohort.FuelType, mdID,
		).Scan(&runID)
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		for i := 0; i < len(listings); i += listingInsertBatchSize {
			end := i + listingInsertBatchSize
			if end > len(listings) {
				end = len(listings)
			}
			if err := insertListingBatch(ctx, tx, runID, listings[i:end]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetRun(ctx, runID)
}

func insertListingBatch(ctx context.Context, tx *sql.Tx, runID int64, batch []models.Listing) error {
	const cols = 16
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, l := range batch {
		base := idx * cols
		placeholders := make([]string, cols)
		for j := 0; j < cols; j++ {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			runID, l.ExternalID, l.Title, l.Price, l.MarketPrice,
			l.PriceDifference, l.PriceDiffPct, l.Location, l.Year, l.Kilometers,
			l.FuelType, l.Transmission, l.PowerHP, l.URL, pq.Array(l.ImageURLs), l.DistanceKm)
	}

	query := fmt.Sprintf(`
		INSERT INTO listings (run_id, external_id, title, price, market_price,
			price_difference, price_diff_pct, location, year, kilometers,
			fuel_type, transmission, power_hp, url, image_urls, distance_km)
		VALUES %s`, strings.Join(valueStrings, ","))

	if _, err := tx.ExecContext(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("insert listings: %w", err)
	}
	return nil
}

// GetRun fetches one run with its MarketData and listings.
func (s *Store) GetRun(ctx context.Context, id int64) (*models.Run, error) {
	runs, err := s.queryRuns(ctx, "WHERE r.id = $1", []interface{}{id}, 1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrNotFound
	}
	return &runs[0], nil
}

// RecentRuns returns runs newest-first within the lookback window
// (0 = all history), with MarketData and listings attached.
func (s *Store) RecentRuns(ctx context.Context, window time.Duration, limit int) ([]models.Run, error) {
	where := "WHERE 1=1"
	var args []interface{}
	if clause, wargs := windowClause("r.created_at", window, len(args)+1); clause != "" {
		where += clause
		args = append(args, wargs...)
	}
	return s.queryRuns(ctx, where, args, limit)
}

// RunsForCohort returns the runs matching a brand (and optionally a model)
// within the window, newest-first.
func (s *Store) RunsForCohort(ctx context.Context, brand, model string, window time.Duration) ([]models.Run, error) {
	where := "WHERE LOWER(r.brand) = LOWER($1)"
	args := []interface{}{brand}
	if model != "" {
		where += fmt.Sprintf(" AND LOWER(r.model) = LOWER($%d)", len(args)+1)
		args = append(args, model)
	}
	if clause, wargs := windowClause("r.created_at", window, len(args)+1); clause != "" {
		where += clause
		args = append(args, wargs...)
	}
	return s.queryRuns(ctx, where, args, 0)
}

// HasMarketData reports whether any MarketData row exists inside the window.
// Lets callers distinguish "nothing scanned yet" from "this cohort was never
// scanned".
func (s *Store) HasMarketData(ctx context.Context, window time.Duration) (bool, error) {
	query := "SELECT EXISTS (SELECT 1 FROM market_data WHERE 1=1"
	var args []interface{}
	if clause, wargs := windowClause("created_at", window, 1); clause != "" {
		query += clause
		args = append(args, wargs...)
	}
	query += ")"

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check market data: %w", err)
	}
	return exists, nil
}

// MarketDataIDs returns the ids of every MarketData row inside the window.
func (s *Store) MarketDataIDs(ctx context.Context, window time.Duration) ([]int64, error) {
	query := "SELECT id FROM market_data WHERE 1=1"
	var args []interface{}
	if clause, wargs := windowClause("created_at", window, 1); clause != "" {
		query += clause
		args = append(args, wargs...)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("market data ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan market data id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// RunsByMarketDataIDs fetches the runs referencing the given MarketData ids,
// splitting the id set into bounded batches to respect IN-clause limits and
// fetching batches concurrently. Order across batches is not guaranteed; the
// rollup fold is order-independent by design.
func (s *Store) RunsByMarketDataIDs(ctx context.Context, ids []int64, batchSize int) ([]models.Run, error) {
	if batchSize < 1 {
		batchSize = 1
	}
	batches := chunkIDs(ids, batchSize)

	var mu sync.Mutex
	var all []models.Run

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, batch := range batches {
		g.Go(func() error {
			runs, err := s.queryRuns(gctx, "WHERE r.market_data_id = ANY($1)", []interface{}{pq.Array(batch)}, 0)
			if err != nil {
				return err
			}
			mu.Lock()
			all = append(all, runs...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return all, nil
}

// chunkIDs splits ids into slices of at most size elements.
func chunkIDs(ids []int64, size int) [][]int64 {
	var chunks [][]int64
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// queryRuns is the shared run fetch: runs joined with market_data, listings
// loaded in one follow-up query keyed by run id.
func (s *Store) queryRuns(ctx context.Context, where string, args []interface{}, limit int) ([]models.Run, error) {
	query := `
		SELECT r.id, r.brand, r.model, r.fuel_type, r.market_data_id, r.created_at,
			md.average_price, md.median_price, md.min_price, md.max_price,
			md.total_listings, md.valid_listings, md.created_at
		FROM runs r
		JOIN market_data md ON md.id = r.market_data_id
		` + where + `
		ORDER BY r.created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []models.Run
	byID := make(map[int64]int)
	var runIDs []int64
	for rows.Next() {
		var r models.Run
		md := &models.MarketData{}
		if err := rows.Scan(
			&r.ID, &r.Cohort.Brand, &r.Cohort.Model, &r.Cohort.FuelType, &r.MarketDataID, &r.CreatedAt,
			&md.AveragePrice, &md.MedianPrice, &md.MinPrice, &md.MaxPrice,
			&md.TotalListings, &md.ValidListings, &md.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		md.ID = r.MarketDataID
		r.MarketData = md
		r.Listings = []models.Listing{}
		byID[r.ID] = len(runs)
		runIDs = append(runIDs, r.ID)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return runs, nil
	}

	lrows, err := s.db.QueryContext(ctx, `
		SELECT `+listingColumns+`
		FROM listings
		WHERE run_id = ANY($1)
		ORDER BY id`, pq.Array(runIDs))
	if err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}
	defer lrows.Close()

	for lrows.Next() {
		var l models.Listing
		if err := lrows.Scan(
			&l.ID, &l.RunID, &l.ExternalID, &l.Title, &l.Price, &l.MarketPrice,
			&l.PriceDifference, &l.PriceDiffPct, &l.Location, &l.Year, &l.Kilometers,
			&l.FuelType, &l.Transmission, &l.PowerHP, &l.URL, pq.Array(&l.ImageURLs),
			&l.DistanceKm, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		if idx, ok := byID[l.RunID]; ok {
			runs[idx].Listings = append(runs[idx].Listings, l)
		}
	}
	return runs, lrows.Err()
}
