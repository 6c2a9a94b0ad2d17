// Package storage is the Postgres access layer. One *sql.DB pool is opened at
// startup and shared by every handler; all queries take the request context.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("storage: not found")

type Store struct {
	db *sql.DB
}

// New opens a connection pool, waits for the database to come up and runs
// schema migrations.
func New(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id                   BIGSERIAL PRIMARY KEY,
			external_id          TEXT        UNIQUE NOT NULL,
			email                TEXT        NOT NULL DEFAULT '',
			subscription_tier    TEXT        NOT NULL DEFAULT '',
			subscription_status  TEXT        NOT NULL DEFAULT 'none',
			subscription_ends_at TIMESTAMPTZ,
			billing_customer_id  TEXT        NOT NULL DEFAULT '',
			search_location      TEXT        NOT NULL DEFAULT '',
			latitude             DOUBLE PRECISION NOT NULL DEFAULT 0,
			longitude            DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS market_data (
			id             BIGSERIAL PRIMARY KEY,
			average_price  NUMERIC(12,2) NOT NULL DEFAULT 0,
			median_price   NUMERIC(12,2) NOT NULL DEFAULT 0,
			min_price      NUMERIC(12,2) NOT NULL DEFAULT 0,
			max_price      NUMERIC(12,2) NOT NULL DEFAULT 0,
			total_listings INTEGER       NOT NULL DEFAULT 0,
			valid_listings INTEGER       NOT NULL DEFAULT 0,
			created_at     TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS runs (
			id             BIGSERIAL PRIMARY KEY,
			brand          TEXT        NOT NULL,
			model          TEXT        NOT NULL,
			fuel_type      TEXT        NOT NULL DEFAULT '',
			market_data_id BIGINT      NOT NULL REFERENCES market_data(id),
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_runs_brand_model ON runs(brand, model);
		CREATE INDEX IF NOT EXISTS idx_runs_created_at  ON runs(created_at DESC);

		CREATE TABLE IF NOT EXISTS listings (
			id               BIGSERIAL PRIMARY KEY,
			run_id           BIGINT        NOT NULL REFERENCES runs(id),
			external_id      TEXT          NOT NULL,
			title            TEXT          NOT NULL,
			price            NUMERIC(12,2) NOT NULL DEFAULT 0,
			market_price     NUMERIC(12,2) NOT NULL DEFAULT 0,
			price_difference NUMERIC(12,2) NOT NULL DEFAULT 0,
			price_diff_pct   NUMERIC(8,2)  NOT NULL DEFAULT 0,
			location         TEXT          NOT NULL DEFAULT '',
			year             INTEGER       NOT NULL DEFAULT 0,
			kilometers       INTEGER       NOT NULL DEFAULT 0,
			fuel_type        TEXT          NOT NULL DEFAULT '',
			transmission     TEXT          NOT NULL DEFAULT '',
			power_hp         INTEGER       NOT NULL DEFAULT 0,
			url              TEXT          NOT NULL DEFAULT '',
			image_urls       TEXT[]        NOT NULL DEFAULT '{}',
			distance_km      DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at       TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_listings_run_id      ON listings(run_id);
		CREATE INDEX IF NOT EXISTS idx_listings_external_id ON listings(external_id);

		CREATE TABLE IF NOT EXISTS alerts (
			id             BIGSERIAL PRIMARY KEY,
			user_id        BIGINT      NOT NULL REFERENCES users(id),
			name           TEXT        NOT NULL,
			brand          TEXT        NOT NULL DEFAULT '',
			model          TEXT        NOT NULL DEFAULT '',
			fuel_type      TEXT        NOT NULL DEFAULT '',
			max_price      NUMERIC(12,2) NOT NULL DEFAULT 0,
			min_year       INTEGER     NOT NULL DEFAULT 0,
			max_kilometers INTEGER     NOT NULL DEFAULT 0,
			filters        JSONB       NOT NULL DEFAULT '{}',
			enabled        BOOLEAN     NOT NULL DEFAULT TRUE,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_alerts_user_id ON alerts(user_id);

		CREATE TABLE IF NOT EXISTS car_requests (
			id         BIGSERIAL PRIMARY KEY,
			user_id    BIGINT      NOT NULL REFERENCES users(id),
			brand      TEXT        NOT NULL,
			model      TEXT        NOT NULL,
			max_price  NUMERIC(12,2) NOT NULL DEFAULT 0,
			notes      TEXT        NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS feedback (
			id         BIGSERIAL PRIMARY KEY,
			user_id    BIGINT,
			rating     INTEGER     NOT NULL DEFAULT 0,
			message    TEXT        NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	return err
}

// windowClause builds a created_at lookback condition for the given column.
// A zero window means all history and produces no condition.
func windowClause(column string, window time.Duration, argPos int) (string, []interface{}) {
	if window <= 0 {
		return "", nil
	}
	return fmt.Sprintf(" AND %s > $%d", column, argPos), []interface{}{time.Now().Add(-window)}
}

// inTx runs fn inside a transaction, rolling back on any error.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}
