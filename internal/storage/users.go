package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/wallasnipe/wallasnipe/internal/models"
)

const userColumns = `id, external_id, email, subscription_tier, subscription_status,
	subscription_ends_at, billing_customer_id, search_location, latitude, longitude,
	created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	var u models.User
	var endsAt sql.NullTime
	err := row.Scan(&u.ID, &u.ExternalID, &u.Email, &u.SubscriptionTier,
		&u.SubscriptionStatus, &endsAt, &u.BillingCustomerID, &u.SearchLocation,
		&u.Latitude, &u.Longitude, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if endsAt.Valid {
		u.SubscriptionEndsAt = &endsAt.Time
	}
	return &u, nil
}

// UpsertUser syncs a profile by external identity id. Conflicts resolve
// last-write-wins on the conflict key, relying on Postgres upsert semantics
// rather than application locking.
func (s *Store) UpsertUser(ctx context.Context, externalID, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO users (external_id, email)
		VALUES ($1, $2)
		ON CONFLICT (external_id) DO UPDATE
		SET email = EXCLUDED.email, updated_at = NOW()
		RETURNING `+userColumns,
		externalID, email)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("upsert user %s: %w", externalID, err)
	}
	return u, nil
}

// GetUserByExternalID resolves the identity provider's id to our user row.
func (s *Store) GetUserByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE external_id = $1`, externalID)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", externalID, err)
	}
	return u, nil
}

// SubscriptionUpdate carries the fields a billing webhook writes onto a user.
// Matching prefers the explicit external id when the event carries one and
// falls back to the stored billing customer reference.
type SubscriptionUpdate struct {
	ExternalID string
	CustomerID string
	Tier       string
	Status     string
	EndsAt     *time.Time
}

// ApplySubscription maps a billing event onto the user's subscription fields.
func (s *Store) ApplySubscription(ctx context.Context, upd SubscriptionUpdate) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET subscription_tier = $1, subscription_status = $2, subscription_ends_at = $3,
			billing_customer_id = CASE WHEN $4 <> '' THEN $4 ELSE billing_customer_id END,
			updated_at = NOW()
		WHERE ($5 <> '' AND external_id = $5)
			OR ($5 = '' AND $4 <> '' AND billing_customer_id = $4)`,
		upd.Tier, upd.Status, upd.EndsAt, upd.CustomerID, upd.ExternalID)
	if err != nil {
		return fmt.Errorf("apply subscription: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetLocation stores the user's saved search location.
func (s *Store) SetLocation(ctx context.Context, externalID, location string, lat, lng float64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET search_location = $1, latitude = $2, longitude = $3, updated_at = NOW()
		WHERE external_id = $4`,
		location, lat, lng, externalID)
	if err != nil {
		return fmt.Errorf("set location: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateCarRequest stores a "find me this car" submission.
func (s *Store) CreateCarRequest(ctx context.Context, r models.CarRequest) (*models.CarRequest, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO car_requests (user_id, brand, model, max_price, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		r.UserID, r.Brand, r.Model, r.MaxPrice, r.Notes,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert car request: %w", err)
	}
	return &r, nil
}

// CreateFeedback stores a feedback submission. UserID 0 means anonymous.
func (s *Store) CreateFeedback(ctx context.Context, f models.Feedback) (*models.Feedback, error) {
	var userID sql.NullInt64
	if f.UserID != 0 {
		userID = sql.NullInt64{Int64: f.UserID, Valid: true}
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO feedback (user_id, rating, message)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		userID, f.Rating, f.Message,
	).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert feedback: %w", err)
	}
	return &f, nil
}
