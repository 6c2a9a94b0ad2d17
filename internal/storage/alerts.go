package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wallasnipe/wallasnipe/internal/models"
)

const alertColumns = `id, user_id, name, brand, model, fuel_type, max_price,
	min_year, max_kilometers, filters, enabled, created_at, updated_at`

func scanAlert(row interface{ Scan(...interface{}) error }) (*models.Alert, error) {
	var a models.Alert
	var filters []byte
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Brand, &a.Model, &a.FuelType,
		&a.MaxPrice, &a.MinYear, &a.MaxKilometers, &filters, &a.Enabled,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(filters) > 0 {
		if err := json.Unmarshal(filters, &a.Filters); err != nil {
			return nil, fmt.Errorf("decode alert filters: %w", err)
		}
	}
	return &a, nil
}

func encodeFilters(filters map[string]string) ([]byte, error) {
	if filters == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(filters)
}

// CreateAlert inserts a new alert for its owner and returns the stored row.
func (s *Store) CreateAlert(ctx context.Context, a models.Alert) (*models.Alert, error) {
	filters, err := encodeFilters(a.Filters)
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO alerts (user_id, name, brand, model, fuel_type, max_price, min_year, max_kilometers, filters, enabled)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+alertColumns,
		a.UserID, a.Name, a.Brand, a.Model, a.FuelType, a.MaxPrice, a.MinYear, a.MaxKilometers, filters, a.Enabled)
	created, err := scanAlert(row)
	if err != nil {
		return nil, fmt.Errorf("insert alert: %w", err)
	}
	return created, nil
}

// GetAlert fetches an alert by id regardless of owner; ownership decisions
// belong to the caller so Forbidden and NotFound stay distinguishable.
func (s *Store) GetAlert(ctx context.Context, id int64) (*models.Alert, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+alertColumns+` FROM alerts WHERE id = $1`, id)
	a, err := scanAlert(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get alert %d: %w", id, err)
	}
	return a, nil
}

// ListAlerts returns all alerts owned by a user, newest first.
func (s *Store) ListAlerts(ctx context.Context, userID int64) ([]models.Alert, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+alertColumns+` FROM alerts WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	alerts := []models.Alert{}
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		alerts = append(alerts, *a)
	}
	return alerts, rows.Err()
}

// UpdateAlert rewrites an alert's filter fields. The caller must have
// verified ownership already.
func (s *Store) UpdateAlert(ctx context.Context, a models.Alert) (*models.Alert, error) {
	filters, err := encodeFilters(a.Filters)
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx, `
		UPDATE alerts
		SET name = $1, brand = $2, model = $3, fuel_type = $4, max_price = $5,
			min_year = $6, max_kilometers = $7, filters = $8, enabled = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING `+alertColumns,
		a.Name, a.Brand, a.Model, a.FuelType, a.MaxPrice, a.MinYear, a.MaxKilometers, filters, a.Enabled, a.ID)
	updated, err := scanAlert(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update alert %d: %w", a.ID, err)
	}
	return updated, nil
}

// DeleteAlert removes an alert. The caller must have verified ownership.
func (s *Store) DeleteAlert(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM alerts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete alert %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
