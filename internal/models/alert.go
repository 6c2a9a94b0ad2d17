package models

import "time"

// Alert is a user-owned saved search. Alerts are the only user-mutable
// entity; every mutation must pass an ownership check against the caller's
// identity.
type Alert struct {
	ID            int64             `json:"id"`
	UserID        int64             `json:"user_id"`
	Name          string            `json:"name" validate:"required,max=120"`
	Brand         string            `json:"brand"`
	Model         string            `json:"model"`
	FuelType      string            `json:"fuel_type"`
	MaxPrice      float64           `json:"max_price" validate:"gte=0"`
	MinYear       int               `json:"min_year" validate:"gte=0"`
	MaxKilometers int               `json:"max_kilometers" validate:"gte=0"`
	Filters       map[string]string `json:"filters,omitempty"`
	Enabled       bool              `json:"enabled"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// CarRequest is a free-form "find me this car" submission.
type CarRequest struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Brand     string    `json:"brand" validate:"required"`
	Model     string    `json:"model" validate:"required"`
	MaxPrice  float64   `json:"max_price" validate:"gte=0"`
	Notes     string    `json:"notes" validate:"max=2000"`
	CreatedAt time.Time `json:"created_at"`
}

// Feedback is a free-form feedback submission, optionally anonymous.
type Feedback struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id,omitempty"`
	Rating    int       `json:"rating" validate:"gte=0,lte=5"`
	Message   string    `json:"message" validate:"required,max=4000"`
	CreatedAt time.Time `json:"created_at"`
}
