package alertscntrl

import "github.com/wallasnipe/wallasnipe/internal/models"

type alertRequest struct {
	Name          string            `json:"name" validate:"required,max=120"`
	Brand         string            `json:"brand"`
	Model         string            `json:"model"`
	FuelType      string            `json:"fuel_type"`
	MaxPrice      float64           `json:"max_price" validate:"gte=0"`
	MinYear       int               `json:"min_year" validate:"gte=0"`
	MaxKilometers int               `json:"max_kilometers" validate:"gte=0"`
	Filters       map[string]string `json:"filters"`
	Enabled       bool              `json:"enabled"`
}

func (r alertRequest) toModel(userID int64) models.Alert {
	return models.Alert{
		UserID:        userID,
		Name:          r.Name,
		Brand:         r.Brand,
		Model:         r.Model,
		FuelType:      r.FuelType,
		MaxPrice:      r.MaxPrice,
		MinYear:       r.MinYear,
		MaxKilometers: r.MaxKilometers,
		Filters:       r.Filters,
		Enabled:       r.Enabled,
	}
}
