package accountcntrl

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/wallasnipe/wallasnipe/internal/apperr"
	"github.com/wallasnipe/wallasnipe/internal/auth"
	"github.com/wallasnipe/wallasnipe/internal/models"
)

type mockAccountStore struct {
	location    string
	lat, lng    float64
	carRequests []models.CarRequest
	feedback    []models.Feedback
}

func (m *mockAccountStore) SetLocation(_ context.Context, _ string, location string, lat, lng float64) error {
	m.location, m.lat, m.lng = location, lat, lng
	return nil
}

func (m *mockAccountStore) CreateCarRequest(_ context.Context, r models.CarRequest) (*models.CarRequest, error) {
	r.ID = int64(len(m.carRequests) + 1)
	m.carRequests = append(m.carRequests, r)
	return &r, nil
}

func (m *mockAccountStore) CreateFeedback(_ context.Context, f models.Feedback) (*models.Feedback, error) {
	f.ID = int64(len(m.feedback) + 1)
	m.feedback = append(m.feedback, f)
	return &f, nil
}

func accountTestApp(store AccountStore, user *models.User) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(apperr.StatusCode(err)).JSON(fiber.Map{"error": apperr.ClientMessage(err)})
		},
	})
	fakeAuth := func(c *fiber.Ctx) error {
		auth.SetCurrentUser(c, user)
		return c.Next()
	}
	RegisterAccountRoutes(app.Group("/api/v1"), store, fakeAuth)
	return app
}

func TestSetLocation(t *testing.T) {
	store := &mockAccountStore{}
	app := accountTestApp(store, &models.User{ID: 1, ExternalID: "user-1"})

	req := httptest.NewRequest("PUT", "/api/v1/account/location",
		strings.NewReader(`{"location":"Madrid","latitude":40.4,"longitude":-3.7}`))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("status: got %d, want 200", res.StatusCode)
	}
	if store.location != "Madrid" || store.lat != 40.4 || store.lng != -3.7 {
		t.Errorf("stored: %q %v %v", store.location, store.lat, store.lng)
	}
}

func TestSetLocation_MissingLocation(t *testing.T) {
	app := accountTestApp(&mockAccountStore{}, &models.User{ID: 1})

	req := httptest.NewRequest("PUT", "/api/v1/account/location", strings.NewReader(`{"latitude":40.4}`))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status: got %d, want 400", res.StatusCode)
	}
}

func TestCarRequest(t *testing.T) {
	store := &mockAccountStore{}
	app := accountTestApp(store, &models.User{ID: 7})

	req := httptest.NewRequest("POST", "/api/v1/car-requests",
		strings.NewReader(`{"brand":"seat","model":"leon","max_price":10000,"notes":"FR trim preferred"}`))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("status: got %d, want 201", res.StatusCode)
	}
	if len(store.carRequests) != 1 || store.carRequests[0].UserID != 7 {
		t.Errorf("stored requests: %+v", store.carRequests)
	}
}

func TestFeedback_Anonymous(t *testing.T) {
	store := &mockAccountStore{}
	app := accountTestApp(store, &models.User{ID: 1})

	// The feedback route is public; no auth middleware runs on it.
	req := httptest.NewRequest("POST", "/api/v1/feedback",
		strings.NewReader(`{"rating":4,"message":"found a great deal"}`))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("status: got %d, want 201", res.StatusCode)
	}
	if len(store.feedback) != 1 || store.feedback[0].UserID != 0 {
		t.Errorf("stored feedback: %+v", store.feedback)
	}
}
