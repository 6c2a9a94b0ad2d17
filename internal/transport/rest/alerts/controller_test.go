package alertscntrl

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/wallasnipe/wallasnipe/internal/apperr"
	"github.com/wallasnipe/wallasnipe/internal/auth"
	"github.com/wallasnipe/wallasnipe/internal/models"
	"github.com/wallasnipe/wallasnipe/internal/storage"
)

type mockAlertStore struct {
	alerts  map[int64]models.Alert
	deleted []int64
}

func newMockAlertStore(alerts ...models.Alert) *mockAlertStore {
	m := &mockAlertStore{alerts: make(map[int64]models.Alert)}
	for _, a := range alerts {
		m.alerts[a.ID] = a
	}
	return m
}

func (m *mockAlertStore) CreateAlert(_ context.Context, a models.Alert) (*models.Alert, error) {
	a.ID = int64(len(m.alerts) + 1)
	m.alerts[a.ID] = a
	return &a, nil
}

func (m *mockAlertStore) GetAlert(_ context.Context, id int64) (*models.Alert, error) {
	a, ok := m.alerts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &a, nil
}

func (m *mockAlertStore) ListAlerts(_ context.Context, userID int64) ([]models.Alert, error) {
	var out []models.Alert
	for _, a := range m.alerts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockAlertStore) UpdateAlert(_ context.Context, a models.Alert) (*models.Alert, error) {
	if _, ok := m.alerts[a.ID]; !ok {
		return nil, storage.ErrNotFound
	}
	m.alerts[a.ID] = a
	return &a, nil
}

func (m *mockAlertStore) DeleteAlert(_ context.Context, id int64) error {
	if _, ok := m.alerts[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.alerts, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func alertTestApp(store AlertStore, user *models.User) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(apperr.StatusCode(err)).JSON(fiber.Map{"error": apperr.ClientMessage(err)})
		},
	})
	fakeAuth := func(c *fiber.Ctx) error {
		auth.SetCurrentUser(c, user)
		return c.Next()
	}
	RegisterAlertRoutes(app.Group("/api/v1"), store, fakeAuth)
	return app
}

func TestCreateAlert(t *testing.T) {
	app := alertTestApp(newMockAlertStore(), &models.User{ID: 1})

	req := httptest.NewRequest("POST", "/api/v1/alerts/",
		strings.NewReader(`{"name":"cheap leons","brand":"seat","model":"leon","max_price":9000,"enabled":true}`))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusCreated {
		t.Errorf("status: got %d, want 201", res.StatusCode)
	}
}

func TestCreateAlert_MissingName(t *testing.T) {
	app := alertTestApp(newMockAlertStore(), &models.User{ID: 1})

	req := httptest.NewRequest("POST", "/api/v1/alerts/", strings.NewReader(`{"brand":"seat"}`))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status: got %d, want 400", res.StatusCode)
	}
}

func TestUpdateAlert_Ownership(t *testing.T) {
	store := newMockAlertStore(
		models.Alert{ID: 10, UserID: 1, Name: "mine"},
		models.Alert{ID: 20, UserID: 2, Name: "theirs"},
	)
	app := alertTestApp(store, &models.User{ID: 1})

	tests := []struct {
		name string
		path string
		want int
	}{
		{name: "own alert", path: "/api/v1/alerts/10", want: fiber.StatusOK},
		{name: "someone else's alert", path: "/api/v1/alerts/20", want: fiber.StatusForbidden},
		{name: "missing alert", path: "/api/v1/alerts/99", want: fiber.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("PUT", tt.path, strings.NewReader(`{"name":"renamed"}`))
			req.Header.Set("Content-Type", "application/json")
			res, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if res.StatusCode != tt.want {
				t.Errorf("status: got %d, want %d", res.StatusCode, tt.want)
			}
		})
	}

	if store.alerts[20].Name != "theirs" {
		t.Error("foreign alert must not be modified")
	}
}

func TestDeleteAlert(t *testing.T) {
	store := newMockAlertStore(
		models.Alert{ID: 10, UserID: 1},
		models.Alert{ID: 20, UserID: 2},
	)
	app := alertTestApp(store, &models.User{ID: 1})

	res, err := app.Test(httptest.NewRequest("DELETE", "/api/v1/alerts/10", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusNoContent {
		t.Errorf("status: got %d, want 204", res.StatusCode)
	}

	res, err = app.Test(httptest.NewRequest("DELETE", "/api/v1/alerts/20", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusForbidden {
		t.Errorf("status: got %d, want 403", res.StatusCode)
	}
	if _, ok := store.alerts[20]; !ok {
		t.Error("foreign alert must not be deleted")
	}
}
