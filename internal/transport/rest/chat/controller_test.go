package chatcntrl

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/wallasnipe/wallasnipe/internal/apperr"
)

type mockStreamer struct {
	enabled bool
	chunks  []string
	gotMsg  string
}

func (m *mockStreamer) Enabled() bool { return m.enabled }

func (m *mockStreamer) StreamChat(_ context.Context, message string, out func(string) error) error {
	m.gotMsg = message
	for _, c := range m.chunks {
		if err := out(c); err != nil {
			return err
		}
	}
	return nil
}

func chatTestApp(s Streamer) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(apperr.StatusCode(err)).JSON(fiber.Map{"error": apperr.ClientMessage(err)})
		},
	})
	passthrough := func(c *fiber.Ctx) error { return c.Next() }
	RegisterChatRoutes(app.Group("/api/v1"), s, passthrough)
	return app
}

func TestChatStreamsChunks(t *testing.T) {
	streamer := &mockStreamer{enabled: true, chunks: []string{"Hola, ", "busca un ", "Seat Leon."}}
	app := chatTestApp(streamer)

	req := httptest.NewRequest("POST", "/api/v1/chat/", strings.NewReader(`{"message":"qué coche me recomiendas?"}`))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("status: got %d, want 200", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(body) != "Hola, busca un Seat Leon." {
		t.Errorf("body: got %q", body)
	}
	if streamer.gotMsg != "qué coche me recomiendas?" {
		t.Errorf("message forwarded: got %q", streamer.gotMsg)
	}
}

func TestChat_Disabled(t *testing.T) {
	app := chatTestApp(&mockStreamer{enabled: false})

	req := httptest.NewRequest("POST", "/api/v1/chat/", strings.NewReader(`{"message":"hola"}`))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", res.StatusCode)
	}
}

func TestChat_EmptyMessage(t *testing.T) {
	app := chatTestApp(&mockStreamer{enabled: true})

	req := httptest.NewRequest("POST", "/api/v1/chat/", strings.NewReader(`{"message":""}`))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status: got %d, want 400", res.StatusCode)
	}
}
