// Package rest assembles the Fiber application: one error handler mapping
// the error taxonomy onto HTTP statuses, the auth middleware and the
// per-resource routers.
package rest

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/wallasnipe/wallasnipe/internal/ai"
	"github.com/wallasnipe/wallasnipe/internal/apperr"
	"github.com/wallasnipe/wallasnipe/internal/auth"
	"github.com/wallasnipe/wallasnipe/internal/config"
	"github.com/wallasnipe/wallasnipe/internal/ingest"
	"github.com/wallasnipe/wallasnipe/internal/scraper"
	"github.com/wallasnipe/wallasnipe/internal/storage"
	accountcntrl "github.com/wallasnipe/wallasnipe/internal/transport/rest/account"
	alertscntrl "github.com/wallasnipe/wallasnipe/internal/transport/rest/alerts"
	billingcntrl "github.com/wallasnipe/wallasnipe/internal/transport/rest/billing"
	chatcntrl "github.com/wallasnipe/wallasnipe/internal/transport/rest/chat"
	marketcntrl "github.com/wallasnipe/wallasnipe/internal/transport/rest/market"
	runscntrl "github.com/wallasnipe/wallasnipe/internal/transport/rest/runs"
	scrapecntrl "github.com/wallasnipe/wallasnipe/internal/transport/rest/scrape"
)

// Deps are the long-lived clients built once at startup and shared by every
// request.
type Deps struct {
	Store    *storage.Store
	Verifier auth.Verifier
	Ingestor *ingest.Service
	Chat     *ai.Chat
	Searcher scraper.Searcher
}

type Server struct {
	app  *fiber.App
	port string
}

func New(cfg *config.Config, deps Deps) *Server {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: errorHandler,
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")
	authed := auth.Middleware(deps.Verifier, deps.Store)

	marketcntrl.RegisterMarketRoutes(api, deps.Store, cfg.Market)
	alertscntrl.RegisterAlertRoutes(api, deps.Store, authed)
	runscntrl.RegisterRunRoutes(api, deps.Ingestor, authed)
	chatcntrl.RegisterChatRoutes(api, deps.Chat, authed)
	scrapecntrl.RegisterScrapeRoutes(api, deps.Searcher, authed)
	accountcntrl.RegisterAccountRoutes(api, deps.Store, authed)
	billingcntrl.RegisterBillingRoutes(api, deps.Store, cfg.Billing)

	return &Server{app: app, port: cfg.Server.Port}
}

func (s *Server) Listen() error {
	return s.app.Listen(fmt.Sprintf(":%s", s.port))
}

func (s *Server) Shutdown(timeout time.Duration) error {
	return s.app.ShutdownWithTimeout(timeout)
}

// App exposes the underlying Fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	status := apperr.StatusCode(err)
	if status >= fiber.StatusInternalServerError {
		slog.Error("Request failed", "method", c.Method(), "path", c.Path(), "error", err)
	} else {
		slog.Info("Request rejected", "method", c.Method(), "path", c.Path(), "status", status, "error", err)
	}
	return c.Status(status).JSON(fiber.Map{"error": apperr.ClientMessage(err)})
}
