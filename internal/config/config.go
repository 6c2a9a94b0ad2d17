package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	Auth     AuthConfig
	Billing  BillingConfig
	Chat     ChatConfig
	Scraper  ScraperConfig
	Market   MarketConfig
}

type ServerConfig struct {
	Port            string        `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     string `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER" envDefault:"wallasnipe"`
	Password string `env:"POSTGRES_PASSWORD"`
	DB       string `env:"POSTGRES_DB" envDefault:"wallasnipe"`
	SSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
}

// DSN returns the PostgreSQL connection string.
func (c PostgresConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DB +
		" sslmode=" + c.SSLMode
}

type AuthConfig struct {
	// VerifyURL is the identity provider endpoint that resolves a bearer
	// token into a stable external user ID.
	VerifyURL string        `env:"AUTH_VERIFY_URL"`
	Timeout   time.Duration `env:"AUTH_TIMEOUT" envDefault:"5s"`
}

type BillingConfig struct {
	// WebhookSecret verifies incoming billing webhooks (HMAC-SHA256 over
	// the raw body). Empty disables signature verification.
	WebhookSecret string `env:"BILLING_WEBHOOK_SECRET"`
}

type ChatConfig struct {
	APIKey       string  `env:"GEMINI_API_KEY"`
	Model        string  `env:"CHAT_MODEL" envDefault:"gemini-2.0-flash"`
	Temperature  float32 `env:"CHAT_TEMPERATURE" envDefault:"0.7"`
	SystemPrompt string  `env:"CHAT_SYSTEM_PROMPT" envDefault:"You are the Wallasnipe assistant. You help users find undervalued second-hand cars, explain market statistics and suggest search filters. Answer briefly and in the user's language."`
}

type ScraperConfig struct {
	BaseURL        string        `env:"WALLAPOP_BASE_URL" envDefault:"https://es.wallapop.com"`
	ChromeBin      string        `env:"CHROME_BIN"`
	NavTimeout     time.Duration `env:"SCRAPE_NAV_TIMEOUT" envDefault:"45s"`
	MaxRetries     int           `env:"SCRAPE_MAX_RETRIES" envDefault:"2"`
	RequestsPerMin int           `env:"SCRAPE_REQUESTS_PER_MIN" envDefault:"10"`
}

type MarketConfig struct {
	// LookbackWindow bounds read-time aggregation. Zero means all history.
	LookbackWindow time.Duration `env:"MARKET_LOOKBACK_WINDOW" envDefault:"24h"`
	// FetchBatchSize bounds IN-clause sizes when fetching runs by id set.
	FetchBatchSize int `env:"MARKET_FETCH_BATCH_SIZE" envDefault:"200"`
	PageSize       int `env:"MARKET_PAGE_SIZE" envDefault:"20"`
}

// Load reads the .env file (when present) and the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using system environment")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.Auth.VerifyURL == "" {
		slog.Warn("AUTH_VERIFY_URL not set, authenticated endpoints will reject every request")
	}
	if cfg.Chat.APIKey == "" {
		slog.Warn("GEMINI_API_KEY not set, chat endpoint will be disabled")
	}
	if cfg.Market.FetchBatchSize < 1 {
		return nil, fmt.Errorf("MARKET_FETCH_BATCH_SIZE must be positive, got %d", cfg.Market.FetchBatchSize)
	}
	if cfg.Market.PageSize < 1 {
		return nil, fmt.Errorf("MARKET_PAGE_SIZE must be positive, got %d", cfg.Market.PageSize)
	}
	if cfg.Scraper.RequestsPerMin < 1 {
		return nil, fmt.Errorf("SCRAPE_REQUESTS_PER_MIN must be positive, got %d", cfg.Scraper.RequestsPerMin)
	}
	if cfg.Scraper.NavTimeout <= 0 {
		return nil, fmt.Errorf("SCRAPE_NAV_TIMEOUT must be positive, got %v", cfg.Scraper.NavTimeout)
	}

	return cfg, nil
}
