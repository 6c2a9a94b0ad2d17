package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port: got %s, want 8080", cfg.Server.Port)
	}
	if cfg.Market.LookbackWindow != 24*time.Hour {
		t.Errorf("Market.LookbackWindow: got %v, want 24h", cfg.Market.LookbackWindow)
	}
	if cfg.Market.FetchBatchSize != 200 {
		t.Errorf("Market.FetchBatchSize: got %d, want 200", cfg.Market.FetchBatchSize)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("MARKET_LOOKBACK_WINDOW", "0")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("POSTGRES_PASSWORD", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port: got %s, want 9090", cfg.Server.Port)
	}
	if cfg.Market.LookbackWindow != 0 {
		t.Errorf("Market.LookbackWindow: got %v, want 0 (all history)", cfg.Market.LookbackWindow)
	}
	want := "host=db.internal port=5432 user=wallasnipe password=secret dbname=wallasnipe sslmode=disable"
	if got := cfg.Postgres.DSN(); got != want {
		t.Errorf("DSN: got %q, want %q", got, want)
	}
}

func TestLoad_InvalidNumericValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "zero batch size", key: "MARKET_FETCH_BATCH_SIZE", value: "0"},
		{name: "zero page size", key: "MARKET_PAGE_SIZE", value: "0"},
		{name: "zero scrape rate", key: "SCRAPE_REQUESTS_PER_MIN", value: "0"},
		{name: "negative scrape rate", key: "SCRAPE_REQUESTS_PER_MIN", value: "-5"},
		{name: "zero nav timeout", key: "SCRAPE_NAV_TIMEOUT", value: "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
