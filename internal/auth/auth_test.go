package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wallasnipe/wallasnipe/internal/apperr"
	"github.com/wallasnipe/wallasnipe/internal/config"
)

func TestTokenFromHeader(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc123", "abc123"},
		{"bearer abc123", "abc123"},
		{"Bearer   spaced  ", "spaced"},
		{"Basic abc123", ""},
		{"Bearer ", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := TokenFromHeader(tt.header); got != tt.want {
			t.Errorf("TokenFromHeader(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("Authorization") {
		case "Bearer good-token":
			w.Write([]byte(`{"sub":"user-1","email":"u@example.com"}`))
		case "Bearer empty-subject":
			w.Write([]byte(`{"email":"u@example.com"}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	client := New(config.AuthConfig{VerifyURL: srv.URL, Timeout: 2 * time.Second})

	t.Run("valid token", func(t *testing.T) {
		id, err := client.Verify(context.Background(), "good-token")
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if id.ExternalID != "user-1" || id.Email != "u@example.com" {
			t.Errorf("identity: got %+v", id)
		}
	})

	t.Run("rejected token", func(t *testing.T) {
		_, err := client.Verify(context.Background(), "bad-token")
		if apperr.KindOf(err) != apperr.KindUnauthorized {
			t.Errorf("got %v, want unauthorized", err)
		}
	})

	t.Run("missing subject", func(t *testing.T) {
		_, err := client.Verify(context.Background(), "empty-subject")
		if apperr.KindOf(err) != apperr.KindUnauthorized {
			t.Errorf("got %v, want unauthorized", err)
		}
	})
}

func TestVerify_Unconfigured(t *testing.T) {
	client := New(config.AuthConfig{Timeout: time.Second})
	_, err := client.Verify(context.Background(), "any")
	var e *apperr.Error
	if !errors.As(err, &e) || e.Kind != apperr.KindUnauthorized {
		t.Errorf("got %v, want unauthorized", err)
	}
}
