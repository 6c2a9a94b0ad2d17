// Package auth resolves bearer tokens to identities via the external
// identity provider and exposes the Fiber middleware that guards
// authenticated routes.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/wallasnipe/wallasnipe/internal/apperr"
	"github.com/wallasnipe/wallasnipe/internal/config"
)

// Identity is what the provider vouches for: a stable external user id plus
// the email it has on file.
type Identity struct {
	ExternalID string `json:"sub"`
	Email      string `json:"email"`
}

// Verifier resolves a raw bearer token into an identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// Client verifies tokens against the provider's verification endpoint.
type Client struct {
	httpClient *http.Client
	verifyURL  string
}

func New(cfg config.AuthConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		verifyURL:  cfg.VerifyURL,
	}
}

// Verify calls the provider with the token in the Authorization header. Any
// non-200 answer means the token is not acceptable.
func (c *Client) Verify(ctx context.Context, token string) (*Identity, error) {
	if c.verifyURL == "" {
		return nil, apperr.Unauthorized("authentication is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.verifyURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Upstream("verify token", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden {
		return nil, apperr.Unauthorized("invalid or expired token")
	}
	if res.StatusCode != http.StatusOK {
		return nil, apperr.Upstream("verify token", fmt.Errorf("provider returned status %d", res.StatusCode))
	}

	var id Identity
	if err := json.NewDecoder(res.Body).Decode(&id); err != nil {
		return nil, apperr.Upstream("decode identity", err)
	}
	if id.ExternalID == "" {
		return nil, apperr.Unauthorized("identity response missing subject")
	}
	return &id, nil
}

// TokenFromHeader extracts the bearer token from an Authorization header
// value. Returns an empty string when the header is absent or malformed.
func TokenFromHeader(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
