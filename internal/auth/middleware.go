package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/wallasnipe/wallasnipe/internal/apperr"
	"github.com/wallasnipe/wallasnipe/internal/models"
)

const localsUserKey = "auth.user"

// UserSyncer persists the verified identity so every authenticated request
// leaves an up-to-date user row behind.
type UserSyncer interface {
	UpsertUser(ctx context.Context, externalID, email string) (*models.User, error)
}

// Middleware verifies the bearer token, syncs the user profile and stores the
// resulting user on the request context for handlers downstream.
func Middleware(verifier Verifier, users UserSyncer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := TokenFromHeader(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return apperr.Unauthorized("missing bearer token")
		}

		id, err := verifier.Verify(c.UserContext(), token)
		if err != nil {
			return err
		}

		user, err := users.UpsertUser(c.UserContext(), id.ExternalID, id.Email)
		if err != nil {
			return apperr.Upstream("sync user profile", err)
		}

		SetCurrentUser(c, user)
		return c.Next()
	}
}

// SetCurrentUser attaches the user to the request context. Handler tests use
// it to stand in for Middleware.
func SetCurrentUser(c *fiber.Ctx, u *models.User) {
	c.Locals(localsUserKey, u)
}

// CurrentUser returns the authenticated user placed by Middleware, or nil on
// unauthenticated routes.
func CurrentUser(c *fiber.Ctx) *models.User {
	u, _ := c.Locals(localsUserKey).(*models.User)
	return u
}
