package billingcntrl

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/wallasnipe/wallasnipe/internal/apperr"
	"github.com/wallasnipe/wallasnipe/internal/billing"
	"github.com/wallasnipe/wallasnipe/internal/config"
	"github.com/wallasnipe/wallasnipe/internal/storage"
)

const signatureHeader = "X-Signature"

// SubscriptionStore writes billing events onto user rows.
type SubscriptionStore interface {
	ApplySubscription(ctx context.Context, upd storage.SubscriptionUpdate) error
}

type billingController struct {
	store SubscriptionStore
	cfg   config.BillingConfig
}

func NewBillingController(store SubscriptionStore, cfg config.BillingConfig) *billingController {
	return &billingController{store: store, cfg: cfg}
}

// webhookHandler verifies the provider signature over the raw body before
// parsing, then maps the event onto the owning user's subscription fields.
func (b *billingController) webhookHandler(c *fiber.Ctx) error {
	body := c.Body()
	if !billing.VerifySignature(b.cfg.WebhookSecret, body, c.Get(signatureHeader)) {
		return apperr.Unauthorized("invalid webhook signature")
	}

	var ev billing.Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return apperr.Validation("invalid webhook payload")
	}

	upd, err := billing.Map(ev)
	if err != nil {
		return apperr.Validation(err.Error())
	}

	if err := b.store.ApplySubscription(c.UserContext(), upd); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("no user matches the billing event")
		}
		return apperr.Upstream("apply subscription", err)
	}

	slog.Info("Billing event applied",
		"event", ev.Type,
		"customer", ev.CustomerID,
		"status", upd.Status)
	return c.JSON(fiber.Map{"received": true})
}
