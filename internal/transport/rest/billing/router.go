package billingcntrl

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wallasnipe/wallasnipe/internal/config"
)

func RegisterBillingRoutes(router fiber.Router, store SubscriptionStore, cfg config.BillingConfig) {
	ctrl := NewBillingController(store, cfg)
	router.Post("/webhooks/billing", ctrl.webhookHandler)
}
