// Package billing maps provider webhook events onto subscription updates and
// verifies webhook signatures.
package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/wallasnipe/wallasnipe/internal/models"
	"github.com/wallasnipe/wallasnipe/internal/storage"
)

const (
	EventSubscriptionCreated   = "subscription_created"
	EventSubscriptionUpdated   = "subscription_updated"
	EventSubscriptionCompleted = "subscription_payment_success"
	EventSubscriptionDeleted   = "subscription_cancelled"
)

// Event is the webhook payload the billing provider posts. CustomerExternalID
// is our user id echoed back through checkout metadata; CustomerID is the
// provider's own customer reference.
type Event struct {
	Type               string     `json:"event_type" validate:"required"`
	CustomerExternalID string     `json:"custom_user_id"`
	CustomerID         string     `json:"customer_id"`
	Tier               string     `json:"variant_name"`
	EndsAt             *time.Time `json:"ends_at"`
}

// Map converts the event into the storage-level subscription update. Unknown
// event types are rejected so new provider events fail loudly instead of
// silently writing bogus statuses.
func Map(ev Event) (storage.SubscriptionUpdate, error) {
	upd := storage.SubscriptionUpdate{
		ExternalID: ev.CustomerExternalID,
		CustomerID: ev.CustomerID,
		Tier:       ev.Tier,
		EndsAt:     ev.EndsAt,
	}

	switch ev.Type {
	case EventSubscriptionCreated, EventSubscriptionUpdated, EventSubscriptionCompleted:
		upd.Status = models.SubscriptionActive
	case EventSubscriptionDeleted:
		upd.Status = models.SubscriptionCancelled
	default:
		return storage.SubscriptionUpdate{}, fmt.Errorf("unknown billing event type %q", ev.Type)
	}

	if upd.ExternalID == "" && upd.CustomerID == "" {
		return storage.SubscriptionUpdate{}, fmt.Errorf("billing event %q carries no customer reference", ev.Type)
	}
	return upd, nil
}

// VerifySignature checks the hex-encoded HMAC-SHA256 of the raw body against
// the shared secret. An empty secret disables verification.
func VerifySignature(secret string, body []byte, signature string) bool {
	if secret == "" {
		return true
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
