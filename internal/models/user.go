package models

import "time"

// Subscription statuses as reported by the billing provider.
const (
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
	SubscriptionExpired   = "expired"
	SubscriptionNone      = "none"
)

// User is an external-identity-linked account record. ExternalID is the
// opaque stable identifier supplied by the identity provider; subscription
// fields are written exclusively by billing webhooks.
type User struct {
	ID                 int64      `json:"id"`
	ExternalID         string     `json:"external_id" validate:"required"`
	Email              string     `json:"email" validate:"omitempty,email"`
	SubscriptionTier   string     `json:"subscription_tier"`
	SubscriptionStatus string     `json:"subscription_status"`
	SubscriptionEndsAt *time.Time `json:"subscription_ends_at,omitempty"`
	BillingCustomerID  string     `json:"billing_customer_id,omitempty"`
	SearchLocation     string     `json:"search_location,omitempty"`
	Latitude           float64    `json:"latitude,omitempty"`
	Longitude          float64    `json:"longitude,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// HasActiveSubscription reports whether the user currently has access to
// subscriber-gated features.
func (u User) HasActiveSubscription(now time.Time) bool {
	if u.SubscriptionStatus == SubscriptionActive {
		return true
	}
	// Cancelled subscriptions stay usable until the paid period runs out.
	if u.SubscriptionStatus == SubscriptionCancelled && u.SubscriptionEndsAt != nil {
		return u.SubscriptionEndsAt.After(now)
	}
	return false
}
