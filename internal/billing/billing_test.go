package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/wallasnipe/wallasnipe/internal/models"
)

func TestMap(t *testing.T) {
	ends := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		event      Event
		wantStatus string
		wantErr    bool
	}{
		{
			name:       "created activates",
			event:      Event{Type: EventSubscriptionCreated, CustomerExternalID: "user-1", Tier: "pro"},
			wantStatus: models.SubscriptionActive,
		},
		{
			name:       "payment success keeps active",
			event:      Event{Type: EventSubscriptionCompleted, CustomerID: "cus_42"},
			wantStatus: models.SubscriptionActive,
		},
		{
			name:       "cancellation with period end",
			event:      Event{Type: EventSubscriptionDeleted, CustomerID: "cus_42", EndsAt: &ends},
			wantStatus: models.SubscriptionCancelled,
		},
		{
			name:    "unknown event rejected",
			event:   Event{Type: "order_refunded", CustomerID: "cus_42"},
			wantErr: true,
		},
		{
			name:    "no customer reference rejected",
			event:   Event{Type: EventSubscriptionCreated},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upd, err := Map(tt.event)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Map() error = %v", err)
			}
			if upd.Status != tt.wantStatus {
				t.Errorf("status: got %q, want %q", upd.Status, tt.wantStatus)
			}
			if upd.ExternalID != tt.event.CustomerExternalID || upd.CustomerID != tt.event.CustomerID {
				t.Errorf("customer refs not carried over: %+v", upd)
			}
		})
	}
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"event_type":"subscription_created"}`)
	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write(body)
	good := hex.EncodeToString(mac.Sum(nil))

	if !VerifySignature("secret", body, good) {
		t.Error("valid signature rejected")
	}
	if VerifySignature("secret", body, "deadbeef") {
		t.Error("bad signature accepted")
	}
	if VerifySignature("secret", []byte("tampered"), good) {
		t.Error("tampered body accepted")
	}
	if !VerifySignature("", body, "") {
		t.Error("verification should be disabled without a secret")
	}
}
