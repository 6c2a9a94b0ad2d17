package util

import (
	"context"
	"errors"
	"testing"
)

func TestRetryWithBackoff_FirstAttemptSucceeds(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), 3, func(attempt int) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("got %v, want nil", err)
	}
	if calls != 1 {
		t.Errorf("calls: got %d, want 1", calls)
	}
}

func TestRetryWithBackoff_Exhausted(t *testing.T) {
	wantErr := errors.New("still down")
	calls := 0
	err := RetryWithBackoff(context.Background(), 0, func(attempt int) error {
		calls++
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("got %v, want wrapped %v", err, wantErr)
	}
	if calls != 1 {
		t.Errorf("calls: got %d, want 1 (maxRetries=0 means one attempt)", calls)
	}
}

func TestRetryWithBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	err := RetryWithBackoff(ctx, 3, func(attempt int) error {
		cancel()
		return errors.New("fail then cancel")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}
