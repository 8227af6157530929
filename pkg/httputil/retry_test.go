package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

var fastPolicy = Policy{Attempts: 3, Delay: time.Millisecond, MaxDelay: 5 * time.Millisecond}

func TestRetry(t *testing.T) {
	permanent := errors.New("permanent")
	transient := &RetryableError{Err: errors.New("transient")}

	tests := []struct {
		name      string
		failures  []error
		wantCalls int
		wantErr   error
	}{
		{"success first try", nil, 1, nil},
		{"success after transient", []error{transient}, 2, nil},
		{"permanent stops immediately", []error{permanent}, 1, permanent},
		{"exhausted", []error{transient, transient, transient, transient}, 3, transient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), fastPolicy, func() error {
				calls++
				if calls <= len(tt.failures) {
					return tt.failures[calls-1]
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Retry() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, Policy{Attempts: 3, Delay: time.Hour}, func() error {
		return &RetryableError{Err: errors.New("transient")}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retry() error = %v, want %v", err, context.Canceled)
	}
}

func TestRetryHonoursAfter(t *testing.T) {
	start := time.Now()
	calls := 0
	err := Retry(context.Background(), Policy{Attempts: 2, Delay: time.Hour, MaxDelay: time.Hour}, func() error {
		calls++
		if calls == 1 {
			return &RetryableError{Err: errors.New("slow down"), After: time.Millisecond}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Minute {
		t.Errorf("Retry() waited %v, want the After hint to win", elapsed)
	}
}

func TestRetryZeroAttempts(t *testing.T) {
	calls := 0
	_ = Retry(context.Background(), Policy{}, func() error {
		calls++
		return nil
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
