package scraper

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestRetrierDo(t *testing.T) {
	transient := errors.New("connection reset")

	tests := []struct {
		name      string
		failures  int
		failWith  error
		wantCalls int
		wantErr   error
	}{
		{name: "first attempt succeeds", failures: 0, wantCalls: 1},
		{name: "succeeds on last attempt", failures: 2, failWith: transient, wantCalls: 3},
		{name: "exhausted", failures: 3, failWith: transient, wantCalls: 3, wantErr: ErrSiteUnavailable},
		{name: "not found is final", failures: 3, failWith: fmt.Errorf("%w: gone", ErrNotFound), wantCalls: 1, wantErr: ErrNotFound},
		{name: "challenge is final", failures: 3, failWith: ErrChallengeBlocked, wantCalls: 1, wantErr: ErrChallengeBlocked},
		{name: "invalid input is final", failures: 3, failWith: ErrInvalidInput, wantCalls: 1, wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Retrier{MaxAttempts: 3, Delay: time.Millisecond}
			calls := 0
			err := r.Do(context.Background(), "test", func(ctx context.Context) error {
				calls++
				if calls <= tt.failures {
					return tt.failWith
				}
				return nil
			})

			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Do() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Do() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetrierKeepsLastCause(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	r := Retrier{MaxAttempts: 2}

	err := r.Do(context.Background(), "test", func(ctx context.Context) error { return cause })
	if !errors.Is(err, ErrSiteUnavailable) || !errors.Is(err, cause) {
		t.Fatalf("Do() error = %v, want ErrSiteUnavailable wrapping the cause", err)
	}
}

func TestRetrierStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := Retrier{MaxAttempts: 5, Delay: time.Hour}

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- r.Do(ctx, "test", func(ctx context.Context) error {
			calls++
			return errors.New("busy")
		})
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, ErrSiteUnavailable) {
			t.Errorf("Do() error = %v, want ErrSiteUnavailable", err)
		}
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Do() did not return after cancel")
	}
}
