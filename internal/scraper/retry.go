package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/JustJay7/court-case-lookup/pkg/logger"
)

// Retrier repeats transient failures with a linearly increasing delay:
// after failed attempt k it waits Delay*k.
type Retrier struct {
	MaxAttempts int
	Delay       time.Duration
	Logger      *logger.Logger
}

// Do runs fn until it succeeds, fails permanently, the attempts run out or
// ctx is done. Exhausted or cancelled attempts yield ErrSiteUnavailable
// wrapping the last cause.
func (r Retrier) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	attempts := r.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return unavailable(op, lastErr, err)
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		lastErr = err

		if attempt == attempts {
			break
		}

		wait := r.Delay * time.Duration(attempt)
		if r.Logger != nil {
			r.Logger.Warn("Retrying court site call",
				"operation", op,
				"attempt", attempt,
				"max_attempts", attempts,
				"backoff", wait.String(),
				"error", err,
			)
		}
		if err := sleepCtx(ctx, wait); err != nil {
			return unavailable(op, lastErr, err)
		}
	}

	return unavailable(op, lastErr, fmt.Errorf("gave up after %d attempts", attempts))
}

func unavailable(op string, lastErr, reason error) error {
	if lastErr == nil {
		return fmt.Errorf("%w: %s: %v", ErrSiteUnavailable, op, reason)
	}
	return fmt.Errorf("%w: %s: %v: %w", ErrSiteUnavailable, op, reason, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
