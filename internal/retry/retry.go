package retry

import (
	"context"
	"fmt"
	"time"
)

type Config struct {
	MaxAttempts int
	Delay       time.Duration
	MaxDelay    time.Duration // cap for the doubling backoff, 0 = uncapped

	// ShouldRetry decides whether an attempt error is worth retrying.
	// nil retries every error.
	ShouldRetry func(error) bool

	// Sleep waits between attempts; nil uses a context-aware timer.
	// Tests inject a recorder here instead of waiting for real time.
	Sleep func(ctx context.Context, d time.Duration) error
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// WithRetry runs fn up to MaxAttempts times. The delay doubles after every
// failed attempt, starting at Delay and capped at MaxDelay. A non-retryable
// error is returned as-is after a single attempt.
func WithRetry(ctx context.Context, config Config, fn func() error) error {
	sleep := config.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	delay := config.Delay
	var lastErr error

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if err := fn(); err != nil {
			lastErr = err

			if config.ShouldRetry != nil && !config.ShouldRetry(err) {
				return err
			}

			if attempt == config.MaxAttempts {
				return fmt.Errorf("failed after %d attempts: %w", config.MaxAttempts, err)
			}

			if err := sleep(ctx, delay); err != nil {
				return err
			}

			delay *= 2
			if config.MaxDelay > 0 && delay > config.MaxDelay {
				delay = config.MaxDelay
			}
			continue
		}
		return nil
	}

	return lastErr
}
