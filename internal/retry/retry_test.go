package retry

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// recordedSleep captures requested delays instead of waiting.
func recordedSleep(delays *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestWithRetry_SucceedsFirstTry(t *testing.T) {
	var delays []time.Duration
	calls := 0

	err := WithRetry(context.Background(), Config{
		MaxAttempts: 3,
		Delay:       10 * time.Second,
		Sleep:       recordedSleep(&delays),
	}, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("WithRetry() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if len(delays) != 0 {
		t.Errorf("slept %v, want no sleeps", delays)
	}
}

func TestWithRetry_DoublesTheDelay(t *testing.T) {
	var delays []time.Duration
	cause := errors.New("still down")
	calls := 0

	err := WithRetry(context.Background(), Config{
		MaxAttempts: 3,
		Delay:       10 * time.Second,
		Sleep:       recordedSleep(&delays),
	}, func() error {
		calls++
		return cause
	})
	if err == nil {
		t.Fatal("WithRetry() = nil, want error")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	want := []time.Duration{10 * time.Second, 20 * time.Second}
	if len(delays) != len(want) {
		t.Fatalf("slept %v, want %v", delays, want)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay[%d] = %v, want %v", i, delays[i], want[i])
		}
	}
	if !strings.Contains(err.Error(), "failed after 3 attempts") {
		t.Errorf("error = %q, want attempt count in message", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("error = %q, want wrapped cause", err)
	}
}

func TestWithRetry_CapsTheDelay(t *testing.T) {
	var delays []time.Duration

	_ = WithRetry(context.Background(), Config{
		MaxAttempts: 4,
		Delay:       10 * time.Second,
		MaxDelay:    30 * time.Second,
		Sleep:       recordedSleep(&delays),
	}, func() error {
		return errors.New("still down")
	})

	want := []time.Duration{10 * time.Second, 20 * time.Second, 30 * time.Second}
	if len(delays) != len(want) {
		t.Fatalf("slept %v, want %v", delays, want)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay[%d] = %v, want %v", i, delays[i], want[i])
		}
	}
}

func TestWithRetry_NonRetryableFailsOnce(t *testing.T) {
	var delays []time.Duration
	cause := errors.New("bad credentials")
	calls := 0

	err := WithRetry(context.Background(), Config{
		MaxAttempts: 3,
		Delay:       10 * time.Second,
		ShouldRetry: func(error) bool { return false },
		Sleep:       recordedSleep(&delays),
	}, func() error {
		calls++
		return cause
	})

	if !errors.Is(err, cause) {
		t.Fatalf("WithRetry() error = %v, want %v unwrapped", err, cause)
	}
	if err.Error() != cause.Error() {
		t.Errorf("error = %q, want the cause as-is", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if len(delays) != 0 {
		t.Errorf("slept %v, want no sleeps", delays)
	}
}

func TestWithRetry_NilShouldRetryRetriesEverything(t *testing.T) {
	var delays []time.Duration
	calls := 0

	_ = WithRetry(context.Background(), Config{
		MaxAttempts: 2,
		Delay:       time.Second,
		Sleep:       recordedSleep(&delays),
	}, func() error {
		calls++
		return errors.New("transient")
	})

	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestWithRetry_RecoversAfterFailures(t *testing.T) {
	var delays []time.Duration
	calls := 0

	err := WithRetry(context.Background(), Config{
		MaxAttempts: 3,
		Delay:       10 * time.Second,
		Sleep:       recordedSleep(&delays),
	}, func() error {
		calls++
		if calls < 3 {
			return errors.New("warming up")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithRetry() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if len(delays) != 2 {
		t.Errorf("slept %d times, want 2", len(delays))
	}
}

func TestWithRetry_CancelledContextStopsTheBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	err := WithRetry(ctx, Config{
		MaxAttempts: 3,
		Delay:       time.Millisecond,
		Sleep: func(ctx context.Context, _ time.Duration) error {
			cancel()
			return ctx.Err()
		},
	}, func() error {
		calls++
		return errors.New("still down")
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("WithRetry() error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
