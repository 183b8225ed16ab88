// Package tts renders digest text to MP3 speech.
package tts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dynamicdevices/audionews/internal/config"
	"github.com/dynamicdevices/audionews/internal/logger"
	"github.com/dynamicdevices/audionews/internal/metrics"
	"github.com/dynamicdevices/audionews/internal/retry"
)

// Voice names the neural voice plus the plain language code the fallback
// provider speaks with.
type Voice struct {
	Name string
	Lang string
}

// Synthesizer produces MP3 speech for one piece of text.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, voice Voice) ([]byte, error)
	Name() string
}

// Renderer drives synthesis with retry and the CI-only fallback provider.
type Renderer struct {
	primary  Synthesizer
	fallback Synthesizer
	attempts int
	delay    time.Duration
	maxDelay time.Duration
	ci       bool

	sleep func(context.Context, time.Duration) error // nil for real sleeping
}

func NewRenderer(primary, fallback Synthesizer, cfg *config.Settings) *Renderer {
	return &Renderer{
		primary:  primary,
		fallback: fallback,
		attempts: cfg.TTSMaxAttempts,
		delay:    cfg.TTSRetryDelay,
		maxDelay: cfg.TTSMaxDelay,
		ci:       cfg.CI,
	}
}

// Render synthesizes text and writes the MP3 only once audio exists, so a
// failed run never leaves a partial file behind. Auth-shaped failures are
// retried with a doubling delay; anything else fails on the first attempt.
// When retries are exhausted the fallback provider runs, but only on CI,
// where a silent day is worse than a lower-grade voice.
func (r *Renderer) Render(ctx context.Context, text string, voice Voice, path string) (Stats, error) {
	var data []byte
	usedFallback := false

	err := retry.WithRetry(ctx, retry.Config{
		MaxAttempts: r.attempts,
		Delay:       r.delay,
		MaxDelay:    r.maxDelay,
		ShouldRetry: IsAuthError,
		Sleep:       r.sleep,
	}, func() error {
		metrics.Global.IncrementTTSAttempts()
		audio, synthErr := r.primary.Synthesize(ctx, text, voice)
		if synthErr != nil {
			logger.Warn("Speech synthesis attempt failed", "provider", r.primary.Name(), "error", synthErr)
			return synthErr
		}
		data = audio
		return nil
	})

	if err != nil {
		if !r.ci || r.fallback == nil || !IsAuthError(err) {
			return Stats{}, err
		}
		logger.Warn("Falling back to translate speech", "error", err)
		metrics.Global.IncrementTTSFallbacks()

		data, err = r.fallback.Synthesize(ctx, text, voice)
		if err != nil {
			return Stats{}, fmt.Errorf("fallback synthesis also failed: %w", err)
		}
		usedFallback = true
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Stats{}, fmt.Errorf("create audio dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Stats{}, fmt.Errorf("write audio: %w", err)
	}

	stats := BuildStats(text, data)
	stats.Fallback = usedFallback
	return stats, nil
}

// IsAuthError reports whether a failure looks like a credential or
// handshake rejection, the only class of speech error worth retrying.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "401") ||
		strings.Contains(msg, "authentication") ||
		strings.Contains(msg, "handshake")
}
