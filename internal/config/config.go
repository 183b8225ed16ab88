// Package config holds runtime settings and the per-locale configuration records.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Providers supported by the LLM layer, in auto-detection order.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
)

type Settings struct {
	// LLM provider settings
	Provider        string // anthropic | openai | gemini; empty = first configured key wins
	AnthropicAPIKey string
	OpenAIAPIKey    string
	GeminiAPIKey    string

	// Telegram settings (optional completion notice)
	TelegramToken  string
	TelegramChatID string

	// Output settings
	OutputRoot  string // locale output dirs are joined onto this
	SourcesFile string // optional YAML override for source lists

	// TTS settings
	TTSMaxAttempts int
	TTSRetryDelay  time.Duration
	TTSMaxDelay    time.Duration

	// App settings
	Debug          bool
	RequestTimeout time.Duration
	CI             bool // GITHUB_ACTIONS=true enables the fallback voice
}

func Load() (*Settings, error) {
	cfg := &Settings{
		// Default values
		OutputRoot:     ".",
		TTSMaxAttempts: 3,
		TTSRetryDelay:  10 * time.Second,
		TTSMaxDelay:    30 * time.Second,
		RequestTimeout: 10 * time.Second,
	}

	// Load from environment
	cfg.Provider = os.Getenv("LLM_PROVIDER")
	cfg.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.TelegramChatID = os.Getenv("TELEGRAM_CHAT_ID")

	cfg.OutputRoot = getEnvOrDefault("OUTPUT_ROOT", cfg.OutputRoot)
	cfg.SourcesFile = os.Getenv("SOURCES_FILE")

	cfg.TTSMaxAttempts = getEnvIntOrDefault("TTS_MAX_ATTEMPTS", cfg.TTSMaxAttempts)
	if v := getEnvIntOrDefault("TTS_RETRY_DELAY_SECONDS", 0); v > 0 {
		cfg.TTSRetryDelay = time.Duration(v) * time.Second
	}
	if v := getEnvIntOrDefault("REQUEST_TIMEOUT_SECONDS", 0); v > 0 {
		cfg.RequestTimeout = time.Duration(v) * time.Second
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}
	cfg.CI = os.Getenv("GITHUB_ACTIONS") == "true"

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// Validate resolves the LLM provider and checks that its credential is present.
// A missing credential is fatal here, before any network activity.
func (s *Settings) Validate() error {
	if s.Provider == "" {
		switch {
		case s.AnthropicAPIKey != "":
			s.Provider = ProviderAnthropic
		case s.OpenAIAPIKey != "":
			s.Provider = ProviderOpenAI
		case s.GeminiAPIKey != "":
			s.Provider = ProviderGemini
		default:
			return fmt.Errorf("no LLM credential found: set ANTHROPIC_API_KEY, OPENAI_API_KEY or GEMINI_API_KEY")
		}
	}

	switch s.Provider {
	case ProviderAnthropic:
		if s.AnthropicAPIKey == "" {
			return fmt.Errorf("LLM_PROVIDER=anthropic but ANTHROPIC_API_KEY is not set")
		}
	case ProviderOpenAI:
		if s.OpenAIAPIKey == "" {
			return fmt.Errorf("LLM_PROVIDER=openai but OPENAI_API_KEY is not set")
		}
	case ProviderGemini:
		if s.GeminiAPIKey == "" {
			return fmt.Errorf("LLM_PROVIDER=gemini but GEMINI_API_KEY is not set")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", s.Provider)
	}

	if s.TTSMaxAttempts < 1 {
		return fmt.Errorf("TTS_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}
