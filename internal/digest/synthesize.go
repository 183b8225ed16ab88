package digest

import (
	"context"
	"fmt"
	"strings"

	"github.com/dynamicdevices/audionews/internal/config"
	"github.com/dynamicdevices/audionews/internal/llm"
	"github.com/dynamicdevices/audionews/internal/metrics"
	"github.com/dynamicdevices/audionews/internal/news"
)

const (
	synthesisMaxTokens   = 400
	synthesisTemperature = 0.4
	maxSynthesisStories  = 3
)

// Synthesizer turns one theme's ranked stories into a short spoken
// paragraph, one model call per theme.
type Synthesizer struct {
	client llm.Client
}

func NewSynthesizer(client llm.Client) *Synthesizer {
	return &Synthesizer{client: client}
}

// Synthesize writes the themed paragraph from the top stories. A model
// failure here is fatal for the run; partial digests are not published.
func (s *Synthesizer) Synthesize(ctx context.Context, loc config.Locale, theme string, stories []news.Story) (string, error) {
	if len(stories) == 0 {
		return "", nil
	}

	p := promptsFor(loc.Code)
	raw, err := s.client.Complete(ctx, llm.Request{
		System:      p.System,
		Prompt:      buildSynthesisPrompt(loc.Code, theme, stories),
		MaxTokens:   synthesisMaxTokens,
		Temperature: synthesisTemperature,
	})
	metrics.Global.IncrementModelCalls()
	if err != nil {
		return "", fmt.Errorf("synthesize %s: %w", theme, err)
	}

	return strings.TrimSpace(raw), nil
}
