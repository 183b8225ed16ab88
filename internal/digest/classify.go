// Package digest turns raw headlines into the finished spoken-news text.
package digest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/text/cases"

	"github.com/dynamicdevices/audionews/internal/config"
	"github.com/dynamicdevices/audionews/internal/llm"
	"github.com/dynamicdevices/audionews/internal/logger"
	"github.com/dynamicdevices/audionews/internal/metrics"
	"github.com/dynamicdevices/audionews/internal/news"
)

const (
	analysisMaxTokens   = 2000
	analysisTemperature = 0.3
	duplicateOverlap    = 0.4
)

// Classifier groups fetched stories into the locale's closed theme set
// with one model call.
type Classifier struct {
	client llm.Client
}

func NewClassifier(client llm.Client) *Classifier {
	return &Classifier{client: client}
}

// assignment is one story reference inside the model's JSON answer.
type assignment struct {
	Index        int    `json:"index"`
	Significance int    `json:"significance"`
	Reasoning    string `json:"reasoning"`
}

// Classify asks the model to theme and score every story, then ranks each
// theme by significance and drops near-duplicate stories. There is no
// keyword fallback: a digest built without model analysis is worse than
// no digest at all.
func (c *Classifier) Classify(ctx context.Context, loc config.Locale, stories []news.Story) (*news.ThemeGroup, error) {
	if len(stories) == 0 {
		return nil, errors.New("no stories to classify")
	}

	raw, err := c.client.Complete(ctx, llm.Request{
		System:      analysisSystem,
		Prompt:      buildAnalysisPrompt(loc, stories),
		MaxTokens:   analysisMaxTokens,
		Temperature: analysisTemperature,
	})
	metrics.Global.IncrementModelCalls()
	if err != nil {
		return nil, fmt.Errorf("analysis call: %w", err)
	}

	payload, err := llm.ExtractObject(raw)
	if err != nil {
		return nil, fmt.Errorf("analysis response: %w", err)
	}

	var byTheme map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &byTheme); err != nil {
		return nil, fmt.Errorf("decode analysis response: %w", err)
	}

	caser := cases.Title(loc.Tag)
	group := news.NewThemeGroup()

	// Iterating the locale's theme list, not the response map, fixes the
	// digest order and silently drops any theme key the model invented.
	for _, theme := range loc.Themes {
		rawList, ok := byTheme[theme]
		if !ok {
			continue
		}

		picked, err := decodeAssignments(rawList)
		if err != nil {
			return nil, fmt.Errorf("decode %s assignments: %w", theme, err)
		}

		themed := applyAssignments(stories, theme, picked)
		news.SortBySignificance(themed)

		before := len(themed)
		themed = news.FilterDuplicates(themed, duplicateOverlap)
		if dropped := before - len(themed); dropped > 0 {
			metrics.Global.AddDuplicatesFiltered(dropped)
		}

		if len(themed) > 0 {
			group.Add(theme, themed)
			logger.Info("Theme analyzed", "theme", caser.String(theme), "stories", len(themed))
		}
	}

	return group, nil
}

// decodeAssignments accepts both the requested flat list and the
// double-nested list the model sometimes wraps it in.
func decodeAssignments(raw json.RawMessage) ([]assignment, error) {
	var flat []assignment
	if err := json.Unmarshal(raw, &flat); err == nil {
		return flat, nil
	}

	var nested [][]assignment
	if err := json.Unmarshal(raw, &nested); err == nil {
		var out []assignment
		for _, chunk := range nested {
			out = append(out, chunk...)
		}
		return out, nil
	}

	return nil, errors.New("assignments are neither a list nor a nested list")
}

// applyAssignments resolves 1-based indices against the fetched stories,
// skipping references to headlines that do not exist.
func applyAssignments(all []news.Story, theme string, picked []assignment) []news.Story {
	var out []news.Story
	for _, a := range picked {
		idx := a.Index - 1
		if idx < 0 || idx >= len(all) {
			logger.Warn("Analysis referenced a missing headline", "theme", theme, "index", a.Index)
			continue
		}
		story := all[idx]
		story.Theme = theme
		story.Significance = a.Significance
		out = append(out, story)
	}
	return out
}
