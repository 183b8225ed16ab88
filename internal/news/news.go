// Package news holds the story model and the keyword-overlap duplicate
// filtering shared by the classification pipeline.
package news

import (
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Story is one extracted headline with provenance.
// Theme and Significance are filled in exactly once by the classifier and
// never mutated afterward; stories live only for the duration of a run.
type Story struct {
	Title        string
	Source       string
	Link         string // empty when the element carried no usable anchor
	FetchedAt    time.Time
	Theme        string
	Significance int // 1-10, assigned by the classifier
}

// Keywords returns the lower-cased alphabetic tokens of a title longer than
// three runes. These sets drive the duplicate overlap check.
func Keywords(title string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, word := range strings.Fields(title) {
		if utf8.RuneCountInString(word) <= 3 || !isAlpha(word) {
			continue
		}
		set[strings.ToLower(word)] = struct{}{}
	}
	return set
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}

// Jaccard returns |a∩b| / |a∪b|. Empty sets overlap nothing, so the result
// is 0 when either side is empty.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// FilterDuplicates walks stories in order and drops every story whose
// keyword set overlaps any previously kept set by more than threshold.
// Stories with an empty keyword set are never treated as duplicates.
func FilterDuplicates(stories []Story, threshold float64) []Story {
	kept := make([]Story, 0, len(stories))
	seen := make([]map[string]struct{}, 0, len(stories))

	for _, s := range stories {
		kw := Keywords(s.Title)

		dup := false
		for _, prev := range seen {
			if len(prev) == 0 || len(kw) == 0 {
				continue
			}
			if Jaccard(kw, prev) > threshold {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		kept = append(kept, s)
		seen = append(seen, kw)
	}
	return kept
}

// SortBySignificance orders stories by descending significance, keeping the
// incoming order between equal scores.
func SortBySignificance(stories []Story) {
	sort.SliceStable(stories, func(i, j int) bool {
		return stories[i].Significance > stories[j].Significance
	})
}

// ThemeGroup maps theme names to their ranked stories while preserving the
// order themes were added in, so digest assembly is deterministic.
type ThemeGroup struct {
	order   []string
	stories map[string][]Story
}

func NewThemeGroup() *ThemeGroup {
	return &ThemeGroup{stories: make(map[string][]Story)}
}

// Add appends a theme bucket. Empty buckets are dropped; re-adding a theme
// replaces its stories without duplicating the theme in the order.
func (g *ThemeGroup) Add(theme string, stories []Story) {
	if len(stories) == 0 {
		return
	}
	if _, exists := g.stories[theme]; !exists {
		g.order = append(g.order, theme)
	}
	g.stories[theme] = stories
}

// Themes returns the theme names in insertion order.
func (g *ThemeGroup) Themes() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Stories returns the bucket for a theme, nil when absent.
func (g *ThemeGroup) Stories(theme string) []Story {
	return g.stories[theme]
}

// Len is the number of non-empty themes.
func (g *ThemeGroup) Len() int {
	return len(g.order)
}

// TotalStories counts stories across all themes.
func (g *ThemeGroup) TotalStories() int {
	n := 0
	for _, s := range g.stories {
		n += len(s)
	}
	return n
}
