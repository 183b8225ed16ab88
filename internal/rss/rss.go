// Package rss fetches headlines from feed sources.
package rss

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/dynamicdevices/audionews/internal/config"
	"github.com/dynamicdevices/audionews/internal/news"
	"github.com/dynamicdevices/audionews/internal/scraper"
)

const maxItemsPerFeed = 12

// Fetcher reads RSS and Atom feeds. Feed sources skip the CSS selector
// scan but go through the same headline acceptance policy.
type Fetcher struct {
	parser  *gofeed.Parser
	timeout time.Duration
}

func NewFetcher(timeout time.Duration) *Fetcher {
	p := gofeed.NewParser()
	p.UserAgent = "audionews/1.0"
	return &Fetcher{parser: p, timeout: timeout}
}

// FetchHeadlines parses one feed source into stories. Errors are returned
// for logging only; the pipeline treats a failed feed as zero stories.
func (f *Fetcher) FetchHeadlines(ctx context.Context, source config.Source) ([]news.Story, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	feed, err := f.parser.ParseURLWithContext(source.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", source.Name, err)
	}

	var stories []news.Story
	seen := make(map[string]struct{})

	for _, item := range feed.Items {
		if len(stories) >= maxItemsPerFeed {
			break
		}
		if item == nil {
			continue
		}

		title := item.Title
		if !scraper.AcceptHeadline(title) {
			continue
		}
		if _, dup := seen[title]; dup {
			continue
		}

		stories = append(stories, news.Story{
			Title:     title,
			Source:    source.Name,
			Link:      item.Link,
			FetchedAt: time.Now(),
		})
		seen[title] = struct{}{}
	}
	return stories, nil
}
