// Package scraper extracts candidate headlines from news site front pages.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/dynamicdevices/audionews/internal/config"
	"github.com/dynamicdevices/audionews/internal/news"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

const (
	minTitleRunes  = 15
	maxTitleRunes  = 200
	maxPerSelector = 15
	maxPerSource   = 12
)

// Headlines starting with these are navigation chrome, not news.
var boilerplatePrefixes = []string{"cookie", "accept", "subscribe", "sign up", "follow us"}

// Fetcher scans HTML sources with an ordered list of CSS selector
// strategies. The first selector that yields any accepted headline wins.
type Fetcher struct {
	client    *http.Client
	selectors []string
}

func NewFetcher(timeout time.Duration, selectors []string) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		selectors: selectors,
	}
}

// FetchHeadlines scans one source. Errors are returned for logging only;
// the pipeline treats a failed source as zero stories and keeps going.
func (f *Fetcher) FetchHeadlines(ctx context.Context, source config.Source) ([]news.Story, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", source.Name, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", source.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: HTTP %d", source.Name, resp.StatusCode)
	}

	// Several of the European sites still serve ISO-8859 variants.
	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", source.Name, err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", source.Name, err)
	}

	return f.extract(doc, source), nil
}

func (f *Fetcher) extract(doc *goquery.Document, source config.Source) []news.Story {
	var stories []news.Story
	seen := make(map[string]struct{})

	for _, selector := range f.selectors {
		doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
			if i >= maxPerSelector || len(stories) >= maxPerSource {
				return false
			}

			text := normalizeText(s.Text())
			if !AcceptHeadline(text) {
				return true
			}
			if _, dup := seen[text]; dup {
				return true
			}

			stories = append(stories, news.Story{
				Title:     text,
				Source:    source.Name,
				Link:      resolveLink(s, source.URL),
				FetchedAt: time.Now(),
			})
			seen[text] = struct{}{}
			return true
		})

		if len(stories) > 0 {
			break
		}
	}
	return stories
}

// AcceptHeadline applies the title policy: rune length in [15, 200) and no
// boilerplate prefix.
func AcceptHeadline(text string) bool {
	if text == "" {
		return false
	}
	n := utf8.RuneCountInString(text)
	if n < minTitleRunes || n >= maxTitleRunes {
		return false
	}
	lower := strings.ToLower(text)
	for _, prefix := range boilerplatePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return false
		}
	}
	return true
}

func normalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// resolveLink finds the nearest anchor (descendant first, then self or
// ancestor) and resolves site-relative hrefs against the source URL.
func resolveLink(s *goquery.Selection, sourceURL string) string {
	anchor := s.Find("a").First()
	if anchor.Length() == 0 {
		anchor = s.Closest("a")
	}

	href, ok := anchor.Attr("href")
	if !ok || href == "" {
		return ""
	}
	switch {
	case strings.HasPrefix(href, "/"):
		return sourceURL + href
	case strings.HasPrefix(href, "http"):
		return href
	}
	return ""
}
