package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dynamicdevices/audionews/internal/config"
)

func TestAcceptHeadline_RuneBoundaries(t *testing.T) {
	cases := []struct {
		runes int
		want  bool
	}{
		{14, false},
		{15, true},
		{199, true},
		{200, false},
	}
	for _, c := range cases {
		text := strings.Repeat("a", c.runes)
		if got := AcceptHeadline(text); got != c.want {
			t.Errorf("AcceptHeadline(%d runes) = %v, want %v", c.runes, got, c.want)
		}
	}
}

func TestAcceptHeadline_CountsRunesNotBytes(t *testing.T) {
	// 15 runes but 30 bytes.
	text := strings.Repeat("ø", 15)
	if !AcceptHeadline(text) {
		t.Errorf("15-rune multibyte headline rejected")
	}
}

func TestAcceptHeadline_BoilerplatePrefixes(t *testing.T) {
	rejected := []string{
		"Cookie settings and privacy preferences",
		"ACCEPT all cookies before you continue",
		"Subscribe to our morning newsletter now",
		"Sign up for breaking news alerts today",
		"Follow us on all social media channels",
	}
	for _, text := range rejected {
		if AcceptHeadline(text) {
			t.Errorf("boilerplate headline accepted: %q", text)
		}
	}

	if !AcceptHeadline("Factory making cookies expands production line") {
		t.Errorf("prefix check rejected a headline that merely mentions cookies")
	}
}

func serveHTML(t *testing.T, html string) (*httptest.Server, config.Source) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, html)
	}))
	t.Cleanup(srv.Close)
	return srv, config.Source{Name: "Test Source", URL: srv.URL}
}

func TestFetchHeadlines_FirstYieldingSelectorWins(t *testing.T) {
	_, source := serveHTML(t, `
		<div class="headline">First proper headline for the digest</div>
		<div class="headline">Second proper headline for the digest</div>
		<div class="title">Title selector should never be reached</div>`)

	f := NewFetcher(5*time.Second, []string{".headline", ".title"})
	stories, err := f.FetchHeadlines(context.Background(), source)
	if err != nil {
		t.Fatalf("FetchHeadlines: %v", err)
	}

	if len(stories) != 2 {
		t.Fatalf("got %d stories, want 2 from the first selector only", len(stories))
	}
	for _, s := range stories {
		if strings.Contains(s.Title, "Title selector") {
			t.Errorf("second selector was scanned after the first yielded: %q", s.Title)
		}
		if s.Source != "Test Source" {
			t.Errorf("story source = %q, want %q", s.Source, "Test Source")
		}
	}
}

func TestFetchHeadlines_FallsThroughEmptySelectors(t *testing.T) {
	_, source := serveHTML(t, `
		<div class="headline">short</div>
		<div class="title">Backup selector catches this headline</div>`)

	f := NewFetcher(5*time.Second, []string{".headline", ".title"})
	stories, err := f.FetchHeadlines(context.Background(), source)
	if err != nil {
		t.Fatalf("FetchHeadlines: %v", err)
	}

	if len(stories) != 1 || stories[0].Title != "Backup selector catches this headline" {
		t.Fatalf("fallback selector not used: %v", stories)
	}
}

func TestFetchHeadlines_CapsStoriesPerSource(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 14; i++ {
		fmt.Fprintf(&b, `<div class="headline">Unique headline number %d for today</div>`, i)
	}
	_, source := serveHTML(t, b.String())

	f := NewFetcher(5*time.Second, []string{".headline"})
	stories, err := f.FetchHeadlines(context.Background(), source)
	if err != nil {
		t.Fatalf("FetchHeadlines: %v", err)
	}

	if len(stories) != 12 {
		t.Errorf("got %d stories, want the 12-story cap", len(stories))
	}
}

func TestFetchHeadlines_ScansAtMostFifteenElementsPerSelector(t *testing.T) {
	// The first selector has its only valid element in position 16, past
	// the scan window, so the second selector should win.
	var b strings.Builder
	for i := 0; i < 15; i++ {
		b.WriteString(`<div class="headline">x</div>`)
	}
	b.WriteString(`<div class="headline">Valid but past the scan window entirely</div>`)
	b.WriteString(`<div class="title">Second selector catches this headline</div>`)
	_, source := serveHTML(t, b.String())

	f := NewFetcher(5*time.Second, []string{".headline", ".title"})
	stories, err := f.FetchHeadlines(context.Background(), source)
	if err != nil {
		t.Fatalf("FetchHeadlines: %v", err)
	}

	if len(stories) != 1 || stories[0].Title != "Second selector catches this headline" {
		t.Fatalf("scan window not honored: %v", stories)
	}
}

func TestFetchHeadlines_DeduplicatesVerbatim(t *testing.T) {
	_, source := serveHTML(t, `
		<div class="headline">Identical headline repeated on the page</div>
		<div class="headline">Identical headline repeated on the page</div>`)

	f := NewFetcher(5*time.Second, []string{".headline"})
	stories, err := f.FetchHeadlines(context.Background(), source)
	if err != nil {
		t.Fatalf("FetchHeadlines: %v", err)
	}

	if len(stories) != 1 {
		t.Errorf("got %d stories, want 1 after verbatim dedup", len(stories))
	}
}

func TestFetchHeadlines_CollapsesWhitespace(t *testing.T) {
	_, source := serveHTML(t, "<div class=\"headline\">Headline broken\n\t  across several lines</div>")

	f := NewFetcher(5*time.Second, []string{".headline"})
	stories, err := f.FetchHeadlines(context.Background(), source)
	if err != nil {
		t.Fatalf("FetchHeadlines: %v", err)
	}

	if len(stories) != 1 || stories[0].Title != "Headline broken across several lines" {
		t.Fatalf("whitespace not collapsed: %v", stories)
	}
}

func TestFetchHeadlines_ResolvesLinks(t *testing.T) {
	srv, source := serveHTML(t, `
		<h3 class="headline"><a href="/uk-news/1">Relative link resolves against source</a></h3>
		<h3 class="headline"><a href="https://example.org/2">Absolute link passes through as is</a></h3>
		<a href="/uk-news/3"><h3 class="headline">Ancestor anchor also provides the link</h3></a>
		<a class="headline" href="/uk-news/4">Element that is itself the anchor works</a>
		<h3 class="headline">No anchor anywhere leaves the link empty</h3>
		<h3 class="headline"><a href="mailto:x@y.z">Unusable scheme leaves the link empty too</a></h3>`)

	f := NewFetcher(5*time.Second, []string{".headline"})
	stories, err := f.FetchHeadlines(context.Background(), source)
	if err != nil {
		t.Fatalf("FetchHeadlines: %v", err)
	}
	if len(stories) != 6 {
		t.Fatalf("got %d stories, want 6", len(stories))
	}

	wantLinks := []string{
		srv.URL + "/uk-news/1",
		"https://example.org/2",
		srv.URL + "/uk-news/3",
		srv.URL + "/uk-news/4",
		"",
		"",
	}
	for i, want := range wantLinks {
		if stories[i].Link != want {
			t.Errorf("story %d link = %q, want %q", i, stories[i].Link, want)
		}
	}
}

func TestFetchHeadlines_SendsBrowserUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, `<div class="headline">Some headline long enough to accept</div>`)
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, []string{".headline"})
	if _, err := f.FetchHeadlines(context.Background(), config.Source{Name: "ua", URL: srv.URL}); err != nil {
		t.Fatalf("FetchHeadlines: %v", err)
	}

	if !strings.Contains(gotUA, "Chrome/91") {
		t.Errorf("User-Agent = %q, want a browser identity", gotUA)
	}
}

func TestFetchHeadlines_NonSuccessStatusIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, []string{".headline"})
	stories, err := f.FetchHeadlines(context.Background(), config.Source{Name: "broken", URL: srv.URL})

	if err == nil {
		t.Fatalf("expected an error for HTTP 404")
	}
	if len(stories) != 0 {
		t.Errorf("got %d stories from a failed source, want 0", len(stories))
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error %q does not mention the status", err)
	}
}
