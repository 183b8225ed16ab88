// Package app wires the daily digest pipeline for one locale.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/dynamicdevices/audionews/internal/config"
	"github.com/dynamicdevices/audionews/internal/logger"
	"github.com/dynamicdevices/audionews/internal/metrics"
	"github.com/dynamicdevices/audionews/internal/news"
	"github.com/dynamicdevices/audionews/internal/storage"
	"github.com/dynamicdevices/audionews/internal/tts"
)

// Fetcher pulls headlines from one source.
type Fetcher interface {
	FetchHeadlines(ctx context.Context, source config.Source) ([]news.Story, error)
}

// Classifier themes and ranks the day's stories.
type Classifier interface {
	Classify(ctx context.Context, loc config.Locale, stories []news.Story) (*news.ThemeGroup, error)
}

// Assembler synthesizes and concatenates the digest text.
type Assembler interface {
	Assemble(ctx context.Context, loc config.Locale, group *news.ThemeGroup) (string, error)
}

// Renderer speaks the digest into an MP3 at path.
type Renderer interface {
	Render(ctx context.Context, text string, voice tts.Voice, path string) (tts.Stats, error)
}

// Notifier reports a finished run. Failures are logged, never fatal.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// App runs the pipeline end to end for one locale.
type App struct {
	cfg      *config.Settings
	loc      config.Locale
	html     Fetcher
	feeds    Fetcher
	classify Classifier
	assemble Assembler
	render   Renderer
	notifier Notifier
	history  *storage.RunHistory
	limiter  *rate.Limiter
	now      func() time.Time
}

// Options carries the optional collaborators.
type Options struct {
	Feeds    Fetcher
	Notifier Notifier
	History  *storage.RunHistory
}

func New(cfg *config.Settings, loc config.Locale, html Fetcher, classify Classifier, assemble Assembler, render Renderer, opts Options) *App {
	return &App{
		cfg:      cfg,
		loc:      loc,
		html:     html,
		feeds:    opts.Feeds,
		classify: classify,
		assemble: assemble,
		render:   render,
		notifier: opts.Notifier,
		history:  opts.History,
		// One request per second across sources keeps the scrape polite.
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		now:     time.Now,
	}
}

// Result summarizes a completed or skipped run.
type Result struct {
	Skipped bool
	Stories int
	Themes  int
	Digest  string
	Paths   storage.Paths
	Stats   tts.Stats
}

// Run produces today's digest. When both output files already exist and
// the audio clears the size floor, it returns immediately without a single
// network or model call.
func (a *App) Run(ctx context.Context) (Result, error) {
	started := a.now()
	paths := storage.DigestPaths(a.cfg.OutputRoot, a.loc, started)

	if storage.DigestExists(paths) {
		logger.Info("Digest already published, skipping",
			"language", a.loc.Code, "text", paths.Text,
			"audio", paths.Audio, "audio_bytes", storage.AudioSize(paths))
		metrics.Global.IncrementDigestsSkipped()
		return Result{Skipped: true, Paths: paths}, nil
	}

	stories, err := a.fetchAll(ctx)
	if err != nil {
		metrics.Global.SetError(err.Error())
		return Result{}, err
	}

	group, err := a.classify.Classify(ctx, a.loc, stories)
	if err != nil {
		wrapped := ClassifyError("story analysis", err)
		metrics.Global.SetError(wrapped.Error())
		return Result{}, wrapped
	}
	logger.Info("Stories analyzed", "themes", group.Len(), "stories", group.TotalStories())

	digest, err := a.assemble.Assemble(ctx, a.loc, group)
	if err != nil {
		wrapped := SynthesizeError("digest synthesis", err)
		metrics.Global.SetError(wrapped.Error())
		return Result{}, wrapped
	}

	if err := storage.WriteDigestText(paths, digest, a.now()); err != nil {
		wrapped := RenderError("digest text", err)
		metrics.Global.SetError(wrapped.Error())
		return Result{}, wrapped
	}
	logger.Info("Digest text published", "path", paths.Text)

	voice := tts.Voice{Name: a.loc.Voice, Lang: a.loc.SpeechLang}
	stats, err := a.render.Render(ctx, digest, voice, paths.Audio)
	if err != nil {
		wrapped := RenderError("speech synthesis", err)
		metrics.Global.SetError(wrapped.Error())
		return Result{}, wrapped
	}
	logger.Info("Digest audio published", "path", paths.Audio,
		"seconds", fmt.Sprintf("%.1f", stats.Duration.Seconds()),
		"words", stats.Words, "kb", fmt.Sprintf("%.0f", stats.SizeKB()))

	metrics.Global.IncrementDigestsGenerated()
	metrics.Global.SetLastRun()
	metrics.Global.RecordRunDuration(a.now().Sub(started))

	a.recordRun(paths, digest, stats)
	a.notify(ctx, stats)

	return Result{
		Stories: len(stories),
		Themes:  group.Len(),
		Digest:  digest,
		Paths:   paths,
		Stats:   stats,
	}, nil
}

// fetchAll scans every configured source in order, one request per second.
// Individual source failures only shrink the pool; an empty pool fails
// the run.
func (a *App) fetchAll(ctx context.Context) ([]news.Story, error) {
	var stories []news.Story

	for _, source := range a.loc.Sources {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, FetchError("source pacing", err)
		}

		fetched, err := a.fetcherFor(source).FetchHeadlines(ctx, source)
		if err != nil {
			logger.Warn("Source failed", "source", source.Name, "error", err)
			metrics.Global.IncrementSourcesFailed()
			continue
		}
		logger.Info("Source fetched", "source", source.Name, "stories", len(fetched))
		stories = append(stories, fetched...)
	}

	metrics.Global.AddStoriesFetched(len(stories))
	if len(stories) == 0 {
		return nil, FetchError("sources", errors.New("no stories fetched from any source"))
	}
	return stories, nil
}

func (a *App) fetcherFor(source config.Source) Fetcher {
	if source.Kind == "rss" && a.feeds != nil {
		return a.feeds
	}
	return a.html
}

func (a *App) recordRun(paths storage.Paths, digest string, stats tts.Stats) {
	if a.history == nil {
		return
	}
	err := a.history.Record(storage.RunRecord{
		Fingerprint: storage.Fingerprint(digest),
		Language:    a.loc.Code,
		Date:        a.now().Format("2006-01-02"),
		TextPath:    paths.Text,
		AudioPath:   paths.Audio,
		AudioBytes:  stats.Bytes,
		DurationS:   stats.Duration.Seconds(),
		Words:       stats.Words,
		Fallback:    stats.Fallback,
		CompletedAt: a.now(),
	})
	if err != nil {
		logger.Warn("Run history not saved", "error", err)
	}
}

func (a *App) notify(ctx context.Context, stats tts.Stats) {
	if a.notifier == nil {
		return
	}
	voice := "neural"
	if stats.Fallback {
		voice = "fallback"
	}
	msg := fmt.Sprintf("✅ <b>%s</b>\n%s digest published\n🎧 %.1fs audio, %d words (%s voice)\n📦 %.0f KB",
		a.loc.ServiceName, a.now().Format("2006-01-02"),
		stats.Duration.Seconds(), stats.Words, voice, stats.SizeKB())

	if err := a.notifier.Notify(ctx, msg); err != nil {
		logger.Warn("Completion notification failed", "error", err)
	}
}
