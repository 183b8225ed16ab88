package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/dynamicdevices/audionews/internal/app"
	"github.com/dynamicdevices/audionews/internal/config"
	"github.com/dynamicdevices/audionews/internal/digest"
	"github.com/dynamicdevices/audionews/internal/llm"
	"github.com/dynamicdevices/audionews/internal/logger"
	"github.com/dynamicdevices/audionews/internal/monitor"
	"github.com/dynamicdevices/audionews/internal/rss"
	"github.com/dynamicdevices/audionews/internal/scraper"
	"github.com/dynamicdevices/audionews/internal/storage"
	"github.com/dynamicdevices/audionews/internal/telegram"
	"github.com/dynamicdevices/audionews/internal/tts"
)

const historyKeep = 50

func main() {
	// .env is optional; deployments set the environment directly.
	_ = godotenv.Load()
	logger.Init()

	var language string
	flag.StringVar(&language, "language", "en_GB", "language edition to generate")
	flag.StringVar(&language, "l", "en_GB", "shorthand for -language")
	listLanguages := flag.Bool("list-languages", false, "print supported language editions and exit")
	schedule := flag.String("schedule", "", "cron expression; run as a daemon instead of once")
	flag.Parse()

	if *listLanguages {
		for _, code := range config.LocaleCodes() {
			loc, _ := config.GetLocale(code)
			fmt.Printf("%-10s %s (%s)\n", code, loc.Name, loc.NativeName)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fatal(app.ConfigError("settings", err))
	}

	loc, err := config.GetLocale(language)
	if err != nil {
		fatal(app.ConfigError("language", err))
	}

	loc, err = applySourceOverrides(cfg, loc)
	if err != nil {
		fatal(app.ConfigError("sources file", err))
	}

	history := storage.NewRunHistory(filepath.Join(cfg.OutputRoot, "run_history.json"), historyKeep)
	if err := history.Load(); err != nil {
		logger.Warn("Run history not loaded", "error", err)
	}

	if os.Getenv("ENABLE_HTTP_MONITORING") == "true" {
		go startMonitoring(history, cfg.OutputRoot)
	}

	pipeline, cleanup, err := buildPipeline(cfg, loc, history)
	if err != nil {
		fatal(err)
	}
	defer cleanup()

	ctx := context.Background()

	if *schedule != "" {
		runScheduled(ctx, pipeline, *schedule)
		return
	}

	if _, err := pipeline.Run(ctx); err != nil {
		fatal(err)
	}
}

func buildPipeline(cfg *config.Settings, loc config.Locale, history *storage.RunHistory) (*app.App, func(), error) {
	model, err := llm.New(cfg)
	if err != nil {
		return nil, nil, app.ConfigError("model provider", err)
	}
	cleanup := func() {
		if closer, ok := model.(io.Closer); ok {
			closer.Close()
		}
	}
	logger.Info("Model provider selected", "provider", model.Name())

	classifier := digest.NewClassifier(model)
	assembler := digest.NewAssembler(digest.NewSynthesizer(model))

	renderer := tts.NewRenderer(
		tts.NewEdgeSpeech(cfg.RequestTimeout),
		tts.NewTranslateSpeech(cfg.RequestTimeout),
		cfg,
	)

	opts := app.Options{
		Feeds:   rss.NewFetcher(cfg.RequestTimeout),
		History: history,
	}
	if cfg.TelegramToken != "" && cfg.TelegramChatID != "" {
		opts.Notifier = telegram.NewNotifier(cfg.TelegramToken, cfg.TelegramChatID)
	}

	pipeline := app.New(cfg, loc,
		scraper.NewFetcher(cfg.RequestTimeout, loc.Selectors),
		classifier, assembler, renderer, opts)
	return pipeline, cleanup, nil
}

func applySourceOverrides(cfg *config.Settings, loc config.Locale) (config.Locale, error) {
	if cfg.SourcesFile == "" {
		return loc, nil
	}
	overrides, err := config.LoadSourcesFile(cfg.SourcesFile)
	if err != nil {
		return loc, err
	}
	if src, ok := overrides[loc.Code]; ok {
		logger.Info("Source list overridden", "file", cfg.SourcesFile, "sources", len(src))
		return loc.WithSources(src), nil
	}
	return loc, nil
}

// runScheduled blocks, generating the digest on startup and on every cron
// tick. Failed ticks log and wait for the next tick instead of killing
// the daemon; the idempotency guard makes overlapping ticks harmless.
func runScheduled(ctx context.Context, pipeline *app.App, schedule string) {
	tick := func() {
		if _, err := pipeline.Run(ctx); err != nil {
			logger.Error("Scheduled run failed", "kind", string(app.KindOf(err)), "error", err)
		}
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, tick); err != nil {
		fatal(app.ConfigError("schedule", err))
	}

	logger.Info("Schedule daemon started", "cron", schedule)
	tick()
	c.Run()
}

func startMonitoring(history *storage.RunHistory, outputRoot string) {
	port := os.Getenv("MONITORING_PORT")
	if port == "" {
		port = "8080"
	}
	if err := monitor.NewServer(history, outputRoot).ListenAndServe(port); err != nil {
		logger.Error("Monitoring server error", "error", err)
	}
}

// fatal reports the failure with its stage kind and stack, then exits
// non-zero so CI marks the day red.
func fatal(err error) {
	kind := app.KindOf(err)
	if kind == "" {
		kind = "internal"
	}
	logger.Error("Digest run failed", "kind", string(kind), "error", err)
	os.Stderr.Write(debug.Stack())
	os.Exit(1)
}
