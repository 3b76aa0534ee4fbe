// Package main provides the notes command.
//
// Usage:
//
//	notes [-mode MODE] [-format json|msgpack] (-text TEXT | -file PATH | -html PATH | -url URL | -feed URL [-item KEY])
//
// Without an input flag, notes reads a stream of {"text","mode"} requests
// from stdin and writes one result per request to stdout.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"study-notes/internal/app"
	"study-notes/internal/config"
	"study-notes/internal/domain/entity"
	"study-notes/internal/handler/stdio"
	"study-notes/internal/observability/logging"
)

func main() {
	var (
		configPath string
		opts       inputOptions
		mode       string
		format     string
		timeout    time.Duration
	)

	flag.StringVar(&configPath, "config", os.Getenv("NOTES_CONFIG"), "Path to a YAML configuration file")
	flag.StringVar(&opts.Text, "text", "", "Text to turn into notes")
	flag.StringVar(&opts.File, "file", "", "Plain-text file to turn into notes")
	flag.StringVar(&opts.HTML, "html", "", "HTML file to turn into notes")
	flag.StringVar(&opts.Selector, "selector", "", "CSS selector for the content element of -html")
	flag.StringVar(&opts.URL, "url", "", "Web page to turn into notes")
	flag.StringVar(&opts.Feed, "feed", "", "RSS or Atom feed to read an item from")
	flag.StringVar(&opts.Item, "item", "", "GUID, link or title of the feed item (default: newest)")
	flag.StringVar(&mode, "mode", "brief", "Notes mode: brief, detailed, bullet_points, optionally with _LENGTH_READABILITY")
	flag.StringVar(&format, "format", "json", "Wire format: json or msgpack")
	flag.DurationVar(&timeout, "timeout", 5*time.Minute, "Upper bound for a single request")
	flag.Parse()

	codec, err := stdio.CodecByName(format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}
	if err := opts.validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}

	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger()
	cfg, err := config.Load(configPath, logger)
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger = logging.New(os.Stderr, logging.Options{Level: cfg.Observability.LogLevel, Format: cfg.Observability.LogFormat})
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build pipeline", slog.Any("error", err))
		os.Exit(1)
	}
	defer a.Close()

	h := stdio.NewHandler(a.Notes, codec, logger)

	if opts.empty() {
		n, err := h.Serve(ctx, os.Stdin, os.Stdout)
		logger.Info("stream finished", slog.Int("served", n))
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("stream failed", slog.Any("error", err))
			a.Close()
			os.Exit(1)
		}
		return
	}

	os.Exit(runOne(ctx, h, a, opts, mode, timeout))
}

// runOne answers a single flag-driven request and returns the exit code.
func runOne(ctx context.Context, h *stdio.Handler, a *app.App, opts inputOptions, mode string, timeout time.Duration) int {
	defer a.Close()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	loaders := inputLoaders{pages: a.Loader, feeds: a.Feeds}
	text, err := loaders.load(ctx, opts)
	if err != nil {
		if _, werr := h.ServeError(mode, entity.NewInputError("load input", err), os.Stdout); werr != nil {
			slog.Error("failed to write result", slog.Any("error", werr))
		}
		return 1
	}

	result, err := h.ServeOne(ctx, stdio.Request{Text: text, Mode: mode}, os.Stdout)
	if err != nil {
		slog.Error("failed to write result", slog.Any("error", err))
		return 1
	}
	if !result.Succeeded() {
		return 1
	}
	return 0
}
