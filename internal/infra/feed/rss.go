// Package feed reads RSS and Atom feeds as sources of study text.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"study-notes/internal/infra/fetcher"
	"study-notes/internal/observability/metrics"
	"study-notes/internal/resilience/circuitbreaker"
	"study-notes/internal/resilience/retry"
)

// Item is one feed entry reduced to plain text.
type Item struct {
	GUID        string
	Title       string
	URL         string
	Text        string
	PublishedAt time.Time
}

// Reader fetches feeds with retries and a circuit breaker.
type Reader struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	logger         *slog.Logger
}

// Option customizes a Reader.
type Option func(*Reader)

// WithRetryConfig overrides the retry policy.
func WithRetryConfig(cfg retry.Config) Option {
	return func(r *Reader) { r.retryConfig = cfg }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reader) { r.logger = l }
}

// NewReader creates a Reader using client for HTTP.
func NewReader(client *http.Client, opts ...Option) *Reader {
	r := &Reader{
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.FeedFetchConfig()),
		retryConfig:    retry.FeedFetchConfig(),
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Fetch downloads and parses the feed at feedURL.
func (r *Reader) Fetch(ctx context.Context, feedURL string) ([]Item, error) {
	start := time.Now()

	var items []Item
	err := retry.WithBackoff(ctx, r.retryConfig, func() error {
		var fetchErr error
		items, fetchErr = circuitbreaker.Run(r.circuitBreaker, func() ([]Item, error) {
			return r.doFetch(ctx, feedURL)
		})
		return fetchErr
	})

	metrics.RecordContentFetch("feed", err == nil, time.Since(start))
	if err != nil {
		r.logger.WarnContext(ctx, "feed fetch failed",
			slog.String("url", feedURL),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("fetch feed %s: %w", feedURL, err)
	}
	return items, nil
}

func (r *Reader) doFetch(ctx context.Context, feedURL string) ([]Item, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = "StudyNotesBot/1.0"
	fp.Client = r.client

	f, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			return nil, &retry.HTTPError{StatusCode: httpErr.StatusCode, Message: httpErr.Status}
		}
		return nil, err
	}
	return toItems(f), nil
}

// Parse reads a feed document, e.g. a file saved to disk.
func Parse(rd io.Reader) ([]Item, error) {
	f, err := gofeed.NewParser().Parse(rd)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return toItems(f), nil
}

// Select returns the item whose GUID, link or title equals key, or the
// first item when key is empty.
func Select(items []Item, key string) (Item, bool) {
	if len(items) == 0 {
		return Item{}, false
	}
	if key == "" {
		return items[0], true
	}
	for _, it := range items {
		if it.GUID == key || it.URL == key || strings.EqualFold(it.Title, key) {
			return it, true
		}
	}
	return Item{}, false
}

func toItems(f *gofeed.Feed) []Item {
	items := make([]Item, 0, len(f.Items))
	for _, it := range f.Items {
		var published time.Time
		switch {
		case it.PublishedParsed != nil:
			published = *it.PublishedParsed
		case it.UpdatedParsed != nil:
			published = *it.UpdatedParsed
		}

		// full content wins over the summary
		body := it.Content
		if body == "" {
			body = it.Description
		}

		guid := it.GUID
		if guid == "" {
			guid = it.Link
		}

		items = append(items, Item{
			GUID:        guid,
			Title:       strings.TrimSpace(it.Title),
			URL:         it.Link,
			Text:        fetcher.StripHTML(body),
			PublishedAt: published,
		})
	}
	return items
}
