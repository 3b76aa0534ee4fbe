package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"study-notes/internal/infra/feed"
	"study-notes/internal/infra/fetcher"
)

// inputOptions are the mutually exclusive input flags.
type inputOptions struct {
	Text     string
	File     string
	HTML     string
	Selector string
	URL      string
	Feed     string
	Item     string
}

func (o inputOptions) sources() int {
	n := 0
	for _, s := range []string{o.Text, o.File, o.HTML, o.URL, o.Feed} {
		if s != "" {
			n++
		}
	}
	return n
}

func (o inputOptions) empty() bool { return o.sources() == 0 }

func (o inputOptions) validate() error {
	if o.sources() > 1 {
		return errors.New("use only one of -text, -file, -html, -url and -feed")
	}
	if o.Item != "" && o.Feed == "" {
		return errors.New("-item requires -feed")
	}
	if o.Selector != "" && o.HTML == "" {
		return errors.New("-selector requires -html")
	}
	return nil
}

type pageLoader interface {
	Load(ctx context.Context, url string) (string, error)
}

type feedFetcher interface {
	Fetch(ctx context.Context, feedURL string) ([]feed.Item, error)
}

type inputLoaders struct {
	pages pageLoader
	feeds feedFetcher
}

// load returns the raw text selected by o.
func (l inputLoaders) load(ctx context.Context, o inputOptions) (string, error) {
	switch {
	case o.Text != "":
		return o.Text, nil

	case o.File != "":
		b, err := os.ReadFile(o.File)
		if err != nil {
			return "", err
		}
		return string(b), nil

	case o.HTML != "":
		f, err := os.Open(o.HTML)
		if err != nil {
			return "", err
		}
		defer func() { _ = f.Close() }()
		abs, err := filepath.Abs(o.HTML)
		if err != nil {
			return "", err
		}
		return fetcher.ExtractHTML(f, &url.URL{Scheme: "file", Path: abs}, o.Selector)

	case o.URL != "":
		return l.pages.Load(ctx, o.URL)

	case o.Feed != "":
		items, err := l.feeds.Fetch(ctx, o.Feed)
		if err != nil {
			return "", err
		}
		item, ok := feed.Select(items, o.Item)
		if !ok {
			if o.Item == "" {
				return "", fmt.Errorf("feed %s has no items", o.Feed)
			}
			return "", fmt.Errorf("feed %s has no item %q", o.Feed, o.Item)
		}
		return item.Text, nil
	}
	return "", errors.New("no input given")
}
