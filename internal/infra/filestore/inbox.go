// Package filestore keeps batch inputs and outputs in plain directories.
package filestore

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"study-notes/internal/infra/fetcher"
	"study-notes/internal/usecase/batch"
)

// ProcessedDir is the inbox subdirectory that receives processed files.
const ProcessedDir = "processed"

// DefaultMaxFileSize bounds the size of a single inbox document.
const DefaultMaxFileSize = 1 << 20

var textExtensions = []string{".txt", ".md", ".text"}
var htmlExtensions = []string{".html", ".htm"}

// Inbox is a directory of documents waiting to be processed. Plain text
// and Markdown files are read as is; HTML files are reduced to their
// readable text.
type Inbox struct {
	dir         string
	maxFileSize int64
}

// NewInbox creates the inbox directory and its processed subdirectory.
func NewInbox(dir string, maxFileSize int64) (*Inbox, error) {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	if err := os.MkdirAll(filepath.Join(dir, ProcessedDir), 0o750); err != nil {
		return nil, fmt.Errorf("create inbox: %w", err)
	}
	return &Inbox{dir: dir, maxFileSize: maxFileSize}, nil
}

// Pending returns the supported files at the top of the inbox, sorted by
// name. Files that are too large or unreadable are skipped.
func (b *Inbox) Pending(ctx context.Context) ([]batch.Input, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, fmt.Errorf("read inbox: %w", err)
	}

	var inputs []batch.Input
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !slices.Contains(textExtensions, ext) && !slices.Contains(htmlExtensions, ext) {
			continue
		}

		info, err := e.Info()
		if err != nil || info.Size() > b.maxFileSize {
			continue
		}

		text, err := b.read(filepath.Join(b.dir, e.Name()), ext)
		if err != nil {
			continue
		}
		inputs = append(inputs, batch.Input{
			Kind:  batch.KindFile,
			Key:   e.Name(),
			Title: strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())),
			Text:  text,
		})
	}
	return inputs, nil
}

func (b *Inbox) read(path, ext string) (string, error) {
	// #nosec G304 -- path is built from a directory listing of the inbox
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	if slices.Contains(htmlExtensions, ext) {
		return fetcher.ExtractHTML(f, &url.URL{Scheme: "file", Path: path}, "")
	}

	raw, err := readAll(f, b.maxFileSize)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Done moves a processed file into the processed subdirectory.
func (b *Inbox) Done(_ context.Context, in batch.Input) error {
	name := filepath.Base(in.Key)
	src := filepath.Join(b.dir, name)
	dst := filepath.Join(b.dir, ProcessedDir, name)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("move %s: %w", name, err)
	}
	return nil
}
