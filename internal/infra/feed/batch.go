package feed

import (
	"context"
	"strings"

	"study-notes/internal/usecase/batch"
)

// FetchItems fetches feedURL and returns its non-empty items as batch inputs.
func (r *Reader) FetchItems(ctx context.Context, feedURL string) ([]batch.Input, error) {
	items, err := r.Fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	inputs := make([]batch.Input, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.Text) == "" {
			continue
		}
		inputs = append(inputs, batch.Input{
			Kind:  batch.KindFeed,
			Key:   it.GUID,
			Title: it.Title,
			URL:   it.URL,
			Text:  it.Text,
		})
	}
	return inputs, nil
}
