package batch

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-notes/internal/domain/entity"
	"study-notes/internal/usecase/notes"
)

/* ───────── mocks ───────── */

type mockProcessor struct {
	ProcessFunc func(ctx context.Context, text, mode string) notes.Result
}

func (m *mockProcessor) Process(ctx context.Context, text, mode string) notes.Result {
	if m.ProcessFunc != nil {
		return m.ProcessFunc(ctx, text, mode)
	}
	return &notes.BriefResult{Header: notes.Header{Success: true, Mode: mode}, Summary: text}
}

type mockInbox struct {
	PendingFunc func(ctx context.Context) ([]Input, error)
	mu          sync.Mutex
	done        []string
}

func (m *mockInbox) Pending(ctx context.Context) ([]Input, error) {
	return m.PendingFunc(ctx)
}

func (m *mockInbox) Done(_ context.Context, in Input) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.done = append(m.done, in.Key)
	return nil
}

type mockFeeds struct {
	FetchItemsFunc func(ctx context.Context, url string) ([]Input, error)
}

func (m *mockFeeds) FetchItems(ctx context.Context, url string) ([]Input, error) {
	return m.FetchItemsFunc(ctx, url)
}

type mockStore struct {
	SaveFunc func(ctx context.Context, out Output) error
	mu       sync.Mutex
	saved    []Output
}

func (m *mockStore) Save(ctx context.Context, out Output) error {
	if m.SaveFunc != nil {
		if err := m.SaveFunc(ctx, out); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, out)
	return nil
}

func (m *mockStore) byKey() map[string]Output {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]Output, len(m.saved))
	for _, o := range m.saved {
		out[o.Key] = o
	}
	return out
}

func files(keys ...string) func(context.Context) ([]Input, error) {
	return func(context.Context) ([]Input, error) {
		var in []Input
		for _, k := range keys {
			in = append(in, Input{Kind: KindFile, Key: k, Text: "text of " + k})
		}
		return in, nil
	}
}

/* ───────── RunOnce ───────── */

func TestService_RunOnce(t *testing.T) {
	inbox := &mockInbox{PendingFunc: files("a.txt", "b.txt")}
	feeds := &mockFeeds{FetchItemsFunc: func(_ context.Context, url string) ([]Input, error) {
		if url == "https://down.example.com/feed" {
			return nil, errors.New("503")
		}
		return []Input{{Kind: KindFeed, Key: "item-1", Text: "feed text", Title: "Item"}}, nil
	}}
	store := &mockStore{}

	svc := NewService(&mockProcessor{}, inbox, feeds, store, Config{
		Mode:          "detailed",
		Feeds:         []string{"https://example.com/feed", "https://down.example.com/feed"},
		MaxConcurrent: 2,
	}, nil)

	stats, err := svc.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Files)
	assert.Equal(t, 1, stats.FeedItems)
	assert.Equal(t, 1, stats.FeedErrors)
	assert.Equal(t, int64(3), stats.Succeeded)
	assert.Zero(t, stats.Failed)

	saved := store.byKey()
	require.Len(t, saved, 3)
	assert.Equal(t, "detailed", saved["a.txt"].Mode)
	assert.Equal(t, "Item", saved["item-1"].Title)
	assert.NotEmpty(t, saved["item-1"].ID)
	assert.NotEqual(t, saved["a.txt"].ID, saved["b.txt"].ID)
	assert.ElementsMatch(t, []string{"a.txt", "b.txt"}, inbox.done)
}

func TestService_RunOnce_SkipsSeenFeedItems(t *testing.T) {
	feeds := &mockFeeds{FetchItemsFunc: func(context.Context, string) ([]Input, error) {
		return []Input{{Kind: KindFeed, Key: "item-1", Text: "x"}}, nil
	}}
	store := &mockStore{}
	svc := NewService(&mockProcessor{}, nil, feeds, store, Config{Feeds: []string{"u"}}, nil)

	first, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.FeedItems)

	second, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, second.FeedItems)
	assert.Equal(t, int64(1), second.Skipped)
	assert.Len(t, store.saved, 1)
}

func TestService_RunOnce_FailureResultsAreStored(t *testing.T) {
	proc := &mockProcessor{ProcessFunc: func(_ context.Context, _, mode string) notes.Result {
		return notes.NewFailure(mode, entity.NewInputError("validate text", entity.ErrEmptyText))
	}}
	inbox := &mockInbox{PendingFunc: files("empty.txt")}
	store := &mockStore{}

	stats, err := NewService(proc, inbox, nil, store, Config{}, nil).RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Failed)
	require.Len(t, store.saved, 1)
	assert.False(t, store.saved[0].Result.Succeeded())
	assert.Equal(t, "brief", store.saved[0].Mode)
	assert.Equal(t, []string{"empty.txt"}, inbox.done)
}

func TestService_RunOnce_StoreErrorAborts(t *testing.T) {
	inbox := &mockInbox{PendingFunc: files("a.txt")}
	store := &mockStore{SaveFunc: func(context.Context, Output) error { return errors.New("disk full") }}

	_, err := NewService(&mockProcessor{}, inbox, nil, store, Config{}, nil).RunOnce(context.Background())
	require.ErrorContains(t, err, "disk full")
	assert.Empty(t, inbox.done, "unsaved input stays in the inbox")
}

func TestService_RunOnce_InboxError(t *testing.T) {
	inbox := &mockInbox{PendingFunc: func(context.Context) ([]Input, error) { return nil, errors.New("permission denied") }}

	_, err := NewService(&mockProcessor{}, inbox, nil, &mockStore{}, Config{}, nil).RunOnce(context.Background())
	assert.ErrorContains(t, err, "list inbox")
}

func TestService_RunOnce_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	inbox := &mockInbox{PendingFunc: files("a.txt")}
	store := &mockStore{}

	_, err := NewService(&mockProcessor{}, inbox, nil, store, Config{}, nil).RunOnce(ctx)
	assert.True(t, IsCanceled(err))
	assert.Empty(t, store.saved)
}
