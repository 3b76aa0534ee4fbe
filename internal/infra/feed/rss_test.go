package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-notes/internal/resilience/retry"
	"study-notes/internal/usecase/batch"
)

const rssDoc = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Physics Weekly</title>
    <link>https://example.com</link>
    <description>Lessons</description>
    <item>
      <title>Newton's First Law</title>
      <link>https://example.com/inertia</link>
      <guid>lesson-1</guid>
      <description>&lt;p&gt;An object at rest &lt;b&gt;stays&lt;/b&gt; at rest.&lt;/p&gt;</description>
      <pubDate>Mon, 01 Jan 2024 00:00:00 +0000</pubDate>
    </item>
    <item>
      <title>Energy</title>
      <link>https://example.com/energy</link>
      <description>Energy is conserved.</description>
    </item>
  </channel>
</rss>`

func fastRetry() retry.Config {
	return retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2}
}

func TestParse(t *testing.T) {
	items, err := Parse(strings.NewReader(rssDoc))
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, Item{
		GUID:        "lesson-1",
		Title:       "Newton's First Law",
		URL:         "https://example.com/inertia",
		Text:        "An object at rest stays at rest.",
		PublishedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}, Item{
		GUID:        items[0].GUID,
		Title:       items[0].Title,
		URL:         items[0].URL,
		Text:        items[0].Text,
		PublishedAt: items[0].PublishedAt.UTC(),
	})

	assert.Equal(t, "https://example.com/energy", items[1].GUID)
	assert.True(t, items[1].PublishedAt.IsZero())
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse(strings.NewReader("not a feed"))
	assert.Error(t, err)
}

func TestSelect(t *testing.T) {
	items, err := Parse(strings.NewReader(rssDoc))
	require.NoError(t, err)

	it, ok := Select(items, "")
	require.True(t, ok)
	assert.Equal(t, "lesson-1", it.GUID)

	it, ok = Select(items, "energy")
	require.True(t, ok)
	assert.Equal(t, "Energy is conserved.", it.Text)

	it, ok = Select(items, "https://example.com/inertia")
	require.True(t, ok)
	assert.Equal(t, "lesson-1", it.GUID)

	_, ok = Select(items, "missing")
	assert.False(t, ok)

	_, ok = Select(nil, "")
	assert.False(t, ok)
}

func TestReader_Fetch(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rssDoc))
	}))
	defer server.Close()

	items, err := NewReader(server.Client(), WithRetryConfig(fastRetry())).Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, int32(2), calls.Load())
}

func TestReader_Fetch_NotFound(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := NewReader(server.Client(), WithRetryConfig(fastRetry())).Fetch(context.Background(), server.URL)
	var httpErr *retry.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestReader_FetchItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(rssDoc))
	}))
	defer server.Close()

	inputs, err := NewReader(server.Client(), WithRetryConfig(fastRetry())).FetchItems(context.Background(), server.URL)
	require.NoError(t, err)
	require.Len(t, inputs, 2)
	assert.Equal(t, batch.KindFeed, inputs[0].Kind)
	assert.Equal(t, "lesson-1", inputs[0].Key)
	assert.Equal(t, "An object at rest stays at rest.", inputs[0].Text)
}
