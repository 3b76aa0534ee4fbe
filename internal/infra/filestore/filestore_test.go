package filestore

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-notes/internal/usecase/batch"
	"study-notes/internal/usecase/notes"
)

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

/* ───────── Inbox ───────── */

func TestInbox_Pending(t *testing.T) {
	dir := t.TempDir()
	inbox, err := NewInbox(dir, 200)
	require.NoError(t, err)

	write(t, dir, "b-notes.md", "Energy is conserved.")
	write(t, dir, "a-lesson.txt", "Force equals mass times acceleration.")
	write(t, dir, "page.html", "<html><body><nav>menu</nav><p>Heat flows from hot to cold.</p></body></html>")
	write(t, dir, "image.png", "binary")
	write(t, dir, ".hidden.txt", "ignored")
	write(t, dir, "huge.txt", strings.Repeat("x", 300))

	inputs, err := inbox.Pending(context.Background())
	require.NoError(t, err)
	require.Len(t, inputs, 3)

	assert.Equal(t, batch.Input{
		Kind:  batch.KindFile,
		Key:   "a-lesson.txt",
		Title: "a-lesson",
		Text:  "Force equals mass times acceleration.",
	}, inputs[0])
	assert.Equal(t, "b-notes.md", inputs[1].Key)
	assert.Equal(t, "page.html", inputs[2].Key)
	assert.Contains(t, inputs[2].Text, "Heat flows from hot to cold.")
}

func TestInbox_Done(t *testing.T) {
	dir := t.TempDir()
	inbox, err := NewInbox(dir, 0)
	require.NoError(t, err)
	write(t, dir, "lesson.txt", "text")

	require.NoError(t, inbox.Done(context.Background(), batch.Input{Key: "lesson.txt"}))

	_, err = os.Stat(filepath.Join(dir, "lesson.txt"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
	_, err = os.Stat(filepath.Join(dir, ProcessedDir, "lesson.txt"))
	assert.NoError(t, err)

	inputs, err := inbox.Pending(context.Background())
	require.NoError(t, err)
	assert.Empty(t, inputs)

	assert.Error(t, inbox.Done(context.Background(), batch.Input{Key: "lesson.txt"}))
}

/* ───────── Outbox ───────── */

func TestOutbox_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	outbox, err := NewOutbox(dir)
	require.NoError(t, err)

	out := batch.Output{
		ID:          "0b7e3c52-1d0b-4c55-9d8e-0a6f5d0c9a11",
		Kind:        batch.KindFile,
		Key:         "lesson.txt",
		Mode:        "brief",
		ProcessedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Result: &notes.BriefResult{
			Header:    notes.Header{Success: true, Mode: "brief"},
			Summary:   "Energy is conserved.",
			WordCount: 3,
		},
	}
	require.NoError(t, outbox.Save(context.Background(), out))

	raw, err := os.ReadFile(outbox.Path(out.ID))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "lesson.txt", got["key"])
	assert.Equal(t, "2024-01-01T00:00:00Z", got["processed_at"])
	result := got["result"].(map[string]any)
	assert.Equal(t, "Energy is conserved.", result["summary"])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}
