// Package batch runs the notes pipeline over queued inputs: documents
// dropped into an inbox and new items of subscribed feeds. Every input
// produces exactly one stored output, successful or not.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"study-notes/internal/usecase/notes"
)

// Input kinds.
const (
	KindFile = "file"
	KindFeed = "feed"
)

// Input is one document waiting to be processed.
type Input struct {
	Kind string
	// Key identifies the input within its kind: a file name or feed item GUID.
	Key   string
	Title string
	URL   string
	Text  string
}

// Output is the stored outcome of one Input.
type Output struct {
	ID          string       `json:"id"`
	Kind        string       `json:"kind"`
	Key         string       `json:"key"`
	Title       string       `json:"title,omitempty"`
	URL         string       `json:"url,omitempty"`
	Mode        string       `json:"mode"`
	ProcessedAt time.Time    `json:"processed_at"`
	Result      notes.Result `json:"result"`
}

// Processor runs the notes pipeline.
type Processor interface {
	Process(ctx context.Context, text, mode string) notes.Result
}

// Inbox lists pending documents and acknowledges processed ones.
type Inbox interface {
	Pending(ctx context.Context) ([]Input, error)
	Done(ctx context.Context, in Input) error
}

// FeedReader fetches the current items of a feed.
type FeedReader interface {
	FetchItems(ctx context.Context, feedURL string) ([]Input, error)
}

// Store persists outputs.
type Store interface {
	Save(ctx context.Context, out Output) error
}

// Config tunes a Service.
type Config struct {
	Mode          string
	Feeds         []string
	MaxConcurrent int
}

// RunStats summarizes one run.
type RunStats struct {
	Files      int
	FeedItems  int
	Skipped    int64
	Succeeded  int64
	Failed     int64
	FeedErrors int
	Duration   time.Duration
}

// Service processes inbox documents and feed items. Inbox and FeedReader
// may be nil to disable that source.
type Service struct {
	proc   Processor
	inbox  Inbox
	feeds  FeedReader
	store  Store
	cfg    Config
	logger *slog.Logger
	now    func() time.Time

	mu   sync.Mutex
	seen map[string]struct{}
}

// NewService creates a Service.
func NewService(proc Processor, inbox Inbox, feeds FeedReader, store Store, cfg Config, logger *slog.Logger) *Service {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	if cfg.Mode == "" {
		cfg.Mode = "brief"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		proc:   proc,
		inbox:  inbox,
		feeds:  feeds,
		store:  store,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		seen:   make(map[string]struct{}),
	}
}

// RunOnce processes everything currently pending.
//
// A feed that cannot be fetched is logged and skipped. A failed notes
// result is stored like any other. Storage errors and context cancellation
// abort the run.
func (s *Service) RunOnce(ctx context.Context) (*RunStats, error) {
	start := time.Now()
	stats := &RunStats{}

	var inputs []Input
	if s.inbox != nil {
		files, err := s.inbox.Pending(ctx)
		if err != nil {
			return stats, fmt.Errorf("list inbox: %w", err)
		}
		stats.Files = len(files)
		inputs = append(inputs, files...)
	}

	if s.feeds != nil {
		for _, url := range s.cfg.Feeds {
			items, err := s.feeds.FetchItems(ctx, url)
			if err != nil {
				if ctx.Err() != nil {
					return stats, ctx.Err()
				}
				stats.FeedErrors++
				s.logger.WarnContext(ctx, "failed to fetch feed",
					slog.String("feed_url", url),
					slog.Any("error", err))
				continue
			}
			for _, it := range items {
				if s.wasSeen(it) {
					stats.Skipped++
					continue
				}
				stats.FeedItems++
				inputs = append(inputs, it)
			}
		}
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.cfg.MaxConcurrent)
	for _, in := range inputs {
		eg.Go(func() error {
			return s.processOne(egCtx, in, stats)
		})
	}
	err := eg.Wait()

	stats.Duration = time.Since(start)
	s.logger.InfoContext(ctx, "batch run completed",
		slog.Int("files", stats.Files),
		slog.Int("feed_items", stats.FeedItems),
		slog.Int64("skipped", stats.Skipped),
		slog.Int64("succeeded", atomic.LoadInt64(&stats.Succeeded)),
		slog.Int64("failed", atomic.LoadInt64(&stats.Failed)),
		slog.Int("feed_errors", stats.FeedErrors),
		slog.Duration("duration", stats.Duration))

	if err != nil {
		return stats, err
	}
	return stats, nil
}

func (s *Service) processOne(ctx context.Context, in Input, stats *RunStats) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	result := s.proc.Process(ctx, in.Text, s.cfg.Mode)
	if !result.Succeeded() && ctx.Err() != nil {
		// a canceled run must not record a failure for this input
		return ctx.Err()
	}

	out := Output{
		ID:          uuid.NewString(),
		Kind:        in.Kind,
		Key:         in.Key,
		Title:       in.Title,
		URL:         in.URL,
		Mode:        s.cfg.Mode,
		ProcessedAt: s.now().UTC(),
		Result:      result,
	}
	if err := s.store.Save(ctx, out); err != nil {
		return fmt.Errorf("save output for %s %s: %w", in.Kind, in.Key, err)
	}

	switch in.Kind {
	case KindFile:
		if err := s.inbox.Done(ctx, in); err != nil {
			return fmt.Errorf("acknowledge %s: %w", in.Key, err)
		}
	case KindFeed:
		s.markSeen(in)
	}

	if result.Succeeded() {
		atomic.AddInt64(&stats.Succeeded, 1)
	} else {
		atomic.AddInt64(&stats.Failed, 1)
		s.logger.WarnContext(ctx, "input produced a failure result",
			slog.String("kind", in.Kind),
			slog.String("key", in.Key),
			slog.String("output_id", out.ID))
	}
	return nil
}

func (s *Service) wasSeen(in Input) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[in.Key]
	return ok
}

func (s *Service) markSeen(in Input) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[in.Key] = struct{}{}
}

// IsCanceled reports whether err is a context cancellation or deadline.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
