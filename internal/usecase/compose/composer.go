package compose

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"study-notes/internal/domain/entity"
	"study-notes/internal/observability/metrics"
	"study-notes/internal/observability/tracing"
	"study-notes/internal/utils/text"
)

// fallbackRunes is how much of a failed segment is kept as its summary.
const fallbackRunes = 100

// Model is the summarization model used for each segment.
type Model interface {
	Summarize(ctx context.Context, text string, maxLen, minLen int) (string, error)
}

// Annotator re-annotates the combined summary for post-processing.
type Annotator interface {
	Annotate(ctx context.Context, text string) (*entity.Document, error)
}

// State is a step of the composer state machine.
type State int

const (
	StateIdle State = iota
	StateSegmenting
	StateSummarizing
	StateFailed
	StateCombining
	StatePostProcessing
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSegmenting:
		return "segmenting"
	case StateSummarizing:
		return "summarizing"
	case StateFailed:
		return "failed"
	case StateCombining:
		return "combining"
	case StatePostProcessing:
		return "post_processing"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Composition is the outcome of one Compose call.
type Composition struct {
	Summary   string
	Budget    Budget
	Segments  int
	Fallbacks int
	// Transitions lists the states visited, in order.
	Transitions []State
}

// Composer drives the summarization model over document segments.
type Composer struct {
	model           Model
	annotator       Annotator
	budget          BudgetStrategy
	maxSegmentWords int
	logger          *slog.Logger
}

// Option configures a Composer.
type Option func(*Composer)

// WithBudget sets the budget strategy. The default is AdaptiveBudget.
func WithBudget(b BudgetStrategy) Option {
	return func(c *Composer) { c.budget = b }
}

// WithMaxSegmentWords sets the segment cap.
func WithMaxSegmentWords(n int) Option {
	return func(c *Composer) { c.maxSegmentWords = n }
}

// WithLogger sets the logger used for state transitions and fallbacks.
func WithLogger(l *slog.Logger) Option {
	return func(c *Composer) { c.logger = l }
}

// NewComposer returns a Composer. annotator is only used to split the combined
// summary into sentences for bullets and simplification.
func NewComposer(model Model, annotator Annotator, opts ...Option) *Composer {
	c := &Composer{
		model:           model,
		annotator:       annotator,
		budget:          AdaptiveBudget{},
		maxSegmentWords: DefaultSegmentWords,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose summarizes doc according to opts.
//
// A segment whose summarization fails (or yields nothing) is replaced by its
// first 100 characters followed by "..." and composition continues. The only
// error returned is the context's, when it is cancelled mid-way.
func (c *Composer) Compose(ctx context.Context, doc *entity.Document, opts entity.SummaryOptions) (comp Composition, err error) {
	ctx, span := tracing.StartSpan(ctx, "notes.compose",
		attribute.String("mode", string(opts.Mode)),
		attribute.String("budget_strategy", c.budget.Name()),
	)
	defer func() { tracing.EndSpan(span, err) }()

	comp.Transitions = []State{StateIdle}
	c.enter(ctx, &comp, StateSegmenting)

	segments := Segment(doc, c.maxSegmentWords)
	comp.Segments = len(segments)
	comp.Budget = c.budget.Budget(text.CountWords(doc.Text()), opts)

	outputs := make([]string, 0, len(segments))
	for i, segment := range segments {
		if err := ctx.Err(); err != nil {
			return Composition{}, err
		}
		c.enter(ctx, &comp, StateSummarizing, slog.Int("segment", i))

		summary, sErr := c.model.Summarize(ctx, segment, comp.Budget.Max, comp.Budget.Min)
		summary = strings.TrimSpace(summary)
		if sErr == nil && summary != "" {
			outputs = append(outputs, summary)
			metrics.RecordSegment("summarized")
			continue
		}
		if err := ctx.Err(); err != nil {
			return Composition{}, err
		}

		c.enter(ctx, &comp, StateFailed, slog.Int("segment", i))
		c.logger.WarnContext(ctx, "segment summarization failed, using excerpt",
			slog.Int("segment", i),
			slog.Int("segment_runes", text.CountRunes(segment)),
			slog.Any("error", sErr))
		outputs = append(outputs, excerpt(segment))
		comp.Fallbacks++
		metrics.RecordSegment("fallback")
	}

	c.enter(ctx, &comp, StateCombining)
	combined := strings.Join(outputs, " ")

	c.enter(ctx, &comp, StatePostProcessing)
	comp.Summary = c.postProcess(ctx, combined, opts)

	c.enter(ctx, &comp, StateDone)
	span.SetAttributes(
		attribute.Int("segments", comp.Segments),
		attribute.Int("fallbacks", comp.Fallbacks),
	)
	return comp, nil
}

func (c *Composer) postProcess(ctx context.Context, combined string, opts entity.SummaryOptions) string {
	switch {
	case combined == "":
		return ""
	case opts.Bulleted():
		doc, ok := c.reannotate(ctx, combined)
		if !ok {
			return "• " + combined
		}
		return Bulletize(doc)
	case opts.Readability <= 2:
		doc, ok := c.reannotate(ctx, combined)
		if !ok {
			return combined
		}
		return Simplify(doc)
	case opts.Readability >= 4:
		return Embellish(combined)
	default:
		return combined
	}
}

func (c *Composer) reannotate(ctx context.Context, combined string) (*entity.Document, bool) {
	if c.annotator == nil {
		return nil, false
	}
	doc, err := c.annotator.Annotate(ctx, combined)
	if err != nil {
		c.logger.WarnContext(ctx, "summary re-annotation failed, skipping sentence post-processing",
			slog.Any("error", err))
		return nil, false
	}
	return doc, true
}

func (c *Composer) enter(ctx context.Context, comp *Composition, s State, attrs ...slog.Attr) {
	comp.Transitions = append(comp.Transitions, s)
	c.logger.LogAttrs(ctx, slog.LevelDebug, "composer state", append(attrs, slog.String("state", s.String()))...)
}

func excerpt(segment string) string {
	return text.TruncateRunes(segment, fallbackRunes) + "..."
}
