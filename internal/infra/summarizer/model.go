package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"study-notes/internal/infra/llm"
	"study-notes/internal/utils/text"
)

// maxInputRunes keeps one prompt well inside the context window of every
// supported model. Segments are normally far shorter.
const maxInputRunes = 12000

const systemPrompt = "You write faithful summaries of study material. " +
	"Use only facts stated in the text. Reply with the summary only."

// Option customizes a Model.
type Option func(*Model)

// WithMetricsRecorder replaces the Prometheus recorder.
func WithMetricsRecorder(r SummaryMetricsRecorder) Option {
	return func(m *Model) { m.metrics = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// Model summarizes through a chat-completion provider.
type Model struct {
	completer llm.Completer
	metrics   SummaryMetricsRecorder
	logger    *slog.Logger
}

// New creates a Model over completer.
func New(completer llm.Completer, opts ...Option) *Model {
	m := &Model{
		completer: completer,
		metrics:   NewPrometheusSummaryMetrics(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger.Info("initialized model summarizer", slog.String("provider", completer.Provider()))
	return m
}

// Summarize compresses input to between minLen and maxLen words. The bounds
// are requested from the model, not enforced: a reply outside them is
// returned and counted in metrics.
func (m *Model) Summarize(ctx context.Context, input string, maxLen, minLen int) (string, error) {
	if err := ValidateLengthBounds(maxLen, minLen); err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}

	truncated := input
	if text.CountRunes(input) > maxInputRunes {
		truncated = text.TruncateRunes(input, maxInputRunes) + "..."
		m.logger.WarnContext(ctx, "text truncated for summarization",
			slog.Int("original_length", text.CountRunes(input)),
			slog.Int("truncated_length", maxInputRunes))
	}

	start := time.Now()
	summary, err := m.completer.Complete(ctx, llm.Request{
		System:    systemPrompt,
		Prompt:    buildPrompt(truncated, maxLen, minLen),
		MaxTokens: maxLen*2 + 64,
	})
	duration := time.Since(start)
	if err != nil {
		return "", fmt.Errorf("%s summarize: %w", m.completer.Provider(), err)
	}

	summary = strings.Join(strings.Fields(summary), " ")
	words := text.CountWords(summary)
	withinBounds := words >= minLen && words <= maxLen

	m.metrics.RecordLength(words)
	m.metrics.RecordDuration(duration)
	m.metrics.RecordCompliance(withinBounds)
	if !withinBounds {
		m.metrics.RecordOutOfBounds()
		m.logger.WarnContext(ctx, "summary outside word bounds",
			slog.Int("words", words),
			slog.Int("min", minLen),
			slog.Int("max", maxLen))
	}

	m.logger.DebugContext(ctx, "segment summarized",
		slog.String("provider", m.completer.Provider()),
		slog.Int("input_words", text.CountWords(truncated)),
		slog.Int("summary_words", words),
		slog.Duration("duration", duration))
	return summary, nil
}

func buildPrompt(input string, maxLen, minLen int) string {
	return fmt.Sprintf("Summarize the following text in %d to %d words.\n\n%s", minLen, maxLen, input)
}
