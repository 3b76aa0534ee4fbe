package sentiment

import (
	"context"
	"fmt"
	"log/slog"

	"study-notes/internal/domain/entity"
	"study-notes/internal/infra/llm"
	"study-notes/internal/utils/text"
)

const classifyPrompt = `Classify the overall sentiment of the text below.
Reply with a JSON object {"label": "positive" | "negative" | "neutral", "confidence": number between 0 and 1} and nothing else.

Text:
%s`

// maxClassifyRunes bounds the text sent for one verdict.
const maxClassifyRunes = 4000

// Model classifies through a chat-completion provider.
type Model struct {
	completer llm.Completer
	logger    *slog.Logger
}

// NewModel creates a Model over completer. A nil logger uses slog.Default().
func NewModel(completer llm.Completer, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	return &Model{completer: completer, logger: logger}
}

// Classify implements notes.SentimentClassifier.
func (m *Model) Classify(ctx context.Context, input string) (entity.Sentiment, error) {
	reply, err := m.completer.Complete(ctx, llm.Request{
		Prompt:    fmt.Sprintf(classifyPrompt, text.TruncateRunes(input, maxClassifyRunes)),
		MaxTokens: 64,
		JSON:      true,
	})
	if err != nil {
		return entity.Sentiment{}, fmt.Errorf("%s classify: %w", m.completer.Provider(), err)
	}

	verdict, err := ParseReply(reply)
	if err != nil {
		m.logger.WarnContext(ctx, "rejected sentiment reply",
			slog.String("provider", m.completer.Provider()),
			slog.String("error", err.Error()))
		return entity.Sentiment{}, err
	}
	return verdict, nil
}
