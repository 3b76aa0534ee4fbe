package sentiment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-notes/internal/domain/entity"
	"study-notes/internal/infra/llm"
)

type mockCompleter struct {
	reply string
	err   error
	last  llm.Request
}

func (m *mockCompleter) Complete(_ context.Context, req llm.Request) (string, error) {
	m.last = req
	return m.reply, m.err
}

func (m *mockCompleter) Provider() string { return "mock" }

/* ───────── ParseReply ───────── */

func TestParseReply(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		want    entity.Sentiment
		wantErr bool
	}{
		{name: "plain object", reply: `{"label":"positive","confidence":0.92}`, want: entity.Sentiment{Label: entity.SentimentPositive, Confidence: 0.92}},
		{name: "code fence", reply: "```json\n{\"label\": \"negative\", \"confidence\": 0.7}\n```", want: entity.Sentiment{Label: entity.SentimentNegative, Confidence: 0.7}},
		{name: "extra fields allowed", reply: `{"label":"neutral","confidence":1,"reason":"factual"}`, want: entity.Sentiment{Label: entity.SentimentNeutral, Confidence: 1}},
		{name: "unknown label", reply: `{"label":"mixed","confidence":0.5}`, wantErr: true},
		{name: "confidence out of range", reply: `{"label":"positive","confidence":1.5}`, wantErr: true},
		{name: "missing confidence", reply: `{"label":"positive"}`, wantErr: true},
		{name: "string confidence", reply: `{"label":"positive","confidence":"high"}`, wantErr: true},
		{name: "no object", reply: "positive", wantErr: true},
		{name: "broken json", reply: `{"label": }`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReply(tt.reply)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedReply)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

/* ───────── Model ───────── */

func TestModel_Classify(t *testing.T) {
	completer := &mockCompleter{reply: `{"label":"positive","confidence":0.8}`}

	got, err := NewModel(completer, nil).Classify(context.Background(), "Solar power is promising.")
	require.NoError(t, err)
	assert.Equal(t, entity.Sentiment{Label: entity.SentimentPositive, Confidence: 0.8}, got)
	assert.True(t, completer.last.JSON)
	assert.Contains(t, completer.last.Prompt, "Solar power is promising.")
}

func TestModel_Classify_Errors(t *testing.T) {
	t.Run("provider error", func(t *testing.T) {
		boom := errors.New("timeout")
		_, err := NewModel(&mockCompleter{err: boom}, nil).Classify(context.Background(), "x")
		assert.ErrorIs(t, err, boom)
	})

	t.Run("invalid reply", func(t *testing.T) {
		_, err := NewModel(&mockCompleter{reply: "I think it is positive"}, nil).Classify(context.Background(), "x")
		assert.ErrorIs(t, err, ErrMalformedReply)
	})
}

/* ───────── Bayes ───────── */

func TestVerdict(t *testing.T) {
	tests := []struct {
		name  string
		class uint8
		p     float64
		want  entity.Sentiment
	}{
		{name: "confident positive", class: 1, p: 0.9, want: entity.Sentiment{Label: entity.SentimentPositive, Confidence: 0.9}},
		{name: "confident negative", class: 0, p: 0.8, want: entity.Sentiment{Label: entity.SentimentNegative, Confidence: 0.8}},
		{name: "weak positive is neutral", class: 1, p: 0.55, want: entity.Sentiment{Label: entity.SentimentNeutral, Confidence: 0.45}},
		{name: "threshold is inclusive", class: 0, p: DefaultNeutralBelow, want: entity.Sentiment{Label: entity.SentimentNegative, Confidence: DefaultNeutralBelow}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := verdict(tt.class, tt.p, DefaultNeutralBelow)
			assert.Equal(t, tt.want.Label, got.Label)
			assert.InDelta(t, tt.want.Confidence, got.Confidence, 1e-9)
		})
	}
}

func TestBayes_Classify(t *testing.T) {
	b, err := NewBayes()
	require.NoError(t, err)

	t.Run("no letters", func(t *testing.T) {
		got, err := b.Classify(context.Background(), "42 = 6 * 7")
		require.NoError(t, err)
		assert.Equal(t, entity.Sentiment{Label: entity.SentimentNeutral, Confidence: 1}, got)
	})

	t.Run("valid label", func(t *testing.T) {
		for _, input := range []string{
			"This was a wonderful, brilliant and moving film.",
			"A dull, boring and awful waste of time.",
			"The apple fell from the tree.",
		} {
			got, err := b.Classify(context.Background(), input)
			require.NoError(t, err)
			assert.True(t, got.Label.Valid(), input)
			assert.GreaterOrEqual(t, got.Confidence, 0.0)
			assert.LessOrEqual(t, got.Confidence, 1.0)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := b.Classify(ctx, "good")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
