package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-notes/internal/domain/entity"
)

func energySentences() (entity.Sentence, entity.Sentence, entity.Sentence) {
	s1 := withPhrase(sent("Solar power is great."), "Solar power")
	s2 := withPhrase(sent("Wind energy is clean."), "Wind energy")
	s3 := withPhrase(sent("Solar power and wind energy grow."), "Solar power")
	s3 = withPhrase(s3, "wind energy")
	return s1, s2, s3
}

/* ───────── TopicFrequencies ───────── */

func TestTopicFrequencies_TiesKeepFirstOccurrence(t *testing.T) {
	s1, s2, s3 := energySentences()

	ranked, counts := TopicFrequencies(docOf(s1, s2, s3))
	assert.Equal(t, []string{"solar power", "wind energy"}, ranked)
	assert.Equal(t, 2, counts["solar power"])

	ranked, _ = TopicFrequencies(docOf(s2, s1, s3))
	assert.Equal(t, []string{"wind energy", "solar power"}, ranked)
}

func TestTopicFrequencies_FiltersStopwordsAndLabels(t *testing.T) {
	s := withPhrase(sent("It backs Tesla and Elon Musk."), "It")
	s = withEntity(s, "Tesla", entity.LabelOrg)
	s = withEntity(s, "Elon Musk", entity.LabelPerson)

	ranked, _ := TopicFrequencies(docOf(s))

	assert.Equal(t, []string{"tesla"}, ranked)
}

/* ───────── Topics ───────── */

func TestTopics_ClassifiesContainingSentences(t *testing.T) {
	s1, s2, s3 := energySentences()
	classifier := &mockClassifier{}

	topics, err := Topics(context.Background(), docOf(s1, s2, s3), classifier, 1)

	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, entity.Topic{Topic: "solar power", Frequency: 2, Sentiment: entity.SentimentPositive}, topics[0])
	assert.Equal(t, []string{"Solar power is great. Solar power and wind energy grow."}, classifier.calls)
}

func TestTopics_CapsSentimentSentences(t *testing.T) {
	var sentences []entity.Sentence
	for i := 0; i < 5; i++ {
		sentences = append(sentences, withPhrase(sent("Gravity matters."), "Gravity"))
	}
	classifier := &mockClassifier{}

	_, err := Topics(context.Background(), docOf(sentences...), classifier, 5)

	require.NoError(t, err)
	require.Len(t, classifier.calls, 1)
	assert.Equal(t, "Gravity matters. Gravity matters. Gravity matters.", classifier.calls[0])
}

func TestTopics_NoContainingSentenceIsNeutral(t *testing.T) {
	s := withPhrase(sent("Nothing here."), "ghost topic")
	classifier := &mockClassifier{}

	topics, err := Topics(context.Background(), docOf(s), classifier, 5)

	require.NoError(t, err)
	require.Len(t, topics, 1)
	assert.Equal(t, entity.SentimentNeutral, topics[0].Sentiment)
	assert.Empty(t, classifier.calls)
}

func TestTopics_InvalidLabelIsNeutral(t *testing.T) {
	s1, _, _ := energySentences()
	classifier := &mockClassifier{
		classifyFn: func(ctx context.Context, text string) (entity.Sentiment, error) {
			return entity.Sentiment{Label: "mixed"}, nil
		},
	}

	topics, err := Topics(context.Background(), docOf(s1), classifier, 5)

	require.NoError(t, err)
	assert.Equal(t, entity.SentimentNeutral, topics[0].Sentiment)
}

func TestTopics_NilClassifierIsNeutral(t *testing.T) {
	s1, _, _ := energySentences()

	topics, err := Topics(context.Background(), docOf(s1), nil, 5)

	require.NoError(t, err)
	assert.Equal(t, entity.SentimentNeutral, topics[0].Sentiment)
}

func TestTopics_ClassifierError(t *testing.T) {
	s1, _, _ := energySentences()
	boom := errors.New("model unavailable")
	classifier := &mockClassifier{
		classifyFn: func(ctx context.Context, text string) (entity.Sentiment, error) {
			return entity.Sentiment{}, boom
		},
	}

	topics, err := Topics(context.Background(), docOf(s1), classifier, 5)

	assert.Nil(t, topics)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `"solar power"`)
}
