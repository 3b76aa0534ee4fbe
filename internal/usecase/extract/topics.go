package extract

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"study-notes/internal/domain/entity"
)

// DefaultNumTopics is the number of topics returned when the caller passes n <= 0.
const DefaultNumTopics = 5

// maxSentimentSentences caps how many containing sentences feed one sentiment call.
const maxSentimentSentences = 3

var topicLabels = map[string]bool{
	entity.LabelOrg:     true,
	entity.LabelProduct: true,
	entity.LabelGPE:     true,
	entity.LabelEvent:   true,
	entity.LabelTech:    true,
}

// Classifier assigns a sentiment to a piece of text.
type Classifier interface {
	Classify(ctx context.Context, text string) (entity.Sentiment, error)
}

// frequencies counts keys and remembers the order in which they were first seen.
type frequencies struct {
	order  []string
	counts map[string]int
}

func newFrequencies() *frequencies {
	return &frequencies{counts: make(map[string]int)}
}

func (f *frequencies) add(key string) {
	if _, ok := f.counts[key]; !ok {
		f.order = append(f.order, key)
	}
	f.counts[key]++
}

// ranked returns keys by descending count. Equal counts keep first-seen order.
func (f *frequencies) ranked() []string {
	keys := make([]string, len(f.order))
	copy(keys, f.order)
	sort.SliceStable(keys, func(i, j int) bool {
		return f.counts[keys[i]] > f.counts[keys[j]]
	})
	return keys
}

// TopicFrequencies counts lowercase noun phrases that are not made only of
// stopwords, and lowercase entities with a topic label, in document order.
func TopicFrequencies(doc *entity.Document) ([]string, map[string]int) {
	f := newFrequencies()
	for _, s := range doc.Sentences {
		for _, np := range s.NounPhrases {
			phrase := strings.ToLower(strings.TrimSpace(np.Text))
			if phrase == "" || allStopwords(s.TokensIn(np.Span)) {
				continue
			}
			f.add(phrase)
		}
		for _, ent := range s.Entities {
			if !topicLabels[ent.Label] {
				continue
			}
			if name := strings.ToLower(strings.TrimSpace(ent.Text)); name != "" {
				f.add(name)
			}
		}
	}
	return f.ranked(), f.counts
}

// Topics returns the n most frequent topics with their sentiment.
//
// Ties in frequency are broken by first occurrence in the document. Sentiment is
// classified once per topic over its first three containing sentences; a topic
// with no containing sentence is neutral and the classifier is not called.
func Topics(ctx context.Context, doc *entity.Document, classifier Classifier, n int) ([]entity.Topic, error) {
	if n <= 0 {
		n = DefaultNumTopics
	}

	ranked, counts := TopicFrequencies(doc)
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	topics := make([]entity.Topic, 0, len(ranked))
	for _, topic := range ranked {
		label, err := topicSentiment(ctx, doc, classifier, topic)
		if err != nil {
			return nil, fmt.Errorf("classify topic %q: %w", topic, err)
		}
		topics = append(topics, entity.Topic{Topic: topic, Frequency: counts[topic], Sentiment: label})
	}
	return topics, nil
}

func topicSentiment(ctx context.Context, doc *entity.Document, classifier Classifier, topic string) (entity.SentimentLabel, error) {
	var containing []string
	for _, s := range doc.Sentences {
		if strings.Contains(strings.ToLower(s.Text), topic) {
			containing = append(containing, strings.TrimSpace(s.Text))
			if len(containing) == maxSentimentSentences {
				break
			}
		}
	}
	if len(containing) == 0 || classifier == nil {
		return entity.SentimentNeutral, nil
	}

	sentiment, err := classifier.Classify(ctx, strings.Join(containing, " "))
	if err != nil {
		return "", err
	}
	if !sentiment.Label.Valid() {
		return entity.SentimentNeutral, nil
	}
	return sentiment.Label, nil
}

func allStopwords(tokens []entity.Token) bool {
	if len(tokens) == 0 {
		return false
	}
	for _, t := range tokens {
		if !t.IsStop && t.POS != entity.PosPunct {
			return false
		}
	}
	return true
}
