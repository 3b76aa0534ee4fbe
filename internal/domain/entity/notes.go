package entity

// ScoredSentence is a cleaned sentence with its key-point score.
type ScoredSentence struct {
	Text  string
	Score int
	Index int
}

// Concept is a term paired with the definition found for it.
type Concept struct {
	Concept    string `json:"concept" msgpack:"concept"`
	Definition string `json:"definition" msgpack:"definition"`
	Context    string `json:"context" msgpack:"context"`
}

// Formula is an "lhs = rhs" expression together with its source sentence.
type Formula struct {
	Formula string `json:"formula" msgpack:"formula"`
	Context string `json:"context" msgpack:"context"`
}

// QuestionType classifies a practice question.
type QuestionType string

const (
	QuestionConceptual QuestionType = "conceptual"
	QuestionPractical  QuestionType = "practical"
)

// Question is a question-like sentence lifted from the text.
type Question struct {
	Question string       `json:"question" msgpack:"question"`
	Type     QuestionType `json:"type" msgpack:"type"`
}

// SentimentLabel is the polarity assigned by a sentiment classifier.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// Valid reports whether l is one of the three known labels.
func (l SentimentLabel) Valid() bool {
	switch l {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}

// Sentiment is a classifier verdict.
type Sentiment struct {
	Label      SentimentLabel `json:"label" msgpack:"label"`
	Confidence float64        `json:"confidence" msgpack:"confidence"`
}

// Topic is a weighted subject of the text.
type Topic struct {
	Topic     string         `json:"topic" msgpack:"topic"`
	Frequency int            `json:"frequency" msgpack:"frequency"`
	Sentiment SentimentLabel `json:"sentiment" msgpack:"sentiment"`
}
