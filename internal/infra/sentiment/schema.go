// Package sentiment provides the sentiment classifiers behind
// notes.SentimentClassifier: a model-backed classifier whose JSON replies are
// checked against a schema, and a local naive Bayes classifier.
package sentiment

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"study-notes/internal/domain/entity"
)

const replySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["label", "confidence"],
  "properties": {
    "label": {"type": "string", "enum": ["positive", "negative", "neutral"]},
    "confidence": {"type": "number", "minimum": 0, "maximum": 1}
  }
}`

// ErrMalformedReply is returned when a model reply is not a valid verdict.
var ErrMalformedReply = errors.New("malformed sentiment reply")

var compiledSchema = jsonschema.MustCompileString("sentiment-reply.json", replySchema)

// ParseReply extracts the first JSON object from a model reply and validates
// it. Models sometimes wrap the object in prose or code fences.
func ParseReply(reply string) (entity.Sentiment, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end < start {
		return entity.Sentiment{}, fmt.Errorf("%w: no JSON object in %q", ErrMalformedReply, reply)
	}
	raw := reply[start : end+1]

	var doc interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return entity.Sentiment{}, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	if err := compiledSchema.Validate(doc); err != nil {
		return entity.Sentiment{}, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}

	var s entity.Sentiment
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return entity.Sentiment{}, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	return s, nil
}
