package notes

import (
	"study-notes/internal/domain/entity"
)

// Result is one of *BriefResult, *DetailedResult, *BulletResult or *Failure.
type Result interface {
	Succeeded() bool
	ModeName() string
}

// Header carries the fields shared by every result variant.
type Header struct {
	Success bool   `json:"success" msgpack:"success"`
	Mode    string `json:"mode" msgpack:"mode"`
}

func (h Header) Succeeded() bool  { return h.Success }
func (h Header) ModeName() string { return h.Mode }

// BriefResult is returned for the brief mode.
type BriefResult struct {
	Header
	Summary   string         `json:"summary" msgpack:"summary"`
	KeyPoints []string       `json:"key_points" msgpack:"key_points"`
	Topics    []entity.Topic `json:"topics" msgpack:"topics"`
	WordCount int            `json:"word_count" msgpack:"word_count"`
}

// DetailedResult is returned for the detailed mode.
type DetailedResult struct {
	Header
	Summary           string            `json:"summary" msgpack:"summary"`
	KeyPoints         []string          `json:"key_points" msgpack:"key_points"`
	KeyConcepts       []entity.Concept  `json:"key_concepts" msgpack:"key_concepts"`
	Formulas          []entity.Formula  `json:"formulas" msgpack:"formulas"`
	PracticeQuestions []entity.Question `json:"practice_questions" msgpack:"practice_questions"`
	Topics            []entity.Topic    `json:"topics" msgpack:"topics"`
	Keywords          []string          `json:"keywords" msgpack:"keywords"`
	MainPoints        []string          `json:"main_points" msgpack:"main_points"`
	WordCount         int               `json:"word_count" msgpack:"word_count"`
}

// BulletResult is returned for the bullet_points mode. Summary holds one
// "• " line per summary sentence and Notes the formatted outline.
type BulletResult struct {
	Header
	Summary     string           `json:"summary" msgpack:"summary"`
	Notes       string           `json:"notes" msgpack:"notes"`
	KeyPoints   []string         `json:"key_points" msgpack:"key_points"`
	KeyConcepts []entity.Concept `json:"key_concepts" msgpack:"key_concepts"`
	WordCount   int              `json:"word_count" msgpack:"word_count"`
}

// Failure is returned whenever a request cannot be processed.
type Failure struct {
	Header
	Error      string           `json:"error" msgpack:"error"`
	ErrorKind  entity.ErrorKind `json:"error_kind" msgpack:"error_kind"`
	StackTrace *string          `json:"stack_trace,omitempty" msgpack:"stack_trace,omitempty"`
}

// NewFailure builds a failure result for an error raised outside Process,
// such as a request that could not be decoded.
func NewFailure(mode string, err error) *Failure {
	return &Failure{
		Header:    Header{Success: false, Mode: mode},
		Error:     err.Error(),
		ErrorKind: entity.KindOf(err),
	}
}
