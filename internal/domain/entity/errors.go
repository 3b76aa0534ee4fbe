package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyText indicates that the text to process is empty after trimming
	ErrEmptyText = fmt.Errorf("%w: no text provided for processing", ErrInvalidInput)

	// ErrUnsupportedMode indicates that the requested mode is not one of the known modes
	ErrUnsupportedMode = fmt.Errorf("%w: unsupported mode", ErrInvalidInput)

	// ErrInputTooLong indicates that the text exceeds the configured word limit
	ErrInputTooLong = fmt.Errorf("%w: input exceeds maximum word count", ErrInvalidInput)
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ErrorKind classifies a pipeline failure for callers of the notes pipeline.
type ErrorKind string

const (
	KindInput      ErrorKind = "input_error"
	KindAnnotation ErrorKind = "annotation_error"
	KindModel      ErrorKind = "model_error"
	KindInternal   ErrorKind = "internal_error"
)

// NotesError is an error raised by one stage of the notes pipeline.
// Op names the stage ("annotate", "summarize", "topics", ...).
type NotesError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

// Error returns the stage-prefixed message.
func (e *NotesError) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *NotesError) Unwrap() error {
	return e.Err
}

// NewInputError wraps err as an input error.
func NewInputError(op string, err error) *NotesError {
	return &NotesError{Kind: KindInput, Op: op, Err: err}
}

// NewAnnotationError wraps err as an annotator failure.
func NewAnnotationError(op string, err error) *NotesError {
	return &NotesError{Kind: KindAnnotation, Op: op, Err: err}
}

// NewModelError wraps err as a summarization or sentiment collaborator failure.
func NewModelError(op string, err error) *NotesError {
	return &NotesError{Kind: KindModel, Op: op, Err: err}
}

// NewInternalError wraps err as an unexpected failure.
func NewInternalError(op string, err error) *NotesError {
	return &NotesError{Kind: KindInternal, Op: op, Err: err}
}

// KindOf reports the ErrorKind carried by err.
// Validation errors and ErrInvalidInput map to KindInput; anything unclassified is KindInternal.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var notesErr *NotesError
	if errors.As(err, &notesErr) {
		return notesErr.Kind
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) || errors.Is(err, ErrInvalidInput) {
		return KindInput
	}

	return KindInternal
}
