package entity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		message  string
		expected string
	}{
		{
			name:     "simple validation error",
			field:    "mode",
			message:  "unsupported",
			expected: "validation error on field 'mode': unsupported",
		},
		{
			name:     "empty field name",
			field:    "",
			message:  "test message",
			expected: "validation error on field '': test message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &ValidationError{
				Field:   tt.field,
				Message: tt.message,
			}

			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestNotesError_ErrorAndUnwrap(t *testing.T) {
	base := errors.New("connection refused")
	err := NewAnnotationError("annotate", base)

	assert.Equal(t, "annotate: connection refused", err.Error())
	assert.ErrorIs(t, err, base)
	assert.Equal(t, KindAnnotation, err.Kind)

	bare := &NotesError{Kind: KindModel, Err: base}
	assert.Equal(t, "connection refused", bare.Error())
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{name: "nil", err: nil, want: ""},
		{name: "model error", err: NewModelError("summarize", errors.New("x")), want: KindModel},
		{name: "wrapped notes error", err: fmt.Errorf("outer: %w", NewAnnotationError("annotate", errors.New("x"))), want: KindAnnotation},
		{name: "empty text sentinel", err: ErrEmptyText, want: KindInput},
		{name: "wrapped mode sentinel", err: fmt.Errorf("parse: %w", ErrUnsupportedMode), want: KindInput},
		{name: "validation error", err: &ValidationError{Field: "text", Message: "bad"}, want: KindInput},
		{name: "plain error", err: errors.New("boom"), want: KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestSentinelErrors_AreInvalidInput(t *testing.T) {
	for _, err := range []error{ErrEmptyText, ErrUnsupportedMode, ErrInputTooLong} {
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}
