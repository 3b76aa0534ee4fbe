package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSentence() Sentence {
	return Sentence{
		Text: "Isaac Newton wrote laws.",
		Tokens: []Token{
			{Text: "Isaac", POS: PosPropn, Span: Span{0, 5}},
			{Text: "Newton", POS: PosPropn, Span: Span{6, 12}},
			{Text: "wrote", POS: PosVerb, Span: Span{13, 18}},
			{Text: "laws", POS: PosNoun, Span: Span{19, 23}},
			{Text: ".", POS: PosPunct, Span: Span{23, 24}},
		},
		Entities:    []Entity{{Text: "Isaac Newton", Label: LabelPerson, Span: Span{0, 12}}},
		NounPhrases: []NounPhrase{{Text: "Isaac Newton", Span: Span{0, 12}}, {Text: "laws", Span: Span{19, 23}}},
	}
}

func TestSentence_WordCount(t *testing.T) {
	assert.Equal(t, 4, sampleSentence().WordCount())
}

func TestSentence_TokensIn(t *testing.T) {
	toks := sampleSentence().TokensIn(Span{0, 12})
	require.Len(t, toks, 2)
	assert.Equal(t, "Newton", toks[1].Text)
}

func TestDocument_TextAndEntities(t *testing.T) {
	doc := &Document{Sentences: []Sentence{sampleSentence(), {Text: "Second one."}}}

	assert.Equal(t, "Isaac Newton wrote laws. Second one.", doc.Text())
	assert.Len(t, doc.Entities(), 1)
}

func TestDocument_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		doc := &Document{Sentences: []Sentence{sampleSentence()}}
		assert.NoError(t, doc.Validate())
	})

	t.Run("overlapping tokens", func(t *testing.T) {
		s := sampleSentence()
		s.Tokens[1].Span = Span{3, 12}
		err := (&Document{Sentences: []Sentence{s}}).Validate()

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "sentences[0].token", vErr.Field)
	})

	t.Run("span out of bounds", func(t *testing.T) {
		s := sampleSentence()
		s.NounPhrases[1].Span = Span{19, 99}
		err := (&Document{Sentences: []Sentence{s}}).Validate()

		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "out of bounds"))
	})
}

func TestValidateText(t *testing.T) {
	assert.ErrorIs(t, ValidateText("   \n\t", 10), ErrEmptyText)
	assert.NoError(t, ValidateText("one two three", 3))
	assert.ErrorIs(t, ValidateText("one two three four", 3), ErrInputTooLong)
	assert.NoError(t, ValidateText(strings.Repeat("w ", 5000), 0))
}
