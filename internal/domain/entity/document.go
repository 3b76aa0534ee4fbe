package entity

import (
	"fmt"
	"strings"
)

// Coarse part-of-speech tags carried by Token.POS.
const (
	PosNoun  = "NOUN"
	PosPropn = "PROPN"
	PosVerb  = "VERB"
	PosAux   = "AUX"
	PosAdj   = "ADJ"
	PosAdv   = "ADV"
	PosPron  = "PRON"
	PosDet   = "DET"
	PosAdp   = "ADP"
	PosNum   = "NUM"
	PosCconj = "CCONJ"
	PosSconj = "SCONJ"
	PosPart  = "PART"
	PosPunct = "PUNCT"
	PosSym   = "SYM"
	PosOther = "X"
)

// Entity labels produced by the annotators.
const (
	LabelPerson  = "PERSON"
	LabelOrg     = "ORG"
	LabelGPE     = "GPE"
	LabelProduct = "PRODUCT"
	LabelEvent   = "EVENT"
	LabelTech    = "TECH"
)

// Span is a half-open byte range [Start, End) relative to the owning sentence text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Overlaps reports whether two spans share at least one byte.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// Contains reports whether other lies entirely inside s.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// Token is a single annotated word or punctuation mark.
type Token struct {
	Text   string `json:"text"`
	POS    string `json:"pos"`
	IsStop bool   `json:"is_stop"`
	Span   Span   `json:"span"`
}

// Entity is a named span classified by a semantic label.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Span  Span   `json:"span"`
}

// NounPhrase is a maximal noun-headed chunk.
type NounPhrase struct {
	Text string `json:"text"`
	Span Span   `json:"span"`
}

// Sentence is one annotated sentence of a Document.
type Sentence struct {
	Text        string       `json:"text"`
	Tokens      []Token      `json:"tokens"`
	Entities    []Entity     `json:"entities"`
	NounPhrases []NounPhrase `json:"noun_phrases"`
}

// WordCount returns the number of non-punctuation tokens.
func (s Sentence) WordCount() int {
	n := 0
	for _, tok := range s.Tokens {
		if tok.POS != PosPunct {
			n++
		}
	}
	return n
}

// TokensIn returns the tokens whose spans lie inside span.
func (s Sentence) TokensIn(span Span) []Token {
	var tokens []Token
	for _, tok := range s.Tokens {
		if span.Contains(tok.Span) {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// Document is the annotated form of an input text. Sentences are in reading order.
type Document struct {
	Sentences []Sentence `json:"sentences"`
}

// Text joins the sentence texts with single spaces.
func (d *Document) Text() string {
	parts := make([]string, 0, len(d.Sentences))
	for _, s := range d.Sentences {
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, " ")
}

// Entities returns every entity in document order.
func (d *Document) Entities() []Entity {
	var out []Entity
	for _, s := range d.Sentences {
		out = append(out, s.Entities...)
	}
	return out
}

// Validate checks that every span lies within its sentence and that spans of the
// same kind do not overlap within a sentence.
func (d *Document) Validate() error {
	for i, s := range d.Sentences {
		tokenSpans := make([]Span, 0, len(s.Tokens))
		for _, t := range s.Tokens {
			tokenSpans = append(tokenSpans, t.Span)
		}
		entitySpans := make([]Span, 0, len(s.Entities))
		for _, e := range s.Entities {
			entitySpans = append(entitySpans, e.Span)
		}
		phraseSpans := make([]Span, 0, len(s.NounPhrases))
		for _, np := range s.NounPhrases {
			phraseSpans = append(phraseSpans, np.Span)
		}

		groups := []struct {
			kind  string
			spans []Span
		}{
			{"token", tokenSpans},
			{"entity", entitySpans},
			{"noun_phrase", phraseSpans},
		}
		for _, g := range groups {
			if err := checkSpans(len(s.Text), g.spans); err != nil {
				return &ValidationError{
					Field:   fmt.Sprintf("sentences[%d].%s", i, g.kind),
					Message: err.Error(),
				}
			}
		}
	}
	return nil
}

func checkSpans(textLen int, spans []Span) error {
	for i, sp := range spans {
		if sp.Start < 0 || sp.End > textLen || sp.Start > sp.End {
			return fmt.Errorf("span [%d,%d) out of bounds for length %d", sp.Start, sp.End, textLen)
		}
		for _, prev := range spans[:i] {
			if sp.Overlaps(prev) {
				return fmt.Errorf("span [%d,%d) overlaps [%d,%d)", sp.Start, sp.End, prev.Start, prev.End)
			}
		}
	}
	return nil
}
