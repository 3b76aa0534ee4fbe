package compose

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"study-notes/internal/domain/entity"
)

const (
	formalIntro      = "The following summarizes the key points from the provided content. "
	formalConclusion = " The preceding summary encapsulates the essential information contained in the original text."

	// longSentenceTokens is the token count above which Simplify splits a sentence.
	longSentenceTokens = 20
)

var conjunctions = []string{"and", "but", "or", "because", "since"}

// Bulletize renders every non-blank sentence of doc as a "• " line.
func Bulletize(doc *entity.Document) string {
	var lines []string
	for _, s := range doc.Sentences {
		if sentence := strings.TrimSpace(s.Text); sentence != "" {
			lines = append(lines, "• "+sentence)
		}
	}
	return strings.Join(lines, "\n")
}

// Simplify splits sentences longer than 20 tokens after ".", "," or ";" and
// around the conjunctions and, but, or, because and since, then joins all
// pieces with single spaces. The split conjunctions are dropped.
func Simplify(doc *entity.Document) string {
	var pieces []string
	for _, s := range doc.Sentences {
		if len(s.Tokens) > longSentenceTokens {
			pieces = append(pieces, splitClauses(s.Text)...)
			continue
		}
		pieces = append(pieces, s.Text)
	}

	out := pieces[:0]
	for _, p := range pieces {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

// Embellish wraps text in a formal introduction and conclusion.
func Embellish(text string) string {
	return formalIntro + text + formalConclusion
}

// splitClauses cuts s at whitespace that follows [.,;] and at
// "<word> <conjunction> <word>" boundaries, removing the conjunction.
func splitClauses(s string) []string {
	var (
		parts []string
		start int
	)
	for i := 0; i < len(s); {
		if i == 0 || !isSpaceAt(s, i) {
			i++
			continue
		}
		prev, _ := utf8.DecodeLastRuneInString(s[:i])
		wsEnd := skipSpace(s, i)

		if strings.ContainsRune(".,;", prev) {
			parts = append(parts, s[start:i])
			start, i = wsEnd, wsEnd
			continue
		}
		if isWordRune(prev) {
			if end, ok := conjunctionAt(s, wsEnd); ok {
				parts = append(parts, s[start:i])
				start, i = end, end
				continue
			}
		}
		i = wsEnd
	}
	return append(parts, s[start:])
}

// conjunctionAt reports whether s[at:] starts with a conjunction followed by
// whitespace and a word rune, returning the offset of that word rune.
func conjunctionAt(s string, at int) (int, bool) {
	for _, c := range conjunctions {
		if !strings.HasPrefix(s[at:], c) {
			continue
		}
		after := at + len(c)
		if after >= len(s) || !isSpaceAt(s, after) {
			continue
		}
		next := skipSpace(s, after)
		if r, _ := utf8.DecodeRuneInString(s[next:]); next < len(s) && isWordRune(r) {
			return next, true
		}
	}
	return 0, false
}

func isSpaceAt(s string, i int) bool {
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsSpace(r)
}

func skipSpace(s string, i int) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	return i
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
