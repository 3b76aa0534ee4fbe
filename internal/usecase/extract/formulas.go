package extract

import (
	"regexp"

	"study-notes/internal/domain/entity"
	"study-notes/internal/utils/text"
)

// formulaPattern matches "identifier = expression" where the expression is built
// from letters, digits and + - * / ^ ( ). Operators may be spaced.
var formulaPattern = regexp.MustCompile(
	`\b([A-Za-z][A-Za-z0-9_]*)\s*=\s*([A-Za-z0-9()][A-Za-z0-9+\-*/^()]*(?:\s*[+\-*/^]\s*[A-Za-z0-9()][A-Za-z0-9+\-*/^()]*)*)`)

// Formulas returns one Formula per match, normalized to "lhs = rhs", with the
// cleaned sentence as context. Expressions are not validated.
func Formulas(doc *entity.Document) []entity.Formula {
	var out []entity.Formula
	for _, s := range doc.Sentences {
		cleaned := text.Clean(s.Text)
		for _, m := range formulaPattern.FindAllStringSubmatch(cleaned, -1) {
			out = append(out, entity.Formula{
				Formula: m[1] + " = " + m[2],
				Context: cleaned,
			})
		}
	}
	return out
}
