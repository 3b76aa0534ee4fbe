package extract

import (
	"strings"

	"study-notes/internal/domain/entity"
)

// Concept rules, highest priority first. The subject group excludes ',', ';' and
// ':' so a definition never starts in the middle of a clause list.
var (
	DefinedAsRule = NewRegexRule("defined-as",
		`(?i)^([^,;:]+?)\s+(?:(?:is|are)\s+(?:defined as|known as)|refers? to|means?)\s+(.+)$`)
	IsARule = NewRegexRule("is-a",
		`(?i)^([^,;:]+?)\s+(?:is|are)\s+((?:a|an)\s+.+)$`)
	IsRule = NewRegexRule("is",
		`(?i)^([^,;:]+?)\s+(?:is|are)\s+(.+)$`)
	ColonRule = NewRegexRule("colon",
		`^([^:]+?):\s+(.+)$`)
	NumberedRule PatternRule = numberedRule{}
)

// ConceptExtractor runs the definition pass and then the numbered-list pass.
type ConceptExtractor struct {
	passes []*RuleEngine
}

// NewConceptExtractor returns the default two-pass extractor.
func NewConceptExtractor() *ConceptExtractor {
	return &ConceptExtractor{passes: []*RuleEngine{
		NewRuleEngine(NewFirstMatch("definition", DefinedAsRule, IsARule, IsRule), ColonRule),
		NewRuleEngine(NumberedRule),
	}}
}

// NewConceptExtractorWithPasses builds an extractor from custom passes.
func NewConceptExtractorWithPasses(passes ...*RuleEngine) *ConceptExtractor {
	return &ConceptExtractor{passes: passes}
}

// Extract returns the concepts of doc deduplicated by lowercase
// (concept, definition), first seen first.
func (x *ConceptExtractor) Extract(doc *entity.Document) []entity.Concept {
	seen := make(map[[2]string]bool)
	var out []entity.Concept
	for _, pass := range x.passes {
		for _, c := range pass.Apply(doc) {
			key := [2]string{strings.ToLower(c.Concept), strings.ToLower(c.Definition)}
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, c)
		}
	}
	return out
}

// Concepts runs the default concept extractor.
func Concepts(doc *entity.Document) []entity.Concept {
	return NewConceptExtractor().Extract(doc)
}
