package extract

import (
	"regexp"
	"strings"

	"study-notes/internal/domain/entity"
	"study-notes/internal/utils/text"
)

// PatternRule extracts concept candidates from one cleaned sentence.
// Rules are pure, so each can be unit tested on its own.
type PatternRule interface {
	Name() string
	Match(sentence string) []entity.Concept
}

// RegexRule is a PatternRule backed by a regular expression with two capture
// groups: the concept and the definition.
type RegexRule struct {
	name string
	re   *regexp.Regexp
}

// NewRegexRule compiles pattern into a RegexRule. The pattern must have exactly
// two capture groups.
func NewRegexRule(name, pattern string) *RegexRule {
	return &RegexRule{name: name, re: regexp.MustCompile(pattern)}
}

func (r *RegexRule) Name() string { return r.name }

func (r *RegexRule) Match(sentence string) []entity.Concept {
	m := r.re.FindStringSubmatch(sentence)
	if m == nil {
		return nil
	}
	c, ok := newConcept(m[1], m[2], sentence)
	if !ok {
		return nil
	}
	return []entity.Concept{c}
}

// FirstMatch tries its rules in order and reports only the first that matches.
type FirstMatch struct {
	name  string
	rules []PatternRule
}

// NewFirstMatch groups rules into a priority cascade.
func NewFirstMatch(name string, rules ...PatternRule) *FirstMatch {
	return &FirstMatch{name: name, rules: rules}
}

func (f *FirstMatch) Name() string { return f.name }

func (f *FirstMatch) Match(sentence string) []entity.Concept {
	for _, r := range f.rules {
		if found := r.Match(sentence); len(found) > 0 {
			return found
		}
	}
	return nil
}

// numberedRule splits "<n>. concept. definition" items.
type numberedRule struct{}

var numberedPrefix = regexp.MustCompile(`^\d+\.\s+`)

func (numberedRule) Name() string { return "numbered" }

func (numberedRule) Match(sentence string) []entity.Concept {
	loc := numberedPrefix.FindStringIndex(sentence)
	if loc == nil {
		return nil
	}
	rest := sentence[loc[1]:]
	concept, definition, found := strings.Cut(rest, ". ")
	if !found {
		return nil
	}
	c, ok := newConcept(concept, definition, sentence)
	if !ok {
		return nil
	}
	return []entity.Concept{c}
}

const (
	maxConceptWords    = 5
	minDefinitionWords = 3
)

// newConcept applies the acceptance rules shared by every concept rule.
func newConcept(concept, definition, context string) (entity.Concept, bool) {
	concept = strings.TrimSpace(numberedPrefix.ReplaceAllString(strings.TrimSpace(concept), ""))
	definition = strings.TrimSuffix(strings.TrimSpace(definition), ".")
	definition = strings.TrimSpace(definition)

	if concept == "" {
		return entity.Concept{}, false
	}
	if text.CountWords(concept) > maxConceptWords || text.CountWords(definition) < minDefinitionWords {
		return entity.Concept{}, false
	}
	return entity.Concept{Concept: concept, Definition: definition, Context: context}, true
}

// RuleEngine applies an ordered list of rules to every sentence of a document.
type RuleEngine struct {
	rules []PatternRule
}

// NewRuleEngine returns an engine evaluating rules in the given order.
func NewRuleEngine(rules ...PatternRule) *RuleEngine {
	return &RuleEngine{rules: rules}
}

// Rules returns the configured rules in evaluation order.
func (e *RuleEngine) Rules() []PatternRule {
	return e.rules
}

// Apply returns every match in sentence order, then rule order.
func (e *RuleEngine) Apply(doc *entity.Document) []entity.Concept {
	var out []entity.Concept
	for _, s := range doc.Sentences {
		cleaned := text.Clean(s.Text)
		if cleaned == "" {
			continue
		}
		for _, r := range e.rules {
			out = append(out, r.Match(cleaned)...)
		}
	}
	return out
}
