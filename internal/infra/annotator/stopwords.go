package annotator

import (
	_ "embed"
	"strings"
)

//go:embed stopwords.txt
var stopwordList string

var stopwords = func() map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(stopwordList) {
		set[w] = true
	}
	return set
}()

// IsStopword reports whether word is an English stopword, ignoring case.
func IsStopword(word string) bool {
	return stopwords[strings.ToLower(word)]
}
