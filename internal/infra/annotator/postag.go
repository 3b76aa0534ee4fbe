package annotator

import (
	"strings"
	"unicode"

	"study-notes/internal/domain/entity"
)

var auxiliaries = map[string]bool{
	"be": true, "am": true, "is": true, "are": true, "was": true, "were": true,
	"been": true, "being": true, "'s": true, "'re": true, "'m": true,
	"have": true, "has": true, "had": true, "having": true, "'ve": true, "'d": true,
	"do": true, "does": true, "did": true,
}

var subordinators = map[string]bool{
	"because": true, "since": true, "although": true, "though": true, "while": true,
	"if": true, "unless": true, "whereas": true, "whether": true, "that": true,
}

var pennToCoarse = map[string]string{
	"NN": entity.PosNoun, "NNS": entity.PosNoun,
	"NNP": entity.PosPropn, "NNPS": entity.PosPropn,
	"JJ": entity.PosAdj, "JJR": entity.PosAdj, "JJS": entity.PosAdj,
	"RB": entity.PosAdv, "RBR": entity.PosAdv, "RBS": entity.PosAdv, "WRB": entity.PosAdv,
	"PRP": entity.PosPron, "PRP$": entity.PosPron, "WP": entity.PosPron, "WP$": entity.PosPron, "EX": entity.PosPron,
	"DT": entity.PosDet, "PDT": entity.PosDet, "WDT": entity.PosDet,
	"IN": entity.PosAdp,
	"CC": entity.PosCconj,
	"CD": entity.PosNum,
	"TO": entity.PosPart, "RP": entity.PosPart, "POS": entity.PosPart,
	"MD": entity.PosAux,
	"$": entity.PosSym, "#": entity.PosSym, "SYM": entity.PosSym,
	".": entity.PosPunct, ",": entity.PosPunct, ":": entity.PosPunct,
	"``": entity.PosPunct, "''": entity.PosPunct, "(": entity.PosPunct, ")": entity.PosPunct,
	"-LRB-": entity.PosPunct, "-RRB-": entity.PosPunct, "HYPH": entity.PosPunct, "NFP": entity.PosPunct,
}

// CoarseTag maps a Penn Treebank tag to the coarse universal tag set.
// Verb forms of be, have and do become AUX and subordinating
// conjunctions tagged IN become SCONJ.
func CoarseTag(penn, word string) string {
	lower := strings.ToLower(word)
	if strings.HasPrefix(penn, "VB") {
		if auxiliaries[lower] {
			return entity.PosAux
		}
		return entity.PosVerb
	}
	if penn == "IN" && subordinators[lower] {
		return entity.PosSconj
	}
	if tag, ok := pennToCoarse[penn]; ok {
		return tag
	}
	if isPunct(word) {
		return entity.PosPunct
	}
	return entity.PosOther
}

func isPunct(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsPunct(r) {
			return false
		}
	}
	return true
}
