package annotator

import "study-notes/internal/domain/entity"

func isNominal(pos string) bool {
	return pos == entity.PosNoun || pos == entity.PosPropn
}

func isModifier(pos string) bool {
	return pos == entity.PosAdj || pos == entity.PosNum || isNominal(pos)
}

// ChunkNounPhrases finds maximal noun-headed chunks matching
// DET? (ADJ|NUM|NOUN|PROPN)* (NOUN|PROPN)+ over the tokens of one sentence.
// Phrase text is sliced from the sentence so inner spacing is preserved.
func ChunkNounPhrases(sentence string, tokens []entity.Token) []entity.NounPhrase {
	var phrases []entity.NounPhrase
	for i := 0; i < len(tokens); {
		start := i
		j := i
		if tokens[j].POS == entity.PosDet {
			j++
		}

		// last nominal inside the modifier run ends the phrase
		last := -1
		for k := j; k < len(tokens) && isModifier(tokens[k].POS); k++ {
			if isNominal(tokens[k].POS) {
				last = k
			}
		}

		if last < 0 {
			i++
			continue
		}

		span := entity.Span{Start: tokens[start].Span.Start, End: tokens[last].Span.End}
		phrases = append(phrases, entity.NounPhrase{Text: sentence[span.Start:span.End], Span: span})
		i = last + 1
	}
	return phrases
}
