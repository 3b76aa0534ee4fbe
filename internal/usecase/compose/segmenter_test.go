package compose

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-notes/internal/domain/entity"
	"study-notes/internal/utils/text"
)

func TestSegment_GreedyPacking(t *testing.T) {
	doc := docFromText("One two three. Four five. Six seven eight nine. Ten.")

	segments := Segment(doc, 5)

	assert.Equal(t, []string{
		"One two three. Four five.",
		"Six seven eight nine. Ten.",
	}, segments)
}

func TestSegment_OversizedSentenceStandsAlone(t *testing.T) {
	doc := docFromText("Tiny. This sentence is far longer than the cap allows. End here.")

	segments := Segment(doc, 3)

	require.Len(t, segments, 3)
	assert.Equal(t, "Tiny.", segments[0])
	assert.Equal(t, "This sentence is far longer than the cap allows.", segments[1])
	assert.Equal(t, "End here.", segments[2])
}

func TestSegment_FirstSentenceOversizedHasNoEmptySegment(t *testing.T) {
	doc := docFromText("This first sentence is already too long. Ok.")

	segments := Segment(doc, 2)

	assert.Equal(t, []string{"This first sentence is already too long.", "Ok."}, segments)
}

func TestSegment_BlankInput(t *testing.T) {
	doc := &entity.Document{Sentences: []entity.Sentence{{Text: "  "}, {Text: "\n"}}}

	assert.Empty(t, Segment(doc, 10))
	assert.Empty(t, Segment(&entity.Document{}, 10))
}

func TestSegment_PreservesSentenceSequence(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString(strings.Repeat("word ", i%7+1))
		b.WriteString("end. ")
	}
	doc := docFromText(b.String())

	for _, limit := range []int{1, 3, 8, 20, 1000} {
		segments := Segment(doc, limit)

		var sentences []string
		for _, seg := range segments {
			require.NotEmpty(t, seg)
			parts := docFromText(seg).Sentences
			if text.CountWords(seg) > limit {
				assert.Len(t, parts, 1, "only a single sentence may exceed the cap")
			}
			for _, p := range parts {
				sentences = append(sentences, p.Text)
			}
		}

		var want []string
		for _, s := range doc.Sentences {
			want = append(want, s.Text)
		}
		assert.Equal(t, want, sentences, "limit %d", limit)
	}
}

func TestSegment_DefaultCap(t *testing.T) {
	doc := docFromText(strings.Repeat("alpha beta gamma delta. ", 300))

	segments := Segment(doc, 0)

	require.Len(t, segments, 2)
	assert.Equal(t, 1024, text.CountWords(segments[0]))
}
