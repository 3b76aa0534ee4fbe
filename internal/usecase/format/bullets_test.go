package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBullets(t *testing.T) {
	tests := []struct {
		name   string
		points []string
		indent string
		want   string
	}{
		{
			name:   "empty",
			points: nil,
			want:   "",
		},
		{
			name:   "plain points",
			points: []string{"Force causes acceleration", "  Mass   resists it "},
			want:   "• Force causes acceleration\n• Mass resists it",
		},
		{
			name:   "section header indents following points",
			points: []string{"Intro point", "Key Concepts:", "Inertia resists change", "1. Newton's first law"},
			want:   "• Intro point\nKey Concepts:\n  • Inertia resists change\n    1. Newton's first law",
		},
		{
			name:   "new header resets to base level",
			points: []string{"Part A:", "a point", "Part B:", "b point"},
			indent: "> ",
			want:   "> Part A:\n>   • a point\n> Part B:\n>   • b point",
		},
		{
			name:   "colon splits into sub-points",
			points: []string{"Forces: gravity, friction, tension"},
			want:   "• Forces\n    - gravity\n    - friction\n    - tension",
		},
		{
			name:   "multi-line point is not split",
			points: []string{"Note: first line\nsecond line"},
			want:   "• Note: first line second line",
		},
		{
			name:   "dash bullet is normalized",
			points: []string{"- energy is conserved"},
			want:   "• energy is conserved",
		},
		{
			name:   "blank points skipped",
			points: []string{" ", "-", "kept"},
			want:   "• kept",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Bullets(tt.points, tt.indent))
		})
	}
}

func TestBullets_NoStateAcrossCalls(t *testing.T) {
	_ = Bullets([]string{"Header:"}, "")

	assert.Equal(t, "• after", Bullets([]string{"after"}, ""))
}
