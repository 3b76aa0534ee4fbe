package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    SummaryOptions
		wantErr bool
	}{
		{name: "brief", raw: "brief", want: SummaryOptions{Mode: ModeBrief, Length: 3, Readability: 3}},
		{name: "detailed", raw: "detailed", want: SummaryOptions{Mode: ModeDetailed, Length: 3, Readability: 3}},
		{name: "bullet points", raw: "bullet_points", want: SummaryOptions{Mode: ModeBullets, Length: 3, Readability: 3}},
		{name: "case and whitespace", raw: "  Detailed ", want: SummaryOptions{Mode: ModeDetailed, Length: 3, Readability: 3}},
		{name: "extended brief", raw: "brief_2_4", want: SummaryOptions{Mode: ModeBrief, Length: 2, Readability: 4}},
		{name: "bullets alias", raw: "bullets_3_1", want: SummaryOptions{Mode: ModeBullets, Length: 3, Readability: 1}},
		{name: "bullet points with knobs", raw: "bullet_points_5_5", want: SummaryOptions{Mode: ModeBullets, Length: 5, Readability: 5}},
		{name: "length only", raw: "detailed_5", want: SummaryOptions{Mode: ModeDetailed, Length: 5, Readability: 3}},
		{name: "non integer knob falls back", raw: "brief_x_y", want: SummaryOptions{Mode: ModeBrief, Length: 3, Readability: 3}},
		{name: "length above five kept", raw: "brief_9_0", want: SummaryOptions{Mode: ModeBrief, Length: 9, Readability: 1}},
		{name: "length clamped to ten", raw: "brief_12_0", want: SummaryOptions{Mode: ModeBrief, Length: 10, Readability: 1}},
		{name: "readability clamped to five", raw: "detailed_10_8", want: SummaryOptions{Mode: ModeDetailed, Length: 10, Readability: 5}},
		{name: "empty", raw: "", wantErr: true},
		{name: "unknown", raw: "not_a_mode", wantErr: true},
		{name: "prefix without separator", raw: "briefly", wantErr: true},
		{name: "too many knobs", raw: "brief_1_2_3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMode(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnsupportedMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSummaryOptions_Bulleted(t *testing.T) {
	assert.True(t, DefaultOptions(ModeBullets).Bulleted())
	assert.False(t, DefaultOptions(ModeBrief).Bulleted())
}
