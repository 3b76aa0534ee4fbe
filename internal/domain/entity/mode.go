package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode selects the result shape and the extraction subset of a notes request.
type Mode string

const (
	ModeBrief    Mode = "brief"
	ModeDetailed Mode = "detailed"
	ModeBullets  Mode = "bullet_points"
)

const (
	// DefaultLength is the summary length knob used when a mode string omits it.
	DefaultLength = 3
	// DefaultReadability is the readability knob used when a mode string omits it.
	DefaultReadability = 3

	minKnob        = 1
	maxLength      = 10
	maxReadability = 5
)

// modePrefixes maps accepted mode-string prefixes to modes.
// Longer prefixes come first so "bullet_points_2_3" is not read as "bullet".
var modePrefixes = []struct {
	prefix string
	mode   Mode
}{
	{"bullet_points", ModeBullets},
	{"bullets", ModeBullets},
	{"detailed", ModeDetailed},
	{"brief", ModeBrief},
}

// SummaryOptions are the parsed form of a mode string.
type SummaryOptions struct {
	Mode        Mode
	Length      int
	Readability int
}

// Bulleted reports whether the summary is rendered as bullets.
func (o SummaryOptions) Bulleted() bool {
	return o.Mode == ModeBullets
}

// DefaultOptions returns the options for a bare mode name.
func DefaultOptions(mode Mode) SummaryOptions {
	return SummaryOptions{Mode: mode, Length: DefaultLength, Readability: DefaultReadability}
}

// ParseMode parses "brief", "detailed", "bullet_points" or the extended
// "<type>_<length>_<readability>" form (e.g. "brief_3_4", "bullets_2_3").
// Non-integer knobs fall back to the default 3. Length is clamped to 1..10
// and readability to 1..5.
func ParseMode(raw string) (SummaryOptions, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return SummaryOptions{}, fmt.Errorf("%w: mode is required", ErrUnsupportedMode)
	}

	for _, p := range modePrefixes {
		if s == p.prefix {
			return DefaultOptions(p.mode), nil
		}
		if !strings.HasPrefix(s, p.prefix+"_") {
			continue
		}

		knobs := strings.Split(strings.TrimPrefix(s, p.prefix+"_"), "_")
		if len(knobs) > 2 {
			return SummaryOptions{}, fmt.Errorf("%w: %q", ErrUnsupportedMode, raw)
		}

		opts := DefaultOptions(p.mode)
		opts.Length = parseKnob(knobs[0], DefaultLength, maxLength)
		if len(knobs) == 2 {
			opts.Readability = parseKnob(knobs[1], DefaultReadability, maxReadability)
		}
		return opts, nil
	}

	return SummaryOptions{}, fmt.Errorf("%w: %q (expected brief, detailed or bullet_points)", ErrUnsupportedMode, raw)
}

func parseKnob(s string, def, max int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	if v < minKnob {
		return minKnob
	}
	if v > max {
		return max
	}
	return v
}
