package format

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/command-schema/discover/internal/lineclass"
)

func TestDetect_GNUStyle(t *testing.T) {
	text := "Usage: grep [OPTION]... PATTERNS [FILE]...\n\nOptions:\n  -i, --ignore-case   ignore case distinctions\n  -v, --invert-match  select non-matching lines\n"
	lines := lineclass.Classify(text)
	scores := Detect(lines)

	assert.NotEmpty(t, scores)
	assert.GreaterOrEqual(t, scores[0].Value, scores[len(scores)-1].Value)
}

func TestDetect_FallsBackToGeneric(t *testing.T) {
	text := "just some unrelated prose\nwith no recognizable structure at all\n"
	lines := lineclass.Classify(text)
	scores := Detect(lines)

	assert.NotEmpty(t, scores)
	found := false
	for _, s := range scores {
		if s.Format == FormatGeneric {
			found = true
		}
	}
	assert.True(t, found)
}

func TestDetect_ManRawOutranksOthersOnRoffMacros(t *testing.T) {
	text := ".TH GIT 1\n.SH NAME\ngit \\- the stupid content tracker\n.SH OPTIONS\n.IP \"\\-\\-help\"\nShow help\n"
	lines := lineclass.Classify(text)
	scores := Detect(lines)
	assert.Equal(t, FormatManRaw, scores[0].Format)
}

func TestDetect_TieBreakPrefersManRawOverGeneric(t *testing.T) {
	assert.Less(t, dialectPreference[FormatManRaw], dialectPreference[FormatGeneric])
}

func TestDetect_ScoresClampedToOne(t *testing.T) {
	text := "Usage: tool\nOptions:\n  -a, --all\n  -b, --bare\n  -c, --cached\n  -d, --delete\n"
	lines := lineclass.Classify(text)
	scores := Detect(lines)
	for _, s := range scores {
		assert.LessOrEqual(t, s.Value, 1.0)
		assert.GreaterOrEqual(t, s.Value, 0.0)
	}
}
