package lineclass

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_UsageAndOptions(t *testing.T) {
	text := "Usage: mytool [OPTIONS] <file>\n\nOptions:\n  -v, --verbose    Enable verbose output\n  -h, --help       Show help\n"
	lines := Classify(text)

	var kinds []Kind
	for _, l := range lines {
		kinds = append(kinds, l.Kind)
	}

	assert.Equal(t, KindUsageLine, lines[0].Kind)
	assert.Equal(t, KindBlank, lines[1].Kind)
	assert.Equal(t, KindSectionHeader, lines[2].Kind)
	assert.Equal(t, KindFlagLine, lines[3].Kind)
	assert.Equal(t, KindFlagLine, lines[4].Kind)
}

func TestClassify_StripsANSIAndExpandsTabs(t *testing.T) {
	text := "\x1b[1mUsage:\x1b[0m tool\n\t-f\tFile flag\n"
	lines := Classify(text)

	assert.Equal(t, "Usage: tool", lines[0].Stripped)
	assert.NotContains(t, lines[0].Stripped, "\x1b")
}

func TestClassify_CRLFNormalized(t *testing.T) {
	text := "Usage: tool\r\nOptions:\r\n  -v  verbose\r\n"
	lines := Classify(text)
	assert.Equal(t, 3, len(lines))
	assert.Equal(t, KindFlagLine, lines[2].Kind)
}

func TestClassify_SubcommandLineOnlyInsideCommandsSection(t *testing.T) {
	text := "Commands:\n  build    Build the project\n  test     Run tests\n"
	lines := Classify(text)
	assert.Equal(t, KindSectionHeader, lines[0].Kind)
	assert.Equal(t, KindSubcommandLine, lines[1].Kind)
	assert.Equal(t, KindSubcommandLine, lines[2].Kind)
}

func TestIsRelevant(t *testing.T) {
	assert.True(t, IsRelevant(KindFlagLine))
	assert.True(t, IsRelevant(KindUsageLine))
	assert.False(t, IsRelevant(KindBlank))
	assert.False(t, IsRelevant(KindOther))
}

func TestClassify_ManTitleLine(t *testing.T) {
	text := "GIT(1)                          Git Manual                          GIT(1)\n"
	lines := Classify(text)
	assert.Equal(t, 1, len(lines))
}
