package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/command-schema/discover/internal/format"
	"github.com/command-schema/discover/internal/lineclass"
)

func newSectionedGNU() *sectionedStrategy {
	return &sectionedStrategy{dialect: format.FormatGNU, commandsHeaders: []string{"commands", "subcommands", "available commands"}}
}

const gnuHelpText = `Usage: tool [OPTIONS] <command>

A small example tool.

Options:
  -v, --verbose    Enable verbose output
  -o, --output=FILE    Write output to FILE

Commands:
  build    Build the project
  test     Run the test suite
`

func TestSectionedStrategy_ParsesFlagsAndSubcommands(t *testing.T) {
	lines := lineclass.Classify(gnuHelpText)
	partial := newSectionedGNU().Parse(lines)

	assert.Len(t, partial.GlobalFlags, 2)
	names := []string{partial.GlobalFlags[0].CanonicalName(), partial.GlobalFlags[1].CanonicalName()}
	assert.Contains(t, names, "--verbose")
	assert.Contains(t, names, "--output")

	assert.Len(t, partial.Subcommands, 2)
	assert.Equal(t, "build", partial.Subcommands[0].Name)
	assert.Equal(t, "test", partial.Subcommands[1].Name)
}

func TestSectionedStrategy_SubcommandsIgnoredOutsideCommandsSection(t *testing.T) {
	text := "Usage: tool [OPTIONS]\n\nExamples:\n  build    not actually a subcommand\n"
	lines := lineclass.Classify(text)
	partial := newSectionedGNU().Parse(lines)
	assert.Empty(t, partial.Subcommands)
}

func TestSectionedStrategy_DuplicateFlagProducesWarning(t *testing.T) {
	text := "Options:\n  -v, --verbose    Enable verbose output\n  -v, --verbose    Enable verbose output again\n"
	lines := lineclass.Classify(text)
	partial := newSectionedGNU().Parse(lines)
	assert.Len(t, partial.GlobalFlags, 1)
	assert.NotEmpty(t, partial.Warnings)
}

func TestSectionedStrategy_TitleCaseCommandsHeaderRecognized(t *testing.T) {
	text := "Commands:\n  start    Start the service\n"
	lines := lineclass.Classify(text)
	partial := newSectionedGNU().Parse(lines)
	assert.Equal(t, lineclass.KindSectionHeader, lines[0].Kind)
	assert.Len(t, partial.Subcommands, 1)
	assert.Equal(t, "start", partial.Subcommands[0].Name)
}
