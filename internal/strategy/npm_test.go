package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/command-schema/discover/internal/lineclass"
)

func TestNPMStrategy_DelegatesToSectioned(t *testing.T) {
	text := "Usage: npm <command>\n\nOptions:\n  -v, --verbose    Enable verbose output\n\nCommands:\n  install    Install a package\n"
	lines := lineclass.Classify(text)

	partial := (npmStrategy{}).Parse(lines)
	assert.Len(t, partial.GlobalFlags, 1)
	assert.Len(t, partial.Subcommands, 1)
	assert.Equal(t, "install", partial.Subcommands[0].Name)
}
