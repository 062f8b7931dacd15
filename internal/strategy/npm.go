package strategy

import (
	"github.com/command-schema/discover/internal/format"
	"github.com/command-schema/discover/internal/lineclass"
)

// npmStrategy handles the NPM-CLI dialect: "npm <command>" usage lines
// and the same two-column Commands:/Options: layout as GNU, but scored
// and prioritized as a distinct dialect in the merger.
type npmStrategy struct{}

func (npmStrategy) Dialect() format.Format { return format.FormatNPM }

func (npmStrategy) Parse(lines []lineclass.Line) *PartialSchema {
	delegate := &sectionedStrategy{dialect: format.FormatNPM, commandsHeaders: []string{"commands", "subcommands"}}
	return delegate.Parse(lines)
}
