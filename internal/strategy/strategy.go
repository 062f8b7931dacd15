// Package strategy implements the Parser Strategies stage (§4.3): one
// plug-in per help-text dialect, each producing a partial schema from
// classified lines. Strategies are independent and side-effect-free.
package strategy

import (
	"github.com/command-schema/discover/internal/format"
	"github.com/command-schema/discover/internal/lineclass"
	"github.com/command-schema/discover/internal/schema"
)

// PartialSchema is one strategy's contribution: the flags, subcommands,
// and positional args it recognized, plus the indices of lines it
// understood and any warnings it raised.
type PartialSchema struct {
	Dialect              format.Format
	Description          string
	GlobalFlags          []schema.FlagSchema
	Subcommands          []schema.SubcommandSchema
	Positional           []schema.ArgSchema
	RecognizedLineIndices map[int]bool
	Warnings             []string
}

func newPartial(dialect format.Format) *PartialSchema {
	return &PartialSchema{
		Dialect:               dialect,
		RecognizedLineIndices: make(map[int]bool),
	}
}

// Strategy is the capability every parser plug-in implements: given
// classified lines, produce a partial schema and the set of lines
// recognized.
type Strategy interface {
	Dialect() format.Format
	Parse(lines []lineclass.Line) *PartialSchema
}

// DialectPriority orders strategies for the merger (§4.4): earlier
// entries win ties. Mirrors the Format Detector's tie-break order.
var DialectPriority = []format.Format{
	format.FormatManRaw,
	format.FormatManRendered,
	format.FormatClap,
	format.FormatGNU,
	format.FormatNPM,
	format.FormatBSD,
	format.FormatGeneric,
}

// Registry returns the fixed ordered list of all parser strategies.
func Registry() []Strategy {
	return []Strategy{
		&manRawStrategy{},
		&manRenderedStrategy{},
		&sectionedStrategy{dialect: format.FormatClap, commandsHeaders: []string{"commands", "subcommands", "available commands"}},
		&sectionedStrategy{dialect: format.FormatGNU, commandsHeaders: []string{"commands", "subcommands", "available commands"}},
		&npmStrategy{},
		&bsdStrategy{},
		&sectionedStrategy{dialect: format.FormatGeneric, commandsHeaders: []string{"commands", "subcommands", "available commands"}},
	}
}
