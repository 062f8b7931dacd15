package strategy

import (
	"strings"

	"github.com/command-schema/discover/internal/format"
	"github.com/command-schema/discover/internal/lineclass"
	"github.com/command-schema/discover/internal/schema"
)

// bsdStrategy handles BSD/macOS-style flag lines that begin with a
// single-letter short form such as "-l". Lines that begin with a --long
// form are skipped, and single-dash multi-letter flags (e.g. "-name")
// are not parsed.
type bsdStrategy struct{}

func (bsdStrategy) Dialect() format.Format { return format.FormatBSD }

func (bsdStrategy) Parse(lines []lineclass.Line) *PartialSchema {
	partial := newPartial(format.FormatBSD)
	seen := make(map[string]bool)

	for i, l := range lines {
		if l.Kind != lineclass.KindFlagLine {
			continue
		}
		trimmed := strings.TrimSpace(l.Stripped)
		if !strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "--") {
			continue
		}

		parsed := parseFlagLine(trimmed)
		if !parsed.ok || parsed.short == "" {
			continue
		}
		desc := joinContinuations(lines, i, parsed.description, partial.RecognizedLineIndices)
		parsed.description = desc

		flag := buildFlagSchema(parsed)
		if seen[flag.CanonicalName()] {
			continue
		}
		seen[flag.CanonicalName()] = true
		if flag.ValueType.Tag == "" {
			flag.ValueType = schema.ValueType{Tag: schema.TagBool}
		}
		partial.GlobalFlags = append(partial.GlobalFlags, flag)
		partial.RecognizedLineIndices[i] = true
	}

	return partial
}
