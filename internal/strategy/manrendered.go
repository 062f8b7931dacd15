package strategy

import (
	"strings"

	"github.com/command-schema/discover/internal/format"
	"github.com/command-schema/discover/internal/lineclass"
)

// manRenderedStrategy parses a formatted (col -bx'd) man page: the
// OPTIONS section identified by header, with flag declarations as
// indented lines followed by deeper-indented description paragraphs.
type manRenderedStrategy struct{}

func (manRenderedStrategy) Dialect() format.Format { return format.FormatManRendered }

func (manRenderedStrategy) Parse(lines []lineclass.Line) *PartialSchema {
	partial := newPartial(format.FormatManRendered)

	inOptions := false
	seen := make(map[string]bool)

	for i, l := range lines {
		if l.Kind == lineclass.KindSectionHeader {
			inOptions = strings.EqualFold(strings.TrimSuffix(l.Stripped, ":"), "OPTIONS")
			partial.RecognizedLineIndices[i] = true
			continue
		}
		if !inOptions {
			continue
		}
		if l.Kind != lineclass.KindFlagLine && l.Kind != lineclass.KindOther {
			continue
		}
		trimmed := l.Stripped
		if !strings.HasPrefix(trimmed, "-") {
			continue
		}

		parsed := parseFlagLine(trimmed)
		if !parsed.ok {
			continue
		}
		desc := joinContinuations(lines, i, parsed.description, partial.RecognizedLineIndices)
		parsed.description = desc

		flag := buildFlagSchema(parsed)
		key := flag.CanonicalName()
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		partial.GlobalFlags = append(partial.GlobalFlags, flag)
		partial.RecognizedLineIndices[i] = true
	}

	return partial
}
