package strategy

import (
	"strings"

	"github.com/command-schema/discover/internal/format"
	"github.com/command-schema/discover/internal/lineclass"
)

// sectionedStrategy handles the GNU, Clap/Cobra, and generic-sectioned
// dialects, which share the common flag-line grammar and a
// Commands:/Subcommands: two-column region (§4.3). The three dialects
// differ only in which format they're registered under and thus which
// dialect priority/confidence contribution they carry.
type sectionedStrategy struct {
	dialect         format.Format
	commandsHeaders []string
}

func (s *sectionedStrategy) Dialect() format.Format { return s.dialect }

func (s *sectionedStrategy) Parse(lines []lineclass.Line) *PartialSchema {
	partial := newPartial(s.dialect)

	inCommandsSection := false
	seenFlags := make(map[string]bool)
	seenSubs := make(map[string]bool)

	for i, l := range lines {
		if partial.RecognizedLineIndices[i] {
			continue
		}

		switch l.Kind {
		case lineclass.KindSectionHeader:
			inCommandsSection = isCommandsHeader(l.Stripped, s.commandsHeaders)
			partial.RecognizedLineIndices[i] = true

		case lineclass.KindUsageLine:
			positional, desc := parsePositionalFromUsage(l.Stripped)
			if partial.Description == "" {
				partial.Description = desc
			}
			partial.Positional = append(partial.Positional, positional...)
			partial.RecognizedLineIndices[i] = true

		case lineclass.KindFlagLine:
			desc := joinContinuations(lines, i, "", partial.RecognizedLineIndices)
			parsed := parseFlagLine(l.Stripped)
			if !parsed.ok {
				partial.Warnings = append(partial.Warnings, "flag line recognized but not parsed: "+l.Stripped)
				continue
			}
			if parsed.description == "" {
				parsed.description = desc
			} else if desc != "" {
				parsed.description += " " + desc
			}
			flag := buildFlagSchema(parsed)
			key := flag.CanonicalName()
			if key == "" {
				partial.Warnings = append(partial.Warnings, "flag line recognized but has no short/long form: "+l.Stripped)
				continue
			}
			if seenFlags[key] {
				partial.Warnings = append(partial.Warnings, "duplicate flag declaration: "+key)
				partial.RecognizedLineIndices[i] = true
				continue
			}
			seenFlags[key] = true
			partial.GlobalFlags = append(partial.GlobalFlags, flag)
			partial.RecognizedLineIndices[i] = true

		case lineclass.KindSubcommandLine:
			if !inCommandsSection {
				continue
			}
			name, aliases, desc, ok := parseSubcommandLine(l.Stripped)
			if !ok {
				continue
			}
			if seenSubs[name] {
				partial.Warnings = append(partial.Warnings, "duplicate subcommand declaration: "+name)
				continue
			}
			seenSubs[name] = true
			sub := subcommandFrom(name, aliases, desc)
			partial.Subcommands = append(partial.Subcommands, sub)
			partial.RecognizedLineIndices[i] = true
		}
	}

	return partial
}

func isCommandsHeader(header string, candidates []string) bool {
	h := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(header), ":"))
	for _, c := range candidates {
		if h == c {
			return true
		}
	}
	return false
}
