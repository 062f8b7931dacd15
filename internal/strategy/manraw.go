package strategy

import (
	"regexp"
	"strings"

	"github.com/command-schema/discover/internal/format"
	"github.com/command-schema/discover/internal/lineclass"
)

var ipMacroPat = regexp.MustCompile(`^\.IP\s+"?\\-([A-Za-z0-9]),?\s*\\-\\-([A-Za-z0-9-]+)?\s*([A-Za-z0-9_]*)"?`)

// manRawStrategy parses raw roff man-page source: ".SH OPTIONS" blocks
// with ".IP" flag declarations, per §4.3's man-page strategies.
type manRawStrategy struct{}

func (manRawStrategy) Dialect() format.Format { return format.FormatManRaw }

func (manRawStrategy) Parse(lines []lineclass.Line) *PartialSchema {
	partial := newPartial(format.FormatManRaw)

	inOptions := false
	for i, l := range lines {
		raw := strings.TrimSpace(l.Raw)

		if strings.HasPrefix(raw, ".SH ") {
			section := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(raw, ".SH ")))
			section = strings.Trim(section, `"`)
			inOptions = section == "OPTIONS"
			continue
		}

		if !inOptions {
			continue
		}

		if strings.HasPrefix(raw, ".IP ") {
			m := ipMacroPat.FindStringSubmatch(raw)
			if m == nil {
				continue
			}
			short, long, metavar := m[1], m[2], m[3]
			desc := manRawDescriptionAfter(lines, i, partial.RecognizedLineIndices)
			parsed := parsedFlagLine{}
			if short != "" {
				parsed.short = "-" + short
			}
			if long != "" {
				parsed.long = "--" + long
			}
			parsed.metavar = metavar
			parsed.description = desc
			flag := buildFlagSchema(parsed)
			partial.GlobalFlags = append(partial.GlobalFlags, flag)
			partial.RecognizedLineIndices[i] = true
		}
	}

	return partial
}

// manRawDescriptionAfter collects the roff paragraph following a .IP
// macro: consecutive non-macro lines up to the next macro line.
func manRawDescriptionAfter(lines []lineclass.Line, idx int, recognized map[int]bool) string {
	var parts []string
	for j := idx + 1; j < len(lines); j++ {
		raw := strings.TrimSpace(lines[j].Raw)
		if raw == "" || strings.HasPrefix(raw, ".") {
			break
		}
		parts = append(parts, raw)
		recognized[j] = true
	}
	return strings.Join(parts, " ")
}
