package strategy

import (
	"regexp"
	"strings"

	"github.com/command-schema/discover/internal/lineclass"
	"github.com/command-schema/discover/internal/schema"
	"github.com/command-schema/discover/internal/valuetype"
)

var (
	shortFormPat  = regexp.MustCompile(`^-([A-Za-z0-9])(?:,|\s)`)
	shortOnlyPat  = regexp.MustCompile(`^-([A-Za-z0-9])\s*$`)
	longFormPat   = regexp.MustCompile(`--(?:\[no-\])?([A-Za-z0-9][A-Za-z0-9-]*)`)
	metavarEq     = regexp.MustCompile(`=([A-Z][A-Z0-9_]*)`)
	metavarAngle  = regexp.MustCompile(`<([A-Za-z0-9_|-]+)>`)
	metavarBrack  = regexp.MustCompile(`\[([A-Za-z0-9_|-]+)\]`)
	metavarUpper  = regexp.MustCompile(`\s([A-Z][A-Z0-9_]*)(?:\s|$)`)
	descSplitPat  = regexp.MustCompile(`\s{2,}(\S.*)$`)
	conflictsPat  = regexp.MustCompile(`(?i)conflicts with (--[A-Za-z0-9-]+|-[A-Za-z0-9])`)
	requiresPat   = regexp.MustCompile(`(?i)requires (--[A-Za-z0-9-]+|-[A-Za-z0-9])`)
	aliasParen    = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9_-]*)\s*\(([^)]+)\)$`)
	aliasPipe     = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9_-]*)(?:\|([A-Za-z0-9][A-Za-z0-9_-]*))+$`)
)

// parsedFlagLine is the result of grammar-matching one FlagLine plus
// its joined continuation description.
type parsedFlagLine struct {
	short       string
	long        string
	metavar     string
	optionalVal bool
	description string
	ok          bool
}

// parseFlagLine implements the common flag-line grammar of §4.3.
func parseFlagLine(text string) parsedFlagLine {
	var result parsedFlagLine

	body := text
	if m := descSplitPat.FindStringSubmatchIndex(body); m != nil {
		result.description = strings.TrimSpace(body[m[2]:m[3]])
		body = body[:m[0]]
	}

	if m := shortOnlyPat.FindStringSubmatch(body); m != nil {
		result.short = "-" + m[1]
		result.ok = true
	} else if m := shortFormPat.FindStringSubmatch(body); m != nil {
		result.short = "-" + m[1]
		result.ok = true
	}

	if matches := longFormPat.FindStringSubmatch(body); matches != nil {
		result.long = "--" + matches[1]
		result.ok = true
	}

	if !result.ok {
		return result
	}

	if m := metavarEq.FindStringSubmatch(body); m != nil {
		result.metavar = m[1]
	} else if m := metavarAngle.FindStringSubmatch(body); m != nil {
		result.metavar = "<" + m[1] + ">"
	} else if m := metavarBrack.FindStringSubmatch(body); m != nil {
		result.metavar = "[" + m[1] + "]"
		result.optionalVal = true
	} else if m := metavarUpper.FindStringSubmatch(body); m != nil && m[1] != result.short && m[1] != result.long {
		result.metavar = m[1]
	}

	return result
}

// buildFlagSchema turns a parsedFlagLine into a schema.FlagSchema,
// running the Value-Type Classifier and conflict/requirement detection.
func buildFlagSchema(p parsedFlagLine) schema.FlagSchema {
	takesValue := p.metavar != ""
	metavarBare := strings.Trim(p.metavar, "<>[]=")

	var vt schema.ValueType
	if choices := valuetype.ClassifyChoiceFromMetavar(metavarBare); choices != nil {
		vt = schema.Choice(choices)
	} else {
		vt = valuetype.Classify(metavarBare, p.description, takesValue)
	}

	flag := schema.FlagSchema{
		Short:         p.short,
		Long:          p.long,
		ValueType:     vt,
		TakesValue:    takesValue,
		Description:   p.description,
		ConflictsWith: []string{},
		Requires:      []string{},
	}

	if p.description != "" {
		if m := conflictsPat.FindStringSubmatch(p.description); m != nil {
			flag.ConflictsWith = append(flag.ConflictsWith, m[1])
		}
		if m := requiresPat.FindStringSubmatch(p.description); m != nil {
			flag.Requires = append(flag.Requires, m[1])
		}
	}

	return flag
}

// joinContinuations appends Continuation lines following idx to desc.
func joinContinuations(lines []lineclass.Line, idx int, desc string, recognized map[int]bool) string {
	for j := idx + 1; j < len(lines); j++ {
		if lines[j].Kind != lineclass.KindContinuation {
			break
		}
		if desc != "" {
			desc += " "
		}
		desc += lines[j].Stripped
		recognized[j] = true
	}
	return desc
}

// parseSubcommandLine recognizes a "NAME  DESCRIPTION" two-column
// subcommand line, including pipe and parenthetical alias forms.
func parseSubcommandLine(text string) (name string, aliases []string, description string, ok bool) {
	m := descSplitPat.FindStringSubmatchIndex(text)
	if m == nil {
		return "", nil, "", false
	}
	description = strings.TrimSpace(text[m[2]:m[3]])
	head := strings.TrimSpace(text[:m[0]])

	if pm := aliasParen.FindStringSubmatch(head); pm != nil {
		name = pm[1]
		for _, a := range strings.Split(pm[2], ",") {
			a = strings.TrimSpace(a)
			if a != "" {
				aliases = append(aliases, a)
			}
		}
		return name, aliases, description, true
	}

	if strings.Contains(head, "|") {
		parts := strings.Split(head, "|")
		name = strings.TrimSpace(parts[0])
		for _, a := range parts[1:] {
			a = strings.TrimSpace(a)
			if a != "" {
				aliases = append(aliases, a)
			}
		}
		return name, aliases, description, true
	}

	fields := strings.Fields(head)
	if len(fields) != 1 {
		return "", nil, "", false
	}
	return fields[0], nil, description, true
}
