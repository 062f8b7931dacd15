// Package valuetype assigns a semantic ValueType to a flag or argument
// from its metavar and description: the Value-Type Classifier stage (§4.5).
package valuetype

import (
	"regexp"
	"strings"

	"github.com/command-schema/discover/internal/schema"
)

var metavarTags = map[string]schema.Tag{
	"FILE": schema.TagFile, "PATH": schema.TagFile,
	"DIR": schema.TagDirectory, "DIRECTORY": schema.TagDirectory,
	"URL": schema.TagURL,
	"N": schema.TagNumber, "NUM": schema.TagNumber, "NUMBER": schema.TagNumber,
	"INT": schema.TagNumber, "COUNT": schema.TagNumber, "JOBS": schema.TagNumber,
	"BRANCH": schema.TagBranch, "REF": schema.TagBranch,
	"REMOTE": schema.TagRemote,
}

var (
	oneOfPattern      = regexp.MustCompile(`(?i)one of:\s*([^.\n]+)`)
	bracePattern      = regexp.MustCompile(`\{([^}]+)\}`)
	possibleValuesPat = regexp.MustCompile(`(?i)possible values:\s*([^.\n]+)`)
)

// Classify assigns a ValueType given the metavar (may be empty), the
// description text, and whether the flag takes a value at all.
func Classify(metavar, description string, takesValue bool) schema.ValueType {
	if metavar != "" {
		if tag, ok := metavarTags[strings.ToUpper(strings.TrimSpace(metavar))]; ok {
			return schema.ValueType{Tag: tag}
		}
	}

	if choices := extractChoices(description); len(choices) >= 2 {
		return schema.Choice(choices)
	}

	if metavar == "" && !takesValue {
		return schema.ValueType{Tag: schema.TagBool}
	}

	if takesValue {
		return schema.ValueType{Tag: schema.TagString}
	}

	return schema.ValueType{Tag: schema.TagAny}
}

// extractChoices scans description for "one of: a, b, c", "{a|b|c}", or
// "Possible values: a, b, c" and returns the trimmed, deduplicated,
// order-preserved alternatives.
func extractChoices(description string) []string {
	var raw string
	switch {
	case oneOfPattern.MatchString(description):
		raw = oneOfPattern.FindStringSubmatch(description)[1]
	case bracePattern.MatchString(description):
		raw = bracePattern.FindStringSubmatch(description)[1]
		raw = strings.ReplaceAll(raw, "|", ",")
	case possibleValuesPat.MatchString(description):
		raw = possibleValuesPat.FindStringSubmatch(description)[1]
	default:
		return nil
	}

	parts := strings.Split(raw, ",")
	seen := make(map[string]bool)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// ClassifyChoiceFromMetavar parses an angle-bracket choice list such as
// "<a|b|c>" from a positional-argument metavar, per §4.3's positional
// grammar. Returns nil if metavar is not a choice form.
func ClassifyChoiceFromMetavar(metavar string) []string {
	inner := strings.Trim(metavar, "<>[]")
	if !strings.Contains(inner, "|") {
		return nil
	}
	parts := strings.Split(inner, "|")
	seen := make(map[string]bool)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	if len(out) < 2 {
		return nil
	}
	return out
}
