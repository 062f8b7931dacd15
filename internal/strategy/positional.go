package strategy

import (
	"regexp"
	"strings"

	"github.com/command-schema/discover/internal/schema"
	"github.com/command-schema/discover/internal/valuetype"
)

var (
	usagePrefixPat   = regexp.MustCompile(`(?i)^(usage|synopsis)\s*:?\s*`)
	requiredArgPat   = regexp.MustCompile(`<([A-Za-z0-9_|-]+)>(\.\.\.)?`)
	optionalArgPat   = regexp.MustCompile(`\[([A-Za-z0-9_|-]+)\](\.\.\.)?`)
	bareMultiArgPat  = regexp.MustCompile(`\b([A-Z][A-Z0-9_]*)\.\.\.`)
	bareArgPat       = regexp.MustCompile(`\b([A-Z][A-Z0-9_]*)\b`)
	optionFlagInline = regexp.MustCompile(`\[-[A-Za-z0-9-]+(?:\s+[A-Za-z0-9_<>|\[\]]+)?\]`)
)

// placeholderArgNames are conventional "flags go here" markers that look
// like positional args but never are.
var placeholderArgNames = map[string]bool{
	"OPTIONS": true, "OPTION": true, "FLAGS": true, "FLAG": true,
	"COMMAND": true, "SUBCOMMAND": true,
}

// parsePositionalFromUsage extracts positional arguments from a Usage:
// line per §4.3's grammar. The second return value is always the empty
// string; no description is taken from the usage line.
func parsePositionalFromUsage(line string) ([]schema.ArgSchema, string) {
	body := usagePrefixPat.ReplaceAllString(line, "")
	body = strings.TrimSpace(body)

	fields := strings.Fields(body)
	if len(fields) > 0 {
		body = strings.TrimSpace(strings.Join(fields[1:], " "))
	}
	body = optionFlagInline.ReplaceAllString(body, "")

	var args []schema.ArgSchema
	seen := make(map[string]bool)

	for _, m := range requiredArgPat.FindAllStringSubmatch(body, -1) {
		name := m[1]
		multiple := m[2] == "..."
		if seen[name] || placeholderArgNames[name] {
			continue
		}
		seen[name] = true
		args = append(args, buildArgSchema(name, true, multiple))
	}
	for _, m := range optionalArgPat.FindAllStringSubmatch(body, -1) {
		name := m[1]
		multiple := m[2] == "..."
		if seen[name] || placeholderArgNames[name] {
			continue
		}
		seen[name] = true
		args = append(args, buildArgSchema(name, false, multiple))
	}
	for _, m := range bareMultiArgPat.FindAllStringSubmatch(body, -1) {
		name := m[1]
		if seen[name] || placeholderArgNames[name] {
			continue
		}
		seen[name] = true
		args = append(args, buildArgSchema(name, false, true))
	}
	for _, m := range bareArgPat.FindAllStringSubmatch(body, -1) {
		name := m[1]
		if seen[name] || placeholderArgNames[name] {
			continue
		}
		seen[name] = true
		args = append(args, buildArgSchema(name, true, false))
	}

	return args, ""
}

func buildArgSchema(name string, required, multiple bool) schema.ArgSchema {
	if choices := valuetype.ClassifyChoiceFromMetavar(name); choices != nil {
		return schema.ArgSchema{
			Name:      joinedChoiceName(choices),
			ValueType: schema.Choice(choices),
			Required:  required,
			Multiple:  multiple,
		}
	}
	return schema.ArgSchema{
		Name:      name,
		ValueType: valuetype.Classify(name, "", true),
		Required:  required,
		Multiple:  multiple,
	}
}

func joinedChoiceName(choices []string) string {
	return strings.Join(choices, "|")
}

// subcommandFrom builds a SubcommandSchema with non-nil slices.
func subcommandFrom(name string, aliases []string, description string) schema.SubcommandSchema {
	sub := schema.NewSubcommandSchema(name)
	sub.Description = description
	if aliases != nil {
		sub.Aliases = aliases
	}
	return sub
}
