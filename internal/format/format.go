// Package format scores classified help text against the fixed set of
// dialects in §4.2: the Format Detector stage.
package format

import (
	"sort"
	"strings"

	"github.com/command-schema/discover/internal/lineclass"
)

// Format names a help-text dialect.
type Format string

const (
	FormatGNU         Format = "gnu"
	FormatClap        Format = "clap"
	FormatNPM         Format = "npm"
	FormatBSD         Format = "bsd"
	FormatManRendered Format = "man_rendered"
	FormatManRaw      Format = "man_raw"
	FormatGeneric     Format = "generic"
)

// dialectPreference breaks ties among equally scored formats, per §4.2.
var dialectPreference = map[Format]int{
	FormatManRaw:      0,
	FormatManRendered: 1,
	FormatClap:        2,
	FormatGNU:         3,
	FormatNPM:         4,
	FormatBSD:         5,
	FormatGeneric:     6,
}

// Score is one dialect's detector score.
type Score struct {
	Format Format
	Value  float64
}

// Detect scores lines against every dialect and returns the formats
// scoring above 0.10, ordered by descending score with the fixed
// dialect-preference tie-break. When no format scores above 0.10, it
// returns a single generic entry scored 0.10.
func Detect(lines []lineclass.Line) []Score {
	text := joinStripped(lines)
	filtered := filterHardNegatives(lines)

	scores := []Score{
		{FormatGNU, scoreGNU(text, filtered)},
		{FormatClap, scoreClap(text, filtered)},
		{FormatNPM, scoreNPM(text)},
		{FormatBSD, scoreBSD(text, filtered)},
		{FormatManRendered, scoreManRendered(text)},
		{FormatManRaw, scoreManRaw(lines)},
		{FormatGeneric, scoreGeneric(filtered)},
	}

	selected := make([]Score, 0, len(scores))
	for _, s := range scores {
		if s.Value > 0.10 {
			selected = append(selected, s)
		}
	}
	if len(selected) == 0 {
		selected = append(selected, Score{FormatGeneric, 0.10})
	}

	sort.SliceStable(selected, func(i, j int) bool {
		if selected[i].Value != selected[j].Value {
			return selected[i].Value > selected[j].Value
		}
		return dialectPreference[selected[i].Format] < dialectPreference[selected[j].Format]
	})
	return clamp(selected)
}

func clamp(scores []Score) []Score {
	for i := range scores {
		if scores[i].Value > 1.0 {
			scores[i].Value = 1.0
		}
	}
	return scores
}

func joinStripped(lines []lineclass.Line) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.Stripped)
		b.WriteByte('\n')
	}
	return b.String()
}

func scoreGNU(text string, filtered []lineclass.Line) float64 {
	s := 0.0
	if strings.Contains(text, "Usage:") || strings.Contains(text, "USAGE:") {
		s += 0.15
	}
	if strings.Contains(text, "Options:") && hasGNUFlagLine(filtered) {
		s += 0.30
	}
	return s
}

func hasGNUFlagLine(lines []lineclass.Line) bool {
	for _, l := range lines {
		if l.Kind != lineclass.KindFlagLine {
			continue
		}
		if strings.Contains(l.Stripped, "-") && strings.Contains(l.Stripped, ",") && strings.Contains(l.Stripped, "--") {
			return true
		}
	}
	return false
}

func scoreClap(text string, filtered []lineclass.Line) float64 {
	s := 0.0
	if strings.Contains(text, "Usage:") || strings.Contains(text, "USAGE:") {
		s += 0.15
	}
	if hasAllCapsSectionsWithBody(filtered) {
		s += 0.15
	}
	if hasTwoColumnCommandsListing(filtered) {
		s += 0.20
	}
	return s
}

func hasAllCapsSectionsWithBody(lines []lineclass.Line) bool {
	headers := 0
	for _, l := range lines {
		if l.Kind == lineclass.KindSectionHeader {
			headers++
		}
	}
	return headers >= 2
}

func hasTwoColumnCommandsListing(lines []lineclass.Line) bool {
	for _, l := range lines {
		if l.Kind == lineclass.KindSubcommandLine {
			return true
		}
	}
	return false
}

func scoreNPM(text string) float64 {
	if strings.HasPrefix(strings.TrimSpace(text), ">") || strings.Contains(text, "npm <") {
		return 0.20
	}
	return 0.0
}

func scoreBSD(text string, filtered []lineclass.Line) float64 {
	hasSingleDashLong := false
	hasLongForm := strings.Contains(text, "--")
	for _, l := range filtered {
		if l.Kind != lineclass.KindFlagLine {
			continue
		}
		trimmed := strings.TrimSpace(l.Stripped)
		if strings.HasPrefix(trimmed, "-") && !strings.HasPrefix(trimmed, "--") && len(trimmed) > 2 {
			hasSingleDashLong = true
		}
	}
	if hasSingleDashLong && !hasLongForm {
		return 0.20
	}
	return 0.0
}

func scoreManRendered(text string) float64 {
	if strings.Contains(text, "SYNOPSIS") && strings.Contains(text, "NAME") && strings.Contains(text, "OPTIONS") {
		return 0.60
	}
	return 0.0
}

func scoreManRaw(lines []lineclass.Line) float64 {
	macroCount := 0
	for i, l := range lines {
		if i >= 20 {
			break
		}
		if isRoffMacroLine(l.Raw) {
			macroCount++
		}
	}
	if macroCount >= 2 {
		return 0.70
	}
	return 0.0
}

func isRoffMacroLine(raw string) bool {
	trimmed := strings.TrimLeft(raw, " \t")
	if trimmed == "" {
		return false
	}
	first := trimmed[0]
	if first != '.' && first != '\'' {
		return false
	}
	if len(trimmed) < 2 {
		return false
	}
	second := trimmed[1]
	return (second >= 'A' && second <= 'Z') || (second >= 'a' && second <= 'z')
}

func scoreGeneric(filtered []lineclass.Line) float64 {
	for _, l := range filtered {
		if l.Kind == lineclass.KindFlagLine {
			return 0.10
		}
	}
	return 0.0
}

// filterHardNegatives excludes lines that resemble environment-variable
// rows, keybinding rows, or prose table headers from flag/subcommand
// counting, so those sections never masquerade as an options table.
func filterHardNegatives(lines []lineclass.Line) []lineclass.Line {
	out := make([]lineclass.Line, 0, len(lines))
	for _, l := range lines {
		if isEnvVarRow(l.Stripped) || isKeybindingRow(l.Stripped) || isProseHeader(l.Stripped) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func isEnvVarRow(line string) bool {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "export ") {
		return true
	}
	left, _, found := strings.Cut(trimmed, "=")
	if !found {
		return false
	}
	key := strings.TrimSpace(left)
	if key == "" {
		return false
	}
	for _, r := range key {
		if !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9') && r != '_' {
			return false
		}
	}
	return true
}

func isKeybindingRow(line string) bool {
	trimmed := strings.TrimSpace(line)
	if strings.Contains(trimmed, "Ctrl+") || strings.Contains(trimmed, "ctrl+") || strings.Contains(trimmed, "^") {
		return true
	}
	lower := strings.ToLower(trimmed)
	return strings.Contains(lower, "esc-") || strings.Contains(lower, "arrow") ||
		strings.Contains(lower, "backspace") || strings.Contains(lower, "delete")
}

func isProseHeader(line string) bool {
	lower := strings.ToLower(strings.TrimSpace(line))
	switch lower {
	case "name  description", "name description",
		"command  description", "command description",
		"option  description", "option description":
		return true
	}
	return false
}
