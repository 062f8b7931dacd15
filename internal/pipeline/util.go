package pipeline

import (
	"os"
	"os/exec"
	"strings"
	"unicode/utf8"

	"github.com/command-schema/discover/internal/lineclass"
)

// leadingProseDescription recovers a command's one-line description
// from the free-text paragraph many help outputs put before their
// first Usage:/Options: section — text no dialect strategy claims
// because it isn't a flag, subcommand, or usage line.
func leadingProseDescription(lines []lineclass.Line) string {
	var prose []string
	for _, l := range lines {
		switch l.Kind {
		case lineclass.KindOther:
			if s := strings.TrimSpace(l.Stripped); s != "" {
				prose = append(prose, s)
			}
		case lineclass.KindBlank:
			if len(prose) > 0 {
				return strings.Join(prose, " ")
			}
		default:
			if len(prose) > 0 {
				return strings.Join(prose, " ")
			}
			return ""
		}
	}
	return strings.Join(prose, " ")
}

// sanitizeUTF8 replaces invalid byte sequences with U+FFFD so the
// classifier never has to reason about malformed input, reporting
// whether any replacement happened.
func sanitizeUTF8(s string) (string, bool) {
	if utf8.ValidString(s) {
		return s, false
	}
	var b strings.Builder
	b.Grow(len(s))
	replaced := false
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteRune(utf8.RuneError)
			replaced = true
			i++
			continue
		}
		b.WriteRune(r)
		i += size
	}
	return b.String(), replaced
}

// probeResolveExecutable resolves command to an absolute executable
// path the same way the probe driver does, for cache-key lookups that
// need to happen before a probe runs.
func probeResolveExecutable(command string) (string, error) {
	if strings.HasPrefix(command, "/") {
		if info, err := os.Stat(command); err == nil && !info.IsDir() {
			return command, nil
		}
		return "", os.ErrNotExist
	}
	return exec.LookPath(command)
}
