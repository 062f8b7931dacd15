package probe

import (
	"io"
	"strings"
)

// looksLikeHelp implements the §4.6 acceptance heuristic: presence of a
// usage line or an options header within the first 200 lines, or a
// recognizable man-page signature.
func looksLikeHelp(text string) bool {
	if len(strings.TrimSpace(text)) < 20 {
		return false
	}

	lowerAll := strings.ToLower(text)
	if strings.Contains(lowerAll, "command not found") || strings.Contains(lowerAll, "no such file or directory") {
		return false
	}

	lines := strings.Split(text, "\n")
	limit := len(lines)
	if limit > 200 {
		limit = 200
	}

	hasUsage, hasOptionsHeader, hasManTitle := false, false, false
	for _, l := range lines[:limit] {
		lower := strings.ToLower(strings.TrimSpace(l))
		if strings.HasPrefix(lower, "usage:") || strings.HasPrefix(lower, "usage ") || strings.HasPrefix(lower, "synopsis") {
			hasUsage = true
		}
		if lower == "options:" || lower == "options" || lower == "flags:" {
			hasOptionsHeader = true
		}
		if looksLikeManTitle(l) {
			hasManTitle = true
		}
	}

	if hasUsage || hasOptionsHeader || hasManTitle {
		return true
	}

	// Fallback: a recognizable flag line anywhere in the output.
	for _, l := range lines[:limit] {
		trimmed := strings.TrimSpace(l)
		if strings.HasPrefix(trimmed, "--") || (strings.HasPrefix(trimmed, "-") && len(trimmed) > 1) {
			return true
		}
	}
	return false
}

func looksLikeManTitle(line string) bool {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) < 2 {
		return false
	}
	first := fields[0]
	idx := strings.IndexByte(first, '(')
	return idx > 0 && strings.HasSuffix(first, ")")
}

// classifyRejection names why output was rejected, for the report's
// reject_reason field.
func classifyRejection(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "permission denied"):
		return "environment blocked the probe"
	case strings.Contains(lower, "command not found"), strings.Contains(lower, "no such file or directory"):
		return "executable reported as not installed"
	case strings.TrimSpace(text) == "":
		return "empty output"
	default:
		return "output did not match help heuristics"
	}
}

// capWriter wraps w so that writes beyond limit bytes are silently
// dropped rather than growing the buffer unbounded.
func capWriter(w io.Writer, limit int) io.Writer {
	return &boundedWriter{w: w, limit: limit}
}

type boundedWriter struct {
	w       io.Writer
	limit   int
	written int
}

func (b *boundedWriter) Write(p []byte) (int, error) {
	if b.written >= b.limit {
		return len(p), nil
	}
	remaining := b.limit - b.written
	if len(p) > remaining {
		n, err := b.w.Write(p[:remaining])
		b.written += n
		return len(p), err
	}
	n, err := b.w.Write(p)
	b.written += n
	return n, err
}
