// Package suggest attaches "did you mean" hints to unresolved lines by
// fuzzy-matching against names already recognized elsewhere in the
// schema (§4.9).
package suggest

import (
	"strings"

	levenshtein "github.com/texttheater/golang-levenshtein/levenshtein"
)

// MaxDistance bounds how different a candidate may be from a known
// name before it is considered too far to suggest.
const MaxDistance = 2

// Closest returns the known name closest to token by edit distance, or
// "" if nothing is within MaxDistance.
func Closest(token string, known []string) (string, int) {
	best := ""
	bestDist := MaxDistance + 1

	normalizedToken := strings.ToLower(token)
	for _, candidate := range known {
		dist := levenshtein.DistanceForStrings([]rune(normalizedToken), []rune(strings.ToLower(candidate)), levenshtein.DefaultOptions)
		if dist < bestDist {
			bestDist = dist
			best = candidate
		}
	}

	if best == "" || bestDist > MaxDistance {
		return "", 0
	}
	return best, bestDist
}
