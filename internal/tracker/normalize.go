package tracker

import (
	"strings"
	"unicode"
)

// NormalizeName folds a status or type name for comparison: lower case with
// everything except letters and digits removed, so "In Progress" matches "in_progress".
func NormalizeName(name string) string {
	var builder strings.Builder
	for _, character := range strings.ToLower(name) {
		if unicode.IsLetter(character) || unicode.IsDigit(character) {
			builder.WriteRune(character)
		}
	}
	return builder.String()
}
