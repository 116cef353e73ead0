package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims s and collapses inner whitespace runs to one space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
			continue
		}
		result.WriteRune(r)
		lastWasSpace = false
	}

	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeCode upper-cases short identifiers like room or department codes.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.ReplaceAll(TrimAndNormalize(code), " ", ""))
}

// NormalizeSearch lower-cases a free-text query and splits it into terms.
func NormalizeSearch(query string) []string {
	return strings.Fields(strings.ToLower(query))
}
