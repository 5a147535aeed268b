package nf1

import (
	"strings"
	"unicode"
)

// splitWords splits a field name on underscores, dashes and camelCase boundaries.
// Runs of capitals stay together: "externalURLList" -> [external URL List].
func splitWords(name string) []string {
	var words []string
	for _, part := range strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == '-' }) {
		runes := []rune(part)
		start := 0
		for i := 1; i < len(runes); i++ {
			prev, cur := runes[i-1], runes[i]
			lowerToUpper := unicode.IsLower(prev) && unicode.IsUpper(cur)
			acronymEnd := unicode.IsUpper(prev) && unicode.IsUpper(cur) &&
				i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if lowerToUpper || acronymEnd {
				words = append(words, string(runes[start:i]))
				start = i
			}
		}
		words = append(words, string(runes[start:]))
	}
	return words
}

// lastWord returns the final word of a field name, lowercased.
func lastWord(name string) string {
	words := splitWords(name)
	if len(words) == 0 {
		return ""
	}
	return strings.ToLower(words[len(words)-1])
}

// splitNumberSuffix strips a trailing integer from name.
// "phone_2" -> ("phone", true); "phone" -> ("", false).
func splitNumberSuffix(name string) (string, bool) {
	base := strings.TrimRightFunc(name, unicode.IsDigit)
	if base == name {
		return "", false
	}
	base = strings.TrimSuffix(base, "_")
	if base == "" {
		return "", false
	}
	return base, true
}
