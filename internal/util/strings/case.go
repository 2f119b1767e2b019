package strings

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Capitalize upper-cases the first rune of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// JoinCapitalized capitalizes every part and joins them with sep
// ("create", "update" joined by "Or" -> CreateOrUpdate).
func JoinCapitalized(parts []string, sep string) string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = Capitalize(p)
	}
	return strings.Join(out, sep)
}
