package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize lower-cases the input and strips diacritics so accented and
// unaccented text compare equal ("Azúcar" -> "azucar"). Total: any input
// yields a usable output.
func Normalize(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Tokenize normalizes the input and returns words longer than two runes.
// Short tokens ("de", "la", "y") behave like stopwords and carry no signal
// for matching.
func Tokenize(s string) []string {
	fields := strings.Fields(Normalize(s))
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if len([]rune(field)) > 2 {
			tokens = append(tokens, field)
		}
	}
	return tokens
}
