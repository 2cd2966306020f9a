// Package classifier implements an incremental, vocabulary-based statistical
// text classifier for short payment strings.
package classifier

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minTokenLength drops noise like single letters and symbol fragments.
const minTokenLength = 2

// Tokenize lowercases the text, splits on non-alphanumeric runes, and drops
// tokens shorter than two runes. Training and classification share this
// exact tokenization.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if utf8.RuneCountInString(field) < minTokenLength {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}
