// Package payee implements the hierarchical learned payee-to-category memory.
package payee

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldDiacritics decomposes to NFD, strips combining marks, and recomposes,
// so "Živnostenská" and "Zivnostenska" normalize identically.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes a payee name: lowercase, diacritics folded,
// whitespace collapsed. Returns "" for blank input.
func Normalize(name string) string {
	folded, _, err := transform.String(foldDiacritics, name)
	if err != nil {
		// Transform failures only occur on malformed UTF-8; fall back to
		// the raw input rather than dropping the key.
		folded = name
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// NormalizeIBAN canonicalizes an IBAN: spaces stripped, uppercased.
func NormalizeIBAN(iban string) string {
	return strings.ToUpper(strings.Join(strings.Fields(iban), ""))
}
