// Package textnorm canonicalizes characters for typing comparison.
//
// Nothing here is meant for display: the quote and the typed keys are kept
// as-is and only compared through these helpers.
package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizePunctRune maps curly quotes to their ASCII counterparts.
func NormalizePunctRune(r rune) rune {
	switch r {
	case '“', '”':
		return '"'
	case '‘', '’':
		return '\''
	default:
		return r
	}
}

// NormalizePunct applies NormalizePunctRune to every rune of s.
func NormalizePunct(s string) string {
	return strings.Map(NormalizePunctRune, s)
}

// Fold decomposes s and drops nonspacing marks, so "é" becomes "e".
func Fold(s string) string {
	if isASCII(s) {
		return s
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Canonical returns the comparison form of s: punctuation first, then folding.
func Canonical(s string) string {
	return Fold(NormalizePunct(s))
}

// Equal reports whether typed and target match for correctness purposes.
func Equal(typed, target rune) bool {
	typed = NormalizePunctRune(typed)
	target = NormalizePunctRune(target)
	if typed == target {
		return true
	}
	if typed < utf8.RuneSelf && target < utf8.RuneSelf {
		return false
	}
	return Fold(string(typed)) == Fold(string(target))
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
