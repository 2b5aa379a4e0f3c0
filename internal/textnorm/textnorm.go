// Package textnorm provides the text normalization primitives the whole
// matching pipeline is built on. Every string comparison in the bot goes
// through Fold first, so two strings are considered equal iff their folded
// forms are equal or one contains the other.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, drops combining marks, and recomposes.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases s and removes diacritics ("Educación" -> "educacion").
// It is total and idempotent; empty input yields the empty string.
func Fold(s string) string {
	result, _, err := transform.String(stripMarks, strings.ToLower(s))
	if err != nil {
		// transform.String only fails on malformed UTF-8; fall back to
		// the lowercased original rather than dropping the text.
		return strings.ToLower(s)
	}
	return result
}

// Tokenize splits already-folded text into alphanumeric words of at least
// minLen runes, skipping any word present in the stop set. The stop set may
// be nil. Word order and duplicates are preserved.
func Tokenize(folded string, minLen int, stop map[string]bool) []string {
	var tokens []string
	var b strings.Builder
	flush := func() {
		if b.Len() == 0 {
			return
		}
		w := b.String()
		b.Reset()
		if len([]rune(w)) < minLen || stop[w] {
			return
		}
		tokens = append(tokens, w)
	}
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return tokens
}

// TokenSet is Tokenize collapsed into a membership set.
func TokenSet(folded string, minLen int, stop map[string]bool) map[string]bool {
	set := make(map[string]bool)
	for _, w := range Tokenize(folded, minLen, stop) {
		set[w] = true
	}
	return set
}

// Overlap returns the size of the intersection of two token sets.
func Overlap(a, b map[string]bool) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for w := range a {
		if b[w] {
			n++
		}
	}
	return n
}
