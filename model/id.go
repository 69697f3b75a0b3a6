package model

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ToID normalises a display name to a Showdown identifier: case folded,
// diacritics stripped, and everything but ASCII letters and digits dropped.
// "Zacian-Crowned" -> "zaciancrowned", "Flabébé" -> "flabebe".
func ToID(s string) string {
	if s == "" {
		return ""
	}
	// Transformers carry state, so build the chain per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, s)
	if err != nil {
		plain = s
	}
	plain = cases.Fold().String(plain)

	var b strings.Builder
	b.Grow(len(plain))
	for _, r := range plain {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ToIDs normalises every element of ss.
func ToIDs(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		out = append(out, ToID(s))
	}
	return out
}
