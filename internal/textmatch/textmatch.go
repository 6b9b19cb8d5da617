// Package textmatch normalizes free text and classifies it against ordered
// keyword rules.
package textmatch

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases s and strips diacritical marks, so "Ansiosa" and
// "ansiosa", or "distraído" and "distraido", compare equal.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// ContainsAny reports whether text contains any of terms as a substring.
// Both sides are compared as given; callers normalize first.
func ContainsAny(text string, terms []string) bool {
	for _, term := range terms {
		if term != "" && strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// Rule is a named keyword set. Terms must already be normalized.
type Rule struct {
	Name  string
	Terms []string
}

// Classify normalizes raw and returns the name of the first rule whose
// terms occur in it. Rules are evaluated in slice order and evaluation
// stops at the first match.
func Classify(raw string, rules []Rule) (string, bool) {
	text := Normalize(raw)
	for _, r := range rules {
		if ContainsAny(text, r.Terms) {
			return r.Name, true
		}
	}
	return "", false
}
