// Package locale holds the widget locale and its formatting rules.
//
// Two locales exist: the default Portuguese one and an English variant.
// A widget picks its locale once at construction and keeps it.
package locale

import (
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Locale identifies the language a widget renders in.
type Locale string

const (
	Portuguese Locale = "pt"
	English    Locale = "en"
)

// Default is used whenever the language tag is missing or unrecognized.
const Default = Portuguese

// FromTag derives the widget locale from a page or terminal language tag
// such as "en-US", "pt-BR" or "en_GB.UTF-8". Only English is recognized;
// every other tag maps to Default.
func FromTag(tag string) Locale {
	raw := strings.TrimSpace(tag)
	if i := strings.IndexAny(raw, ".@"); i >= 0 {
		raw = raw[:i]
	}
	raw = strings.ReplaceAll(raw, "_", "-")
	if raw == "" {
		return Default
	}

	parsed, err := language.Parse(raw)
	if err != nil {
		if strings.HasPrefix(strings.ToLower(raw), "en") {
			return English
		}
		return Default
	}

	base, _ := parsed.Base()
	if base.String() == "en" {
		return English
	}
	return Default
}

// IsEnglish reports whether l is the English variant.
func (l Locale) IsEnglish() bool {
	return l == English
}

// Suffix returns the short code used in per-locale storage keys.
func (l Locale) Suffix() string {
	if l.IsEnglish() {
		return "en"
	}
	return "pt"
}

// Pick returns en for the English locale and pt otherwise.
func (l Locale) Pick(pt, en string) string {
	if l.IsEnglish() {
		return en
	}
	return pt
}

// FormatDate renders t in the locale's date-time layout, in the local
// time zone. A zero time renders as an empty string.
func (l Locale) FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.Local()
	if l.IsEnglish() {
		return t.Format("Jan 2, 2006 3:04 PM")
	}
	return t.Format("02/01/2006 15:04")
}
