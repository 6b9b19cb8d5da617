package locale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromTag(t *testing.T) {
	tests := []struct {
		tag  string
		want Locale
	}{
		{"en", English},
		{"en-US", English},
		{"EN-gb", English},
		{"en_GB.UTF-8", English},
		{"pt-BR", Portuguese},
		{"pt", Portuguese},
		{"es", Portuguese},
		{"", Portuguese},
		{"C.UTF-8", Portuguese},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FromTag(tt.tag), "FromTag(%q)", tt.tag)
	}
}

func TestLocale_Pick(t *testing.T) {
	assert.Equal(t, "oi", Portuguese.Pick("oi", "hi"))
	assert.Equal(t, "hi", English.Pick("oi", "hi"))
	assert.Equal(t, "pt", Portuguese.Suffix())
	assert.Equal(t, "en", English.Suffix())
}

func TestLocale_FormatDate(t *testing.T) {
	ts := time.Date(2025, 3, 1, 14, 5, 0, 0, time.Local)

	assert.Equal(t, "01/03/2025 14:05", Portuguese.FormatDate(ts))
	assert.Equal(t, "Mar 1, 2025 2:05 PM", English.FormatDate(ts))
	assert.Equal(t, "", English.FormatDate(time.Time{}))
}
