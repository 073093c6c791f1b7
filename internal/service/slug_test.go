package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Dental Demo", "dental-demo"},
		{"punctuation", "Dr. Smith's Office!", "dr-smith-s-office"},
		{"collapses runs", "a   --  b", "a-b"},
		{"trims hyphens", "--hello--", "hello"},
		{"unicode letters kept", "Café Demo", "café-demo"},
		{"empty falls back", "", "config"},
		{"symbols only fall back", "!!!", "config"},
		{
			"long names truncated",
			"this is a very long configuration name that keeps going well past the limit",
			"this-is-a-very-long-configuration-name-that-keeps",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.in)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len([]rune(got)), maxSlugLen)
		})
	}
}

// The cut at maxSlugLen counts runes, not bytes; a multibyte name must
// never be sliced mid-rune into invalid UTF-8.
func TestSlugifyTruncatesOnRuneBoundary(t *testing.T) {
	got := Slugify("x" + strings.Repeat("ü", 60))
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "x"+strings.Repeat("ü", maxSlugLen-1), got)

	suffixed := truncateSlug("x"+strings.Repeat("ü", 60), maxSlugLen-2) + "-2"
	assert.True(t, utf8.ValidString(suffixed))
	assert.Len(t, []rune(suffixed), maxSlugLen)
}
