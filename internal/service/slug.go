package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxSlugLen bounds the URL-facing identifier.
const maxSlugLen = 50

// Slugify derives a URL slug from a display name: lowercased, runs of
// non-alphanumerics collapsed to single hyphens, trimmed to maxSlugLen.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	slug := truncateSlug(strings.Trim(b.String(), "-"), maxSlugLen)
	if slug == "" {
		slug = "config"
	}
	return slug
}

// truncateSlug cuts a slug to at most n runes, never splitting a
// multibyte rune, and drops any hyphen the cut leaves dangling.
func truncateSlug(slug string, n int) string {
	if utf8.RuneCountInString(slug) <= n {
		return slug
	}
	return strings.Trim(string([]rune(slug)[:n]), "-")
}

// uniqueSlug returns base if unclaimed, otherwise base-2, base-3, and
// so on until a free slug is found.
func (s *DemoConfigService) uniqueSlug(ctx context.Context, base string) (string, error) {
	candidate := base
	for n := 2; ; n++ {
		existing, err := s.store.GetDemoConfigBySlug(ctx, candidate)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return candidate, nil
		}
		suffix := fmt.Sprintf("-%d", n)
		candidate = truncateSlug(base, maxSlugLen-len(suffix)) + suffix
	}
}
