package service

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify derives a URL-safe slug from a product name: diacritics folded
// (Ulei cuticule Măsline -> ulei-cuticule-masline), lowercased, runs of
// anything non-alphanumeric collapsed into single hyphens, no leading or
// trailing hyphen. Slugs are regenerated whenever the name changes.
func Slugify(name string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, strings.TrimSpace(name))
	if err != nil {
		folded = strings.TrimSpace(name)
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	hyphen := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			hyphen = false
		default:
			if !hyphen && b.Len() > 0 {
				b.WriteByte('-')
				hyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
