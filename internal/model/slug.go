package model

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)
	// SlugPattern matches a canonical slug.
	SlugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Slugify turns a display name into a URL slug, folding accents
// ("Café Déjà" -> "cafe-deja").
func Slugify(name string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		name,
	)
	if err != nil {
		folded = name
	}
	slug := slugInvalid.ReplaceAllString(strings.ToLower(folded), "-")
	return strings.Trim(slug, "-")
}
