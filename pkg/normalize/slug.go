package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces  = regexp.MustCompile(`\s+`)
	slugDashes  = regexp.MustCompile(`-+`)
	ligatures   = strings.NewReplacer("œ", "oe", "Œ", "OE", "æ", "ae", "Æ", "AE")
)

func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return ligatures.Replace(out)
}

// ProductSlug turns a product name into a URL-safe key: "Crème Brûlée" -> "creme-brulee".
func ProductSlug(name string) string {
	s := strings.ToLower(stripDiacritics(name))
	s = strings.TrimSpace(s)
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// FindProductBySlug returns the first product whose slug equals slug.
func FindProductBySlug(products []string, slug string) (string, bool) {
	if slug == "" {
		return "", false
	}
	slug = strings.ToLower(slug)
	for _, p := range products {
		if ProductSlug(p) == slug {
			return p, true
		}
	}
	return "", false
}
