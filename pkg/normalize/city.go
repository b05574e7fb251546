package normalize

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// DefaultCities are matched before falling back to the last address segment.
var DefaultCities = []string{
	"Douala",
	"Yaoundé",
	"Bafoussam",
	"Garoua",
	"Maroua",
	"Bertoua",
	"Kribi",
	"Buea",
	"Limbe",
	"Ebolowa",
	"Ngaoundéré",
	"Bafia",
	"Dschang",
}

// ExtractCity guesses the city of a free-text address. Segments are split on
// ',' or ';' and checked in order against known cities, either as the whole
// segment or contained in it. Without a match the last segment is used when it
// is longer than two characters.
func ExtractCity(address string, known []string) (string, bool) {
	if known == nil {
		known = DefaultCities
	}
	segments := splitAddress(address)
	if len(segments) == 0 {
		return "", false
	}

	fold := cases.Fold()
	foldedCities := make([]string, len(known))
	for i, city := range known {
		foldedCities[i] = fold.String(city)
	}

	for _, segment := range segments {
		s := fold.String(segment)
		for i, city := range foldedCities {
			if city == "" {
				continue
			}
			if s == city || strings.Contains(s, city) {
				return known[i], true
			}
		}
	}

	last := segments[len(segments)-1]
	if utf8.RuneCountInString(last) > 2 {
		return last, true
	}
	return "", false
}

func splitAddress(address string) []string {
	parts := strings.FieldsFunc(address, func(r rune) bool {
		return r == ',' || r == ';'
	})
	segments := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// LoadCustomCities returns extra followed by DefaultCities, without duplicates.
func LoadCustomCities(extra []string) []string {
	if len(extra) == 0 {
		return DefaultCities
	}
	seen := make(map[string]bool, len(extra)+len(DefaultCities))
	out := make([]string, 0, len(extra)+len(DefaultCities))
	for _, list := range [][]string{extra, DefaultCities} {
		for _, city := range list {
			city = strings.TrimSpace(city)
			if city == "" || seen[city] {
				continue
			}
			seen[city] = true
			out = append(out, city)
		}
	}
	return out
}
