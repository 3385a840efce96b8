// Package wiki derives English Wikipedia article URLs from country names.
package wiki

import "strings"

// BaseURL is the English Wikipedia article base path.
const BaseURL = "https://en.wikipedia.org/wiki/"

// TitleCase capitalizes the first letter of each space- or
// underscore-delimited word and lowercases the rest, mirroring Python's
// str.title() for these delimiters. Multi-word names with non-standard
// capitalization ("of the") are deliberately not special-cased: a name that
// does not match Wikipedia's article title simply 404s upstream.
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	startOfWord := true
	for _, r := range s {
		switch {
		case r == ' ' || r == '_':
			startOfWord = true
			b.WriteRune(r)
		case startOfWord:
			b.WriteString(strings.ToUpper(string(r)))
			startOfWord = false
		default:
			b.WriteString(strings.ToLower(string(r)))
		}
	}
	return b.String()
}

// Slug converts a country name to a Wikipedia article title: spaces become
// underscores and each word is title-cased. No further normalization of
// punctuation or diacritics is performed.
func Slug(country string) string {
	return TitleCase(strings.ReplaceAll(country, " ", "_"))
}

// ConstructURL returns the English Wikipedia URL for a country name.
//
//	ConstructURL("united states") → "https://en.wikipedia.org/wiki/United_States"
func ConstructURL(country string) string {
	return BaseURL + Slug(country)
}
