package config

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonWordRegex    = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	whitespaceRegex = regexp.MustCompile(`\s+`)

	// Letters NFD does not decompose.
	letterFolds = strings.NewReplacer(
		"ı", "i", "İ", "I",
		"đ", "d", "Đ", "D",
		"ø", "o", "Ø", "O",
		"ł", "l", "Ł", "L",
	)
)

// StripDiacritics removes combining marks, keeping case.
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}
	return letterFolds.Replace(result)
}

// FoldKey normalizes a label for tolerant comparison: diacritics removed,
// upper case, punctuation collapsed to single spaces. Category routing and
// alias validation both key on it.
func FoldKey(s string) string {
	result := strings.ToUpper(StripDiacritics(s))
	result = nonWordRegex.ReplaceAllString(result, " ")
	result = whitespaceRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}
