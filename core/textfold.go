package core

import (
	"regexp"
	"strings"

	"github.com/proddogan-cmyk/hesapkapama-sub000/config"
)

var nonWordRegex = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// StripDiacritics removes combining marks, keeping case.
func StripDiacritics(s string) string {
	return config.StripDiacritics(s)
}

// FoldText normalizes header and label text for tolerant comparison. It
// folds exactly like config.FoldKey, so routing agrees with validation.
func FoldText(s string) string {
	return config.FoldKey(s)
}

// containsToken reports whether folded contains token as whole words.
func containsToken(folded, token string) bool {
	token = FoldText(token)
	if token == "" {
		return false
	}
	return strings.Contains(" "+folded+" ", " "+token+" ")
}

func containsAny(folded string, tokens []string) bool {
	for _, t := range tokens {
		if containsToken(folded, t) {
			return true
		}
	}
	return false
}

func equalsAny(folded string, tokens []string) bool {
	for _, t := range tokens {
		if folded == FoldText(t) {
			return true
		}
	}
	return false
}

// sanitizeFilename turns free text into a portable file name fragment.
func sanitizeFilename(s string) string {
	result := nonWordRegex.ReplaceAllString(StripDiacritics(s), "_")
	result = strings.Trim(result, "_")
	if result == "" {
		return "report"
	}
	return result
}
