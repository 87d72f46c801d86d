package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	blankLineRe  = regexp.MustCompile(`\n[ \t\r]*\n`)
)

// collapseWhitespace trims s and folds every whitespace run into one space
func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// truncate cuts s to max runes and marks the cut with "..."
func truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:max])) + "..."
}

// runeLen counts characters rather than bytes, so Devanagari text is measured fairly
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// splitParagraphs splits text on blank lines
func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return blankLineRe.Split(text, -1)
}

// isAllUpper reports whether s has cased letters and none of them are lower case
func isAllUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}
