package signals

import (
	"strings"
	"unicode/utf8"
)

const (
	// MaxTextRunes bounds the length of emitted signal text.
	MaxTextRunes = 160
	ellipsis     = "..."

	styleShortMax = 24
)

// CleanText collapses whitespace and truncates to MaxTextRunes, marking
// truncation with an ellipsis.
func CleanText(text string) string {
	s := strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(s) <= MaxTextRunes {
		return s
	}
	r := []rune(s)[:MaxTextRunes-len(ellipsis)]
	return strings.TrimRight(string(r), " ") + ellipsis
}

// NormalizeKey is the comparison form used to detect duplicate signals.
func NormalizeKey(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

// LikelyImportant filters styled spans: only question markers, "question N"
// mentions and short labels with a digit pass.
func LikelyImportant(text string) bool {
	if IsQuestionToken(text) || HasQuestionPhrase(text) {
		return true
	}
	return utf8.RuneCountInString(text) <= styleShortMax && hasDigit(text)
}
