package signals

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/joseph-ayodele/pdfcontext/constants"
)

// Scoring constants.
const (
	MultiTypeBonus      = 0.10
	QuestionTokenBoost  = 0.35
	QuestionPhraseBoost = 0.25
	ShortNumericBoost   = 0.15
	ShortNumericMax     = 12
	MaxScore            = 1.7

	unknownTypeScore = 0.20

	HighThreshold   = 1.00
	MediumThreshold = 0.65
)

var baseScores = map[constants.SignalType]float64{
	constants.Highlight:   1.00,
	constants.Underline:   0.90,
	constants.Squiggly:    0.70,
	constants.StrikeOut:   0.60,
	constants.Bold:        0.45,
	constants.ColoredText: 0.35,
}

var (
	reQuestionToken  = regexp.MustCompile(`(?i)^(?:q(?:uestion)?\s*)?\d{1,3}[.)]?$`)
	reQuestionPhrase = regexp.MustCompile(`(?i)\bquestion\s*\d+`)
)

// BaseScore is the weight of a single signal type.
func BaseScore(t constants.SignalType) float64 {
	if s, ok := baseScores[t]; ok {
		return s
	}
	return unknownTypeScore
}

// IsQuestionToken reports whether text is a bare item marker such as
// "Q3", "question 12", "4." or "7)".
func IsQuestionToken(text string) bool {
	return reQuestionToken.MatchString(strings.TrimSpace(text))
}

// HasQuestionPhrase reports whether text mentions "question N" anywhere.
func HasQuestionPhrase(text string) bool {
	return reQuestionPhrase.MatchString(text)
}

func hasDigit(text string) bool {
	return strings.IndexFunc(text, unicode.IsDigit) >= 0
}

// Score computes the importance of a span with the given types.
func Score(text string, types TypeSet) float64 {
	var score float64
	for _, t := range types.Types() {
		score += BaseScore(t)
	}
	if n := types.Len(); n > 1 {
		score += MultiTypeBonus * float64(n-1)
	}

	switch {
	case IsQuestionToken(text):
		score += QuestionTokenBoost
	case HasQuestionPhrase(text):
		score += QuestionPhraseBoost
	}
	if utf8.RuneCountInString(text) <= ShortNumericMax && hasDigit(text) {
		score += ShortNumericBoost
	}

	return math.Round(min(score, MaxScore)*1000) / 1000
}

// Bucket maps a score onto its significance tier.
func Bucket(score float64) constants.Significance {
	switch {
	case score >= HighThreshold:
		return constants.SignificanceHigh
	case score >= MediumThreshold:
		return constants.SignificanceMedium
	default:
		return constants.SignificanceLow
	}
}
