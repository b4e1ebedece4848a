// Package quality decides whether a page's native text can be trusted or
// whether the page should be sent through OCR instead.
package quality

import (
	"regexp"
	"unicode"
)

// Thresholds for trusting native extraction.
const (
	MinNativeChars = 48
	MinNativeWords = 8
	MinAlnumRatio  = 0.45
	MaxSymbolRatio = 0.40
)

var reWord = regexp.MustCompile(`[\p{L}\p{N}]{2,}`)

// Metrics are lightweight text statistics over one page.
type Metrics struct {
	Chars       int     `json:"chars"` // non-whitespace runes
	Words       int     `json:"words"`
	AlnumRatio  float64 `json:"alnum_ratio"`
	SymbolRatio float64 `json:"symbol_ratio"`
}

// Measure computes Metrics for text. Empty text has an alnum ratio of 0 and
// a symbol ratio of 1.
func Measure(text string) Metrics {
	var chars, alnum int
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		chars++
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			alnum++
		}
	}
	m := Metrics{
		Chars:       chars,
		Words:       len(reWord.FindAllStringIndex(text, -1)),
		SymbolRatio: 1,
	}
	if chars > 0 {
		m.AlnumRatio = float64(alnum) / float64(chars)
		m.SymbolRatio = float64(chars-alnum) / float64(chars)
	}
	return m
}

// ShouldOCR reports whether any guard rejects the native text.
func (m Metrics) ShouldOCR() bool {
	return m.Chars < MinNativeChars ||
		m.Words < MinNativeWords ||
		m.AlnumRatio < MinAlnumRatio ||
		m.SymbolRatio > MaxSymbolRatio
}

// ShouldOCR is shorthand for Measure(text).ShouldOCR().
func ShouldOCR(text string) bool {
	return Measure(text).ShouldOCR()
}
