// Package denoise strips header and footer lines that repeat across most
// pages of a document ("Page 3 of 12", course codes, running titles).
package denoise

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MinPages is the smallest document the denoiser will touch.
	MinPages = 3
	// SampleLines is how many non-blank lines are sampled from each end of a page.
	SampleLines = 2
	// RepeatRatio is the share of pages a signature must appear on.
	RepeatRatio = 0.60

	minSignatureLen = 4
	maxSignatureLen = 140
)

var (
	reDigits = regexp.MustCompile(`\d+`)
	reSpaces = regexp.MustCompile(`\s+`)
)

// Signature returns the canonical form of a line used to detect repetition:
// lowercased, digit runs replaced by '#', whitespace collapsed and edge
// punctuation trimmed.
func Signature(line string) string {
	s := reDigits.ReplaceAllString(strings.ToLower(line), "#")
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.Trim(s, " .:-|_")
}

// Threshold is the number of pages a signature must appear on to count as
// boilerplate for a document of pageCount pages.
func Threshold(pageCount int) int {
	return max(MinPages, int(math.Ceil(float64(pageCount)*RepeatRatio)))
}

// RepeatedSignatures tallies header/footer candidates and returns the
// signatures that clear Threshold. Documents shorter than MinPages yield nil.
func RepeatedSignatures(pages []string) map[string]int {
	if len(pages) < MinPages {
		return nil
	}

	counts := make(map[string]int)
	for _, text := range pages {
		seen := make(map[string]struct{})
		for _, line := range candidates(text) {
			sig := Signature(line)
			n := utf8.RuneCountInString(sig)
			if n < minSignatureLen || n > maxSignatureLen {
				continue
			}
			if _, dup := seen[sig]; dup {
				continue
			}
			seen[sig] = struct{}{}
			counts[sig]++
		}
	}

	need := Threshold(len(pages))
	repeated := make(map[string]int)
	for sig, c := range counts {
		if c >= need {
			repeated[sig] = c
		}
	}
	if len(repeated) == 0 {
		return nil
	}
	return repeated
}

// Strip removes every line whose signature repeats across the document.
// The returned slice always has the same length as pages; when nothing
// repeats the input is returned unchanged.
func Strip(pages []string) []string {
	repeated := RepeatedSignatures(pages)
	if len(repeated) == 0 {
		return pages
	}

	cleaned := make([]string, len(pages))
	for i, text := range pages {
		lines := strings.Split(text, "\n")
		kept := lines[:0:0]
		for _, line := range lines {
			if _, drop := repeated[Signature(line)]; drop {
				continue
			}
			kept = append(kept, strings.TrimRight(line, " \t"))
		}
		cleaned[i] = strings.TrimSpace(strings.Join(kept, "\n"))
	}
	return cleaned
}

// candidates returns the first and last SampleLines non-blank lines.
func candidates(text string) []string {
	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			lines = append(lines, ln)
		}
	}
	if len(lines) <= 2*SampleLines {
		return lines
	}
	out := make([]string, 0, 2*SampleLines)
	out = append(out, lines[:SampleLines]...)
	return append(out, lines[len(lines)-SampleLines:]...)
}
