// Package textnorm turns raw page text (native or OCR) into stable,
// LLM-friendly plain text: wrapped prose becomes one line per paragraph
// while bullets, numbered items, headings and table-like rows keep their
// own lines.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxLabelLen      = 90 // short lines ending in ':' are labels
	minHeadingLen    = 3
	maxHeadingLen    = 80
	columnGapSpacing = "  "
)

var (
	reBullet    = regexp.MustCompile(`^[-*\x{2022}]\s+`)
	reNumbered  = regexp.MustCompile(`^\d+[.)]\s+`)
	reColumnGap = regexp.MustCompile(`\S\s{2,}\S`)
	reBlankRun  = regexp.MustCompile(`[ \t]+`)
)

var lineEndings = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"\f", "\n",
	"\v", "\n",
	"\u0085", "\n",
	"\u2028", "\n",
	"\u2029", "\n",
	"\u00a0", " ",
)

// Normalize repairs hyphenation, rebuilds paragraphs and collapses
// whitespace. Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	text = lineEndings.Replace(text)

	lines := strings.Split(text, "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimSpace(ln)
	}
	text = Dehyphenate(strings.Join(lines, "\n"))

	return unwrap(text)
}

// Dehyphenate removes a hyphen that sits right before a line break when
// both neighbours are word characters, joining "multi-\nline" into
// "multiline".
func Dehyphenate(text string) string {
	if !strings.Contains(text, "-\n") {
		return text
	}
	rs := []rune(text)
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(rs); i++ {
		if rs[i] == '-' && i > 0 && i+2 < len(rs) && rs[i+1] == '\n' &&
			isWordRune(rs[i-1]) && isWordRune(rs[i+2]) {
			i++ // skip "-\n"
			continue
		}
		b.WriteRune(rs[i])
	}
	return b.String()
}

// IsStructural reports whether a (trimmed) line must keep its own line
// instead of being merged into the surrounding paragraph.
func IsStructural(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" {
		return false
	}
	switch {
	case reBullet.MatchString(s):
		return true
	case reNumbered.MatchString(s):
		return true
	case strings.HasSuffix(s, ":") && utf8.RuneCountInString(s) <= maxLabelLen:
		return true
	case strings.Contains(s, "|"):
		return true
	case reColumnGap.MatchString(s):
		return true
	case isHeading(s):
		return true
	}
	return false
}

// unwrap joins hard-wrapped prose and collapses blank-line runs.
func unwrap(text string) string {
	var out, para []string
	flush := func() {
		if len(para) > 0 {
			out = append(out, strings.Join(para, " "))
			para = para[:0]
		}
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			flush()
			if len(out) > 0 && out[len(out)-1] != "" {
				out = append(out, "")
			}
			continue
		}
		if IsStructural(line) {
			flush()
			out = append(out, line)
			continue
		}
		para = append(para, line)
	}
	flush()

	normalized := make([]string, 0, len(out))
	prevBlank := false
	for _, line := range out {
		if line == "" {
			if !prevBlank {
				normalized = append(normalized, "")
			}
			prevBlank = true
			continue
		}
		normalized = append(normalized, collapse(line))
		prevBlank = false
	}
	return strings.TrimSpace(strings.Join(normalized, "\n"))
}

// collapse squeezes spaces and tabs to a single space. Lines laid out in
// columns keep a two-space gap so they are still recognised as table rows
// the next time they are normalized.
func collapse(line string) string {
	columns := reColumnGap.MatchString(line)
	line = reBlankRun.ReplaceAllStringFunc(line, func(run string) string {
		if columns && len(run) >= 2 {
			return columnGapSpacing
		}
		return " "
	})
	return strings.TrimSpace(line)
}

// isHeading matches all-uppercase lines of heading length.
func isHeading(s string) bool {
	n := utf8.RuneCountInString(s)
	if n < minHeadingLen || n > maxHeadingLen {
		return false
	}
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
