package signals

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/joseph-ayodele/pdfcontext/constants"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		types TypeSet
		want  float64
	}{
		{"question token highlight", "Q3", NewTypeSet(constants.Highlight), 1.5},
		{"plain highlight", "overview paragraph", NewTypeSet(constants.Highlight), 1.0},
		{"question token underline", "Question 2", NewTypeSet(constants.Underline), 1.4},
		{"question phrase", "see question 4 below", NewTypeSet(constants.Underline), 1.15},
		{"capped", "Important", NewTypeSet(constants.Highlight, constants.Underline), 1.7},
		{"bold plain", "Total", NewTypeSet(constants.Bold), 0.45},
		{"multi type bonus", "Deadline", NewTypeSet(constants.Bold, constants.ColoredText), 0.9},
		{"short numeric label", "Item 7", NewTypeSet(constants.ColoredText), 0.5},
		{"strikeout", "removed text", NewTypeSet(constants.StrikeOut), 0.6},
		{"squiggly", "unclear wording", NewTypeSet(constants.Squiggly), 0.7},
		{"no types", "plain", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.text, tt.types); got != tt.want {
				t.Errorf("Score(%q, %v) = %v, want %v", tt.text, tt.types, got, tt.want)
			}
		})
	}
}

func TestScore_QuestionTokenBeatsPlainText(t *testing.T) {
	for _, typ := range constants.AllSignalTypes {
		types := NewTypeSet(typ)
		if q, plain := Score("Q3", types), Score("overview paragraph", types); q <= plain {
			t.Errorf("%s: Q3 scored %v, plain %v", typ, q, plain)
		}
	}
}

func TestBaseScore_Unknown(t *testing.T) {
	if got := BaseScore("circle"); got != 0.20 {
		t.Errorf("BaseScore(circle) = %v, want 0.20", got)
	}
}

func TestBucket(t *testing.T) {
	tests := []struct {
		score float64
		want  constants.Significance
	}{
		{1.7, constants.SignificanceHigh},
		{1.0, constants.SignificanceHigh},
		{0.99, constants.SignificanceMedium},
		{0.65, constants.SignificanceMedium},
		{0.649, constants.SignificanceLow},
		{0, constants.SignificanceLow},
	}
	for _, tt := range tests {
		if got := Bucket(tt.score); got != tt.want {
			t.Errorf("Bucket(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestIsQuestionToken(t *testing.T) {
	tests := map[string]bool{
		"Q3":          true,
		"q 12.":       true,
		"Question 7)": true,
		"question12":  true,
		"3.":          true,
		" 14 ":        true,
		"1234":        false,
		"Q3a":         false,
		"Quest 3":     false,
		"":            false,
	}
	for in, want := range tests {
		if got := IsQuestionToken(in); got != want {
			t.Errorf("IsQuestionToken(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLikelyImportant(t *testing.T) {
	tests := map[string]bool{
		"Part 2 (10 pts)": true,
		"Q5":              true,
		"Read carefully":  false,
		"This paragraph mentions question 3 in passing and keeps going": true,
		"An extremely long bold sentence from 2025 here":                false,
	}
	for in, want := range tests {
		if got := LikelyImportant(in); got != want {
			t.Errorf("LikelyImportant(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestCleanText(t *testing.T) {
	if got := CleanText("  a\n\tb  "); got != "a b" {
		t.Errorf("CleanText collapse = %q", got)
	}

	long := CleanText(strings.Repeat("word ", 60))
	if !strings.HasSuffix(long, "...") {
		t.Errorf("truncated text lacks ellipsis: %q", long)
	}
	if n := utf8.RuneCountInString(long); n > MaxTextRunes {
		t.Errorf("truncated length = %d, want <= %d", n, MaxTextRunes)
	}

	exact := strings.Repeat("x", MaxTextRunes)
	if got := CleanText(exact); got != exact {
		t.Errorf("text at the limit was altered")
	}
}
