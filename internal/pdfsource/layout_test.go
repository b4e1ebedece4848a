package pdfsource

import (
	"testing"

	"github.com/joseph-ayodele/pdfcontext/internal/geom"
)

// run lays out text one glyph per rune with a fixed advance.
func run(text string, x, base, size, adv float64) []glyph {
	var out []glyph
	for _, r := range text {
		out = append(out, glyph{x: x, base: base, w: adv, size: size, s: string(r)})
		x += adv
	}
	return out
}

func page(parts ...[]glyph) []glyph {
	var out []glyph
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestRenderText(t *testing.T) {
	glyphs := page(
		run("Q3", 0, 112, 10, 5),
		run("Hello world", 0, 100, 10, 5),
		run("Next", 0, 150, 10, 5),
		run("A", 0, 162, 10, 5),
		run("B", 40, 162, 10, 5),
	)
	got := renderText(layout(glyphs))
	want := "Hello world\nQ3\n\nNext\nA  B"
	if got != want {
		t.Errorf("renderText = %q, want %q", got, want)
	}
}

func TestLayout_BaselineJitterStaysOnRow(t *testing.T) {
	glyphs := []glyph{
		{x: 10, base: 99, w: 5, size: 10, s: "x"},
		{x: 0, base: 100, w: 5, size: 10, s: "a"},
		{x: 5, base: 100.5, w: 5, size: 10, s: "b"},
	}
	rows := layout(glyphs)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if got := rows[0].text(); got != "abx" {
		t.Errorf("row text = %q, want abx", got)
	}
}

func TestLayout_Words(t *testing.T) {
	rows := layout(page(
		run("Hello world", 0, 100, 10, 5),
		run("Q3", 0, 112, 10, 5),
	))
	words := flattenWords(rows)
	if len(words) != 3 {
		t.Fatalf("words = %+v", words)
	}
	want := []Word{
		{Box: geom.Rect{X0: 0, Y0: 92, X1: 25, Y1: 102}, Text: "Hello", Line: 0},
		{Box: geom.Rect{X0: 30, Y0: 92, X1: 55, Y1: 102}, Text: "world", Line: 0},
		{Box: geom.Rect{X0: 0, Y0: 104, X1: 10, Y1: 114}, Text: "Q3", Line: 1},
	}
	for i := range want {
		if words[i] != want[i] {
			t.Errorf("word %d = %+v, want %+v", i, words[i], want[i])
		}
	}
}

func TestLayout_GapSplitsWordsWithoutSpaceGlyph(t *testing.T) {
	rows := layout(page(run("ab", 0, 50, 10, 5), run("cd", 14, 50, 10, 5)))
	if got := rows[0].text(); got != "ab cd" {
		t.Errorf("text = %q, want %q", got, "ab cd")
	}
}

func TestLayout_Empty(t *testing.T) {
	if rows := layout(nil); len(rows) != 0 {
		t.Errorf("rows = %v", rows)
	}
	if got := renderText(layout(run("   ", 0, 10, 10, 5))); got != "" {
		t.Errorf("whitespace-only page = %q", got)
	}
}

func TestGlyphsIn(t *testing.T) {
	glyphs := page(run("Hello world", 0, 100, 10, 5), run("Q3", 0, 140, 10, 5))
	sel := glyphsIn(glyphs, geom.Rect{X0: 29, Y0: 90, X1: 60, Y1: 103})
	if got := renderText(layout(sel)); got != "world" {
		t.Errorf("selection = %q, want world", got)
	}
}
