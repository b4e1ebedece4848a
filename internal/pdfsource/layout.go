package pdfsource

import (
	"cmp"
	"slices"
	"strings"

	"github.com/joseph-ayodele/pdfcontext/internal/geom"
)

// Layout tuning, in multiples of the font size.
const (
	rowTolerance   = 0.5  // baseline drift still counted as the same row
	wordGap        = 0.25 // horizontal gap that splits two words
	columnGap      = 1.5  // gap rendered as a double space (table columns)
	paragraphGap   = 1.8  // baseline distance that starts a new paragraph
	ascentFraction = 0.8
)

// glyph is one decoded character in top-left page space; base is the
// baseline y measured from the top edge.
type glyph struct {
	x, base, w, size float64
	s                string
}

func (g glyph) box() geom.Rect {
	size := max(g.size, 1)
	return geom.Rect{
		X0: g.x,
		Y0: g.base - ascentFraction*size,
		X1: g.x + max(g.w, 0),
		Y1: g.base + (1-ascentFraction)*size,
	}
}

type row struct {
	base  float64
	size  float64
	words []Word
	gaps  []float64 // gap before each word; gaps[0] is unused
}

// layout groups glyphs into rows (top to bottom) and words (left to right).
func layout(glyphs []glyph) []row {
	gs := make([]glyph, 0, len(glyphs))
	for _, g := range glyphs {
		if g.s != "" {
			gs = append(gs, g)
		}
	}
	slices.SortStableFunc(gs, func(a, b glyph) int {
		if c := cmp.Compare(a.base, b.base); c != 0 {
			return c
		}
		return cmp.Compare(a.x, b.x)
	})

	var groups [][]glyph
	var groupBase, groupSize float64
	for _, g := range gs {
		if len(groups) == 0 || g.base-groupBase > rowTolerance*max(groupSize, g.size, 1) {
			groups = append(groups, nil)
			groupBase, groupSize = g.base, g.size
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], g)
		groupSize = max(groupSize, g.size)
	}

	rows := make([]row, 0, len(groups))
	for _, grp := range groups {
		slices.SortStableFunc(grp, func(a, b glyph) int { return cmp.Compare(a.x, b.x) })
		r := row{base: grp[0].base}
		for _, g := range grp {
			r.size = max(r.size, g.size)
		}
		r.words, r.gaps = splitWords(grp, len(rows))
		if len(r.words) > 0 {
			rows = append(rows, r)
		}
	}
	// Line indexes must be dense after empty rows were dropped.
	for i := range rows {
		for j := range rows[i].words {
			rows[i].words[j].Line = i
		}
	}
	return rows
}

func splitWords(grp []glyph, line int) ([]Word, []float64) {
	var (
		words []Word
		gaps  []float64
		cur   strings.Builder
		box   geom.Rect
		prevX float64
		open  bool
	)
	flush := func() {
		if open {
			words = append(words, Word{Box: box, Text: cur.String(), Line: line})
			cur.Reset()
			open = false
		}
	}

	for _, g := range grp {
		if strings.TrimSpace(g.s) == "" {
			flush()
			continue
		}
		if open && g.x-prevX > wordGap*max(g.size, 1) {
			flush()
		}
		if !open {
			gap := 0.0
			if len(words) > 0 {
				gap = g.x - words[len(words)-1].Box.X1
			}
			gaps = append(gaps, gap)
			box = g.box()
			open = true
		} else {
			box = box.Union(g.box())
		}
		cur.WriteString(g.s)
		prevX = g.x + max(g.w, 0)
	}
	flush()
	return words, gaps
}

func (r row) text() string {
	var b strings.Builder
	for i, w := range r.words {
		if i > 0 {
			if r.gaps[i] > columnGap*max(r.size, 1) {
				b.WriteString("  ")
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteString(w.Text)
	}
	return b.String()
}

// renderText turns rows into page text, inserting a blank line where the
// vertical distance between baselines indicates a paragraph break.
func renderText(rows []row) string {
	lines := make([]string, 0, len(rows))
	for i, r := range rows {
		if i > 0 {
			prev := rows[i-1]
			if r.base-prev.base > paragraphGap*max(prev.size, r.size, 1) {
				lines = append(lines, "")
			}
		}
		lines = append(lines, r.text())
	}
	return strings.Join(lines, "\n")
}

func flattenWords(rows []row) []Word {
	var out []Word
	for _, r := range rows {
		out = append(out, r.words...)
	}
	return out
}

// glyphsIn keeps glyphs whose box touches region.
func glyphsIn(glyphs []glyph, region geom.Rect) []glyph {
	var out []glyph
	for _, g := range glyphs {
		if !g.box().Intersect(region).Empty() {
			out = append(out, g)
		}
	}
	return out
}
