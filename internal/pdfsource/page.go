package pdfsource

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ledongthuc/pdf"

	"github.com/joseph-ayodele/pdfcontext/internal/common"
	"github.com/joseph-ayodele/pdfcontext/internal/geom"
)

// maxTreeDepth bounds the /Parent walk for inherited page attributes.
const maxTreeDepth = 32

// Page is one page of a Document. Glyph layout is computed on first use.
type Page struct {
	doc *Document
	num int

	once   sync.Once
	glyphs []glyph
	rows   []row
	media  geom.Rect // original MediaBox in PDF space
	err    error
}

func (p *Page) Number() int { return p.num }

func (p *Page) load() error {
	p.once.Do(func() {
		p.err = p.doc.withReader(fmt.Sprintf("page %d", p.num), func(r *pdf.Reader) error {
			if p.num < 1 || p.num > p.doc.pages {
				return fmt.Errorf("page %d out of range: %w", p.num, common.ErrInvalidInput)
			}
			pg := r.Page(p.num)
			if pg.V.IsNull() {
				return fmt.Errorf("page %d missing: %w", p.num, common.ErrMalformedInput)
			}
			p.media = mediaBox(pg.V)
			for _, t := range pg.Content().Text {
				p.glyphs = append(p.glyphs, p.toGlyph(t))
			}
			return nil
		})
		if p.err == nil {
			p.rows = layout(p.glyphs)
		}
	})
	return p.err
}

func (p *Page) toGlyph(t pdf.Text) glyph {
	return glyph{
		x:    t.X - p.media.X0,
		base: p.media.Y1 - t.Y,
		w:    t.W,
		size: t.FontSize,
		s:    t.S,
	}
}

// flip converts a rectangle from PDF space (bottom-left origin) to page
// space (top-left origin).
func (p *Page) flip(r geom.Rect) geom.Rect {
	return geom.NewRect(r.X0-p.media.X0, p.media.Y1-r.Y0, r.X1-p.media.X0, p.media.Y1-r.Y1)
}

// NativeText rebuilds the page text from its glyph positions.
func (p *Page) NativeText() (string, error) {
	if err := p.load(); err != nil {
		return "", err
	}
	return renderText(p.rows), nil
}

// Words returns the page's words in reading order.
func (p *Page) Words() ([]Word, error) {
	if err := p.load(); err != nil {
		return nil, err
	}
	return flattenWords(p.rows), nil
}

// TextInRect returns the text of glyphs touching r (page space).
func (p *Page) TextInRect(r geom.Rect) (string, error) {
	if err := p.load(); err != nil {
		return "", err
	}
	rows := layout(glyphsIn(p.glyphs, r))
	lines := make([]string, 0, len(rows))
	for _, rw := range rows {
		lines = append(lines, rw.text())
	}
	return strings.Join(lines, " "), nil
}

// Annotations lists the page's annotations. An unreadable entry is
// reported with Err set instead of failing the whole list.
func (p *Page) Annotations() ([]Annotation, error) {
	if err := p.load(); err != nil {
		return nil, err
	}
	var out []Annotation
	err := p.doc.withReader(fmt.Sprintf("page %d annotations", p.num), func(r *pdf.Reader) error {
		annots := r.Page(p.num).V.Key("Annots")
		if annots.Kind() != pdf.Array {
			return nil
		}
		for i := 0; i < annots.Len(); i++ {
			out = append(out, p.readAnnotation(annots, i))
		}
		return nil
	})
	return out, err
}

func (p *Page) readAnnotation(annots pdf.Value, i int) (a Annotation) {
	defer func() {
		if r := recover(); r != nil {
			a.Err = common.Recovered(fmt.Sprintf("annotation %d", i), r)
		}
	}()
	v := annots.Index(i)
	a.Subtype = v.Key("Subtype").Name()
	rect, ok := rectOf(v.Key("Rect"))
	if !ok {
		a.Err = fmt.Errorf("annotation %d: bad /Rect: %w", i, common.ErrMalformedInput)
		return a
	}
	a.Rect = p.flip(rect)
	return a
}

// Spans returns text runs with their font and fill color.
func (p *Page) Spans() ([]Span, error) {
	if err := p.load(); err != nil {
		return nil, err
	}
	var spans []Span
	err := p.doc.withReader(fmt.Sprintf("page %d spans", p.num), func(r *pdf.Reader) error {
		spans = collectSpans(r.Page(p.num))
		return nil
	})
	return spans, err
}

func rectOf(v pdf.Value) (geom.Rect, bool) {
	if v.Kind() != pdf.Array || v.Len() < 4 {
		return geom.Rect{}, false
	}
	var n [4]float64
	for i := range n {
		e := v.Index(i)
		if e.Kind() != pdf.Integer && e.Kind() != pdf.Real {
			return geom.Rect{}, false
		}
		n[i] = e.Float64()
	}
	return geom.NewRect(n[0], n[1], n[2], n[3]), true
}

// mediaBox resolves the page's MediaBox, inheriting through /Parent, and
// falls back to US Letter.
func mediaBox(page pdf.Value) geom.Rect {
	v := page
	for depth := 0; depth < maxTreeDepth && !v.IsNull(); depth++ {
		if r, ok := rectOf(v.Key("MediaBox")); ok && !r.Empty() {
			return r
		}
		v = v.Key("Parent")
	}
	return geom.Rect{X0: 0, Y0: 0, X1: 612, Y1: 792}
}
