package pdfsource

import (
	"github.com/joseph-ayodele/pdfcontext/internal/geom"
)

// Word is a run of glyphs between whitespace on one text line.
type Word struct {
	Box  geom.Rect
	Text string
	Line int // index of the text row the word sits on, top to bottom
}

// Annotation is a page annotation with its subtype (e.g. "Highlight").
// Err is set when the annotation dictionary could not be read; callers
// skip such entries.
type Annotation struct {
	Subtype string
	Rect    geom.Rect
	Err     error
}

// Span is a run of text on one line drawn with a single font and fill color.
type Span struct {
	Text  string
	Font  string
	Size  float64
	Bold  bool
	Color int // packed 0xRRGGBB; 0 is the default black
}
