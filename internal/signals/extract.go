package signals

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"

	"github.com/joseph-ayodele/pdfcontext/constants"
	"github.com/joseph-ayodele/pdfcontext/internal/geom"
	"github.com/joseph-ayodele/pdfcontext/internal/pdfsource"
)

// MinWordOverlap is the share of a word's box an annotation must cover
// for the word to count as marked.
const MinWordOverlap = 0.20

// Page is the view of a PDF page the extractor needs.
type Page interface {
	Number() int
	Words() ([]pdfsource.Word, error)
	Annotations() ([]pdfsource.Annotation, error)
	Spans() ([]pdfsource.Span, error)
	TextInRect(r geom.Rect) (string, error)
}

// Extractor finds emphasis signals on a page from markup annotations and
// from bold or colored text.
type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract returns the raw (unmerged) signals of one page. Read failures
// drop the affected pass and are logged; they never fail the page.
func (e *Extractor) Extract(file string, page Page) []Signal {
	out := e.fromAnnotations(file, page)
	return append(out, e.fromStyles(file, page)...)
}

func (e *Extractor) fromAnnotations(file string, page Page) []Signal {
	annots, err := page.Annotations()
	if err != nil {
		e.logger.Debug("annotations unreadable", "file", file, "page", page.Number(), "error", err)
		return nil
	}
	if len(annots) == 0 {
		return nil
	}

	words, err := page.Words()
	if err != nil {
		e.logger.Debug("word boxes unreadable", "file", file, "page", page.Number(), "error", err)
		words = nil
	}

	var out []Signal
	for i, a := range annots {
		typ, ok := constants.SignalTypeForAnnotation(a.Subtype)
		if !ok {
			continue
		}
		if a.Err != nil || a.Rect.Empty() {
			e.logger.Debug("skipping malformed annotation",
				"file", file, "page", page.Number(), "index", i, "subtype", a.Subtype, "error", a.Err)
			continue
		}

		text := WordsUnder(words, a.Rect)
		if text == "" {
			text, err = page.TextInRect(a.Rect)
			if err != nil {
				e.logger.Debug("rect text unreadable", "file", file, "page", page.Number(), "index", i, "error", err)
				continue
			}
		}
		text = CleanText(text)
		if text == "" {
			continue
		}

		types := NewTypeSet(typ)
		out = append(out, Signal{
			File:   file,
			Page:   page.Number(),
			Text:   text,
			Types:  types,
			Score:  Score(text, types),
			Source: constants.SourceAnnotation,
		})
	}
	return out
}

func (e *Extractor) fromStyles(file string, page Page) []Signal {
	spans, err := page.Spans()
	if err != nil {
		e.logger.Debug("spans unreadable", "file", file, "page", page.Number(), "error", err)
		return nil
	}

	var out []Signal
	for _, s := range spans {
		var types TypeSet
		if s.Bold {
			types = types.Add(constants.Bold)
		}
		if s.Color != 0 {
			types = types.Add(constants.ColoredText)
		}
		if types.Empty() {
			continue
		}
		text := CleanText(s.Text)
		if text == "" || !LikelyImportant(text) {
			continue
		}
		out = append(out, Signal{
			File:   file,
			Page:   page.Number(),
			Text:   text,
			Types:  types,
			Score:  Score(text, types),
			Source: constants.SourceStyle,
		})
	}
	return out
}

// WordsUnder joins the words whose box is covered by region for at least
// MinWordOverlap of the word's area. Order is by text row (top to bottom),
// then x.
func WordsUnder(words []pdfsource.Word, region geom.Rect) string {
	var hit []pdfsource.Word
	for _, w := range words {
		if geom.OverlapRatio(w.Box, region) >= MinWordOverlap {
			hit = append(hit, w)
		}
	}
	slices.SortStableFunc(hit, func(a, b pdfsource.Word) int {
		if c := cmp.Compare(a.Line, b.Line); c != 0 {
			return c
		}
		return cmp.Compare(a.Box.X0, b.Box.X0)
	})

	parts := make([]string, 0, len(hit))
	for _, w := range hit {
		parts = append(parts, w.Text)
	}
	return strings.Join(parts, " ")
}
