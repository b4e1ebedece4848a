package core

import (
	"fmt"
	"strings"

	"github.com/joseph-ayodele/pdfcontext/constants"
	"github.com/joseph-ayodele/pdfcontext/internal/denoise"
	"github.com/joseph-ayodele/pdfcontext/internal/extract"
	"github.com/joseph-ayodele/pdfcontext/internal/signals"
)

// PageMarker is the header line that precedes each page's text.
func PageMarker(number int, method constants.Method) string {
	return fmt.Sprintf("--- Page %d (%s) ---", number, method)
}

// FileMarker is the header line that precedes each document's text.
func FileMarker(filename string) string {
	return fmt.Sprintf("--- File: %s ---", filename)
}

// AssembleDocument denoises normalized pages (given in page order) and
// joins them under page markers. Signals are merged and capped at limit.
func AssembleDocument(pages []extract.Page, raw []signals.Signal, limit int) extract.Bundle {
	if len(pages) == 0 {
		return extract.Bundle{Signals: signals.Merge(raw, limit)}
	}

	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = p.Text
	}
	cleaned := denoise.Strip(texts)

	parts := make([]string, 0, 2*len(pages))
	for i, p := range pages {
		parts = append(parts, PageMarker(p.Number, p.Method))
		if cleaned[i] != "" {
			parts = append(parts, cleaned[i])
		} else {
			parts = append(parts, constants.NoTextPlaceholder)
		}
	}

	return extract.Bundle{
		Text:    strings.TrimSpace(strings.Join(parts, "\n")),
		Signals: signals.Merge(raw, limit),
	}
}

// NamedBundle pairs a document bundle with its filename.
type NamedBundle struct {
	Filename string
	Bundle   extract.Bundle
}

// AssembleRequest puts legacy text first, then each document that produced
// text under its file marker. Signals from all documents are re-merged and
// capped at limit.
func AssembleRequest(legacyText string, docs []NamedBundle, limit int) extract.Bundle {
	var parts []string
	if legacyText != "" {
		parts = append(parts, legacyText)
	}
	var all []signals.Signal
	for _, d := range docs {
		if d.Bundle.Text != "" {
			parts = append(parts, FileMarker(d.Filename)+"\n"+d.Bundle.Text)
		}
		all = append(all, d.Bundle.Signals...)
	}
	return extract.Bundle{
		Text:    strings.Join(parts, "\n\n"),
		Signals: signals.Merge(all, limit),
	}
}
