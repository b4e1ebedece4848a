package core

import (
	"context"
	"fmt"

	"github.com/joseph-ayodele/pdfcontext/internal/quality"
)

// PageQuality reports the native-text metrics of one page.
type PageQuality struct {
	Number    int
	Metrics   quality.Metrics
	ShouldOCR bool
	Err       error
}

// Classify measures each page's native text without running OCR.
func (p *Processor) Classify(ctx context.Context, data []byte) ([]PageQuality, error) {
	doc, err := p.openDoc(data)
	if err != nil {
		return nil, err
	}
	defer func() { _ = doc.Close() }()

	out := make([]PageQuality, 0, doc.NumPages())
	for n := 1; n <= doc.NumPages(); n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := doc.Page(n).NativeText()
		if err != nil {
			err = fmt.Errorf("page %d: %w", n, err)
		}
		m := quality.Measure(text)
		out = append(out, PageQuality{Number: n, Metrics: m, ShouldOCR: m.ShouldOCR(), Err: err})
	}
	return out, nil
}
