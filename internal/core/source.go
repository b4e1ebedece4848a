package core

import (
	"context"

	"github.com/joseph-ayodele/pdfcontext/internal/pdfsource"
	"github.com/joseph-ayodele/pdfcontext/internal/signals"
)

// page is what the processor reads from one PDF page.
type page interface {
	signals.Page
	NativeText() (string, error)
}

// document is an opened PDF.
type document interface {
	NumPages() int
	Page(n int) page
	CanRasterize() bool
	Rasterize(ctx context.Context, n int) ([]byte, error)
	Close() error
}

type pdfDocument struct {
	*pdfsource.Document
}

func (d pdfDocument) Page(n int) page { return d.Document.Page(n) }

func openPDF(opts pdfsource.Options) func([]byte) (document, error) {
	return func(data []byte) (document, error) {
		doc, err := pdfsource.Open(data, opts)
		if err != nil {
			return nil, err
		}
		return pdfDocument{doc}, nil
	}
}
