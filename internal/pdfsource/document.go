// Package pdfsource reads pages of a PDF: native text, word boxes,
// markup annotations and styled text runs. Rasterization for OCR is
// delegated to pdftoppm.
package pdfsource

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/ledongthuc/pdf"

	"github.com/joseph-ayodele/pdfcontext/internal/common"
	"github.com/joseph-ayodele/pdfcontext/internal/runner"
)

type Options struct {
	Pdftoppm string // binary name or absolute path; if empty -> "pdftoppm"
	DPI      int    // default 240
	Runner   runner.Runner
	Logger   *slog.Logger

	lookPath func(string) bool
}

// Document is an opened PDF. Pages may be read from several goroutines;
// access to the underlying parser is serialized.
type Document struct {
	mu     sync.Mutex
	reader *pdf.Reader
	data   []byte
	pages  int
	opts   Options
	logger *slog.Logger

	probe     sync.Once
	canRaster bool

	spill    sync.Once
	spillDir string
	spillErr error
}

// Open parses data as a PDF. Malformed input yields an error wrapping
// common.ErrMalformedInput.
func Open(data []byte, opts Options) (doc *Document, err error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty document: %w", common.ErrInvalidInput)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Runner == nil {
		opts.Runner = runner.NewExec(opts.Logger)
	}
	if opts.Pdftoppm == "" {
		opts.Pdftoppm = "pdftoppm"
	}
	if opts.DPI <= 0 {
		opts.DPI = 240
	}
	if opts.lookPath == nil {
		opts.lookPath = runner.LookPath
	}

	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, common.Recovered("open pdf", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w: %w", common.ErrMalformedInput, err)
	}
	return &Document{
		reader: reader,
		data:   data,
		pages:  reader.NumPage(),
		opts:   opts,
		logger: opts.Logger,
	}, nil
}

func (d *Document) NumPages() int { return d.pages }

// Page returns page n (1-based). Content is loaded lazily.
func (d *Document) Page(n int) *Page {
	return &Page{doc: d, num: n}
}

// withReader runs fn under the parser lock, converting parser panics into
// ErrMalformedInput.
func (d *Document) withReader(what string, fn func(r *pdf.Reader) error) (err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			err = common.Recovered(what, r)
		}
	}()
	return fn(d.reader)
}

// Close removes temporary files created for rasterization.
func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.spillDir == "" {
		return nil
	}
	err := os.RemoveAll(d.spillDir)
	d.spillDir = ""
	return err
}

// sourcePath writes the document bytes to a temp file once, for tools that
// need a path.
func (d *Document) sourcePath() (string, error) {
	d.spill.Do(func() {
		dir, err := os.MkdirTemp("", "pdfctx-src-*")
		if err != nil {
			d.spillErr = err
			return
		}
		path := filepath.Join(dir, "source.pdf")
		if err := os.WriteFile(path, d.data, 0o600); err != nil {
			_ = os.RemoveAll(dir)
			d.spillErr = err
			return
		}
		d.mu.Lock()
		d.spillDir = dir
		d.mu.Unlock()
	})
	if d.spillErr != nil {
		return "", d.spillErr
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.spillDir == "" {
		return "", fmt.Errorf("document closed")
	}
	return filepath.Join(d.spillDir, "source.pdf"), nil
}
