package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joseph-ayodele/pdfcontext/internal/common"
	"github.com/joseph-ayodele/pdfcontext/internal/export"
	"github.com/joseph-ayodele/pdfcontext/internal/extract"
	"github.com/joseph-ayodele/pdfcontext/internal/geom"
	"github.com/joseph-ayodele/pdfcontext/internal/ocr"
	"github.com/joseph-ayodele/pdfcontext/internal/pdfsource"
)

type fakePage struct {
	num       int
	native    string
	nativeErr error
	annots    []pdfsource.Annotation
	words     []pdfsource.Word
	spans     []pdfsource.Span
	delay     time.Duration
}

func (p *fakePage) Number() int { return p.num }
func (p *fakePage) NativeText() (string, error) {
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	return p.native, p.nativeErr
}
func (p *fakePage) Words() ([]pdfsource.Word, error)             { return p.words, nil }
func (p *fakePage) Annotations() ([]pdfsource.Annotation, error) { return p.annots, nil }
func (p *fakePage) Spans() ([]pdfsource.Span, error)             { return p.spans, nil }
func (p *fakePage) TextInRect(geom.Rect) (string, error)         { return "", nil }

type fakeDoc struct {
	pages     []*fakePage
	raster    bool
	rasterErr error
	closed    atomic.Bool
}

func (d *fakeDoc) NumPages() int      { return len(d.pages) }
func (d *fakeDoc) Page(n int) page    { return d.pages[n-1] }
func (d *fakeDoc) CanRasterize() bool { return d.raster }
func (d *fakeDoc) Rasterize(ctx context.Context, n int) ([]byte, error) {
	if d.rasterErr != nil {
		return nil, d.rasterErr
	}
	return []byte("png"), ctx.Err()
}
func (d *fakeDoc) Close() error { d.closed.Store(true); return nil }

func docOf(natives ...string) *fakeDoc {
	d := &fakeDoc{raster: true}
	for i, n := range natives {
		d.pages = append(d.pages, &fakePage{num: i + 1, native: n})
	}
	return d
}

type fakeOCR struct {
	available bool
	text      string
	err       error
	block     bool // wait for ctx to end
	calls     atomic.Int32
}

func (o *fakeOCR) Available() bool { return o.available }
func (o *fakeOCR) Recognize(ctx context.Context, _ []byte) (ocr.Result, error) {
	o.calls.Add(1)
	if o.block {
		<-ctx.Done()
		return ocr.Result{}, ctx.Err()
	}
	return ocr.Result{Text: o.text}, o.err
}

type memCache struct {
	mu   sync.Mutex
	data map[string]extract.Bundle
	gets int
	puts int
}

func newMemCache() *memCache { return &memCache{data: make(map[string]extract.Bundle)} }

func (c *memCache) Get(_ context.Context, key string) (extract.Bundle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	b, ok := c.data[key]
	if !ok {
		return extract.Bundle{}, common.ErrCacheMiss
	}
	return b, nil
}

func (c *memCache) Put(_ context.Context, key string, b extract.Bundle) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.puts++
	c.data[key] = b
	return nil
}

type recordingSink struct {
	name string
	err  error
	got  []extract.Bundle
}

func (s *recordingSink) Name() string { return s.name }
func (s *recordingSink) Write(_ context.Context, b extract.Bundle) error {
	s.got = append(s.got, b)
	return s.err
}

var errBoom = errors.New("boom")

// newTestProcessor returns a processor whose documents come from docs,
// keyed by the raw bytes passed to ExtractDocument.
func newTestProcessor(opts Options, rec Recognizer, cache Cache, docs map[string]*fakeDoc, sinks ...*recordingSink) *Processor {
	var ss []export.Sink
	for _, s := range sinks {
		ss = append(ss, s)
	}
	p := NewProcessor(nil, opts, rec, cache, ss...)
	p.openDoc = func(data []byte) (document, error) {
		d, ok := docs[string(data)]
		if !ok {
			return nil, common.ErrMalformedInput
		}
		return d, nil
	}
	return p
}
