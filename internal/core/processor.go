package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/pdfcontext/constants"
	"github.com/joseph-ayodele/pdfcontext/internal/common"
	"github.com/joseph-ayodele/pdfcontext/internal/export"
	"github.com/joseph-ayodele/pdfcontext/internal/extract"
	"github.com/joseph-ayodele/pdfcontext/internal/ocr"
	"github.com/joseph-ayodele/pdfcontext/internal/pdfsource"
	"github.com/joseph-ayodele/pdfcontext/internal/quality"
	"github.com/joseph-ayodele/pdfcontext/internal/signals"
	"github.com/joseph-ayodele/pdfcontext/internal/textnorm"
)

// Recognizer is the OCR capability used for low-quality pages.
type Recognizer interface {
	Available() bool
	Recognize(ctx context.Context, png []byte) (ocr.Result, error)
}

// Cache stores finished document bundles by content key.
type Cache interface {
	Get(ctx context.Context, key string) (extract.Bundle, error)
	Put(ctx context.Context, key string, b extract.Bundle) error
}

// Processor coordinates page extraction (native text, OCR fallback, visual
// signals), denoising and assembly.
type Processor struct {
	logger     *slog.Logger
	opts       Options
	recognizer Recognizer
	cache      Cache
	sinks      []export.Sink
	extractor  *signals.Extractor
	openDoc    func([]byte) (document, error)
}

var _ extract.DocumentExtractor = (*Processor)(nil)

// NewProcessor wires a processor. recognizer and cache may be nil.
func NewProcessor(logger *slog.Logger, opts Options, recognizer Recognizer, cache Cache, sinks ...export.Sink) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	opts = opts.withDefaults()
	return &Processor{
		logger:     logger,
		opts:       opts,
		recognizer: recognizer,
		cache:      cache,
		sinks:      sinks,
		extractor:  signals.NewExtractor(logger),
		openDoc: openPDF(pdfsource.Options{
			Pdftoppm: opts.Pdftoppm,
			DPI:      opts.DPI,
			Logger:   logger,
		}),
	}
}

// CacheKey identifies a document's bundle under the processor's options.
func (p *Processor) CacheKey(filename string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(filename))
	h.Write([]byte{0})
	h.Write(data)
	h.Write([]byte{0})
	h.Write([]byte(p.opts.fingerprint()))
	return hex.EncodeToString(h.Sum(nil))
}

// ExtractDocument returns the bundle for one PDF. It never fails: unreadable
// input and cancellation both produce an empty bundle.
func (p *Processor) ExtractDocument(ctx context.Context, filename string, data []byte) extract.Bundle {
	logger := common.LoggerFor(ctx, p.logger).With("file", filename)
	start := time.Now()

	if p.opts.MaxFileBytes > 0 && int64(len(data)) > p.opts.MaxFileBytes {
		logger.Warn("pdf exceeds size limit, skipping", "bytes", len(data), "limit", p.opts.MaxFileBytes)
		return extract.Bundle{}
	}

	var key string
	if p.cache != nil {
		key = p.CacheKey(filename, data)
		b, err := p.cache.Get(ctx, key)
		switch {
		case err == nil:
			logger.Debug("bundle cache hit", "key", key)
			return b
		case !errors.Is(err, common.ErrCacheMiss):
			logger.Warn("bundle cache read failed", "error", err)
		}
	}

	pages, raw, err := p.extractPages(ctx, logger, filename, data)
	if err != nil {
		if ctx.Err() != nil {
			logger.Info("pdf extraction cancelled", "error", ctx.Err())
		} else {
			logger.Warn("failed to extract text from pdf", "error", err)
		}
		return extract.Bundle{}
	}

	bundle := AssembleDocument(pages, raw, p.opts.MaxSignals)
	if ctx.Err() != nil {
		return extract.Bundle{}
	}

	logger.Info("extracted pdf",
		"pages", len(pages),
		"chars", len(bundle.Text),
		"signals", len(bundle.Signals),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if p.cache != nil && !bundle.Empty() {
		if err := p.cache.Put(ctx, key, bundle); err != nil {
			logger.Warn("bundle cache write failed", "error", err)
		}
	}
	return bundle
}

func (p *Processor) extractPages(ctx context.Context, logger *slog.Logger, filename string, data []byte) ([]extract.Page, []signals.Signal, error) {
	doc, err := p.openDoc(data)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if err := doc.Close(); err != nil {
			logger.Warn("failed to release pdf", "error", err)
		}
	}()

	n := doc.NumPages()
	pages := make([]extract.Page, n)
	perPage := make([][]signals.Signal, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.PageWorkers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pages[i], perPage[i] = p.extractPage(gctx, logger, filename, doc, i+1)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var raw []signals.Signal
	for _, s := range perPage {
		raw = append(raw, s...)
	}
	return pages, raw, nil
}

func (p *Processor) extractPage(ctx context.Context, logger *slog.Logger, filename string, doc document, n int) (extract.Page, []signals.Signal) {
	pg := doc.Page(n)
	native, err := pg.NativeText()
	if err != nil {
		logger.Warn("native text unreadable", "page", n, "error", err)
		native = ""
	}

	text, method := native, constants.MethodNative
	if p.opts.OCR && quality.ShouldOCR(native) {
		if recognized, ok := p.ocrPage(ctx, logger, doc, n); ok {
			text, method = recognized, constants.MethodOCR
		}
	}

	var sigs []signals.Signal
	if p.opts.VisualSignals {
		sigs = p.extractor.Extract(filename, pg)
	}
	return extract.Page{Number: n, Method: method, Text: textnorm.Normalize(text)}, sigs
}

// ocrPage rasterizes and recognizes page n. ok is false whenever the native
// text should be kept instead.
func (p *Processor) ocrPage(ctx context.Context, logger *slog.Logger, doc document, n int) (string, bool) {
	if p.recognizer == nil || !p.recognizer.Available() || !doc.CanRasterize() {
		logger.Debug("ocr unavailable, keeping native text", "page", n)
		return "", false
	}

	octx, cancel := common.WithTimeout(ctx, p.opts.OCRTimeout)
	defer cancel()

	img, err := doc.Rasterize(octx, n)
	if err != nil {
		logger.Warn("rasterize failed, keeping native text", "page", n, "error", err)
		return "", false
	}
	res, err := p.recognizer.Recognize(octx, img)
	if err != nil {
		logger.Warn("ocr failed, keeping native text", "page", n, "error", err)
		return "", false
	}
	if strings.TrimSpace(res.Text) == "" {
		logger.Debug("ocr produced no text", "page", n)
		return "", false
	}
	logger.Debug("ocr page", "page", n, "chars", len(res.Text), "confidence", res.Confidence)
	return res.Text, true
}

// ExtractRequest extracts every attachment (in parallel, bounded by
// DocumentWorkers) and composes the request bundle. Debug sinks run after
// assembly; their failures are logged only.
func (p *Processor) ExtractRequest(ctx context.Context, req extract.Request) extract.Bundle {
	logger := common.LoggerFor(ctx, p.logger)

	docs := make([]NamedBundle, len(req.Attachments))
	var g errgroup.Group
	g.SetLimit(p.opts.DocumentWorkers)
	for i, a := range req.Attachments {
		i, a := i, a
		docs[i].Filename = a.Filename
		g.Go(func() error {
			docs[i].Bundle = p.ExtractDocument(ctx, a.Filename, a.Data)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		logger.Info("request cancelled", "error", err)
		return extract.Bundle{}
	}

	out := AssembleRequest(req.LegacyText, docs, p.opts.MaxSignals)
	logger.Info("assembled request",
		"documents", len(req.Attachments),
		"chars", len(out.Text),
		"signals", len(out.Signals),
	)
	if !out.Empty() {
		p.runSinks(ctx, logger, out)
	}
	return out
}

func (p *Processor) runSinks(ctx context.Context, logger *slog.Logger, b extract.Bundle) {
	for _, s := range p.sinks {
		if err := s.Write(ctx, b); err != nil {
			logger.Warn("debug sink failed", "sink", s.Name(), "error", err)
			continue
		}
		logger.Debug("debug sink written", "sink", s.Name())
	}
}
