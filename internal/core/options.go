package core

import (
	"fmt"
	"time"

	"github.com/joseph-ayodele/pdfcontext/internal/common"
	"github.com/joseph-ayodele/pdfcontext/internal/signals"
)

// Options control one Processor. Build them with OptionsFromConfig; the
// pipeline itself never reads the environment.
type Options struct {
	VisualSignals   bool
	OCR             bool
	PageWorkers     int
	DocumentWorkers int
	OCRTimeout      time.Duration // per page; zero means no timeout
	MaxSignals      int
	MaxFileBytes    int64 // zero means unlimited

	Pdftoppm string
	DPI      int
}

func OptionsFromConfig(cfg *common.Config) Options {
	return Options{
		VisualSignals:   cfg.Extraction.VisualSignals,
		OCR:             cfg.OCR.Enabled,
		PageWorkers:     cfg.Extraction.PageWorkers,
		DocumentWorkers: cfg.Extraction.DocumentWorkers,
		OCRTimeout:      cfg.Extraction.OCRTimeout,
		MaxSignals:      cfg.Extraction.MaxSignals,
		MaxFileBytes:    cfg.Extraction.MaxFileBytes(),
		Pdftoppm:        cfg.OCR.Pdftoppm,
		DPI:             cfg.OCR.DPI,
	}
}

func (o Options) withDefaults() Options {
	if o.PageWorkers <= 0 {
		o.PageWorkers = 1
	}
	if o.DocumentWorkers <= 0 {
		o.DocumentWorkers = 1
	}
	if o.MaxSignals <= 0 {
		o.MaxSignals = signals.DefaultLimit
	}
	return o
}

// fingerprint lists the options that change a document's bundle.
func (o Options) fingerprint() string {
	return fmt.Sprintf("signals=%t;ocr=%t;dpi=%d;max=%d", o.VisualSignals, o.OCR, o.DPI, o.MaxSignals)
}
