package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/joseph-ayodele/pdfcontext/internal/cache"
	"github.com/joseph-ayodele/pdfcontext/internal/common"
	"github.com/joseph-ayodele/pdfcontext/internal/core"
	"github.com/joseph-ayodele/pdfcontext/internal/export"
	"github.com/joseph-ayodele/pdfcontext/internal/ocr"
	"github.com/joseph-ayodele/pdfcontext/internal/runner"
)

// loadConfig reads the environment, overlays --config when given and
// applies command-line overrides.
func loadConfig(c *cli.Context) (*common.Config, error) {
	var (
		cfg *common.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = common.LoadConfigFile(path)
	} else {
		cfg = common.LoadConfig()
		err = cfg.Validate()
	}
	if err != nil {
		return nil, err
	}

	if c.Bool("no-visual-signals") {
		cfg.Extraction.VisualSignals = false
	}
	if c.Bool("no-ocr") {
		cfg.OCR.Enabled = false
	}
	if p := c.String("dump"); p != "" {
		cfg.Debug.TextDumpPath = p
	}
	if p := c.String("xlsx-out"); p != "" {
		cfg.Debug.XLSXPath = p
	}
	if p := c.String("json-out"); p != "" {
		cfg.Debug.JSONPath = p
	}
	return cfg, nil
}

// newLogger logs JSON to stderr so stdout carries only results.
func newLogger(cfg *common.Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	}))
	slog.SetDefault(logger)
	return logger
}

// withRequestID tags ctx with a fresh request ID.
func withRequestID(ctx context.Context) context.Context {
	return common.WithRequestID(ctx, uuid.NewString())
}

// sinksFor builds the debug sinks named in cfg.
func sinksFor(cfg common.DebugConfig) []export.Sink {
	var sinks []export.Sink
	if cfg.TextDumpPath != "" {
		sinks = append(sinks, export.TextSink{Path: cfg.TextDumpPath})
	}
	if cfg.XLSXPath != "" {
		sinks = append(sinks, export.XLSXSink{Path: cfg.XLSXPath})
	}
	if cfg.JSONPath != "" {
		sinks = append(sinks, export.JSONSink{Path: cfg.JSONPath})
	}
	return sinks
}

// newProcessor wires OCR, the optional cache and debug sinks. The returned
// cleanup closes the cache.
func newProcessor(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*core.Processor, func(), error) {
	var recognizer core.Recognizer
	if cfg.OCR.Enabled {
		recognizer = ocr.NewEngine(ocr.Config{
			Tesseract:   cfg.OCR.Tesseract,
			Lang:        cfg.OCR.Lang,
			TessdataDir: cfg.OCR.TessdataDir,
			PSM:         cfg.OCR.PSM,
			OEM:         cfg.OCR.OEM,
			Confidence:  cfg.OCR.Confidence,
		}, runner.NewExec(logger), logger)
	}

	store, err := cache.Open(ctx, cfg.Cache, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {}
	var bundles core.Cache
	if store != nil {
		bundles = store
		cleanup = func() {
			if err := store.Close(); err != nil {
				logger.Error("failed to close cache", "error", err)
			}
		}
	}

	p := core.NewProcessor(logger, core.OptionsFromConfig(cfg), recognizer, bundles, sinksFor(cfg.Debug)...)
	return p, cleanup, nil
}
