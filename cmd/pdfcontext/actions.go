package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/joseph-ayodele/pdfcontext/internal/cache"
	"github.com/joseph-ayodele/pdfcontext/internal/core"
	"github.com/joseph-ayodele/pdfcontext/internal/extract"
	"github.com/joseph-ayodele/pdfcontext/internal/ingest"
	"github.com/joseph-ayodele/pdfcontext/internal/signals"
)

// ExtractAction runs the full pipeline over the given files, --dir and
// --attachments, then prints the combined text and a signal table.
func ExtractAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	ctx := withRequestID(c.Context)

	collector := ingest.NewCollector(cfg.Extraction.MaxFileBytes(), logger)
	atts, _, stats := collector.CollectPaths(c.Args().Slice())
	if dir := c.String("dir"); dir != "" {
		more, _, dirStats, err := collector.CollectDirectory(dir, !c.Bool("include-hidden"))
		if err != nil {
			return fmt.Errorf("collect %s: %w", dir, err)
		}
		atts = append(atts, more...)
		stats.Scanned += dirStats.Scanned
		stats.Matched += dirStats.Matched
		stats.Succeeded += dirStats.Succeeded
		stats.Deduplicated += dirStats.Deduplicated
		stats.Failed += dirStats.Failed
	}
	if path := c.String("attachments"); path != "" {
		decoded, err := readEncodedAttachments(path)
		if err != nil {
			return err
		}
		atts = append(atts, extract.DecodeAttachments(decoded, logger)...)
	}

	req := extract.Request{LegacyText: c.String("legacy-text"), Attachments: atts}
	if len(req.Attachments) == 0 && req.LegacyText == "" {
		return errors.New("nothing to extract: pass PDF files, --dir, --attachments or --legacy-text")
	}
	logger.Info("collected attachments",
		"attachments", len(atts),
		"matched", stats.Matched,
		"failed", stats.Failed,
		"deduplicated", stats.Deduplicated,
	)

	p, cleanup, err := newProcessor(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	start := time.Now()
	bundle := p.ExtractRequest(ctx, req)
	if err := ctx.Err(); err != nil {
		return err
	}
	logger.Info("extraction finished", "duration_ms", time.Since(start).Milliseconds())

	out := c.App.Writer
	fmt.Fprintln(out, bundle.Text)
	if !c.Bool("quiet") {
		writeSignalTable(out, bundle.Signals)
	}
	return nil
}

func readEncodedAttachments(path string) ([]extract.EncodedAttachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read attachments: %w", err)
	}
	var encoded []extract.EncodedAttachment
	if err := json.Unmarshal(data, &encoded); err != nil {
		return nil, fmt.Errorf("parse attachments %s: %w", path, err)
	}
	return encoded, nil
}

// writeSignalTable prints ranked signals as fixed-width columns.
func writeSignalTable(w io.Writer, sigs []signals.Signal) {
	if len(sigs) == 0 {
		fmt.Fprintln(w, "\nNo visual signals")
		return
	}
	fmt.Fprintf(w, "\n%-4s %-24s %-5s %-6s %-8s %-26s %s\n",
		"#", "File", "Page", "Score", "Level", "Types", "Text")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for i, s := range sigs {
		fmt.Fprintf(w, "%-4d %-24s %-5d %-6.3g %-8s %-26s %s\n",
			i+1, clip(s.File, 24), s.Page, s.Score, s.Significance(), s.Types, s.Text)
	}
	fmt.Fprintf(w, "\nTotal: %d signals\n", len(sigs))
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}

// ClassifyAction prints per-page quality metrics without running OCR.
func ClassifyAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("classify needs at least one PDF file")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	ctx := withRequestID(c.Context)

	p := core.NewProcessor(logger, core.OptionsFromConfig(cfg), nil, nil)
	collector := ingest.NewCollector(cfg.Extraction.MaxFileBytes(), logger)
	out := c.App.Writer

	for _, path := range c.Args().Slice() {
		att, res, err := collector.ReadFile(path)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", path, err)
			continue
		}
		if res.Deduplicated {
			continue
		}
		pages, err := p.Classify(ctx, att.Data)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", path, err)
			continue
		}
		writeQualityTable(out, att.Filename, pages)
	}
	return nil
}

func writeQualityTable(w io.Writer, name string, pages []core.PageQuality) {
	fmt.Fprintf(w, "%s (%d pages)\n", name, len(pages))
	fmt.Fprintf(w, "%-5s %-7s %-6s %-6s %-6s %s\n", "Page", "Chars", "Words", "Alnum", "Symbol", "OCR")
	for _, pq := range pages {
		decision := "no"
		if pq.ShouldOCR {
			decision = "yes"
		}
		if pq.Err != nil {
			decision += " (" + pq.Err.Error() + ")"
		}
		fmt.Fprintf(w, "%-5d %-7d %-6d %-6.2f %-6.2f %s\n",
			pq.Number, pq.Metrics.Chars, pq.Metrics.Words, pq.Metrics.AlnumRatio, pq.Metrics.SymbolRatio, decision)
	}
	fmt.Fprintln(w)
}

// CachePingAction opens the configured cache and pings it.
func CachePingAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	if cfg.Cache.Driver == "" {
		return errors.New("no cache configured: set CACHE_DRIVER and CACHE_DSN")
	}

	store, err := cache.Open(c.Context, cfg.Cache, logger)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close cache", "error", err)
		}
	}()

	if err := store.Ping(c.Context); err != nil {
		return fmt.Errorf("cache health: FAIL (%w)", err)
	}
	fmt.Fprintf(c.App.Writer, "cache health: OK (%s)\n", cfg.Cache.Driver)
	return nil
}
