// Package ocr recognizes text in rasterized pages with tesseract.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/joseph-ayodele/pdfcontext/internal/common"
	"github.com/joseph-ayodele/pdfcontext/internal/runner"
)

// reBoxNoise matches rule lines tesseract emits for table borders.
var reBoxNoise = regexp.MustCompile(`(?m)^\s*[_\-]{3,}\s*$`)

type Config struct {
	Tesseract   string // binary name or absolute path; if empty -> "tesseract"
	Lang        string // default "eng"
	TessdataDir string
	PSM         int // page segmentation mode, 6 = uniform block of text
	OEM         int // 3 = default engine
	// Confidence adds a TSV pass to compute mean word confidence.
	Confidence bool
}

type Result struct {
	Text       string
	Confidence float32 // 0..1; zero when not measured
}

// Engine runs tesseract on PNG page images. It is safe for concurrent use.
type Engine struct {
	cfg      Config
	runner   runner.Runner
	logger   *slog.Logger
	lookPath func(string) bool

	probe     sync.Once
	available bool
}

func NewEngine(cfg Config, r runner.Runner, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if r == nil {
		r = runner.NewExec(logger)
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	return &Engine{cfg: cfg, runner: r, logger: logger, lookPath: runner.LookPath}
}

// Available reports whether tesseract can be executed. The probe runs once.
func (e *Engine) Available() bool {
	e.probe.Do(func() {
		e.available = e.lookPath(e.cfg.Tesseract)
		if !e.available {
			e.logger.Warn("tesseract not found, ocr disabled", "binary", e.cfg.Tesseract)
		}
	})
	return e.available
}

// Recognize returns the text tesseract reads from a PNG image.
func (e *Engine) Recognize(ctx context.Context, png []byte) (Result, error) {
	if !e.Available() {
		return Result{}, fmt.Errorf("tesseract %q: %w", e.cfg.Tesseract, common.ErrCapabilityMissing)
	}
	if len(png) == 0 {
		return Result{}, fmt.Errorf("empty image: %w", common.ErrInvalidInput)
	}

	tmpDir, err := os.MkdirTemp("", "pdfctx-ocr-*")
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("failed to remove temp dir", "path", tmpDir, "error", err)
		}
	}()

	img := filepath.Join(tmpDir, "page.png")
	if err := os.WriteFile(img, png, 0o600); err != nil {
		return Result{}, err
	}

	// tesseract <img> stdout -l <lang> --psm N --oem N
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, e.args(img)...)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{}, fmt.Errorf("%w: tesseract: %v: %s", common.ErrOCRFailed, err, runner.Truncate(string(errb), 512))
	}

	res := Result{Text: CleanOutput(string(out))}
	if e.cfg.Confidence {
		conf, err := e.tsvConfidence(ctx, img)
		if err != nil {
			e.logger.Debug("tsv confidence unavailable", "error", err)
		} else {
			res.Confidence = conf
		}
	}
	return res, nil
}

func (e *Engine) args(img string, extra ...string) []string {
	args := []string{img, "stdout", "-l", e.cfg.Lang}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(e.cfg.PSM))
	}
	if e.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(e.cfg.OEM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	return append(args, extra...)
}

// tsvConfidence runs tesseract in TSV mode and returns mean word conf in 0..1.
func (e *Engine) tsvConfidence(ctx context.Context, img string) (float32, error) {
	out, _, err := e.runner.Run(ctx, e.cfg.Tesseract, e.args(img, "tsv")...)
	if err != nil {
		return 0, fmt.Errorf("tesseract tsv: %w", err)
	}
	return MeanConfidence(string(out)), nil
}

// MeanConfidence averages the conf column of tesseract TSV output, skipping
// the header and non-word rows (conf -1).
func MeanConfidence(tsv string) float32 {
	var sum, n float64
	for i, ln := range strings.Split(tsv, "\n") {
		if i == 0 || ln == "" {
			continue
		}
		cols := strings.Split(ln, "\t")
		if len(cols) < 12 {
			continue
		}
		confStr := cols[10]
		if confStr == "" || confStr == "-1" {
			continue
		}
		if v, err := strconv.ParseFloat(confStr, 64); err == nil && v >= 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float32(sum / n / 100.0)
}

// CleanOutput drops box-drawing rule lines and surrounding whitespace.
func CleanOutput(s string) string {
	return strings.TrimSpace(reBoxNoise.ReplaceAllString(s, ""))
}
