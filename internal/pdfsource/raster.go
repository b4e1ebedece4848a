package pdfsource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joseph-ayodele/pdfcontext/internal/common"
	"github.com/joseph-ayodele/pdfcontext/internal/runner"
)

// CanRasterize reports whether pdftoppm is installed. The probe runs once.
func (d *Document) CanRasterize() bool {
	d.probe.Do(func() {
		d.canRaster = d.opts.lookPath(d.opts.Pdftoppm)
		if !d.canRaster {
			d.logger.Warn("pdftoppm not found, rasterization disabled", "binary", d.opts.Pdftoppm)
		}
	})
	return d.canRaster
}

// Rasterize renders page n to a grayscale PNG at the configured DPI.
func (d *Document) Rasterize(ctx context.Context, n int) ([]byte, error) {
	if !d.CanRasterize() {
		return nil, fmt.Errorf("pdftoppm %q: %w", d.opts.Pdftoppm, common.ErrCapabilityMissing)
	}
	if n < 1 || n > d.pages {
		return nil, fmt.Errorf("page %d out of range 1..%d: %w", n, d.pages, common.ErrInvalidInput)
	}
	src, err := d.sourcePath()
	if err != nil {
		return nil, fmt.Errorf("stage pdf: %w", err)
	}

	tmpDir, err := os.MkdirTemp("", "pdfctx-pp-*")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			d.logger.Warn("failed to remove temp dir", "path", tmpDir, "error", err)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	page := strconv.Itoa(n)
	// pdftoppm -f N -l N -r DPI -gray -png -singlefile <in.pdf> <tmp/page>
	_, errb, err := d.opts.Runner.Run(ctx, d.opts.Pdftoppm,
		"-f", page, "-l", page,
		"-r", strconv.Itoa(d.opts.DPI),
		"-gray", "-png", "-singlefile",
		src, prefix,
	)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("pdftoppm page %d: %w: %s", n, err, runner.Truncate(string(errb), 512))
	}

	img, err := os.ReadFile(prefix + ".png")
	if err != nil {
		return nil, fmt.Errorf("pdftoppm produced no image for page %d: %w", n, err)
	}
	return img, nil
}
