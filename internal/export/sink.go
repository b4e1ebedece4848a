// Package export writes diagnostic copies of an extraction bundle: the
// combined text, a signal workbook and schema-checked JSON.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/pdfcontext/internal/extract"
)

// Sink receives the final bundle of a request. Sinks are best effort:
// callers log their errors and move on.
type Sink interface {
	Name() string
	Write(ctx context.Context, b extract.Bundle) error
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place, so readers never observe a partial file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// TextSink dumps the combined text.
type TextSink struct {
	Path string
}

func (s TextSink) Name() string { return "text" }

func (s TextSink) Write(ctx context.Context, b extract.Bundle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return writeFileAtomic(s.Path, []byte(b.Text))
}
