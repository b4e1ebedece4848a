// Package ingest gathers PDF files from disk into request attachments.
package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/pdfcontext/constants"
	"github.com/joseph-ayodele/pdfcontext/internal/common"
	"github.com/joseph-ayodele/pdfcontext/internal/extract"
)

// FileResult is the per-file collection outcome.
type FileResult struct {
	Path         string
	Bytes        int
	HashHex      string
	Deduplicated bool
	Err          string
}

// DirStats summarizes a collection run.
type DirStats struct {
	Scanned      uint32
	Matched      uint32
	Succeeded    uint32
	Deduplicated uint32
	Failed       uint32
}

// Collector reads PDFs from the local filesystem. Files with identical
// content are attached once.
type Collector struct {
	MaxBytes int64 // zero means unlimited
	logger   *slog.Logger
	seen     map[string]struct{}
}

func NewCollector(maxBytes int64, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{MaxBytes: maxBytes, logger: logger, seen: make(map[string]struct{})}
}

// ReadFile loads one PDF. The attachment is named after the file's base name.
func (c *Collector) ReadFile(path string) (extract.Attachment, FileResult, error) {
	res := FileResult{Path: path}

	if !AllowedExt(filepath.Ext(path)) {
		return extract.Attachment{}, res, fmt.Errorf("%w: unsupported extension %q", common.ErrInvalidInput, filepath.Ext(path))
	}
	info, err := os.Stat(path)
	if err != nil {
		return extract.Attachment{}, res, err
	}
	if info.IsDir() {
		return extract.Attachment{}, res, fmt.Errorf("%w: %s is a directory", common.ErrInvalidInput, path)
	}
	if c.MaxBytes > 0 && info.Size() > c.MaxBytes {
		return extract.Attachment{}, res, fmt.Errorf("%w: %s exceeds %d bytes", common.ErrInvalidInput, path, c.MaxBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return extract.Attachment{}, res, err
	}
	sum := sha256.Sum256(data)
	res.Bytes = len(data)
	res.HashHex = hex.EncodeToString(sum[:])
	if _, dup := c.seen[res.HashHex]; dup {
		res.Deduplicated = true
		return extract.Attachment{}, res, nil
	}
	c.seen[res.HashHex] = struct{}{}

	return extract.Attachment{Filename: filepath.Base(path), Data: data}, res, nil
}

// CollectPaths reads each path in order. Failures are recorded in the
// results and do not stop the run.
func (c *Collector) CollectPaths(paths []string) ([]extract.Attachment, []FileResult, DirStats) {
	var (
		atts    []extract.Attachment
		results []FileResult
		stats   DirStats
	)
	for _, p := range paths {
		stats.Scanned++
		stats.Matched++
		a, r, ok := c.collect(p)
		results = append(results, r)
		switch {
		case !ok:
			stats.Failed++
		case r.Deduplicated:
			stats.Deduplicated++
		default:
			stats.Succeeded++
			atts = append(atts, a)
		}
	}
	return atts, results, stats
}

// CollectDirectory walks root, skips hidden entries if requested, and reads
// every PDF in lexical order.
func (c *Collector) CollectDirectory(root string, skipHidden bool) ([]extract.Attachment, []FileResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, nil, DirStats{}, errors.New("root path is required")
	}

	var (
		atts    []extract.Attachment
		results []FileResult
		stats   DirStats
	)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			results = append(results, FileResult{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if skipHidden && path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !AllowedExt(filepath.Ext(path)) {
			return nil
		}
		stats.Matched++

		a, r, ok := c.collect(path)
		results = append(results, r)
		switch {
		case !ok:
			stats.Failed++
		case r.Deduplicated:
			stats.Deduplicated++
		default:
			stats.Succeeded++
			atts = append(atts, a)
		}
		return nil
	})
	if err != nil {
		return atts, results, stats, fmt.Errorf("walk: %w", err)
	}
	return atts, results, stats, nil
}

func (c *Collector) collect(path string) (extract.Attachment, FileResult, bool) {
	a, r, err := c.ReadFile(path)
	if err != nil {
		c.logger.Warn("skipping file", "path", path, "error", err)
		r.Err = err.Error()
		return a, r, false
	}
	if r.Deduplicated {
		c.logger.Debug("duplicate file content", "path", path, "sha256", r.HashHex)
	}
	return a, r, true
}

// AllowedExt reports whether ext names a file type accepted as an attachment.
func AllowedExt(ext string) bool {
	return constants.IsAllowedExt(ext)
}

// IsHidden reports whether a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
