// Package cache persists finished document bundles keyed by content hash so
// repeated extractions of the same attachment skip the PDF pipeline.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/pdfcontext/internal/common"
	"github.com/joseph-ayodele/pdfcontext/internal/extract"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store is a bundle cache. Get returns common.ErrCacheMiss for unknown keys.
type Store interface {
	Get(ctx context.Context, key string) (extract.Bundle, error)
	Put(ctx context.Context, key string, b extract.Bundle) error
	Ping(ctx context.Context) error
	Close() error
}

// Open connects the store selected by cfg.Driver. An empty driver disables
// caching and returns a nil Store.
func Open(ctx context.Context, cfg common.CacheConfig, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.Driver {
	case "":
		return nil, nil
	case DriverSQLite:
		s, err := OpenSQLite(ctx, cfg.DSN, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverPostgres:
		p, err := OpenPostgres(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, common.NewAppError("CACHE_ERROR", fmt.Sprintf("unknown cache driver %q", cfg.Driver), common.ErrInvalidInput)
	}
}

func encode(b extract.Bundle) ([]byte, error) {
	return json.Marshal(b)
}

func decode(raw []byte) (extract.Bundle, error) {
	var b extract.Bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return extract.Bundle{}, fmt.Errorf("decode cached bundle: %w", err)
	}
	return b, nil
}
