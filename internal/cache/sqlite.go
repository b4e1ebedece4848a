package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/pdfcontext/internal/common"
	"github.com/joseph-ayodele/pdfcontext/internal/extract"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS doc_bundles (
	key        TEXT PRIMARY KEY,
	bundle     TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
)`

// SQLite is a Store backed by a local SQLite file.
type SQLite struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// OpenSQLite opens or creates the database at path and ensures the schema.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLite, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("opening sqlite cache", "path", path)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// single writer; avoids SQLITE_BUSY between pooled connections
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		logger.Error("failed to initialize cache schema", "error", err)
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SQLite{db: db, path: path, logger: logger}, nil
}

// Path returns the database file path.
func (s *SQLite) Path() string { return s.path }

func (s *SQLite) Get(ctx context.Context, key string) (extract.Bundle, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT bundle FROM doc_bundles WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return extract.Bundle{}, common.ErrCacheMiss
	}
	if err != nil {
		return extract.Bundle{}, common.WrapError(err, "query bundle")
	}
	return decode([]byte(raw))
}

func (s *SQLite) Put(ctx context.Context, key string, b extract.Bundle) error {
	raw, err := encode(b)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO doc_bundles (key, bundle, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET bundle = excluded.bundle, created_at = excluded.created_at`,
		key, string(raw), time.Now().UTC())
	return common.WrapError(err, "store bundle")
}

func (s *SQLite) Ping(ctx context.Context) error {
	s.logger.Debug("pinging sqlite cache")
	return s.db.PingContext(ctx)
}

func (s *SQLite) Close() error {
	s.logger.Info("closing sqlite cache")
	return s.db.Close()
}
