package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joseph-ayodele/pdfcontext/internal/common"
	"github.com/joseph-ayodele/pdfcontext/internal/extract"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS doc_bundles (
	key        TEXT PRIMARY KEY,
	bundle     JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Postgres is a Store backed by a pgx connection pool.
type Postgres struct {
	pool        *pgxpool.Pool
	dialTimeout time.Duration
	logger      *slog.Logger
}

// OpenPostgres creates the pool, waits for it to connect within
// cfg.DialTimeout and ensures the schema.
func OpenPostgres(ctx context.Context, cfg common.CacheConfig, logger *slog.Logger) (*Postgres, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("connecting to cache database")
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("failed to parse cache dsn", "error", err)
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "pdfcontext"

	dctx, cancel := common.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(dctx, pc)
	if err != nil {
		logger.Error("failed to connect to cache database", "error", err)
		return nil, err
	}
	if _, err := pool.Exec(dctx, postgresSchema); err != nil {
		pool.Close()
		logger.Error("failed to initialize cache schema", "error", err)
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("successfully connected to cache database")
	return &Postgres{pool: pool, dialTimeout: cfg.DialTimeout, logger: logger}, nil
}

func (p *Postgres) Get(ctx context.Context, key string) (extract.Bundle, error) {
	var raw []byte
	err := p.pool.QueryRow(ctx, `SELECT bundle FROM doc_bundles WHERE key = $1`, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return extract.Bundle{}, common.ErrCacheMiss
	}
	if err != nil {
		return extract.Bundle{}, fmt.Errorf("query bundle: %w", err)
	}
	return decode(raw)
}

func (p *Postgres) Put(ctx context.Context, key string, b extract.Bundle) error {
	raw, err := encode(b)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx,
		`INSERT INTO doc_bundles (key, bundle) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET bundle = EXCLUDED.bundle, created_at = now()`,
		key, raw)
	if err != nil {
		return fmt.Errorf("store bundle: %w", err)
	}
	return nil
}

// Ping checks connectivity within the configured dial timeout.
func (p *Postgres) Ping(ctx context.Context) error {
	p.logger.Debug("pinging cache database")
	ctx, cancel := common.WithTimeout(ctx, p.dialTimeout)
	defer cancel()
	return p.pool.Ping(ctx)
}

func (p *Postgres) Close() error {
	p.logger.Info("closing cache database connections")
	p.pool.Close()
	return nil
}
