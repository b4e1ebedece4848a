package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/joseph-ayodele/pdfcontext/constants"
	"github.com/joseph-ayodele/pdfcontext/internal/common"
	"github.com/joseph-ayodele/pdfcontext/internal/extract"
	"github.com/joseph-ayodele/pdfcontext/internal/signals"
)

func openTestSQLite(t *testing.T) Store {
	t.Helper()
	cfg := common.CacheConfig{Driver: DriverSQLite, DSN: filepath.Join(t.TempDir(), "cache.db")}
	s, err := Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLite_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, common.ErrCacheMiss) {
		t.Fatalf("Get missing: err = %v, want ErrCacheMiss", err)
	}

	b := extract.Bundle{
		Text: "--- Page 1 (native) ---\nHello",
		Signals: []signals.Signal{{
			File:   "a.pdf",
			Page:   1,
			Text:   "Q3",
			Types:  signals.NewTypeSet(constants.Highlight, constants.Bold),
			Score:  1.6,
			Source: constants.SourceMixed,
		}},
	}
	if err := s.Put(ctx, "k1", b); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Text != b.Text {
		t.Errorf("text = %q, want %q", got.Text, b.Text)
	}
	if len(got.Signals) != 1 {
		t.Fatalf("signals = %d, want 1", len(got.Signals))
	}
	sig := got.Signals[0]
	if sig.Types != b.Signals[0].Types || sig.Score != 1.6 || sig.Source != constants.SourceMixed {
		t.Errorf("signal = %+v", sig)
	}

	b.Text = "replaced"
	if err := s.Put(ctx, "k1", b); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	if got, _ := s.Get(ctx, "k1"); got.Text != "replaced" {
		t.Errorf("after overwrite text = %q", got.Text)
	}

	if err := s.Ping(ctx); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestSQLite_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	first, err := OpenSQLite(ctx, path, nil)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := first.Put(ctx, "k", extract.Bundle{Text: "kept"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	_ = first.Close()

	second, err := OpenSQLite(ctx, path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = second.Close() }()
	got, err := second.Get(ctx, "k")
	if err != nil || got.Text != "kept" {
		t.Errorf("Get = %+v, %v", got, err)
	}
	if second.Path() != path {
		t.Errorf("Path = %q", second.Path())
	}
}

func TestOpen_Drivers(t *testing.T) {
	s, err := Open(context.Background(), common.CacheConfig{}, nil)
	if err != nil || s != nil {
		t.Errorf("empty driver: store=%v err=%v, want nil, nil", s, err)
	}

	_, err = Open(context.Background(), common.CacheConfig{Driver: "redis"}, nil)
	if !errors.Is(err, common.ErrInvalidInput) {
		t.Errorf("unknown driver: err = %v, want ErrInvalidInput", err)
	}

	_, err = Open(context.Background(), common.CacheConfig{Driver: DriverPostgres, DSN: "postgres://%zz@localhost/db"}, nil)
	if err == nil {
		t.Error("bad postgres dsn: expected error")
	}
}
