package common

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PDF_VISUAL_SIGNALS", "")
	t.Setenv("OCR_DPI", "")
	t.Setenv("CACHE_DRIVER", "")
	t.Setenv("LOG_LEVEL", "")

	cfg := LoadConfig()
	if !cfg.Extraction.VisualSignals {
		t.Error("visual signals should default to on")
	}
	if cfg.OCR.DPI != 240 || cfg.OCR.PSM != 6 || cfg.OCR.OEM != 3 {
		t.Errorf("ocr defaults = %+v", cfg.OCR)
	}
	if cfg.Extraction.MaxSignals != 40 {
		t.Errorf("max signals = %d", cfg.Extraction.MaxSignals)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("PDF_VISUAL_SIGNALS", "false")
	t.Setenv("PDF_OCR_TIMEOUT", "5s")
	t.Setenv("PDF_PAGE_WORKERS", "not-a-number")

	cfg := LoadConfig()
	if cfg.Extraction.VisualSignals {
		t.Error("PDF_VISUAL_SIGNALS=false ignored")
	}
	if cfg.Extraction.OCRTimeout != 5*time.Second {
		t.Errorf("ocr timeout = %v", cfg.Extraction.OCRTimeout)
	}
	if cfg.Extraction.PageWorkers != 4 {
		t.Errorf("bad int should fall back to default, got %d", cfg.Extraction.PageWorkers)
	}
}

func TestLoadConfigFile_Overlay(t *testing.T) {
	t.Setenv("CACHE_DRIVER", "")
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	body := "extraction:\n  visual_signals: false\n  ocr_timeout: 10s\ncache:\n  driver: sqlite\n  dsn: /tmp/c.db\nlog:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if cfg.Extraction.VisualSignals {
		t.Error("file should disable visual signals")
	}
	if cfg.Extraction.OCRTimeout != 10*time.Second {
		t.Errorf("ocr timeout = %v", cfg.Extraction.OCRTimeout)
	}
	if cfg.Cache.Driver != "sqlite" || cfg.Cache.DSN != "/tmp/c.db" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.OCR.DPI != 240 {
		t.Errorf("unset key lost its default: dpi = %d", cfg.OCR.DPI)
	}
	if cfg.Log.SlogLevel() != slog.LevelDebug {
		t.Errorf("level = %v", cfg.Log.SlogLevel())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad driver", func(c *Config) { c.Cache.Driver = "redis" }},
		{"driver without dsn", func(c *Config) { c.Cache.Driver = "postgres"; c.Cache.DSN = "" }},
		{"zero workers", func(c *Config) { c.Extraction.PageWorkers = 0 }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"ocr without binary", func(c *Config) { c.OCR.Enabled = true; c.OCR.Tesseract = " " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := LoadConfig()
			cfg.Cache = CacheConfig{}
			cfg.Log.Level = "info"
			tt.mutate(cfg)

			err := cfg.Validate()
			var appErr *AppError
			if !errors.As(err, &appErr) || appErr.Code != "CONFIG_ERROR" {
				t.Fatalf("err = %v, want CONFIG_ERROR", err)
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("err does not wrap ErrValidation: %v", err)
			}
		})
	}
}

func TestRecovered(t *testing.T) {
	err := Recovered("page 3", "index out of range")
	if !errors.Is(err, ErrMalformedInput) {
		t.Errorf("err = %v", err)
	}
	inner := errors.New("boom")
	if err := Recovered("page 3", inner); !errors.Is(err, inner) || !errors.Is(err, ErrMalformedInput) {
		t.Errorf("err = %v", err)
	}
}
