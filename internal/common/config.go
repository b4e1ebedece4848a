package common

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Extraction ExtractionConfig `yaml:"extraction"`
	OCR        OCRConfig        `yaml:"ocr"`
	Cache      CacheConfig      `yaml:"cache"`
	Debug      DebugConfig      `yaml:"debug"`
	Log        LogConfig        `yaml:"log"`
}

// ExtractionConfig controls the page pipeline
type ExtractionConfig struct {
	VisualSignals   bool          `yaml:"visual_signals"`
	PageWorkers     int           `yaml:"page_workers"`
	DocumentWorkers int           `yaml:"document_workers"`
	OCRTimeout      time.Duration `yaml:"ocr_timeout"`
	MaxSignals      int           `yaml:"max_signals"`
	MaxFileMB       int           `yaml:"max_file_mb"`
}

// MaxFileBytes returns max file size in bytes.
func (c ExtractionConfig) MaxFileBytes() int64 { return int64(c.MaxFileMB) * 1024 * 1024 }

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Tesseract   string `yaml:"tesseract"`
	Pdftoppm    string `yaml:"pdftoppm"`
	Lang        string `yaml:"lang"`
	TessdataDir string `yaml:"tessdata_dir"`
	DPI         int    `yaml:"dpi"`
	PSM         int    `yaml:"psm"`
	OEM         int    `yaml:"oem"`
	// Confidence runs a second tesseract pass in TSV mode to log mean word confidence.
	Confidence bool `yaml:"confidence"`
}

// CacheConfig selects the optional bundle cache. An empty Driver disables it.
type CacheConfig struct {
	Driver      string        `yaml:"driver"` // "" | sqlite | postgres
	DSN         string        `yaml:"dsn"`
	MaxConns    int32         `yaml:"max_conns"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

// DebugConfig names optional diagnostic outputs; empty paths are skipped.
type DebugConfig struct {
	TextDumpPath string `yaml:"text_dump_path"`
	XLSXPath     string `yaml:"xlsx_path"`
	JSONPath     string `yaml:"json_path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// SlogLevel maps Level onto slog; unknown values mean info.
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Extraction: ExtractionConfig{
			VisualSignals:   getEnvAsBool("PDF_VISUAL_SIGNALS", true),
			PageWorkers:     getEnvAsInt("PDF_PAGE_WORKERS", 4),
			DocumentWorkers: getEnvAsInt("PDF_DOCUMENT_WORKERS", 2),
			OCRTimeout:      getEnvAsDuration("PDF_OCR_TIMEOUT", 60*time.Second),
			MaxSignals:      getEnvAsInt("PDF_MAX_SIGNALS", 40),
			MaxFileMB:       getEnvAsInt("PDF_MAX_FILE_MB", 50),
		},
		OCR: OCRConfig{
			Enabled:     getEnvAsBool("OCR_ENABLED", true),
			Tesseract:   getEnv("TESSERACT_BIN", "tesseract"),
			Pdftoppm:    getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Lang:        getEnv("TESSERACT_LANG", "eng"),
			TessdataDir: getEnv("TESSDATA_PREFIX", ""),
			DPI:         getEnvAsInt("OCR_DPI", 240),
			PSM:         getEnvAsInt("OCR_PSM", 6),
			OEM:         getEnvAsInt("OCR_OEM", 3),
			Confidence:  getEnvAsBool("OCR_TSV_CONFIDENCE", false),
		},
		Cache: CacheConfig{
			Driver:      getEnv("CACHE_DRIVER", ""),
			DSN:         getEnv("CACHE_DSN", ""),
			MaxConns:    getEnvAsInt32("CACHE_MAX_CONNS", 4),
			DialTimeout: getEnvAsDuration("CACHE_DIAL_TIMEOUT", 3*time.Second),
		},
		Debug: DebugConfig{
			TextDumpPath: getEnv("DEBUG_TEXT_DUMP", ""),
			XLSXPath:     getEnv("DEBUG_XLSX_PATH", ""),
			JSONPath:     getEnv("DEBUG_JSON_PATH", ""),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}
}

// LoadConfigFile starts from the environment and overlays a YAML file.
// Keys absent from the file keep their environment/default values.
func LoadConfigFile(path string) (*Config, error) {
	cfg := LoadConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, NewAppError("CONFIG_ERROR", "parse "+path, err)
	}
	return cfg, cfg.Validate()
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("extraction.page_workers", c.Extraction.PageWorkers, Positive).
		Field("extraction.document_workers", c.Extraction.DocumentWorkers, Positive).
		Field("extraction.max_signals", c.Extraction.MaxSignals, Positive).
		Field("extraction.max_file_mb", c.Extraction.MaxFileMB, Positive).
		Field("ocr.dpi", c.OCR.DPI, Positive).
		Field("cache.driver", c.Cache.Driver, OneOf("", "sqlite", "postgres")).
		Field("log.level", strings.ToLower(c.Log.Level), OneOf("debug", "info", "warn", "error"))
	if c.OCR.Enabled {
		v.Field("ocr.tesseract", c.OCR.Tesseract, Required).
			Field("ocr.pdftoppm", c.OCR.Pdftoppm, Required)
	}
	if c.Cache.Driver != "" {
		v.Field("cache.dsn", c.Cache.DSN, Required)
	}
	return ValidateAndReturnError(v)
}
