package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/joseph-ayodele/pdfcontext/constants"
	"github.com/joseph-ayodele/pdfcontext/internal/common"
	"github.com/joseph-ayodele/pdfcontext/internal/signals"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{"CACHE_DRIVER", "DEBUG_TEXT_DUMP", "DEBUG_XLSX_PATH", "DEBUG_JSON_PATH"} {
		t.Setenv(k, "")
	}
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"pdfcontext"}, args...))
	return out.String(), err
}

func TestExtract_LegacyTextOnly(t *testing.T) {
	out, err := runApp(t, "extract", "--no-ocr", "--legacy-text", "Please summarize")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.HasPrefix(out, "Please summarize\n") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "No visual signals") {
		t.Errorf("missing signal summary in %q", out)
	}
}

func TestExtract_NothingToDo(t *testing.T) {
	if _, err := runApp(t, "extract", "--no-ocr"); err == nil {
		t.Error("expected error without inputs")
	}
}

func TestClassify_NeedsFiles(t *testing.T) {
	if _, err := runApp(t, "classify"); err == nil {
		t.Error("expected error without files")
	}
}

func TestCachePing_NotConfigured(t *testing.T) {
	if _, err := runApp(t, "cache", "ping"); err == nil {
		t.Error("expected error without a cache driver")
	}
}

func TestSinksFor(t *testing.T) {
	sinks := sinksFor(common.DebugConfig{TextDumpPath: "a.txt", JSONPath: "a.json"})
	var names []string
	for _, s := range sinks {
		names = append(names, s.Name())
	}
	if got := strings.Join(names, ","); got != "text,json" {
		t.Errorf("sinks = %s, want text,json", got)
	}
	if len(sinksFor(common.DebugConfig{})) != 0 {
		t.Error("expected no sinks for empty config")
	}
}

func TestWriteSignalTable(t *testing.T) {
	var buf bytes.Buffer
	writeSignalTable(&buf, []signals.Signal{{
		File:   "a.pdf",
		Page:   2,
		Text:   "Q3",
		Types:  signals.NewTypeSet(constants.Highlight),
		Score:  1.5,
		Source: constants.SourceAnnotation,
	}})
	out := buf.String()
	for _, want := range []string{"a.pdf", "Q3", "highlight", "high", "Total: 1 signals"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestClip(t *testing.T) {
	if got := clip("short", 10); got != "short" {
		t.Errorf("clip = %q", got)
	}
	if got := clip("a-very-long-file-name.pdf", 8); got != "a-very-~" {
		t.Errorf("clip = %q", got)
	}
}
