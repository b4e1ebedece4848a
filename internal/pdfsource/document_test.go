package pdfsource

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/joseph-ayodele/pdfcontext/internal/common"
	"github.com/joseph-ayodele/pdfcontext/internal/geom"
)

const sampleContent = "BT /F1 12 Tf 72 700 Td (Hello world) Tj ET\n" +
	"BT /F2 12 Tf 1 0 0 rg 72 640 Td (Q3) Tj ET"

// buildPDF assembles a one-page PDF with two fonts, a highlight and a
// malformed underline annotation.
func buildPDF(content string) []byte {
	widths := strings.TrimSpace(strings.Repeat("500 ", 95))
	font := func(base string) string {
		return fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /%s /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths [%s] >>", base, widths)
	}
	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 /MediaBox [0 0 612 792] >>",
		"<< /Type /Page /Parent 2 0 R /Resources << /Font << /F1 4 0 R /F2 5 0 R >> >> /Contents 6 0 R /Annots [7 0 R 8 0 R] >>",
		font("Helvetica"),
		font("Helvetica-Bold"),
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Type /Annot /Subtype /Highlight /Rect [70 695 140 715] >>",
		"<< /Type /Annot /Subtype /Underline /Rect [1 2] >>",
	}

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, o := range objs {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return b.Bytes()
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func nearRect(a, b geom.Rect) bool {
	return near(a.X0, b.X0) && near(a.Y0, b.Y0) && near(a.X1, b.X1) && near(a.Y1, b.Y1)
}

func TestDocument(t *testing.T) {
	doc, err := Open(buildPDF(sampleContent), Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer doc.Close()

	if doc.NumPages() != 1 {
		t.Fatalf("NumPages = %d", doc.NumPages())
	}
	p := doc.Page(1)

	text, err := p.NativeText()
	if err != nil {
		t.Fatalf("NativeText: %v", err)
	}
	if text != "Hello world\n\nQ3" {
		t.Errorf("NativeText = %q", text)
	}

	words, err := p.Words()
	if err != nil {
		t.Fatalf("Words: %v", err)
	}
	if len(words) != 3 || words[0].Text != "Hello" || words[2].Text != "Q3" {
		t.Fatalf("words = %+v", words)
	}
	// Baseline 700 on a 792pt page sits 92pt from the top.
	if want := (geom.Rect{X0: 72, Y0: 82.4, X1: 102, Y1: 94.4}); !nearRect(words[0].Box, want) {
		t.Errorf("Hello box = %+v, want %+v", words[0].Box, want)
	}
	if words[2].Line != 1 {
		t.Errorf("Q3 line = %d", words[2].Line)
	}

	annots, err := p.Annotations()
	if err != nil {
		t.Fatalf("Annotations: %v", err)
	}
	if len(annots) != 2 {
		t.Fatalf("annotations = %+v", annots)
	}
	hl := annots[0]
	if hl.Subtype != "Highlight" || hl.Err != nil {
		t.Errorf("highlight = %+v", hl)
	}
	if want := (geom.Rect{X0: 70, Y0: 77, X1: 140, Y1: 97}); !nearRect(hl.Rect, want) {
		t.Errorf("highlight rect = %+v, want %+v", hl.Rect, want)
	}
	if annots[1].Subtype != "Underline" || !errors.Is(annots[1].Err, common.ErrMalformedInput) {
		t.Errorf("malformed annotation = %+v", annots[1])
	}

	inRect, err := p.TextInRect(hl.Rect)
	if err != nil || inRect != "Hello world" {
		t.Errorf("TextInRect = %q, %v", inRect, err)
	}

	spans, err := p.Spans()
	if err != nil {
		t.Fatalf("Spans: %v", err)
	}
	want := []Span{
		{Text: "Hello world", Font: "Helvetica", Size: 12},
		{Text: "Q3", Font: "Helvetica-Bold", Size: 12, Bold: true, Color: 0xFF0000},
	}
	if len(spans) != len(want) {
		t.Fatalf("spans = %+v", spans)
	}
	for i := range want {
		if spans[i] != want[i] {
			t.Errorf("span %d = %+v, want %+v", i, spans[i], want[i])
		}
	}
}

func TestOpen_Malformed(t *testing.T) {
	if _, err := Open([]byte("this is not a pdf at all"), Options{}); !errors.Is(err, common.ErrMalformedInput) {
		t.Errorf("err = %v, want ErrMalformedInput", err)
	}
	if _, err := Open(nil, Options{}); !errors.Is(err, common.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestPage_OutOfRange(t *testing.T) {
	doc, err := Open(buildPDF(sampleContent), Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer doc.Close()
	if _, err := doc.Page(2).NativeText(); !errors.Is(err, common.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}
