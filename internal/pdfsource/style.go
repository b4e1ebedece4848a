package pdfsource

import (
	"math"
	"strings"

	"github.com/ledongthuc/pdf"
)

// TJ adjustments more negative than this (thousandths of an em) read as a space.
const tjSpaceThreshold = -200

var boldMarkers = []string{"bold", "black", "heavy", "semibold", "demi"}

// fontFlagForceBold is bit 19 of the FontDescriptor /Flags entry.
const fontFlagForceBold = 1 << 18

type fontInfo struct {
	base string
	bold bool
	enc  pdf.TextEncoding
}

// IsBoldName reports whether a PostScript font name denotes a bold face,
// e.g. "ABCDEF+Helvetica-Bold" or "Arial,Black".
func IsBoldName(name string) bool {
	if i := strings.IndexByte(name, '+'); i >= 0 {
		name = name[i+1:]
	}
	lower := strings.ToLower(name)
	for _, m := range boldMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func descriptorBold(desc pdf.Value) bool {
	if desc.IsNull() {
		return false
	}
	if int64(desc.Key("Flags").Float64())&fontFlagForceBold != 0 {
		return true
	}
	return desc.Key("FontWeight").Float64() >= 600
}

func loadFont(p pdf.Page, name string) fontInfo {
	f := p.Font(name)
	base := f.BaseFont()
	desc := f.V.Key("FontDescriptor")
	if desc.IsNull() {
		// Type0 fonts keep the descriptor on the descendant.
		desc = f.V.Key("DescendantFonts").Index(0).Key("FontDescriptor")
	}
	return fontInfo{
		base: base,
		bold: IsBoldName(base) || descriptorBold(desc),
		enc:  f.Encoder(),
	}
}

func clamp255(v float64) int {
	return int(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

func packRGB(r, g, b float64) int {
	return clamp255(r)<<16 | clamp255(g)<<8 | clamp255(b)
}

// fillColor converts color operands (1 gray, 3 RGB or 4 CMYK components)
// to packed RGB. ok is false for pattern or unknown color spaces.
func fillColor(components []float64) (int, bool) {
	switch len(components) {
	case 1:
		return packRGB(components[0], components[0], components[0]), true
	case 3:
		return packRGB(components[0], components[1], components[2]), true
	case 4:
		c, m, y, k := components[0], components[1], components[2], components[3]
		return packRGB((1-c)*(1-k), (1-m)*(1-k), (1-y)*(1-k)), true
	default:
		return 0, false
	}
}

type styleState struct {
	font  string
	size  float64
	color int
}

// spanCollector accumulates text runs sharing one font and fill color.
type spanCollector struct {
	fonts   func(name string) fontInfo
	cache   map[string]fontInfo
	state   styleState
	saved   []styleState
	text    strings.Builder
	runFont styleState
	spans   []Span
}

func newSpanCollector(fonts func(string) fontInfo) *spanCollector {
	return &spanCollector{fonts: fonts, cache: make(map[string]fontInfo)}
}

func (c *spanCollector) font(name string) fontInfo {
	if fi, ok := c.cache[name]; ok {
		return fi
	}
	fi := c.fonts(name)
	c.cache[name] = fi
	return fi
}

func (c *spanCollector) flush() {
	text := strings.Join(strings.Fields(c.text.String()), " ")
	c.text.Reset()
	if text == "" {
		return
	}
	fi := c.font(c.runFont.font)
	c.spans = append(c.spans, Span{
		Text:  text,
		Font:  fi.base,
		Size:  c.runFont.size,
		Bold:  fi.bold,
		Color: c.runFont.color,
	})
}

func (c *spanCollector) setState(s styleState) {
	if s != c.state && c.text.Len() > 0 {
		c.flush()
	}
	c.state = s
}

func (c *spanCollector) show(raw string) {
	if c.text.Len() == 0 {
		c.runFont = c.state
	}
	fi := c.font(c.state.font)
	if fi.enc != nil {
		raw = fi.enc.Decode(raw)
	}
	c.text.WriteString(raw)
}

func (c *spanCollector) space() {
	if c.text.Len() > 0 {
		c.text.WriteByte(' ')
	}
}

// op handles one content-stream operator with its operands.
func (c *spanCollector) op(op string, args []pdf.Value) {
	switch op {
	case "q":
		c.saved = append(c.saved, c.state)
	case "Q":
		if n := len(c.saved); n > 0 {
			c.setState(c.saved[n-1])
			c.saved = c.saved[:n-1]
		}
	case "BT", "ET", "T*", "TD", "Tm":
		c.flush()
	case "Td":
		if len(args) == 2 && args[1].Float64() != 0 {
			c.flush()
		} else {
			c.space()
		}
	case "Tf":
		if len(args) == 2 {
			s := c.state
			s.font, s.size = args[0].Name(), args[1].Float64()
			c.setState(s)
		}
	case "g", "rg", "k", "sc", "scn":
		comps := make([]float64, 0, len(args))
		for _, a := range args {
			if a.Kind() != pdf.Integer && a.Kind() != pdf.Real {
				return
			}
			comps = append(comps, a.Float64())
		}
		if color, ok := fillColor(comps); ok {
			s := c.state
			s.color = color
			c.setState(s)
		}
	case "Tj":
		if len(args) == 1 {
			c.show(args[0].RawString())
		}
	case "'", "\"":
		c.flush()
		if len(args) > 0 {
			c.show(args[len(args)-1].RawString())
		}
	case "TJ":
		if len(args) != 1 {
			return
		}
		arr := args[0]
		for i := 0; i < arr.Len(); i++ {
			v := arr.Index(i)
			switch v.Kind() {
			case pdf.String:
				c.show(v.RawString())
			case pdf.Integer, pdf.Real:
				if v.Float64() < tjSpaceThreshold {
					c.space()
				}
			}
		}
	}
}

// collectSpans interprets the page content streams for styled text runs.
func collectSpans(p pdf.Page) []Span {
	c := newSpanCollector(func(name string) fontInfo { return loadFont(p, name) })
	handler := func(stk *pdf.Stack, op string) {
		n := stk.Len()
		args := make([]pdf.Value, n)
		for i := n - 1; i >= 0; i-- {
			args[i] = stk.Pop()
		}
		c.op(op, args)
	}

	contents := p.V.Key("Contents")
	if contents.Kind() == pdf.Array {
		for i := 0; i < contents.Len(); i++ {
			pdf.Interpret(contents.Index(i), handler)
		}
	} else {
		pdf.Interpret(contents, handler)
	}
	c.flush()
	return c.spans
}
