package constants

import "strings"

// SignalType is a kind of visual emphasis.
type SignalType string

const (
	Highlight   SignalType = "highlight"
	Underline   SignalType = "underline"
	StrikeOut   SignalType = "strikeout"
	Squiggly    SignalType = "squiggly"
	Bold        SignalType = "bold"
	ColoredText SignalType = "colored_text"
)

// AllSignalTypes lists the known types in their canonical order.
var AllSignalTypes = []SignalType{
	Highlight,
	Underline,
	StrikeOut,
	Squiggly,
	Bold,
	ColoredText,
}

// annotationSubtypes maps PDF annotation subtypes onto signal types.
var annotationSubtypes = map[string]SignalType{
	"highlight": Highlight,
	"underline": Underline,
	"strikeout": StrikeOut,
	"squiggly":  Squiggly,
}

// SignalTypeForAnnotation resolves a PDF annotation subtype (e.g. "Highlight").
// Only markup annotations that emphasize text are recognized.
func SignalTypeForAnnotation(subtype string) (SignalType, bool) {
	t, ok := annotationSubtypes[strings.ToLower(strings.TrimSpace(subtype))]
	return t, ok
}

// Significance is the coarse tier derived from a signal score.
type Significance string

const (
	SignificanceHigh   Significance = "high"
	SignificanceMedium Significance = "medium"
	SignificanceLow    Significance = "low"
)

// SignalSource records which extraction pass produced a signal.
type SignalSource string

const (
	SourceAnnotation SignalSource = "annotation"
	SourceStyle      SignalSource = "style"
	SourceMixed      SignalSource = "annotation+style"
)
