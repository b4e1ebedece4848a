package constants

// Method records how a page's text was obtained.
type Method string

// Stable values (they appear verbatim in page markers).
const (
	MethodNative Method = "native" // embedded text objects
	MethodOCR    Method = "ocr"    // rasterized page run through OCR
)

// NoTextPlaceholder stands in for pages that yielded no text at all.
const NoTextPlaceholder = "(no text extracted)"
