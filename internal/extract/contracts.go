package extract

import (
	"context"

	"github.com/joseph-ayodele/pdfcontext/constants"
	"github.com/joseph-ayodele/pdfcontext/internal/signals"
)

// DocumentExtractor turns one PDF into its text and signal bundle.
// Implementations never fail; unusable input yields an empty Bundle.
type DocumentExtractor interface {
	ExtractDocument(ctx context.Context, filename string, data []byte) Bundle
}

// Page is the extracted text of one page.
type Page struct {
	Number int
	Method constants.Method
	Text   string
}

// Bundle is the extraction output for one document or a whole request.
type Bundle struct {
	Text    string           `json:"text"`
	Signals []signals.Signal `json:"signals"`
}

func (b Bundle) Empty() bool {
	return b.Text == "" && len(b.Signals) == 0
}

// Attachment is a decoded PDF file.
type Attachment struct {
	Filename string
	Data     []byte
}

// Request bundles direct text with PDF attachments.
type Request struct {
	LegacyText  string
	Attachments []Attachment
}

// EncodedAttachment is an attachment as it arrives over the wire.
type EncodedAttachment struct {
	Filename   string `json:"filename"`
	Base64Data string `json:"base64_data"`
}
