package extract

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/pdfcontext/internal/common"
)

var encodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

// DecodeAttachment decodes a raw base64 or "data:...;base64," payload.
func DecodeAttachment(filename, payload string) (Attachment, error) {
	data := strings.TrimSpace(payload)
	if strings.HasPrefix(strings.ToLower(data), "data:") {
		if _, rest, ok := strings.Cut(data, ","); ok {
			data = rest
		}
	}
	data = strings.Join(strings.Fields(data), "")
	if data == "" {
		return Attachment{}, fmt.Errorf("%s: empty payload: %w", filename, common.ErrInvalidInput)
	}

	var lastErr error
	for _, enc := range encodings {
		raw, err := enc.DecodeString(data)
		if err == nil {
			return Attachment{Filename: filename, Data: raw}, nil
		}
		lastErr = err
	}
	return Attachment{}, fmt.Errorf("%s: decode base64: %w: %w", filename, common.ErrInvalidInput, lastErr)
}

// DecodeAttachments decodes every payload, skipping (and logging) the ones
// that cannot be decoded.
func DecodeAttachments(encoded []EncodedAttachment, logger *slog.Logger) []Attachment {
	if logger == nil {
		logger = slog.Default()
	}
	out := make([]Attachment, 0, len(encoded))
	for _, e := range encoded {
		a, err := DecodeAttachment(e.Filename, e.Base64Data)
		if err != nil {
			logger.Warn("failed to decode attachment", "file", e.Filename, "error", err)
			continue
		}
		logger.Debug("decoded attachment", "file", e.Filename, "bytes", len(a.Data))
		out = append(out, a)
	}
	return out
}
