package export

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/joseph-ayodele/pdfcontext/internal/extract"
)

// JSONSink writes the bundle as indented JSON after checking it against
// BundleSchema.
type JSONSink struct {
	Path string
}

func (s JSONSink) Name() string { return "json" }

func (s JSONSink) Write(ctx context.Context, b extract.Bundle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := MarshalBundle(b)
	if err != nil {
		return err
	}
	return writeFileAtomic(s.Path, data)
}

// MarshalBundle encodes b and validates the result against BundleSchema.
func MarshalBundle(b extract.Bundle) ([]byte, error) {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal bundle: %w", err)
	}
	if err := ValidateJSONAgainstSchema(BundleSchema(), data); err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
