package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/pdfcontext/constants"
	"github.com/joseph-ayodele/pdfcontext/internal/signals"
)

// BundleSchema describes the JSON form of an extraction bundle.
func BundleSchema() map[string]any {
	types := make([]any, 0, len(constants.AllSignalTypes))
	for _, t := range constants.AllSignalTypes {
		types = append(types, string(t))
	}
	return map[string]any{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"type":                 "object",
		"required":             []any{"text", "signals"},
		"additionalProperties": false,
		"properties": map[string]any{
			"text": map[string]any{"type": "string"},
			"signals": map[string]any{
				"type": []any{"array", "null"},
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []any{"file", "page", "text", "signal_types", "score", "significance", "source"},
					"properties": map[string]any{
						"file": map[string]any{"type": "string"},
						"page": map[string]any{"type": "integer", "minimum": 1},
						"text": map[string]any{"type": "string", "maxLength": signals.MaxTextRunes},
						"signal_types": map[string]any{
							"type":        "array",
							"uniqueItems": true,
							"items":       map[string]any{"enum": types},
						},
						"score": map[string]any{"type": "number", "minimum": 0, "maximum": signals.MaxScore},
						"significance": map[string]any{"enum": []any{
							string(constants.SignificanceHigh),
							string(constants.SignificanceMedium),
							string(constants.SignificanceLow),
						}},
						"source": map[string]any{"enum": []any{
							string(constants.SourceAnnotation),
							string(constants.SourceStyle),
							string(constants.SourceMixed),
						}},
					},
				},
			},
		},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
