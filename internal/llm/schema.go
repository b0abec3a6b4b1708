package llm

import "github.com/voterscan/voterscan/internal/entity"

// BuildRecordJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map: one string-typed property per canonical field. Nothing is
// required (a missing field defaults to "") and extra keys are tolerated so
// a newer model reply stays forward-compatible.
func BuildRecordJSONSchema() map[string]any {
	props := make(map[string]any, len(entity.FieldNames))
	for _, name := range entity.FieldNames {
		props[name] = map[string]any{"type": "string"}
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": true,
		"properties":           props,
	}
}
