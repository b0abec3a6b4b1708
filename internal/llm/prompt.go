package llm

import (
	"strings"

	"github.com/voterscan/voterscan/internal/entity"
)

// BuildInstruction composes the frozen field-extraction instruction sent as
// the final content part of every extraction request. The field list comes
// from the canonical schema so the prompt can never drift from the parser.
func BuildInstruction() string {
	parts := []string{
		"You are reading photographs of an Indian voter identity card (EPIC).",
		"Return ONLY a flat JSON object with exactly these keys: " + strings.Join(entity.FieldNames, ", ") + ".",
		"Every value must be a string.",
		"Use an empty string for anything not clearly visible. Never infer or fabricate a value.",
		"Do not add any other keys, commentary, or markdown.",
	}
	return strings.Join(parts, " ")
}
