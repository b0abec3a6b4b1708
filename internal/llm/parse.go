package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/voterscan/voterscan/internal/common"
	"github.com/voterscan/voterscan/internal/entity"
)

// ParseRecord turns a sanitized reply into a fully populated Record.
//
// The text must decode as a flat JSON object; anything else is ErrMalformed
// and the caller keeps the raw/sanitized text for operator inspection.
// Canonical fields absent from the payload default to empty string; keys
// outside the canonical set are ignored. A field with a non-string value
// fails the schema check, gets logged, and is treated as absent rather than
// failing the whole attempt.
func ParseRecord(sanitized string, logger *slog.Logger) (entity.Record, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(sanitized), &m); err != nil {
		return entity.Record{}, common.NewAppError("PARSE_ERROR",
			fmt.Sprintf("reply is not a JSON object: %v", err), common.ErrMalformed)
	}
	// A bare "null" decodes into a nil map without error. That is a refusal,
	// not a record; seeding an all-empty record from it would clobber the
	// operator's last good state.
	if m == nil {
		return entity.Record{}, common.NewAppError("PARSE_ERROR",
			"reply is null, not a JSON object", common.ErrMalformed)
	}

	if err := ValidateJSONAgainstSchema(BuildRecordJSONSchema(), []byte(sanitized)); err != nil {
		// Shape trouble on individual fields only; FromMap drops the
		// offenders and the attempt still yields a usable record.
		logger.Warn("llm.parse.schema_mismatch", "error", err)
	}

	return entity.FromMap(m), nil
}
