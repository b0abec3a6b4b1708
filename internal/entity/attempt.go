package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ExtractionAttempt is one build-request -> call-backend -> sanitize -> parse
// cycle, persisted for audit. RawReply and SanitizedReply are kept even on
// failure so the operator can inspect what the model actually returned.
type ExtractionAttempt struct {
	ID             uuid.UUID       `json:"id"`
	Status         string          `json:"status"`
	ImageCount     int             `json:"image_count"`
	ModelName      string          `json:"model_name"`
	RawReply       string          `json:"raw_reply,omitempty"`
	SanitizedReply string          `json:"sanitized_reply,omitempty"`
	RecordJSON     json.RawMessage `json:"record_json,omitempty"`
	ErrorMessage   string          `json:"error_message,omitempty"`
	StartedAt      time.Time       `json:"started_at"`
	FinishedAt     *time.Time      `json:"finished_at,omitempty"`
}
