package entity

import (
	"time"

	"github.com/google/uuid"
)

// ArchivedRecord is a finalized record persisted to the archive, linked to
// the extraction attempt that produced it.
type ArchivedRecord struct {
	ID        uuid.UUID `json:"id"`
	AttemptID uuid.UUID `json:"attempt_id"`
	Record    Record    `json:"record"`
	CreatedAt time.Time `json:"created_at"`
}
