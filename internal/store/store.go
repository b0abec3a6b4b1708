// Package store holds the single mutable Record between extraction attempts
// and operator edits. Everything else borrows read-only snapshots.
package store

import (
	"sync"

	"github.com/voterscan/voterscan/internal/common"
	"github.com/voterscan/voterscan/internal/entity"
)

// RecordStore is the sole owner of the live record. Empty until the first
// successful extraction; a failed re-extraction never touches the held
// record, so the last good state (including operator edits) survives.
//
// There is no history or undo: an edit overwrites the prior value for that
// field irrecoverably. That is a deliberate simplification.
type RecordStore struct {
	mu     sync.RWMutex
	record *entity.Record
}

func NewRecordStore() *RecordStore {
	return &RecordStore{}
}

// Seed replaces the held record wholesale. Called only after a successful
// parse; the swap is atomic, a concurrent Snapshot sees either the old
// record or the new one, never a mix.
func (s *RecordStore) Seed(r entity.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = &r
}

// ApplyEdit rewrites exactly one field, leaving all others untouched.
// Editing before any record is held is ErrNoRecord; a name outside the
// canonical set is ErrUnknownField and leaves the record unchanged.
func (s *RecordStore) ApplyEdit(field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record == nil {
		return common.NewAppError("STORE_ERROR", "no record to edit", common.ErrNoRecord)
	}
	if _, ok := s.record.Field(field); !ok {
		return common.NewAppError("STORE_ERROR", "no such field "+field, common.ErrUnknownField)
	}
	return s.record.SetField(field, value)
}

// Snapshot returns a copy of the current record for rendering/export,
// reflecting every edit applied before the call.
func (s *RecordStore) Snapshot() (entity.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.record == nil {
		return entity.Record{}, common.NewAppError("STORE_ERROR", "no record held yet", common.ErrNoRecord)
	}
	return *s.record, nil
}

// Held reports whether a record has been seeded yet.
func (s *RecordStore) Held() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.record != nil
}
