package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/voterscan/voterscan/internal/common"
	"github.com/voterscan/voterscan/internal/entity"
)

// RecordRepository persists finalized records.
type RecordRepository interface {
	Save(ctx context.Context, attemptID uuid.UUID, rec entity.Record) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ArchivedRecord, error)
	List(ctx context.Context, limit int) ([]entity.ArchivedRecord, error)
}

type recordRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewRecordRepository(db *DB, logger *slog.Logger) RecordRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &recordRepository{db: db, logger: logger}
}

func (r *recordRepository) Save(ctx context.Context, attemptID uuid.UUID, rec entity.Record) (uuid.UUID, error) {
	id := uuid.New()
	q := r.db.rebind(`INSERT INTO voter_record
		(id, attempt_id, election_number, name, relation_name, gender, date_of_birth,
		 address, city, state, pincode, electoral_registration_officer, issue_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, q,
		id.String(), attemptID.String(),
		rec.ElectionNumber, rec.Name, rec.RelationName, rec.Gender, rec.DateOfBirth,
		rec.Address, rec.City, rec.State, rec.Pincode, rec.ElectoralRegistrationOfficer, rec.IssueDate,
		time.Now().UTC(),
	)
	if err != nil {
		r.logger.Error("record.save.failed", "attempt_id", attemptID, "error", err)
		return uuid.Nil, fmt.Errorf("insert record: %w", err)
	}
	return id, nil
}

const recordColumns = `id, attempt_id, election_number, name, relation_name, gender, date_of_birth,
	address, city, state, pincode, electoral_registration_officer, issue_date, created_at`

func (r *recordRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ArchivedRecord, error) {
	q := r.db.rebind(`SELECT ` + recordColumns + ` FROM voter_record WHERE id = ?`)
	rec, err := scanRecord(r.db.QueryRowContext(ctx, q, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewAppError("ARCHIVE_ERROR", "record "+id.String(), common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load record: %w", err)
	}
	return rec, nil
}

func (r *recordRepository) List(ctx context.Context, limit int) ([]entity.ArchivedRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	q := r.db.rebind(`SELECT ` + recordColumns + ` FROM voter_record ORDER BY created_at DESC LIMIT ?`)
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var out []entity.ArchivedRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func scanRecord(row rowScanner) (*entity.ArchivedRecord, error) {
	var (
		a         entity.ArchivedRecord
		id        string
		attemptID string
	)
	err := row.Scan(&id, &attemptID,
		&a.Record.ElectionNumber, &a.Record.Name, &a.Record.RelationName,
		&a.Record.Gender, &a.Record.DateOfBirth, &a.Record.Address,
		&a.Record.City, &a.Record.State, &a.Record.Pincode,
		&a.Record.ElectoralRegistrationOfficer, &a.Record.IssueDate,
		&a.CreatedAt)
	if err != nil {
		return nil, err
	}
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("bad record id %q: %w", id, err)
	}
	parsedAttempt, err := uuid.Parse(attemptID)
	if err != nil {
		return nil, fmt.Errorf("bad attempt id %q: %w", attemptID, err)
	}
	a.ID = parsedID
	a.AttemptID = parsedAttempt
	return &a, nil
}
