package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/voterscan/voterscan/internal/common"
	"github.com/voterscan/voterscan/internal/entity"
)

// AttemptRepository persists extraction attempts for audit.
type AttemptRepository interface {
	Create(ctx context.Context, a *entity.ExtractionAttempt) error
	Update(ctx context.Context, a *entity.ExtractionAttempt) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ExtractionAttempt, error)
	List(ctx context.Context, limit int) ([]entity.ExtractionAttempt, error)
}

type attemptRepository struct {
	db     *DB
	logger *slog.Logger
}

func NewAttemptRepository(db *DB, logger *slog.Logger) AttemptRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &attemptRepository{db: db, logger: logger}
}

func (r *attemptRepository) Create(ctx context.Context, a *entity.ExtractionAttempt) error {
	q := r.db.rebind(`INSERT INTO extraction_attempt
		(id, status, image_count, model_name, raw_reply, sanitized_reply, record_json, error_message, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, q,
		a.ID.String(), a.Status, a.ImageCount, a.ModelName,
		a.RawReply, a.SanitizedReply, string(a.RecordJSON), a.ErrorMessage,
		a.StartedAt, a.FinishedAt,
	)
	if err != nil {
		r.logger.Error("attempt.create.failed", "attempt_id", a.ID, "error", err)
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

func (r *attemptRepository) Update(ctx context.Context, a *entity.ExtractionAttempt) error {
	q := r.db.rebind(`UPDATE extraction_attempt SET
		status = ?, raw_reply = ?, sanitized_reply = ?, record_json = ?, error_message = ?, finished_at = ?
		WHERE id = ?`)
	res, err := r.db.ExecContext(ctx, q,
		a.Status, a.RawReply, a.SanitizedReply, string(a.RecordJSON), a.ErrorMessage, a.FinishedAt,
		a.ID.String(),
	)
	if err != nil {
		r.logger.Error("attempt.update.failed", "attempt_id", a.ID, "error", err)
		return fmt.Errorf("update attempt: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.NewAppError("ARCHIVE_ERROR", "attempt "+a.ID.String(), common.ErrNotFound)
	}
	return nil
}

const attemptColumns = `id, status, image_count, model_name, raw_reply, sanitized_reply, record_json, error_message, started_at, finished_at`

func (r *attemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ExtractionAttempt, error) {
	q := r.db.rebind(`SELECT ` + attemptColumns + ` FROM extraction_attempt WHERE id = ?`)
	a, err := scanAttempt(r.db.QueryRowContext(ctx, q, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewAppError("ARCHIVE_ERROR", "attempt "+id.String(), common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load attempt: %w", err)
	}
	return a, nil
}

func (r *attemptRepository) List(ctx context.Context, limit int) ([]entity.ExtractionAttempt, error) {
	if limit <= 0 {
		limit = 50
	}
	q := r.db.rebind(`SELECT ` + attemptColumns + ` FROM extraction_attempt ORDER BY started_at DESC LIMIT ?`)
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var out []entity.ExtractionAttempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttempt(row rowScanner) (*entity.ExtractionAttempt, error) {
	var (
		a          entity.ExtractionAttempt
		id         string
		recordJSON string
	)
	err := row.Scan(&id, &a.Status, &a.ImageCount, &a.ModelName,
		&a.RawReply, &a.SanitizedReply, &recordJSON, &a.ErrorMessage,
		&a.StartedAt, &a.FinishedAt)
	if err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("bad attempt id %q: %w", id, err)
	}
	a.ID = parsed
	if recordJSON != "" {
		a.RecordJSON = []byte(recordJSON)
	}
	return &a, nil
}
