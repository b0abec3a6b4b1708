// Package pipeline orchestrates one extraction attempt end to end:
// build request -> call backend -> sanitize -> parse -> seed store.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"

	"github.com/voterscan/voterscan/constants"
	"github.com/voterscan/voterscan/internal/common"
	"github.com/voterscan/voterscan/internal/entity"
	"github.com/voterscan/voterscan/internal/llm"
	"github.com/voterscan/voterscan/internal/repository"
	"github.com/voterscan/voterscan/internal/store"
)

// Config holds processor behavior flags.
type Config struct {
	ModelName       string
	MaxOutputTokens int           // reply length ceiling, 0 means llm.DefaultMaxOutputTokens
	MaxRetries      uint          // extra attempts after the first call, 0 disables retry
	RetryDelay      time.Duration // base backoff delay
}

// Processor runs extraction attempts against one RecordStore. The store is
// seeded only after a successful parse; every failure leaves the last good
// record (and any operator edits) in place.
type Processor struct {
	logger   *slog.Logger
	cfg      Config
	client   llm.Client
	store    *store.RecordStore
	attempts repository.AttemptRepository
	records  repository.RecordRepository
}

func NewProcessor(
	logger *slog.Logger,
	cfg Config,
	client llm.Client,
	recordStore *store.RecordStore,
	attempts repository.AttemptRepository,
	records repository.RecordRepository,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}
	return &Processor{
		logger:   logger,
		cfg:      cfg,
		client:   client,
		store:    recordStore,
		attempts: attempts,
		records:  records,
	}
}

// Store exposes the record store this processor seeds.
func (p *Processor) Store() *store.RecordStore {
	return p.store
}

// Run executes one extraction attempt. Input validation happens before any
// network call or archive row: a bad image set returns ErrInvalidInput and
// the backend is never invoked.
//
// Transport and service failures are retried with bounded backoff (the call
// has no side effects beyond reading images and returning text, so repeats
// are safe). Credential and parse failures are not retried.
func (p *Processor) Run(ctx context.Context, images []llm.ImageInput) (entity.Record, uuid.UUID, error) {
	req, err := llm.NewExtractRequest(images, p.cfg.MaxOutputTokens)
	if err != nil {
		p.logger.Error("pipeline.request.invalid", "images", len(images), "error", err)
		return entity.Record{}, uuid.Nil, err
	}

	attempt := &entity.ExtractionAttempt{
		ID:         uuid.New(),
		Status:     string(constants.AttemptStatusRunning),
		ImageCount: len(images),
		ModelName:  p.cfg.ModelName,
		StartedAt:  time.Now().UTC(),
	}
	if err := p.attempts.Create(ctx, attempt); err != nil {
		return entity.Record{}, uuid.Nil, common.WrapError(err, "persist attempt")
	}

	start := time.Now()
	p.logger.Info("pipeline.extract.start", "attempt_id", attempt.ID, "images", len(images))

	raw, err := p.callWithRetry(ctx, req)
	if err != nil {
		p.fail(ctx, attempt, err)
		p.logger.Error("pipeline.extract.failed",
			"attempt_id", attempt.ID, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return entity.Record{}, attempt.ID, err
	}
	attempt.RawReply = raw
	attempt.Status = string(constants.AttemptStatusExtractOK)

	sanitized := llm.Sanitize(raw)
	attempt.SanitizedReply = sanitized

	rec, err := llm.ParseRecord(sanitized, p.logger)
	if err != nil {
		// Keep raw + sanitized on the attempt row so the operator can see
		// what the model actually said, not just "failed".
		p.fail(ctx, attempt, err)
		p.logger.Error("pipeline.parse.failed",
			"attempt_id", attempt.ID, "error", err,
			"raw_len", len(raw), "sanitized_len", len(sanitized),
		)
		return entity.Record{}, attempt.ID, err
	}

	// Only a successful parse replaces the held record.
	p.store.Seed(rec)

	recordJSON, err := rec.MarshalOrdered()
	if err == nil {
		attempt.RecordJSON = recordJSON
	}
	attempt.Status = string(constants.AttemptStatusParseOK)
	now := time.Now().UTC()
	attempt.FinishedAt = &now
	if err := p.attempts.Update(ctx, attempt); err != nil {
		p.logger.Warn("pipeline.attempt.update_failed", "attempt_id", attempt.ID, "error", err)
	}
	if _, err := p.records.Save(ctx, attempt.ID, rec); err != nil {
		p.logger.Warn("pipeline.record.archive_failed", "attempt_id", attempt.ID, "error", err)
	}

	p.logger.Info("pipeline.extract.ok",
		"attempt_id", attempt.ID,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rec, attempt.ID, nil
}

func (p *Processor) callWithRetry(ctx context.Context, req llm.ExtractRequest) (string, error) {
	return retry.DoWithData(
		func() (string, error) {
			return p.client.Extract(ctx, req)
		},
		retry.Context(ctx),
		retry.Attempts(p.cfg.MaxRetries+1),
		retry.Delay(p.cfg.RetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, common.ErrTransport) || errors.Is(err, common.ErrService)
		}),
		retry.OnRetry(func(n uint, err error) {
			p.logger.Warn("pipeline.extract.retry", "attempt", n+1, "error", err)
		}),
	)
}

func (p *Processor) fail(ctx context.Context, attempt *entity.ExtractionAttempt, cause error) {
	attempt.Status = string(constants.AttemptStatusFailed)
	attempt.ErrorMessage = cause.Error()
	now := time.Now().UTC()
	attempt.FinishedAt = &now
	if err := p.attempts.Update(ctx, attempt); err != nil {
		p.logger.Warn("pipeline.attempt.update_failed", "attempt_id", attempt.ID, "error", err)
	}
}
