// Package async provides the single-worker job queue between the inbox
// watcher and the extraction pipeline. One worker means at most one
// extraction is ever in flight, so the later completion always wins and the
// record store is never raced.
package async

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Job is one queued extraction: the image paths of a card (front, and
// optionally back).
type Job struct {
	ID          uuid.UUID
	ImagePaths  []string
	SubmittedAt time.Time
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}

// Handler processes one job. Errors are the handler's business; the queue
// only sequences work.
type Handler func(ctx context.Context, job Job)

type ChanQueue struct {
	logger *slog.Logger
	ch     chan Job
	done   chan struct{}
}

// NewChanQueue starts the single worker goroutine. ctx cancellation drains
// nothing: pending jobs are dropped on Shutdown.
func NewChanQueue(ctx context.Context, size int, handler Handler, logger *slog.Logger) *ChanQueue {
	if logger == nil {
		logger = slog.Default()
	}
	if size <= 0 {
		size = 16
	}
	q := &ChanQueue{
		logger: logger,
		ch:     make(chan Job, size),
		done:   make(chan struct{}),
	}
	go func() {
		defer close(q.done)
		for {
			select {
			case <-ctx.Done():
				return
			case job, ok := <-q.ch:
				if !ok {
					return
				}
				q.logger.Info("queue.job.start", "job_id", job.ID, "images", len(job.ImagePaths))
				handler(ctx, job)
			}
		}
	}()
	return q
}

func (q *ChanQueue) Enqueue(ctx context.Context, job Job) error {
	select {
	case q.ch <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return errors.New("queue full")
	}
}

func (q *ChanQueue) Shutdown(ctx context.Context) {
	close(q.ch)
	select {
	case <-q.done:
	case <-ctx.Done():
	}
}
