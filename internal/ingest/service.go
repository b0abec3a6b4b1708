// Package ingest watches an inbox directory for card photographs and feeds
// them to the extraction queue. Files named "<stem>_front.<ext>" and
// "<stem>_back.<ext>" are submitted together as one two-image attempt.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/voterscan/voterscan/constants"
	"github.com/voterscan/voterscan/internal/async"
	"github.com/voterscan/voterscan/internal/llm"
)

// Service glues the watcher, the pairing convention and the job queue.
type Service struct {
	logger *slog.Logger
	queue  async.Queue
}

func NewService(queue async.Queue, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger, queue: queue}
}

// Run consumes watcher events until ctx is cancelled or the watcher stops.
func (s *Service) Run(ctx context.Context, cfg WatchConfig) error {
	events, errs, err := StartWatcher(ctx, cfg, s.logger)
	if err != nil {
		return err
	}
	s.logger.Info("ingest.watch.start", "root", cfg.Root, "debounce", cfg.Debounce.String())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-errs:
			if ok {
				s.logger.Warn("ingest.watch.error", "error", err)
			}
		case path, ok := <-events:
			if !ok {
				return nil
			}
			s.submit(ctx, path)
		}
	}
}

func (s *Service) submit(ctx context.Context, path string) {
	paths := PairImages(path)
	if len(paths) == 0 {
		return
	}
	job := async.Job{ID: uuid.New(), ImagePaths: paths, SubmittedAt: time.Now().UTC()}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.logger.Warn("ingest.enqueue.failed", "path", path, "error", err)
		return
	}
	s.logger.Info("ingest.enqueue.ok", "job_id", job.ID, "images", len(paths))
}

// LoadImages reads image files into inference inputs, gating extension and
// size before any bytes reach the backend.
func LoadImages(paths []string) ([]llm.ImageInput, error) {
	images := make([]llm.ImageInput, 0, len(paths))
	for _, p := range paths {
		ext := constants.NormalizeExt(filepath.Ext(p))
		mediaType, ok := constants.MediaTypes[ext]
		if !ok {
			return nil, fmt.Errorf("unsupported image extension %q", ext)
		}
		st, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if st.Size() > constants.MaxImageMB*1024*1024 {
			return nil, fmt.Errorf("image %s exceeds %d MB", filepath.Base(p), constants.MaxImageMB)
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		images = append(images, llm.ImageInput{Bytes: data, MediaType: mediaType})
	}
	return images, nil
}
