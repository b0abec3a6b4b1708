// Package server exposes the extraction pipeline, the live record and the
// archive over a small JSON HTTP API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/voterscan/voterscan/internal/common"
	"github.com/voterscan/voterscan/internal/export"
	"github.com/voterscan/voterscan/internal/pipeline"
	"github.com/voterscan/voterscan/internal/repository"
	"github.com/voterscan/voterscan/internal/store"
)

type Server struct {
	logger   *slog.Logger
	proc     *pipeline.Processor
	store    *store.RecordStore
	attempts repository.AttemptRepository
	records  repository.RecordRepository
	export   *export.Service

	// extractMu keeps at most one extraction in flight through this API.
	extractMu sync.Mutex
}

func New(
	logger *slog.Logger,
	proc *pipeline.Processor,
	recordStore *store.RecordStore,
	attempts repository.AttemptRepository,
	records repository.RecordRepository,
	exportSvc *export.Service,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		logger:   logger,
		proc:     proc,
		store:    recordStore,
		attempts: attempts,
		records:  records,
		export:   exportSvc,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("POST /v1/extract", s.handleExtract)

	mux.HandleFunc("GET /v1/record", s.handleGetRecord)
	mux.HandleFunc("PATCH /v1/record/{field}", s.handleEditRecord)
	mux.HandleFunc("GET /v1/record/report", s.handleReport)
	mux.HandleFunc("GET /v1/record/export", s.handleDumpRecord)

	mux.HandleFunc("GET /v1/records", s.handleListRecords)
	mux.HandleFunc("GET /v1/records/export.xlsx", s.handleExportXLSX)
	mux.HandleFunc("GET /v1/attempts", s.handleListAttempts)

	return s.withRequestLog(mux)
}

// ListenAndServe runs the HTTP server until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server.listen", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rid := uuid.New().String()
		r = r.WithContext(common.WithRequestID(r.Context(), rid))
		next.ServeHTTP(w, r)
		s.logger.Info("http.request",
			"req_id", rid,
			"method", r.Method, "path", r.URL.Path,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"record_held": s.store.Held(),
	})
}

// statusFor maps pipeline sentinels onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrInvalidInput), errors.Is(err, common.ErrUnknownField):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrNoRecord), errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrTransport), errors.Is(err, common.ErrService), errors.Is(err, common.ErrMalformed):
		return http.StatusBadGateway
	case errors.Is(err, common.ErrCredential):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
