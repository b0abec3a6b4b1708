package main

import (
	"context"
	"log/slog"

	"github.com/voterscan/voterscan/internal/common"
	"github.com/voterscan/voterscan/internal/export"
	"github.com/voterscan/voterscan/internal/llm/openai"
	"github.com/voterscan/voterscan/internal/pipeline"
	"github.com/voterscan/voterscan/internal/repository"
	"github.com/voterscan/voterscan/internal/store"
)

// app wires the archive, the inference client and the pipeline for a command
// run. Built once per invocation, closed on exit.
type app struct {
	cfg    *common.Config
	logger *slog.Logger

	db       *repository.DB
	attempts repository.AttemptRepository
	records  repository.RecordRepository
	store    *store.RecordStore
	proc     *pipeline.Processor
	export   *export.Service
}

func newApp(ctx context.Context) (*app, error) {
	logger := newLogger()
	slog.SetDefault(logger)

	cfg, err := loadConfig()
	if err != nil {
		logger.Error("config load failed", "error", err)
		return nil, err
	}

	db, err := repository.Open(ctx, repository.Config{DSN: cfg.Archive.DSN}, logger)
	if err != nil {
		return nil, err
	}
	if err := repository.Migrate(ctx, db, logger); err != nil {
		repository.Close(db, logger)
		return nil, err
	}

	attempts := repository.NewAttemptRepository(db, logger)
	records := repository.NewRecordRepository(db, logger)

	client := openai.NewClient(openai.Config{
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		CredentialFile: cfg.LLM.CredentialFile,
		Timeout:        cfg.LLM.Timeout,
	}, logger)

	recordStore := store.NewRecordStore()
	proc := pipeline.NewProcessor(logger, pipeline.Config{
		ModelName:       cfg.LLM.Model,
		MaxOutputTokens: cfg.LLM.MaxOutputTokens,
		MaxRetries:      cfg.LLM.MaxRetries,
	}, client, recordStore, attempts, records)

	return &app{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		attempts: attempts,
		records:  records,
		store:    recordStore,
		proc:     proc,
		export:   export.NewService(records, logger),
	}, nil
}

func (a *app) Close() {
	repository.Close(a.db, a.logger)
}
