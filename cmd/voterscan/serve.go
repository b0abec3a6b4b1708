package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/voterscan/voterscan/internal/async"
	"github.com/voterscan/voterscan/internal/ingest"
	"github.com/voterscan/voterscan/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the extraction API server",
	Long: `Run the HTTP API server.

Endpoints:
  POST  /v1/extract              submit 1-2 card images for extraction
  GET   /v1/record               the live record, edits applied
  PATCH /v1/record/{field}       rewrite one field
  GET   /v1/record/report        paginated report (format=pdf|text)
  GET   /v1/record/export        canonical JSON dump
  GET   /v1/records              archived records
  GET   /v1/records/export.xlsx  archive workbook
  GET   /v1/attempts             extraction audit trail

With ingest.inbox_dir configured, images dropped into the inbox are picked
up and extracted automatically.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		var queue *async.ChanQueue
		if a.cfg.Ingest.InboxDir != "" {
			queue = async.NewChanQueue(ctx, 64, a.handleInboxJob, a.logger)
			svc := ingest.NewService(queue, a.logger)
			go func() {
				err := svc.Run(ctx, ingest.WatchConfig{
					Root:        a.cfg.Ingest.InboxDir,
					InitialScan: true,
					Debounce:    a.cfg.Ingest.Debounce,
				})
				if err != nil && ctx.Err() == nil {
					a.logger.Error("ingest.watch.stopped", "error", err)
				}
			}()
		}

		srv := server.New(a.logger, a.proc, a.store, a.attempts, a.records, a.export)
		err = srv.ListenAndServe(ctx, a.cfg.Server.Addr)

		if queue != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			queue.Shutdown(shutdownCtx)
		}
		return err
	},
}

func (a *app) handleInboxJob(ctx context.Context, job async.Job) {
	images, err := ingest.LoadImages(job.ImagePaths)
	if err != nil {
		a.logger.Warn("ingest.load.failed", "job_id", job.ID, "error", err)
		return
	}
	if _, _, err := a.proc.Run(ctx, images); err != nil {
		a.logger.Warn("ingest.extract.failed", "job_id", job.ID, "error", err)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
