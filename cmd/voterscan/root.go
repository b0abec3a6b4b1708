package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/voterscan/voterscan/internal/common"
	"github.com/voterscan/voterscan/version"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "voterscan",
	Short: "Voter ID card extraction, review and reporting",
	Long: `Voterscan turns photographs of voter ID cards into structured records.

The pipeline sends 1 or 2 card images to a vision model, sanitizes and
parses the reply into a fixed set of fields, holds the result for operator
review and correction, and renders the finalized record as a paginated
report. Every attempt and every finalized record is archived.`,
	Version:      version.GitRelease,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml)",
	)
}

// newLogger builds the process-wide structured logger.
func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// loadConfig reads and validates configuration for a command run.
func loadConfig() (*common.Config, error) {
	cfg, err := common.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
