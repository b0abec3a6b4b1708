package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voterscan/voterscan/internal/export"
	"github.com/voterscan/voterscan/internal/ingest"
)

var extractCmd = &cobra.Command{
	Use:   "extract IMAGE [IMAGE]",
	Short: "Extract a record from 1 or 2 card images",
	Long: `Run one extraction attempt against the configured vision model and
print the resulting record as canonical JSON.

Pass the front image first and the back image second.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		images, err := ingest.LoadImages(args)
		if err != nil {
			return err
		}

		rec, attemptID, err := a.proc.Run(ctx, images)
		if err != nil {
			return fmt.Errorf("attempt %s: %w", attemptID, err)
		}

		data, err := export.DumpJSON(rec)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
