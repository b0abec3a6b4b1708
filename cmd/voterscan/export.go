package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	exportOut   string
	exportLimit int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export archived records to an XLSX workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		data, err := a.export.ExportRecordsXLSX(ctx, exportLimit)
		if err != nil {
			return err
		}
		if err := os.WriteFile(exportOut, data, 0o644); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "wrote", exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "voter-records.xlsx", "output file")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 0, "max records to export (0 = repository default)")
	rootCmd.AddCommand(exportCmd)
}
