package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/voterscan/voterscan/internal/entity"
	"github.com/voterscan/voterscan/internal/report"
)

var (
	renderOut    string
	renderFormat string
)

var renderCmd = &cobra.Command{
	Use:   "render RECORD.json",
	Short: "Render a record dump as a paginated report",
	Long: `Render a record JSON dump (as produced by "voterscan extract" or the
/v1/record/export endpoint) into the paginated report.

Unknown keys in the dump are ignored; missing fields print as N/A.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("parse record dump: %w", err)
		}
		rec := entity.FromMap(m)

		doc := report.Render(rec)

		switch renderFormat {
		case "text":
			out := cmd.OutOrStdout()
			if renderOut != "" {
				f, err := os.Create(renderOut)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			return report.WriteText(doc, out)
		case "pdf":
			if renderOut == "" {
				renderOut = "voter-details-report.pdf"
			}
			f, err := os.Create(renderOut)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := report.WritePDF(doc, f); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", renderOut)
			return nil
		default:
			return fmt.Errorf("unknown format %q (want pdf or text)", renderFormat)
		}
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "output file (default: stdout for text, voter-details-report.pdf for pdf)")
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "pdf", "output format: pdf or text")
	rootCmd.AddCommand(renderCmd)
}
