package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voterscan/voterscan/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "voterscan %s (%s)\n", version.GitRelease, version.GitCommit)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
