package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"astgen/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show astgen build metadata",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), version.String())
		return err
	},
}
