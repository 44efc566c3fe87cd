package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"astgen/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "astgen",
	Short: "Generate AST companion code from node definitions",
	Long: `astgen reads .astdef node definitions, links and lays them out, and writes
kind tags, builders, span accessors and visitors for a Go AST package.`,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runGenerate,
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(versionCmd)

	rootCmd.Flags().Bool("dry-run", false, "plan every write without touching the filesystem")
	rootCmd.Flags().Bool("no-fmt", false, "skip formatting of generated sources")
	rootCmd.Flags().String("schema", "", "also write the linked schema (.json or .yaml); relative to the working directory")
	rootCmd.Flags().String("config", "", "path to astgen.toml (default: nearest astgen.toml)")
	rootCmd.Flags().String("root", "", "directory definitions and outputs are relative to")
	rootCmd.Flags().Int("jobs", 0, "max concurrent writes (0=auto)")

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (- for stderr, .ndjson for JSON)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson); auto picks by extension")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to this file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to this file")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return applyColor(cmd)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError(rootCmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}
