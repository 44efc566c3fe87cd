package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"astgen/internal/codegen"
	"astgen/internal/config"
	"astgen/internal/observ"
)

type generateFlags struct {
	dryRun     bool
	noFmt      bool
	schemaPath string
	configPath string
	root       string
	jobs       int
	quiet      bool
	timings    bool
}

func readGenerateFlags(cmd *cobra.Command) (generateFlags, error) {
	var f generateFlags
	var err error
	flags := cmd.Flags()
	if f.dryRun, err = flags.GetBool("dry-run"); err != nil {
		return f, err
	}
	if f.noFmt, err = flags.GetBool("no-fmt"); err != nil {
		return f, err
	}
	if f.schemaPath, err = flags.GetString("schema"); err != nil {
		return f, err
	}
	// --schema names a path from the caller's directory, not the output root.
	if f.schemaPath != "" {
		if f.schemaPath, err = filepath.Abs(f.schemaPath); err != nil {
			return f, err
		}
	}
	if f.configPath, err = flags.GetString("config"); err != nil {
		return f, err
	}
	if f.root, err = flags.GetString("root"); err != nil {
		return f, err
	}
	if f.jobs, err = flags.GetInt("jobs"); err != nil {
		return f, err
	}
	if f.jobs < 0 {
		return f, fmt.Errorf("--jobs must be >= 0, got %d", f.jobs)
	}
	if f.quiet, err = cmd.Root().PersistentFlags().GetBool("quiet"); err != nil {
		return f, err
	}
	if f.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return f, err
	}
	return f, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	f, err := readGenerateFlags(cmd)
	if err != nil {
		return err
	}
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	startDir := f.root
	if startDir == "" {
		if startDir, err = os.Getwd(); err != nil {
			return err
		}
	}
	cfg, err := config.Resolve(f.configPath, startDir)
	if err != nil {
		return err
	}
	if f.root != "" {
		cfg.Root = f.root
	}

	var timer *observ.Timer
	if f.timings {
		timer = observ.NewTimer()
	}
	rep, err := codegen.Run(cmd.Context(), cfg, codegen.RunOptions{
		DryRun:     f.dryRun,
		NoFormat:   f.noFmt,
		SchemaPath: f.schemaPath,
		Jobs:       f.jobs,
		Timer:      timer,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !f.quiet {
		printSummary(out, rep.Output)
	}
	if timer != nil {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	return nil
}
