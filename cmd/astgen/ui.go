package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"astgen/internal/loader"
	"astgen/internal/output"
)

var (
	errorColor = color.New(color.FgRed, color.Bold)
	noteColor  = color.New(color.FgCyan)
	okColor    = color.New(color.FgGreen)
)

// applyColor resolves --color into the global fatih/color switch.
func applyColor(cmd *cobra.Command) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch strings.ToLower(mode) {
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid color mode %q (expected auto|on|off)", mode)
	}
	return nil
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", errorColor.Sprint("error:"), err)
	var perr *loader.ParseError
	if errors.As(err, &perr) && len(perr.Diagnostics) > 1 {
		for _, line := range strings.Split(strings.TrimRight(perr.Detail(), "\n"), "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

func printSummary(w io.Writer, rep *output.Report) {
	for _, info := range rep.Info {
		fmt.Fprintf(w, "%s\n%s", noteColor.Sprintf("[%s]", info.Generator), info.Bytes)
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Generator", "Kind", "Path", "Bytes", "Status"})
	for _, e := range rep.Entries {
		tw.AppendRow(table.Row{e.Generator, e.Kind, e.Path, e.Size, entryStatus(rep, e)})
	}
	tw.Render()

	verb := "wrote"
	if rep.DryRun {
		verb = "planned"
	}
	written, unchanged := 0, 0
	for _, e := range rep.Entries {
		if e.Unchanged {
			unchanged++
		} else {
			written++
		}
	}
	msg := fmt.Sprintf("%s %d files", verb, written)
	if unchanged > 0 {
		msg += fmt.Sprintf(", %d unchanged", unchanged)
	}
	fmt.Fprintln(w, okColor.Sprint(msg))
}

func entryStatus(rep *output.Report, e output.Entry) string {
	switch {
	case e.Unchanged:
		return "unchanged"
	case rep.DryRun:
		return "planned"
	default:
		return "written"
	}
}
