// Package output commits generator outputs to disk: sources and data are
// written atomically under a root, sources are formatted first, and info
// outputs are only reported.
package output

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"astgen/internal/fsutil"
	"astgen/internal/generators"
	"astgen/internal/schema"
	"astgen/internal/trace"
)

// SchemaGenerator names the schema entry of a Report.
const SchemaGenerator = "schema"

// Options configures a Writer.
type Options struct {
	// Root is the directory output paths are relative to. Defaults to ".".
	Root string
	// Jobs bounds concurrent writes; 0 uses GOMAXPROCS.
	Jobs int
	// DryRun plans every write without touching the filesystem.
	DryRun bool
	// NoFormat skips the formatter.
	NoFormat bool
	// Formatter formats sources; nil selects Imports.
	Formatter Formatter
	// SchemaPath, when set, receives the encoded schema. A relative path is
	// resolved against Root; an absolute one is used as given.
	SchemaPath string
	// Perm is the mode of written files. Defaults to 0644.
	Perm os.FileMode
}

// Entry is one planned or written file.
type Entry struct {
	Generator string
	Kind      generators.OutputKind
	Path      string
	Size      int
	Formatted bool
	// Unchanged means the file already had this content and was left alone.
	Unchanged bool
}

// Report lists what a Write did, or would do in a dry run.
type Report struct {
	DryRun  bool
	Entries []Entry
	Info    []generators.Named
}

// Writer commits outputs.
type Writer struct {
	opts Options
}

func New(opts Options) *Writer {
	if opts.Root == "" {
		opts.Root = "."
	}
	if opts.Perm == 0 {
		opts.Perm = 0o644
	}
	if opts.Formatter == nil {
		opts.Formatter = Imports{}
	}
	return &Writer{opts: opts}
}

// Write commits outputs in order. The schema is encoded when SchemaPath is
// set. Every path is validated and every file is formatted before the first
// write, so a rejected output leaves the root untouched. In a dry run no
// file is created, but the report is the same.
func (w *Writer) Write(ctx context.Context, outputs []generators.Named, s *schema.Schema) (*Report, error) {
	span, ctx := trace.Start(ctx, trace.ScopePass, "write")
	report, err := w.write(ctx, outputs, s)
	if err != nil {
		span.Fail(err)
		return nil, err
	}
	span.WithExtra("files", fmt.Sprint(len(report.Entries))).
		WithExtra("dry_run", fmt.Sprint(w.opts.DryRun)).
		End("")
	return report, nil
}

// pending is a validated file with its final content.
type pending struct {
	entry Entry
	full  string
	data  []byte
}

func (w *Writer) write(ctx context.Context, outputs []generators.Named, s *schema.Schema) (*Report, error) {
	report := &Report{DryRun: w.opts.DryRun}

	var files []generators.Named
	seen := make(map[string]string)
	for _, out := range outputs {
		switch out.Kind {
		case generators.OutputNone:
			continue
		case generators.OutputInfo:
			report.Info = append(report.Info, out)
			continue
		}
		p, err := cleanPath(out.Path)
		if err != nil {
			return nil, fmt.Errorf("generator %s: %w", out.Generator, err)
		}
		if prev, dup := seen[p]; dup {
			return nil, fmt.Errorf("generators %s and %s both write %s", prev, out.Generator, p)
		}
		seen[p] = out.Generator
		out.Path = p
		files = append(files, out)
	}

	var schemaFile *pending
	if w.opts.SchemaPath != "" && s != nil {
		pf, err := w.prepareSchema(s, seen)
		if err != nil {
			return nil, err
		}
		schemaFile = pf
	}

	prepared := make([]pending, len(files))
	if err := w.each(ctx, len(files), func(ctx context.Context, i int) error {
		pf, err := w.prepare(ctx, files[i])
		if err != nil {
			return err
		}
		prepared[i] = pf
		return nil
	}); err != nil {
		return nil, err
	}
	if schemaFile != nil {
		prepared = append(prepared, *schemaFile)
	}

	if !w.opts.DryRun {
		if err := w.each(ctx, len(prepared), func(ctx context.Context, i int) error {
			return w.commit(ctx, &prepared[i])
		}); err != nil {
			return nil, err
		}
	}
	report.Entries = make([]Entry, len(prepared))
	for i := range prepared {
		report.Entries[i] = prepared[i].entry
	}
	return report, nil
}

// each runs fn for 0..n-1 with at most Jobs calls in flight.
func (w *Writer) each(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	if n == 0 {
		return nil
	}
	jobs := w.opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, n)))
	for i := range n {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i)
		})
	}
	return g.Wait()
}

func (w *Writer) prepare(ctx context.Context, out generators.Named) (pending, error) {
	span, ctx := trace.Start(ctx, trace.ScopeModule, "prepare:"+out.Path)
	data := out.Bytes
	entry := Entry{Generator: out.Generator, Kind: out.Kind, Path: out.Path}

	if out.Kind == generators.OutputStream && !w.opts.NoFormat {
		formatted, err := w.opts.Formatter.Format(ctx, out.Path, data)
		if err != nil {
			ioErr := &fsutil.IOError{Op: "format", Path: out.Path, Err: err}
			span.Fail(ioErr)
			return pending{}, ioErr
		}
		data = formatted
		entry.Formatted = true
	}
	entry.Size = len(data)

	full := filepath.Join(w.opts.Root, filepath.FromSlash(out.Path))
	entry.Unchanged = sameContent(full, data)
	span.End("")
	return pending{entry: entry, full: full, data: data}, nil
}

// prepareSchema encodes s for SchemaPath. Absolute paths are used as
// given; relative ones live under the root like generator outputs.
func (w *Writer) prepareSchema(s *schema.Schema, taken map[string]string) (*pending, error) {
	var rel, full string
	if filepath.IsAbs(w.opts.SchemaPath) {
		full = filepath.Clean(w.opts.SchemaPath)
		rel = full
	} else {
		p, err := cleanPath(w.opts.SchemaPath)
		if err != nil {
			return nil, fmt.Errorf("schema: %w", err)
		}
		if prev, dup := taken[p]; dup {
			return nil, fmt.Errorf("schema and generator %s both write %s", prev, p)
		}
		rel = p
		full = filepath.Join(w.opts.Root, filepath.FromSlash(p))
	}
	var buf bytes.Buffer
	if err := schema.Encode(&buf, s, schema.FormatFor(full)); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	data := buf.Bytes()
	return &pending{
		entry: Entry{
			Generator: SchemaGenerator,
			Kind:      generators.OutputData,
			Path:      rel,
			Size:      len(data),
			Unchanged: sameContent(full, data),
		},
		full: full,
		data: data,
	}, nil
}

func (w *Writer) commit(ctx context.Context, pf *pending) error {
	span, _ := trace.Start(ctx, trace.ScopeModule, "write:"+pf.entry.Path)
	if pf.entry.Unchanged {
		span.End("unchanged")
		return nil
	}
	if err := fsutil.WriteFileAtomic(pf.full, pf.data, w.opts.Perm); err != nil {
		span.Fail(err)
		return err
	}
	span.WithExtra("bytes", fmt.Sprint(len(pf.data))).End("")
	return nil
}

func sameContent(full string, data []byte) bool {
	existing, err := os.ReadFile(full)
	return err == nil && bytes.Equal(existing, data)
}

var errEscapesRoot = errors.New("path escapes the output root")

// cleanPath normalizes a slash-separated output path relative to the root.
func cleanPath(p string) (string, error) {
	if p == "" {
		return "", errors.New("empty output path")
	}
	p = filepath.ToSlash(p)
	if path.IsAbs(p) || filepath.IsAbs(p) {
		return "", fmt.Errorf("%s: %w", p, errEscapesRoot)
	}
	clean := path.Clean(p)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%s: %w", p, errEscapesRoot)
	}
	return clean, nil
}
