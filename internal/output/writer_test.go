package output_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astgen/internal/fsutil"
	"astgen/internal/generators"
	"astgen/internal/output"
	"astgen/internal/testkit"
)

const unformatted = "// Code generated by astgen. DO NOT EDIT.\n\npackage ast\n\ntype   Span struct{Start uint32\nEnd uint32}\n"

func outputs() []generators.Named {
	return []generators.Named{
		{Generator: "assert_layouts", Output: generators.Output{Kind: generators.OutputInfo, Bytes: []byte("layouts")}},
		{Generator: "types", Output: generators.Output{Kind: generators.OutputStream, Path: "ast/ast_types.go", Bytes: []byte(unformatted)}},
		{Generator: "span", Output: generators.Output{Kind: generators.OutputNone}},
		{Generator: "data", Output: generators.Output{Kind: generators.OutputData, Path: "ast/layout.msgpack", Bytes: []byte{0x81, 0x01}}},
	}
}

func TestWriteFormatsAndCommits(t *testing.T) {
	root := t.TempDir()
	w := output.New(output.Options{Root: root, Jobs: 2})
	report, err := w.Write(context.Background(), outputs(), nil)
	require.NoError(t, err)

	require.Len(t, report.Entries, 2)
	assert.Equal(t, "ast/ast_types.go", report.Entries[0].Path)
	assert.True(t, report.Entries[0].Formatted)
	assert.False(t, report.Entries[1].Formatted)
	require.Len(t, report.Info, 1)
	assert.Equal(t, "assert_layouts", report.Info[0].Generator)

	src, err := os.ReadFile(filepath.Join(root, "ast", "ast_types.go"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "type Span struct {\n\tStart uint32\n\tEnd   uint32\n}")
	data, err := os.ReadFile(filepath.Join(root, "ast", "layout.msgpack"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x81, 0x01}, data)

	entries, err := os.ReadDir(filepath.Join(root, "ast"))
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temp files are left behind")
}

func TestWriteSkipsUnchangedFiles(t *testing.T) {
	root := t.TempDir()
	w := output.New(output.Options{Root: root})
	_, err := w.Write(context.Background(), outputs(), nil)
	require.NoError(t, err)

	report, err := w.Write(context.Background(), outputs(), nil)
	require.NoError(t, err)
	for _, e := range report.Entries {
		assert.True(t, e.Unchanged, e.Path)
	}
}

func TestDryRunMatchesRealRun(t *testing.T) {
	s := testkit.Compile(t, testkit.SpanDef)
	dryRoot, realRoot := t.TempDir(), t.TempDir()

	dry, err := output.New(output.Options{Root: dryRoot, DryRun: true, SchemaPath: "schema.json"}).
		Write(context.Background(), outputs(), s)
	require.NoError(t, err)
	wet, err := output.New(output.Options{Root: realRoot, SchemaPath: "schema.json"}).
		Write(context.Background(), outputs(), s)
	require.NoError(t, err)

	assert.True(t, dry.DryRun)
	assert.Equal(t, wet.Entries, dry.Entries)
	assert.Equal(t, wet.Info, dry.Info)

	left, err := os.ReadDir(dryRoot)
	require.NoError(t, err)
	assert.Empty(t, left)
	_, err = os.Stat(filepath.Join(realRoot, "schema.json"))
	require.NoError(t, err)
}

func TestWriteSchemaYAML(t *testing.T) {
	root := t.TempDir()
	s := testkit.Compile(t, testkit.SpanDef)
	report, err := output.New(output.Options{Root: root, SchemaPath: "out/schema.yaml"}).Write(context.Background(), nil, s)
	require.NoError(t, err)
	require.Len(t, report.Entries, 1)
	assert.Equal(t, output.SchemaGenerator, report.Entries[0].Generator)

	data, err := os.ReadFile(filepath.Join(root, "out", "schema.yaml"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "target: x86_64-linux-gnu\n"), string(data))
}

func TestNoFormatKeepsBytes(t *testing.T) {
	root := t.TempDir()
	_, err := output.New(output.Options{Root: root, NoFormat: true}).Write(context.Background(), outputs(), nil)
	require.NoError(t, err)
	src, err := os.ReadFile(filepath.Join(root, "ast", "ast_types.go"))
	require.NoError(t, err)
	assert.Equal(t, unformatted, string(src))
}

func TestFormatFailureIsIOError(t *testing.T) {
	outs := []generators.Named{{Generator: "types", Output: generators.Output{
		Kind: generators.OutputStream, Path: "ast/bad.go", Bytes: []byte("package ast\nfunc {"),
	}}}
	root := t.TempDir()
	_, err := output.New(output.Options{Root: root}).Write(context.Background(), outs, nil)
	var ioErr *fsutil.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "format", ioErr.Op)
	_, statErr := os.Stat(filepath.Join(root, "ast", "bad.go"))
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestRejectsBadPaths(t *testing.T) {
	for _, p := range []string{"../escape.go", "/abs/file.go", ""} {
		outs := []generators.Named{{Generator: "types", Output: generators.Output{Kind: generators.OutputData, Path: p}}}
		_, err := output.New(output.Options{Root: t.TempDir()}).Write(context.Background(), outs, nil)
		assert.Error(t, err, p)
	}

	dup := []generators.Named{
		{Generator: "a", Output: generators.Output{Kind: generators.OutputData, Path: "x/file"}},
		{Generator: "b", Output: generators.Output{Kind: generators.OutputData, Path: "x/./file"}},
	}
	_, err := output.New(output.Options{Root: t.TempDir()}).Write(context.Background(), dup, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both write x/file")
}

func TestBadSchemaPathWritesNothing(t *testing.T) {
	s := testkit.Compile(t, testkit.SpanDef)
	for _, p := range []string{"../schema.json", "ast/ast_types.go"} {
		root := t.TempDir()
		_, err := output.New(output.Options{Root: root, SchemaPath: p}).Write(context.Background(), outputs(), s)
		require.Error(t, err, p)

		left, err := os.ReadDir(root)
		require.NoError(t, err)
		assert.Empty(t, left, p)
	}
}

func TestAbsoluteSchemaPathOutsideRoot(t *testing.T) {
	s := testkit.Compile(t, testkit.SpanDef)
	root := t.TempDir()
	abs := filepath.Join(t.TempDir(), "schema.json")

	report, err := output.New(output.Options{Root: root, SchemaPath: abs}).Write(context.Background(), outputs(), s)
	require.NoError(t, err)
	last := report.Entries[len(report.Entries)-1]
	assert.Equal(t, output.SchemaGenerator, last.Generator)
	assert.Equal(t, abs, last.Path)

	data, err := os.ReadFile(abs)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{"), string(data))
	_, err = os.Stat(filepath.Join(root, "ast", "ast_types.go"))
	require.NoError(t, err)
}

func TestFormatFailureWritesNoSibling(t *testing.T) {
	outs := append(outputs(), generators.Named{Generator: "visit", Output: generators.Output{
		Kind: generators.OutputStream, Path: "ast/ast_visit.go", Bytes: []byte("package ast\nfunc {"),
	}})
	root := t.TempDir()
	_, err := output.New(output.Options{Root: root, Jobs: 1}).Write(context.Background(), outs, nil)
	require.Error(t, err)

	left, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestCommandFormatter(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}
	f := output.NewFormatter([]string{"cat"})
	assert.Equal(t, "cat", f.Name())
	got, err := f.Format(context.Background(), "x.go", []byte("package x\n"))
	require.NoError(t, err)
	assert.Equal(t, "package x\n", string(got))

	_, ok := output.NewFormatter(nil).(output.Imports)
	assert.True(t, ok)
}
