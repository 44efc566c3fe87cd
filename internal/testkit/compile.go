package testkit

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"astgen/internal/layout"
	"astgen/internal/loader"
	"astgen/internal/passes"
	"astgen/internal/schema"
	"astgen/internal/symbols"
)

// SpanDef is the span node most fixtures reference.
const SpanDef = "type Span = { start: u32, end: u32 }\n"

// MapFS builds an in-memory filesystem from path -> content.
func MapFS(files map[string]string) fstest.MapFS {
	fsys := make(fstest.MapFS, len(files))
	for name, body := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return fsys
}

// Compile runs load, symbols, link and layout over a single definition
// source and lowers the result.
func Compile(t testing.TB, src string) *schema.Schema {
	t.Helper()
	ctx := context.Background()
	fsys := MapFS(map[string]string{"defs.astdef": src})
	mods, err := loader.Load(ctx, []string{"defs.astdef"}, loader.Options{FS: fsys})
	require.NoError(t, err)
	table, err := symbols.Build(ctx, mods)
	require.NoError(t, err)
	target := layout.X86_64LinuxGNU()
	for _, p := range []passes.Pass{passes.Linker{}, passes.CalcLayout{Target: target}} {
		require.NoError(t, p.Run(ctx, table), p.Name())
	}
	return schema.Lower(table, target)
}
