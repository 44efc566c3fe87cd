package codegen_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astgen/internal/codegen"
	"astgen/internal/config"
	"astgen/internal/defs"
	"astgen/internal/generators"
	"astgen/internal/layout"
	"astgen/internal/observ"
	"astgen/internal/passes"
	"astgen/internal/testkit"
)

const spanDefs = `type Span = { start: u32, end: u32 }
`

const exprDefs = `
@visit @interchangeable(Node)
type Ident = { span: Span, name: str }
@visit @interchangeable(Node)
type Number = { span: Span, raw: str }
@visit
type Call = { span: Span, callee: Box<Expr>, args: Vec<Expr> }
@visit
enum Expr = { Ident(Box<Ident>), Number(Box<Number>), Call(Box<Call>) }
enum Op: u8 = { Add, Sub, Mul = 10 }
`

func fixture() fstest.MapFS {
	return testkit.MapFS(map[string]string{
		"defs/span.astdef": spanDefs,
		"defs/expr.astdef": exprDefs,
	})
}

func testConfig(root string) config.Config {
	cfg := config.Default()
	cfg.Root = root
	cfg.Definitions = []string{"defs/span.astdef", "defs/expr.astdef"}
	return cfg
}

func generate(t *testing.T, fsys fstest.MapFS) *codegen.Result {
	t.Helper()
	c, err := codegen.Default(testConfig("."))
	require.NoError(t, err)
	res, err := c.FS(fsys).Generate(context.Background())
	require.NoError(t, err)
	return res
}

func TestGenerateIsIdempotent(t *testing.T) {
	first := generate(t, fixture())
	second := generate(t, fixture())
	require.Len(t, second.Outputs, len(first.Outputs))
	for i := range first.Outputs {
		assert.Equal(t, first.Outputs[i].Generator, second.Outputs[i].Generator)
		assert.True(t, bytes.Equal(first.Outputs[i].Bytes, second.Outputs[i].Bytes), first.Outputs[i].Generator)
	}
}

func TestTypeIDsAreDenseAndStable(t *testing.T) {
	s := generate(t, fixture()).Schema
	want := []string{"Span", "Ident", "Number", "Call", "Expr", "Op"}
	require.Equal(t, len(want), s.Len())
	for i, name := range want {
		def, ok := s.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, defs.TypeID(i), def.ID)
		assert.Same(t, def, s.Def(def.ID))
	}
}

func TestReferencesAreClosed(t *testing.T) {
	s := generate(t, fixture()).Schema
	for _, def := range s.All() {
		for _, ref := range def.Refs() {
			require.True(t, ref.Resolved(), "%s: %s", def.Name, ref)
			if id := ref.Target(); id.IsValid() {
				assert.NotNil(t, s.Def(id), "%s: %s", def.Name, ref)
			}
		}
		require.NotNil(t, def.Layout, def.Name)
	}
}

func TestInterchangeableTypesShareLayout(t *testing.T) {
	s := generate(t, fixture()).Schema
	ident, _ := s.Lookup("Ident")
	number, _ := s.Lookup("Number")
	assert.Equal(t, ident.Layout.Size, number.Layout.Size)
	assert.Equal(t, ident.Layout.Align, number.Layout.Align)
}

func TestInterchangeableMismatchFails(t *testing.T) {
	fsys := fixture()
	fsys["defs/expr.astdef"] = &fstest.MapFile{Data: []byte(`
@interchangeable(Node) type Ident = { span: Span, name: str }
@interchangeable(Node) type Flag = { span: Span, on: bool }
`)}
	c, err := codegen.Default(testConfig("."))
	require.NoError(t, err)
	_, err = c.FS(fsys).Generate(context.Background())
	var mismatch *layout.MismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "Node", mismatch.Family)
}

func TestUnresolvedReferenceWritesNothing(t *testing.T) {
	fsys := fixture()
	fsys["defs/expr.astdef"] = &fstest.MapFile{Data: []byte("type Ident = { span: Span, name: Name }\n")}
	root := t.TempDir()

	_, err := codegen.Run(context.Background(), testConfig(root), codegen.RunOptions{FS: fsys})
	var unresolved *passes.UnresolvedReferenceError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "Name", unresolved.Name)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGeneratorFailureWritesNothing(t *testing.T) {
	fsys := fixture()
	fsys["defs/expr.astdef"] = &fstest.MapFile{Data: []byte("@span type Bare = { value: u32 }\n")}
	root := t.TempDir()

	_, err := codegen.Run(context.Background(), testConfig(root), codegen.RunOptions{FS: fsys})
	var gerr *generators.GeneratorError
	require.ErrorAs(t, err, &gerr)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunWritesAndDryRunPlansTheSame(t *testing.T) {
	wetRoot, dryRoot := t.TempDir(), t.TempDir()
	timer := observ.NewTimer()

	wet, err := codegen.Run(context.Background(), testConfig(wetRoot), codegen.RunOptions{
		FS: fixture(), SchemaPath: "schema.json", Timer: timer,
	})
	require.NoError(t, err)
	dry, err := codegen.Run(context.Background(), testConfig(dryRoot), codegen.RunOptions{
		FS: fixture(), SchemaPath: "schema.json", DryRun: true,
	})
	require.NoError(t, err)

	assert.Equal(t, wet.Output.Entries, dry.Output.Entries)
	left, err := os.ReadDir(dryRoot)
	require.NoError(t, err)
	assert.Empty(t, left)

	for _, e := range wet.Output.Entries {
		_, err := os.Stat(filepath.Join(wetRoot, filepath.FromSlash(e.Path)))
		assert.NoError(t, err, e.Path)
	}
	_, err = os.Stat(filepath.Join(wetRoot, "ast", "layout.msgpack"))
	require.NoError(t, err)

	var names []string
	for _, p := range timer.Report().Phases {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{
		"load", "symbols", "link", "layout", "schema",
		"gen:assert_layouts", "gen:types", "gen:kind", "gen:builder", "gen:span", "gen:visit", "gen:visit_mut",
		"write",
	}, names)
}

func TestBuilderRegistration(t *testing.T) {
	res, err := codegen.New().
		FS(fixture()).
		AddFile("defs/span.astdef").
		AddFile("defs/expr.astdef").
		Pass(passes.Linker{}).
		Pass(passes.CalcLayout{}).
		Gen(generators.Kind{}).
		Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Outputs, 1)
	assert.Equal(t, "kind", res.Outputs[0].Generator)
	assert.Equal(t, "ast/ast_kind.go", res.Outputs[0].Path)
	assert.Len(t, generators.KindTable(res.Schema), 3)
}

func TestShippedDefinitionsGenerate(t *testing.T) {
	cfg := config.Default()
	cfg.Root = filepath.Join("..", "..")
	c, err := codegen.Default(cfg)
	require.NoError(t, err)
	res, err := c.Generate(context.Background())
	require.NoError(t, err)
	assert.NotZero(t, res.Schema.Len())
	assert.NotEmpty(t, generators.KindTable(res.Schema))
}
