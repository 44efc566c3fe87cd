package passes_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astgen/internal/defs"
	"astgen/internal/layout"
	"astgen/internal/loader"
	"astgen/internal/passes"
	"astgen/internal/symbols"
)

const spanDef = "type Span = { start: u32, end: u32 }\n"

func table(t *testing.T, src string) *symbols.Table {
	t.Helper()
	fsys := fstest.MapFS{"defs.astdef": &fstest.MapFile{Data: []byte(src)}}
	mods, err := loader.Load(context.Background(), []string{"defs.astdef"}, loader.Options{FS: fsys})
	require.NoError(t, err)
	tbl, err := symbols.Build(context.Background(), mods)
	require.NoError(t, err)
	return tbl
}

func def(t *testing.T, tbl *symbols.Table, name string) *defs.TypeDef {
	t.Helper()
	id, ok := tbl.Lookup(name)
	require.True(t, ok, name)
	return tbl.Def(id)
}

func TestLinkerResolvesEveryReference(t *testing.T) {
	tbl := table(t, spanDef+`
type Ident = { span: Span, name: str }
type Call = { span: Span, callee: Box<Expression>, args: Vec<Expression>, label: Ident? }
enum Expression = { Call(Box<Call>), Ident(Box<Ident>) }
`)
	require.NoError(t, passes.Linker{}.Run(context.Background(), tbl))

	for _, d := range tbl.All() {
		for _, ref := range d.Refs() {
			assert.True(t, ref.Resolved(), "%s: %s", d.Name, ref)
			if id := ref.Target(); id.IsValid() {
				assert.Less(t, int(id), tbl.Len())
			}
		}
	}
	call := def(t, tbl, "Call")
	exprID, _ := tbl.Lookup("Expression")
	assert.Equal(t, exprID, call.Fields[1].Type.Target())
	assert.Equal(t, exprID, call.Fields[2].Type.Target())
}

func TestLinkerAggregatesUnresolved(t *testing.T) {
	tbl := table(t, `
type A = { x: Missing, y: u8 }
type B = { z: Vec<AlsoMissing> }
`)
	err := passes.Linker{}.Run(context.Background(), tbl)
	require.Error(t, err)

	var first *passes.UnresolvedReferenceError
	require.ErrorAs(t, err, &first)
	assert.Equal(t, "A", first.Type)
	assert.Equal(t, "x", first.Member)
	assert.Equal(t, "Missing", first.Name)

	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok)
	require.Len(t, joined.Unwrap(), 2)
	var second *passes.UnresolvedReferenceError
	require.True(t, errors.As(joined.Unwrap()[1], &second))
	assert.Equal(t, "AlsoMissing", second.Name)
	assert.Contains(t, err.Error(), `unresolved type "AlsoMissing" referenced by B.z`)
}

func TestLinkerSplicesInheritedVariants(t *testing.T) {
	tbl := table(t, `
type Num = { v: f64 }
type Str = { v: str }
type Bin = { op: u8 }
enum Literal = { Num(Box<Num>) = 0, Str(Box<Str>) = 1 }
@inherit(Literal)
enum Primary = { Paren = 4 }
@inherit(Primary, Literal)
enum Expression = { Bin(Box<Bin>) = 8 }
`)
	require.NoError(t, passes.Linker{}.Run(context.Background(), tbl))

	lit, _ := tbl.Lookup("Literal")
	prim, _ := tbl.Lookup("Primary")
	expr := def(t, tbl, "Expression")
	assert.Equal(t, []defs.TypeID{prim, lit}, expr.Inherits)

	var names []string
	var discrs []uint64
	for _, v := range expr.Variants {
		names = append(names, v.Name)
		discrs = append(discrs, v.Discr)
	}
	assert.Equal(t, []string{"Bin", "Paren", "Num", "Str"}, names)
	assert.Equal(t, []uint64{8, 4, 0, 1}, discrs)

	assert.False(t, expr.Variants[0].Inherited())
	assert.Equal(t, prim, expr.Variants[1].From)
	assert.Equal(t, lit, expr.Variants[2].From, "origin is kept through chains")
	assert.True(t, expr.Meta.HasPayload)

	primary := def(t, tbl, "Primary")
	assert.False(t, primary.Meta.UnitOnly, "meta is recomputed after splicing")
}

func TestLinkerInheritErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind passes.InheritErrorKind
	}{
		{"cycle", `
@inherit(B) enum A = { X = 0 }
@inherit(A) enum B = { Y = 1 }`, passes.InheritCycle},
		{"not an enum", `
type S = { x: u8 }
@inherit(S) enum A = { X }`, passes.InheritNotEnum},
		{"duplicate discriminant", `
enum P = { X = 0 }
@inherit(P) enum A = { Y = 0 }`, passes.InheritDuplicateDiscr},
		{"duplicate variant", `
enum P = { X = 0 }
@inherit(P) enum A = { X = 1 }`, passes.InheritDuplicateVariant},
		{"discriminant overflow", `
enum P: u16 = { X = 300 }
@inherit(P) enum A = { Y }`, passes.InheritDiscrOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := passes.Linker{}.Run(context.Background(), table(t, tt.src))
			var ierr *passes.InheritError
			require.ErrorAs(t, err, &ierr)
			assert.Equal(t, tt.kind, ierr.Kind, err.Error())
		})
	}
}

func TestLinkerInheritUnknownTarget(t *testing.T) {
	err := passes.Linker{}.Run(context.Background(), table(t, `@inherit(Nope) enum A = { X }`))
	var uerr *passes.UnresolvedReferenceError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "@inherit", uerr.Member)
	assert.Equal(t, "Nope", uerr.Name)
}

func TestLinkerDiamondInheritance(t *testing.T) {
	tbl := table(t, `
enum Base = { X = 0 }
@inherit(Base) enum L = { Y = 1 }
@inherit(Base) enum R = { Z = 2 }
@inherit(L, R) enum Top = { W = 3 }
`)
	require.NoError(t, passes.Linker{}.Run(context.Background(), tbl))
	top := def(t, tbl, "Top")
	assert.Len(t, top.Variants, 4)
}

func runPasses(t *testing.T, tbl *symbols.Table) error {
	t.Helper()
	ctx := context.Background()
	for _, p := range []passes.Pass{passes.Linker{}, passes.CalcLayout{Target: layout.X86_64LinuxGNU()}} {
		if err := p.Run(ctx, tbl); err != nil {
			return err
		}
	}
	return nil
}

func TestLayoutInterchangeablePair(t *testing.T) {
	tbl := table(t, spanDef+`
@interchangeable(Pair) type A = { span: Span, value: u32 }
@interchangeable(Pair) type B = { span: Span, value: u32 }
`)
	require.NoError(t, runPasses(t, tbl))

	a, b := def(t, tbl, "A"), def(t, tbl, "B")
	require.NotNil(t, a.Layout)
	require.NotNil(t, b.Layout)
	assert.Equal(t, a.Layout.Size, b.Layout.Size)
	assert.Equal(t, a.Layout.Align, b.Layout.Align)
	assert.Equal(t, 12, a.Layout.Size)

	for _, d := range tbl.All() {
		assert.NotNil(t, d.Layout, d.Name)
	}
}

func TestLayoutMismatchedVariantSizes(t *testing.T) {
	tbl := table(t, `
@interchangeable(Node) type Small = { a: u32 }
@interchangeable(Node) type Large = { a: u32, b: u64 }
`)
	err := runPasses(t, tbl)
	var mm *layout.MismatchError
	require.ErrorAs(t, err, &mm)
	assert.Equal(t, "Small", mm.Left.Name)
	assert.Equal(t, "Large", mm.Right.Name)
	assert.Equal(t, "size", mm.Property)
}

func TestLayoutInheritFamilies(t *testing.T) {
	tbl := table(t, `
type Num = { v: f64 }
type Bin = { l: u8 }
enum Literal = { Num(Box<Num>) = 0 }
@inherit(Literal) enum Expression = { Bin(Box<Bin>) = 8 }
@inherit(Literal) enum Narrow: u16 = { Other = 9 }
`)
	err := runPasses(t, tbl)
	var mm *layout.MismatchError
	require.ErrorAs(t, err, &mm)
	assert.Equal(t, "tag size", mm.Property)
	assert.Equal(t, "Narrow", mm.Right.Name)
}

func TestLayoutRecursiveValue(t *testing.T) {
	tbl := table(t, `type Node = { next: Node? }`)
	err := runPasses(t, tbl)
	var lerr *layout.Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, layout.ErrRecursive, lerr.Kind)
}

func TestLayoutRequiresLinking(t *testing.T) {
	tbl := table(t, spanDef+`type A = { span: Span }`)
	err := passes.CalcLayout{}.Run(context.Background(), tbl)
	var lerr *layout.Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, layout.ErrUnresolved, lerr.Kind)
}
