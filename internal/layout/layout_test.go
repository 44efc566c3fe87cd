package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astgen/internal/defs"
	"astgen/internal/layout"
)

// arena is a linked in-memory definition set.
type arena []defs.TypeDef

func (a arena) Def(id defs.TypeID) *defs.TypeDef {
	if int(id) >= len(a) {
		return nil
	}
	return &a[id]
}

func (a arena) id(t *testing.T, name string) defs.TypeID {
	t.Helper()
	for i := range a {
		if a[i].Name == name {
			return defs.TypeID(i)
		}
	}
	t.Fatalf("no type %s", name)
	return defs.NoTypeID
}

// link assigns ids and resolves named references by name.
func link(defsIn ...defs.TypeDef) arena {
	a := arena(defsIn)
	index := make(map[string]defs.TypeID, len(a))
	for i := range a {
		a[i].ID = defs.TypeID(i)
		index[a[i].Name] = a[i].ID
	}
	for i := range a {
		for _, ref := range a[i].Refs() {
			if leaf := ref.Innermost(); leaf.Kind == defs.RefNamed {
				if id, ok := index[leaf.Name]; ok {
					leaf.ID = id
				}
			}
		}
	}
	return a
}

func st(name string, fields ...defs.Field) defs.TypeDef {
	return defs.TypeDef{Name: name, Kind: defs.KindStruct, Fields: fields}
}

func fld(name string, ref *defs.TypeRef) defs.Field {
	return defs.Field{Name: name, Type: ref}
}

func prim(p defs.Primitive) *defs.TypeRef { return defs.Prim(p) }

func box(name string) *defs.TypeRef { return defs.Wrap(defs.RefBox, defs.Named(name)) }

func opt(r *defs.TypeRef) *defs.TypeRef { return defs.Wrap(defs.RefOption, r) }

func spanDef() defs.TypeDef {
	return st("Span", fld("start", prim(defs.PrimU32)), fld("end", prim(defs.PrimU32)))
}

func TestStructLayout(t *testing.T) {
	a := link(
		spanDef(),
		st("A", fld("span", defs.Named("Span")), fld("value", prim(defs.PrimU32))),
		st("Mixed", fld("a", prim(defs.PrimU8)), fld("b", prim(defs.PrimU64)), fld("c", prim(defs.PrimU16))),
		st("Empty"),
	)
	eng := layout.New(layout.X86_64LinuxGNU(), a)

	l, err := eng.LayoutOf(a.id(t, "A"))
	require.NoError(t, err)
	assert.Equal(t, 12, l.Size)
	assert.Equal(t, 4, l.Align)
	assert.Equal(t, []int{0, 8}, l.FieldOffsets)

	l, err = eng.LayoutOf(a.id(t, "Mixed"))
	require.NoError(t, err)
	assert.Equal(t, 24, l.Size)
	assert.Equal(t, 8, l.Align)
	assert.Equal(t, []int{0, 8, 16}, l.FieldOffsets)

	l, err = eng.LayoutOf(a.id(t, "Empty"))
	require.NoError(t, err)
	assert.Equal(t, layout.TypeLayout{Size: 0, Align: 1, FieldOffsets: []int{}}, l)
}

func TestStructAttrs(t *testing.T) {
	packed := st("P", fld("a", prim(defs.PrimU8)), fld("b", prim(defs.PrimU32)))
	packed.Markers.Packed = true
	aligned := st("Q", fld("a", prim(defs.PrimU8)))
	aligned.Markers.Align = 16
	a := link(packed, aligned)
	eng := layout.New(layout.X86_64LinuxGNU(), a)

	l, err := eng.LayoutOf(0)
	require.NoError(t, err)
	assert.Equal(t, 5, l.Size)
	assert.Equal(t, 1, l.Align)
	assert.Equal(t, []int{0, 1}, l.FieldOffsets)

	l, err = eng.LayoutOf(1)
	require.NoError(t, err)
	assert.Equal(t, 16, l.Size)
	assert.Equal(t, 16, l.Align)
}

func TestContainerLayouts(t *testing.T) {
	a := link(
		st("Node", fld("x", prim(defs.PrimU8))),
		st("Holder",
			fld("b", box("Node")),
			fld("v", defs.Wrap(defs.RefVec, box("Node"))),
			fld("s", prim(defs.PrimStr)),
			fld("ob", opt(box("Node"))),
			fld("on", opt(prim(defs.PrimU32))),
		),
	)
	for _, tc := range []struct {
		target           layout.Target
		offsets          []int
		size, ptrAligned int
	}{
		{layout.X86_64LinuxGNU(), []int{0, 8, 32, 48, 56}, 64, 8},
		{layout.Wasm32(), []int{0, 4, 16, 24, 28}, 36, 4},
	} {
		eng := layout.New(tc.target, a)
		l, err := eng.LayoutOf(1)
		require.NoError(t, err, tc.target.Triple)
		assert.Equal(t, tc.offsets, l.FieldOffsets, tc.target.Triple)
		assert.Equal(t, tc.size, l.Size, tc.target.Triple)
		assert.Equal(t, tc.ptrAligned, l.Align, tc.target.Triple)
	}
}

func TestEnumLayout(t *testing.T) {
	expr := defs.TypeDef{Name: "Expression", Kind: defs.KindEnum, Repr: defs.PrimU8, Variants: []defs.Variant{
		{Name: "Num", Payload: box("Num")},
		{Name: "Empty"},
	}}
	wide := defs.TypeDef{Name: "Wide", Kind: defs.KindEnum, Repr: defs.PrimU16, Variants: []defs.Variant{{Name: "A"}, {Name: "B"}}}
	a := link(expr, st("Num", fld("v", prim(defs.PrimF64))), wide,
		st("UsesOpt", fld("e", opt(defs.Named("Expression")))))

	eng := layout.New(layout.X86_64LinuxGNU(), a)
	l, err := eng.LayoutOf(0)
	require.NoError(t, err)
	assert.True(t, l.HasTag)
	assert.Equal(t, 16, l.Size)
	assert.Equal(t, 8, l.Align)
	assert.Equal(t, 1, l.TagSize)
	assert.Equal(t, 8, l.PayloadOffset)

	info := l.Info()
	assert.Equal(t, 0, info.TagOffset)
	assert.True(t, info.HasTag)

	l, err = eng.LayoutOf(a.id(t, "Wide"))
	require.NoError(t, err)
	assert.Equal(t, 2, l.Size)
	assert.Equal(t, 2, l.TagSize)

	// Option<Expression> uses a spare tag value.
	l, err = eng.LayoutOf(a.id(t, "UsesOpt"))
	require.NoError(t, err)
	assert.Equal(t, 16, l.Size)

	eng32 := layout.New(layout.Wasm32(), a)
	l, err = eng32.LayoutOf(0)
	require.NoError(t, err)
	assert.Equal(t, 8, l.Size)
	assert.Equal(t, 4, l.PayloadOffset)
}

func TestRecursiveByValue(t *testing.T) {
	a := link(st("Node", fld("next", opt(defs.Named("Node")))))
	eng := layout.New(layout.X86_64LinuxGNU(), a)
	_, err := eng.LayoutOf(0)
	var lerr *layout.Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, layout.ErrRecursive, lerr.Kind)
	assert.Equal(t, []string{"Node", "Node"}, lerr.Cycle)

	a = link(
		st("A", fld("b", defs.Named("B"))),
		st("B", fld("a", opt(defs.Named("A")))),
	)
	eng = layout.New(layout.X86_64LinuxGNU(), a)
	_, err = eng.LayoutOf(0)
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, []string{"A", "B", "A"}, lerr.Cycle)
	assert.Contains(t, err.Error(), "A -> B -> A")
}

func TestBoxBreaksRecursion(t *testing.T) {
	a := link(st("Node", fld("next", opt(box("Node"))), fld("v", prim(defs.PrimU32))))
	eng := layout.New(layout.X86_64LinuxGNU(), a)
	l, err := eng.LayoutOf(0)
	require.NoError(t, err)
	assert.Equal(t, 16, l.Size)
}

func TestUnresolvedReference(t *testing.T) {
	a := arena{st("A", fld("x", defs.Named("Missing")))}
	eng := layout.New(layout.X86_64LinuxGNU(), a)
	_, err := eng.LayoutOf(0)
	var lerr *layout.Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, layout.ErrUnresolved, lerr.Kind)
	assert.Equal(t, "Missing", lerr.Ref)
}

func TestLookupTarget(t *testing.T) {
	tgt, ok := layout.LookupTarget("")
	require.True(t, ok)
	assert.Equal(t, 8, tgt.PtrSize)
	tgt, ok = layout.LookupTarget("wasm32")
	require.True(t, ok)
	assert.Equal(t, 4, tgt.PtrSize)
	_, ok = layout.LookupTarget("riscv64")
	assert.False(t, ok)
	assert.Equal(t, []string{"wasm32", "x86_64-linux-gnu"}, layout.Triples())
}
