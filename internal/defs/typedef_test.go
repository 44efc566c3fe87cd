package defs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astgen/internal/defs"
)

func TestTypeRefString(t *testing.T) {
	ref := defs.Wrap(defs.RefOption, defs.Wrap(defs.RefVec, defs.Wrap(defs.RefBox, defs.Named("Expr"))))
	assert.Equal(t, "Option<Vec<Box<Expr>>>", ref.String())
	assert.Equal(t, "Expr", ref.Innermost().Name)
	assert.False(t, ref.Resolved())

	ref.Innermost().ID = 3
	assert.True(t, ref.Resolved())
	assert.Equal(t, defs.TypeID(3), ref.Target())
	assert.Equal(t, defs.NoTypeID, defs.Prim(defs.PrimU32).Target())
}

func TestCloneIsDeep(t *testing.T) {
	def := &defs.TypeDef{
		Name:   "A",
		Fields: []defs.Field{{Name: "x", Type: defs.Named("B")}},
		Layout: &defs.LayoutInfo{Size: 8, Align: 8, FieldOffsets: []int{0}},
	}
	cp := def.Clone()
	cp.Fields[0].Type.Name = "C"
	cp.Layout.FieldOffsets[0] = 4

	assert.Equal(t, "B", def.Fields[0].Type.Name)
	assert.Equal(t, 0, def.Layout.FieldOffsets[0])
	assert.Nil(t, cp.Variants)
}

func TestPrimitives(t *testing.T) {
	p, ok := defs.LookupPrimitive("u16")
	require.True(t, ok)
	assert.Equal(t, defs.PrimU16, p)
	assert.Equal(t, 16, p.Bits())
	assert.True(t, p.IsTagRepr())
	assert.Equal(t, uint64(65535), p.MaxTag())

	assert.True(t, defs.IsPrimitiveName("str"))
	assert.False(t, defs.IsPrimitiveName("Span"))
	assert.False(t, defs.PrimF32.IsTagRepr())
}

func TestGenSet(t *testing.T) {
	g, ok := defs.LookupGen("visit")
	require.True(t, ok)
	set := g | defs.GenBuilder
	assert.True(t, set.Has(defs.GenVisit))
	assert.False(t, set.Has(defs.GenKind))
	assert.Equal(t, "builder|visit", set.String())

	_, ok = defs.LookupGen("layout")
	assert.False(t, ok)
}

func TestDeriveMeta(t *testing.T) {
	st := &defs.TypeDef{
		Kind:    defs.KindStruct,
		Markers: defs.Markers{Visit: true},
		Fields: []defs.Field{
			{Name: "value", Type: defs.Prim(defs.PrimU32)},
			{Name: "span", Type: defs.Named("Span")},
		},
	}
	meta := defs.DeriveMeta(st)
	assert.True(t, meta.HasSpanField)
	assert.Equal(t, 1, meta.SpanField)
	assert.True(t, meta.Traversable)

	st.Markers.Skip = defs.GenVisit
	assert.False(t, defs.DeriveMeta(st).Traversable)

	boxed := &defs.TypeDef{Kind: defs.KindStruct, Fields: []defs.Field{{Name: "span", Type: defs.Wrap(defs.RefBox, defs.Named("Span"))}}}
	assert.False(t, defs.DeriveMeta(boxed).HasSpanField)

	en := &defs.TypeDef{Kind: defs.KindEnum, Variants: []defs.Variant{{Name: "A"}, {Name: "B"}}}
	meta = defs.DeriveMeta(en)
	assert.True(t, meta.UnitOnly)
	assert.False(t, meta.HasPayload)

	en.Variants = append(en.Variants, defs.Variant{Name: "C", Payload: defs.Wrap(defs.RefBox, defs.Named("C"))})
	meta = defs.DeriveMeta(en)
	assert.False(t, meta.UnitOnly)
	assert.True(t, meta.HasPayload)
}
