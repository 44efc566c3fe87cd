package defs

import (
	"slices"

	"astgen/internal/source"
)

// Span is re-exported so model users need not import source.
type Span = source.Span

// DefKind is the shape of a TypeDef.
type DefKind uint8

const (
	KindStruct DefKind = iota
	KindEnum
)

func (k DefKind) String() string {
	if k == KindEnum {
		return "enum"
	}
	return "struct"
}

// Field is one struct member.
type Field struct {
	Name    string
	Type    *TypeRef
	Markers MemberMarkers
	Doc     string
	Span    Span
}

// Variant is one enum member. Payload is nil for unit variants.
type Variant struct {
	Name    string
	Payload *TypeRef
	Discr   uint64
	// From is the enum the variant was spliced from by @inherit.
	From    TypeID
	Markers MemberMarkers
	Doc     string
	Span    Span
}

// Inherited reports whether the variant came from another enum.
func (v *Variant) Inherited() bool { return v.From.IsValid() }

// LayoutInfo is the computed memory layout of a TypeDef.
type LayoutInfo struct {
	Size          int
	Align         int
	FieldOffsets  []int
	HasTag        bool
	TagOffset     int
	TagSize       int
	PayloadOffset int
}

// TypeDef is one struct- or enum-shaped node definition.
type TypeDef struct {
	ID       TypeID
	Name     string
	Kind     DefKind
	Fields   []Field
	Variants []Variant
	Repr     Primitive
	Markers  Markers
	Meta     Meta
	Inherits []TypeID
	Layout   *LayoutInfo
	Doc      string
	Module   string
	Span     Span
}

func (d *TypeDef) IsStruct() bool { return d.Kind == KindStruct }
func (d *TypeDef) IsEnum() bool   { return d.Kind == KindEnum }

// Refs returns every type reference of the definition in declaration order.
func (d *TypeDef) Refs() []*TypeRef {
	var out []*TypeRef
	for i := range d.Fields {
		out = append(out, d.Fields[i].Type)
	}
	for i := range d.Variants {
		if d.Variants[i].Payload != nil {
			out = append(out, d.Variants[i].Payload)
		}
	}
	return out
}

// Clone deep-copies the definition.
func (d *TypeDef) Clone() TypeDef {
	out := *d
	out.Fields = slices.Clone(d.Fields)
	for i := range out.Fields {
		out.Fields[i].Type = d.Fields[i].Type.Clone()
	}
	out.Variants = slices.Clone(d.Variants)
	for i := range out.Variants {
		out.Variants[i].Payload = d.Variants[i].Payload.Clone()
	}
	out.Markers.Interchangeable = slices.Clone(d.Markers.Interchangeable)
	out.Markers.Inherit = slices.Clone(d.Markers.Inherit)
	if d.Markers.Expect != nil {
		e := *d.Markers.Expect
		out.Markers.Expect = &e
	}
	out.Inherits = slices.Clone(d.Inherits)
	if d.Layout != nil {
		l := *d.Layout
		l.FieldOffsets = slices.Clone(d.Layout.FieldOffsets)
		out.Layout = &l
	}
	return out
}
