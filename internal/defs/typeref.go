package defs

import "strings"

// RefKind distinguishes the shapes of a TypeRef.
type RefKind uint8

const (
	RefNamed RefKind = iota
	RefPrimitive
	RefBox
	RefVec
	RefOption
)

func (k RefKind) String() string {
	switch k {
	case RefNamed:
		return "named"
	case RefPrimitive:
		return "primitive"
	case RefBox:
		return "box"
	case RefVec:
		return "vec"
	case RefOption:
		return "option"
	default:
		return "ref?"
	}
}

// TypeRef is a field or variant type. Named references carry the textual
// name until the linker fills ID.
type TypeRef struct {
	Kind RefKind
	Name string
	ID   TypeID
	Prim Primitive
	Elem *TypeRef
}

// Named returns an unresolved reference to name.
func Named(name string) *TypeRef {
	return &TypeRef{Kind: RefNamed, Name: name, ID: NoTypeID}
}

// Prim returns a primitive reference.
func Prim(p Primitive) *TypeRef {
	return &TypeRef{Kind: RefPrimitive, Prim: p, ID: NoTypeID}
}

// Wrap returns a container reference around elem.
func Wrap(kind RefKind, elem *TypeRef) *TypeRef {
	return &TypeRef{Kind: kind, Elem: elem, ID: NoTypeID}
}

// IsContainer reports whether the reference wraps an element.
func (r *TypeRef) IsContainer() bool {
	return r != nil && (r.Kind == RefBox || r.Kind == RefVec || r.Kind == RefOption)
}

// Innermost strips every container.
func (r *TypeRef) Innermost() *TypeRef {
	for r != nil && r.IsContainer() {
		r = r.Elem
	}
	return r
}

// Resolved reports whether every named leaf carries an ID.
func (r *TypeRef) Resolved() bool {
	leaf := r.Innermost()
	if leaf == nil {
		return false
	}
	return leaf.Kind != RefNamed || leaf.ID.IsValid()
}

// Target returns the TypeID behind the reference, or NoTypeID for primitives.
func (r *TypeRef) Target() TypeID {
	leaf := r.Innermost()
	if leaf == nil || leaf.Kind != RefNamed {
		return NoTypeID
	}
	return leaf.ID
}

// Clone deep-copies the reference chain.
func (r *TypeRef) Clone() *TypeRef {
	if r == nil {
		return nil
	}
	out := *r
	out.Elem = r.Elem.Clone()
	return &out
}

func (r *TypeRef) String() string {
	var sb strings.Builder
	r.write(&sb)
	return sb.String()
}

func (r *TypeRef) write(sb *strings.Builder) {
	if r == nil {
		sb.WriteString("<nil>")
		return
	}
	switch r.Kind {
	case RefNamed:
		sb.WriteString(r.Name)
	case RefPrimitive:
		sb.WriteString(r.Prim.String())
	case RefBox:
		sb.WriteString("Box<")
		r.Elem.write(sb)
		sb.WriteByte('>')
	case RefVec:
		sb.WriteString("Vec<")
		r.Elem.write(sb)
		sb.WriteByte('>')
	case RefOption:
		sb.WriteString("Option<")
		r.Elem.write(sb)
		sb.WriteByte('>')
	}
}
