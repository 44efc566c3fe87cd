// Package ast is the generic syntax representation of one definition file.
//
// Nodes mirror the surface syntax one to one: attributes are kept as written
// and type expressions are not resolved. The loader expands this tree into
// defs.TypeDef records.
package ast

import (
	"strings"

	"astgen/internal/source"
)

// File is one parsed definition file.
type File struct {
	ID    source.FileID
	Path  string
	Items []*Item
}

type ItemKind uint8

const (
	ItemStruct ItemKind = iota + 1
	ItemEnum
)

func (k ItemKind) String() string {
	switch k {
	case ItemStruct:
		return "struct"
	case ItemEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Item is a `type X = {...}` or `enum X: R = {...}` declaration.
type Item struct {
	Kind     ItemKind
	Name     string
	NameSpan source.Span
	Repr     *Ident // enum tag type after ':'; nil when omitted
	Attrs    []Attr
	Fields   []*Field
	Variants []*Variant
	Doc      string
	Span     source.Span
}

type Ident struct {
	Name string
	Span source.Span
}

type Field struct {
	Name  string
	Type  *TypeExpr
	Attrs []Attr
	Doc   string
	Span  source.Span
}

type Variant struct {
	Name    string
	Payload *TypeExpr // nil for unit variants
	Discr   *Lit      // explicit `= N`
	Attrs   []Attr
	Doc     string
	Span    source.Span
}

// TypeExpr is `Name` or `Name<Arg, ...>` followed by any number of `?`.
type TypeExpr struct {
	Name     string
	Args     []*TypeExpr
	Optional int
	Span     source.Span
}

// String renders the expression back in source form.
func (t *TypeExpr) String() string {
	if t == nil {
		return "<nil>"
	}
	var sb strings.Builder
	sb.WriteString(t.Name)
	if len(t.Args) > 0 {
		sb.WriteByte('<')
		for i, a := range t.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(a.String())
		}
		sb.WriteByte('>')
	}
	sb.WriteString(strings.Repeat("?", t.Optional))
	return sb.String()
}

// Attr is `@name` or `@name(args...)`.
type Attr struct {
	Name string
	Args []AttrArg
	Span source.Span
}

// AttrArg is a positional `value` or a keyed `key = value` argument.
type AttrArg struct {
	Key   string
	Value Lit
	Span  source.Span
}

type LitKind uint8

const (
	LitIdent LitKind = iota + 1
	LitInt
	LitString
)

// Lit is an attribute argument or discriminant. Text is the raw source;
// Value is the unquoted string for LitString and equals Text otherwise.
type Lit struct {
	Kind  LitKind
	Text  string
	Value string
	Span  source.Span
}
