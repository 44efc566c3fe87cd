package passes

import (
	"fmt"
	"strings"

	"astgen/internal/source"
)

// UnresolvedReferenceError names a type reference no declaration matches.
type UnresolvedReferenceError struct {
	Type   string // declaring type
	Member string // field, variant or "@inherit"
	Name   string // the missing name
	Module string
	Span   source.Span
}

func (e *UnresolvedReferenceError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: unresolved type %q referenced by %s.%s", e.Module, e.Name, e.Type, e.Member)
}

// InheritErrorKind enumerates @inherit failures.
type InheritErrorKind uint8

const (
	InheritNotEnum InheritErrorKind = iota + 1
	InheritCycle
	InheritDuplicateVariant
	InheritDuplicateDiscr
	InheritDiscrOverflow
)

// InheritError reports an @inherit that cannot be spliced.
type InheritError struct {
	Kind    InheritErrorKind
	Enum    string
	Parent  string
	Variant string
	Discr   uint64
	Cycle   []string
}

func (e *InheritError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case InheritNotEnum:
		return fmt.Sprintf("enum %s: @inherit(%s) target is not an enum", e.Enum, e.Parent)
	case InheritCycle:
		return fmt.Sprintf("enum %s: inheritance cycle %s", e.Enum, strings.Join(e.Cycle, " -> "))
	case InheritDuplicateVariant:
		return fmt.Sprintf("enum %s: variant %s inherited from %s is already declared", e.Enum, e.Variant, e.Parent)
	case InheritDuplicateDiscr:
		return fmt.Sprintf("enum %s: variant %s inherited from %s reuses discriminant %d", e.Enum, e.Variant, e.Parent, e.Discr)
	case InheritDiscrOverflow:
		return fmt.Sprintf("enum %s: discriminant %d of variant %s inherited from %s does not fit the tag", e.Enum, e.Discr, e.Variant, e.Parent)
	default:
		return fmt.Sprintf("enum %s: invalid @inherit(%s)", e.Enum, e.Parent)
	}
}
