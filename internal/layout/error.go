package layout

import (
	"fmt"
	"strings"

	"astgen/internal/defs"
)

// ErrorKind enumerates layout calculation failures.
type ErrorKind uint8

const (
	// ErrRecursive indicates a type that contains itself by value.
	ErrRecursive ErrorKind = iota + 1
	// ErrUnresolved indicates a named reference the linker did not resolve.
	ErrUnresolved
	// ErrUnknownType indicates a TypeID outside the arena.
	ErrUnknownType
)

// Error represents a failed layout computation.
type Error struct {
	Kind  ErrorKind
	Type  defs.TypeID
	Name  string
	Cycle []string // for ErrRecursive, type names from the first repeated type
	Ref   string   // for ErrUnresolved
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case ErrRecursive:
		if len(e.Cycle) == 0 {
			return fmt.Sprintf("recursive type %s has infinite size", e.Name)
		}
		return fmt.Sprintf("recursive type %s has infinite size (cycle: %s); use Box or Vec to break it",
			e.Name, strings.Join(e.Cycle, " -> "))
	case ErrUnresolved:
		return fmt.Sprintf("type %s: reference %s is not linked", e.Name, e.Ref)
	case ErrUnknownType:
		return fmt.Sprintf("unknown type#%d", e.Type)
	default:
		return fmt.Sprintf("layout error kind=%d type %s", e.Kind, e.Name)
	}
}

// MemberLayout is one side of a MismatchError.
type MemberLayout struct {
	Name      string
	Size      int
	Align     int
	HasTag    bool
	TagOffset int
	TagSize   int
}

func (m MemberLayout) String() string {
	s := fmt.Sprintf("%s (size %d, align %d", m.Name, m.Size, m.Align)
	if m.HasTag {
		s += fmt.Sprintf(", tag offset %d, tag size %d", m.TagOffset, m.TagSize)
	}
	return s + ")"
}

// MismatchError reports two members of a layout-interchangeable family
// whose computed layouts differ.
type MismatchError struct {
	Family   string
	Property string // "size", "align", "tag offset", "tag size"
	Left     MemberLayout
	Right    MemberLayout
}

func (e *MismatchError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("layout mismatch in family %q: %s differs between %s and %s",
		e.Family, e.Property, e.Left, e.Right)
}
