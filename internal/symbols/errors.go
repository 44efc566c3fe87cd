package symbols

import (
	"fmt"

	"astgen/internal/source"
)

// DuplicateNameError rejects a second declaration of a type name, or a
// declaration that reuses a primitive name.
type DuplicateNameError struct {
	Name     string
	Module   string
	Span     source.Span
	Reserved bool

	FirstModule string
	FirstSpan   source.Span
}

func (e *DuplicateNameError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Reserved {
		return fmt.Sprintf("%s: type name %q is reserved for a primitive", e.Module, e.Name)
	}
	return fmt.Sprintf("%s: duplicate type name %q (first declared in %s)", e.Module, e.Name, e.FirstModule)
}
