// Package symbols builds the global type arena and the name index over all
// loaded definition modules.
package symbols

import (
	"fmt"
	"iter"
	"maps"
	"slices"

	"fortio.org/safecast"

	"astgen/internal/defs"
)

// Table owns every TypeDef of a run. Passes mutate definitions in place
// through Def; the Schema is lowered from it once they succeed.
type Table struct {
	Defs  *Defs
	index map[string]defs.TypeID
}

// NewTable builds an empty table pre-sized for capacity definitions.
func NewTable(capacity uint) *Table {
	c, err := safecast.Conv[uint32](capacity)
	if err != nil {
		panic(fmt.Errorf("type table capacity overflow: %w", err))
	}
	return &Table{
		Defs:  NewDefs(c),
		index: make(map[string]defs.TypeID, capacity),
	}
}

// Insert adds def under its name. A name that is already taken or reserved
// for a primitive yields a *DuplicateNameError and leaves the table unchanged.
func (t *Table) Insert(def defs.TypeDef) (defs.TypeID, error) {
	if defs.IsPrimitiveName(def.Name) {
		return defs.NoTypeID, &DuplicateNameError{
			Name: def.Name, Reserved: true,
			Module: def.Module, Span: def.Span,
		}
	}
	if prev, ok := t.index[def.Name]; ok {
		first := t.Defs.Get(prev)
		return defs.NoTypeID, &DuplicateNameError{
			Name:        def.Name,
			Module:      def.Module,
			Span:        def.Span,
			FirstModule: first.Module,
			FirstSpan:   first.Span,
		}
	}
	id := t.Defs.New(def)
	t.index[def.Name] = id
	return id, nil
}

// Lookup resolves a declared type name.
func (t *Table) Lookup(name string) (defs.TypeID, bool) {
	id, ok := t.index[name]
	return id, ok
}

// Def returns the definition behind id, or nil.
func (t *Table) Def(id defs.TypeID) *defs.TypeDef {
	return t.Defs.Get(id)
}

// Len returns the number of declared types.
func (t *Table) Len() int { return t.Defs.Len() }

// All iterates definitions in TypeID order.
func (t *Table) All() iter.Seq2[defs.TypeID, *defs.TypeDef] {
	return func(yield func(defs.TypeID, *defs.TypeDef) bool) {
		for i := range t.Defs.data {
			if !yield(defs.TypeID(i), &t.Defs.data[i]) { //nolint:gosec // bounded by New
				return
			}
		}
	}
}

// Names returns all declared names in sorted order.
func (t *Table) Names() []string {
	return slices.Sorted(maps.Keys(t.index))
}
