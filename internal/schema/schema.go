// Package schema holds the immutable, TypeID-indexed snapshot of all linked
// and laid-out definitions. It is the only input of every generator.
package schema

import (
	"iter"

	"astgen/internal/defs"
	"astgen/internal/layout"
	"astgen/internal/symbols"
)

// Schema is read-only after Lower. Def returns pointers into the snapshot;
// generators must not mutate through them.
type Schema struct {
	defs   []defs.TypeDef
	index  map[string]defs.TypeID
	target layout.Target
}

// Lower snapshots a table that survived linking and layout. It cannot fail.
func Lower(table *symbols.Table, target layout.Target) *Schema {
	s := &Schema{
		defs:   make([]defs.TypeDef, 0, table.Len()),
		index:  make(map[string]defs.TypeID, table.Len()),
		target: target,
	}
	for id, def := range table.All() {
		s.defs = append(s.defs, def.Clone())
		s.index[def.Name] = id
	}
	return s
}

// Len returns the number of definitions.
func (s *Schema) Len() int { return len(s.defs) }

// Def returns the definition behind id, or nil.
func (s *Schema) Def(id defs.TypeID) *defs.TypeDef {
	if int(id) >= len(s.defs) {
		return nil
	}
	return &s.defs[id]
}

// Lookup resolves a type name.
func (s *Schema) Lookup(name string) (*defs.TypeDef, bool) {
	id, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return &s.defs[id], true
}

// All iterates definitions in TypeID order.
func (s *Schema) All() iter.Seq2[defs.TypeID, *defs.TypeDef] {
	return func(yield func(defs.TypeID, *defs.TypeDef) bool) {
		for i := range s.defs {
			if !yield(defs.TypeID(i), &s.defs[i]) { //nolint:gosec // bounded by Len
				return
			}
		}
	}
}

// Target is the layout target the schema was computed for.
func (s *Schema) Target() layout.Target { return s.target }

// RefDef returns the definition a reference points at, or nil for primitives.
func (s *Schema) RefDef(ref *defs.TypeRef) *defs.TypeDef {
	id := ref.Target()
	if !id.IsValid() {
		return nil
	}
	return s.Def(id)
}
