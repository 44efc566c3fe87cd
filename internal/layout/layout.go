// Package layout computes C-like memory layouts of node definitions for a
// target and checks that layout-interchangeable families agree.
package layout

import (
	"slices"

	"astgen/internal/defs"
)

// TypeLayout is the layout of a type for a specific Target.
type TypeLayout struct {
	Size  int
	Align int

	// Struct-only:
	FieldOffsets []int

	// Enum-only: the tag lives at offset 0.
	HasTag        bool
	TagSize       int
	PayloadOffset int

	// Niche reports that the type has an invalid bit pattern Option can use
	// for None, so Option<T> has the layout of T.
	Niche bool
}

// Info converts to the model's LayoutInfo.
func (l TypeLayout) Info() *defs.LayoutInfo {
	return &defs.LayoutInfo{
		Size:          l.Size,
		Align:         l.Align,
		FieldOffsets:  slices.Clone(l.FieldOffsets),
		HasTag:        l.HasTag,
		TagOffset:     0,
		TagSize:       l.TagSize,
		PayloadOffset: l.PayloadOffset,
	}
}

// Resolver gives the engine access to linked definitions.
type Resolver interface {
	Def(id defs.TypeID) *defs.TypeDef
}

// Engine computes and caches layouts.
type Engine struct {
	Target Target
	Defs   Resolver

	cache *cache
}

// New creates a new Engine for the specified target.
func New(target Target, resolver Resolver) *Engine {
	return &Engine{
		Target: target,
		Defs:   resolver,
		cache:  newCache(),
	}
}

type layoutState struct {
	stack []defs.TypeID
	index map[defs.TypeID]int
}

func newLayoutState() *layoutState {
	return &layoutState{
		stack: nil,
		index: make(map[defs.TypeID]int, 32),
	}
}

// LayoutOf computes and caches the layout of a definition.
func (e *Engine) LayoutOf(id defs.TypeID) (TypeLayout, error) {
	if e.cache == nil {
		e.cache = newCache()
	}
	layout, err := e.layoutOf(id, newLayoutState())
	if err != nil {
		return layout, err
	}
	return layout, nil
}

// RefLayout computes the layout of a field or payload type.
func (e *Engine) RefLayout(ref *defs.TypeRef) (TypeLayout, error) {
	if e.cache == nil {
		e.cache = newCache()
	}
	layout, err := e.refLayout(ref, "", newLayoutState())
	if err != nil {
		return layout, err
	}
	return layout, nil
}

func (e *Engine) layoutOf(id defs.TypeID, state *layoutState) (TypeLayout, *Error) {
	if cached, ok := e.cache.get(id); ok {
		return cached.Layout, cached.Err
	}
	def := e.Defs.Def(id)
	if def == nil {
		return TypeLayout{Size: 0, Align: 1}, &Error{Kind: ErrUnknownType, Type: id}
	}

	if idx, ok := state.index[id]; ok {
		cycle := make([]string, 0, len(state.stack)-idx+1)
		for _, cid := range state.stack[idx:] {
			cycle = append(cycle, e.Defs.Def(cid).Name)
		}
		cycle = append(cycle, def.Name)
		err := &Error{Kind: ErrRecursive, Type: id, Name: def.Name, Cycle: cycle}
		e.cache.put(id, cacheEntry{Layout: TypeLayout{Size: 0, Align: 1}, Err: err})
		return TypeLayout{Size: 0, Align: 1}, err
	}

	state.index[id] = len(state.stack)
	state.stack = append(state.stack, id)
	layout, err := e.computeLayout(def, state)
	state.stack = state.stack[:len(state.stack)-1]
	delete(state.index, id)

	e.cache.put(id, cacheEntry{Layout: layout, Err: err})
	return layout, err
}
