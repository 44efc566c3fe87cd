package passes

import (
	"context"
	"errors"
	"fmt"

	"astgen/internal/defs"
	"astgen/internal/symbols"
	"astgen/internal/trace"
)

// Linker replaces every named type reference with its TypeID and splices
// the variants of @inherit targets into the inheriting enums.
//
// All unresolved references of a run are reported together via errors.Join;
// inherit failures are reported one at a time.
type Linker struct{}

func (Linker) Name() string { return "link" }

func (l Linker) Run(ctx context.Context, table *symbols.Table) error {
	span, _ := trace.Start(ctx, trace.ScopePass, l.Name())

	var errs []error
	refs := 0
	for _, def := range table.All() {
		for i := range def.Fields {
			f := &def.Fields[i]
			refs++
			if err := resolveRef(table, def, f.Name, f.Type); err != nil {
				errs = append(errs, err)
			}
		}
		for i := range def.Variants {
			v := &def.Variants[i]
			if v.Payload == nil {
				continue
			}
			refs++
			if err := resolveRef(table, def, v.Name, v.Payload); err != nil {
				errs = append(errs, err)
			}
		}
		errs = append(errs, resolveInherits(table, def)...)
	}
	if len(errs) > 0 {
		err := errors.Join(errs...)
		span.Fail(err)
		return err
	}

	if err := spliceInherits(table); err != nil {
		span.Fail(err)
		return err
	}
	span.WithExtra("refs", fmt.Sprint(refs)).End("")
	return nil
}

func resolveRef(table *symbols.Table, def *defs.TypeDef, member string, ref *defs.TypeRef) error {
	leaf := ref.Innermost()
	if leaf == nil || leaf.Kind != defs.RefNamed {
		return nil
	}
	id, ok := table.Lookup(leaf.Name)
	if !ok {
		return &UnresolvedReferenceError{
			Type: def.Name, Member: member, Name: leaf.Name,
			Module: def.Module, Span: def.Span,
		}
	}
	leaf.ID = id
	return nil
}

func resolveInherits(table *symbols.Table, def *defs.TypeDef) []error {
	if len(def.Markers.Inherit) == 0 {
		return nil
	}
	var errs []error
	def.Inherits = def.Inherits[:0]
	for _, ref := range def.Markers.Inherit {
		id, ok := table.Lookup(ref.Name)
		if !ok {
			errs = append(errs, &UnresolvedReferenceError{
				Type: def.Name, Member: "@inherit", Name: ref.Name,
				Module: def.Module, Span: ref.Span,
			})
			continue
		}
		if !table.Def(id).IsEnum() {
			errs = append(errs, &InheritError{Kind: InheritNotEnum, Enum: def.Name, Parent: ref.Name})
			continue
		}
		def.Inherits = append(def.Inherits, id)
	}
	return errs
}

type visitState uint8

const (
	unvisited visitState = iota
	visiting
	done
)

// spliceInherits resolves inheritance chains depth-first so that a parent's
// own inherited variants are in place before it is copied.
func spliceInherits(table *symbols.Table) error {
	state := make([]visitState, table.Len())
	var stack []defs.TypeID

	var visit func(id defs.TypeID) error
	visit = func(id defs.TypeID) error {
		switch state[id] {
		case done:
			return nil
		case visiting:
			cycle := []string{}
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i] == id {
					for _, s := range stack[i:] {
						cycle = append(cycle, table.Def(s).Name)
					}
					break
				}
			}
			cycle = append(cycle, table.Def(id).Name)
			return &InheritError{Kind: InheritCycle, Enum: table.Def(id).Name, Cycle: cycle}
		}
		state[id] = visiting
		stack = append(stack, id)

		def := table.Def(id)
		for _, parentID := range def.Inherits {
			if err := visit(parentID); err != nil {
				return err
			}
			if err := splice(def, table.Def(parentID)); err != nil {
				return err
			}
		}
		def.Meta = defs.DeriveMeta(def)

		stack = stack[:len(stack)-1]
		state[id] = done
		return nil
	}

	for id := range table.All() {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}

// splice appends the variants of parent to def, keeping discriminants.
func splice(def, parent *defs.TypeDef) error {
	names := make(map[string]int, len(def.Variants))
	discrs := make(map[uint64]int, len(def.Variants))
	for i := range def.Variants {
		names[def.Variants[i].Name] = i
		discrs[def.Variants[i].Discr] = i
	}

	for _, pv := range parent.Variants {
		v := pv
		v.Payload = pv.Payload.Clone()
		if !v.From.IsValid() {
			v.From = parent.ID
		}
		if i, ok := names[v.Name]; ok {
			existing := def.Variants[i]
			// The same variant reached through two parents.
			if existing.From == v.From && existing.Discr == v.Discr {
				continue
			}
			return &InheritError{Kind: InheritDuplicateVariant, Enum: def.Name, Parent: parent.Name, Variant: v.Name}
		}
		if v.Discr > def.Repr.MaxTag() {
			return &InheritError{Kind: InheritDiscrOverflow, Enum: def.Name, Parent: parent.Name, Variant: v.Name, Discr: v.Discr}
		}
		if _, ok := discrs[v.Discr]; ok {
			return &InheritError{Kind: InheritDuplicateDiscr, Enum: def.Name, Parent: parent.Name, Variant: v.Name, Discr: v.Discr}
		}
		names[v.Name] = len(def.Variants)
		discrs[v.Discr] = len(def.Variants)
		def.Variants = append(def.Variants, v)
	}
	return nil
}
