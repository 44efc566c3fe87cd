package generators

import (
	"context"
	"fmt"
	"slices"

	"astgen/internal/defs"
	"astgen/internal/schema"
	"astgen/internal/trace"
)

// Span emits GetSpan accessors and SpanOf<E> dispatchers.
type Span struct {
	Options Options
}

func (Span) Name() string { return "span" }

type accessorKind uint8

const (
	accNone accessorKind = iota
	accField
	accDelegate
	accSwitch
)

type accessor struct {
	kind  accessorKind
	field int // accField, accDelegate
}

// spanPlan decides the accessor of every definition.
type spanPlan struct {
	s   *schema.Schema
	acc []accessor
}

// planSpans settles every accessor at a fixed point. Each round derives all
// accessors from the previous round at once, so the outcome depends on the
// type graph only, never on declaration order. Types that still change after
// every acyclic dependency has settled sit on a contradictory cycle; they are
// pinned to no accessor and the rounds restart.
func planSpans(s *schema.Schema) *spanPlan {
	n := s.Len()
	p := &spanPlan{s: s, acc: make([]accessor, n)}
	pinned := make([]bool, n)
	for id, def := range s.All() {
		switch {
		case skipsSpan(def):
			pinned[id] = true
		case def.IsStruct() && def.Meta.HasSpanField:
			p.acc[id] = accessor{kind: accField, field: def.Meta.SpanField}
			pinned[id] = true
		}
	}
	for round := 0; ; round++ {
		next := slices.Clone(p.acc)
		var changed []defs.TypeID
		for id, def := range s.All() {
			if pinned[id] {
				continue
			}
			if a := p.derive(def); a != p.acc[id] {
				next[id] = a
				changed = append(changed, id)
			}
		}
		if len(changed) == 0 {
			return p
		}
		if round > n+1 {
			for _, id := range changed {
				next[id] = accessor{}
				pinned[id] = true
			}
			round = 0
		}
		p.acc = next
	}
}

func skipsSpan(def *defs.TypeDef) bool { return def.Markers.Skip.Has(defs.GenSpan) }

func (p *spanPlan) derive(def *defs.TypeDef) accessor {
	switch shapeOf(def) {
	case shapeStruct:
		found := -1
		for i := range def.Fields {
			f := &def.Fields[i]
			if f.Markers.Skip.Has(defs.GenSpan) || p.child(f.Type) == nil {
				continue
			}
			if found >= 0 {
				return accessor{}
			}
			found = i
		}
		if found >= 0 {
			return accessor{kind: accDelegate, field: found}
		}
	case shapeInterface:
		if len(def.Variants) == 0 {
			return accessor{}
		}
		for i := range def.Variants {
			payload := payloadStruct(p.s, &def.Variants[i])
			if payload == nil || !p.has(payload.ID) {
				return accessor{}
			}
		}
		return accessor{kind: accSwitch}
	}
	return accessor{}
}

// child returns the span-bearing definition a field always holds: a
// struct or payload enum held directly or boxed.
func (p *spanPlan) child(ref *defs.TypeRef) *defs.TypeDef {
	if ref.Kind == defs.RefBox {
		ref = ref.Elem
	}
	def := namedDef(p.s, ref)
	if def == nil || !p.has(def.ID) {
		return nil
	}
	return def
}

func (p *spanPlan) has(id defs.TypeID) bool {
	return int(id) < len(p.acc) && p.acc[id].kind != accNone
}

func spanOf(enum string) string { return "SpanOf" + enum }

func (g Span) Run(ctx context.Context, s *schema.Schema) (Output, error) {
	span, _ := trace.Start(ctx, trace.ScopeModule, "gen:"+g.Name())
	plan := planSpans(s)

	for id, def := range s.All() {
		if def.Markers.Span && plan.acc[id].kind == accNone {
			err := genErrorf(g.Name(), def.Name,
				"@span requires a span: Span field, exactly one span-bearing child, or span-bearing variants only")
			span.Fail(err)
			return Output{}, err
		}
	}

	w := newFile(g.Options.pkg())
	w.blank()
	w.line("// Spanned is implemented by every node that knows its source span.")
	w.open("type Spanned interface {")
	w.line("GetSpan() %s", defs.SpanTypeName)
	w.close()

	count := 0
	for id, def := range s.All() {
		a := plan.acc[id]
		switch a.kind {
		case accField:
			w.blank()
			w.line("func (n *%s) GetSpan() %s { return n.%s }", def.Name, defs.SpanTypeName, exported(def.Fields[a.field].Name))
		case accDelegate:
			f := &def.Fields[a.field]
			child := plan.child(f.Type)
			w.blank()
			if child.IsEnum() {
				w.line("func (n *%s) GetSpan() %s { return %s(n.%s) }", def.Name, defs.SpanTypeName, spanOf(child.Name), exported(f.Name))
			} else {
				w.line("func (n *%s) GetSpan() %s { return n.%s.GetSpan() }", def.Name, defs.SpanTypeName, exported(f.Name))
			}
		case accSwitch:
			g.switchFunc(w, s, def)
		default:
			continue
		}
		count++
	}
	if count == 0 {
		span.End("no span-bearing types")
		return Output{Kind: OutputNone}, nil
	}
	span.WithExtra("accessors", fmt.Sprint(count)).End("")
	return stream(g.Options.file("ast_span.go"), w), nil
}

func (g Span) switchFunc(w *codeWriter, s *schema.Schema, def *defs.TypeDef) {
	w.blank()
	w.line("// %s returns the span of the active %s variant.", spanOf(def.Name), def.Name)
	w.open("func %s(e %s) %s {", spanOf(def.Name), def.Name, defs.SpanTypeName)
	w.line("switch n := e.(type) {")
	for i := range def.Variants {
		payload := payloadStruct(s, &def.Variants[i])
		w.line("case *%s:", payload.Name)
		w.line("\treturn n.GetSpan()")
	}
	w.line("}")
	w.line("return %s{}", defs.SpanTypeName)
	w.close()
}
