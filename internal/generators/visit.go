package generators

import (
	"context"
	"fmt"

	"astgen/internal/defs"
	"astgen/internal/schema"
	"astgen/internal/trace"
)

// Visit emits the read-only Visitor interface and Walk functions.
type Visit struct {
	Options Options
}

func (Visit) Name() string { return "visit" }

func (g Visit) Run(ctx context.Context, s *schema.Schema) (Output, error) {
	return runVisitor(ctx, g.Name(), g.Options.file("ast_visit.go"), g.Options, s, false)
}

// VisitMut emits the MutVisitor interface whose enum slots can be replaced.
type VisitMut struct {
	Options Options
}

func (VisitMut) Name() string { return "visit_mut" }

func (g VisitMut) Run(ctx context.Context, s *schema.Schema) (Output, error) {
	return runVisitor(ctx, g.Name(), g.Options.file("ast_visit_mut.go"), g.Options, s, true)
}

type walker struct {
	s   *schema.Schema
	w   *codeWriter
	mut bool
}

func runVisitor(ctx context.Context, name, file string, opts Options, s *schema.Schema, mut bool) (Output, error) {
	span, _ := trace.Start(ctx, trace.ScopeModule, "gen:"+name)
	wk := &walker{s: s, w: newFile(opts.pkg()), mut: mut}
	wk.visitorInterface()

	walks := 0
	for _, def := range s.All() {
		if !walkable(def) {
			continue
		}
		switch shapeOf(def) {
		case shapeStruct:
			wk.walkStruct(def)
		case shapeInterface:
			wk.walkEnum(def)
		}
		walks++
	}
	span.WithExtra("walks", fmt.Sprint(walks)).End("")
	return stream(file, wk.w), nil
}

// walkable reports whether def gets a Walk function.
func walkable(def *defs.TypeDef) bool {
	if !def.Meta.Traversable {
		return false
	}
	sh := shapeOf(def)
	return sh == shapeStruct || sh == shapeInterface
}

func (wk *walker) iface() string {
	if wk.mut {
		return "MutVisitor"
	}
	return "Visitor"
}

func (wk *walker) suffix() string {
	if wk.mut {
		return "Mut"
	}
	return ""
}

func (wk *walker) visitorInterface() {
	w := wk.w
	w.blank()
	if wk.mut {
		w.line("// MutVisitor is called once per traversable node. Enum methods receive")
		w.line("// the slot holding the node so it can be replaced.")
	} else {
		w.line("// Visitor is called once per traversable node. Implementations descend")
		w.line("// by calling the matching Walk function.")
	}
	w.open("type %s interface {", wk.iface())
	for _, def := range wk.s.All() {
		if !walkable(def) {
			continue
		}
		if def.IsStruct() {
			w.line("Visit%s%s(n *%s)", def.Name, wk.suffix(), def.Name)
		} else if wk.mut {
			w.line("Visit%sMut(n *%s)", def.Name, def.Name)
		}
	}
	w.close()
}

func (wk *walker) walkStruct(def *defs.TypeDef) {
	w := wk.w
	w.blank()
	w.line("// Walk%s%s calls v once per traversable child of n in declaration order.", def.Name, wk.suffix())
	w.open("func Walk%s%s(v %s, n *%s) {", def.Name, wk.suffix(), wk.iface(), def.Name)
	for i := range def.Fields {
		f := &def.Fields[i]
		if f.Markers.Skip.Has(defs.GenVisit) || !wk.reaches(f.Type) {
			continue
		}
		wk.child(f.Type, "n."+exported(f.Name), 0)
	}
	w.close()
}

func (wk *walker) walkEnum(def *defs.TypeDef) {
	w := wk.w
	var cases []*defs.TypeDef
	seen := make(map[defs.TypeID]bool)
	for i := range def.Variants {
		v := &def.Variants[i]
		payload := payloadStruct(wk.s, v)
		if payload == nil || v.Markers.Skip.Has(defs.GenVisit) || !walkable(payload) || seen[payload.ID] {
			continue
		}
		seen[payload.ID] = true
		cases = append(cases, payload)
	}

	w.blank()
	w.line("// Walk%s%s calls v for the active variant of e.", def.Name, wk.suffix())
	if wk.mut {
		w.open("func Walk%sMut(v MutVisitor, e *%s) {", def.Name, def.Name)
	} else {
		w.open("func Walk%s(v Visitor, e %s) {", def.Name, def.Name)
	}
	if len(cases) > 0 {
		if wk.mut {
			w.line("switch n := (*e).(type) {")
		} else {
			w.line("switch n := e.(type) {")
		}
		for _, c := range cases {
			w.line("case *%s:", c.Name)
			w.line("\tv.Visit%s%s(n)", c.Name, wk.suffix())
		}
		w.line("}")
	}
	w.close()
}

// reaches reports whether ref leads to a node the visitor is called for.
func (wk *walker) reaches(ref *defs.TypeRef) bool {
	def := wk.s.RefDef(ref)
	return def != nil && walkable(def)
}

func indexVar(depth int) string {
	vars := [...]string{"i", "j", "k"}
	if depth < len(vars) {
		return vars[depth]
	}
	return fmt.Sprintf("i%d", depth)
}

// child emits the visit of expr, a Go expression of ref's rendered type.
// expr is always addressable.
func (wk *walker) child(ref *defs.TypeRef, expr string, depth int) {
	w := wk.w
	switch ref.Kind {
	case defs.RefNamed:
		def := wk.s.RefDef(ref)
		if def.IsStruct() {
			wk.callStruct(def, "&"+expr)
		} else {
			wk.callEnum(def, expr)
		}
	case defs.RefBox:
		if def := namedDef(wk.s, ref.Elem); def != nil {
			if def.IsStruct() {
				wk.callStruct(def, expr)
			} else {
				wk.callEnum(def, expr)
			}
			return
		}
		w.open("if %s != nil {", expr)
		wk.child(ref.Elem, "(*"+expr+")", depth)
		w.close()
	case defs.RefVec:
		idx := indexVar(depth)
		w.open("for %s := range %s {", idx, expr)
		wk.child(ref.Elem, expr+"["+idx+"]", depth+1)
		w.close()
	case defs.RefOption:
		w.open("if %s != nil {", expr)
		switch def := namedDef(wk.s, ref.Elem); {
		case nilable(wk.s, ref.Elem):
			wk.child(ref.Elem, expr, depth)
		case def != nil && def.IsStruct():
			wk.callStruct(def, expr)
		default:
			wk.child(ref.Elem, "(*"+expr+")", depth)
		}
		w.close()
	}
}

func (wk *walker) callStruct(def *defs.TypeDef, ptr string) {
	wk.w.line("v.Visit%s%s(%s)", def.Name, wk.suffix(), ptr)
}

func (wk *walker) callEnum(def *defs.TypeDef, expr string) {
	if wk.mut {
		wk.w.line("v.Visit%sMut(&%s)", def.Name, expr)
		return
	}
	wk.w.line("Walk%s(v, %s)", def.Name, expr)
}
