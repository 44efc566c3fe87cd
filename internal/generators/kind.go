package generators

import (
	"context"
	"fmt"

	"astgen/internal/defs"
	"astgen/internal/schema"
	"astgen/internal/trace"
)

// KindEntry is one tag of the kind enumeration.
type KindEntry struct {
	Tag  uint16
	Name string
	Type defs.TypeID
}

// KindTable lists the tags in TypeID order: every traversable struct that
// does not opt out with @skip(kind). Tags are dense from zero.
func KindTable(s *schema.Schema) []KindEntry {
	var out []KindEntry
	for id, def := range s.All() {
		if !def.IsStruct() || !def.Meta.Traversable || def.Markers.Skip.Has(defs.GenKind) {
			continue
		}
		out = append(out, KindEntry{Tag: uint16(len(out)), Name: def.Name, Type: id}) //nolint:gosec // checked in Run
	}
	return out
}

// Kind emits the Kind enumeration and its TypeID conversions.
type Kind struct {
	Options Options
}

func (Kind) Name() string { return "kind" }

const maxKinds = 1 << 16

func (g Kind) Run(ctx context.Context, s *schema.Schema) (Output, error) {
	span, _ := trace.Start(ctx, trace.ScopeModule, "gen:"+g.Name())
	if n := countKinds(s); n > maxKinds {
		err := genErrorf(g.Name(), "", "%d traversable types exceed the uint16 kind space", n)
		span.Fail(err)
		return Output{}, err
	}
	table := KindTable(s)
	for _, e := range table {
		def := s.Def(e.Type)
		for i := range def.Fields {
			if exported(def.Fields[i].Name) == "Kind" {
				err := genErrorf(g.Name(), def.Name, "field %s collides with the Kind method; rename it or add @skip(kind)", def.Fields[i].Name)
				span.Fail(err)
				return Output{}, err
			}
		}
	}

	w := newFile(g.Options.pkg(), "fmt")
	w.blank()
	w.line("// Kind identifies the concrete type of a traversable node.")
	w.line("type Kind uint16")
	w.blank()
	if len(table) > 0 {
		w.open("const (")
		for _, e := range table {
			w.line("Kind%s Kind = %d", e.Name, e.Tag)
		}
		w.close(")")
		w.blank()
	}
	w.line("// KindCount is the number of kinds.")
	w.line("const KindCount = %d", len(table))
	w.blank()

	w.open("var kindNames = [...]string{")
	for _, e := range table {
		w.line("Kind%s: %q,", e.Name, e.Name)
	}
	w.close()
	w.blank()
	w.open("var kindTypeIDs = [...]uint32{")
	for _, e := range table {
		w.line("Kind%s: %d,", e.Name, e.Type)
	}
	w.close()
	w.blank()

	w.open("func (k Kind) String() string {")
	w.open("if int(k) < len(kindNames) {")
	w.line("return kindNames[k]")
	w.close()
	w.raw(`return fmt.Sprintf("Kind(%d)", uint16(k))`)
	w.close()
	w.blank()
	w.line("// TypeID returns the schema id of the node type behind k.")
	w.open("func (k Kind) TypeID() (uint32, bool) {")
	w.open("if int(k) < len(kindTypeIDs) {")
	w.line("return kindTypeIDs[k], true")
	w.close()
	w.line("return 0, false")
	w.close()
	w.blank()
	w.line("// KindOf maps a schema id back to its kind.")
	w.open("func KindOf(id uint32) (Kind, bool) {")
	w.line("switch id {")
	for _, e := range table {
		w.line("case %d:", e.Type)
		w.line("\treturn Kind%s, true", e.Name)
	}
	w.line("}")
	w.line("return 0, false")
	w.close()

	for _, e := range table {
		w.blank()
		w.line("func (*%s) Kind() Kind { return Kind%s }", e.Name, e.Name)
	}
	span.WithExtra("kinds", fmt.Sprint(len(table))).End("")
	return stream(g.Options.file("ast_kind.go"), w), nil
}

func countKinds(s *schema.Schema) int {
	n := 0
	for _, def := range s.All() {
		if def.IsStruct() && def.Meta.Traversable && !def.Markers.Skip.Has(defs.GenKind) {
			n++
		}
	}
	return n
}
