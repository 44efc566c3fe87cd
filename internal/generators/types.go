package generators

import (
	"context"

	"astgen/internal/defs"
	"astgen/internal/schema"
	"astgen/internal/trace"
)

// Types declares every definition as a Go type: structs as structs,
// payload enums as sealed interfaces, unit enums as named integers.
type Types struct {
	Options Options
}

// reservedNames are declared by the other generators in the same package.
var reservedNames = []string{
	"Kind", "KindCount", "KindOf", "Builder", "NewBuilder", "Spanned", "Visitor", "MutVisitor",
}

func (Types) Name() string { return "types" }

func (g Types) Run(ctx context.Context, s *schema.Schema) (Output, error) {
	span, _ := trace.Start(ctx, trace.ScopeModule, "gen:"+g.Name())
	w := newFile(g.Options.pkg())
	names := make(map[string]string, s.Len()+len(reservedNames))
	for _, r := range reservedNames {
		names[r] = "generated code"
	}
	declare := func(name, owner string) error {
		if prev, ok := names[name]; ok {
			return genErrorf(g.Name(), owner, "identifier %s is also declared by %s", name, prev)
		}
		names[name] = owner
		return nil
	}

	for _, def := range s.All() {
		if err := declare(def.Name, def.Name); err != nil {
			span.Fail(err)
			return Output{}, err
		}
		var err error
		switch shapeOf(def) {
		case shapeStruct:
			err = g.structDecl(w, s, def)
		case shapeInterface:
			err = g.interfaceDecl(w, s, def)
		case shapeUnit:
			for i := range def.Variants {
				if err = declare(unitConst(def, &def.Variants[i]), def.Name); err != nil {
					break
				}
			}
			if err == nil {
				g.unitDecl(w, def)
			}
		default:
			err = genErrorf(g.Name(), def.Name, "enum mixes unit and payload variants")
		}
		if err != nil {
			span.Fail(err)
			return Output{}, err
		}
	}
	span.End("")
	return stream(g.Options.file("ast_types.go"), w), nil
}

func (g Types) structDecl(w *codeWriter, s *schema.Schema, def *defs.TypeDef) error {
	w.blank()
	w.doc(def.Doc, "")
	w.open("type %s struct {", def.Name)
	for i := range def.Fields {
		f := &def.Fields[i]
		typ, err := goType(s, f.Type)
		if err != nil {
			return &GeneratorError{Generator: g.Name(), Type: def.Name, Msg: "field " + f.Name + ": " + err.Error(), Err: err}
		}
		w.doc(f.Doc, "")
		w.line("%s %s", exported(f.Name), typ)
	}
	w.close()
	return nil
}

func (g Types) interfaceDecl(w *codeWriter, s *schema.Schema, def *defs.TypeDef) error {
	carriers := make(map[string]string, len(def.Variants))
	var order []string
	for i := range def.Variants {
		v := &def.Variants[i]
		payload := payloadStruct(s, v)
		if payload == nil {
			return genErrorf(g.Name(), def.Name, "variant %s: payload %s is not a struct", v.Name, v.Payload)
		}
		if prev, ok := carriers[payload.Name]; ok {
			return genErrorf(g.Name(), def.Name, "variants %s and %s both carry %s", prev, v.Name, payload.Name)
		}
		carriers[payload.Name] = v.Name
		order = append(order, payload.Name)
	}

	w.blank()
	w.doc(def.Doc, def.Name+" is one of: "+joinNames(order)+".")
	w.open("type %s interface {", def.Name)
	w.line("%s()", markerMethod(def.Name))
	w.close()
	w.blank()
	for _, name := range order {
		w.line("func (*%s) %s() {}", name, markerMethod(def.Name))
	}
	return nil
}

func (g Types) unitDecl(w *codeWriter, def *defs.TypeDef) {
	w.blank()
	w.doc(def.Doc, "")
	w.line("type %s %s", def.Name, goPrims[def.Repr])
	w.blank()
	w.open("const (")
	for i := range def.Variants {
		v := &def.Variants[i]
		w.doc(v.Doc, "")
		w.line("%s %s = %d", unitConst(def, v), def.Name, v.Discr)
	}
	w.close(")")
	w.blank()
	w.open("func (v %s) String() string {", def.Name)
	w.line("switch v {")
	for i := range def.Variants {
		v := &def.Variants[i]
		w.line("case %s:", unitConst(def, v))
		w.line("\treturn %q", v.Name)
	}
	w.line("}")
	w.line("return %q", def.Name+"(?)")
	w.close()
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return "nothing"
	case 1:
		return names[0]
	}
	out := ""
	for i, n := range names {
		switch {
		case i == 0:
			out = n
		case i == len(names)-1:
			out += " or " + n
		default:
			out += ", " + n
		}
	}
	return out
}
