package generators

import (
	"context"
	"fmt"
	"strings"

	"astgen/internal/defs"
	"astgen/internal/schema"
	"astgen/internal/trace"
)

// Builder emits one constructor method per struct and per enum variant.
type Builder struct {
	Options Options
}

func (Builder) Name() string { return "builder" }

type builderParam struct {
	name  string
	typ   string
	field string
}

func (g Builder) Run(ctx context.Context, s *schema.Schema) (Output, error) {
	span, _ := trace.Start(ctx, trace.ScopeModule, "gen:"+g.Name())
	w := newFile(g.Options.pkg())
	w.blank()
	w.line("// Builder constructs nodes with every required field set.")
	w.line("type Builder struct{}")
	w.blank()
	w.line("func NewBuilder() *Builder { return &Builder{} }")

	methods := make(map[string]string)
	claim := func(method, owner string) error {
		if prev, ok := methods[method]; ok {
			return genErrorf(g.Name(), owner, "builder method %s is also generated for %s", method, prev)
		}
		methods[method] = owner
		return nil
	}

	count := 0
	for _, def := range s.All() {
		if def.Markers.Skip.Has(defs.GenBuilder) {
			continue
		}
		var err error
		switch shapeOf(def) {
		case shapeStruct:
			if err = claim(def.Name, def.Name); err == nil {
				err = g.structMethod(w, s, def)
				count++
			}
		case shapeInterface, shapeUnit:
			for i := range def.Variants {
				v := &def.Variants[i]
				if v.Markers.Skip.Has(defs.GenBuilder) {
					continue
				}
				if err = claim(def.Name+exported(v.Name), def.Name); err != nil {
					break
				}
				if err = g.variantMethod(w, s, def, v); err != nil {
					break
				}
				count++
			}
		default:
			err = genErrorf(g.Name(), def.Name, "enum mixes unit and payload variants")
		}
		if err != nil {
			span.Fail(err)
			return Output{}, err
		}
	}
	span.WithExtra("methods", fmt.Sprint(count)).End("")
	return stream(g.Options.file("ast_builder.go"), w), nil
}

func (g Builder) params(s *schema.Schema, def *defs.TypeDef) ([]builderParam, error) {
	var out []builderParam
	for i := range def.Fields {
		f := &def.Fields[i]
		if f.Markers.Default || f.Markers.Skip.Has(defs.GenBuilder) {
			continue
		}
		typ, err := goType(s, f.Type)
		if err != nil {
			return nil, &GeneratorError{Generator: g.Name(), Type: def.Name, Msg: "field " + f.Name + ": " + err.Error(), Err: err}
		}
		out = append(out, builderParam{name: param(f.Name, "b"), typ: typ, field: exported(f.Name)})
	}
	return out, nil
}

func signature(params []builderParam) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.name + " " + p.typ
	}
	return strings.Join(parts, ", ")
}

func arguments(params []builderParam) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.name
	}
	return strings.Join(parts, ", ")
}

func (g Builder) structMethod(w *codeWriter, s *schema.Schema, def *defs.TypeDef) error {
	params, err := g.params(s, def)
	if err != nil {
		return err
	}
	w.blank()
	w.line("// %s builds a %s node.", def.Name, def.Name)
	w.open("func (b *Builder) %s(%s) *%s {", def.Name, signature(params), def.Name)
	if len(params) == 0 {
		w.line("return &%s{}", def.Name)
		w.close()
		return nil
	}
	w.open("return &%s{", def.Name)
	for _, p := range params {
		w.line("%s: %s,", p.field, p.name)
	}
	w.close()
	w.close()
	return nil
}

func (g Builder) variantMethod(w *codeWriter, s *schema.Schema, def *defs.TypeDef, v *defs.Variant) error {
	method := def.Name + exported(v.Name)
	w.blank()
	w.line("// %s builds the %s variant of %s.", method, v.Name, def.Name)
	if v.Payload == nil {
		w.line("func (b *Builder) %s() %s { return %s }", method, def.Name, unitConst(def, v))
		return nil
	}
	payload := payloadStruct(s, v)
	if payload == nil {
		return genErrorf(g.Name(), def.Name, "variant %s: payload %s is not a struct", v.Name, v.Payload)
	}
	if payload.Markers.Skip.Has(defs.GenBuilder) {
		w.line("func (b *Builder) %s(node *%s) %s { return node }", method, payload.Name, def.Name)
		return nil
	}
	params, err := g.params(s, payload)
	if err != nil {
		return err
	}
	w.open("func (b *Builder) %s(%s) %s {", method, signature(params), def.Name)
	w.line("return b.%s(%s)", payload.Name, arguments(params))
	w.close()
	return nil
}
