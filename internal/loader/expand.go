package loader

import (
	"fmt"
	"math/bits"
	"strconv"

	"astgen/internal/ast"
	"astgen/internal/defs"
	"astgen/internal/diag"
	"astgen/internal/source"
)

// expander lowers the syntax of one file into TypeDefs. It reports every
// problem it finds; the caller discards the result when any was reported.
type expander struct {
	module string
	rep    diag.Reporter
}

func (x *expander) errorf(code diag.Code, sp source.Span, format string, args ...any) {
	x.rep.Report(code, diag.SevError, sp, fmt.Sprintf(format, args...), nil)
}

func (x *expander) file(f *ast.File) []defs.TypeDef {
	items := make([]defs.TypeDef, 0, len(f.Items))
	for _, it := range f.Items {
		items = append(items, x.item(it))
	}
	return items
}

func (x *expander) item(it *ast.Item) defs.TypeDef {
	def := defs.TypeDef{
		ID:     defs.NoTypeID,
		Name:   it.Name,
		Doc:    it.Doc,
		Module: x.module,
		Span:   it.Span,
	}

	target := ast.AttrTargetStruct
	if it.Kind == ast.ItemEnum {
		def.Kind = defs.KindEnum
		def.Repr = defs.PrimU8
		target = ast.AttrTargetEnum
	}
	def.Markers = x.typeMarkers(it.Attrs, target)

	switch it.Kind {
	case ast.ItemStruct:
		def.Fields = x.fields(it.Fields)
	case ast.ItemEnum:
		if it.Repr != nil {
			p, ok := defs.LookupPrimitive(it.Repr.Name)
			if !ok || !p.IsTagRepr() {
				x.errorf(diag.ExpBadRepr, it.Repr.Span, "enum %s: tag type must be u8, u16, u32 or u64, got %q", it.Name, it.Repr.Name)
			} else {
				def.Repr = p
			}
		}
		def.Variants = x.variants(it.Name, def.Repr, it.Variants)
	}

	def.Meta = defs.DeriveMeta(&def)
	return def
}

func (x *expander) fields(in []*ast.Field) []defs.Field {
	out := make([]defs.Field, 0, len(in))
	seen := make(map[string]source.Span, len(in))
	for _, f := range in {
		if prev, dup := seen[f.Name]; dup {
			x.rep.Report(diag.ExpDuplicateMember, diag.SevError, f.Span, "duplicate field "+f.Name,
				[]diag.Note{{Span: prev, Msg: "previously declared here"}})
			continue
		}
		seen[f.Name] = f.Span
		out = append(out, defs.Field{
			Name:    f.Name,
			Type:    x.typeRef(f.Type),
			Markers: x.memberMarkers(f.Attrs, ast.AttrTargetField),
			Doc:     f.Doc,
			Span:    f.Span,
		})
	}
	return out
}

func (x *expander) variants(enum string, repr defs.Primitive, in []*ast.Variant) []defs.Variant {
	out := make([]defs.Variant, 0, len(in))
	seenName := make(map[string]source.Span, len(in))
	seenDiscr := make(map[uint64]string, len(in))
	var next uint64
	nextValid := true

	for _, v := range in {
		if prev, dup := seenName[v.Name]; dup {
			x.rep.Report(diag.ExpDuplicateMember, diag.SevError, v.Span, "duplicate variant "+enum+"::"+v.Name,
				[]diag.Note{{Span: prev, Msg: "previously declared here"}})
			continue
		}
		seenName[v.Name] = v.Span

		discr := next
		if v.Discr != nil {
			n, err := strconv.ParseUint(v.Discr.Text, 0, 64)
			if err != nil {
				x.errorf(diag.ExpDiscrOverflow, v.Discr.Span, "discriminant %s of %s::%s: %v", v.Discr.Text, enum, v.Name, err)
				continue
			}
			discr = n
		} else if !nextValid {
			x.errorf(diag.ExpDiscrOverflow, v.Span, "implicit discriminant of %s::%s overflows", enum, v.Name)
			continue
		}
		if discr > repr.MaxTag() {
			x.errorf(diag.ExpDiscrOverflow, v.Span, "discriminant %d of %s::%s does not fit %s", discr, enum, v.Name, repr)
			continue
		}
		if other, dup := seenDiscr[discr]; dup {
			x.errorf(diag.ExpDuplicateDiscr, v.Span, "%s::%s reuses discriminant %d of %s", enum, v.Name, discr, other)
			continue
		}
		seenDiscr[discr] = v.Name
		var carry uint64
		next, carry = bits.Add64(discr, 1, 0)
		nextValid = carry == 0

		var payload *defs.TypeRef
		if v.Payload != nil {
			payload = x.typeRef(v.Payload)
		}
		out = append(out, defs.Variant{
			Name:    v.Name,
			Payload: payload,
			Discr:   discr,
			From:    defs.NoTypeID,
			Markers: x.memberMarkers(v.Attrs, ast.AttrTargetVariant),
			Doc:     v.Doc,
			Span:    v.Span,
		})
	}
	return out
}

// typeRef lowers `T`, `Box<T>`, `Vec<T>`, `Option<T>` and `T?`.
func (x *expander) typeRef(t *ast.TypeExpr) *defs.TypeRef {
	var ref *defs.TypeRef
	switch t.Name {
	case "Box", "Vec", "Option":
		if len(t.Args) != 1 {
			x.errorf(diag.ExpUnknownContainer, t.Span, "%s takes exactly one type argument", t.Name)
			ref = defs.Named(t.Name)
			break
		}
		kind := map[string]defs.RefKind{"Box": defs.RefBox, "Vec": defs.RefVec, "Option": defs.RefOption}[t.Name]
		ref = defs.Wrap(kind, x.typeRef(t.Args[0]))
	default:
		if len(t.Args) > 0 {
			x.errorf(diag.ExpUnknownContainer, t.Span, "unknown generic container %s", t.Name)
		}
		if p, ok := defs.LookupPrimitive(t.Name); ok {
			ref = defs.Prim(p)
		} else {
			ref = defs.Named(t.Name)
		}
	}
	for range t.Optional {
		ref = defs.Wrap(defs.RefOption, ref)
	}
	return ref
}
