package generators

import (
	"fmt"

	"astgen/internal/defs"
	"astgen/internal/schema"
)

// shape is how a definition renders in Go.
type shape uint8

const (
	shapeStruct shape = iota
	// shapeInterface is an enum with payload variants only.
	shapeInterface
	// shapeUnit is an enum with unit variants only.
	shapeUnit
	// shapeMixed mixes unit and payload variants and has no Go rendering.
	shapeMixed
)

func shapeOf(def *defs.TypeDef) shape {
	if def.IsStruct() {
		return shapeStruct
	}
	if def.Meta.UnitOnly {
		return shapeUnit
	}
	for i := range def.Variants {
		if def.Variants[i].Payload == nil {
			return shapeMixed
		}
	}
	return shapeInterface
}

var goPrims = map[defs.Primitive]string{
	defs.PrimBool:  "bool",
	defs.PrimU8:    "uint8",
	defs.PrimU16:   "uint16",
	defs.PrimU32:   "uint32",
	defs.PrimU64:   "uint64",
	defs.PrimI8:    "int8",
	defs.PrimI16:   "int16",
	defs.PrimI32:   "int32",
	defs.PrimI64:   "int64",
	defs.PrimF32:   "float32",
	defs.PrimF64:   "float64",
	defs.PrimUsize: "uint",
	defs.PrimIsize: "int",
	defs.PrimStr:   "string",
}

// goType renders the Go type of a field or payload reference.
func goType(s *schema.Schema, ref *defs.TypeRef) (string, error) {
	switch ref.Kind {
	case defs.RefPrimitive:
		return goPrims[ref.Prim], nil
	case defs.RefNamed:
		def := s.RefDef(ref)
		if def == nil {
			return "", fmt.Errorf("reference %s is not linked", ref.Name)
		}
		if shapeOf(def) == shapeMixed {
			return "", fmt.Errorf("enum %s mixes unit and payload variants", def.Name)
		}
		return def.Name, nil
	case defs.RefBox:
		if def := namedDef(s, ref.Elem); def != nil {
			if def.IsEnum() {
				return goType(s, ref.Elem)
			}
			return "*" + def.Name, nil
		}
		inner, err := goType(s, ref.Elem)
		if err != nil {
			return "", err
		}
		return "*" + inner, nil
	case defs.RefVec:
		inner, err := goType(s, ref.Elem)
		if err != nil {
			return "", err
		}
		return "[]" + inner, nil
	case defs.RefOption:
		inner, err := goType(s, ref.Elem)
		if err != nil {
			return "", err
		}
		if nilable(s, ref.Elem) {
			return inner, nil
		}
		return "*" + inner, nil
	default:
		return "", fmt.Errorf("unknown reference kind %s", ref.Kind)
	}
}

// nilable reports whether the Go rendering of ref already has a nil value.
func nilable(s *schema.Schema, ref *defs.TypeRef) bool {
	switch ref.Kind {
	case defs.RefVec, defs.RefOption:
		return true
	case defs.RefBox:
		if def := namedDef(s, ref.Elem); def != nil && def.IsEnum() {
			return shapeOf(def) == shapeInterface
		}
		return true
	case defs.RefNamed:
		def := s.RefDef(ref)
		return def != nil && shapeOf(def) == shapeInterface
	default:
		return false
	}
}

// namedDef returns the definition ref names directly, or nil.
func namedDef(s *schema.Schema, ref *defs.TypeRef) *defs.TypeDef {
	if ref == nil || ref.Kind != defs.RefNamed {
		return nil
	}
	return s.RefDef(ref)
}

// payloadStruct returns the struct a variant carries as S or Box<S>.
func payloadStruct(s *schema.Schema, v *defs.Variant) *defs.TypeDef {
	ref := v.Payload
	if ref == nil {
		return nil
	}
	if ref.Kind == defs.RefBox {
		ref = ref.Elem
	}
	def := namedDef(s, ref)
	if def == nil || !def.IsStruct() {
		return nil
	}
	return def
}

func markerMethod(enum string) string { return "is" + enum }

func unitConst(enum *defs.TypeDef, v *defs.Variant) string {
	return enum.Name + exported(v.Name)
}
