package defs

// Primitive enumerates the leaf types of the definition language.
type Primitive uint8

const (
	PrimNone Primitive = iota
	PrimBool
	PrimU8
	PrimU16
	PrimU32
	PrimU64
	PrimI8
	PrimI16
	PrimI32
	PrimI64
	PrimF32
	PrimF64
	PrimUsize
	PrimIsize
	PrimStr
)

var primNames = [...]string{
	PrimNone:  "",
	PrimBool:  "bool",
	PrimU8:    "u8",
	PrimU16:   "u16",
	PrimU32:   "u32",
	PrimU64:   "u64",
	PrimI8:    "i8",
	PrimI16:   "i16",
	PrimI32:   "i32",
	PrimI64:   "i64",
	PrimF32:   "f32",
	PrimF64:   "f64",
	PrimUsize: "usize",
	PrimIsize: "isize",
	PrimStr:   "str",
}

var primByName = func() map[string]Primitive {
	m := make(map[string]Primitive, len(primNames))
	for p, name := range primNames {
		if name != "" {
			m[name] = Primitive(p)
		}
	}
	return m
}()

// LookupPrimitive maps a reserved type name to its primitive.
func LookupPrimitive(name string) (Primitive, bool) {
	p, ok := primByName[name]
	return p, ok
}

// IsPrimitiveName reports whether name is reserved for a primitive.
func IsPrimitiveName(name string) bool {
	_, ok := primByName[name]
	return ok
}

func (p Primitive) String() string {
	if int(p) < len(primNames) {
		return primNames[p]
	}
	return "prim?"
}

// Bits returns the fixed width of the primitive, or 0 when it depends on
// the target (usize, isize, str) or is not numeric.
func (p Primitive) Bits() int {
	switch p {
	case PrimBool, PrimU8, PrimI8:
		return 8
	case PrimU16, PrimI16:
		return 16
	case PrimU32, PrimI32, PrimF32:
		return 32
	case PrimU64, PrimI64, PrimF64:
		return 64
	default:
		return 0
	}
}

// IsTagRepr reports whether p may serve as an enum tag.
func (p Primitive) IsTagRepr() bool {
	switch p {
	case PrimU8, PrimU16, PrimU32, PrimU64:
		return true
	default:
		return false
	}
}

// MaxTag is the largest discriminant a tag of type p can hold.
func (p Primitive) MaxTag() uint64 {
	switch p {
	case PrimU8:
		return 1<<8 - 1
	case PrimU16:
		return 1<<16 - 1
	case PrimU32:
		return 1<<32 - 1
	case PrimU64:
		return 1<<64 - 1
	default:
		return 0
	}
}
