package loader

import (
	"strconv"

	"fortio.org/safecast"

	"astgen/internal/ast"
	"astgen/internal/defs"
	"astgen/internal/diag"
)

// checkAttrs validates names, targets, duplicates and argument shapes, and
// returns the attributes that passed.
func (x *expander) checkAttrs(attrs []ast.Attr, target ast.AttrTargetMask) []ast.Attr {
	ok := make([]ast.Attr, 0, len(attrs))
	seen := make(map[string]bool, len(attrs))
	for _, a := range attrs {
		spec, known := ast.LookupAttr(a.Name)
		if !known {
			x.errorf(diag.ExpUnknownAttr, a.Span, "unknown attribute @%s", a.Name)
			continue
		}
		if !spec.Allows(target) {
			code := diag.ExpAttrNotAllowed
			if a.Name == "inherit" && target == ast.AttrTargetStruct {
				code = diag.ExpInheritOnStruct
			}
			x.errorf(code, a.Span, "@%s is not allowed on %s (allowed on %s)", a.Name, target, spec.Targets)
			continue
		}
		if seen[a.Name] && !spec.Repeatable {
			x.errorf(diag.ExpDuplicateAttr, a.Span, "duplicate attribute @%s", a.Name)
			continue
		}
		seen[a.Name] = true
		if !x.checkArgs(spec, a) {
			continue
		}
		ok = append(ok, a)
	}
	return ok
}

func (x *expander) checkArgs(spec ast.AttrSpec, a ast.Attr) bool {
	bad := func(format string, args ...any) bool {
		x.errorf(diag.ExpAttrBadArgument, a.Span, "@"+a.Name+": "+format, args...)
		return false
	}
	switch spec.Args {
	case ast.AttrArgsNone:
		if len(a.Args) != 0 {
			return bad("takes no arguments")
		}
	case ast.AttrArgsNames:
		if len(a.Args) == 0 {
			return bad("expects at least one name")
		}
		for _, arg := range a.Args {
			if arg.Key != "" || arg.Value.Kind != ast.LitIdent {
				return bad("expects names, got %s", arg.Value.Text)
			}
		}
	case ast.AttrArgsName:
		if len(a.Args) != 1 || a.Args[0].Key != "" || a.Args[0].Value.Kind == ast.LitInt {
			return bad("expects exactly one name")
		}
	case ast.AttrArgsInt:
		if len(a.Args) != 1 || a.Args[0].Key != "" || a.Args[0].Value.Kind != ast.LitInt {
			return bad("expects exactly one integer")
		}
	case ast.AttrArgsKeyedInt:
		if len(a.Args) == 0 {
			return bad("expects %v", spec.Keys)
		}
		keys := make(map[string]bool, len(a.Args))
		for _, arg := range a.Args {
			known := false
			for _, k := range spec.Keys {
				known = known || k == arg.Key
			}
			if !known || keys[arg.Key] || arg.Value.Kind != ast.LitInt {
				return bad("expects keyed integers %v", spec.Keys)
			}
			keys[arg.Key] = true
		}
	}
	return true
}

func (x *expander) typeMarkers(attrs []ast.Attr, target ast.AttrTargetMask) defs.Markers {
	var m defs.Markers
	for _, a := range x.checkAttrs(attrs, target) {
		switch a.Name {
		case "visit":
			m.Visit = true
		case "span":
			m.Span = true
		case "skip":
			m.Skip |= x.genSet(a)
		case "interchangeable":
			m.Interchangeable = append(m.Interchangeable, a.Args[0].Value.Value)
		case "inherit":
			for _, arg := range a.Args {
				m.Inherit = append(m.Inherit, defs.InheritRef{Name: arg.Value.Value, Span: arg.Span})
			}
		case "expect_layout":
			exp := &defs.ExpectLayout{}
			for _, arg := range a.Args {
				n, ok := x.intArg(a, arg)
				if !ok {
					continue
				}
				switch arg.Key {
				case "size":
					exp.Size = n
				case "align":
					exp.Align = n
				}
			}
			m.Expect = exp
		case "packed":
			m.Packed = true
		case "align":
			n, ok := x.intArg(a, a.Args[0])
			if !ok {
				continue
			}
			if n <= 0 || n&(n-1) != 0 {
				x.errorf(diag.ExpAlignNotPowerOfTwo, a.Span, "@align(%d) is not a power of two", n)
				continue
			}
			m.Align = n
		}
	}
	if m.Packed && m.Align != 0 {
		sp := attrs[0].Span
		for _, a := range attrs {
			if a.Name == "align" {
				sp = a.Span
			}
		}
		x.errorf(diag.ExpPackedAlign, sp, "@packed conflicts with @align")
	}
	return m
}

func (x *expander) memberMarkers(attrs []ast.Attr, target ast.AttrTargetMask) defs.MemberMarkers {
	var m defs.MemberMarkers
	for _, a := range x.checkAttrs(attrs, target) {
		switch a.Name {
		case "skip":
			m.Skip |= x.genSet(a)
		case "default":
			m.Default = true
		}
	}
	return m
}

func (x *expander) genSet(a ast.Attr) defs.GenSet {
	var set defs.GenSet
	for _, arg := range a.Args {
		g, ok := defs.LookupGen(arg.Value.Value)
		if !ok {
			x.errorf(diag.ExpAttrBadArgument, arg.Span, "@skip: unknown generator %q (expected builder, kind, span or visit)", arg.Value.Value)
			continue
		}
		set |= g
	}
	return set
}

func (x *expander) intArg(a ast.Attr, arg ast.AttrArg) (int, bool) {
	u, err := strconv.ParseUint(arg.Value.Text, 0, 64)
	if err == nil {
		var n int
		if n, err = safecast.Conv[int](u); err == nil {
			return n, true
		}
	}
	x.errorf(diag.ExpAttrBadArgument, arg.Span, "@%s: invalid integer %s: %v", a.Name, arg.Value.Text, err)
	return 0, false
}
