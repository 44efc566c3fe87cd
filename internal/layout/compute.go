package layout

import "astgen/internal/defs"

func (e *Engine) computeLayout(def *defs.TypeDef, state *layoutState) (TypeLayout, *Error) {
	switch def.Kind {
	case defs.KindEnum:
		return e.enumLayout(def, state)
	default:
		return e.structLayout(def, state)
	}
}

func (e *Engine) refLayout(ref *defs.TypeRef, owner string, state *layoutState) (TypeLayout, *Error) {
	switch ref.Kind {
	case defs.RefPrimitive:
		return e.primLayout(ref.Prim), nil
	case defs.RefBox:
		l := e.ptrLayout()
		l.Niche = true
		return l, nil
	case defs.RefVec:
		// pointer, length, capacity
		l := e.ptrLayout()
		l.Size *= 3
		l.Niche = true
		return l, nil
	case defs.RefOption:
		inner, err := e.refLayout(ref.Elem, owner, state)
		if err != nil {
			return inner, err
		}
		return optionLayout(inner), nil
	case defs.RefNamed:
		if !ref.ID.IsValid() {
			return TypeLayout{Size: 0, Align: 1}, &Error{Kind: ErrUnresolved, Name: owner, Ref: ref.Name}
		}
		return e.layoutOf(ref.ID, state)
	default:
		return TypeLayout{Size: 0, Align: 1}, nil
	}
}

func (e *Engine) primLayout(p defs.Primitive) TypeLayout {
	switch p {
	case defs.PrimBool:
		return TypeLayout{Size: 1, Align: 1, Niche: true}
	case defs.PrimUsize, defs.PrimIsize:
		return e.ptrLayout()
	case defs.PrimStr:
		// pointer, length
		l := e.ptrLayout()
		l.Size *= 2
		l.Niche = true
		return l
	default:
		return scalarLayoutBytes(p.Bits() / 8)
	}
}

// optionLayout uses the niche of inner when it has one, otherwise prefixes
// a one-byte presence flag.
func optionLayout(inner TypeLayout) TypeLayout {
	if inner.Niche {
		out := inner
		out.Niche = false
		return out
	}
	align := maxInt(1, inner.Align)
	off := roundUp(1, align)
	return TypeLayout{
		Size:  roundUp(off+inner.Size, align),
		Align: align,
	}
}

func (e *Engine) ptrLayout() TypeLayout {
	ptrSize := e.Target.PtrSize
	ptrAlign := e.Target.PtrAlign
	if ptrSize <= 0 {
		ptrSize = 8
	}
	if ptrAlign <= 0 {
		ptrAlign = ptrSize
	}
	return TypeLayout{Size: ptrSize, Align: ptrAlign}
}

func scalarLayoutBytes(size int) TypeLayout {
	if size <= 0 {
		return TypeLayout{Size: 0, Align: 1}
	}
	return TypeLayout{Size: size, Align: size}
}

func roundUp(n, align int) int {
	if align <= 1 {
		return n
	}
	r := n % align
	if r == 0 {
		return n
	}
	return n + (align - r)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (e *Engine) structLayout(def *defs.TypeDef, state *layoutState) (TypeLayout, *Error) {
	fields := def.Fields
	offsets := make([]int, len(fields))

	if def.Markers.Packed {
		size := 0
		for i := range fields {
			fl, err := e.refLayout(fields[i].Type, def.Name, state)
			if err != nil {
				return TypeLayout{Size: 0, Align: 1}, err
			}
			offsets[i] = size
			size += fl.Size
		}
		return TypeLayout{
			Size:         size,
			Align:        1,
			FieldOffsets: offsets,
		}, nil
	}

	size := 0
	align := 1
	for i := range fields {
		fl, err := e.refLayout(fields[i].Type, def.Name, state)
		if err != nil {
			return TypeLayout{Size: 0, Align: 1}, err
		}
		fAlign := maxInt(1, fl.Align)
		size = roundUp(size, fAlign)
		offsets[i] = size
		size += fl.Size
		align = maxInt(align, fAlign)
	}

	if def.Markers.Align != 0 {
		align = maxInt(align, def.Markers.Align)
	}
	size = roundUp(size, align)
	return TypeLayout{
		Size:         size,
		Align:        align,
		FieldOffsets: offsets,
	}, nil
}

// enumLayout places the tag at offset 0 and the largest payload after it,
// aligned to the strictest payload alignment.
func (e *Engine) enumLayout(def *defs.TypeDef, state *layoutState) (TypeLayout, *Error) {
	maxPayloadSize := 0
	payloadAlign := 1
	for i := range def.Variants {
		v := &def.Variants[i]
		if v.Payload == nil {
			continue
		}
		pl, err := e.refLayout(v.Payload, def.Name, state)
		if err != nil {
			return TypeLayout{Size: 0, Align: 1}, err
		}
		maxPayloadSize = maxInt(maxPayloadSize, pl.Size)
		payloadAlign = maxInt(payloadAlign, pl.Align)
	}

	repr := def.Repr
	if !repr.IsTagRepr() {
		repr = defs.PrimU8
	}
	tagSize := repr.Bits() / 8
	tagAlign := tagSize
	payloadOffset := roundUp(tagSize, payloadAlign)
	overallAlign := maxInt(tagAlign, payloadAlign)
	size := roundUp(payloadOffset+maxPayloadSize, overallAlign)

	// A tag value no variant uses is a niche.
	niche := uint64(len(def.Variants)) <= repr.MaxTag()

	return TypeLayout{
		Size:          size,
		Align:         overallAlign,
		HasTag:        true,
		TagSize:       tagSize,
		PayloadOffset: payloadOffset,
		Niche:         niche,
	}, nil
}
