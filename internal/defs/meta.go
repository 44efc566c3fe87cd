package defs

// SpanTypeName is the node type whose presence as a `span` field marks a
// definition as span-bearing.
const SpanTypeName = "Span"

// DeriveMeta computes the shape-only metadata of d.
func DeriveMeta(d *TypeDef) Meta {
	meta := Meta{
		SpanField:   -1,
		Traversable: d.Markers.Visit && !d.Markers.Skip.Has(GenVisit),
	}
	switch d.Kind {
	case KindStruct:
		for i := range d.Fields {
			f := &d.Fields[i]
			if f.Name == "span" && f.Type.Kind == RefNamed && f.Type.Name == SpanTypeName {
				meta.HasSpanField = true
				meta.SpanField = i
				break
			}
		}
	case KindEnum:
		meta.UnitOnly = true
		for i := range d.Variants {
			if d.Variants[i].Payload != nil {
				meta.HasPayload = true
				meta.UnitOnly = false
			}
		}
	}
	return meta
}
