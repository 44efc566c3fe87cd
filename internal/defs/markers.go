package defs

import "strings"

// GenSet is a set of generator families a definition opts out of.
type GenSet uint8

const (
	GenBuilder GenSet = 1 << iota
	GenKind
	GenSpan
	GenVisit
)

var genNames = []struct {
	bit  GenSet
	name string
}{
	{GenBuilder, "builder"},
	{GenKind, "kind"},
	{GenSpan, "span"},
	{GenVisit, "visit"},
}

// LookupGen maps a generator family name used by @skip.
func LookupGen(name string) (GenSet, bool) {
	for _, g := range genNames {
		if g.name == name {
			return g.bit, true
		}
	}
	return 0, false
}

func (s GenSet) Has(bit GenSet) bool { return s&bit != 0 }

func (s GenSet) String() string {
	var parts []string
	for _, g := range genNames {
		if s.Has(g.bit) {
			parts = append(parts, g.name)
		}
	}
	return strings.Join(parts, "|")
}

// ExpectLayout is a layout declared with @expect_layout.
type ExpectLayout struct {
	Size  int
	Align int
}

// InheritRef is one @inherit argument before linking.
type InheritRef struct {
	Name string
	Span Span
}

// Markers are the normalized type-level attributes.
type Markers struct {
	Visit           bool
	Span            bool
	Skip            GenSet
	Interchangeable []string
	Expect          *ExpectLayout
	Packed          bool
	Align           int
	Inherit         []InheritRef
}

// MemberMarkers are the normalized field and variant attributes.
type MemberMarkers struct {
	Skip    GenSet
	Default bool
}

// Meta is derived from the shape of one definition alone.
type Meta struct {
	HasSpanField bool
	SpanField    int
	Traversable  bool
	UnitOnly     bool
	HasPayload   bool
}
