package ast

import (
	"slices"
	"strings"
)

// AttrTargetMask describes the set of declarations an attribute may be applied to.
type AttrTargetMask uint8

const (
	AttrTargetNone   AttrTargetMask = 0
	AttrTargetStruct AttrTargetMask = 1 << iota
	AttrTargetEnum
	AttrTargetField
	AttrTargetVariant

	AttrTargetType = AttrTargetStruct | AttrTargetEnum
)

func (m AttrTargetMask) String() string {
	var parts []string
	for _, t := range []struct {
		bit  AttrTargetMask
		name string
	}{
		{AttrTargetStruct, "type"},
		{AttrTargetEnum, "enum"},
		{AttrTargetField, "field"},
		{AttrTargetVariant, "variant"},
	} {
		if m&t.bit != 0 {
			parts = append(parts, t.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

// AttrArgShape is the argument list an attribute accepts.
type AttrArgShape uint8

const (
	AttrArgsNone     AttrArgShape = iota // @visit
	AttrArgsNames                        // @skip(builder, visit), one or more names
	AttrArgsName                         // @interchangeable(Group), exactly one name or string
	AttrArgsInt                          // @align(8)
	AttrArgsKeyedInt                     // @expect_layout(size = 16, align = 8)
)

// AttrSpec describes an attribute, its supported targets and argument shape.
type AttrSpec struct {
	Name       string
	Targets    AttrTargetMask
	Args       AttrArgShape
	Keys       []string // for AttrArgsKeyedInt
	Repeatable bool
}

// Allows reports whether the attribute can be applied to the provided target bit.
func (spec AttrSpec) Allows(target AttrTargetMask) bool {
	return spec.Targets&target != 0
}

var attrRegistry = map[string]AttrSpec{
	"visit":           {Name: "visit", Targets: AttrTargetType},
	"span":            {Name: "span", Targets: AttrTargetType},
	"skip":            {Name: "skip", Targets: AttrTargetType | AttrTargetField | AttrTargetVariant, Args: AttrArgsNames, Repeatable: true},
	"default":         {Name: "default", Targets: AttrTargetField},
	"inherit":         {Name: "inherit", Targets: AttrTargetEnum, Args: AttrArgsNames, Repeatable: true},
	"interchangeable": {Name: "interchangeable", Targets: AttrTargetType, Args: AttrArgsName, Repeatable: true},
	"expect_layout":   {Name: "expect_layout", Targets: AttrTargetType, Args: AttrArgsKeyedInt, Keys: []string{"size", "align"}},
	"packed":          {Name: "packed", Targets: AttrTargetStruct},
	"align":           {Name: "align", Targets: AttrTargetStruct, Args: AttrArgsInt},
}

// LookupAttr returns metadata for the given attribute name.
func LookupAttr(name string) (AttrSpec, bool) {
	spec, ok := attrRegistry[name]
	return spec, ok
}

// AttrSpecs returns all registered attribute specifications sorted by name.
func AttrSpecs() []AttrSpec {
	names := make([]string, 0, len(attrRegistry))
	for name := range attrRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	result := make([]AttrSpec, 0, len(names))
	for _, name := range names {
		result = append(result, attrRegistry[name])
	}
	return result
}
