package layout

import (
	"cmp"
	"iter"
	"slices"

	"astgen/internal/defs"
)

// Family is a set of definitions that must share one layout.
type Family struct {
	Name    string
	Members []defs.TypeID // ascending
}

// disjoint is a union-find over TypeIDs.
type disjoint struct {
	parent map[defs.TypeID]defs.TypeID
}

func (d *disjoint) find(x defs.TypeID) defs.TypeID {
	p, ok := d.parent[x]
	if !ok {
		d.parent[x] = x
		return x
	}
	if p == x {
		return x
	}
	root := d.find(p)
	d.parent[x] = root
	return root
}

func (d *disjoint) union(a, b defs.TypeID) {
	ra, rb := d.find(a), d.find(b)
	if ra == rb {
		return
	}
	// Lower id becomes the root so family order is deterministic.
	if rb < ra {
		ra, rb = rb, ra
	}
	d.parent[rb] = ra
}

// Families groups definitions joined by @interchangeable groups and by
// @inherit edges. Singletons are omitted; the result is ordered by the
// lowest member id.
func Families(all iter.Seq2[defs.TypeID, *defs.TypeDef]) []Family {
	ds := &disjoint{parent: make(map[defs.TypeID]defs.TypeID)}
	groupFirst := make(map[string]defs.TypeID)
	groupOf := make(map[defs.TypeID]string)
	names := make(map[defs.TypeID]string)

	for id, def := range all {
		names[id] = def.Name
		for _, g := range def.Markers.Interchangeable {
			if first, ok := groupFirst[g]; ok {
				ds.union(first, id)
			} else {
				groupFirst[g] = id
				ds.find(id)
			}
			if _, named := groupOf[id]; !named {
				groupOf[id] = g
			}
		}
		for _, parent := range def.Inherits {
			ds.union(id, parent)
		}
	}

	byRoot := make(map[defs.TypeID][]defs.TypeID)
	for id := range ds.parent {
		root := ds.find(id)
		byRoot[root] = append(byRoot[root], id)
	}

	out := make([]Family, 0, len(byRoot))
	for root, members := range byRoot {
		if len(members) < 2 {
			continue
		}
		slices.Sort(members)
		name := ""
		for _, m := range members {
			if g, ok := groupOf[m]; ok {
				name = g
				break
			}
		}
		if name == "" {
			name = names[root]
		}
		out = append(out, Family{Name: name, Members: members})
	}
	slices.SortFunc(out, func(a, b Family) int { return cmp.Compare(a.Members[0], b.Members[0]) })
	return out
}

// CheckFamily compares every member against the first one and returns a
// *MismatchError for the first property that differs.
func CheckFamily(f Family, resolver Resolver) error {
	if len(f.Members) < 2 {
		return nil
	}
	first := memberLayout(resolver.Def(f.Members[0]))
	for _, id := range f.Members[1:] {
		other := memberLayout(resolver.Def(id))
		if prop := differs(first, other); prop != "" {
			return &MismatchError{Family: f.Name, Property: prop, Left: first, Right: other}
		}
	}
	return nil
}

func memberLayout(def *defs.TypeDef) MemberLayout {
	m := MemberLayout{Name: def.Name}
	if l := def.Layout; l != nil {
		m.Size = l.Size
		m.Align = l.Align
		m.HasTag = l.HasTag
		m.TagOffset = l.TagOffset
		m.TagSize = l.TagSize
	}
	return m
}

func differs(a, b MemberLayout) string {
	switch {
	case a.Size != b.Size:
		return "size"
	case a.Align != b.Align:
		return "align"
	case a.HasTag && b.HasTag && a.TagOffset != b.TagOffset:
		return "tag offset"
	case a.HasTag && b.HasTag && a.TagSize != b.TagSize:
		return "tag size"
	}
	return ""
}
