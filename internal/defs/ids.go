package defs

import "math"

// TypeID is a dense index into the type arena.
type TypeID uint32

// NoTypeID marks a reference that has not been resolved.
const NoTypeID TypeID = math.MaxUint32

// IsValid reports whether id points into an arena.
func (id TypeID) IsValid() bool { return id != NoTypeID }
