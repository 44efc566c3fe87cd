package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"astgen/internal/defs"
)

// Defs stores every TypeDef in a dense slice indexed by TypeID.
type Defs struct {
	data []defs.TypeDef
}

// NewDefs creates an arena with a capacity hint.
func NewDefs(capacity uint32) *Defs {
	return &Defs{data: make([]defs.TypeDef, 0, capacity)}
}

// New appends def, assigns it the next TypeID and returns that ID.
func (d *Defs) New(def defs.TypeDef) defs.TypeID {
	value, err := safecast.Conv[uint32](len(d.data))
	if err != nil || defs.TypeID(value) == defs.NoTypeID {
		panic(fmt.Errorf("type arena overflow: %w", err))
	}
	id := defs.TypeID(value)
	def.ID = id
	d.data = append(d.data, def)
	return id
}

// Get returns the definition behind id, or nil when out of range.
func (d *Defs) Get(id defs.TypeID) *defs.TypeDef {
	if int(id) >= len(d.data) {
		return nil
	}
	return &d.data[id]
}

// Len returns the number of definitions.
func (d *Defs) Len() int { return len(d.data) }
