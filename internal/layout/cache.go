package layout

import "astgen/internal/defs"

type cacheEntry struct {
	Layout TypeLayout
	Err    *Error
}

type cache struct {
	byType map[defs.TypeID]cacheEntry
}

func newCache() *cache {
	return &cache{byType: make(map[defs.TypeID]cacheEntry, 256)}
}

func (c *cache) get(id defs.TypeID) (cacheEntry, bool) {
	if c == nil {
		return cacheEntry{}, false
	}
	e, ok := c.byType[id]
	return e, ok
}

func (c *cache) put(id defs.TypeID, e cacheEntry) {
	if c == nil {
		return
	}
	c.byType[id] = e
}
