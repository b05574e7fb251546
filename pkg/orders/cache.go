package orders

import (
	"slices"
	"sync"

	"orderdash/pkg/sheets"
)

// Cache keeps the last ingestion of every sheet in memory. Entries are
// swapped whole; point updates copy the entry so readers never see a half
// applied change.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Entry)}
}

// Set replaces the entry of a sheet.
func (c *Cache) Set(sheetID string, e *Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[sheetID] = e
}

// Get returns the entry of a sheet. The entry must not be modified.
func (c *Cache) Get(sheetID string) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[sheetID]
	return e, ok
}

// UpdatePoint stores updated as the new value of order orderID and rewrites
// the raw cells of the changed fields. Other cells are left untouched. It
// reports false, changing nothing, when the sheet or order is unknown or the
// entry is no longer the ingestion identified by generation.
func (c *Cache) UpdatePoint(sheetID, generation, orderID string, updated Order, changed []Field) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[sheetID]
	if !ok || e.Meta.Generation != generation {
		return false
	}
	idx, _, ok := e.Find(orderID)
	if !ok {
		return false
	}

	next := &Entry{
		Orders:  slices.Clone(e.Orders),
		RawRows: slices.Clone(e.RawRows),
		Meta:    e.Meta,
	}
	updated.ID = orderID
	next.Orders[idx] = updated
	if idx < len(next.RawRows) {
		next.RawRows[idx] = patchRawRow(e.RawRows[idx], e.Meta.Mapping, updated, changed)
	}
	c.entries[sheetID] = next
	return true
}

// patchRawRow copies raw and overwrites the cells mapped to fields with the
// values of o.
func patchRawRow(raw sheets.RawRow, mapping HeaderMapping, o Order, fields []Field) sheets.RawRow {
	out := raw.Clone()
	for _, f := range fields {
		if h, ok := mapping[f]; ok {
			out[h] = fieldText(o, f)
		}
	}
	return out
}
