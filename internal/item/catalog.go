package item

import (
	"sort"

	"github.com/osse101/ashfall/internal/domain"
)

// Catalog is an immutable index of item types by id
type Catalog struct {
	types map[string]domain.ItemType
}

var _ domain.Catalog = (*Catalog)(nil)

// NewCatalog indexes types. A later type with the same id replaces an earlier one.
func NewCatalog(types ...domain.ItemType) *Catalog {
	c := &Catalog{types: make(map[string]domain.ItemType, len(types))}
	for _, t := range types {
		c.types[t.ID] = t
	}
	return c
}

// ItemType looks a type up by id
func (c *Catalog) ItemType(id string) (domain.ItemType, bool) {
	t, ok := c.types[id]
	return t, ok
}

// Name returns the display name of id, or id itself when it is unknown
func (c *Catalog) Name(id string) string {
	if t, ok := c.types[id]; ok {
		return t.Name
	}
	return id
}

// Len returns the number of types
func (c *Catalog) Len() int {
	return len(c.types)
}

// IDs returns every type id sorted
func (c *Catalog) IDs() []string {
	out := make([]string, 0, len(c.types))
	for id := range c.types {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
