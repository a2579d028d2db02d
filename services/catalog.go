package services

import (
	"sort"

	"housing-explorer/models"
)

// BuildCatalog returns the distinct localities in ascending order and the
// ordinal of each one, which is its position in that order.
func BuildCatalog(t *models.Table) ([]string, map[string]int) {
	seen := make(map[string]struct{})
	localities := make([]string, 0)
	for _, loc := range t.Strings(models.ColLocality) {
		if _, dup := seen[loc]; dup {
			continue
		}
		seen[loc] = struct{}{}
		localities = append(localities, loc)
	}
	sort.Strings(localities)

	ordinals := make(map[string]int, len(localities))
	for i, loc := range localities {
		ordinals[loc] = i
	}
	return localities, ordinals
}

// Catalog is the locality index built once per loaded table and shared by
// every selection input.
type Catalog struct {
	localities []string
	ordinals   map[string]int
}

// NewCatalog builds the catalog for t.
func NewCatalog(t *models.Table) *Catalog {
	localities, ordinals := BuildCatalog(t)
	return &Catalog{localities: localities, ordinals: ordinals}
}

// Localities returns a copy of the sorted locality names.
func (c *Catalog) Localities() []string {
	return append([]string(nil), c.localities...)
}

// Ordinal returns the position of name in the sorted list.
func (c *Catalog) Ordinal(name string) (int, bool) {
	i, ok := c.ordinals[name]
	return i, ok
}

func (c *Catalog) Contains(name string) bool {
	_, ok := c.ordinals[name]
	return ok
}

func (c *Catalog) Len() int { return len(c.localities) }
