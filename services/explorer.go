package services

import (
	"strings"

	"housing-explorer/models"
	"housing-explorer/utils"
)

// AllLocalities is the selection value meaning "do not filter by locality".
const AllLocalities = "all"

// Explorer is the context every screen works against: the loaded table with
// its derived columns, and the locality catalog. It is built once at startup
// and never changes afterwards.
type Explorer struct {
	table   *models.Table
	catalog *Catalog
	logger  *utils.Logger
}

// NewExplorer derives the computed columns of t and indexes its localities.
func NewExplorer(t *models.Table, logger *utils.Logger) *Explorer {
	derived := DeriveColumns(t)
	catalog := NewCatalog(derived)
	logger.Debug("[explorer] %d listings across %d localities", derived.Len(), catalog.Len())
	return &Explorer{table: derived, catalog: catalog, logger: logger}
}

func (e *Explorer) Table() *models.Table { return e.table }

func (e *Explorer) Catalog() *Catalog { return e.catalog }

// TopHomes returns the n most expensive homes in locality.
func (e *Explorer) TopHomes(locality string, n int) *models.Table {
	return TopExpensiveByLocality(e.table, locality, n)
}

// FilterHomes applies the budget and bedroom filters. Passing AllLocalities
// skips the locality predicate.
func (e *Explorer) FilterHomes(locality string, maxPrice float64, minBeds int) *models.Table {
	if strings.EqualFold(locality, AllLocalities) {
		return models.FromFrame(withinBudget(e.table.Frame(), maxPrice, minBeds))
	}
	return FilterListings(e.table, locality, maxPrice, minBeds)
}

// Averages returns mean price and area for locality.
func (e *Explorer) Averages(locality string) (float64, float64, error) {
	meanPrice, meanArea, err := Averages(e.table, locality)
	if err != nil {
		e.logger.Debug("[explorer] No listings for locality %q", locality)
	}
	return meanPrice, meanArea, err
}
