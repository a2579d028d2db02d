package storage

import (
	"context"

	"housing-explorer/models"
)

// ListingSource is the read-only tabular resource the explorer loads once.
type ListingSource interface {
	Read(ctx context.Context) (*models.RawTable, error)
	Close() error
}

// TableWriter exports a query result. It never writes back to a source.
type TableWriter interface {
	WriteTable(t *models.Table) error
	Close() error
}
