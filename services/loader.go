package services

import (
	"context"
	"errors"
	"fmt"

	"housing-explorer/models"
	"housing-explorer/storage"
	"housing-explorer/utils"
)

// Load reads src once, cleans it and returns the listing table. Every
// failure is reported as ErrDataUnavailable with the cause attached.
func Load(ctx context.Context, src storage.ListingSource, logger *utils.Logger) (*models.Table, error) {
	raw, err := src.Read(ctx)
	if err != nil {
		return nil, unavailable("read source", err)
	}
	logger.Info("[loader] Read %d raw rows from %s", len(raw.Rows), raw.Source)

	header, rows, err := NewCleaner(logger).Clean(raw)
	if err != nil {
		return nil, unavailable("clean", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("loader: %w: no complete rows in %s", ErrDataUnavailable, raw.Source)
	}

	table, err := models.NewTable(header, rows)
	if err != nil {
		return nil, unavailable("build table", err)
	}

	logger.Info("[loader] Loaded %d listings with %d columns", table.Len(), len(table.Names()))
	return table, nil
}

func unavailable(action string, err error) error {
	return fmt.Errorf("loader: %s: %w", action, errors.Join(ErrDataUnavailable, err))
}
