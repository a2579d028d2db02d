package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"housing-explorer/models"
	"housing-explorer/utils"
)

// PostgresSource reads the listing dataset from a PostgreSQL table.
// It only ever issues a single SELECT.
type PostgresSource struct {
	db    *sql.DB
	table string
}

// NewPostgresSource opens a connection and waits for the server to answer,
// retrying with back-off.
func NewPostgresSource(ctx context.Context, dsn, table string, retry *utils.RetryConfig) (*PostgresSource, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	err = retry.Do(ctx, "postgres-ping", func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return db.PingContext(pingCtx)
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	return &PostgresSource{db: db, table: table}, nil
}

// selectAllQuery returns the statement used to read the whole table.
func selectAllQuery(table string) string {
	return "SELECT * FROM " + pq.QuoteIdentifier(table)
}

// Read fetches every row as strings. NULL cells become empty strings, which
// the cleaner treats as missing.
func (p *PostgresSource) Read(ctx context.Context) (*models.RawTable, error) {
	rows, err := p.db.QueryContext(ctx, selectAllQuery(p.table))
	if err != nil {
		return nil, fmt.Errorf("postgres: select %s: %w", p.table, err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("postgres: columns: %w", err)
	}

	raw := &models.RawTable{Source: "postgres:" + p.table, Header: header}
	cells := make([]sql.NullString, len(header))
	dest := make([]any, len(header))
	for i := range cells {
		dest[i] = &cells[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		row := make([]string, len(cells))
		for i, c := range cells {
			if c.Valid {
				row[i] = c.String
			}
		}
		raw.Rows = append(raw.Rows, row)
	}
	return raw, rows.Err()
}

func (p *PostgresSource) Close() error {
	return p.db.Close()
}
