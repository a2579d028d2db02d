package models

import (
	"fmt"
	"math"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Column names of the listing dataset, upper-cased as in the source header.
const (
	ColLocality     = "LOCALITY"
	ColPrice        = "PRICE"
	ColBeds         = "BEDS"
	ColPropertySqft = "PROPERTYSQFT"
	ColLatitude     = "LATITUDE"
	ColLongitude    = "LONGITUDE"

	ColPriceRange   = "PRICE_RANGE"
	ColPricePerSqft = "PRICE_PER_SQFT"
)

// RequiredColumns must all be present in a source header.
var RequiredColumns = []string{
	ColLocality, ColPrice, ColBeds, ColPropertySqft, ColLatitude, ColLongitude,
}

// columnTypes pins the numeric columns; every other column loads as a string.
var columnTypes = map[string]series.Type{
	ColPrice:        series.Float,
	ColBeds:         series.Int,
	ColPropertySqft: series.Float,
	ColLatitude:     series.Float,
	ColLongitude:    series.Float,
	ColPricePerSqft: series.Float,
}

// Table is an immutable listing table backed by a gota DataFrame.
// Every operation that changes rows or columns returns a new Table.
type Table struct {
	df dataframe.DataFrame
}

// NewTable builds a Table from a header and already-cleaned rows.
func NewTable(header []string, rows [][]string) (*Table, error) {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, header)
	records = append(records, rows...)

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithTypes(columnTypes),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("table: load records: %w", df.Err)
	}
	return &Table{df: df}, nil
}

// FromFrame wraps a DataFrame produced by a query.
func FromFrame(df dataframe.DataFrame) *Table {
	return &Table{df: df}
}

// Frame exposes the underlying DataFrame. gota operations return new
// frames, so callers get a read-only handle as long as they only chain them.
func (t *Table) Frame() dataframe.DataFrame {
	return t.df
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return t.df.Nrow()
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	return t.df.Names()
}

// Has reports whether the table carries the named column.
func (t *Table) Has(col string) bool {
	for _, name := range t.df.Names() {
		if name == col {
			return true
		}
	}
	return false
}

// Floats returns a numeric column as float64s. NaN marks missing cells.
func (t *Table) Floats(col string) []float64 {
	if !t.Has(col) || t.Len() == 0 {
		return nil
	}
	return t.df.Col(col).Float()
}

// Strings returns a column's cells as strings.
func (t *Table) Strings(col string) []string {
	if !t.Has(col) || t.Len() == 0 {
		return nil
	}
	return t.df.Col(col).Records()
}

// Ints returns an integer column. Cells that cannot convert are reported
// through the error.
func (t *Table) Ints(col string) ([]int, error) {
	if !t.Has(col) || t.Len() == 0 {
		return nil, nil
	}
	return t.df.Col(col).Int()
}

// Rows materialises every row as a Listing. It fails when a required
// column is absent or BEDS holds a non-integer cell.
func (t *Table) Rows() ([]Listing, error) {
	n := t.Len()
	out := make([]Listing, n)
	if n == 0 {
		return out, nil
	}
	for _, col := range RequiredColumns {
		if !t.Has(col) {
			return nil, fmt.Errorf("table: missing column %q", col)
		}
	}

	beds, err := t.Ints(ColBeds)
	if err != nil {
		return nil, fmt.Errorf("table: read %s: %w", ColBeds, err)
	}
	loc := t.Strings(ColLocality)
	price := t.Floats(ColPrice)
	sqft := t.Floats(ColPropertySqft)
	lat := t.Floats(ColLatitude)
	lon := t.Floats(ColLongitude)
	ranges := t.Strings(ColPriceRange)
	ratios := t.Floats(ColPricePerSqft)

	for i := 0; i < n; i++ {
		l := Listing{
			Locality:     loc[i],
			Price:        price[i],
			PropertySqft: sqft[i],
			Latitude:     lat[i],
			Longitude:    lon[i],
			Beds:         beds[i],
		}
		if ranges != nil {
			l.PriceRange = PriceRange(ranges[i])
		}
		if ratios != nil {
			l.PricePerSqft = ratios[i]
			l.PricePerSqftDefined = !math.IsNaN(ratios[i])
		}
		out[i] = l
	}
	return out, nil
}

// Records returns the header followed by every row as strings. Floats use
// the shortest exact representation; undefined ratios print as NaN.
func (t *Table) Records() [][]string {
	names := t.df.Names()
	n := t.Len()

	cols := make([][]string, len(names))
	for j, name := range names {
		if n == 0 {
			break
		}
		s := t.df.Col(name)
		if s.Type() != series.Float {
			cols[j] = s.Records()
			continue
		}
		vals := s.Float()
		cells := make([]string, len(vals))
		for i, v := range vals {
			cells[i] = FormatFloat(v)
		}
		cols[j] = cells
	}

	out := make([][]string, 0, n+1)
	out = append(out, append([]string(nil), names...))
	for i := 0; i < n; i++ {
		row := make([]string, len(names))
		for j := range names {
			row[j] = cols[j][i]
		}
		out = append(out, row)
	}
	return out
}

// Equal reports whether two tables have the same columns and cells.
func (t *Table) Equal(other *Table) bool {
	a, b := t.Records(), other.Records()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

// FormatFloat renders v without trailing zeros.
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
