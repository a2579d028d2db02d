package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"housing-explorer/models"
	"housing-explorer/utils"
)

// missingTokens are cell values treated as absent, compared case-insensitively.
var missingTokens = map[string]struct{}{
	"na":   {},
	"n/a":  {},
	"nan":  {},
	"null": {},
	"none": {},
}

// Cleaner turns a RawTable into header + rows with no missing values.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean normalises the header and drops every row that has a missing or
// malformed cell in any column. It fails when a required column is absent.
func (c *Cleaner) Clean(raw *models.RawTable) ([]string, [][]string, error) {
	header := make([]string, len(raw.Header))
	index := make(map[string]int, len(raw.Header))
	for i, h := range raw.Header {
		name := strings.ToUpper(strings.TrimSpace(h))
		if _, dup := index[name]; dup {
			return nil, nil, fmt.Errorf("cleaner: duplicate column %q", name)
		}
		header[i] = name
		index[name] = i
	}

	for _, col := range models.RequiredColumns {
		if _, ok := index[col]; !ok {
			return nil, nil, fmt.Errorf("cleaner: missing required column %q", col)
		}
	}

	result := make([][]string, 0, len(raw.Rows))
	for n, r := range raw.Rows {
		row, reason := c.cleanRow(r, header, index)
		if reason != "" {
			c.logger.Debug("[cleaner] Dropping row %d: %s", n+1, reason)
			continue
		}
		result = append(result, row)
	}

	c.logger.Info("[cleaner] Cleaned %d → %d listings (dropped %d)",
		len(raw.Rows), len(result), len(raw.Rows)-len(result))
	return header, result, nil
}

// cleanRow returns the normalised row, or a non-empty reason it was dropped.
func (c *Cleaner) cleanRow(r []string, header []string, index map[string]int) ([]string, string) {
	if len(r) != len(header) {
		return nil, fmt.Sprintf("has %d fields, want %d", len(r), len(header))
	}

	row := make([]string, len(r))
	for i, cell := range r {
		cell = normaliseText(cell)
		if isMissing(cell) {
			return nil, fmt.Sprintf("missing %s", header[i])
		}
		row[i] = cell
	}

	for _, col := range []string{models.ColPrice, models.ColPropertySqft} {
		v, ok := parseNonNegative(row[index[col]])
		if !ok {
			return nil, fmt.Sprintf("invalid %s %q", col, row[index[col]])
		}
		row[index[col]] = models.FormatFloat(v)
	}

	beds, ok := parseCount(row[index[models.ColBeds]])
	if !ok {
		return nil, fmt.Sprintf("invalid %s %q", models.ColBeds, row[index[models.ColBeds]])
	}
	row[index[models.ColBeds]] = strconv.Itoa(beds)

	for _, col := range []string{models.ColLatitude, models.ColLongitude} {
		v, err := strconv.ParseFloat(row[index[col]], 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Sprintf("invalid %s %q", col, row[index[col]])
		}
	}

	return row, ""
}

func isMissing(cell string) bool {
	if cell == "" {
		return true
	}
	_, ok := missingTokens[strings.ToLower(cell)]
	return ok
}

// parseNonNegative parses a finite number >= 0. Thousands separators and a
// leading dollar sign are tolerated.
func parseNonNegative(s string) (float64, bool) {
	s = strings.TrimPrefix(strings.ReplaceAll(s, ",", ""), "$")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}

// parseCount accepts "3" and whole floats such as "3.0".
func parseCount(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, n >= 0
	}
	v, ok := parseNonNegative(s)
	if !ok || v != math.Trunc(v) || v > math.MaxInt32 {
		return 0, false
	}
	return int(v), true
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	s = strings.TrimSpace(s)
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}
