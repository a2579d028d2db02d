package services

import "errors"

var (
	// ErrDataUnavailable means the source could not be read, lacks a
	// required column, or had no complete rows. Loading stops on it.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrNoMatchingRecords means a locality selection matched nothing.
	// Results returned alongside it are NaN or empty, never usable values.
	ErrNoMatchingRecords = errors.New("no matching records")
)
