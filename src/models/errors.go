package models

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by point lookups when no record exists for a ticker.
var ErrNotFound = errors.New("record not found")

// SourceUnavailableError indicates that the upstream spreadsheet could not be
// reached or did not answer within the request timeout.
type SourceUnavailableError struct {
	Sheet string
	Err   error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("sheet %s unavailable: %v", e.Sheet, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}

// SchemaMismatchError indicates that the upstream sheet answered but its
// contents could not be interpreted as the expected table.
type SchemaMismatchError struct {
	Sheet  string
	Reason string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("sheet %s schema mismatch: %s", e.Sheet, e.Reason)
}
