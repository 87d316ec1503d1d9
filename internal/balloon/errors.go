package balloon

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCategory indicates a category name outside none, work and personal.
	ErrUnknownCategory = errors.New("balloon: unknown category")

	// ErrMissingField indicates a snapshot record without a required value.
	ErrMissingField = errors.New("balloon: missing field")
)

// RestoreError reports why a persisted record could not become a balloon.
// Index is the record's position in the persisted list, or -1 when unknown.
type RestoreError struct {
	Index int
	Field string
	Err   error
}

func (e *RestoreError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("restore %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("restore record %d %s: %v", e.Index, e.Field, e.Err)
}

func (e *RestoreError) Unwrap() error {
	return e.Err
}
