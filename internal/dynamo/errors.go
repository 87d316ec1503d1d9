package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for world operations.
var (
	// ErrUnknownBody indicates a body that is not part of the world.
	ErrUnknownBody = errors.New("dynamo: body not in world")

	// ErrDuplicateBody indicates a body that is already part of the world.
	ErrDuplicateBody = errors.New("dynamo: body already in world")

	// ErrInvalidShape indicates non-positive body dimensions.
	ErrInvalidShape = errors.New("dynamo: invalid body shape")
)

// CompositeError wraps an error with the composite and body that caused it.
type CompositeError struct {
	Label   string
	BodyID  uint64
	Wrapped error
}

func (e *CompositeError) Error() string {
	return fmt.Sprintf("composite %q body %d: %v", e.Label, e.BodyID, e.Wrapped)
}

func (e *CompositeError) Unwrap() error {
	return e.Wrapped
}
