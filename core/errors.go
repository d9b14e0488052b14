package core

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPile is returned when popping from an empty pile or progression.
	ErrEmptyPile = errors.New("pile is empty")

	// ErrIndexOutOfRange is returned for invalid positional access.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// ItemNotFoundError is returned when a referenced item does not exist in
// a container.
type ItemNotFoundError struct {
	ID string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("item not found: %s", e.ID)
}

// ItemExistsError is returned when strictly appending an item that is
// already present.
type ItemExistsError struct {
	ID string
}

func (e *ItemExistsError) Error() string {
	return fmt.Sprintf("item already exists: %s", e.ID)
}
