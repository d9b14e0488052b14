package core

import (
	"time"

	"github.com/google/uuid"
)

// Item is anything that can live in a Pile or be referenced by a
// Progression. Elements satisfy it by construction.
type Item interface {
	GetID() string
}

// Element is the base identity embedded by all first-class lionago
// objects. Two elements are considered the same object when their IDs
// are equal.
type Element struct {
	// ID is the unique identifier for the element.
	ID string `json:"id"`

	// CreatedAt is the creation timestamp.
	CreatedAt time.Time `json:"created_at"`

	// Metadata holds arbitrary annotations attached to the element.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewElement creates an Element with a fresh UUID and the current time.
func NewElement() Element {
	return Element{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
	}
}

// GetID returns the element's ID.
func (e Element) GetID() string {
	return e.ID
}

// SetMeta sets a metadata key, allocating the map on first use.
func (e *Element) SetMeta(key string, value any) {
	if e.Metadata == nil {
		e.Metadata = make(map[string]any)
	}
	e.Metadata[key] = value
}

// GetMeta returns a metadata value and whether it was present.
func (e *Element) GetMeta(key string) (any, bool) {
	if e.Metadata == nil {
		return nil, false
	}
	v, ok := e.Metadata[key]
	return v, ok
}
