package core

import "slices"

// Progression is a named, ordered sequence of element IDs.
//
// It tracks orderings separately from the items themselves, so multiple
// progressions can impose different views over the same pile (e.g. a
// branch transcript and a pending-work queue). Progression is not safe
// for concurrent use; owners that share one must synchronize access.
type Progression struct {
	// Name optionally identifies the progression.
	Name string `json:"name,omitempty"`

	// Order is the sequence of element IDs.
	Order []string `json:"order"`
}

// NewProgression creates a progression with the given name and IDs.
func NewProgression(name string, ids ...string) *Progression {
	return &Progression{Name: name, Order: slices.Clone(ids)}
}

// Len returns the number of IDs in the progression.
func (p *Progression) Len() int {
	return len(p.Order)
}

// Contains reports whether the ID is present.
func (p *Progression) Contains(id string) bool {
	return slices.Contains(p.Order, id)
}

// Index returns the position of the ID, or -1 if absent.
func (p *Progression) Index(id string) int {
	return slices.Index(p.Order, id)
}

// Append adds IDs to the end, regardless of duplicates.
func (p *Progression) Append(ids ...string) {
	p.Order = append(p.Order, ids...)
}

// Include appends IDs that are not already present.
func (p *Progression) Include(ids ...string) {
	for _, id := range ids {
		if !p.Contains(id) {
			p.Order = append(p.Order, id)
		}
	}
}

// Exclude removes every occurrence of each given ID.
func (p *Progression) Exclude(ids ...string) {
	for _, id := range ids {
		p.Order = slices.DeleteFunc(p.Order, func(s string) bool { return s == id })
	}
}

// Insert places IDs at the given position.
func (p *Progression) Insert(index int, ids ...string) error {
	if index < 0 || index > len(p.Order) {
		return ErrIndexOutOfRange
	}
	p.Order = slices.Insert(p.Order, index, ids...)
	return nil
}

// At returns the ID at the given position.
func (p *Progression) At(index int) (string, error) {
	if index < 0 || index >= len(p.Order) {
		return "", ErrIndexOutOfRange
	}
	return p.Order[index], nil
}

// PopLeft removes and returns the first ID.
func (p *Progression) PopLeft() (string, error) {
	if len(p.Order) == 0 {
		return "", ErrEmptyPile
	}
	id := p.Order[0]
	p.Order = p.Order[1:]
	return id, nil
}

// Pop removes and returns the last ID.
func (p *Progression) Pop() (string, error) {
	if len(p.Order) == 0 {
		return "", ErrEmptyPile
	}
	id := p.Order[len(p.Order)-1]
	p.Order = p.Order[:len(p.Order)-1]
	return id, nil
}

// Extend appends the other progression's IDs.
func (p *Progression) Extend(other *Progression) {
	if other == nil {
		return
	}
	p.Order = append(p.Order, other.Order...)
}

// Clear removes all IDs.
func (p *Progression) Clear() {
	p.Order = nil
}

// Copy returns a deep copy of the progression.
func (p *Progression) Copy() *Progression {
	return &Progression{Name: p.Name, Order: slices.Clone(p.Order)}
}

// Equal reports whether both progressions hold the same IDs in the same
// order.
func (p *Progression) Equal(other *Progression) bool {
	if other == nil {
		return false
	}
	return slices.Equal(p.Order, other.Order)
}
