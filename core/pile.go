package core

import (
	"sync"
)

// Pile is an ordered, ID-keyed, thread-safe collection of items.
//
// Items are kept in insertion order; positional access, inclusion and
// exclusion all preserve the invariant that the order slice and the item
// map reference exactly the same IDs.
type Pile[E Item] struct {
	mu    sync.RWMutex
	items map[string]E
	order []string
}

// NewPile creates a pile containing the given items, in order.
// Duplicate IDs collapse to the first occurrence.
func NewPile[E Item](items ...E) *Pile[E] {
	p := &Pile[E]{
		items: make(map[string]E, len(items)),
	}
	p.Include(items...)
	return p
}

// Len returns the number of items in the pile.
func (p *Pile[E]) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.order)
}

// IsEmpty reports whether the pile has no items.
func (p *Pile[E]) IsEmpty() bool {
	return p.Len() == 0
}

// Contains reports whether an item with the given ID is present.
func (p *Pile[E]) Contains(id string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.items[id]
	return ok
}

// Include adds items, skipping any whose ID is already present.
// It never fails; use Append when duplicates should be an error.
func (p *Pile[E]) Include(items ...E) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, item := range items {
		id := item.GetID()
		if _, ok := p.items[id]; ok {
			continue
		}
		p.items[id] = item
		p.order = append(p.order, id)
	}
}

// Append adds items strictly, returning ItemExistsError on a duplicate.
// Items before the offending one stay added.
func (p *Pile[E]) Append(items ...E) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, item := range items {
		id := item.GetID()
		if _, ok := p.items[id]; ok {
			return &ItemExistsError{ID: id}
		}
		p.items[id] = item
		p.order = append(p.order, id)
	}
	return nil
}

// Insert places an item at the given position in the order.
func (p *Pile[E]) Insert(index int, item E) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if index < 0 || index > len(p.order) {
		return ErrIndexOutOfRange
	}
	id := item.GetID()
	if _, ok := p.items[id]; ok {
		return &ItemExistsError{ID: id}
	}
	p.items[id] = item
	p.order = append(p.order, "")
	copy(p.order[index+1:], p.order[index:])
	p.order[index] = id
	return nil
}

// Get returns the item with the given ID.
func (p *Pile[E]) Get(id string) (E, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	item, ok := p.items[id]
	if !ok {
		var zero E
		return zero, &ItemNotFoundError{ID: id}
	}
	return item, nil
}

// At returns the item at the given position in insertion order.
func (p *Pile[E]) At(index int) (E, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if index < 0 || index >= len(p.order) {
		var zero E
		return zero, ErrIndexOutOfRange
	}
	return p.items[p.order[index]], nil
}

// Exclude removes the item with the given ID if present. It reports
// whether the pile no longer contains the ID, so excluding an absent
// item returns true.
func (p *Pile[E]) Exclude(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.items[id]; !ok {
		return true
	}
	p.removeLocked(id)
	return true
}

// Pop removes and returns the item with the given ID.
func (p *Pile[E]) Pop(id string) (E, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	item, ok := p.items[id]
	if !ok {
		var zero E
		return zero, &ItemNotFoundError{ID: id}
	}
	p.removeLocked(id)
	return item, nil
}

// PopLeft removes and returns the oldest item.
func (p *Pile[E]) PopLeft() (E, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.order) == 0 {
		var zero E
		return zero, ErrEmptyPile
	}
	id := p.order[0]
	item := p.items[id]
	p.removeLocked(id)
	return item, nil
}

// Update inserts or replaces items by ID, preserving the position of
// items that are already present.
func (p *Pile[E]) Update(items ...E) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, item := range items {
		id := item.GetID()
		if _, ok := p.items[id]; ok {
			p.items[id] = item
			continue
		}
		p.items[id] = item
		p.order = append(p.order, id)
	}
}

// Clear removes all items.
func (p *Pile[E]) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = make(map[string]E)
	p.order = nil
}

// Keys returns the item IDs in insertion order.
func (p *Pile[E]) Keys() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	keys := make([]string, len(p.order))
	copy(keys, p.order)
	return keys
}

// Values returns the items in insertion order.
func (p *Pile[E]) Values() []E {
	p.mu.RLock()
	defer p.mu.RUnlock()
	values := make([]E, 0, len(p.order))
	for _, id := range p.order {
		values = append(values, p.items[id])
	}
	return values
}

// Merge includes every item from other, skipping duplicates.
func (p *Pile[E]) Merge(other *Pile[E]) {
	if other == nil {
		return
	}
	p.Include(other.Values()...)
}

// removeLocked deletes an item and its order entry. Caller holds p.mu.
func (p *Pile[E]) removeLocked(id string) {
	delete(p.items, id)
	for i, oid := range p.order {
		if oid == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}
