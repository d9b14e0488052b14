// Package core provides the identity and container primitives that the
// rest of lionago is built on.
//
// Every first-class object embeds Element, which carries a UUID, a
// creation timestamp and free-form metadata. Elements are compared by ID.
//
// Two containers operate on elements:
//
//   - Pile: an ordered, ID-keyed, thread-safe collection of items.
//   - Progression: a lightweight ordered sequence of element IDs, used to
//     track orderings (message transcripts, pending work) separately from
//     the items themselves.
//
// Event extends Element with a lifecycle status and an execution record;
// it is the unit of queued work consumed by the service executor.
package core
