// Package graph provides a directed graph of executable nodes and the
// Flow runner that walks it. Nodes carry an operation; edges may carry
// a condition evaluated against the running state. Flow executes every
// ready node of a step in parallel and stops when no node remains.
package graph
