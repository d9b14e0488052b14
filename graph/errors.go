package graph

import "errors"

var (
	// ErrNodeNotFound is returned when a node is not found in the graph.
	ErrNodeNotFound = errors.New("node not found")

	// ErrEdgeNotFound is returned when an edge is not found in the graph.
	ErrEdgeNotFound = errors.New("edge not found")

	// ErrCyclicGraph is returned when Flow is asked to run a graph that
	// contains a cycle.
	ErrCyclicGraph = errors.New("graph contains a cycle")

	// ErrNoHeads is returned when a graph has no head nodes to start from.
	ErrNoHeads = errors.New("graph has no head nodes")
)
