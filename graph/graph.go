package graph

import (
	"context"
	"fmt"
	"sync"

	"github.com/smallnest/lionago/core"
)

// State is the data threaded through a flow run. Each operation
// receives the merged state so far and returns the keys it updates.
type State = map[string]any

// OperationFunc is the work a node performs.
type OperationFunc func(ctx context.Context, state State) (State, error)

// ConditionFunc gates an edge. The tail node is only reachable through
// the edge when the condition reports true for the current state.
type ConditionFunc func(ctx context.Context, state State) bool

// Node is a vertex of the graph. It carries an identity so it can live
// in piles and snapshots alongside messages.
type Node struct {
	core.Element

	// Name is the display name used in diagrams and errors.
	Name string

	// Operation is executed when the node becomes ready. A nil
	// operation makes the node a pass-through.
	Operation OperationFunc
}

// NewNode creates a named node with the given operation.
func NewNode(name string, op OperationFunc) *Node {
	return &Node{Element: core.NewElement(), Name: name, Operation: op}
}

// Edge is a directed connection between two nodes, identified by their
// IDs. Condition, when set, is evaluated at traversal time.
type Edge struct {
	core.Element

	Head      string
	Tail      string
	Label     string
	Condition ConditionFunc
}

// NewEdge creates an edge from head to tail.
func NewEdge(head, tail *Node) *Edge {
	return &Edge{Element: core.NewElement(), Head: head.GetID(), Tail: tail.GetID()}
}

// Graph is a directed graph of nodes and edges. All mutation and
// traversal methods are safe for concurrent use.
type Graph struct {
	mu    sync.RWMutex
	nodes *core.Pile[*Node]
	edges *core.Pile[*Edge]

	// outEdges and inEdges map node ID to the IDs of incident edges,
	// in insertion order.
	outEdges map[string][]string
	inEdges  map[string][]string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    core.NewPile[*Node](),
		edges:    core.NewPile[*Edge](),
		outEdges: make(map[string][]string),
		inEdges:  make(map[string][]string),
	}
}

// AddNode adds a node. Adding the same node twice is an error.
func (g *Graph) AddNode(node *Node) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.nodes.Append(node)
}

// AddEdge adds an edge. Both endpoints must already be in the graph.
func (g *Graph) AddEdge(edge *Edge) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.nodes.Contains(edge.Head) {
		return fmt.Errorf("%w: head %s", ErrNodeNotFound, edge.Head)
	}
	if !g.nodes.Contains(edge.Tail) {
		return fmt.Errorf("%w: tail %s", ErrNodeNotFound, edge.Tail)
	}
	if err := g.edges.Append(edge); err != nil {
		return err
	}
	g.outEdges[edge.Head] = append(g.outEdges[edge.Head], edge.GetID())
	g.inEdges[edge.Tail] = append(g.inEdges[edge.Tail], edge.GetID())
	return nil
}

// Connect adds an unconditional edge between two existing nodes and
// returns it.
func (g *Graph) Connect(head, tail *Node) (*Edge, error) {
	edge := NewEdge(head, tail)
	if err := g.AddEdge(edge); err != nil {
		return nil, err
	}
	return edge, nil
}

// ConnectIf adds an edge gated by cond and returns it.
func (g *Graph) ConnectIf(head, tail *Node, cond ConditionFunc) (*Edge, error) {
	edge := NewEdge(head, tail)
	edge.Condition = cond
	if err := g.AddEdge(edge); err != nil {
		return nil, err
	}
	return edge, nil
}

// RemoveNode removes a node and every edge incident to it.
func (g *Graph) RemoveNode(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.nodes.Contains(id) {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	g.nodes.Exclude(id)
	for _, edgeID := range append(append([]string{}, g.outEdges[id]...), g.inEdges[id]...) {
		g.removeEdgeLocked(edgeID)
	}
	delete(g.outEdges, id)
	delete(g.inEdges, id)
	return nil
}

// RemoveEdge removes a single edge.
func (g *Graph) RemoveEdge(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.edges.Contains(id) {
		return fmt.Errorf("%w: %s", ErrEdgeNotFound, id)
	}
	g.removeEdgeLocked(id)
	return nil
}

func (g *Graph) removeEdgeLocked(id string) {
	edge, err := g.edges.Get(id)
	if err != nil {
		return
	}
	g.edges.Exclude(id)
	g.outEdges[edge.Head] = removeString(g.outEdges[edge.Head], id)
	g.inEdges[edge.Tail] = removeString(g.inEdges[edge.Tail], id)
}

func removeString(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, error) {
	return g.nodes.Get(id)
}

// Edge returns the edge with the given ID.
func (g *Graph) Edge(id string) (*Edge, error) {
	return g.edges.Get(id)
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node { return g.nodes.Values() }

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []*Edge { return g.edges.Values() }

// Size returns the number of nodes.
func (g *Graph) Size() int { return g.nodes.Len() }

// OutEdges returns the edges leaving the node.
func (g *Graph) OutEdges(id string) []*Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.edgesByID(g.outEdges[id])
}

// InEdges returns the edges entering the node.
func (g *Graph) InEdges(id string) []*Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.edgesByID(g.inEdges[id])
}

func (g *Graph) edgesByID(ids []string) []*Edge {
	out := make([]*Edge, 0, len(ids))
	for _, id := range ids {
		if edge, err := g.edges.Get(id); err == nil {
			out = append(out, edge)
		}
	}
	return out
}

// Successors returns the nodes reachable over one outgoing edge.
func (g *Graph) Successors(id string) []*Node {
	var out []*Node
	for _, edge := range g.OutEdges(id) {
		if node, err := g.nodes.Get(edge.Tail); err == nil {
			out = append(out, node)
		}
	}
	return out
}

// Predecessors returns the nodes with an edge into the given node.
func (g *Graph) Predecessors(id string) []*Node {
	var out []*Node
	for _, edge := range g.InEdges(id) {
		if node, err := g.nodes.Get(edge.Head); err == nil {
			out = append(out, node)
		}
	}
	return out
}

// Heads returns the nodes with no incoming edges, in insertion order.
func (g *Graph) Heads() []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var heads []*Node
	for _, node := range g.nodes.Values() {
		if len(g.inEdges[node.GetID()]) == 0 {
			heads = append(heads, node)
		}
	}
	return heads
}

// IsAcyclic reports whether the graph contains no directed cycle.
func (g *Graph) IsAcyclic() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	const (
		white = 0 // unvisited
		gray  = 1 // on the current DFS path
		black = 2 // fully explored
	)
	colors := make(map[string]int, g.nodes.Len())

	var visit func(id string) bool
	visit = func(id string) bool {
		colors[id] = gray
		for _, edgeID := range g.outEdges[id] {
			edge, err := g.edges.Get(edgeID)
			if err != nil {
				continue
			}
			switch colors[edge.Tail] {
			case gray:
				return false
			case white:
				if !visit(edge.Tail) {
					return false
				}
			}
		}
		colors[id] = black
		return true
	}

	for _, node := range g.nodes.Values() {
		if colors[node.GetID()] == white {
			if !visit(node.GetID()) {
				return false
			}
		}
	}
	return true
}
