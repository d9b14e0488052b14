package graph

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/smallnest/lionago/log"
	"github.com/smallnest/lionago/service"
)

// StateMerger folds the results of one parallel step into the running
// state. The default merger copies every returned key over the current
// state, later results winning.
type StateMerger func(ctx context.Context, current State, results []State) (State, error)

func defaultMerger(_ context.Context, current State, results []State) (State, error) {
	merged := maps.Clone(current)
	if merged == nil {
		merged = make(State)
	}
	for _, r := range results {
		maps.Copy(merged, r)
	}
	return merged, nil
}

// FlowOption configures a Flow.
type FlowOption func(*Flow)

// WithMerger replaces the default state merger.
func WithMerger(m StateMerger) FlowOption {
	return func(f *Flow) { f.merger = m }
}

// WithRetry retries each failing node operation with the given config.
func WithRetry(cfg service.RetryConfig) FlowOption {
	return func(f *Flow) { f.retry = &cfg }
}

// Flow walks an acyclic graph from its heads. All nodes whose
// predecessors have completed run in parallel within a step; their
// results are merged before the next step is scheduled.
type Flow struct {
	graph  *Graph
	merger StateMerger
	retry  *service.RetryConfig
}

// NewFlow creates a flow over the graph.
func NewFlow(g *Graph, opts ...FlowOption) *Flow {
	f := &Flow{graph: g, merger: defaultMerger}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

type nodeResult struct {
	index int
	state State
	err   error
}

// Invoke runs the flow to completion and returns the final state.
// Conditional edges that report false prune their subtree unless the
// tail is reachable another way. A node with several predecessors runs
// once, after the last of them completes.
func (f *Flow) Invoke(ctx context.Context, initial State) (State, error) {
	if !f.graph.IsAcyclic() {
		return nil, ErrCyclicGraph
	}
	if f.graph.Size() == 0 {
		return initial, nil
	}

	ready := f.graph.Heads()
	if len(ready) == 0 {
		return nil, ErrNoHeads
	}

	state := maps.Clone(initial)
	if state == nil {
		state = make(State)
	}
	completed := make(map[string]bool, f.graph.Size())

	for len(ready) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		results, err := f.executeStep(ctx, ready, state)
		if err != nil {
			return nil, err
		}

		state, err = f.merger(ctx, state, results)
		if err != nil {
			return nil, fmt.Errorf("merge state: %w", err)
		}

		for _, node := range ready {
			completed[node.GetID()] = true
		}

		ready = f.nextNodes(ctx, ready, state, completed)
	}

	return state, nil
}

// executeStep runs every node of the step in parallel and collects the
// returned state updates in node order.
func (f *Flow) executeStep(ctx context.Context, nodes []*Node, state State) ([]State, error) {
	results := make(chan nodeResult, len(nodes))
	var wg sync.WaitGroup

	for i, node := range nodes {
		wg.Add(1)
		go func(idx int, n *Node) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Error("panic in node %s: %v", n.Name, r)
					results <- nodeResult{index: idx, err: fmt.Errorf("panic in node %s: %v", n.Name, r)}
				}
			}()

			out, err := f.runNode(ctx, n, state)
			results <- nodeResult{index: idx, state: out, err: err}
		}(i, node)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]State, len(nodes))
	var firstErr error
	for res := range results {
		if res.err != nil && firstErr == nil {
			firstErr = fmt.Errorf("node %s: %w", nodes[res.index].Name, res.err)
		}
		ordered[res.index] = res.state
	}
	if firstErr != nil {
		return nil, firstErr
	}

	out := make([]State, 0, len(ordered))
	for _, s := range ordered {
		if s != nil {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *Flow) runNode(ctx context.Context, node *Node, state State) (State, error) {
	if node.Operation == nil {
		return nil, nil
	}
	if f.retry == nil {
		return node.Operation(ctx, state)
	}

	result, err := service.CallWithRetry(ctx, *f.retry, func(ctx context.Context) (any, error) {
		return node.Operation(ctx, state)
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	return result.(State), nil
}

// nextNodes selects the nodes made ready by the step that just
// finished: successors over passing edges whose predecessors have all
// completed (predecessors behind failed conditions don't count).
func (f *Flow) nextNodes(ctx context.Context, finished []*Node, state State, completed map[string]bool) []*Node {
	var next []*Node
	seen := make(map[string]bool)

	for _, node := range finished {
		for _, edge := range f.graph.OutEdges(node.GetID()) {
			if edge.Condition != nil && !edge.Condition(ctx, state) {
				continue
			}
			if seen[edge.Tail] || completed[edge.Tail] {
				continue
			}
			if !f.predecessorsDone(ctx, edge.Tail, state, completed) {
				continue
			}
			tail, err := f.graph.Node(edge.Tail)
			if err != nil {
				continue
			}
			seen[edge.Tail] = true
			next = append(next, tail)
		}
	}
	return next
}

func (f *Flow) predecessorsDone(ctx context.Context, id string, state State, completed map[string]bool) bool {
	for _, edge := range f.graph.InEdges(id) {
		if edge.Condition != nil && !edge.Condition(ctx, state) {
			continue
		}
		if !completed[edge.Head] {
			return false
		}
	}
	return true
}
