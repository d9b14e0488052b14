package graph

import (
	"fmt"
	"strings"
)

// MermaidOptions defines configuration for Mermaid diagram generation.
type MermaidOptions struct {
	// Direction of the flowchart (e.g., "TD", "LR").
	Direction string
}

// DrawMermaid generates a Mermaid flowchart of the graph, using node
// names as labels and short IDs as identifiers.
func (g *Graph) DrawMermaid() string {
	return g.DrawMermaidWithOptions(MermaidOptions{Direction: "TD"})
}

// DrawMermaidWithOptions generates a Mermaid diagram with custom options.
func (g *Graph) DrawMermaidWithOptions(opts MermaidOptions) string {
	var sb strings.Builder

	direction := opts.Direction
	if direction == "" {
		direction = "TD"
	}
	sb.WriteString(fmt.Sprintf("flowchart %s\n", direction))

	heads := make(map[string]bool)
	for _, h := range g.Heads() {
		heads[h.GetID()] = true
	}

	for _, node := range g.Nodes() {
		id := shortID(node.GetID())
		if heads[node.GetID()] {
			sb.WriteString(fmt.Sprintf("    %s[[\"%s\"]]\n", id, node.Name))
		} else {
			sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", id, node.Name))
		}
	}

	for _, edge := range g.Edges() {
		head, tail := shortID(edge.Head), shortID(edge.Tail)
		switch {
		case edge.Condition != nil && edge.Label != "":
			sb.WriteString(fmt.Sprintf("    %s -.->|%s| %s\n", head, edge.Label, tail))
		case edge.Condition != nil:
			sb.WriteString(fmt.Sprintf("    %s -.-> %s\n", head, tail))
		case edge.Label != "":
			sb.WriteString(fmt.Sprintf("    %s -->|%s| %s\n", head, edge.Label, tail))
		default:
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", head, tail))
		}
	}

	for _, h := range g.Heads() {
		sb.WriteString(fmt.Sprintf("    style %s fill:#87CEEB\n", shortID(h.GetID())))
	}

	return sb.String()
}

// DrawDOT generates a DOT (Graphviz) representation of the graph.
func (g *Graph) DrawDOT() string {
	var sb strings.Builder

	sb.WriteString("digraph G {\n")
	sb.WriteString("    rankdir=TD;\n")
	sb.WriteString("    node [shape=box];\n")

	for _, node := range g.Nodes() {
		sb.WriteString(fmt.Sprintf("    %s [label=\"%s\"];\n", shortID(node.GetID()), node.Name))
	}
	for _, edge := range g.Edges() {
		if edge.Condition != nil {
			sb.WriteString(fmt.Sprintf("    %s -> %s [style=dashed];\n", shortID(edge.Head), shortID(edge.Tail)))
		} else {
			sb.WriteString(fmt.Sprintf("    %s -> %s;\n", shortID(edge.Head), shortID(edge.Tail)))
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

// shortID turns a UUID into a Mermaid/DOT-safe identifier.
func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return "n" + id
}
