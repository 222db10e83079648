package graph

import (
	"strings"
)

// DOTOptions configures Graphviz output.
type DOTOptions struct {
	MaxNodes  int          `json:"max_nodes" toon:"max_nodes"`
	MaxEdges  int          `json:"max_edges" toon:"max_edges"`
	Direction DOTDirection `json:"direction" toon:"direction"`
	// Highlight marks nodes drawn in red, usually cycle members.
	Highlight []string `json:"highlight,omitempty" toon:"highlight,omitempty"`
}

// DOTDirection is the Graphviz rankdir.
type DOTDirection string

const (
	DirectionTB DOTDirection = "TB" // Top-bottom
	DirectionLR DOTDirection = "LR" // Left-right
)

// DefaultDOTOptions returns sensible defaults.
func DefaultDOTOptions() DOTOptions {
	return DOTOptions{
		MaxNodes:  500,
		MaxEdges:  2000,
		Direction: DirectionLR,
	}
}

// ToDOT generates Graphviz syntax for the graph.
func (g *DependencyGraph) ToDOT(opts DOTOptions) string {
	direction := opts.Direction
	if direction == "" {
		direction = DirectionLR
	}

	nodes := g.Nodes()
	edges := g.Edges()

	if opts.MaxNodes > 0 && len(nodes) > opts.MaxNodes {
		nodes = nodes[:opts.MaxNodes]
		keep := make(map[string]bool, len(nodes))
		for _, n := range nodes {
			keep[n] = true
		}
		filtered := make([]Edge, 0, len(edges))
		for _, e := range edges {
			if keep[e.From] && keep[e.To] {
				filtered = append(filtered, e)
			}
		}
		edges = filtered
	}
	if opts.MaxEdges > 0 && len(edges) > opts.MaxEdges {
		edges = edges[:opts.MaxEdges]
	}

	highlight := make(map[string]bool, len(opts.Highlight))
	for _, h := range opts.Highlight {
		highlight[h] = true
	}

	var b strings.Builder
	b.WriteString("digraph dependencies {\n")
	b.WriteString("    rankdir=" + string(direction) + ";\n")
	b.WriteString("    node [shape=box, fontname=\"Helvetica\"];\n")

	for _, n := range nodes {
		b.WriteString("    " + QuoteDOT(n))
		if highlight[n] {
			b.WriteString(" [color=red, fontcolor=red]")
		}
		b.WriteString(";\n")
	}

	for _, e := range edges {
		b.WriteString("    " + QuoteDOT(e.From) + " -> " + QuoteDOT(e.To))
		if highlight[e.From] && highlight[e.To] {
			b.WriteString(" [color=red]")
		}
		b.WriteString(";\n")
	}

	b.WriteString("}\n")
	return b.String()
}

// QuoteDOT quotes an identifier for Graphviz.
func QuoteDOT(id string) string {
	var b strings.Builder
	b.Grow(len(id) + 2)
	b.WriteByte('"')
	for i := 0; i < len(id); i++ {
		switch c := id[i]; c {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
