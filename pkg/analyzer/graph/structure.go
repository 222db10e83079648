package graph

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// gonumGraph wraps gonum graph types with ID mappings.
type gonumGraph struct {
	directed   *simple.DirectedGraph
	undirected *simple.UndirectedGraph
	nodeIDToID map[string]int64
	idToNodeID map[int64]string
}

// toGonumGraph converts the dependency graph to gonum graph types.
func toGonumGraph(g *DependencyGraph) *gonumGraph {
	gg := &gonumGraph{
		directed:   simple.NewDirectedGraph(),
		undirected: simple.NewUndirectedGraph(),
		nodeIDToID: make(map[string]int64, g.NodeCount()),
		idToNodeID: make(map[int64]string, g.NodeCount()),
	}

	for i, node := range g.nodes {
		id := int64(i)
		gg.nodeIDToID[node] = id
		gg.idToNodeID[id] = node
		gg.directed.AddNode(simple.Node(id))
		gg.undirected.AddNode(simple.Node(id))
	}

	// simple graphs reject self-loops
	for _, e := range g.Edges() {
		from, to := gg.nodeIDToID[e.From], gg.nodeIDToID[e.To]
		if from == to {
			continue
		}
		gg.directed.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
		if !gg.undirected.HasEdgeBetween(from, to) {
			gg.undirected.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
		}
	}

	return gg
}

// Summarize computes structure metrics for g.
func Summarize(g *DependencyGraph) Structure {
	s := Structure{
		TotalNodes: g.NodeCount(),
		TotalEdges: g.EdgeCount(),
	}
	if s.TotalNodes == 0 {
		return s
	}

	for _, n := range g.nodes {
		if g.HasEdge(n, n) {
			s.SelfLoops++
		}
	}

	s.AvgDegree = float64(2*s.TotalEdges) / float64(s.TotalNodes)
	if s.TotalNodes > 1 {
		s.Density = float64(s.TotalEdges) / float64(s.TotalNodes*(s.TotalNodes-1))
	}

	gg := toGonumGraph(g)

	for _, scc := range topo.TarjanSCC(gg.directed) {
		if len(scc) > 1 {
			s.StronglyConnectedComponents++
		}
	}
	s.IsCyclic = s.StronglyConnectedComponents > 0 || s.SelfLoops > 0

	components := topo.ConnectedComponents(gg.undirected)
	s.Components = len(components)
	for _, c := range components {
		if len(c) > s.LargestComponent {
			s.LargestComponent = len(c)
		}
	}

	return s
}
