// Package graph holds the file-level dependency graph and the algorithms that
// run over it: cycle detection, orphan detection and structure metrics.
package graph

import (
	"sort"
	"sync"
)

type nodeSet = map[string]struct{}

// DependencyGraph maps each file to the set of files it imports. The forward
// map is the only stored state; the reverse map is derived from it on first use.
type DependencyGraph struct {
	forward map[string]nodeSet
	nodes   []string
	edges   int

	reverseOnce sync.Once
	reverse     map[string]nodeSet
}

// Build creates a graph from resolved edges. Duplicate edges collapse.
func Build(edges []Edge) *DependencyGraph {
	g := &DependencyGraph{forward: make(map[string]nodeSet)}

	known := make(nodeSet)
	for _, e := range edges {
		targets, ok := g.forward[e.From]
		if !ok {
			targets = make(nodeSet)
			g.forward[e.From] = targets
		}
		if _, dup := targets[e.To]; !dup {
			targets[e.To] = struct{}{}
			g.edges++
		}
		known[e.From] = struct{}{}
		known[e.To] = struct{}{}
	}

	g.nodes = sortedKeys(known)
	return g
}

// Nodes returns every file that is the source or target of an edge, sorted.
func (g *DependencyGraph) Nodes() []string {
	out := make([]string, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// NodeCount returns the number of nodes.
func (g *DependencyGraph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of distinct edges.
func (g *DependencyGraph) EdgeCount() int {
	return g.edges
}

// Targets returns the files id imports, sorted.
func (g *DependencyGraph) Targets(id string) []string {
	return sortedKeys(g.forward[id])
}

// Sources returns the files that import id, sorted.
func (g *DependencyGraph) Sources(id string) []string {
	return sortedKeys(g.Reverse()[id])
}

// FanOut returns the number of distinct files id imports.
func (g *DependencyGraph) FanOut(id string) int {
	return len(g.forward[id])
}

// FanIn returns the number of distinct files importing id.
func (g *DependencyGraph) FanIn(id string) int {
	return len(g.Reverse()[id])
}

// HasEdge reports whether from imports to.
func (g *DependencyGraph) HasEdge(from, to string) bool {
	_, ok := g.forward[from][to]
	return ok
}

// Reverse returns the imported-by map. It is built once and cached; callers
// must not modify it.
func (g *DependencyGraph) Reverse() map[string]map[string]struct{} {
	g.reverseOnce.Do(func() {
		rev := make(map[string]nodeSet, len(g.nodes))
		for from, targets := range g.forward {
			for to := range targets {
				sources, ok := rev[to]
				if !ok {
					sources = make(nodeSet)
					rev[to] = sources
				}
				sources[from] = struct{}{}
			}
		}
		g.reverse = rev
	})
	return g.reverse
}

// Edges returns all edges ordered by source then target.
func (g *DependencyGraph) Edges() []Edge {
	edges := make([]Edge, 0, g.edges)
	for _, from := range g.nodes {
		for _, to := range g.Targets(from) {
			edges = append(edges, Edge{From: from, To: to})
		}
	}
	return edges
}

func sortedKeys(set nodeSet) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
