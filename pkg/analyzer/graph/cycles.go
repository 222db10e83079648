package graph

import (
	"slices"
	"strings"
)

const (
	unvisited = iota
	onStack
	done
)

// DetectCycles finds import cycles with a depth-first search that visits
// nodes and neighbors in sorted order, so results are deterministic.
//
// Cycles are deduplicated by node set: distinct cycles over the same set of
// files collapse into the first one discovered. A self-import is a cycle of
// one node. The result keeps discovery order.
func DetectCycles(g *DependencyGraph) []Cycle {
	state := make(map[string]int, g.NodeCount())
	position := make(map[string]int)
	seen := make(map[string]bool)
	var (
		stack  []string
		cycles []Cycle
	)

	var visit func(node string)
	visit = func(node string) {
		state[node] = onStack
		position[node] = len(stack)
		stack = append(stack, node)

		for _, next := range g.Targets(node) {
			switch state[next] {
			case unvisited:
				visit(next)
			case onStack:
				nodes := slices.Clone(stack[position[next]:])
				key := cycleKey(nodes)
				if seen[key] {
					continue
				}
				seen[key] = true
				cycles = append(cycles, Cycle{Nodes: nodes, Severity: severityFor(len(nodes))})
			}
		}

		stack = stack[:len(stack)-1]
		delete(position, node)
		state[node] = done
	}

	for _, node := range g.Nodes() {
		if state[node] == unvisited {
			visit(node)
		}
	}

	if cycles == nil {
		return make([]Cycle, 0)
	}
	return cycles
}

func cycleKey(nodes []string) string {
	sorted := slices.Clone(nodes)
	slices.Sort(sorted)
	return strings.Join(sorted, "\x00")
}

func severityFor(size int) Severity {
	if size <= highSeverityMaxNodes {
		return SeverityHigh
	}
	return SeverityMedium
}

// CycleMembers returns the sorted set of files that take part in any cycle.
func CycleMembers(cycles []Cycle) []string {
	set := make(nodeSet)
	for _, c := range cycles {
		for _, n := range c.Nodes {
			set[n] = struct{}{}
		}
	}
	return sortedKeys(set)
}
