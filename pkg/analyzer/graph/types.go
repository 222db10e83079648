package graph

// Edge represents a resolved import from one file to another.
type Edge struct {
	From string `json:"from" toon:"from"`
	To   string `json:"to" toon:"to"`
}

// Severity ranks a cycle by how tightly the modules are bound.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
)

// String returns the string representation.
func (s Severity) String() string {
	return string(s)
}

// highSeverityMaxNodes is the largest cycle still reported as high severity.
const highSeverityMaxNodes = 3

// Cycle is a closed import path. Nodes are in traversal order; the last node
// imports the first.
type Cycle struct {
	Nodes    []string `json:"nodes" toon:"nodes"`
	Severity Severity `json:"severity" toon:"severity"`
}

// Structure summarizes the shape of the graph.
type Structure struct {
	TotalNodes                  int     `json:"total_nodes" toon:"total_nodes"`
	TotalEdges                  int     `json:"total_edges" toon:"total_edges"`
	AvgDegree                   float64 `json:"avg_degree" toon:"avg_degree"`
	Density                     float64 `json:"density" toon:"density"`
	Components                  int     `json:"components" toon:"components"`
	LargestComponent            int     `json:"largest_component" toon:"largest_component"`
	StronglyConnectedComponents int     `json:"strongly_connected_components" toon:"strongly_connected_components"`
	SelfLoops                   int     `json:"self_loops" toon:"self_loops"`
	IsCyclic                    bool    `json:"is_cyclic" toon:"is_cyclic"`
}
