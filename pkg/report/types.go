package report

import (
	"github.com/panbanda/tangle/pkg/analyzer/complexity"
	"github.com/panbanda/tangle/pkg/analyzer/coupling"
	"github.com/panbanda/tangle/pkg/analyzer/graph"
	"github.com/panbanda/tangle/pkg/parser"
)

// DiagnosticKind classifies a per-file problem that did not stop the run.
type DiagnosticKind string

const (
	KindParseFailure        DiagnosticKind = "parse_failure"
	KindUnsupportedLanguage DiagnosticKind = "unsupported_language"
	KindReadFailure         DiagnosticKind = "read_failure"
)

// Diagnostic is a warning attached to a file.
type Diagnostic struct {
	Path    string         `json:"path" toon:"path"`
	Kind    DiagnosticKind `json:"kind" toon:"kind"`
	Message string         `json:"message" toon:"message"`
}

// FileItem collects every result for one scanned file.
type FileItem struct {
	Path              string              `json:"path" toon:"path"`
	Language          parser.Language     `json:"language" toon:"language"`
	Functions         []complexity.Record `json:"functions" toon:"functions"`
	Coupling          coupling.Record     `json:"coupling" toon:"coupling"`
	InCycle           bool                `json:"in_cycle" toon:"in_cycle"`
	Orphan            bool                `json:"orphan" toon:"orphan"`
	EntryPoint        bool                `json:"entry_point" toon:"entry_point"`
	Imports           int                 `json:"imports" toon:"imports"`
	UnresolvedImports int                 `json:"unresolved_imports" toon:"unresolved_imports"`
	Diagnostics       []Diagnostic        `json:"diagnostics,omitempty" toon:"diagnostics,omitempty"`
}

// DirectorySummary aggregates the files directly inside one directory.
type DirectorySummary struct {
	Directory          string  `json:"directory" toon:"directory"`
	Files              int     `json:"files" toon:"files"`
	Functions          int     `json:"functions" toon:"functions"`
	AvgComplexity      float64 `json:"avg_complexity" toon:"avg_complexity"`
	AvgCoupling        float64 `json:"avg_coupling" toon:"avg_coupling"`
	FunctionsExceeding int     `json:"functions_exceeding" toon:"functions_exceeding"`
	FilesExceeding     int     `json:"files_exceeding" toon:"files_exceeding"`
}

// Summary aggregates the whole project.
type Summary struct {
	TotalFiles         int     `json:"total_files" toon:"total_files"`
	TotalFunctions     int     `json:"total_functions" toon:"total_functions"`
	TotalEdges         int     `json:"total_edges" toon:"total_edges"`
	AvgComplexity      float64 `json:"avg_complexity" toon:"avg_complexity"`
	AvgCoupling        float64 `json:"avg_coupling" toon:"avg_coupling"`
	FunctionsExceeding int     `json:"functions_exceeding" toon:"functions_exceeding"`
	FilesExceeding     int     `json:"files_exceeding" toon:"files_exceeding"`
	Cycles             int     `json:"cycles" toon:"cycles"`
	Orphans            int     `json:"orphans" toon:"orphans"`
	EntryPoints        int     `json:"entry_points" toon:"entry_points"`
	UnresolvedImports  int     `json:"unresolved_imports" toon:"unresolved_imports"`
	Diagnostics        int     `json:"diagnostics" toon:"diagnostics"`
}

// Report is the result of one analysis run. It carries no timestamps and
// every slice is sorted, so identical input yields an identical report.
type Report struct {
	Summary     Summary              `json:"summary" toon:"summary"`
	Files       []FileItem           `json:"files" toon:"files"`
	Directories []DirectorySummary   `json:"directories" toon:"directories"`
	Cycles      []graph.Cycle        `json:"cycles" toon:"cycles"`
	Orphans     []string             `json:"orphans" toon:"orphans"`
	EntryPoints []string             `json:"entry_points" toon:"entry_points"`
	Edges       []graph.Edge         `json:"edges" toon:"edges"`
	Coupling    coupling.Summary     `json:"coupling" toon:"coupling"`
	Complexity  complexity.Summary   `json:"complexity" toon:"complexity"`
	Hotspots    []complexity.Hotspot `json:"hotspots" toon:"hotspots"`
	Structure   graph.Structure      `json:"structure" toon:"structure"`
	Diagnostics []Diagnostic         `json:"diagnostics" toon:"diagnostics"`
}

// AllFunctions returns every complexity record in file order.
func (r *Report) AllFunctions() []complexity.Record {
	out := make([]complexity.Record, 0, r.Summary.TotalFunctions)
	for _, f := range r.Files {
		out = append(out, f.Functions...)
	}
	return out
}

// CouplingRecords returns the coupling record of every file in the graph.
func (r *Report) CouplingRecords() []coupling.Record {
	out := make([]coupling.Record, 0, len(r.Files))
	for _, f := range r.Files {
		if f.Coupling.Total > 0 {
			out = append(out, f.Coupling)
		}
	}
	return out
}
