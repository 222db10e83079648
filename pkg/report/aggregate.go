// Package report merges the per-file and graph-wide analysis results into a
// single deterministic Report. It performs no I/O.
package report

import (
	"path"
	"sort"

	"github.com/panbanda/tangle/pkg/analyzer/complexity"
	"github.com/panbanda/tangle/pkg/analyzer/coupling"
	"github.com/panbanda/tangle/pkg/analyzer/graph"
	"github.com/panbanda/tangle/pkg/parser"
	"github.com/panbanda/tangle/pkg/stats"
)

// HotspotCount is the number of complex functions listed in a report.
const HotspotCount = 10

// FileInput is what the pipeline learned about one scanned file.
type FileInput struct {
	Path              string
	Language          parser.Language
	Functions         []complexity.Record
	Imports           int
	UnresolvedImports int
}

// Input holds everything Aggregate merges.
type Input struct {
	Files               []FileInput
	Graph               *graph.DependencyGraph
	Cycles              []graph.Cycle
	Orphans             []string
	EntryPoints         []string
	Coupling            []coupling.Record
	CouplingThreshold   int
	ComplexityThreshold int
	Diagnostics         []Diagnostic
}

// Aggregate builds a Report from in.
func Aggregate(in Input) *Report {
	g := in.Graph
	if g == nil {
		g = graph.Build(nil)
	}

	couplingByFile := make(map[string]coupling.Record, len(in.Coupling))
	for _, r := range in.Coupling {
		couplingByFile[r.File] = r
	}
	inCycle := toSet(graph.CycleMembers(in.Cycles))
	orphans := toSet(in.Orphans)
	entries := toSet(in.EntryPoints)

	diagsByFile := make(map[string][]Diagnostic)
	diagnostics := sortedDiagnostics(in.Diagnostics)
	for _, d := range diagnostics {
		diagsByFile[d.Path] = append(diagsByFile[d.Path], d)
	}

	files := make([]FileInput, len(in.Files))
	copy(files, in.Files)
	sort.SliceStable(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	rep := &Report{
		Files:       make([]FileItem, 0, len(files)),
		Cycles:      nonNil(in.Cycles),
		Orphans:     nonNil(in.Orphans),
		EntryPoints: nonNil(in.EntryPoints),
		Edges:       g.Edges(),
		Diagnostics: diagnostics,
		Structure:   graph.Summarize(g),
	}

	var allFunctions []complexity.Record
	for _, f := range files {
		rec, ok := couplingByFile[f.Path]
		if !ok {
			rec = coupling.NewRecord(f.Path, 0, 0, thresholdOr(in.CouplingThreshold, coupling.DefaultThreshold))
		}
		item := FileItem{
			Path:              f.Path,
			Language:          f.Language,
			Functions:         nonNil(f.Functions),
			Coupling:          rec,
			InCycle:           inCycle[f.Path],
			Orphan:            orphans[f.Path],
			EntryPoint:        entries[f.Path],
			Imports:           f.Imports,
			UnresolvedImports: f.UnresolvedImports,
			Diagnostics:       diagsByFile[f.Path],
		}
		rep.Files = append(rep.Files, item)
		allFunctions = append(allFunctions, item.Functions...)
	}

	rep.Directories = summarizeDirectories(rep.Files)
	rep.Coupling = coupling.Summarize(in.Coupling, in.CouplingThreshold)
	rep.Complexity = complexity.Summarize(allFunctions, in.ComplexityThreshold)
	rep.Hotspots = complexity.Hotspots(allFunctions, HotspotCount)
	rep.Summary = summarize(rep)

	return rep
}

// tally accumulates the figures shared by directory and project summaries.
type tally struct {
	files              int
	functions          int
	complexity         []float64
	coupling           []float64
	functionsExceeding int
	filesExceeding     int
}

func (t *tally) add(f FileItem) {
	t.files++
	t.functions += len(f.Functions)
	for _, fn := range f.Functions {
		t.complexity = append(t.complexity, float64(fn.Score))
		if fn.ExceedsThreshold {
			t.functionsExceeding++
		}
	}
	t.coupling = append(t.coupling, float64(f.Coupling.Total))
	if f.Coupling.ExceedsThreshold {
		t.filesExceeding++
	}
}

func summarizeDirectories(files []FileItem) []DirectorySummary {
	tallies := make(map[string]*tally)
	for _, f := range files {
		dir := path.Dir(f.Path)
		t, ok := tallies[dir]
		if !ok {
			t = &tally{}
			tallies[dir] = t
		}
		t.add(f)
	}

	dirs := make([]string, 0, len(tallies))
	for d := range tallies {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)

	out := make([]DirectorySummary, 0, len(dirs))
	for _, d := range dirs {
		t := tallies[d]
		out = append(out, DirectorySummary{
			Directory:          d,
			Files:              t.files,
			Functions:          t.functions,
			AvgComplexity:      stats.Mean(t.complexity),
			AvgCoupling:        stats.Mean(t.coupling),
			FunctionsExceeding: t.functionsExceeding,
			FilesExceeding:     t.filesExceeding,
		})
	}
	return out
}

func summarize(rep *Report) Summary {
	var t tally
	unresolved := 0
	for _, f := range rep.Files {
		t.add(f)
		unresolved += f.UnresolvedImports
	}
	return Summary{
		TotalFiles:         t.files,
		TotalFunctions:     t.functions,
		TotalEdges:         len(rep.Edges),
		AvgComplexity:      stats.Mean(t.complexity),
		AvgCoupling:        stats.Mean(t.coupling),
		FunctionsExceeding: t.functionsExceeding,
		FilesExceeding:     t.filesExceeding,
		Cycles:             len(rep.Cycles),
		Orphans:            len(rep.Orphans),
		EntryPoints:        len(rep.EntryPoints),
		UnresolvedImports:  unresolved,
		Diagnostics:        len(rep.Diagnostics),
	}
}

func sortedDiagnostics(in []Diagnostic) []Diagnostic {
	out := make([]Diagnostic, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, i := range items {
		set[i] = true
	}
	return set
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return make([]T, 0)
	}
	return s
}

func thresholdOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
