package output

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/panbanda/tangle/internal/cache"
	"github.com/panbanda/tangle/pkg/analyzer/complexity"
	"github.com/panbanda/tangle/pkg/analyzer/coupling"
	"github.com/panbanda/tangle/pkg/analyzer/graph"
	"github.com/panbanda/tangle/pkg/report"
)

// GraphView is a dependency graph ready to be drawn.
type GraphView struct {
	Nodes     []string
	Edges     []graph.Edge
	Highlight []string
	Options   graph.DOTOptions
}

type graphData struct {
	Nodes []string     `json:"nodes" toon:"nodes"`
	Edges []graph.Edge `json:"edges" toon:"edges"`
}

// NewGraphView builds a view of the report's graph with cycle members
// highlighted. Every scanned file is a node, including isolated ones.
func NewGraphView(rep *report.Report) *GraphView {
	nodes := make([]string, 0, len(rep.Files))
	for _, f := range rep.Files {
		nodes = append(nodes, f.Path)
	}
	return &GraphView{
		Nodes:     nodes,
		Edges:     rep.Edges,
		Highlight: graph.CycleMembers(rep.Cycles),
		Options:   graph.DefaultDOTOptions(),
	}
}

func (g *GraphView) RenderData() any {
	return graphData{Nodes: nonNilStrings(g.Nodes), Edges: nonNilEdges(g.Edges)}
}

func (g *GraphView) RenderDOT(w io.Writer) error {
	opts := g.Options
	opts.Highlight = g.Highlight
	_, err := io.WriteString(w, graph.Build(g.Edges).ToDOT(opts))
	return err
}

func (g *GraphView) RenderText(w io.Writer, colored bool) error {
	dg := graph.Build(g.Edges)
	highlight := make(map[string]bool, len(g.Highlight))
	for _, h := range g.Highlight {
		highlight[h] = true
	}

	for _, n := range g.Nodes {
		name := n
		if colored && highlight[n] {
			name = paint(LevelAlert, n)
		}
		targets := dg.Targets(n)
		if len(targets) == 0 {
			fmt.Fprintln(w, name)
			continue
		}
		fmt.Fprintf(w, "%s -> %s\n", name, strings.Join(targets, ", "))
	}
	return nil
}

func (g *GraphView) RenderMarkdown(w io.Writer) error {
	fmt.Fprintln(w, "```dot")
	if err := g.RenderDOT(w); err != nil {
		return err
	}
	fmt.Fprintln(w, "```")
	return nil
}

// cycleLevel maps a cycle's severity onto a row level.
func cycleLevel(s graph.Severity) Level {
	if s == graph.SeverityHigh {
		return LevelAlert
	}
	return LevelWarn
}

// CyclesTable lists circular dependencies, tight cycles as alerts.
func CyclesTable(cycles []graph.Cycle) *Table {
	t := NewTable("Circular Dependencies", []string{"#", "Severity", "Length", "Path"}, nonNilCycles(cycles))
	for i, c := range cycles {
		t.Add(cycleLevel(c.Severity), strconv.Itoa(i+1), string(c.Severity), strconv.Itoa(len(c.Nodes)), cyclePath(c))
	}
	t.Footer = []string{"", "", "", fmt.Sprintf("%d cycles, %d high", len(cycles), t.Flagged(LevelAlert))}
	return t
}

func cyclePath(c graph.Cycle) string {
	if len(c.Nodes) == 0 {
		return ""
	}
	return strings.Join(c.Nodes, " -> ") + " -> " + c.Nodes[0]
}

// OrphansTable lists modules nothing imports.
func OrphansTable(orphans []string) *Table {
	t := NewTable("Orphan Modules", []string{"File"}, nonNilStrings(orphans))
	for _, o := range orphans {
		t.Add(LevelNone, o)
	}
	t.Footer = []string{fmt.Sprintf("%d orphans", len(orphans))}
	return t
}

// CouplingTable lists coupling records, optionally the top n by total.
// Files over the threshold are warnings.
func CouplingTable(records []coupling.Record, summary coupling.Summary, top int) *Table {
	shown := records
	if top > 0 {
		shown = coupling.TopRecords(records, top)
	}

	t := NewTable("Coupling",
		[]string{"File", "Fan-In", "Fan-Out", "Total", "Recommendation"},
		coupling.Analysis{Records: nonNilCoupling(shown), Summary: summary})
	for _, r := range shown {
		level := LevelNone
		if r.ExceedsThreshold {
			level = LevelWarn
		}
		t.Add(level, r.File, strconv.Itoa(r.FanIn), strconv.Itoa(r.FanOut), strconv.Itoa(r.Total), r.Recommendation)
	}
	t.Footer = []string{
		fmt.Sprintf("%d modules", summary.TotalModules),
		"",
		"",
		fmt.Sprintf("mean %.2f", summary.MeanTotal),
		fmt.Sprintf("%d over %d", summary.ExceedingCount, summary.Threshold),
	}
	return t
}

type complexityData struct {
	Functions []complexity.Record `json:"functions" toon:"functions"`
	Summary   complexity.Summary  `json:"summary" toon:"summary"`
}

// ComplexityTable lists per-function complexity. Functions over the
// threshold are alerts.
func ComplexityTable(records []complexity.Record, summary complexity.Summary) *Table {
	t := NewTable("Cyclomatic Complexity",
		[]string{"Function", "Location", "Score", "Over"},
		complexityData{Functions: nonNilComplexity(records), Summary: summary})
	for _, r := range records {
		level, flag := LevelNone, ""
		if r.ExceedsThreshold {
			level, flag = LevelAlert, "!"
		}
		t.Add(level, r.Function, fmt.Sprintf("%s:%d", r.File, r.Line), strconv.Itoa(r.Score), flag)
	}
	t.Footer = []string{
		fmt.Sprintf("%d functions", summary.TotalFunctions),
		fmt.Sprintf("p90 %.1f", summary.P90Score),
		fmt.Sprintf("max %d", summary.MaxScore),
		fmt.Sprintf("%d over %d", summary.ExceedingCount, summary.Threshold),
	}
	return t
}

// DirectoriesTable lists per-directory summaries. A directory holding any
// flagged function or file is a warning.
func DirectoriesTable(dirs []report.DirectorySummary) *Table {
	t := NewTable("Directories",
		[]string{"Directory", "Files", "Functions", "Avg Complexity", "Avg Coupling", "Complex Fns", "Coupled Files"},
		dirs)
	for _, d := range dirs {
		level := LevelNone
		if d.FunctionsExceeding > 0 || d.FilesExceeding > 0 {
			level = LevelWarn
		}
		t.Add(level,
			d.Directory,
			strconv.Itoa(d.Files),
			strconv.Itoa(d.Functions),
			fmt.Sprintf("%.2f", d.AvgComplexity),
			fmt.Sprintf("%.2f", d.AvgCoupling),
			strconv.Itoa(d.FunctionsExceeding),
			strconv.Itoa(d.FilesExceeding),
		)
	}
	return t
}

// DiagnosticsTable lists files that could not be fully analyzed.
func DiagnosticsTable(diags []report.Diagnostic) *Table {
	t := NewTable("Diagnostics", []string{"File", "Kind", "Message"}, diags)
	for _, d := range diags {
		t.Add(LevelWarn, d.Path, string(d.Kind), d.Message)
	}
	return t
}

// levelIf returns level when n is positive.
func levelIf(n int, level Level) Level {
	if n > 0 {
		return level
	}
	return LevelNone
}

func summaryFacts(s report.Summary) *Facts {
	f := &Facts{Title: "Summary", Data: s}
	f.Add(LevelNone, "Files", s.TotalFiles)
	f.Add(LevelNone, "Functions", s.TotalFunctions)
	f.Add(LevelNone, "Dependencies", s.TotalEdges)
	f.Add(LevelNone, "Avg complexity", fmt.Sprintf("%.2f", s.AvgComplexity))
	f.Add(LevelNone, "Avg coupling", fmt.Sprintf("%.2f", s.AvgCoupling))
	f.Add(levelIf(s.FunctionsExceeding, LevelWarn), "Complex functions", s.FunctionsExceeding)
	f.Add(levelIf(s.FilesExceeding, LevelWarn), "Coupled files", s.FilesExceeding)
	f.Add(levelIf(s.Cycles, LevelAlert), "Cycles", s.Cycles)
	f.Add(LevelNone, "Orphans", s.Orphans)
	f.Add(levelIf(s.UnresolvedImports, LevelWarn), "Unresolved imports", s.UnresolvedImports)
	f.Add(levelIf(s.Diagnostics, LevelWarn), "Diagnostics", s.Diagnostics)
	return f
}

func hotspotsTable(hotspots []complexity.Hotspot) *Table {
	t := NewTable("Complexity Hotspots", []string{"Function", "Location", "Score"}, hotspots)
	for _, h := range hotspots {
		t.Add(LevelNone, h.Function, fmt.Sprintf("%s:%d", h.File, h.Line), strconv.Itoa(h.Score))
	}
	return t
}

// AnalysisReport renders a full analysis. Its data is the report itself, so
// JSON and TOON output carry every field.
func AnalysisReport(rep *report.Report) *Report {
	sections := []Renderable{summaryFacts(rep.Summary)}
	if len(rep.Cycles) > 0 {
		sections = append(sections, CyclesTable(rep.Cycles))
	}
	if len(rep.Orphans) > 0 {
		sections = append(sections, OrphansTable(rep.Orphans))
	}
	if len(rep.Coupling.Top) > 0 {
		sections = append(sections, CouplingTable(rep.Coupling.Top, rep.Coupling, 0))
	}
	if len(rep.Hotspots) > 0 {
		sections = append(sections, hotspotsTable(rep.Hotspots))
	}
	if len(rep.Directories) > 0 {
		sections = append(sections, DirectoriesTable(rep.Directories))
	}
	if len(rep.Diagnostics) > 0 {
		sections = append(sections, DiagnosticsTable(rep.Diagnostics))
	}

	return &Report{
		Title:    "Dependency Analysis",
		Sections: sections,
		Data:     rep,
		Graph:    NewGraphView(rep),
	}
}

// CyclesReport lists cycles. Drawn as DOT it keeps only cycle members and
// the edges between them.
func CyclesReport(rep *report.Report) *Report {
	members := graph.CycleMembers(rep.Cycles)
	in := make(map[string]bool, len(members))
	for _, m := range members {
		in[m] = true
	}
	edges := make([]graph.Edge, 0)
	for _, e := range rep.Edges {
		if in[e.From] && in[e.To] {
			edges = append(edges, e)
		}
	}
	return &Report{
		Sections: []Renderable{CyclesTable(rep.Cycles)},
		Data:     nonNilCycles(rep.Cycles),
		Graph: &GraphView{
			Nodes:     members,
			Edges:     edges,
			Highlight: members,
			Options:   graph.DefaultDOTOptions(),
		},
	}
}

// FileReport renders the results for a single file.
func FileReport(item report.FileItem, complexityThreshold int) *Report {
	info := &Facts{Title: item.Path}
	info.Add(LevelNone, "Language", item.Language)
	info.Add(LevelNone, "Imports", item.Imports)
	info.Add(levelIf(item.UnresolvedImports, LevelWarn), "Unresolved imports", item.UnresolvedImports)
	sections := []Renderable{info}

	fns := make([]complexity.Record, len(item.Functions))
	copy(fns, item.Functions)
	sort.SliceStable(fns, func(i, j int) bool { return fns[i].Line < fns[j].Line })
	sections = append(sections, ComplexityTable(fns, complexity.Summarize(fns, complexityThreshold)))

	if len(item.Diagnostics) > 0 {
		sections = append(sections, DiagnosticsTable(item.Diagnostics))
	}
	return &Report{Title: "File Analysis", Sections: sections, Data: item}
}

// CacheStatsFacts describes the extraction cache in dir.
func CacheStatsFacts(dir string, st cache.Stats) *Facts {
	f := &Facts{Title: "Cache", Data: st}
	f.Add(LevelNone, "Directory", dir)
	f.Add(LevelNone, "Entries", st.Entries)
	f.Add(LevelNone, "In memory", st.InMemory)
	f.Add(LevelNone, "Size", fmt.Sprintf("%d bytes", st.TotalSize))
	if st.Entries > 0 {
		f.Add(LevelNone, "Oldest", st.OldestAge.Round(time.Second))
		f.Add(LevelNone, "Newest", st.NewestAge.Round(time.Second))
	}
	return f
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilEdges(s []graph.Edge) []graph.Edge {
	if s == nil {
		return []graph.Edge{}
	}
	return s
}

func nonNilCycles(s []graph.Cycle) []graph.Cycle {
	if s == nil {
		return []graph.Cycle{}
	}
	return s
}

func nonNilCoupling(s []coupling.Record) []coupling.Record {
	if s == nil {
		return []coupling.Record{}
	}
	return s
}

func nonNilComplexity(s []complexity.Record) []complexity.Record {
	if s == nil {
		return []complexity.Record{}
	}
	return s
}
