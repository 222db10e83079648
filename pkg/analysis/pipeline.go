package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/panbanda/tangle/internal/fileproc"
	"github.com/panbanda/tangle/pkg/analyzer/complexity"
	"github.com/panbanda/tangle/pkg/analyzer/coupling"
	"github.com/panbanda/tangle/pkg/analyzer/graph"
	"github.com/panbanda/tangle/pkg/extract"
	"github.com/panbanda/tangle/pkg/parser"
	"github.com/panbanda/tangle/pkg/report"
	"github.com/panbanda/tangle/pkg/resolver"
	"github.com/spf13/afero"
)

type pipeline struct {
	opts     Options
	resolver *resolver.Resolver
}

// fileResult is the outcome of extracting one file. A skipped file takes no
// further part in the run.
type fileResult struct {
	path       string
	lang       parser.Language
	extraction *extract.Extraction
	diag       *Diagnostic
	err        error
	skipped    bool
}

func newPipeline(opts Options) *pipeline {
	return &pipeline{
		opts:     opts,
		resolver: resolver.New(opts.Fs, resolver.WithExternalModules(opts.ExternalModules...)),
	}
}

func (p *pipeline) run(ctx context.Context, files []string) (*report.Report, error) {
	log := p.opts.Logger
	log.Debug("analysis started", "files", len(files), "workers", fileproc.Workers(p.opts.Workers))

	results, errs := fileproc.Map(ctx, files, p.opts.Workers, func(_ context.Context, rel string) (fileResult, error) {
		return p.processFile(rel), nil
	}, p.opts.OnProgress)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis cancelled: %w", err)
	}
	if errs.HasErrors() {
		return nil, errs
	}

	var (
		analyzed    []fileResult
		diagnostics []Diagnostic
	)
	for _, r := range results {
		if r.diag != nil {
			diagnostics = append(diagnostics, *r.diag)
			log.Warn("file diagnostic", "path", r.path, "kind", r.diag.Kind, "message", r.diag.Message)
		}
		if !r.skipped {
			analyzed = append(analyzed, r)
		}
	}

	paths := make([]string, len(analyzed))
	scanned := make(map[string]bool, len(analyzed))
	for i, r := range analyzed {
		paths[i] = r.path
		scanned[r.path] = true
	}

	inputs := make([]report.FileInput, 0, len(analyzed))
	var edges []graph.Edge
	for _, r := range analyzed {
		targets, unresolved := p.resolve(r, func(t string) bool { return scanned[t] })
		for _, t := range targets {
			edges = append(edges, graph.Edge{From: r.path, To: t})
		}
		inputs = append(inputs, report.FileInput{
			Path:              r.path,
			Language:          r.lang,
			Functions:         complexity.Calculate(r.path, r.extraction.Functions, p.opts.ComplexityThreshold),
			Imports:           len(r.extraction.Imports),
			UnresolvedImports: unresolved,
		})
	}

	g := graph.Build(edges)
	cycles := graph.DetectCycles(g)
	orphans := graph.FindOrphans(paths, g)

	rep := report.Aggregate(report.Input{
		Files:               inputs,
		Graph:               g,
		Cycles:              cycles,
		Orphans:             orphans,
		EntryPoints:         graph.EntryPoints(paths),
		Coupling:            coupling.Calculate(g, p.opts.CouplingThreshold),
		CouplingThreshold:   p.opts.CouplingThreshold,
		ComplexityThreshold: p.opts.ComplexityThreshold,
		Diagnostics:         diagnostics,
	})

	log.Info("analysis complete",
		"files", rep.Summary.TotalFiles,
		"edges", rep.Summary.TotalEdges,
		"cycles", rep.Summary.Cycles,
		"orphans", rep.Summary.Orphans,
		"diagnostics", rep.Summary.Diagnostics,
	)
	return rep, nil
}

// processFile reads and extracts one file. Problems become diagnostics.
func (p *pipeline) processFile(rel string) fileResult {
	res := fileResult{path: rel, lang: parser.DetectLanguage(rel)}

	if !res.lang.Supported() {
		res.skipped = true
		res.diag = &Diagnostic{
			Path:    rel,
			Kind:    report.KindUnsupportedLanguage,
			Message: fmt.Sprintf("%s: %s", extract.ErrUnsupportedLanguage, res.lang),
		}
		return res
	}

	content, err := afero.ReadFile(p.opts.Fs, rel)
	if err != nil {
		res.skipped = true
		res.err = err
		res.diag = &Diagnostic{Path: rel, Kind: report.KindReadFailure, Message: err.Error()}
		return res
	}

	key := cacheKey(rel, p.opts.IsolateNestedFunctions)
	if p.opts.Cache != nil {
		if ex, ok := p.opts.Cache.Lookup(key, content); ok {
			res.extraction = ex
			return res
		}
	}

	ex, err := p.extract(rel, res.lang, content)
	if err != nil {
		res.extraction = emptyExtraction()
		res.err = err
		kind := report.KindParseFailure
		if errors.Is(err, extract.ErrUnsupportedLanguage) {
			kind = report.KindUnsupportedLanguage
			res.skipped = true
		}
		res.diag = &Diagnostic{Path: rel, Kind: kind, Message: err.Error()}
		return res
	}

	res.extraction = ex
	if p.opts.Cache != nil {
		p.opts.Cache.Store(key, content, ex)
	}
	return res
}

func (p *pipeline) extract(rel string, lang parser.Language, content []byte) (*extract.Extraction, error) {
	ex, err := extract.ForLanguage(lang, extract.WithIsolatedNesting(p.opts.IsolateNestedFunctions))
	if err != nil {
		return nil, err
	}
	return ex.Extract(rel, content)
}

// resolve maps a file's imports to project files accepted by keep. Every
// import that does not produce a target counts as unresolved.
func (p *pipeline) resolve(r fileResult, keep func(string) bool) ([]string, int) {
	var (
		targets    []string
		unresolved int
	)
	for _, imp := range r.extraction.Imports {
		target, ok := p.resolver.Resolve(imp.Module, r.path, r.lang)
		if !ok || !keep(target) {
			unresolved++
			continue
		}
		targets = append(targets, target)
	}
	return targets, unresolved
}

func emptyExtraction() *extract.Extraction {
	return &extract.Extraction{
		Imports:   []extract.RawImport{},
		Functions: []extract.RawFunction{},
	}
}
