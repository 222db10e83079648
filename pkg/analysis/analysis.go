// Package analysis runs the whole pipeline once: extract every file, resolve
// imports into a dependency graph, then detect cycles and orphans and compute
// coupling and complexity into a single report.
//
// The pipeline trusts the file list it is given. Path validation, time
// budgets and rendering belong to the caller.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/panbanda/tangle/pkg/analyzer/complexity"
	"github.com/panbanda/tangle/pkg/analyzer/coupling"
	"github.com/panbanda/tangle/pkg/analyzer/graph"
	"github.com/panbanda/tangle/pkg/config"
	"github.com/panbanda/tangle/pkg/extract"
	"github.com/panbanda/tangle/pkg/parser"
	"github.com/panbanda/tangle/pkg/report"
	"github.com/spf13/afero"
)

// Diagnostic is a per-file warning that did not stop the run.
type Diagnostic = report.Diagnostic

// Cache stores extraction results between runs. Implementations must be safe
// for concurrent use.
type Cache interface {
	Lookup(key string, content []byte) (*extract.Extraction, bool)
	Store(key string, content []byte, ex *extract.Extraction)
}

// Options configures a run. The zero value is usable.
type Options struct {
	// Fs is the project filesystem with the project root at its root. When
	// nil, the OS filesystem below the root directory is used.
	Fs     afero.Fs
	Logger *slog.Logger
	// Workers bounds the extraction pool. 0 means 2x NumCPU, 1 is serial.
	Workers                int
	ComplexityThreshold    int
	CouplingThreshold      int
	IsolateNestedFunctions bool
	ExternalModules        []string
	Cache                  Cache
	// OnProgress is called once per file after extraction.
	OnProgress func()
}

// OptionsFromConfig maps a loaded configuration onto pipeline options.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return Options{
		Workers:                cfg.Analysis.Workers,
		ComplexityThreshold:    cfg.Thresholds.Complexity,
		CouplingThreshold:      cfg.Thresholds.Coupling,
		IsolateNestedFunctions: cfg.Complexity.IsolateNestedFunctions,
		ExternalModules:        cfg.Resolver.ExternalModules,
	}
}

func (o Options) withDefaults(root string) Options {
	if o.Fs == nil {
		o.Fs = afero.NewBasePathFs(afero.NewOsFs(), root)
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.ComplexityThreshold <= 0 {
		o.ComplexityThreshold = complexity.DefaultThreshold
	}
	if o.CouplingThreshold <= 0 {
		o.CouplingThreshold = coupling.DefaultThreshold
	}
	return o
}

// Analyze runs the pipeline over files, given as paths relative to root.
// Files with no extraction strategy and files that cannot be read are
// skipped with a diagnostic. A file that fails to parse stays in the graph
// with no imports or functions.
//
// The context is checked before each file. Cancellation aborts the run and
// the context error is returned wrapped.
func Analyze(ctx context.Context, root string, files []string, opts Options) (*report.Report, error) {
	p := newPipeline(opts.withDefaults(root))
	return p.run(ctx, normalize(files))
}

// AnalyzeFile analyzes one explicitly named file. Imports resolve against
// every file in the project, not just scanned ones, and fan-in is unknown so
// it is reported as zero. A file with no extraction strategy is an error
// wrapping extract.ErrUnsupportedLanguage.
func AnalyzeFile(ctx context.Context, root, file string, opts Options) (*report.FileItem, error) {
	rel := normalizeOne(file)
	lang := parser.DetectLanguage(rel)
	if !lang.Supported() {
		return nil, fmt.Errorf("%s: %w: %s", rel, extract.ErrUnsupportedLanguage, lang)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis cancelled: %w", err)
	}

	p := newPipeline(opts.withDefaults(root))
	res := p.processFile(rel)
	if res.skipped {
		return nil, fmt.Errorf("analyze %s: %w", rel, res.err)
	}

	targets, unresolved := p.resolve(res, func(string) bool { return true })
	item := report.FileItem{
		Path:              rel,
		Language:          lang,
		Functions:         complexity.Calculate(rel, res.extraction.Functions, p.opts.ComplexityThreshold),
		Coupling:          coupling.NewRecord(rel, 0, len(uniqueTargets(targets)), p.opts.CouplingThreshold),
		EntryPoint:        graph.IsEntryPoint(rel),
		Imports:           len(res.extraction.Imports),
		UnresolvedImports: unresolved,
	}
	if res.diag != nil {
		item.Diagnostics = []report.Diagnostic{*res.diag}
	}
	return &item, nil
}

// cacheKey identifies an extraction by path and the options that change it.
// Content is validated separately by the cache.
func cacheKey(rel string, isolate bool) string {
	return fmt.Sprintf("extract/v1|%s|isolate=%t", rel, isolate)
}

func normalize(files []string) []string {
	seen := make(map[string]struct{}, len(files))
	out := make([]string, 0, len(files))
	for _, f := range files {
		n := normalizeOne(f)
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func normalizeOne(f string) string {
	return strings.TrimPrefix(path.Clean(filepath.ToSlash(f)), "./")
}

func uniqueTargets(targets []string) []string {
	seen := make(map[string]struct{}, len(targets))
	out := targets[:0:0]
	for _, t := range targets {
		if _, ok := seen[t]; !ok {
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
