package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/panbanda/tangle/internal/cache"
	"github.com/panbanda/tangle/internal/output"
	"github.com/panbanda/tangle/internal/progress"
	"github.com/panbanda/tangle/internal/scanner"
	"github.com/panbanda/tangle/pkg/analysis"
	"github.com/panbanda/tangle/pkg/config"
	"github.com/panbanda/tangle/pkg/parser"
	"github.com/panbanda/tangle/pkg/report"
	"github.com/urfave/cli/v2"
)

// session holds everything one command needs to run the pipeline against a
// project root.
type session struct {
	root       string
	cfg        *config.Config
	configPath string
	logger     *slog.Logger
	timeout    time.Duration
	progress   bool
	errOut     io.Writer
}

// analysisFlags are shared by every command that runs the pipeline.
func analysisFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "complexity-threshold",
			Usage: "Flag functions scoring above this (default from config)",
		},
		&cli.IntFlag{
			Name:  "coupling-threshold",
			Usage: "Flag files whose fan-in plus fan-out exceeds this (default from config)",
		},
		&cli.BoolFlag{
			Name:  "isolate-nested",
			Usage: "Do not count nested function bodies toward the enclosing function",
		},
	}
}

func newLogger(c *cli.Context) *slog.Logger {
	level := slog.LevelWarn
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level}))
}

// loadConfig reads --config when given, otherwise the first config file
// found in root, otherwise defaults.
func loadConfig(c *cli.Context, root string) (*config.Config, string, error) {
	if p := c.String("config"); p != "" {
		cfg, err := config.Load(p)
		if err != nil {
			return nil, p, fmt.Errorf("failed to load config %s: %w", p, err)
		}
		return cfg, p, nil
	}
	cfg, p, err := config.LoadOrDefault(root)
	if err != nil {
		return nil, p, fmt.Errorf("failed to load config %s: %w", p, err)
	}
	return cfg, p, nil
}

// applyFlags lets command-line flags override the loaded config.
func applyFlags(c *cli.Context, cfg *config.Config) {
	if w := c.Int("workers"); w > 0 {
		cfg.Analysis.Workers = w
	}
	if c.Bool("cache") {
		cfg.Cache.Enabled = true
	}
	if c.IsSet("complexity-threshold") {
		cfg.Thresholds.Complexity = c.Int("complexity-threshold")
	}
	if c.IsSet("coupling-threshold") {
		cfg.Thresholds.Coupling = c.Int("coupling-threshold")
	}
	if c.Bool("isolate-nested") {
		cfg.Complexity.IsolateNestedFunctions = true
	}
}

func newSession(c *cli.Context, path string) (*session, error) {
	root, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", path)
	}

	cfg, cfgPath, err := loadConfig(c, root)
	if err != nil {
		return nil, err
	}
	applyFlags(c, cfg)

	s := &session{
		root:       root,
		cfg:        cfg,
		configPath: cfgPath,
		logger:     newLogger(c),
		timeout:    c.Duration("timeout"),
		progress:   !c.Bool("no-progress"),
		errOut:     c.App.ErrWriter,
	}
	if cfgPath != "" {
		s.logger.Debug("loaded config", "path", cfgPath)
	}
	return s, nil
}

func (s *session) options() analysis.Options {
	opts := analysis.OptionsFromConfig(s.cfg)
	opts.Logger = s.logger

	if s.cfg.Cache.Enabled {
		c, err := s.openCache()
		if err != nil {
			s.logger.Warn("cache disabled", "dir", s.cacheDir(), "error", err)
		} else {
			opts.Cache = c
		}
	}
	return opts
}

// cacheDir resolves the configured cache directory against the root.
func (s *session) cacheDir() string {
	dir := s.cfg.Cache.Dir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(s.root, dir)
	}
	return dir
}

func (s *session) openCache() (*cache.Cache, error) {
	return cache.New(s.cacheDir(), s.cfg.Cache.TTL, true)
}

// withBudget applies --timeout to ctx.
func (s *session) withBudget(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

func (s *session) budgetError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s: %w", errBudgetExceeded, s.timeout, err)
	}
	return err
}

// analyze scans the root and runs the pipeline over every file found.
func (s *session) analyze(ctx context.Context) (*report.Report, error) {
	var spinner *progress.Tracker
	if s.progress {
		spinner = progress.NewSpinner("Scanning files...", progress.WithWriter(s.errOut))
	}
	res, err := scanner.NewScanner(s.cfg).ScanDir(s.root)
	if err != nil {
		err = fmt.Errorf("failed to scan directory %s: %w", s.root, err)
		spinner.FinishError(err)
		return nil, err
	}
	spinner.FinishSuccess()
	s.logger.Debug("scan complete",
		"files", len(res.Files),
		"skipped_symlinks", res.SkippedSymlinks,
		"skipped_large", res.SkippedLarge,
		"skipped_ignored", res.SkippedIgnored)
	s.logger.Debug("files by language", languageCounts(res.Files)...)

	opts := s.options()
	var tracker *progress.Tracker
	if s.progress && len(res.Files) > 0 {
		tracker = progress.NewTracker("Analyzing dependencies...", len(res.Files), progress.WithWriter(s.errOut))
		opts.OnProgress = tracker.Tick
	}

	ctx, cancel := s.withBudget(ctx)
	defer cancel()

	rep, err := analysis.Analyze(ctx, s.root, res.Files, opts)
	if err != nil {
		err = s.budgetError(err)
		tracker.FinishError(err)
		return nil, err
	}
	tracker.FinishSuccess()
	return rep, nil
}

// languageCounts returns language=count pairs in name order, for logging.
func languageCounts(files []string) []any {
	groups := scanner.GroupByLanguage(files)
	langs := make([]string, 0, len(groups))
	for lang := range groups {
		langs = append(langs, string(lang))
	}
	sort.Strings(langs)

	attrs := make([]any, 0, 2*len(langs))
	for _, lang := range langs {
		attrs = append(attrs, lang, len(groups[parser.Language(lang)]))
	}
	return attrs
}

// formatter picks the output format from --format, then fallback, then the
// config file.
func (s *session) formatter(c *cli.Context, fallback output.Format) (*output.Formatter, error) {
	name := c.String("format")
	if name == "" && fallback != "" {
		name = string(fallback)
	}
	if name == "" {
		name = s.cfg.Output.Format
	}
	if !output.ValidFormat(name) {
		return nil, fmt.Errorf("unknown format %q", name)
	}

	format := output.ParseFormat(name)
	colored := s.cfg.Output.Color && !color.NoColor
	if path := c.String("output"); path != "" {
		return output.NewFormatter(format, path, colored)
	}
	return output.NewWriterFormatter(format, c.App.Writer, colored), nil
}

// runView analyzes the project named by the first argument and renders the
// view built from the report.
func runView(c *cli.Context, fallback output.Format, view func(*report.Report) any) error {
	s, err := newSession(c, getPath(c))
	if err != nil {
		return err
	}

	rep, err := s.analyze(c.Context)
	if err != nil {
		return err
	}

	formatter, err := s.formatter(c, fallback)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(view(rep))
}
