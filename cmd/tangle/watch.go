package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/panbanda/tangle/internal/output"
	"github.com/panbanda/tangle/pkg/watch"
	"github.com/urfave/cli/v2"
)

func watchCmd() *cli.Command {
	flags := append(analysisFlags(), &cli.DurationFlag{
		Name:  "debounce",
		Value: watch.DefaultDebounce,
		Usage: "Quiet period before re-analyzing",
	})
	return &cli.Command{
		Name:      "watch",
		Usage:     "Watch for file changes and re-analyze",
		ArgsUsage: "[path]",
		Flags:     flags,
		Action:    runWatchCmd,
	}
}

func runWatchCmd(c *cli.Context) error {
	s, err := newSession(c, getPath(c))
	if err != nil {
		return err
	}
	// A bar per re-run would interleave with the report.
	s.progress = false

	formatter, err := s.formatter(c, "")
	if err != nil {
		return err
	}
	defer formatter.Close()

	status := color.New(color.FgCyan)
	rerun := func(ctx context.Context) {
		rep, err := s.analyze(ctx)
		if err != nil {
			color.New(color.FgRed).Fprintf(s.errOut, "Error: %v\n", err)
			return
		}
		if err := formatter.Output(output.AnalysisReport(rep)); err != nil {
			s.logger.Error("render failed", "error", err)
		}
	}

	watcher, err := watch.NewWatcher(s.root, s.cfg, c.Duration("debounce"))
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Stop()
	watcher.SetLogger(s.logger)

	ctx := c.Context
	watcher.SetCallback(func(changed []string) {
		status.Fprintf(s.errOut, "Changed: %s\n", strings.Join(changed, ", "))
		s.logger.Debug("re-analyzing", "changed", len(changed), "watched_dirs", len(watcher.WatchedDirs()))
		rerun(ctx)
	})

	rerun(ctx)
	status.Fprintf(s.errOut, "Watching %s (Ctrl+C to stop)\n", s.root)

	if err := watcher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
