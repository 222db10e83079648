package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/panbanda/tangle/internal/output"
	"github.com/urfave/cli/v2"
)

func cacheCmd() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or clear the extraction cache",
		Subcommands: []*cli.Command{
			{
				Name:      "stats",
				Usage:     "Show cache size and entry ages",
				ArgsUsage: "[path]",
				Action:    runCacheStatsCmd,
			},
			{
				Name:      "clear",
				Usage:     "Remove every cached extraction",
				ArgsUsage: "[path]",
				Action:    runCacheClearCmd,
			},
		},
	}
}

func runCacheStatsCmd(c *cli.Context) error {
	s, err := newSession(c, getPath(c))
	if err != nil {
		return err
	}
	store, err := s.openCache()
	if err != nil {
		return fmt.Errorf("failed to open cache %s: %w", s.cacheDir(), err)
	}
	stats, err := store.GetStats()
	if err != nil {
		return fmt.Errorf("failed to read cache %s: %w", s.cacheDir(), err)
	}

	formatter, err := s.formatter(c, "")
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(output.CacheStatsFacts(s.cacheDir(), *stats))
}

func runCacheClearCmd(c *cli.Context) error {
	s, err := newSession(c, getPath(c))
	if err != nil {
		return err
	}
	store, err := s.openCache()
	if err != nil {
		return fmt.Errorf("failed to open cache %s: %w", s.cacheDir(), err)
	}
	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache %s: %w", s.cacheDir(), err)
	}
	color.New(color.FgGreen).Fprintf(c.App.Writer, "Cleared %s\n", s.cacheDir())
	return nil
}
