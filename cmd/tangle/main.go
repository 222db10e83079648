package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/panbanda/tangle/internal/output"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

// errBudgetExceeded is returned when --timeout fires before a run completes.
var errBudgetExceeded = errors.New("budget exceeded")

// getPath returns the first positional arg, defaulting to ".".
func getPath(c *cli.Context) string {
	if c.Args().Len() > 0 {
		return c.Args().First()
	}
	return "."
}

func newApp() *cli.App {
	return &cli.App{
		Name:     "tangle",
		Usage:    "Dependency structure analysis for Python, JavaScript and TypeScript",
		Version:  version,
		Metadata: make(map[string]interface{}),
		Description: `Tangle builds a file-level import graph for a project and reports
dependency cycles, orphaned files, coupling and per-function complexity.

Supports: Python, JavaScript, TypeScript (.py .js .jsx .mjs .cjs .ts .tsx)`,
		Flags: globalFlags(),
		Before: func(c *cli.Context) error {
			if f := c.String("format"); f != "" && !output.ValidFormat(f) {
				return fmt.Errorf("unknown format %q (want text, json, markdown, toon or dot)", f)
			}
			return nil
		},
		Commands: []*cli.Command{
			analyzeCmd(),
			cyclesCmd(),
			orphansCmd(),
			couplingCmd(),
			complexityCmd(),
			graphCmd(),
			fileCmd(),
			watchCmd(),
			configCmd(),
			initCmd(),
			cacheCmd(),
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to config file (TOML, YAML, or JSON)",
			EnvVars: []string{"TANGLE_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text, json, markdown, toon, dot (default from config)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write output to file",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug logging on stderr",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Abort the run after this long (0 = no limit)",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Parallel extraction workers (0 = from config)",
		},
		&cli.BoolFlag{
			Name:  "no-progress",
			Usage: "Disable the progress bar",
		},
		&cli.BoolFlag{
			Name:  "cache",
			Usage: "Reuse cached extractions between runs",
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		color.Red("Error: %v", err)
		stop()
		os.Exit(1)
	}
}
