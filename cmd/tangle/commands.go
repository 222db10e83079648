package main

import (
	"errors"
	"fmt"

	"github.com/panbanda/tangle/internal/output"
	"github.com/panbanda/tangle/internal/scanner"
	"github.com/panbanda/tangle/pkg/analysis"
	"github.com/panbanda/tangle/pkg/analyzer/complexity"
	"github.com/panbanda/tangle/pkg/report"
	"github.com/urfave/cli/v2"
)

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"all"},
		Usage:     "Build the dependency graph and report cycles, orphans, coupling and complexity",
		ArgsUsage: "[path]",
		Flags:     analysisFlags(),
		Action: func(c *cli.Context) error {
			return runView(c, "", func(rep *report.Report) any {
				return output.AnalysisReport(rep)
			})
		},
	}
}

func cyclesCmd() *cli.Command {
	return &cli.Command{
		Name:      "cycles",
		Usage:     "List circular import chains",
		ArgsUsage: "[path]",
		Flags:     analysisFlags(),
		Action: func(c *cli.Context) error {
			return runView(c, "", func(rep *report.Report) any {
				return output.CyclesReport(rep)
			})
		},
	}
}

func orphansCmd() *cli.Command {
	return &cli.Command{
		Name:      "orphans",
		Usage:     "List files that nothing imports",
		ArgsUsage: "[path]",
		Flags:     analysisFlags(),
		Action: func(c *cli.Context) error {
			return runView(c, "", func(rep *report.Report) any {
				return output.OrphansTable(rep.Orphans)
			})
		},
	}
}

func couplingCmd() *cli.Command {
	flags := append(analysisFlags(), &cli.IntFlag{
		Name:  "top",
		Usage: "Show only the N most coupled files (0 = all)",
	})
	return &cli.Command{
		Name:      "coupling",
		Usage:     "Show fan-in and fan-out per file",
		ArgsUsage: "[path]",
		Flags:     flags,
		Action: func(c *cli.Context) error {
			top := c.Int("top")
			if top < 0 {
				return errors.New("--top must not be negative")
			}
			return runView(c, "", func(rep *report.Report) any {
				return output.CouplingTable(rep.CouplingRecords(), rep.Coupling, top)
			})
		},
	}
}

func complexityCmd() *cli.Command {
	flags := append(analysisFlags(), &cli.BoolFlag{
		Name:  "exceeding-only",
		Usage: "Show only functions above the complexity threshold",
	})
	return &cli.Command{
		Name:      "complexity",
		Aliases:   []string{"cx"},
		Usage:     "Show per-function complexity scores",
		ArgsUsage: "[path]",
		Flags:     flags,
		Action: func(c *cli.Context) error {
			exceedingOnly := c.Bool("exceeding-only")
			return runView(c, "", func(rep *report.Report) any {
				records := rep.AllFunctions()
				if exceedingOnly {
					filtered := make([]complexity.Record, 0, len(records))
					for _, r := range records {
						if r.ExceedsThreshold {
							filtered = append(filtered, r)
						}
					}
					records = filtered
				}
				return output.ComplexityTable(records, rep.Complexity)
			})
		},
	}
}

func graphCmd() *cli.Command {
	return &cli.Command{
		Name:      "graph",
		Aliases:   []string{"dag"},
		Usage:     "Print the file dependency graph (Graphviz DOT unless --format is given)",
		ArgsUsage: "[path]",
		Flags:     analysisFlags(),
		Action: func(c *cli.Context) error {
			return runView(c, output.FormatDOT, func(rep *report.Report) any {
				return output.NewGraphView(rep)
			})
		},
	}
}

func fileCmd() *cli.Command {
	flags := append(analysisFlags(), &cli.StringFlag{
		Name:  "root",
		Value: ".",
		Usage: "Project root that imports resolve against",
	})
	return &cli.Command{
		Name:      "file",
		Usage:     "Analyze one file",
		ArgsUsage: "<path>",
		Flags:     flags,
		Action:    runFileCmd,
	}
}

func runFileCmd(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return errors.New("file requires exactly one path")
	}
	target := c.Args().First()

	s, err := newSession(c, c.String("root"))
	if err != nil {
		return err
	}

	rel, ok, err := scanner.ScanFile(s.root, target)
	if err != nil {
		return fmt.Errorf("invalid file %s: %w", target, err)
	}
	if !ok {
		return fmt.Errorf("%s is not a regular file inside %s", target, s.root)
	}

	ctx, cancel := s.withBudget(c.Context)
	defer cancel()

	item, err := analysis.AnalyzeFile(ctx, s.root, rel, s.options())
	if err != nil {
		return s.budgetError(err)
	}

	formatter, err := s.formatter(c, "")
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(output.FileReport(*item, s.cfg.Thresholds.Complexity))
}
