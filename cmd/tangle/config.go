package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/panbanda/tangle/pkg/config"
	"github.com/urfave/cli/v2"
)

// defaultConfigName is the file written by init.
const defaultConfigName = "tangle.toml"

func configCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect tangle configuration",
		Subcommands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Print the effective configuration",
				ArgsUsage: "[path]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "yaml",
						Usage: "Print YAML instead of TOML",
					},
				},
				Action: runConfigShowCmd,
			},
			{
				Name:      "validate",
				Usage:     "Check a config file against the schema",
				ArgsUsage: "[file]",
				Action:    runConfigValidateCmd,
			},
		},
	}
}

func runConfigShowCmd(c *cli.Context) error {
	root, err := filepath.Abs(getPath(c))
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	cfg, source, err := loadConfig(c, root)
	if err != nil {
		return err
	}

	var data []byte
	if c.Bool("yaml") {
		data, err = config.MarshalYAML(cfg)
	} else {
		data, err = config.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}

	if source == "" {
		source = "defaults"
	}
	fmt.Fprintf(c.App.Writer, "# source: %s\n", source)
	_, err = c.App.Writer.Write(data)
	return err
}

func runConfigValidateCmd(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		path = c.String("config")
	}
	if path == "" {
		path = config.Find(".")
	}
	if path == "" {
		return errors.New("no config file found")
	}

	if err := config.Validate(path); err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(c.App.Writer, "%s is valid\n", path)
	return nil
}

func initCmd() *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "Write a default " + defaultConfigName,
		ArgsUsage: "[dir]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing file",
			},
		},
		Action: runInitCmd,
	}
}

func runInitCmd(c *cli.Context) error {
	path := filepath.Join(getPath(c), defaultConfigName)
	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	data, err := config.Marshal(config.DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	data = append([]byte("# tangle configuration\n\n"), data...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	color.New(color.FgGreen).Fprintf(c.App.Writer, "Created %s\n", path)
	return nil
}
