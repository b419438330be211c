/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/mchmarny/recipekit/pkg/config"
	"github.com/mchmarny/recipekit/pkg/logging"
	"github.com/mchmarny/recipekit/pkg/serializer"
)

const (
	name           = "recipekit"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path (default: stdout)",
	}
}

func formatFlag(def serializer.Format) cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(def),
		Usage: fmt.Sprintf("Output format (supported values: %s)",
			strings.Join(serializer.SupportedFormats(), ", ")),
	}
}

// recipeFlags select the recipes a batch command works on.
func recipeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "Path to a recipe file, may be repeated",
		},
		&cli.StringFlag{
			Name:    "glob",
			Aliases: []string{"g"},
			Usage:   "Glob pattern matching recipe files (e.g. 'recipes/**/meta.yaml')",
		},
		&cli.IntFlag{
			Name:    "jobs",
			Aliases: []string{"j"},
			Value:   runtime.GOMAXPROCS(0),
			Usage:   "Maximum number of recipes processed concurrently",
		},
	}
}

// Execute runs the recipekit CLI. It is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Usage:                 "Render and validate conditional package recipes",
		EnableShellCompletion: true,
		Description: `recipekit turns platform-conditional recipe templates into concrete,
validated package descriptions and pins python and numpy requirements to the
configured build versions.

Configuration precedence: flags, then --config file, then environment
(RECIPEKIT_SUBDIR, CONDA_PY, CONDA_NPY, RECIPEKIT_FEATURES), then defaults.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML or JSON build configuration file",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Sources: cli.EnvVars(logging.EnvLogLevel),
				Usage:   "Log level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "platform",
				Usage: "Target platform (linux, osx, win)",
			},
			&cli.StringFlag{
				Name:  "arch",
				Usage: "Target architecture (64, 32, aarch64, arm64, ppc64le)",
			},
			&cli.StringFlag{
				Name:  "python",
				Usage: "Configured python version (e.g. 3.11 or 311)",
			},
			&cli.StringFlag{
				Name:  "numpy",
				Usage: "Configured numpy version (e.g. 1.26 or 126)",
			},
			&cli.StringSliceFlag{
				Name:  "feature",
				Usage: "Selector feature flag as name or name=false, may be repeated",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			selectCmd(),
			pinCmd(),
			renderCmd(),
			lintCmd(),
		},
	}
}

// loadConfig builds the build configuration from the --config file or the
// environment, then applies flag overrides.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	var cfg *config.Config
	if path := cmd.String("config"); path != "" {
		c, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = c
	} else {
		cfg = config.New()
	}

	if v := cmd.String("platform"); v != "" {
		cfg.Platform = v
	}
	if v := cmd.String("arch"); v != "" {
		cfg.Arch = v
	}
	if v := cmd.String("python"); v != "" {
		cfg.Python = v
	}
	if v := cmd.String("numpy"); v != "" {
		cfg.NumPy = v
	}
	for k, v := range config.ParseFeatures(cmd.StringSlice("feature")) {
		cfg.Features[k] = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("build configuration",
		"subdir", cfg.Subdir(),
		"python", cfg.Python,
		"numpy", cfg.NumPy,
		"features", len(cfg.Features))
	return cfg, nil
}

// parseOutputFormat reads the --format flag.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q, supported values: %s",
			f, strings.Join(serializer.SupportedFormats(), ", "))
	}
	return f, nil
}

// writeResult serializes v to the --output destination in the --format format.
func writeResult(ctx context.Context, cmd *cli.Command, v any) error {
	format, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	ser := serializer.NewFileWriterOrStdout(format, cmd.String("output"))
	defer func() {
		if err := ser.Close(); err != nil {
			slog.Warn("failed to close serializer", "error", err)
		}
	}()

	return ser.Serialize(ctx, v)
}
