/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/mchmarny/recipekit/pkg/config"
	"github.com/mchmarny/recipekit/pkg/selector"
)

func selectCmd() *cli.Command {
	return &cli.Command{
		Name:                  "select",
		EnableShellCompletion: true,
		Usage:                 "Evaluate line selectors in a recipe",
		Description: `Print recipe text with selector annotations evaluated against the build
configuration. Lines whose selector is false are dropped; lines whose
selector is true are kept without the annotation.

Examples:
  recipekit select --file meta.yaml --platform win --arch 64
  recipekit select --file meta.yaml --selector nomkl --selector py3k=false`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Required: true,
				Usage:    "Path to the recipe file, - for stdin",
			},
			&cli.StringSliceFlag{
				Name:    "selector",
				Aliases: []string{"s"},
				Usage:   "Override a namespace entry as name or name=false, may be repeated",
			},
			outputFlag(),
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			path := cmd.String("file")
			text, err := readInput(cmd, path)
			if err != nil {
				return err
			}

			ns := cfg.Namespace()
			for k, v := range config.ParseFeatures(cmd.StringSlice("selector")) {
				ns[k] = v
			}

			slog.Debug("evaluating selectors", "file", path, "subdir", cfg.Subdir())
			out := selector.Evaluate(string(text), ns)

			if dest := cmd.String("output"); dest != "" {
				if err := os.WriteFile(dest, []byte(out), 0o644); err != nil { //nolint:gosec // recipe text is not sensitive
					return fmt.Errorf("failed to write %q: %w", dest, err)
				}
				return nil
			}
			_, err = io.WriteString(cmd.Root().Writer, out)
			return err
		},
	}
}

func readInput(cmd *cli.Command, path string) ([]byte, error) {
	if path == "-" {
		b, err := io.ReadAll(cmd.Root().Reader)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return b, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}
	return b, nil
}
