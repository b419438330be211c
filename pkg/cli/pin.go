/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/mchmarny/recipekit/pkg/matchspec"
	"github.com/mchmarny/recipekit/pkg/pin"
)

func pinCmd() *cli.Command {
	return &cli.Command{
		Name:                  "pin",
		EnableShellCompletion: true,
		Usage:                 "Reconcile a dependency spec with the configured versions",
		ArgsUsage:             "SPEC",
		Description: fmt.Sprintf(`Print the dependency spec as it would appear in a rendered recipe.
Packages with a pinning policy (%s) are rewritten from the configured
--python and --numpy versions; other packages are printed unchanged.

Examples:
  recipekit pin --python 27 python             # python 2.7*
  recipekit pin --numpy 110 "numpy x.x"        # numpy 1.10*
  recipekit pin --numpy 18 --role run numpy    # numpy`, strings.Join(pin.Names(), ", ")),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "role",
				Aliases: []string{"r"},
				Value:   string(pin.RoleBuild),
				Usage:   "Requirements section the spec belongs to (build, run)",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			spec := strings.Join(cmd.Args().Slice(), " ")
			if strings.TrimSpace(spec) == "" {
				return fmt.Errorf("missing dependency spec argument")
			}

			role, err := pin.ParseRole(cmd.String("role"))
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ms, err := matchspec.Parse(spec)
			if err != nil {
				return err
			}

			pinned, err := pin.Reconcile(ms, cfg.ConfiguredVersion(ms.Name), role)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.Root().Writer, pinned.String())
			return err
		},
	}
}
