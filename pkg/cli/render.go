/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/mchmarny/recipekit/pkg/config"
	"github.com/mchmarny/recipekit/pkg/header"
	"github.com/mchmarny/recipekit/pkg/matchspec"
	"github.com/mchmarny/recipekit/pkg/metadata"
	"github.com/mchmarny/recipekit/pkg/pin"
	"github.com/mchmarny/recipekit/pkg/serializer"
)

// renderResult is the document written by the render command.
type renderResult struct {
	header.Header `json:",inline" yaml:",inline"`

	Recipes []*rendered `json:"recipes" yaml:"recipes"`
}

// rendered is the output view of a parsed recipe.
type rendered struct {
	Path         string         `json:"path" yaml:"path"`
	Name         string         `json:"name" yaml:"name"`
	Version      string         `json:"version" yaml:"version"`
	BuildID      string         `json:"buildId" yaml:"buildId"`
	Dist         string         `json:"dist" yaml:"dist"`
	Filename     string         `json:"filename" yaml:"filename"`
	Subdir       string         `json:"subdir" yaml:"subdir"`
	Build        []string       `json:"build,omitempty" yaml:"build,omitempty"`
	Run          []string       `json:"run,omitempty" yaml:"run,omitempty"`
	Features     []string       `json:"features,omitempty" yaml:"features,omitempty"`
	EntryPoints  []string       `json:"entryPoints,omitempty" yaml:"entryPoints,omitempty"`
	TestCommands []string       `json:"testCommands,omitempty" yaml:"testCommands,omitempty"`
	About        metadata.About `json:"about" yaml:"about"`
	Skip         bool           `json:"skip,omitempty" yaml:"skip,omitempty"`
	VCSMeta      string         `json:"vcsMeta,omitempty" yaml:"vcsMeta,omitempty"`
	VCSBuild     string         `json:"vcsBuild,omitempty" yaml:"vcsBuild,omitempty"`
}

func newRendered(md *metadata.MetaData) (*rendered, error) {
	n, err := md.Name()
	if err != nil {
		return nil, err
	}
	v, err := md.Version()
	if err != nil {
		return nil, err
	}
	dist, err := md.Dist()
	if err != nil {
		return nil, err
	}
	fn, err := md.PkgFilename()
	if err != nil {
		return nil, err
	}

	return &rendered{
		Path:         md.Path(),
		Name:         n,
		Version:      v,
		BuildID:      md.BuildID(),
		Dist:         dist,
		Filename:     fn,
		Subdir:       md.Config().Subdir(),
		Build:        specStrings(md.Requirements(pin.RoleBuild)),
		Run:          specStrings(md.Requirements(pin.RoleRun)),
		Features:     md.Features(),
		EntryPoints:  md.EntryPoints(),
		TestCommands: md.TestCommands(),
		About:        md.About(),
		Skip:         md.Skip(),
		VCSMeta:      md.UsesVCSInMeta(),
		VCSBuild:     md.UsesVCSInBuild(),
	}, nil
}

func specStrings(specs []*matchspec.MatchSpec) []string {
	if len(specs) == 0 {
		return nil
	}
	out := make([]string, len(specs))
	for i, s := range specs {
		out[i] = s.String()
	}
	return out
}

func renderCmd() *cli.Command {
	return &cli.Command{
		Name:                  "render",
		EnableShellCompletion: true,
		Usage:                 "Render recipes into validated package descriptions",
		Description: `Evaluate selectors, validate fields and pin requirements for one or more
recipes, then print the resulting package descriptions.

Examples:
  recipekit render --file recipes/numpy/meta.yaml --python 27 --numpy 110
  recipekit render --glob 'recipes/**/meta.yaml' --platform win --format json`,
		Flags: append(recipeFlags(),
			formatFlag(serializer.FormatYAML),
			outputFlag(),
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			paths, err := discoverRecipes(cmd)
			if err != nil {
				return err
			}

			results, err := renderAll(ctx, cfg, paths, cmd.Int("jobs"))
			if err != nil {
				return err
			}

			return writeResult(ctx, cmd, &renderResult{
				Header:  header.New(header.KindRenderResult, version, header.WithMetadata("subdir", cfg.Subdir())),
				Recipes: results,
			})
		},
	}
}

// renderAll renders recipes concurrently and returns them in input order.
// The first failure cancels the remaining work.
func renderAll(ctx context.Context, cfg *config.Config, paths []string, jobs int) ([]*rendered, error) {
	results := make([]*rendered, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			md, err := metadata.LoadFile(path, cfg, metadata.WithLogger(slog.Default().With("recipe", path)))
			if err != nil {
				return fmt.Errorf("failed to render %s: %w", path, err)
			}
			r, err := newRendered(md)
			if err != nil {
				return fmt.Errorf("failed to render %s: %w", path, err)
			}
			results[i] = r
			slog.Debug("rendered recipe", "path", path, "dist", r.Dist)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
