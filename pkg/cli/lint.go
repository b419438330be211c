/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/mchmarny/recipekit/pkg/config"
	"github.com/mchmarny/recipekit/pkg/header"
	"github.com/mchmarny/recipekit/pkg/metadata"
	"github.com/mchmarny/recipekit/pkg/pin"
	"github.com/mchmarny/recipekit/pkg/selector"
	"github.com/mchmarny/recipekit/pkg/serializer"
)

// Lint statuses.
const (
	lintOK     = "ok"
	lintWarn   = "warn"
	lintFailed = "failed"
)

// selectorLikeRe matches a trailing bracketed comment that looks like a
// selector annotation.
var selectorLikeRe = regexp.MustCompile(`#\s*\[[^\[\]]*\]\s*['"]?\s*$`)

type lintResult struct {
	Recipe string `json:"recipe" yaml:"recipe"`
	Status string `json:"status" yaml:"status"`
	// Unresolved holds the line numbers of selector-like comments that did
	// not parse as selectors.
	Unresolved []int `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
	// Mismatched holds explicit python or numpy pins that the configured
	// version does not satisfy.
	Mismatched []string `json:"mismatched,omitempty" yaml:"mismatched,omitempty"`
	VCS        string   `json:"vcs,omitempty" yaml:"vcs,omitempty"`
	Error      string   `json:"error,omitempty" yaml:"error,omitempty"`
}

type lintReport struct {
	header.Header `json:",inline" yaml:",inline"`

	Results []lintResult `json:"results" yaml:"results"`
}

func (r *lintReport) Columns() []string {
	return []string{"recipe", "status", "selectors", "pins", "vcs", "error"}
}

func (r *lintReport) Rows() [][]string {
	rows := make([][]string, 0, len(r.Results))
	for _, res := range r.Results {
		lines := make([]string, len(res.Unresolved))
		for i, n := range res.Unresolved {
			lines[i] = strconv.Itoa(n)
		}
		rows = append(rows, []string{
			res.Recipe,
			res.Status,
			dashIfEmpty(strings.Join(lines, ",")),
			dashIfEmpty(strings.Join(res.Mismatched, ",")),
			dashIfEmpty(res.VCS),
			dashIfEmpty(res.Error),
		})
	}
	return rows
}

func (r *lintReport) failed() int {
	var n int
	for _, res := range r.Results {
		if res.Status == lintFailed {
			n++
		}
	}
	return n
}

var _ serializer.Tabular = (*lintReport)(nil)

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func lintCmd() *cli.Command {
	return &cli.Command{
		Name:                  "lint",
		EnableShellCompletion: true,
		Usage:                 "Check recipes for validation errors and suspicious selectors",
		Description: `Render each recipe and report validation failures, selector-like comments
that are not valid selectors, and version control usage in the recipe or
its build script. Exits non-zero when any recipe fails.

Examples:
  recipekit lint --glob 'recipes/**/meta.yaml'
  recipekit lint --file meta.yaml --platform osx --format json`,
		Flags: append(recipeFlags(),
			formatFlag(serializer.FormatTable),
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

			report, err := lintAll(ctx, cfg, paths, cmd.Int("jobs"))
			if err != nil {
				return err
			}

			if err := writeResult(ctx, cmd, report); err != nil {
				return err
			}

			if n := report.failed(); n > 0 {
				return fmt.Errorf("%d of %d recipes failed lint", n, len(report.Results))
			}
			return nil
		},
	}
}

// lintAll checks every recipe. Per-recipe failures are recorded in the report;
// only cancellation aborts the run.
func lintAll(ctx context.Context, cfg *config.Config, paths []string, jobs int) (*lintReport, error) {
	report := &lintReport{
		Header:  header.New(header.KindLintReport, version, header.WithMetadata("subdir", cfg.Subdir())),
		Results: make([]lintResult, len(paths)),
	}

	g, gctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report.Results[i] = lintRecipe(path, cfg)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

func lintRecipe(path string, cfg *config.Config) lintResult {
	res := lintResult{Recipe: path, Status: lintOK}

	raw, err := os.ReadFile(path)
	if err != nil {
		res.Status = lintFailed
		res.Error = err.Error()
		return res
	}
	res.Unresolved = unresolvedSelectors(raw)

	md, err := metadata.LoadFile(path, cfg, metadata.WithLogger(slog.Default().With("recipe", path)))
	if err != nil {
		res.Status = lintFailed
		res.Error = err.Error()
		return res
	}

	if vcs := md.UsesVCSInMeta(); vcs != "" {
		res.VCS = vcs
	} else if vcs := md.UsesVCSInBuild(); vcs != "" {
		res.VCS = vcs + " (build)"
	}

	res.Mismatched = mismatchedPins(md, cfg)

	if len(res.Unresolved) > 0 || len(res.Mismatched) > 0 {
		res.Status = lintWarn
	}
	slog.Debug("linted recipe", "path", path, "status", res.Status)
	return res
}

// mismatchedPins returns the explicit python and numpy requirements whose
// version the configured version does not satisfy. A pin finer than the
// configured series, such as python 2.7.8 under 2.7, is accepted.
func mismatchedPins(md *metadata.MetaData, cfg *config.Config) []string {
	var out []string
	for _, role := range []pin.Role{pin.RoleBuild, pin.RoleRun} {
		for _, ms := range md.Requirements(role) {
			if ms.Strictness() < 2 {
				continue
			}
			p, ok := pin.Lookup(ms.Name)
			if !ok {
				continue
			}
			configured, ok := cfg.ConfiguredVersion(ms.Name).(string)
			if !ok {
				continue
			}
			v, err := p.Normalize(configured)
			if err != nil {
				continue
			}
			if ms.Match(v) || strings.HasPrefix(ms.Version, v+".") {
				continue
			}
			out = append(out, fmt.Sprintf("%s (%s)", ms.String(), role))
		}
	}
	return out
}

// unresolvedSelectors returns the 1-based numbers of lines that end in a
// bracketed comment which does not parse as a selector.
func unresolvedSelectors(text []byte) []int {
	var lines []int
	sc := bufio.NewScanner(bytes.NewReader(text))
	for n := 1; sc.Scan(); n++ {
		line := sc.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		if selectorLikeRe.MatchString(line) && !selector.HasSelector(line) {
			lines = append(lines, n)
		}
	}
	return lines
}
