/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"fmt"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/urfave/cli/v3"
)

// discoverRecipes returns the sorted, de-duplicated recipe paths named by
// the --file flags and matched by the --glob pattern.
func discoverRecipes(cmd *cli.Command) ([]string, error) {
	paths := slices.Clone(cmd.StringSlice("file"))

	if pattern := cmd.String("glob"); pattern != "" {
		if !doublestar.ValidatePathPattern(pattern) {
			return nil, fmt.Errorf("invalid glob pattern: %q", pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("failed to match glob pattern %q: %w", pattern, err)
		}
		paths = append(paths, matches...)
	}

	slices.Sort(paths)
	paths = slices.Compact(paths)
	if len(paths) == 0 {
		return nil, fmt.Errorf("no recipes found, use --file or --glob")
	}
	return paths, nil
}
