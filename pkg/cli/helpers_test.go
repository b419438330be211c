// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/mchmarny/recipekit/pkg/config"
	"github.com/mchmarny/recipekit/pkg/errors"
	"github.com/mchmarny/recipekit/pkg/serializer"
)

// withRoot runs fn as the action of a root command carrying the global
// flags, parsed from args.
func withRoot(t *testing.T, args []string, fn func(*cli.Command)) {
	t.Helper()
	clearEnv(t)

	root := newRootCmd()
	root.Commands = nil
	root.Flags = append(root.Flags, formatFlag(serializer.FormatYAML))
	root.Action = func(_ context.Context, c *cli.Command) error {
		fn(c)
		return nil
	}
	require.NoError(t, root.Run(context.Background(), append([]string{name}, args...)))
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		format  string
		want    serializer.Format
		wantErr bool
	}{
		{format: "yaml", want: serializer.FormatYAML},
		{format: "json", want: serializer.FormatJSON},
		{format: "table", want: serializer.FormatTable},
		{format: "xml", wantErr: true},
		{format: "csv", wantErr: true},
		{format: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("format="+tt.format, func(t *testing.T) {
			withRoot(t, []string{"--format", tt.format}, func(c *cli.Command) {
				got, err := parseOutputFormat(c)
				if tt.wantErr {
					assert.Error(t, err)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		})
	}
}

func TestLoadConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.yaml")
	require.NoError(t, os.WriteFile(path, []byte("platform: osx\narch: arm64\npython: \"3.10\"\nfeatures:\n  nomkl: true\n"), 0o600))

	t.Run("file", func(t *testing.T) {
		withRoot(t, []string{"--config", path}, func(c *cli.Command) {
			cfg, err := loadConfig(c)
			require.NoError(t, err)
			assert.Equal(t, "osx-arm64", cfg.Subdir())
			assert.Equal(t, "3.10", cfg.Python)
			assert.Equal(t, config.DefaultNumPy, cfg.NumPy)
			assert.True(t, cfg.Features["nomkl"])
		})
	})

	t.Run("flags override file", func(t *testing.T) {
		args := []string{"--config", path, "--platform", "linux", "--arch", "64", "--python", "27", "--feature", "nomkl=false"}
		withRoot(t, args, func(c *cli.Command) {
			cfg, err := loadConfig(c)
			require.NoError(t, err)
			assert.Equal(t, "linux-64", cfg.Subdir())
			assert.Equal(t, "27", cfg.Python)
			assert.False(t, cfg.Features["nomkl"])
		})
	})

	t.Run("invalid flag value", func(t *testing.T) {
		withRoot(t, []string{"--python", "two"}, func(c *cli.Command) {
			_, err := loadConfig(c)
			assert.True(t, errors.IsCode(err, errors.ErrCodeConfiguration))
		})
	})

	t.Run("missing file", func(t *testing.T) {
		withRoot(t, []string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, func(c *cli.Command) {
			_, err := loadConfig(c)
			assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
		})
	})
}
