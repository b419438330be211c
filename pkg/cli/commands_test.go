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
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchmarny/recipekit/pkg/config"
	"github.com/mchmarny/recipekit/pkg/header"
)

const testRecipe = `package:
  name: numpy-ext
  version: 1.10

source:
  url: https://example.com/numpy-ext-1.10.tar.gz
  patches:
    - win.patch  # [win]

build:
  number: 2
  features:
    - nomkl  # [linux]

requirements:
  build:
    - python
    - numpy x.x
  run:
    - python
    - numpy x.x

test:
  commands:
    - numpy-ext --help

about:
  home: https://example.com
  license: BSD
`

// clearEnv keeps the host environment out of the build configuration.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{config.EnvSubdir, config.EnvPython, config.EnvNumPy, config.EnvFeatures} {
		t.Setenv(k, "")
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	clearEnv(t)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.Writer = &out
	cmd.ErrWriter = io.Discard

	err := cmd.Run(context.Background(), append([]string{name}, args...))
	return out.String(), err
}

func writeRecipe(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSelectCommand(t *testing.T) {
	path := writeRecipe(t, t.TempDir(), "meta.yaml", testRecipe)

	tests := []struct {
		name     string
		args     []string
		contains []string
		excludes []string
	}{
		{
			name:     "linux drops win lines",
			args:     []string{"--platform", "linux", "--arch", "64", "select", "--file", path},
			contains: []string{"    - nomkl\n"},
			excludes: []string{"win.patch", "# [linux]"},
		},
		{
			name:     "win keeps win lines",
			args:     []string{"--platform", "win", "--arch", "64", "select", "--file", path},
			contains: []string{"    - win.patch\n"},
			excludes: []string{"nomkl"},
		},
		{
			name:     "selector override",
			args:     []string{"--platform", "osx", "--arch", "64", "select", "--file", path, "--selector", "win"},
			contains: []string{"win.patch"},
			excludes: []string{"nomkl"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, tt.args...)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestSelectCommandOutputFile(t *testing.T) {
	dir := t.TempDir()
	path := writeRecipe(t, dir, "meta.yaml", "a: 1  # [win]\nb: 2\n")
	dest := filepath.Join(dir, "out.yaml")

	out, err := runCLI(t, "--platform", "linux", "select", "--file", path, "--output", dest)
	require.NoError(t, err)
	assert.Empty(t, out)

	b, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "b: 2\n", string(b))
}

func TestSelectCommandMissingFile(t *testing.T) {
	_, err := runCLI(t, "select", "--file", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPinCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{name: "bare python", args: []string{"--python", "27", "pin", "python"}, want: "python 2.7*\n"},
		{name: "python wildcard", args: []string{"--python", "3.4", "pin", "python x.x"}, want: "python 3.4*\n"},
		{name: "numpy build", args: []string{"--numpy", "110", "pin", "numpy"}, want: "numpy 1.10*\n"},
		{name: "numpy run stays bare", args: []string{"--numpy", "110", "pin", "--role", "run", "numpy"}, want: "numpy\n"},
		{name: "explicit version kept", args: []string{"--python", "27", "pin", "python", "2.7.8"}, want: "python 2.7.8\n"},
		{name: "other package", args: []string{"pin", "zlib 1.2*"}, want: "zlib 1.2*\n"},
		{name: "missing spec", args: []string{"pin"}, wantErr: true},
		{name: "invalid role", args: []string{"pin", "--role", "test", "python"}, wantErr: true},
		{name: "invalid spec", args: []string{"pin", "python 2.7 py27_0 extra"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeRecipe(t, dir, "numpy-ext/meta.yaml", testRecipe)
	dest := filepath.Join(dir, "out.json")

	_, err := runCLI(t,
		"--platform", "linux", "--arch", "64", "--python", "27", "--numpy", "110",
		"render", "--file", path, "--format", "json", "--output", dest)
	require.NoError(t, err)

	b, err := os.ReadFile(dest)
	require.NoError(t, err)

	var res renderResult
	require.NoError(t, json.Unmarshal(b, &res))
	assert.Equal(t, header.KindRenderResult, res.Kind)
	assert.Equal(t, "linux-64", res.Metadata["subdir"])
	require.Len(t, res.Recipes, 1)

	got := res.Recipes[0]
	assert.Equal(t, "numpy-ext", got.Name)
	assert.Equal(t, "1.10", got.Version)
	assert.Equal(t, "np110py27_nomkl_2", got.BuildID)
	assert.Equal(t, "numpy-ext-1.10-np110py27_nomkl_2", got.Dist)
	assert.Equal(t, "linux-64", got.Subdir)
	assert.Equal(t, []string{"python 2.7*", "numpy 1.10*"}, got.Build)
	assert.Equal(t, []string{"python 2.7*", "numpy 1.10*"}, got.Run)
	assert.Equal(t, []string{"numpy-ext --help"}, got.TestCommands)
	assert.Equal(t, "BSD", got.About.License)
}

func TestRenderCommandGlob(t *testing.T) {
	dir := t.TempDir()
	writeRecipe(t, dir, "a/meta.yaml", testRecipe)
	writeRecipe(t, dir, "b/meta.yaml", "package:\n  name: tool\n  version: 0.1\nbuild: {}\nrequirements: {}\ntest: {}\nabout: {}\n")
	dest := filepath.Join(dir, "out.json")

	_, err := runCLI(t,
		"--python", "27", "--numpy", "110",
		"render", "--glob", filepath.Join(dir, "**", "meta.yaml"), "--jobs", "2",
		"--format", "json", "--output", dest)
	require.NoError(t, err)

	b, err := os.ReadFile(dest)
	require.NoError(t, err)

	var res renderResult
	require.NoError(t, json.Unmarshal(b, &res))
	got := res.Recipes
	require.Len(t, got, 2)
	assert.Equal(t, "numpy-ext", got[0].Name)
	assert.Equal(t, "tool", got[1].Name)
	assert.Equal(t, "tool-0.1-0", got[1].Dist)
}

func TestRenderCommandErrors(t *testing.T) {
	dir := t.TempDir()
	bad := writeRecipe(t, dir, "meta.yaml", "package:\n  name: tool\n  version: 1-0\nbuild: {}\nrequirements: {}\ntest: {}\nabout: {}\n")

	tests := []struct {
		name string
		args []string
	}{
		{name: "no recipes", args: []string{"render"}},
		{name: "no glob matches", args: []string{"render", "--glob", filepath.Join(dir, "*.json")}},
		{name: "invalid recipe", args: []string{"render", "--file", bad}},
		{name: "unknown format", args: []string{"render", "--file", bad, "--format", "xml"}},
		{name: "invalid platform", args: []string{"--platform", "beos", "render", "--file", bad}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestLintCommand(t *testing.T) {
	dir := t.TempDir()
	good := writeRecipe(t, dir, "good/meta.yaml", testRecipe)
	warn := writeRecipe(t, dir, "warn/meta.yaml",
		"package:\n  name: tool\n  version: 0.1\nsource:\n  git_url: https://example.com/tool.git\nbuild: {}\nrequirements:\n  run:\n    - zlib  # [py>=35]\ntest: {}\nabout: {}\n")
	bad := writeRecipe(t, dir, "bad/meta.yaml",
		"package:\n  name: tool\n  version: 1-0\nbuild: {}\nrequirements: {}\ntest: {}\nabout: {}\n")

	t.Run("passing recipes", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "lint.json")
		_, err := runCLI(t, "--python", "27", "--numpy", "110",
			"lint", "--file", good, "--file", warn, "--format", "json", "--output", dest)
		require.NoError(t, err)

		b, err := os.ReadFile(dest)
		require.NoError(t, err)

		var got lintReport
		require.NoError(t, json.Unmarshal(b, &got))
		assert.Equal(t, header.KindLintReport, got.Kind)
		require.Len(t, got.Results, 2)
		assert.Equal(t, lintOK, got.Results[0].Status)
		assert.Equal(t, lintWarn, got.Results[1].Status)
		assert.Equal(t, []int{9}, got.Results[1].Unresolved)
		assert.Equal(t, "git", got.Results[1].VCS)
	})

	t.Run("failing recipe", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "lint.txt")
		_, err := runCLI(t, "--python", "27", "--numpy", "110",
			"lint", "--glob", filepath.Join(dir, "*", "meta.yaml"), "--output", dest)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 3 recipes failed lint")

		b, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Contains(t, string(b), "RECIPE")
		assert.Contains(t, string(b), bad)
		assert.Contains(t, string(b), lintFailed)
	})
}

func TestLintCommandMismatchedPins(t *testing.T) {
	dir := t.TempDir()
	path := writeRecipe(t, dir, "meta.yaml",
		"package:\n  name: tool\n  version: 0.1\nbuild: {}\nrequirements:\n  build:\n    - python x.x\n  run:\n    - python 2.7.8\n    - numpy >=1.9\ntest: {}\nabout: {}\n")

	tests := []struct {
		name       string
		args       []string
		status     string
		mismatched []string
	}{
		{
			name:       "configured python differs",
			args:       []string{"--python", "3.11", "--numpy", "110"},
			status:     lintWarn,
			mismatched: []string{"python 2.7.8 (run)"},
		},
		{
			name:       "finer pin in configured series",
			args:       []string{"--python", "27", "--numpy", "110"},
			status:     lintOK,
			mismatched: nil,
		},
		{
			name:       "numpy below range",
			args:       []string{"--python", "2.7", "--numpy", "18"},
			status:     lintWarn,
			mismatched: []string{"numpy >=1.9 (run)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest := filepath.Join(t.TempDir(), "lint.json")
			args := append(tt.args, "lint", "--file", path, "--format", "json", "--output", dest)
			_, err := runCLI(t, args...)
			require.NoError(t, err)

			b, err := os.ReadFile(dest)
			require.NoError(t, err)

			var got lintReport
			require.NoError(t, json.Unmarshal(b, &got))
			require.Len(t, got.Results, 1)
			assert.Equal(t, tt.status, got.Results[0].Status)
			assert.Equal(t, tt.mismatched, got.Results[0].Mismatched)
		})
	}
}

func TestUnresolvedSelectors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []int
	}{
		{name: "valid selectors", text: "a: 1  # [win]\nb: 2  # [not py3k]\n", want: nil},
		{name: "comparison", text: "a: 1\nb: 2  # [py>=35]\n", want: []int{2}},
		{name: "empty brackets", text: "a: 1  # []\n", want: []int{1}},
		{name: "comment line", text: "# [py>=35]\n", want: nil},
		{name: "plain comment", text: "a: 1  # note\n", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, unresolvedSelectors([]byte(tt.text)))
		})
	}
}
