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

package metadata

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mchmarny/recipekit/pkg/config"
	"github.com/mchmarny/recipekit/pkg/errors"
)

// Build script names looked up next to a recipe file.
const (
	BuildScriptUnix    = "build.sh"
	BuildScriptWindows = "bld.bat"
)

// LoadFile reads and parses a recipe file. The platform build script in the
// same directory, when present, is attached for UsesVCSInBuild.
func LoadFile(path string, cfg *config.Config, opts ...Option) (*MetaData, error) {
	if cfg == nil {
		cfg = config.New()
	}

	text, err := os.ReadFile(path)
	if err != nil {
		code := errors.ErrCodeInternal
		if stderrors.Is(err, fs.ErrNotExist) {
			code = errors.ErrCodeNotFound
		}
		return nil, errors.WrapWithContext(code, "failed to read recipe", err, map[string]any{"path": path})
	}

	script := BuildScriptUnix
	if cfg.Platform == config.PlatformWin {
		script = BuildScriptWindows
	}
	scriptPath := filepath.Join(filepath.Dir(path), script)
	if b, readErr := os.ReadFile(scriptPath); readErr == nil {
		opts = append([]Option{WithBuildScript(b)}, opts...)
	} else if !stderrors.Is(readErr, fs.ErrNotExist) {
		return nil, errors.WrapWithContext(errors.ErrCodeInternal,
			"failed to read build script", readErr, map[string]any{"path": scriptPath})
	}

	return Parse(text, cfg, append([]Option{WithPath(path)}, opts...)...)
}
