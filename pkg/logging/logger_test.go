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

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"Warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogLevel(tt.input))
		})
	}
}

func TestStructuredLoggerAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := newStructuredLogger(&buf, "recipekit", "v0.1.0", "info")

	logger.Info("recipe parsed", "name", "numpy")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "recipe parsed", rec["msg"])
	assert.Equal(t, "recipekit", rec["module"])
	assert.Equal(t, "v0.1.0", rec["version"])
	assert.Equal(t, "numpy", rec["name"])
	assert.NotContains(t, rec, "source")
}

func TestStructuredLoggerDebugSource(t *testing.T) {
	var buf bytes.Buffer
	logger := newStructuredLogger(&buf, "recipekit", "dev", "debug")

	logger.Debug("pinned")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Contains(t, rec, "source")
}

func TestStructuredLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newStructuredLogger(&buf, "recipekit", "dev", "warn")

	logger.Info("ignored")
	assert.Zero(t, buf.Len())
}
