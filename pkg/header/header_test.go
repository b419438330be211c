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

package header

import (
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	h := New(KindLintReport, "v1.2.3", WithMetadata("subdir", "linux-64"))

	if h.Kind != KindLintReport {
		t.Errorf("Kind = %q, want %q", h.Kind, KindLintReport)
	}
	if h.APIVersion != APIVersion {
		t.Errorf("APIVersion = %q, want %q", h.APIVersion, APIVersion)
	}
	if got := h.Metadata["version"]; got != "v1.2.3" {
		t.Errorf("version = %q, want v1.2.3", got)
	}
	if got := h.Metadata["subdir"]; got != "linux-64" {
		t.Errorf("subdir = %q, want linux-64", got)
	}
	if _, err := time.Parse(time.RFC3339, h.Metadata["timestamp"]); err != nil {
		t.Errorf("timestamp not RFC3339: %v", err)
	}
}

func TestInitWithoutVersion(t *testing.T) {
	var h Header
	h.Init(KindRenderResult, "")
	if _, ok := h.Metadata["version"]; ok {
		t.Error("expected no version key")
	}
	if len(h.Metadata) != 1 {
		t.Errorf("Metadata = %v, want only timestamp", h.Metadata)
	}
}

func TestKindIsValid(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindRenderResult, true},
		{KindLintReport, true},
		{Kind("Snapshot"), false},
		{Kind(""), false},
	}
	for _, tt := range tests {
		if got := tt.kind.IsValid(); got != tt.want {
			t.Errorf("%q.IsValid() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}
